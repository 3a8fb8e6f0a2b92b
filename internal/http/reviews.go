package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muhsinkutay/mediatrack/internal/entities"
	"github.com/muhsinkutay/mediatrack/internal/library"
)

// ReviewsController handles review endpoints.
type ReviewsController struct {
	library *library.Service
}

// NewReviewsController creates a new ReviewsController.
func NewReviewsController(librarySvc *library.Service) *ReviewsController {
	return &ReviewsController{library: librarySvc}
}

// PostReviewRequest is the JSON body for posting a review.
type PostReviewRequest struct {
	MetadataID uint   `json:"metadata_id" binding:"required"`
	Rating     *int   `json:"rating,omitempty"`
	Text       string `json:"text,omitempty"`
	Spoiler    bool   `json:"spoiler,omitempty"`
	Visibility string `json:"visibility,omitempty"`
}

// Post handles POST /api/reviews
func (rc *ReviewsController) Post(c *gin.Context) {
	var req PostReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	visibility := entities.ReviewVisibility(req.Visibility)
	if visibility == "" {
		visibility = entities.ReviewVisibilityPublic
	}
	if visibility != entities.ReviewVisibilityPublic && visibility != entities.ReviewVisibilityPrivate {
		respondBadRequest(c, "visibility must be public or private")
		return
	}

	review := &entities.Review{
		MetadataID: req.MetadataID,
		Rating:     req.Rating,
		Text:       req.Text,
		Spoiler:    req.Spoiler,
		Visibility: visibility,
	}
	created, err := rc.library.PostReview(GetUserID(c), review)
	if err != nil {
		respondServiceError(c, err, "post review")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Delete handles DELETE /api/reviews/:id
func (rc *ReviewsController) Delete(c *gin.Context) {
	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := rc.library.DeleteReview(GetUserID(c), reviewID); err != nil {
		respondServiceError(c, err, "delete review")
		return
	}
	respondSuccess(c, "review deleted")
}

// ListForMetadata handles GET /api/media/:id/reviews
func (rc *ReviewsController) ListForMetadata(c *gin.Context) {
	metadataID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	items, err := rc.library.ListReviews(GetUserID(c), metadataID)
	if err != nil {
		respondServiceError(c, err, "list reviews")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": items})
}
