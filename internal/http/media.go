package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/muhsinkutay/mediatrack/internal/auth"
	"github.com/muhsinkutay/mediatrack/internal/database/media"
	"github.com/muhsinkutay/mediatrack/internal/entities"
	"github.com/muhsinkutay/mediatrack/internal/library"
)

// MediaController handles metadata endpoints.
type MediaController struct {
	media   *media.Repository
	library *library.Service
	auth    *auth.Service
}

// NewMediaController creates a new MediaController.
func NewMediaController(mediaRepo *media.Repository, librarySvc *library.Service, authSvc *auth.Service) *MediaController {
	return &MediaController{media: mediaRepo, library: librarySvc, auth: authSvc}
}

// GetMetadata handles GET /api/media/:id
func (mc *MediaController) GetMetadata(c *gin.Context) {
	metadataID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	meta, err := mc.media.GetByID(metadataID)
	if err != nil {
		respondServiceError(c, err, "get metadata")
		return
	}
	c.JSON(http.StatusOK, meta)
}

// ListMetadata handles GET /api/media
func (mc *MediaController) ListMetadata(c *gin.Context) {
	lot := entities.MediaLot(c.Query("lot"))
	if lot != "" && !lot.Valid() {
		respondBadRequest(c, "unknown media lot: "+string(lot))
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 500 {
		respondBadRequest(c, "limit must be between 1 and 500")
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		respondBadRequest(c, "offset must be a non-negative integer")
		return
	}

	items, total, err := mc.media.List(lot, limit, offset)
	if err != nil {
		respondServiceError(c, err, "list metadata")
		return
	}
	c.JSON(http.StatusOK, gin.H{"media": items, "total": total})
}

// CreateCustomMediaRequest is the JSON body for creating a custom media item.
type CreateCustomMediaRequest struct {
	Title       string                   `json:"title" binding:"required"`
	Lot         entities.MediaLot        `json:"lot" binding:"required"`
	Description string                   `json:"description,omitempty"`
	PublishYear *int                     `json:"publish_year,omitempty"`
	Specifics   *entities.MediaSpecifics `json:"specifics,omitempty"`
}

// CreateCustomMedia handles POST /api/media
func (mc *MediaController) CreateCustomMedia(c *gin.Context) {
	var req CreateCustomMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if !req.Lot.Valid() {
		respondBadRequest(c, "unknown media lot: "+string(req.Lot))
		return
	}

	meta := &entities.MediaMetadata{
		Title:       req.Title,
		Lot:         req.Lot,
		Description: req.Description,
		PublishYear: req.PublishYear,
		Source:      entities.MediaSourceCustom,
	}
	if req.Specifics != nil {
		meta.Specifics = *req.Specifics
	}

	created, err := mc.library.CreateCustomMedia(GetUserID(c), meta)
	if err != nil {
		respondServiceError(c, err, "create custom media")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// MergeMetadataRequest is the JSON body for merging one metadata item into another.
type MergeMetadataRequest struct {
	MergeFrom uint `json:"merge_from" binding:"required"`
	MergeInto uint `json:"merge_into" binding:"required"`
}

// MergeMetadata handles POST /api/media/merge. Admins only. With auth
// disabled there is a single implicit user who may merge freely.
func (mc *MediaController) MergeMetadata(c *gin.Context) {
	if mc.auth != nil {
		user, err := mc.auth.GetUserByID(GetUserID(c))
		if err != nil || user.Role != entities.UserRoleAdmin {
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "merging media requires an admin account"})
			return
		}
	}

	var req MergeMetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if err := mc.library.MergeMetadata(req.MergeFrom, req.MergeInto); err != nil {
		respondServiceError(c, err, "merge metadata")
		return
	}
	respondSuccess(c, "media merged")
}
