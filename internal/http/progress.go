package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/muhsinkutay/mediatrack/internal/library"
	"github.com/muhsinkutay/mediatrack/internal/progress"
)

// ProgressController handles progress-report endpoints.
type ProgressController struct {
	progress *progress.Service
	library  *library.Service
}

// NewProgressController creates a new ProgressController.
func NewProgressController(progressSvc *progress.Service, librarySvc *library.Service) *ProgressController {
	return &ProgressController{progress: progressSvc, library: librarySvc}
}

// ProgressUpdateRequest is the JSON body of a progress report. Progress and
// Date are optional; the episode locators are required for shows/podcasts.
type ProgressUpdateRequest struct {
	Identifier     string `json:"identifier" binding:"required"`
	MetadataID     uint   `json:"metadata_id" binding:"required"`
	Progress       *int   `json:"progress,omitempty"`
	Date           string `json:"date,omitempty"` // YYYY-MM-DD
	ShowSeason     *int   `json:"show_season_number,omitempty"`
	ShowEpisode    *int   `json:"show_episode_number,omitempty"`
	PodcastEpisode *int   `json:"podcast_episode_number,omitempty"`
}

// RecordProgress handles POST /api/progress
func (pc *ProgressController) RecordProgress(c *gin.Context) {
	var req ProgressUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	input := progress.UpdateInput{
		Identifier:     req.Identifier,
		MetadataID:     req.MetadataID,
		Progress:       req.Progress,
		ShowSeason:     req.ShowSeason,
		ShowEpisode:    req.ShowEpisode,
		PodcastEpisode: req.PodcastEpisode,
	}
	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			respondBadRequest(c, "date must be formatted as YYYY-MM-DD")
			return
		}
		input.Date = &date
	}

	recordID, err := pc.progress.RecordProgress(c.Request.Context(), GetUserID(c), input)
	if err != nil {
		respondServiceError(c, err, "record progress")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": recordID})
}

// SeenHistory handles GET /api/media/:id/history
func (pc *ProgressController) SeenHistory(c *gin.Context) {
	metadataID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	records, err := pc.library.SeenHistory(GetUserID(c), metadataID)
	if err != nil {
		respondServiceError(c, err, "seen history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": records})
}

// DeleteSeenRecord handles DELETE /api/seen/:id
func (pc *ProgressController) DeleteSeenRecord(c *gin.Context) {
	seenID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := pc.library.DeleteSeenRecord(GetUserID(c), seenID); err != nil {
		respondServiceError(c, err, "delete seen record")
		return
	}
	respondSuccess(c, "seen record deleted")
}
