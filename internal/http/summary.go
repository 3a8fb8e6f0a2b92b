package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muhsinkutay/mediatrack/internal/database/summaries"
	"github.com/muhsinkutay/mediatrack/internal/tasks"
)

// SummaryController handles summary snapshot endpoints.
type SummaryController struct {
	summaries *summaries.Repository
	tasks     *tasks.Client
}

// NewSummaryController creates a new SummaryController.
func NewSummaryController(summaryRepo *summaries.Repository, taskClient *tasks.Client) *SummaryController {
	return &SummaryController{summaries: summaryRepo, tasks: taskClient}
}

// Get handles GET /api/summary. A user with no snapshot yet gets an empty one
// rather than a 404.
func (sc *SummaryController) Get(c *gin.Context) {
	snapshot, err := sc.summaries.GetCurrent(GetUserID(c))
	if err != nil {
		respondServiceError(c, err, "get summary")
		return
	}
	if snapshot == nil {
		c.JSON(http.StatusOK, gin.H{"summary": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": snapshot})
}

// Regenerate handles POST /api/summary/regenerate. The recomputation runs on
// the task queue; the response only acknowledges the enqueue.
func (sc *SummaryController) Regenerate(c *gin.Context) {
	if sc.tasks == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "task queue is disabled"})
		return
	}
	task := tasks.RecalculateSummaryTask{UserID: GetUserID(c)}
	if _, err := sc.tasks.Add(task).Ctx(c.Request.Context()).Save(); err != nil {
		respondInternalError(c, err, "enqueue summary recalculation")
		return
	}
	c.JSON(http.StatusAccepted, SuccessResponse{Message: "summary recalculation queued"})
}
