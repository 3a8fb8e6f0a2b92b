package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/muhsinkutay/mediatrack/internal/auth"
	"github.com/muhsinkutay/mediatrack/internal/collections"
	"github.com/muhsinkutay/mediatrack/internal/library"
	"github.com/muhsinkutay/mediatrack/internal/progress"
)

// GetUserID extracts the authenticated user's ID from the Gin context.
func GetUserID(c *gin.Context) uint {
	return auth.GetUserID(c)
}

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 response. The actual
// error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

// respondServiceError translates service-layer sentinel errors into HTTP
// status codes. Unrecognized errors become opaque 500s.
func respondServiceError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, progress.ErrNothingInProgress),
		errors.Is(err, collections.ErrCollectionExists):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, progress.ErrProgressOutOfRange),
		errors.Is(err, progress.ErrIdentifierRequired),
		errors.Is(err, progress.ErrSeasonEpisodeRequired),
		errors.Is(err, progress.ErrEpisodeRequired),
		errors.Is(err, library.ErrLotSpecificsDiffer),
		errors.Is(err, library.ErrRatingOutOfRange),
		errors.Is(err, library.ErrSelfMerge),
		errors.Is(err, collections.ErrNameRequired),
		errors.Is(err, collections.ErrDefaultCollection):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, library.ErrNotOwner):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, collections.ErrCollectionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "record not found"})
	default:
		respondInternalError(c, err, context)
	}
}

// parseIDParam parses a uint path parameter, responding 400 on failure.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
