package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muhsinkutay/mediatrack/internal/collections"
)

// CollectionsController handles collection management endpoints.
type CollectionsController struct {
	collections *collections.Service
}

// NewCollectionsController creates a new CollectionsController.
func NewCollectionsController(collectionSvc *collections.Service) *CollectionsController {
	return &CollectionsController{collections: collectionSvc}
}

// List handles GET /api/collections
func (cc *CollectionsController) List(c *gin.Context) {
	items, err := cc.collections.ListForUser(GetUserID(c))
	if err != nil {
		respondServiceError(c, err, "list collections")
		return
	}
	c.JSON(http.StatusOK, gin.H{"collections": items})
}

// CreateCollectionRequest is the JSON body for creating a collection.
type CreateCollectionRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
}

// Create handles POST /api/collections
func (cc *CollectionsController) Create(c *gin.Context) {
	var req CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	created, err := cc.collections.Create(GetUserID(c), req.Name, req.Description)
	if err != nil {
		respondServiceError(c, err, "create collection")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Delete handles DELETE /api/collections/:name
func (cc *CollectionsController) Delete(c *gin.Context) {
	if err := cc.collections.Delete(GetUserID(c), c.Param("name")); err != nil {
		respondServiceError(c, err, "delete collection")
		return
	}
	respondSuccess(c, "collection deleted")
}

// Entries handles GET /api/collections/:name/entries
func (cc *CollectionsController) Entries(c *gin.Context) {
	items, err := cc.collections.ListEntries(GetUserID(c), c.Param("name"))
	if err != nil {
		respondServiceError(c, err, "list collection entries")
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": items})
}

// CollectionEntryRequest is the JSON body for adding or removing a media item.
type CollectionEntryRequest struct {
	MetadataID uint `json:"metadata_id" binding:"required"`
}

// AddEntry handles POST /api/collections/:name/entries
func (cc *CollectionsController) AddEntry(c *gin.Context) {
	var req CollectionEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if err := cc.collections.AddMedia(GetUserID(c), c.Param("name"), req.MetadataID); err != nil {
		respondServiceError(c, err, "add collection entry")
		return
	}
	respondSuccess(c, "media added to collection")
}

// RemoveEntry handles DELETE /api/collections/:name/entries/:id
func (cc *CollectionsController) RemoveEntry(c *gin.Context) {
	metadataID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := cc.collections.RemoveMedia(GetUserID(c), c.Param("name"), metadataID); err != nil {
		respondServiceError(c, err, "remove collection entry")
		return
	}
	respondSuccess(c, "media removed from collection")
}
