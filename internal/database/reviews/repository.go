// Package reviews provides database operations for media reviews.
package reviews

import (
	"gorm.io/gorm"

	"github.com/muhsinkutay/mediatrack/internal/entities"
)

// Repository handles all review database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new reviews repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByID retrieves a review by its primary key.
func (r *Repository) GetByID(id uint) (*entities.Review, error) {
	var review entities.Review
	err := r.db.First(&review, id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Create inserts a new review.
func (r *Repository) Create(review *entities.Review) error {
	return r.db.Create(review).Error
}

// Delete removes a review by ID.
func (r *Repository) Delete(id uint) error {
	return r.db.Delete(&entities.Review{}, id).Error
}

// ListForMetadata returns reviews of a metadata item, newest first. Private
// reviews of other users are excluded.
func (r *Repository) ListForMetadata(metadataID, viewerID uint) ([]entities.Review, error) {
	var reviews []entities.Review
	err := r.db.
		Where("metadata_id = ?", metadataID).
		Where("visibility = ? OR user_id = ?", entities.ReviewVisibilityPublic, viewerID).
		Order("posted_on DESC").
		Find(&reviews).Error
	return reviews, err
}
