// Package collections provides database operations for collection management.
package collections

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/muhsinkutay/mediatrack/internal/entities"
)

// Repository handles all collection database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new collections repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByName retrieves a user's collection by name. Returns (nil, nil) when
// the user has no collection with that name.
func (r *Repository) GetByName(userID uint, name string) (*entities.Collection, error) {
	var collection entities.Collection
	err := r.db.Where("user_id = ? AND name = ?", userID, name).First(&collection).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &collection, nil
}

// ListForUser returns all collections owned by a user, oldest first.
func (r *Repository) ListForUser(userID uint) ([]entities.Collection, error) {
	var collections []entities.Collection
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&collections).Error
	return collections, err
}

// Create inserts a new collection.
func (r *Repository) Create(collection *entities.Collection) error {
	return r.db.Create(collection).Error
}

// Delete removes a collection and its memberships.
func (r *Repository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection_id = ?", id).Delete(&entities.CollectionEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Collection{}, id).Error
	})
}

// AddEntry inserts a (collection, metadata) membership. Re-adding an existing
// membership is a no-op.
func (r *Repository) AddEntry(collectionID, metadataID uint) error {
	entry := entities.CollectionEntry{
		CollectionID: collectionID,
		MetadataID:   metadataID,
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry).Error
}

// RemoveEntry deletes a (collection, metadata) membership. Absence of the
// membership is not an error.
func (r *Repository) RemoveEntry(collectionID, metadataID uint) error {
	return r.db.
		Where("collection_id = ? AND metadata_id = ?", collectionID, metadataID).
		Delete(&entities.CollectionEntry{}).Error
}

// ListEntries returns the metadata items belonging to a collection.
func (r *Repository) ListEntries(collectionID uint) ([]entities.MediaMetadata, error) {
	var items []entities.MediaMetadata
	err := r.db.
		Joins("JOIN collection_entries ON collection_entries.metadata_id = media_metadata.id").
		Where("collection_entries.collection_id = ?", collectionID).
		Find(&items).Error
	return items, err
}
