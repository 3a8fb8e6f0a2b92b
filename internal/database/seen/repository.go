// Package seen provides database operations for consumption records.
package seen

import (
	"errors"

	"gorm.io/gorm"

	"github.com/muhsinkutay/mediatrack/internal/entities"
)

// Repository handles all seen-record database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new seen-record repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByID retrieves a seen record by its primary key.
func (r *Repository) GetByID(id uint) (*entities.SeenRecord, error) {
	var record entities.SeenRecord
	err := r.db.First(&record, id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetByIdentifier retrieves a seen record by its client-supplied idempotency
// key. Returns (nil, nil) when no record carries the identifier.
func (r *Repository) GetByIdentifier(identifier string) (*entities.SeenRecord, error) {
	var record entities.SeenRecord
	err := r.db.Where("identifier = ?", identifier).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetActive returns the most recently updated record for (user, metadata)
// that is neither complete nor dropped, or (nil, nil) when none exists.
// Several sub-100 records may coexist for a pair; the newest one wins.
func (r *Repository) GetActive(userID, metadataID uint) (*entities.SeenRecord, error) {
	var record entities.SeenRecord
	err := r.db.
		Where("user_id = ? AND metadata_id = ?", userID, metadataID).
		Where("progress < ?", 100).
		Where("dropped != ?", true).
		Order("last_updated_on DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetLatest returns the most recently updated non-dropped record for
// (user, metadata) regardless of progress, or (nil, nil) when none exists.
func (r *Repository) GetLatest(userID, metadataID uint) (*entities.SeenRecord, error) {
	var record entities.SeenRecord
	err := r.db.
		Where("user_id = ? AND metadata_id = ?", userID, metadataID).
		Where("dropped != ?", true).
		Order("last_updated_on DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Create inserts a new seen record.
func (r *Repository) Create(record *entities.SeenRecord) error {
	return r.db.Create(record).Error
}

// Save persists all fields of an existing record.
func (r *Repository) Save(record *entities.SeenRecord) error {
	return r.db.Save(record).Error
}

// Delete removes a seen record by ID.
func (r *Repository) Delete(id uint) error {
	return r.db.Delete(&entities.SeenRecord{}, id).Error
}

// History returns a user's records for one metadata item, newest first.
func (r *Repository) History(userID, metadataID uint) ([]entities.SeenRecord, error) {
	var records []entities.SeenRecord
	err := r.db.
		Where("user_id = ? AND metadata_id = ?", userID, metadataID).
		Order("last_updated_on DESC").
		Find(&records).Error
	return records, err
}
