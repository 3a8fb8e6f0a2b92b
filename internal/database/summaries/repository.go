// Package summaries provides database operations for summary snapshots.
package summaries

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/muhsinkutay/mediatrack/internal/entities"
)

// Repository handles all summary database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new summaries repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetCurrent returns the newest summary snapshot for a user, or (nil, nil)
// when none has been computed yet.
func (r *Repository) GetCurrent(userID uint) (*entities.UserSummary, error) {
	var summary entities.UserSummary
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_on DESC").
		First(&summary).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// DeleteForUser removes every summary snapshot a user has.
func (r *Repository) DeleteForUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&entities.UserSummary{}).Error
}

// Create inserts a new summary snapshot.
func (r *Repository) Create(summary *entities.UserSummary) error {
	return r.db.Create(summary).Error
}

// EachCompletedSeen streams a user's completed seen records through fn via a
// forward-only cursor, without materializing the full result set. Iteration
// stops with the first error from fn or from the cancelled context.
func (r *Repository) EachCompletedSeen(ctx context.Context, userID uint, fn func(entities.SeenRecord) error) error {
	rows, err := r.db.WithContext(ctx).
		Model(&entities.SeenRecord{}).
		Where("user_id = ? AND progress = ?", userID, 100).
		Order("last_updated_on ASC").
		Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		var record entities.SeenRecord
		if err := r.db.ScanRows(rows, &record); err != nil {
			return err
		}
		if err := fn(record); err != nil {
			return err
		}
	}
	return rows.Err()
}
