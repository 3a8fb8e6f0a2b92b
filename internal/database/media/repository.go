// Package media provides database operations for the shared media catalogue.
//
// Metadata is read-mostly and shared across users, so reads go through a
// short-lived in-memory cache. Every write path invalidates the affected
// entries.
package media

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"github.com/muhsinkutay/mediatrack/internal/entities"
)

// Repository handles all media metadata database operations.
type Repository struct {
	db    *gorm.DB
	cache *gocache.Cache
}

// NewRepository creates a new metadata repository. Reads are cached for ttl;
// a non-positive ttl falls back to 10 minutes.
func NewRepository(db *gorm.DB, ttl time.Duration) *Repository {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Repository{
		db:    db,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func cacheKey(id uint) string {
	return fmt.Sprintf("metadata:%d", id)
}

// GetByID retrieves a metadata item by ID, consulting the cache first.
func (r *Repository) GetByID(id uint) (*entities.MediaMetadata, error) {
	if cached, ok := r.cache.Get(cacheKey(id)); ok {
		if meta, ok := cached.(*entities.MediaMetadata); ok {
			return meta, nil
		}
	}

	var meta entities.MediaMetadata
	if err := r.db.First(&meta, id).Error; err != nil {
		return nil, err
	}
	r.cache.SetDefault(cacheKey(id), &meta)
	return &meta, nil
}

// Create inserts a new metadata item.
func (r *Repository) Create(meta *entities.MediaMetadata) error {
	return r.db.Create(meta).Error
}

// Save persists all fields of an existing metadata item.
func (r *Repository) Save(meta *entities.MediaMetadata) error {
	if err := r.db.Save(meta).Error; err != nil {
		return err
	}
	r.cache.Delete(cacheKey(meta.ID))
	return nil
}

// List returns metadata items filtered by lot (all lots when empty), newest
// first, with pagination.
func (r *Repository) List(lot entities.MediaLot, limit, offset int) ([]entities.MediaMetadata, int64, error) {
	var items []entities.MediaMetadata
	var total int64

	query := r.db.Model(&entities.MediaMetadata{})
	if lot != "" {
		query = query.Where("lot = ?", lot)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&items).Error
	return items, total, err
}

// MergeInto moves every seen and review row from one metadata item to
// another and deletes the source item. The whole operation runs inside a
// single transaction; a failure at any step rolls everything back.
func (r *Repository) MergeInto(mergeFrom, mergeInto uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var target entities.MediaMetadata
		if err := tx.First(&target, mergeInto).Error; err != nil {
			return fmt.Errorf("merge target %d: %w", mergeInto, err)
		}

		var seenRecords []entities.SeenRecord
		if err := tx.Where("metadata_id = ?", mergeFrom).Find(&seenRecords).Error; err != nil {
			return err
		}
		for _, old := range seenRecords {
			replacement := old
			replacement.ID = 0
			replacement.MetadataID = mergeInto
			if err := tx.Create(&replacement).Error; err != nil {
				return err
			}
			if err := tx.Delete(&entities.SeenRecord{}, old.ID).Error; err != nil {
				return err
			}
		}

		var reviews []entities.Review
		if err := tx.Where("metadata_id = ?", mergeFrom).Find(&reviews).Error; err != nil {
			return err
		}
		for _, old := range reviews {
			replacement := old
			replacement.ID = 0
			replacement.MetadataID = mergeInto
			if err := tx.Create(&replacement).Error; err != nil {
				return err
			}
			if err := tx.Delete(&entities.Review{}, old.ID).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&entities.MediaMetadata{}, mergeFrom).Error
	})
	if err != nil {
		return err
	}

	r.cache.Delete(cacheKey(mergeFrom))
	r.cache.Delete(cacheKey(mergeInto))
	return nil
}
