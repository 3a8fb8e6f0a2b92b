package entities

import "time"

// Collection is a named grouping of media owned by one user. Collection names
// are unique per user; a fixed subset of names is system-seeded and protected
// from deletion.
type Collection struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index:idx_collection_user_name,unique" json:"user_id"`
	Name        string    `gorm:"index:idx_collection_user_name,unique;size:100" json:"name"`
	Description string    `gorm:"size:512" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	User    User            `gorm:"foreignKey:UserID" json:"-"`
	Entries []MediaMetadata `gorm:"many2many:collection_entries;" json:"entries,omitempty"`
}

func (Collection) TableName() string {
	return "collections"
}

// CollectionEntry is the (collection, metadata) membership pair.
type CollectionEntry struct {
	CollectionID uint `gorm:"primaryKey" json:"collection_id"`
	MetadataID   uint `gorm:"primaryKey" json:"metadata_id"`
}

func (CollectionEntry) TableName() string {
	return "collection_entries"
}
