package entities

import "time"

// ReviewVisibility controls who can read a review.
type ReviewVisibility string

const (
	ReviewVisibilityPublic  ReviewVisibility = "public"
	ReviewVisibilityPrivate ReviewVisibility = "private"
)

// Review is a user's written opinion of a metadata item. Reviews follow their
// metadata through merges.
type Review struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	UserID     uint             `gorm:"index" json:"user_id"`
	MetadataID uint             `gorm:"index" json:"metadata_id"`
	Rating     *int             `json:"rating,omitempty"` // 1-100
	Text       string           `gorm:"type:text" json:"text,omitempty"`
	Spoiler    bool             `gorm:"default:false" json:"spoiler"`
	Visibility ReviewVisibility `gorm:"size:20;default:'public'" json:"visibility"`
	PostedOn   time.Time        `json:"posted_on"`

	Metadata MediaMetadata `gorm:"foreignKey:MetadataID" json:"-"`
	User     User          `gorm:"foreignKey:UserID" json:"-"`
}

func (Review) TableName() string {
	return "reviews"
}
