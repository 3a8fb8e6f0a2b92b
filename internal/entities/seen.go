package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// SeenShowInformation locates the exact episode a show seen record is about.
type SeenShowInformation struct {
	Season  int `json:"season"`
	Episode int `json:"episode"`
}

// SeenPodcastInformation locates the episode a podcast seen record is about.
type SeenPodcastInformation struct {
	Episode int `json:"episode"`
}

// SeenExtraInformation is the optional episodic locator attached to a seen
// record. At most one variant is set, matching the metadata's lot.
type SeenExtraInformation struct {
	Show    *SeenShowInformation    `json:"show,omitempty"`
	Podcast *SeenPodcastInformation `json:"podcast,omitempty"`
}

// Value implements driver.Valuer so the locator persists as a JSON column.
func (s SeenExtraInformation) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for reading the JSON column back.
func (s *SeenExtraInformation) Scan(value any) error {
	if value == nil {
		*s = SeenExtraInformation{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported type %T for SeenExtraInformation", value)
	}
}

// SeenRecord is a persisted fact that a user reported consumption progress
// against a metadata item. Progress is a percentage in [0,100]; FinishedOn is
// only ever set alongside progress reaching 100.
type SeenRecord struct {
	ID               uint                  `gorm:"primaryKey" json:"id"`
	UserID           uint                  `gorm:"index" json:"user_id"`
	MetadataID       uint                  `gorm:"index" json:"metadata_id"`
	Progress         int                   `json:"progress"`
	StartedOn        *time.Time            `json:"started_on,omitempty"`
	FinishedOn       *time.Time            `json:"finished_on,omitempty"`
	Dropped          bool                  `gorm:"default:false" json:"dropped"`
	LastUpdatedOn    time.Time             `gorm:"index" json:"last_updated_on"`
	Identifier       string                `gorm:"index;size:64" json:"identifier"`
	ExtraInformation *SeenExtraInformation `gorm:"type:text" json:"extra_information,omitempty"`

	Metadata MediaMetadata `gorm:"foreignKey:MetadataID" json:"-"`
	User     User          `gorm:"foreignKey:UserID" json:"-"`
}

func (SeenRecord) TableName() string {
	return "seen_records"
}

// Finished reports whether the record represents completed consumption.
func (s SeenRecord) Finished() bool {
	return s.Progress == 100
}
