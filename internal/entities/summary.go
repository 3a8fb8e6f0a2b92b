package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type AudioBooksSummary struct {
	Played  int `json:"played"`
	Runtime int `json:"runtime"` // minutes
}

type AnimeSummary struct {
	Watched  int `json:"watched"`
	Episodes int `json:"episodes"`
}

type BooksSummary struct {
	Read  int `json:"read"`
	Pages int `json:"pages"`
}

type MangaSummary struct {
	Read     int `json:"read"`
	Chapters int `json:"chapters"`
}

type MoviesSummary struct {
	Watched int `json:"watched"`
	Runtime int `json:"runtime"` // minutes
}

type PodcastsSummary struct {
	Played         int `json:"played"` // distinct podcasts
	PlayedEpisodes int `json:"played_episodes"`
	Runtime        int `json:"runtime"` // minutes
}

type ShowsSummary struct {
	Watched         int `json:"watched"` // distinct shows
	WatchedEpisodes int `json:"watched_episodes"`
	WatchedSeasons  int `json:"watched_seasons"`
	Runtime         int `json:"runtime"` // minutes
}

type VideoGamesSummary struct {
	Played int `json:"played"`
}

// SummaryData holds the aggregated per-lot counters of one summary snapshot.
type SummaryData struct {
	AudioBooks AudioBooksSummary `json:"audio_books"`
	Anime      AnimeSummary      `json:"anime"`
	Books      BooksSummary      `json:"books"`
	Manga      MangaSummary      `json:"manga"`
	Movies     MoviesSummary     `json:"movies"`
	Podcasts   PodcastsSummary   `json:"podcasts"`
	Shows      ShowsSummary      `json:"shows"`
	VideoGames VideoGamesSummary `json:"video_games"`
}

// Value implements driver.Valuer so the counters persist as a JSON column.
func (d SummaryData) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements sql.Scanner for reading the JSON column back.
func (d *SummaryData) Scan(value any) error {
	if value == nil {
		*d = SummaryData{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("unsupported type %T for SummaryData", value)
	}
}

// UserSummary is a full snapshot of a user's consumption statistics. It is
// replaced wholesale on each recompute; the newest row per user is current.
type UserSummary struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	UserID    uint        `gorm:"index" json:"user_id"`
	CreatedOn time.Time   `json:"created_on"`
	Data      SummaryData `gorm:"type:text" json:"data"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (UserSummary) TableName() string {
	return "user_summaries"
}
