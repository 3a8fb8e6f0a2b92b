package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// MediaLot discriminates the kind of media a metadata item describes.
type MediaLot string

const (
	MediaLotAudioBook MediaLot = "audio_book"
	MediaLotAnime     MediaLot = "anime"
	MediaLotBook      MediaLot = "book"
	MediaLotManga     MediaLot = "manga"
	MediaLotMovie     MediaLot = "movie"
	MediaLotPodcast   MediaLot = "podcast"
	MediaLotShow      MediaLot = "show"
	MediaLotVideoGame MediaLot = "video_game"
)

// AllMediaLots lists every supported lot, used for input validation.
var AllMediaLots = []MediaLot{
	MediaLotAudioBook,
	MediaLotAnime,
	MediaLotBook,
	MediaLotManga,
	MediaLotMovie,
	MediaLotPodcast,
	MediaLotShow,
	MediaLotVideoGame,
}

// Valid reports whether the lot is one of the known discriminators.
func (l MediaLot) Valid() bool {
	for _, lot := range AllMediaLots {
		if l == lot {
			return true
		}
	}
	return false
}

type AudioBookSpecifics struct {
	Runtime *int `json:"runtime,omitempty"` // minutes
}

type AnimeSpecifics struct {
	Episodes *int `json:"episodes,omitempty"`
}

type BookSpecifics struct {
	Pages *int `json:"pages,omitempty"`
}

type MangaSpecifics struct {
	Chapters *int `json:"chapters,omitempty"`
	Volumes  *int `json:"volumes,omitempty"`
}

type MovieSpecifics struct {
	Runtime *int `json:"runtime,omitempty"` // minutes
}

type PodcastSpecifics struct {
	TotalEpisodes int              `json:"total_episodes"`
	Episodes      []PodcastEpisode `json:"episodes"`
}

type PodcastEpisode struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	Runtime *int   `json:"runtime,omitempty"` // minutes
}

type ShowSpecifics struct {
	Seasons []ShowSeason `json:"seasons"`
}

type ShowSeason struct {
	SeasonNumber int           `json:"season_number"`
	Name         string        `json:"name"`
	Episodes     []ShowEpisode `json:"episodes"`
}

type ShowEpisode struct {
	EpisodeNumber int    `json:"episode_number"`
	Name          string `json:"name"`
	Runtime       *int   `json:"runtime,omitempty"` // minutes
}

type VideoGameSpecifics struct {
	Platforms []string `json:"platforms,omitempty"`
}

// MediaSpecifics is the lot-specific payload of a metadata item. Exactly one
// field is non-nil, matching the owning metadata's Lot.
type MediaSpecifics struct {
	AudioBook *AudioBookSpecifics `json:"audio_book,omitempty"`
	Anime     *AnimeSpecifics     `json:"anime,omitempty"`
	Book      *BookSpecifics      `json:"book,omitempty"`
	Manga     *MangaSpecifics     `json:"manga,omitempty"`
	Movie     *MovieSpecifics     `json:"movie,omitempty"`
	Podcast   *PodcastSpecifics   `json:"podcast,omitempty"`
	Show      *ShowSpecifics      `json:"show,omitempty"`
	VideoGame *VideoGameSpecifics `json:"video_game,omitempty"`
}

// MatchesLot reports whether the populated variant agrees with the lot.
func (s MediaSpecifics) MatchesLot(lot MediaLot) bool {
	switch lot {
	case MediaLotAudioBook:
		return s.AudioBook != nil
	case MediaLotAnime:
		return s.Anime != nil
	case MediaLotBook:
		return s.Book != nil
	case MediaLotManga:
		return s.Manga != nil
	case MediaLotMovie:
		return s.Movie != nil
	case MediaLotPodcast:
		return s.Podcast != nil
	case MediaLotShow:
		return s.Show != nil
	case MediaLotVideoGame:
		return s.VideoGame != nil
	}
	return false
}

// Value implements driver.Valuer so specifics persist as a JSON column.
func (s MediaSpecifics) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for reading the JSON column back.
func (s *MediaSpecifics) Scan(value any) error {
	if value == nil {
		*s = MediaSpecifics{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported type %T for MediaSpecifics", value)
	}
}

// MediaMetadata is a catalogue entry shared across users. Seen records and
// collection memberships reference it; it is read-only from their perspective.
// MediaSource records where a catalogue entry came from.
type MediaSource string

const (
	MediaSourceSeeded MediaSource = "seeded"
	MediaSourceCustom MediaSource = "custom"
)

type MediaMetadata struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Lot         MediaLot       `gorm:"index;size:20" json:"lot"`
	Source      MediaSource    `gorm:"size:20;default:'seeded'" json:"source"`
	Title       string         `gorm:"index;size:512" json:"title"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	PublishYear *int           `json:"publish_year,omitempty"`
	Specifics   MediaSpecifics `gorm:"type:text" json:"specifics"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (MediaMetadata) TableName() string {
	return "media_metadata"
}
