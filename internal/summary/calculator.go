// Package summary implements the aggregation engine that rolls a user's
// completed consumption records into one statistics snapshot.
package summary

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/muhsinkutay/mediatrack/internal/database/media"
	"github.com/muhsinkutay/mediatrack/internal/database/summaries"
	"github.com/muhsinkutay/mediatrack/internal/entities"
)

// Calculator recomputes user summaries. Each run replaces the user's prior
// snapshot wholesale; nothing is computed incrementally.
type Calculator struct {
	summaryRepo *summaries.Repository
	mediaRepo   *media.Repository
}

// NewCalculator creates a summary calculator.
func NewCalculator(summaryRepo *summaries.Repository, mediaRepo *media.Repository) *Calculator {
	return &Calculator{
		summaryRepo: summaryRepo,
		mediaRepo:   mediaRepo,
	}
}

type showSeasonKey struct {
	MetadataID uint
	Season     int
}

type podcastEpisodeKey struct {
	MetadataID uint
	Episode    int
}

// Calculate streams a user's completed seen records, accumulates per-lot
// counters and persists a fresh snapshot, deleting all prior ones first.
// Returns the ID of the new summary row.
func (c *Calculator) Calculate(ctx context.Context, userID uint) (uint, error) {
	if err := c.summaryRepo.DeleteForUser(userID); err != nil {
		return 0, fmt.Errorf("failed to delete prior summaries: %w", err)
	}

	var data entities.SummaryData
	uniqueShows := make(map[uint]struct{})
	uniqueShowSeasons := make(map[showSeasonKey]struct{})
	uniquePodcasts := make(map[uint]struct{})
	uniquePodcastEpisodes := make(map[podcastEpisodeKey]struct{})

	err := c.summaryRepo.EachCompletedSeen(ctx, userID, func(record entities.SeenRecord) error {
		meta, err := c.mediaRepo.GetByID(record.MetadataID)
		if err != nil {
			return fmt.Errorf("failed to load metadata %d: %w", record.MetadataID, err)
		}

		switch meta.Lot {
		case entities.MediaLotAudioBook:
			data.AudioBooks.Played++
			if item := meta.Specifics.AudioBook; item != nil && item.Runtime != nil {
				data.AudioBooks.Runtime += *item.Runtime
			}
		case entities.MediaLotAnime:
			data.Anime.Watched++
			if item := meta.Specifics.Anime; item != nil && item.Episodes != nil {
				data.Anime.Episodes += *item.Episodes
			}
		case entities.MediaLotBook:
			data.Books.Read++
			if item := meta.Specifics.Book; item != nil && item.Pages != nil {
				data.Books.Pages += *item.Pages
			}
		case entities.MediaLotManga:
			data.Manga.Read++
			if item := meta.Specifics.Manga; item != nil && item.Chapters != nil {
				data.Manga.Chapters += *item.Chapters
			}
		case entities.MediaLotMovie:
			data.Movies.Watched++
			if item := meta.Specifics.Movie; item != nil && item.Runtime != nil {
				data.Movies.Runtime += *item.Runtime
			}
		case entities.MediaLotVideoGame:
			data.VideoGames.Played++
		case entities.MediaLotPodcast:
			if c.accumulatePodcast(&data, record, meta, uniquePodcastEpisodes) {
				uniquePodcasts[record.MetadataID] = struct{}{}
			}
		case entities.MediaLotShow:
			if c.accumulateShow(&data, record, meta, uniqueShowSeasons) {
				uniqueShows[record.MetadataID] = struct{}{}
			}
		default:
			// Unknown lots contribute nothing.
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to stream seen records: %w", err)
	}

	data.Shows.Watched = len(uniqueShows)
	data.Shows.WatchedSeasons = len(uniqueShowSeasons)
	data.Podcasts.Played = len(uniquePodcasts)
	data.Podcasts.PlayedEpisodes = len(uniquePodcastEpisodes)

	snapshot := &entities.UserSummary{
		UserID:    userID,
		CreatedOn: time.Now(),
		Data:      data,
	}
	if err := c.summaryRepo.Create(snapshot); err != nil {
		return 0, fmt.Errorf("failed to persist summary: %w", err)
	}

	log.Printf("Recomputed summary %d for user %d", snapshot.ID, userID)
	return snapshot.ID, nil
}

// accumulateShow credits the matched episode of a show record and reports
// whether the locator matched any declared episode. Records whose locator
// matches nothing are skipped, not failed: provider metadata and user history
// routinely drift apart.
func (c *Calculator) accumulateShow(data *entities.SummaryData, record entities.SeenRecord, meta *entities.MediaMetadata, seasons map[showSeasonKey]struct{}) bool {
	if record.ExtraInformation == nil || record.ExtraInformation.Show == nil {
		return false
	}
	locator := record.ExtraInformation.Show
	specifics := meta.Specifics.Show
	if specifics == nil {
		return false
	}
	matched := false
	for _, season := range specifics.Seasons {
		if season.SeasonNumber != locator.Season {
			continue
		}
		for _, episode := range season.Episodes {
			if episode.EpisodeNumber != locator.Episode {
				continue
			}
			matched = true
			data.Shows.WatchedEpisodes++
			if episode.Runtime != nil {
				data.Shows.Runtime += *episode.Runtime
			}
			seasons[showSeasonKey{MetadataID: record.MetadataID, Season: locator.Season}] = struct{}{}
		}
	}
	return matched
}

// accumulatePodcast credits the matched episode of a podcast record, with the
// same lenience towards unmatched locators as shows.
func (c *Calculator) accumulatePodcast(data *entities.SummaryData, record entities.SeenRecord, meta *entities.MediaMetadata, episodes map[podcastEpisodeKey]struct{}) bool {
	if record.ExtraInformation == nil || record.ExtraInformation.Podcast == nil {
		return false
	}
	locator := record.ExtraInformation.Podcast
	specifics := meta.Specifics.Podcast
	if specifics == nil {
		return false
	}
	matched := false
	for _, episode := range specifics.Episodes {
		if episode.Number != locator.Episode {
			continue
		}
		matched = true
		if episode.Runtime != nil {
			data.Podcasts.Runtime += *episode.Runtime
		}
		episodes[podcastEpisodeKey{MetadataID: record.MetadataID, Episode: locator.Episode}] = struct{}{}
	}
	return matched
}
