package summary

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/muhsinkutay/mediatrack/internal/database/media"
	"github.com/muhsinkutay/mediatrack/internal/database/summaries"
	"github.com/muhsinkutay/mediatrack/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Calculator, *summaries.Repository, func()) {
	dbPath := "./test_summary_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.MediaMetadata{},
		&entities.SeenRecord{},
		&entities.UserSummary{},
	)
	require.NoError(t, err)

	summaryRepo := summaries.NewRepository(db)
	mediaRepo := media.NewRepository(db, time.Minute)
	calculator := NewCalculator(summaryRepo, mediaRepo)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		os.Remove(dbPath)
	}

	return db, calculator, summaryRepo, cleanup
}

func intPtr(v int) *int { return &v }

func createCompletedSeen(t *testing.T, db *gorm.DB, userID, metadataID uint, identifier string, extra *entities.SeenExtraInformation) {
	record := &entities.SeenRecord{
		UserID:           userID,
		MetadataID:       metadataID,
		Progress:         100,
		Identifier:       identifier,
		LastUpdatedOn:    time.Now(),
		ExtraInformation: extra,
	}
	require.NoError(t, db.Create(record).Error)
}

func TestCalculate_BooksAndMovies(t *testing.T) {
	db, calculator, summaryRepo, cleanup := setupTestDB(t)
	defer cleanup()

	book := &entities.MediaMetadata{
		Title:     "Blood Meridian",
		Lot:       entities.MediaLotBook,
		Specifics: entities.MediaSpecifics{Book: &entities.BookSpecifics{Pages: intPtr(351)}},
	}
	require.NoError(t, db.Create(book).Error)

	movie := &entities.MediaMetadata{
		Title:     "Stalker",
		Lot:       entities.MediaLotMovie,
		Specifics: entities.MediaSpecifics{Movie: &entities.MovieSpecifics{Runtime: intPtr(162)}},
	}
	require.NoError(t, db.Create(movie).Error)

	createCompletedSeen(t, db, 1, book.ID, "seen-1", nil)
	createCompletedSeen(t, db, 1, movie.ID, "seen-2", nil)
	createCompletedSeen(t, db, 1, movie.ID, "seen-3", nil)

	_, err := calculator.Calculate(context.Background(), 1)
	require.NoError(t, err)

	snapshot, err := summaryRepo.GetCurrent(1)
	require.NoError(t, err)
	require.NotNil(t, snapshot)

	assert.Equal(t, 1, snapshot.Data.Books.Read)
	assert.Equal(t, 351, snapshot.Data.Books.Pages)
	assert.Equal(t, 2, snapshot.Data.Movies.Watched)
	assert.Equal(t, 324, snapshot.Data.Movies.Runtime)
}

func TestCalculate_ShowDistinctCounting(t *testing.T) {
	db, calculator, summaryRepo, cleanup := setupTestDB(t)
	defer cleanup()

	show := &entities.MediaMetadata{
		Title: "The Wire",
		Lot:   entities.MediaLotShow,
		Specifics: entities.MediaSpecifics{
			Show: &entities.ShowSpecifics{
				Seasons: []entities.ShowSeason{
					{
						SeasonNumber: 1,
						Episodes: []entities.ShowEpisode{
							{EpisodeNumber: 1, Runtime: intPtr(60)},
							{EpisodeNumber: 2, Runtime: intPtr(58)},
						},
					},
				},
			},
		},
	}
	require.NoError(t, db.Create(show).Error)

	createCompletedSeen(t, db, 1, show.ID, "seen-1", &entities.SeenExtraInformation{
		Show: &entities.SeenShowInformation{Season: 1, Episode: 1},
	})
	createCompletedSeen(t, db, 1, show.ID, "seen-2", &entities.SeenExtraInformation{
		Show: &entities.SeenShowInformation{Season: 1, Episode: 2},
	})

	_, err := calculator.Calculate(context.Background(), 1)
	require.NoError(t, err)

	snapshot, err := summaryRepo.GetCurrent(1)
	require.NoError(t, err)
	require.NotNil(t, snapshot)

	assert.Equal(t, 1, snapshot.Data.Shows.Watched, "one distinct show")
	assert.Equal(t, 1, snapshot.Data.Shows.WatchedSeasons, "one distinct season")
	assert.Equal(t, 2, snapshot.Data.Shows.WatchedEpisodes)
	assert.Equal(t, 118, snapshot.Data.Shows.Runtime)
}

func TestCalculate_UnmatchedLocatorContributesNothing(t *testing.T) {
	db, calculator, summaryRepo, cleanup := setupTestDB(t)
	defer cleanup()

	show := &entities.MediaMetadata{
		Title: "Twin Peaks",
		Lot:   entities.MediaLotShow,
		Specifics: entities.MediaSpecifics{
			Show: &entities.ShowSpecifics{
				Seasons: []entities.ShowSeason{
					{
						SeasonNumber: 1,
						Episodes:     []entities.ShowEpisode{{EpisodeNumber: 1, Runtime: intPtr(45)}},
					},
				},
			},
		},
	}
	require.NoError(t, db.Create(show).Error)

	// Locator points at an episode the metadata does not declare.
	createCompletedSeen(t, db, 1, show.ID, "seen-1", &entities.SeenExtraInformation{
		Show: &entities.SeenShowInformation{Season: 4, Episode: 9},
	})

	_, err := calculator.Calculate(context.Background(), 1)
	require.NoError(t, err)

	snapshot, err := summaryRepo.GetCurrent(1)
	require.NoError(t, err)
	require.NotNil(t, snapshot)

	assert.Zero(t, snapshot.Data.Shows.Watched)
	assert.Zero(t, snapshot.Data.Shows.WatchedSeasons)
	assert.Zero(t, snapshot.Data.Shows.WatchedEpisodes)
	assert.Zero(t, snapshot.Data.Shows.Runtime)
}

func TestCalculate_PodcastDistinctEpisodes(t *testing.T) {
	db, calculator, summaryRepo, cleanup := setupTestDB(t)
	defer cleanup()

	podcast := &entities.MediaMetadata{
		Title: "Hardcore History",
		Lot:   entities.MediaLotPodcast,
		Specifics: entities.MediaSpecifics{
			Podcast: &entities.PodcastSpecifics{
				Episodes: []entities.PodcastEpisode{
					{Number: 1, Runtime: intPtr(240)},
					{Number: 2, Runtime: intPtr(300)},
				},
			},
		},
	}
	require.NoError(t, db.Create(podcast).Error)

	createCompletedSeen(t, db, 1, podcast.ID, "seen-1", &entities.SeenExtraInformation{
		Podcast: &entities.SeenPodcastInformation{Episode: 1},
	})
	createCompletedSeen(t, db, 1, podcast.ID, "seen-2", &entities.SeenExtraInformation{
		Podcast: &entities.SeenPodcastInformation{Episode: 2},
	})

	_, err := calculator.Calculate(context.Background(), 1)
	require.NoError(t, err)

	snapshot, err := summaryRepo.GetCurrent(1)
	require.NoError(t, err)
	require.NotNil(t, snapshot)

	assert.Equal(t, 1, snapshot.Data.Podcasts.Played)
	assert.Equal(t, 2, snapshot.Data.Podcasts.PlayedEpisodes)
	assert.Equal(t, 540, snapshot.Data.Podcasts.Runtime)
}

func TestCalculate_IgnoresIncompleteRecords(t *testing.T) {
	db, calculator, summaryRepo, cleanup := setupTestDB(t)
	defer cleanup()

	movie := &entities.MediaMetadata{
		Title:     "Solaris",
		Lot:       entities.MediaLotMovie,
		Specifics: entities.MediaSpecifics{Movie: &entities.MovieSpecifics{Runtime: intPtr(167)}},
	}
	require.NoError(t, db.Create(movie).Error)

	record := &entities.SeenRecord{
		UserID:        1,
		MetadataID:    movie.ID,
		Progress:      80,
		Identifier:    "seen-1",
		LastUpdatedOn: time.Now(),
	}
	require.NoError(t, db.Create(record).Error)

	_, err := calculator.Calculate(context.Background(), 1)
	require.NoError(t, err)

	snapshot, err := summaryRepo.GetCurrent(1)
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Zero(t, snapshot.Data.Movies.Watched)
}

func TestCalculate_ReplacesPriorSnapshot(t *testing.T) {
	db, calculator, summaryRepo, cleanup := setupTestDB(t)
	defer cleanup()

	movie := &entities.MediaMetadata{
		Title:     "Mirror",
		Lot:       entities.MediaLotMovie,
		Specifics: entities.MediaSpecifics{Movie: &entities.MovieSpecifics{Runtime: intPtr(107)}},
	}
	require.NoError(t, db.Create(movie).Error)
	createCompletedSeen(t, db, 1, movie.ID, "seen-1", nil)

	_, err := calculator.Calculate(context.Background(), 1)
	require.NoError(t, err)
	_, err = calculator.Calculate(context.Background(), 1)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&entities.UserSummary{}).Where("user_id = ?", 1).Count(&count).Error)
	assert.EqualValues(t, 1, count, "recompute replaces the prior snapshot")

	snapshot, err := summaryRepo.GetCurrent(1)
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, 1, snapshot.Data.Movies.Watched)
}

func TestCalculate_ScopedToUser(t *testing.T) {
	db, calculator, summaryRepo, cleanup := setupTestDB(t)
	defer cleanup()

	movie := &entities.MediaMetadata{
		Title:     "Nostalghia",
		Lot:       entities.MediaLotMovie,
		Specifics: entities.MediaSpecifics{Movie: &entities.MovieSpecifics{Runtime: intPtr(125)}},
	}
	require.NoError(t, db.Create(movie).Error)

	createCompletedSeen(t, db, 1, movie.ID, "seen-1", nil)
	createCompletedSeen(t, db, 2, movie.ID, "seen-2", nil)

	_, err := calculator.Calculate(context.Background(), 1)
	require.NoError(t, err)

	snapshot, err := summaryRepo.GetCurrent(1)
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, 1, snapshot.Data.Movies.Watched, "other users' records are excluded")
}
