package library

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/muhsinkutay/mediatrack/internal/collections"
	collectionsdb "github.com/muhsinkutay/mediatrack/internal/database/collections"
	"github.com/muhsinkutay/mediatrack/internal/database/media"
	"github.com/muhsinkutay/mediatrack/internal/database/reviews"
	"github.com/muhsinkutay/mediatrack/internal/database/seen"
	"github.com/muhsinkutay/mediatrack/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Service, *collections.Service, func()) {
	dbPath := "./test_library_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.MediaMetadata{},
		&entities.SeenRecord{},
		&entities.Review{},
		&entities.Collection{},
		&entities.CollectionEntry{},
	)
	require.NoError(t, err)

	collectionSvc := collections.NewService(collectionsdb.NewRepository(db))
	svc := NewService(
		seen.NewRepository(db),
		media.NewRepository(db, time.Minute),
		reviews.NewRepository(db),
		collectionSvc,
	)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		os.Remove(dbPath)
	}

	return db, svc, collectionSvc, cleanup
}

func intPtr(v int) *int { return &v }

func createMovie(t *testing.T, db *gorm.DB, title string) *entities.MediaMetadata {
	meta := &entities.MediaMetadata{
		Title:     title,
		Lot:       entities.MediaLotMovie,
		Specifics: entities.MediaSpecifics{Movie: &entities.MovieSpecifics{Runtime: intPtr(120)}},
	}
	require.NoError(t, db.Create(meta).Error)
	return meta
}

func createSeen(t *testing.T, db *gorm.DB, userID, metadataID uint, progress int, identifier string) *entities.SeenRecord {
	record := &entities.SeenRecord{
		UserID:        userID,
		MetadataID:    metadataID,
		Progress:      progress,
		Identifier:    identifier,
		LastUpdatedOn: time.Now(),
	}
	require.NoError(t, db.Create(record).Error)
	return record
}

func TestDeleteSeenRecord(t *testing.T) {
	db, svc, _, cleanup := setupTestDB(t)
	defer cleanup()

	meta := createMovie(t, db, "Ran")
	record := createSeen(t, db, 1, meta.ID, 100, "seen-1")

	err := svc.DeleteSeenRecord(1, record.ID)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&entities.SeenRecord{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteSeenRecord_NotOwner(t *testing.T) {
	db, svc, _, cleanup := setupTestDB(t)
	defer cleanup()

	meta := createMovie(t, db, "Ran")
	record := createSeen(t, db, 1, meta.ID, 50, "seen-1")

	err := svc.DeleteSeenRecord(2, record.ID)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestDeleteSeenRecord_UnfinishedRemovedFromInProgress(t *testing.T) {
	db, svc, collectionSvc, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, collectionSvc.SeedDefaults(1))

	meta := createMovie(t, db, "Ran")
	record := createSeen(t, db, 1, meta.ID, 40, "seen-1")

	inProgress := string(collections.DefaultCollectionInProgress)
	require.NoError(t, collectionSvc.AddMedia(1, inProgress, meta.ID))

	require.NoError(t, svc.DeleteSeenRecord(1, record.ID))

	entries, err := collectionSvc.ListEntries(1, inProgress)
	require.NoError(t, err)
	assert.Empty(t, entries, "deleting an unfinished record clears In Progress")
}

func TestDeleteSeenRecord_MissingInProgressMembershipIsFine(t *testing.T) {
	db, svc, collectionSvc, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, collectionSvc.SeedDefaults(1))

	meta := createMovie(t, db, "Ran")
	record := createSeen(t, db, 1, meta.ID, 40, "seen-1")

	err := svc.DeleteSeenRecord(1, record.ID)
	assert.NoError(t, err)
}

func TestMergeMetadata(t *testing.T) {
	db, svc, _, cleanup := setupTestDB(t)
	defer cleanup()

	source := createMovie(t, db, "Seven Samurai (dupe)")
	target := createMovie(t, db, "Seven Samurai")

	createSeen(t, db, 1, source.ID, 100, "seen-1")
	createSeen(t, db, 2, source.ID, 100, "seen-2")

	review := &entities.Review{
		UserID:     1,
		MetadataID: source.ID,
		Rating:     intPtr(95),
		Text:       "a classic",
		Visibility: entities.ReviewVisibilityPublic,
		PostedOn:   time.Now(),
	}
	require.NoError(t, db.Create(review).Error)

	require.NoError(t, svc.MergeMetadata(source.ID, target.ID))

	var seenCount int64
	require.NoError(t, db.Model(&entities.SeenRecord{}).Where("metadata_id = ?", target.ID).Count(&seenCount).Error)
	assert.EqualValues(t, 2, seenCount)

	var reviewCount int64
	require.NoError(t, db.Model(&entities.Review{}).Where("metadata_id = ?", target.ID).Count(&reviewCount).Error)
	assert.EqualValues(t, 1, reviewCount)

	err := db.First(&entities.MediaMetadata{}, source.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound, "source metadata is deleted")
}

func TestMergeMetadata_SelfMerge(t *testing.T) {
	db, svc, _, cleanup := setupTestDB(t)
	defer cleanup()

	meta := createMovie(t, db, "Ikiru")
	err := svc.MergeMetadata(meta.ID, meta.ID)
	assert.ErrorIs(t, err, ErrSelfMerge)
}

func TestCreateCustomMedia(t *testing.T) {
	_, svc, collectionSvc, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, collectionSvc.SeedDefaults(1))

	meta := &entities.MediaMetadata{
		Title:     "My D&D Campaign Recordings",
		Lot:       entities.MediaLotPodcast,
		Source:    entities.MediaSourceCustom,
		Specifics: entities.MediaSpecifics{Podcast: &entities.PodcastSpecifics{}},
	}

	created, err := svc.CreateCustomMedia(1, meta)
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	entries, err := collectionSvc.ListEntries(1, string(collections.DefaultCollectionCustom))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, created.ID, entries[0].ID)
}

func TestCreateCustomMedia_SpecificsMustMatchLot(t *testing.T) {
	_, svc, _, cleanup := setupTestDB(t)
	defer cleanup()

	meta := &entities.MediaMetadata{
		Title:     "Mislabeled",
		Lot:       entities.MediaLotBook,
		Specifics: entities.MediaSpecifics{Movie: &entities.MovieSpecifics{Runtime: intPtr(90)}},
	}

	_, err := svc.CreateCustomMedia(1, meta)
	assert.ErrorIs(t, err, ErrLotSpecificsDiffer)
}

func TestPostReview(t *testing.T) {
	db, svc, _, cleanup := setupTestDB(t)
	defer cleanup()

	meta := createMovie(t, db, "High and Low")

	created, err := svc.PostReview(1, &entities.Review{
		MetadataID: meta.ID,
		Rating:     intPtr(88),
		Text:       "tense from the first minute",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, uint(1), created.UserID)
	assert.Equal(t, entities.ReviewVisibilityPublic, created.Visibility)
}

func TestPostReview_RatingOutOfRange(t *testing.T) {
	db, svc, _, cleanup := setupTestDB(t)
	defer cleanup()

	meta := createMovie(t, db, "High and Low")

	for _, rating := range []int{0, 101} {
		_, err := svc.PostReview(1, &entities.Review{
			MetadataID: meta.ID,
			Rating:     intPtr(rating),
		})
		assert.ErrorIs(t, err, ErrRatingOutOfRange)
	}
}

func TestListReviews_PrivateHiddenFromOthers(t *testing.T) {
	db, svc, _, cleanup := setupTestDB(t)
	defer cleanup()

	meta := createMovie(t, db, "High and Low")

	_, err := svc.PostReview(1, &entities.Review{
		MetadataID: meta.ID,
		Text:       "notes to self",
		Visibility: entities.ReviewVisibilityPrivate,
	})
	require.NoError(t, err)

	mine, err := svc.ListReviews(1, meta.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := svc.ListReviews(2, meta.ID)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestDeleteReview_NotOwner(t *testing.T) {
	db, svc, _, cleanup := setupTestDB(t)
	defer cleanup()

	meta := createMovie(t, db, "High and Low")

	created, err := svc.PostReview(1, &entities.Review{MetadataID: meta.ID, Text: "fine"})
	require.NoError(t, err)

	err = svc.DeleteReview(2, created.ID)
	assert.ErrorIs(t, err, ErrNotOwner)
}
