package seen

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/muhsinkutay/mediatrack/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_seen_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.MediaMetadata{},
		&entities.SeenRecord{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func createRecord(t *testing.T, repo *Repository, identifier string, progress int, dropped bool, updatedOn time.Time) *entities.SeenRecord {
	record := &entities.SeenRecord{
		UserID:        1,
		MetadataID:    1,
		Progress:      progress,
		Dropped:       dropped,
		Identifier:    identifier,
		LastUpdatedOn: updatedOn,
	}
	require.NoError(t, repo.Create(record))
	return record
}

func TestGetByIdentifier(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	created := createRecord(t, repo, "report-1", 50, false, time.Now())

	found, err := repo.GetByIdentifier("report-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	missing, err := repo.GetByIdentifier("no-such-report")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetActive_MostRecentWins(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()
	createRecord(t, repo, "report-old", 20, false, now.Add(-2*time.Hour))
	newest := createRecord(t, repo, "report-new", 60, false, now)

	active, err := repo.GetActive(1, 1)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, newest.ID, active.ID)
}

func TestGetActive_SkipsCompletedAndDropped(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()
	createRecord(t, repo, "report-done", 100, false, now)
	createRecord(t, repo, "report-dropped", 30, true, now.Add(time.Minute))

	active, err := repo.GetActive(1, 1)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestGetLatest_IncludesCompleted(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()
	createRecord(t, repo, "report-1", 100, false, now.Add(-time.Hour))
	finished := createRecord(t, repo, "report-2", 100, false, now)

	latest, err := repo.GetLatest(1, 1)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, finished.ID, latest.ID)
}

func TestHistory_NewestFirst(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()
	createRecord(t, repo, "report-1", 100, false, now.Add(-time.Hour))
	newest := createRecord(t, repo, "report-2", 40, false, now)

	history, err := repo.History(1, 1)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, newest.ID, history[0].ID)
}

func TestExtraInformationRoundTrip(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	record := &entities.SeenRecord{
		UserID:        1,
		MetadataID:    1,
		Progress:      100,
		Identifier:    "report-1",
		LastUpdatedOn: time.Now(),
		ExtraInformation: &entities.SeenExtraInformation{
			Show: &entities.SeenShowInformation{Season: 2, Episode: 7},
		},
	}
	require.NoError(t, repo.Create(record))

	loaded, err := repo.GetByID(record.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.ExtraInformation)
	require.NotNil(t, loaded.ExtraInformation.Show)
	assert.Equal(t, 2, loaded.ExtraInformation.Show.Season)
	assert.Equal(t, 7, loaded.ExtraInformation.Show.Episode)
}
