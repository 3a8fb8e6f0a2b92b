package auth

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/muhsinkutay/mediatrack/internal/config"
	"github.com/muhsinkutay/mediatrack/internal/database/users"
	"github.com/muhsinkutay/mediatrack/internal/entities"
)

func setupTestService(t *testing.T, allowRegistration bool) (*Service, func()) {
	dbPath := "./test_auth_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&entities.User{}))

	svc := NewService(users.NewRepository(db), config.Auth{
		Mode:       config.AuthModeLocal,
		BcryptCost: bcrypt.MinCost,
	}, allowRegistration)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		os.Remove(dbPath)
	}

	return svc, cleanup
}

func TestRegister_FirstUserIsAdmin(t *testing.T) {
	svc, cleanup := setupTestService(t, true)
	defer cleanup()

	first, err := svc.Register("alice", "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, entities.UserRoleAdmin, first.Role)

	second, err := svc.Register("bob", "", "password123")
	require.NoError(t, err)
	assert.Equal(t, entities.UserRoleNormal, second.Role)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, cleanup := setupTestService(t, true)
	defer cleanup()

	_, err := svc.Register("alice", "", "password123")
	require.NoError(t, err)

	_, err = svc.Register("alice", "", "password456")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestRegister_Validation(t *testing.T) {
	svc, cleanup := setupTestService(t, true)
	defer cleanup()

	_, err := svc.Register("", "", "password123")
	assert.ErrorIs(t, err, ErrUsernameRequired)

	_, err = svc.Register("alice", "", "")
	assert.ErrorIs(t, err, ErrPasswordRequired)

	_, err = svc.Register("a b", "", "password123")
	assert.ErrorIs(t, err, ErrUsernameInvalid)

	_, err = svc.Register("alice", "", "short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegister_Disabled(t *testing.T) {
	svc, cleanup := setupTestService(t, false)
	defer cleanup()

	_, err := svc.Register("alice", "", "password123")
	assert.ErrorIs(t, err, ErrRegistrationDisabled)
}

func TestAuthenticate(t *testing.T) {
	svc, cleanup := setupTestService(t, true)
	defer cleanup()

	created, err := svc.Register("alice", "", "password123")
	require.NoError(t, err)

	user, err := svc.Authenticate("alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = svc.Authenticate("alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, err = svc.Authenticate("nobody", "password123")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestIssueAndResolveAPIToken(t *testing.T) {
	svc, cleanup := setupTestService(t, true)
	defer cleanup()

	created, err := svc.Register("alice", "", "password123")
	require.NoError(t, err)

	token, err := svc.IssueAPIToken(created.ID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	user, err := svc.GetUserByAPIToken(token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = svc.GetUserByAPIToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssueAPIToken_ReplacesPrevious(t *testing.T) {
	svc, cleanup := setupTestService(t, true)
	defer cleanup()

	created, err := svc.Register("alice", "", "password123")
	require.NoError(t, err)

	first, err := svc.IssueAPIToken(created.ID)
	require.NoError(t, err)
	second, err := svc.IssueAPIToken(created.ID)
	require.NoError(t, err)

	_, err = svc.GetUserByAPIToken(first)
	assert.ErrorIs(t, err, ErrInvalidToken, "old token is revoked")

	user, err := svc.GetUserByAPIToken(second)
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
}

func TestHasUsers(t *testing.T) {
	svc, cleanup := setupTestService(t, true)
	defer cleanup()

	has, err := svc.HasUsers()
	require.NoError(t, err)
	assert.False(t, has)

	_, err = svc.Register("alice", "", "password123")
	require.NoError(t, err)

	has, err = svc.HasUsers()
	require.NoError(t, err)
	assert.True(t, has)
}
