package auth

import (
	"errors"
	"fmt"
	"regexp"

	"gorm.io/gorm"

	"github.com/muhsinkutay/mediatrack/internal/config"
	"github.com/muhsinkutay/mediatrack/internal/database/users"
	"github.com/muhsinkutay/mediatrack/internal/entities"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,64}$`)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserExists           = errors.New("user already exists")
	ErrInvalidToken         = errors.New("invalid token")
	ErrUsernameRequired     = errors.New("username is required")
	ErrPasswordRequired     = errors.New("password is required")
	ErrUsernameInvalid      = errors.New("username must be 3-64 characters, alphanumeric and underscore/hyphen only")
	ErrRegistrationDisabled = errors.New("registration is disabled")
)

// Service handles authentication and user management.
type Service struct {
	users             *users.Repository
	config            config.Auth
	allowRegistration bool
}

// NewService creates a new authentication service.
func NewService(userRepo *users.Repository, cfg config.Auth, allowRegistration bool) *Service {
	return &Service{
		users:             userRepo,
		config:            cfg,
		allowRegistration: allowRegistration,
	}
}

// IsAuthEnabled reports whether local authentication is configured.
func (s *Service) IsAuthEnabled() bool {
	return s.config.Mode == config.AuthModeLocal
}

// Register creates a new account. The very first account becomes the admin;
// everyone after that is a normal user.
func (s *Service) Register(username, email, password string) (*entities.User, error) {
	if !s.allowRegistration {
		return nil, ErrRegistrationDisabled
	}
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	if !usernamePattern.MatchString(username) {
		return nil, ErrUsernameInvalid
	}

	if _, err := s.users.GetByUsername(username); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	role := entities.UserRoleNormal
	count, err := s.users.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if count == 0 {
		role = entities.UserRoleAdmin
	}

	user := &entities.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}
	if err := s.users.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Authenticate validates credentials and returns the user.
func (s *Service) Authenticate(username, password string) (*entities.User, error) {
	user, err := s.users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByID retrieves a user by ID.
func (s *Service) GetUserByID(id uint) (*entities.User, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetUserByAPIToken resolves a plaintext API token to its user.
func (s *Service) GetUserByAPIToken(token string) (*entities.User, error) {
	user, err := s.users.GetByAPITokenHash(HashToken(token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

// IssueAPIToken generates and stores a fresh API token for a user, replacing
// any previous one. The plaintext is returned exactly once.
func (s *Service) IssueAPIToken(userID uint) (string, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return "", err
	}
	plaintext, hash := GenerateAPIToken()
	user.APITokenHash = hash
	if err := s.users.Save(user); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}
	return plaintext, nil
}

// HasUsers reports whether any account exists yet.
func (s *Service) HasUsers() (bool, error) {
	count, err := s.users.Count()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
