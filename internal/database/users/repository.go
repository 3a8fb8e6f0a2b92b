// Package users provides database operations for user accounts.
package users

import (
	"gorm.io/gorm"

	"github.com/muhsinkutay/mediatrack/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByID retrieves a user by ID.
func (r *Repository) GetByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername retrieves a user by username.
func (r *Repository) GetByUsername(username string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByAPITokenHash retrieves a user by the hash of their API token.
func (r *Repository) GetByAPITokenHash(hash string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("api_token_hash = ?", hash).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user.
func (r *Repository) Create(user *entities.User) error {
	return r.db.Create(user).Error
}

// Save persists all fields of an existing user.
func (r *Repository) Save(user *entities.User) error {
	return r.db.Save(user).Error
}

// Count returns the number of registered users.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Count(&count).Error
	return count, err
}

// ListIDs returns the IDs of every registered user.
func (r *Repository) ListIDs() ([]uint, error) {
	var ids []uint
	err := r.db.Model(&entities.User{}).Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}
