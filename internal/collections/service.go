// Package collections manages user collections: the system-seeded defaults,
// user-created groupings, and media membership in both.
package collections

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	collectionsdb "github.com/muhsinkutay/mediatrack/internal/database/collections"
	"github.com/muhsinkutay/mediatrack/internal/entities"
)

var (
	ErrDefaultCollection  = errors.New("default collections cannot be deleted")
	ErrCollectionNotFound = errors.New("collection not found")
	ErrCollectionExists   = errors.New("collection with this name already exists")
	ErrNameRequired       = errors.New("collection name is required")
)

// Service coordinates collection and membership operations.
type Service struct {
	repo *collectionsdb.Repository
}

// NewService creates a new collections service.
func NewService(repo *collectionsdb.Repository) *Service {
	return &Service{repo: repo}
}

// SeedDefaults creates every default collection a user is missing. Seeding is
// idempotent; collections the user already has are left untouched.
func (s *Service) SeedDefaults(userID uint) error {
	for _, d := range Defaults() {
		existing, err := s.repo.GetByName(userID, string(d))
		if err != nil {
			return fmt.Errorf("failed to look up collection %q: %w", d, err)
		}
		if existing != nil {
			continue
		}
		collection := &entities.Collection{
			UserID:      userID,
			Name:        string(d),
			Description: d.Description(),
			CreatedAt:   time.Now(),
		}
		if err := s.repo.Create(collection); err != nil {
			return fmt.Errorf("failed to seed collection %q: %w", d, err)
		}
		log.Printf("Seeded collection %q for user %d", d, userID)
	}
	return nil
}

// Create adds a user-named collection. Creating a collection whose name
// matches an existing one fails with ErrCollectionExists.
func (s *Service) Create(userID uint, name, description string) (*entities.Collection, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	collection := &entities.Collection{
		UserID:      userID,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.Create(collection); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCollectionExists
		}
		return nil, err
	}
	return collection, nil
}

// Delete removes a user's collection by name. Collections whose name matches
// a default collection are protected.
func (s *Service) Delete(userID uint, name string) error {
	if IsDefaultName(name) {
		return ErrDefaultCollection
	}
	collection, err := s.repo.GetByName(userID, name)
	if err != nil {
		return err
	}
	if collection == nil {
		return ErrCollectionNotFound
	}
	return s.repo.Delete(collection.ID)
}

// ListForUser returns all collections owned by a user.
func (s *Service) ListForUser(userID uint) ([]entities.Collection, error) {
	return s.repo.ListForUser(userID)
}

// ListEntries returns the media inside a user's named collection.
func (s *Service) ListEntries(userID uint, name string) ([]entities.MediaMetadata, error) {
	collection, err := s.repo.GetByName(userID, name)
	if err != nil {
		return nil, err
	}
	if collection == nil {
		return nil, ErrCollectionNotFound
	}
	return s.repo.ListEntries(collection.ID)
}

// AddMedia inserts a metadata item into a user's named collection.
func (s *Service) AddMedia(userID uint, name string, metadataID uint) error {
	collection, err := s.repo.GetByName(userID, name)
	if err != nil {
		return err
	}
	if collection == nil {
		return ErrCollectionNotFound
	}
	return s.repo.AddEntry(collection.ID, metadataID)
}

// RemoveMedia removes a metadata item from a user's named collection. Neither
// a missing collection nor a missing membership is an error: callers use this
// as an idempotent cleanup.
func (s *Service) RemoveMedia(userID uint, name string, metadataID uint) error {
	collection, err := s.repo.GetByName(userID, name)
	if err != nil {
		return err
	}
	if collection == nil {
		return nil
	}
	return s.repo.RemoveEntry(collection.ID, metadataID)
}
