// Package library coordinates cross-entity operations on a user's media
// library: seen-record deletion with its collection side effects, metadata
// merging, reviews and custom media creation.
package library

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/muhsinkutay/mediatrack/internal/collections"
	"github.com/muhsinkutay/mediatrack/internal/database/media"
	"github.com/muhsinkutay/mediatrack/internal/database/reviews"
	"github.com/muhsinkutay/mediatrack/internal/database/seen"
	"github.com/muhsinkutay/mediatrack/internal/entities"
)

var (
	ErrNotOwner           = errors.New("record does not belong to this user")
	ErrLotSpecificsDiffer = errors.New("lot does not match the provided specifics")
	ErrRatingOutOfRange   = errors.New("rating must be between 1 and 100")
	ErrSelfMerge          = errors.New("cannot merge a metadata item into itself")
)

// Service wires the repositories the library operations span.
type Service struct {
	seenRepo    *seen.Repository
	mediaRepo   *media.Repository
	reviewRepo  *reviews.Repository
	collections *collections.Service
}

// NewService creates a library service.
func NewService(seenRepo *seen.Repository, mediaRepo *media.Repository, reviewRepo *reviews.Repository, collectionSvc *collections.Service) *Service {
	return &Service{
		seenRepo:    seenRepo,
		mediaRepo:   mediaRepo,
		reviewRepo:  reviewRepo,
		collections: collectionSvc,
	}
}

// DeleteSeenRecord removes one of the caller's seen records. Deleting an
// unfinished record also drops its metadata from the "In Progress" default
// collection; a missing membership there is fine.
func (s *Service) DeleteSeenRecord(userID, seenID uint) error {
	record, err := s.seenRepo.GetByID(seenID)
	if err != nil {
		return err
	}
	if record.UserID != userID {
		return ErrNotOwner
	}
	if err := s.seenRepo.Delete(seenID); err != nil {
		return fmt.Errorf("failed to delete seen record: %w", err)
	}
	if record.Progress < 100 {
		err := s.collections.RemoveMedia(userID, string(collections.DefaultCollectionInProgress), record.MetadataID)
		if err != nil {
			log.Printf("Failed to remove metadata %d from In Progress for user %d: %v", record.MetadataID, userID, err)
		}
	}
	return nil
}

// SeenHistory returns the caller's seen records for one metadata item,
// newest first.
func (s *Service) SeenHistory(userID, metadataID uint) ([]entities.SeenRecord, error) {
	return s.seenRepo.History(userID, metadataID)
}

// MergeMetadata moves every seen and review row from one metadata item onto
// another and deletes the source, atomically.
func (s *Service) MergeMetadata(mergeFrom, mergeInto uint) error {
	if mergeFrom == mergeInto {
		return ErrSelfMerge
	}
	if err := s.mediaRepo.MergeInto(mergeFrom, mergeInto); err != nil {
		return fmt.Errorf("failed to merge metadata %d into %d: %w", mergeFrom, mergeInto, err)
	}
	log.Printf("Merged metadata %d into %d", mergeFrom, mergeInto)
	return nil
}

// CreateCustomMedia adds a user-defined catalogue entry. The specifics
// variant must agree with the lot, and the new item lands in the caller's
// "Custom" default collection.
func (s *Service) CreateCustomMedia(userID uint, meta *entities.MediaMetadata) (*entities.MediaMetadata, error) {
	if !meta.Specifics.MatchesLot(meta.Lot) {
		return nil, ErrLotSpecificsDiffer
	}
	if err := s.mediaRepo.Create(meta); err != nil {
		return nil, fmt.Errorf("failed to create metadata: %w", err)
	}
	err := s.collections.AddMedia(userID, string(collections.DefaultCollectionCustom), meta.ID)
	if err != nil {
		log.Printf("Failed to add metadata %d to Custom for user %d: %v", meta.ID, userID, err)
	}
	return meta, nil
}

// PostReview records the caller's review of a metadata item.
func (s *Service) PostReview(userID uint, review *entities.Review) (*entities.Review, error) {
	if review.Rating != nil && (*review.Rating < 1 || *review.Rating > 100) {
		return nil, ErrRatingOutOfRange
	}
	if _, err := s.mediaRepo.GetByID(review.MetadataID); err != nil {
		return nil, err
	}
	review.UserID = userID
	review.PostedOn = time.Now()
	if review.Visibility == "" {
		review.Visibility = entities.ReviewVisibilityPublic
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return review, nil
}

// DeleteReview removes one of the caller's reviews.
func (s *Service) DeleteReview(userID, reviewID uint) error {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return err
	}
	if review.UserID != userID {
		return ErrNotOwner
	}
	return s.reviewRepo.Delete(reviewID)
}

// ListReviews returns the reviews of a metadata item visible to the caller.
func (s *Service) ListReviews(viewerID, metadataID uint) ([]entities.Review, error) {
	return s.reviewRepo.ListForMetadata(metadataID, viewerID)
}
