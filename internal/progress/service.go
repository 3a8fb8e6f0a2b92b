// Package progress implements the progress-update state machine: it infers,
// from a partial client report, what mutation to apply to a user's
// consumption history.
package progress

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/muhsinkutay/mediatrack/internal/database/media"
	"github.com/muhsinkutay/mediatrack/internal/database/seen"
	"github.com/muhsinkutay/mediatrack/internal/entities"
)

var (
	ErrNothingInProgress     = errors.New("there is no seen record underway")
	ErrProgressOutOfRange    = errors.New("progress must be between 0 and 100")
	ErrIdentifierRequired    = errors.New("identifier is required")
	ErrSeasonEpisodeRequired = errors.New("season and episode numbers are required for shows")
	ErrEpisodeRequired       = errors.New("episode number is required for podcasts")
)

// Action is the mutation the state machine decided to apply.
type Action string

const (
	ActionUpdate      Action = "update"
	ActionNow         Action = "now"
	ActionInThePast   Action = "in_the_past"
	ActionJustStarted Action = "just_started"
	ActionDrop        Action = "drop"
)

// UpdateInput is a client's progress report. Progress and Date are optional;
// their presence steers classification. The episode locator fields are
// mandatory when the metadata's lot requires them.
type UpdateInput struct {
	Identifier     string
	MetadataID     uint
	Progress       *int
	Date           *time.Time // date precision only
	ShowSeason     *int
	ShowEpisode    *int
	PodcastEpisode *int
}

// Notifier publishes the after-progress-recorded signal once a mutation has
// been applied. Delivery is fire-and-forget from the state machine's point
// of view.
type Notifier interface {
	AfterProgressRecorded(ctx context.Context, record entities.SeenRecord, lot entities.MediaLot) error
}

// Service is the progress-update state machine.
type Service struct {
	seenRepo  *seen.Repository
	mediaRepo *media.Repository
	notifier  Notifier
}

// NewService creates the state machine. notifier may be nil, in which case
// no signal is published.
func NewService(seenRepo *seen.Repository, mediaRepo *media.Repository, notifier Notifier) *Service {
	return &Service{
		seenRepo:  seenRepo,
		mediaRepo: mediaRepo,
		notifier:  notifier,
	}
}

// RecordProgress classifies a progress report and applies the resulting
// mutation, returning the affected seen record's ID. Replaying an already
// processed identifier returns the original record's ID without mutating
// anything.
func (s *Service) RecordProgress(ctx context.Context, userID uint, input UpdateInput) (uint, error) {
	if input.Identifier == "" {
		return 0, ErrIdentifierRequired
	}
	if input.Progress != nil && (*input.Progress < 0 || *input.Progress > 100) {
		return 0, ErrProgressOutOfRange
	}

	// Idempotency guard: a replayed identifier is answered from the
	// existing record, with no mutation.
	existing, err := s.seenRepo.GetByIdentifier(input.Identifier)
	if err != nil {
		return 0, fmt.Errorf("failed to check identifier: %w", err)
	}
	if existing != nil {
		return existing.ID, nil
	}

	meta, err := s.mediaRepo.GetByID(input.MetadataID)
	if err != nil {
		return 0, fmt.Errorf("failed to load metadata %d: %w", input.MetadataID, err)
	}

	active, err := s.seenRepo.GetActive(userID, input.MetadataID)
	if err != nil {
		return 0, fmt.Errorf("failed to load active record: %w", err)
	}

	now := time.Now()
	action := classify(input.Progress, input.Date, active != nil, now)

	var record *entities.SeenRecord
	switch action {
	case ActionUpdate:
		active.Progress = *input.Progress
		active.LastUpdatedOn = now
		if active.Progress == 100 {
			today := startOfDay(now)
			active.FinishedOn = &today
		}
		if err := s.seenRepo.Save(active); err != nil {
			return 0, fmt.Errorf("failed to update record: %w", err)
		}
		record = active

	case ActionDrop:
		if active == nil {
			return 0, ErrNothingInProgress
		}
		active.Dropped = true
		active.LastUpdatedOn = now
		if err := s.seenRepo.Save(active); err != nil {
			return 0, fmt.Errorf("failed to drop record: %w", err)
		}
		record = active

	case ActionNow, ActionInThePast, ActionJustStarted:
		record, err = s.createRecord(userID, meta, input, action, now)
		if err != nil {
			return 0, err
		}
	}

	if s.notifier != nil {
		if err := s.notifier.AfterProgressRecorded(ctx, *record, meta.Lot); err != nil {
			log.Printf("Failed to enqueue after-progress notification for record %d: %v", record.ID, err)
		}
	}

	return record.ID, nil
}

// classify maps a report onto one of the five actions. hasActive tells
// whether a sub-100, non-dropped record already exists for (user, metadata).
func classify(progress *int, date *time.Time, hasActive bool, now time.Time) Action {
	if progress == nil {
		return ActionDrop
	}
	if *progress == 100 {
		if date == nil {
			return ActionInThePast
		}
		if sameDay(*date, now) {
			if hasActive {
				return ActionUpdate
			}
			return ActionNow
		}
		return ActionInThePast
	}
	if hasActive {
		return ActionUpdate
	}
	return ActionJustStarted
}

// createRecord builds the new seen record for the three creation actions.
func (s *Service) createRecord(userID uint, meta *entities.MediaMetadata, input UpdateInput, action Action, now time.Time) (*entities.SeenRecord, error) {
	today := startOfDay(now)

	record := &entities.SeenRecord{
		UserID:        userID,
		MetadataID:    meta.ID,
		Identifier:    input.Identifier,
		LastUpdatedOn: now,
	}

	switch action {
	case ActionJustStarted:
		record.Progress = *input.Progress
		record.StartedOn = &today
	case ActionNow:
		record.Progress = 100
		record.FinishedOn = &today
	case ActionInThePast:
		record.Progress = 100
		if input.Date != nil {
			finished := startOfDay(*input.Date)
			record.FinishedOn = &finished
		}
	}

	switch meta.Lot {
	case entities.MediaLotShow:
		if input.ShowSeason == nil || input.ShowEpisode == nil {
			return nil, ErrSeasonEpisodeRequired
		}
		record.ExtraInformation = &entities.SeenExtraInformation{
			Show: &entities.SeenShowInformation{
				Season:  *input.ShowSeason,
				Episode: *input.ShowEpisode,
			},
		}
	case entities.MediaLotPodcast:
		if input.PodcastEpisode == nil {
			return nil, ErrEpisodeRequired
		}
		record.ExtraInformation = &entities.SeenExtraInformation{
			Podcast: &entities.SeenPodcastInformation{
				Episode: *input.PodcastEpisode,
			},
		}
	}

	if err := s.seenRepo.Create(record); err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}
	return record, nil
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
