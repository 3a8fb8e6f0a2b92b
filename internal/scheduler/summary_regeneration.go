package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/muhsinkutay/mediatrack/internal/config"
	"github.com/muhsinkutay/mediatrack/internal/database/users"
	"github.com/muhsinkutay/mediatrack/internal/tasks"
)

// SummaryRegenerationScheduler periodically enqueues a summary
// recalculation task for every known user. The queue itself serializes the
// recomputations, so a large user base just stretches the run out.
type SummaryRegenerationScheduler struct {
	userRepo   *users.Repository
	taskClient *tasks.Client
	cfg        config.Summaries

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isWorking  bool
	cancelFunc context.CancelFunc
}

// NewSummaryRegenerationScheduler creates a new scheduler instance
func NewSummaryRegenerationScheduler(userRepo *users.Repository, taskClient *tasks.Client, cfg config.Summaries) *SummaryRegenerationScheduler {
	return &SummaryRegenerationScheduler{
		userRepo:   userRepo,
		taskClient: taskClient,
		cfg:        cfg,
		cron:       cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if regeneration is enabled
func (s *SummaryRegenerationScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.cfg.RegenerateEnabled {
		log.Printf("Summary regeneration scheduler: disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.cfg.RegenerateSchedule, func() {
		s.runRegeneration()
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.cfg.RegenerateSchedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Summary regeneration scheduler: started with schedule '%s'", s.cfg.RegenerateSchedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *SummaryRegenerationScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	log.Printf("Summary regeneration scheduler: stopped")
}

// RunNow triggers an immediate regeneration pass
func (s *SummaryRegenerationScheduler) RunNow() {
	go s.runRegeneration()
}

// IsRunning returns whether the scheduler is active
func (s *SummaryRegenerationScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next regeneration pass will occur
func (s *SummaryRegenerationScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runRegeneration enqueues one recalculation task per user
func (s *SummaryRegenerationScheduler) runRegeneration() {
	s.mu.Lock()
	if s.isWorking {
		s.mu.Unlock()
		log.Printf("Summary regeneration: skipped (already in progress)")
		return
	}
	s.isWorking = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isWorking = false
		s.mu.Unlock()
	}()

	userIDs, err := s.userRepo.ListIDs()
	if err != nil {
		log.Printf("Summary regeneration: failed to list users: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	enqueued := 0
	for _, userID := range userIDs {
		task := tasks.RecalculateSummaryTask{UserID: userID}
		if _, err := s.taskClient.Add(task).Ctx(ctx).Save(); err != nil {
			log.Printf("Summary regeneration: failed to enqueue for user %d: %v", userID, err)
			continue
		}
		enqueued++
	}

	log.Printf("Summary regeneration: enqueued %d of %d users", enqueued, len(userIDs))
}
