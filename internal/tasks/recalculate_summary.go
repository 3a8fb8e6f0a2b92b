package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/muhsinkutay/mediatrack/internal/summary"
)

// RecalculateSummaryTask recomputes one user's summary snapshot out-of-band.
// The single queue serializes recomputations, so two workers never rebuild
// the same user's summary at once in practice.
type RecalculateSummaryTask struct {
	UserID uint `json:"user_id"`
}

// Config returns the queue configuration for summary recalculation tasks.
func (t RecalculateSummaryTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "recalculate_summary",
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// RecalculateSummaryProcessor creates a processor that runs the aggregation
// engine for the task's user.
func RecalculateSummaryProcessor(calculator *summary.Calculator) backlite.QueueProcessor[RecalculateSummaryTask] {
	return func(ctx context.Context, task RecalculateSummaryTask) error {
		summaryID, err := calculator.Calculate(ctx, task.UserID)
		if err != nil {
			return fmt.Errorf("recalculate summary for user %d: %w", task.UserID, err)
		}
		log.Printf("[TASK] Recalculated summary %d for user %d", summaryID, task.UserID)
		return nil
	}
}

// NewRecalculateSummaryQueue creates the backlite queue for summary
// recalculation tasks.
func NewRecalculateSummaryQueue(calculator *summary.Calculator) backlite.Queue {
	return backlite.NewQueue(RecalculateSummaryProcessor(calculator))
}
