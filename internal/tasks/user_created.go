package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/muhsinkutay/mediatrack/internal/collections"
)

// UserCreatedTask runs once after an account is registered and seeds the
// default collections.
type UserCreatedTask struct {
	UserID uint `json:"user_id"`
}

// Config returns the queue configuration for user-created tasks.
func (t UserCreatedTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "user_created",
		MaxAttempts: 5,
		Backoff:     30 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// UserCreatedProcessor creates a processor seeding the default collections.
// Seeding is idempotent, so at-least-once delivery is harmless.
func UserCreatedProcessor(collectionSvc *collections.Service) backlite.QueueProcessor[UserCreatedTask] {
	return func(ctx context.Context, task UserCreatedTask) error {
		if err := collectionSvc.SeedDefaults(task.UserID); err != nil {
			return fmt.Errorf("seed default collections for user %d: %w", task.UserID, err)
		}
		log.Printf("[TASK] Seeded default collections for user %d", task.UserID)
		return nil
	}
}

// NewUserCreatedQueue creates the backlite queue for user-created tasks.
func NewUserCreatedQueue(collectionSvc *collections.Service) backlite.Queue {
	return backlite.NewQueue(UserCreatedProcessor(collectionSvc))
}
