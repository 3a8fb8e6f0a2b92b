package tasks

import (
	"context"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/muhsinkutay/mediatrack/internal/collections"
	"github.com/muhsinkutay/mediatrack/internal/entities"
)

// AfterProgressRecordedTask is the signal emitted after every successful
// progress mutation. Its processor keeps the default collections in step
// with the record's state.
type AfterProgressRecordedTask struct {
	SeenID     uint              `json:"seen_id"`
	UserID     uint              `json:"user_id"`
	MetadataID uint              `json:"metadata_id"`
	Progress   int               `json:"progress"`
	Dropped    bool              `json:"dropped"`
	Lot        entities.MediaLot `json:"lot"`
}

// Config returns the queue configuration for after-progress tasks.
func (t AfterProgressRecordedTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "after_progress_recorded",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// AfterProgressRecordedProcessor maintains default-collection membership
// after a progress mutation: any activity takes the media off the Watchlist,
// unfinished activity puts it In Progress, and finishing or dropping takes it
// back out (finishing also lands it in Completed).
func AfterProgressRecordedProcessor(collectionSvc *collections.Service) backlite.QueueProcessor[AfterProgressRecordedTask] {
	return func(ctx context.Context, task AfterProgressRecordedTask) error {
		err := collectionSvc.RemoveMedia(task.UserID, string(collections.DefaultCollectionWatchlist), task.MetadataID)
		if err != nil {
			return err
		}

		switch {
		case task.Dropped:
			err = collectionSvc.RemoveMedia(task.UserID, string(collections.DefaultCollectionInProgress), task.MetadataID)
		case task.Progress == 100:
			if err = collectionSvc.RemoveMedia(task.UserID, string(collections.DefaultCollectionInProgress), task.MetadataID); err != nil {
				return err
			}
			err = collectionSvc.AddMedia(task.UserID, string(collections.DefaultCollectionCompleted), task.MetadataID)
		default:
			err = collectionSvc.AddMedia(task.UserID, string(collections.DefaultCollectionInProgress), task.MetadataID)
		}
		if err != nil {
			return err
		}

		log.Printf("[TASK] Updated collections for user %d after progress on metadata %d (%s)",
			task.UserID, task.MetadataID, task.Lot)
		return nil
	}
}

// NewAfterProgressRecordedQueue creates the backlite queue for after-progress
// tasks.
func NewAfterProgressRecordedQueue(collectionSvc *collections.Service) backlite.Queue {
	return backlite.NewQueue(AfterProgressRecordedProcessor(collectionSvc))
}

// ProgressNotifier adapts the task client to the progress service's Notifier
// interface.
type ProgressNotifier struct {
	client *Client
}

// NewProgressNotifier creates a notifier publishing through the task queue.
func NewProgressNotifier(client *Client) *ProgressNotifier {
	return &ProgressNotifier{client: client}
}

// AfterProgressRecorded enqueues the after-progress task for a record.
func (n *ProgressNotifier) AfterProgressRecorded(ctx context.Context, record entities.SeenRecord, lot entities.MediaLot) error {
	_, err := n.client.Add(AfterProgressRecordedTask{
		SeenID:     record.ID,
		UserID:     record.UserID,
		MetadataID: record.MetadataID,
		Progress:   record.Progress,
		Dropped:    record.Dropped,
		Lot:        lot,
	}).Ctx(ctx).Save()
	return err
}
