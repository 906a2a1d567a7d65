package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// SyncLogCleaner provides the ability to delete old sync history.
type SyncLogCleaner interface {
	DeleteOldSyncLogs(retention time.Duration) (int64, error)
}

// CleanupSyncLogsTask prunes sync history older than the configured
// retention period. Products themselves are never deleted; only run logs.
type CleanupSyncLogsTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config returns the queue configuration for sync log cleanup tasks.
func (t CleanupSyncLogsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_sync_logs",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupSyncLogsProcessor creates a processor function for
// CleanupSyncLogsTask.
func CleanupSyncLogsProcessor(cleaner SyncLogCleaner) backlite.QueueProcessor[CleanupSyncLogsTask] {
	return func(ctx context.Context, task CleanupSyncLogsTask) error {
		if cleaner == nil {
			return fmt.Errorf("sync log cleaner not configured")
		}

		retentionDays := task.RetentionDays
		if retentionDays <= 0 {
			retentionDays = 90
		}
		retention := time.Duration(retentionDays) * 24 * time.Hour

		deleted, err := cleaner.DeleteOldSyncLogs(retention)
		if err != nil {
			return fmt.Errorf("cleanup sync logs: %w", err)
		}

		log.Printf("[tasks] cleaned up %d sync logs older than %d days", deleted, retentionDays)
		return nil
	}
}

// NewCleanupSyncLogsQueue creates a backlite queue for sync log cleanup.
func NewCleanupSyncLogsQueue(cleaner SyncLogCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupSyncLogsProcessor(cleaner))
}
