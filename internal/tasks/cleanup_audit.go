package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// AuditLogCleaner provides the ability to delete old audit log entries.
type AuditLogCleaner interface {
	DeleteOldEntries(retention time.Duration) (int64, error)
}

// CleanupAuditLogsTask removes audit entries older than the configured retention period.
type CleanupAuditLogsTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config returns the queue configuration for audit cleanup tasks.
func (t CleanupAuditLogsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_audit_logs",
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

// CleanupAuditLogsProcessor creates a processor function for CleanupAuditLogsTask.
func CleanupAuditLogsProcessor(cleaner AuditLogCleaner) backlite.QueueProcessor[CleanupAuditLogsTask] {
	return func(ctx context.Context, task CleanupAuditLogsTask) error {
		if cleaner == nil {
			return fmt.Errorf("audit log cleaner not configured")
		}

		retentionDays := task.RetentionDays
		if retentionDays <= 0 {
			retentionDays = 90
		}
		retention := time.Duration(retentionDays) * 24 * time.Hour

		deleted, err := cleaner.DeleteOldEntries(retention)
		if err != nil {
			return fmt.Errorf("cleanup audit logs: %w", err)
		}

		log.Printf("[TASK] Cleaned up %d audit entries older than %d days", deleted, retentionDays)
		return nil
	}
}

// NewCleanupAuditLogsQueue creates a backlite queue for audit cleanup tasks.
func NewCleanupAuditLogsQueue(cleaner AuditLogCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupAuditLogsProcessor(cleaner))
}
