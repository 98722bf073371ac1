package logging

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/adhocore/gronx"
	"github.com/ahmetcoskunkizilkaya/moderation-backend/internal/models"
	"gorm.io/gorm"
)

// DeleteOlderThan removes system logs whose timestamp is before cutoff.
func DeleteOlderThan(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.WithContext(ctx).Where("timestamp < ?", cutoff.UTC()).Delete(&models.SystemLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete system logs: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// StartCleanup deletes system logs older than retentionDays each time the
// cron expression fires. The goroutine exits when done is closed.
func StartCleanup(db *gorm.DB, cronExpr string, retentionDays int, done <-chan struct{}) error {
	if !gronx.IsValid(cronExpr) {
		return fmt.Errorf("invalid log retention cron expression: %q", cronExpr)
	}
	if retentionDays < 1 {
		return fmt.Errorf("log retention days must be positive, got %d", retentionDays)
	}

	go func() {
		for {
			next, err := gronx.NextTickAfter(cronExpr, time.Now().UTC(), false)
			if err != nil {
				slog.Error("log cleanup schedule failed", "cron", cronExpr, "error", err)
				return
			}

			timer := time.NewTimer(time.Until(next))
			select {
			case <-timer.C:
				cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
				deleted, err := DeleteOlderThan(context.Background(), db, cutoff)
				if err != nil {
					slog.Error("log cleanup failed", "error", err)
				} else if deleted > 0 {
					slog.Info("log cleanup completed", "deleted", deleted)
				}
			case <-done:
				timer.Stop()
				return
			}
		}
	}()

	slog.Info("log cleanup scheduled", "cron", cronExpr, "retention_days", retentionDays)
	return nil
}
