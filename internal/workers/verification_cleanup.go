package workers

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/talentfit/talentfit/internal/tasks"
)

// CodeCleaner removes expired verification codes
type CodeCleaner interface {
	CleanupExpiredCodes(ctx context.Context, now time.Time) (int64, error)
}

// HandleVerificationCleanup processes a verification:cleanup task
func HandleVerificationCleanup(ctx context.Context, t *asynq.Task, cleaner CodeCleaner, logger zerolog.Logger) error {
	deleted, err := cleaner.CleanupExpiredCodes(ctx, time.Now())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to clean up verification codes")
		return err
	}

	logger.Debug().Int64("deleted", deleted).Msg("Verification cleanup finished")
	return nil
}

// StartCleanupScheduler enqueues a cleanup task on the given cron schedule
// (standard 5-field format). The returned cron must be stopped on shutdown.
func StartCleanupScheduler(client tasks.Enqueuer, schedule string, logger zerolog.Logger) (*cron.Cron, error) {
	c := cron.New()

	enqueue := func() {
		info, err := client.EnqueueContext(context.Background(), tasks.NewVerificationCleanupTask())
		if err != nil {
			logger.Error().Err(err).Msg("Failed to enqueue verification cleanup")
			return
		}
		logger.Debug().Str("task_id", info.ID).Msg("Verification cleanup enqueued")
	}

	if _, err := c.AddFunc(schedule, enqueue); err != nil {
		return nil, err
	}

	// Run immediately on startup, then on schedule
	enqueue()
	c.Start()

	logger.Info().Str("schedule", schedule).Msg("Verification cleanup scheduler started")
	return c, nil
}
