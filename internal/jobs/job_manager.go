package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"shiptrack/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	notificationSweepJob *NotificationSweepJob
}

// NewJobManager creates a job manager with all required jobs wired up.
func NewJobManager(
	uowFactory ports.UnitOfWorkFactory,
	queue ports.NotificationQueue,
	staleAfter time.Duration,
	maxAttempts int,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		notificationSweepJob: NewNotificationSweepJob(
			uowFactory, queue, staleAfter, maxAttempts, nil, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.notificationSweepJob.Start(); err != nil {
		return fmt.Errorf("failed to start notification sweep job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.notificationSweepJob.Stop()
}
