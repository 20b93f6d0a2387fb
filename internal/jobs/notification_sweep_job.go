package jobs

import (
	"context"
	"log/slog"
	"time"

	"shiptrack/internal/core/domain/model/notification"
	"shiptrack/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// NotificationSweepJob periodically promotes notification rows stuck in
// pending or failed back onto the queue. A row is stale when its last change
// is older than staleAfter; the per-row attempts counter bounds how often the
// sweep may pick the same row up again.
type NotificationSweepJob struct {
	uowFactory  ports.UnitOfWorkFactory
	queue       ports.NotificationQueue
	staleAfter  time.Duration
	maxAttempts int
	clock       func() time.Time
	cron        *cron.Cron
	logger      *slog.Logger
}

// NewNotificationSweepJob creates the sweep job. A nil clock defaults to
// time.Now.
func NewNotificationSweepJob(
	uowFactory ports.UnitOfWorkFactory,
	queue ports.NotificationQueue,
	staleAfter time.Duration,
	maxAttempts int,
	clock func() time.Time,
	logger *slog.Logger,
) *NotificationSweepJob {
	if clock == nil {
		clock = time.Now
	}
	return &NotificationSweepJob{
		uowFactory:  uowFactory,
		queue:       queue,
		staleAfter:  staleAfter,
		maxAttempts: maxAttempts,
		clock:       clock,
		cron:        cron.New(),
		logger:      logger.With("component", "notification_sweep_job"),
	}
}

// Start schedules the sweep to run every minute.
func (j *NotificationSweepJob) Start() error {
	_, err := j.cron.AddFunc("@every 1m", func() {
		ctx := context.Background()
		if err := j.Run(ctx); err != nil {
			j.logger.ErrorContext(ctx, "notification sweep failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(),
		"notification sweep job started (running every minute)")
	return nil
}

// Stop stops the scheduled sweep.
func (j *NotificationSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "notification sweep job stopped")
}

// Run executes one sweep pass. Each stale row is moved back to pending and a
// redelivery job is enqueued for it; per-row failures are logged and the pass
// continues with the remaining rows.
func (j *NotificationSweepJob) Run(ctx context.Context) error {
	uow := j.uowFactory.Create()
	repository := uow.NotificationRepository()

	cutoff := j.clock().Add(-j.staleAfter)
	rows, err := repository.ListStale(ctx, cutoff, j.maxAttempts)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	requeued := 0
	for _, row := range rows {
		row.MarkRequeued()
		if err := repository.Update(ctx, row); err != nil {
			j.logger.ErrorContext(ctx, "failed to requeue notification row",
				"notification_id", row.ID().String(),
				"error", err)
			continue
		}

		job := notification.NewRedeliveryJob(row.ShipmentID(), row.ID())
		if err := j.queue.Enqueue(ctx, job); err != nil {
			// the row stays pending; the next sweep picks it up again
			j.logger.ErrorContext(ctx, "failed to enqueue redelivery job",
				"notification_id", row.ID().String(),
				"error", err)
			continue
		}
		requeued++
	}

	j.logger.InfoContext(ctx, "notification sweep completed",
		"stale", len(rows), "requeued", requeued)
	return nil
}
