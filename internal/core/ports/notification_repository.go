package ports

import (
	"context"
	"time"

	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/domain/model/notification"
)

// NotificationRepository defines the persistence contract for the
// notification delivery log. Rows are inserted and updated, never deleted.
type NotificationRepository interface {
	// Add persists a new pending notification row.
	Add(ctx context.Context, log *notification.Log) error

	// Update persists the outcome of a delivery attempt.
	Update(ctx context.Context, log *notification.Log) error

	// Get retrieves a row by its unique identifier.
	// Returns errs.ErrObjectNotFound when no such row exists.
	Get(ctx context.Context, id kernel.UUID) (*notification.Log, error)

	// ListStale returns rows still pending or failed whose last change is
	// older than the cutoff and whose attempts stay below maxAttempts.
	// The sweep job re-enqueues them.
	ListStale(ctx context.Context, olderThan time.Time, maxAttempts int) ([]*notification.Log, error)
}
