package ports

import (
	"context"

	"shiptrack/internal/core/domain/model/notification"
)

// NotificationQueue decouples the transactional core from the dispatcher:
// the transition coordinator writes jobs, dispatcher workers read them. No
// ordering guarantee exists across shipments, and delivery is at-least-once;
// producers never learn the dispatcher's outcome.
type NotificationQueue interface {
	// Enqueue schedules one dispatcher job. Bounded by the context deadline;
	// an error means the job was not accepted.
	Enqueue(ctx context.Context, job notification.Job) error
}

// JobHandler processes one dequeued job. Implemented by the dispatcher and
// invoked by the queue's consuming side. A returned error signals the queue
// that the job was not processed and may be redelivered.
type JobHandler interface {
	Handle(ctx context.Context, job notification.Job) error
}
