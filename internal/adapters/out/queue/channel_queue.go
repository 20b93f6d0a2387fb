package queue

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"shiptrack/internal/core/domain/model/notification"
	"shiptrack/internal/core/ports"
)

// ErrQueueClosed is returned by Enqueue after Close.
var ErrQueueClosed = errors.New("notification queue is closed")

// ChannelQueue is the single-process notification queue: a bounded channel
// drained by a fixed worker pool. Delivery is at-least-once only within the
// process lifetime; jobs still buffered at shutdown are lost, which the sweep
// job compensates for by re-enqueueing their stale rows.
type ChannelQueue struct {
	jobs    chan notification.Job
	done    chan struct{}
	workers int
	logger  *slog.Logger

	// mu orders producers against Close: every send holds the read lock,
	// and jobs is only closed under the write lock, after done has been
	// closed and all in-flight sends have returned.
	mu        sync.RWMutex
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewChannelQueue creates a queue with the given buffer capacity and worker
// count. Values below one are clamped to one.
func NewChannelQueue(capacity, workers int, logger *slog.Logger) *ChannelQueue {
	if capacity < 1 {
		capacity = 1
	}
	if workers < 1 {
		workers = 1
	}
	return &ChannelQueue{
		jobs:    make(chan notification.Job, capacity),
		done:    make(chan struct{}),
		workers: workers,
		logger:  logger.With("component", "notification_queue"),
	}
}

// Enqueue schedules one dispatcher job. Blocks while the buffer is full until
// space frees up, the context expires or the queue is closed.
func (q *ChannelQueue) Enqueue(ctx context.Context, job notification.Job) error {
	if err := job.Validate(); err != nil {
		return err
	}

	q.mu.RLock()
	defer q.mu.RUnlock()

	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}

	select {
	case q.jobs <- job:
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start launches the worker pool feeding dequeued jobs to the handler.
// Workers exit when the context is cancelled or the queue is closed and
// drained. Handler errors are logged; the job is not retried here.
func (q *ChannelQueue) Start(ctx context.Context, handler ports.JobHandler) {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job, ok := <-q.jobs:
					if !ok {
						return
					}
					if err := handler.Handle(ctx, job); err != nil {
						q.logger.ErrorContext(ctx, "notification job failed",
							"shipment_id", job.ShipmentID.String(),
							"error", err)
					}
				}
			}
		}()
	}
}

// Close stops accepting jobs and waits for the workers to drain the buffer.
// Producers blocked on a full buffer are woken and get ErrQueueClosed.
func (q *ChannelQueue) Close() {
	q.closeOnce.Do(func() {
		// closing done before taking the write lock lets blocked
		// producers leave their send, so the lock cannot deadlock
		close(q.done)
		q.mu.Lock()
		close(q.jobs)
		q.mu.Unlock()
	})

	q.wg.Wait()
}
