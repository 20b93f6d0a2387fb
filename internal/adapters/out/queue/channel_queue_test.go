package queue_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"shiptrack/internal/adapters/out/queue"
	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/domain/model/notification"
	"shiptrack/internal/core/domain/model/shipment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	mu        sync.Mutex
	jobs      []notification.Job
	err       error
	remaining int
	done      chan struct{}
}

func newRecordingHandler(expected int) *recordingHandler {
	h := &recordingHandler{done: make(chan struct{})}
	if expected == 0 {
		close(h.done)
	}
	h.remaining = expected
	return h
}

func (h *recordingHandler) Handle(_ context.Context, job notification.Job) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.jobs = append(h.jobs, job)
	if h.remaining > 0 {
		h.remaining--
		if h.remaining == 0 {
			close(h.done)
		}
	}
	return h.err
}

func (h *recordingHandler) handled() []notification.Job {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]notification.Job(nil), h.jobs...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitFor(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for jobs to be handled")
	}
}

func TestChannelQueue_EnqueuedJobReachesHandler(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := queue.NewChannelQueue(4, 2, testLogger())
	handler := newRecordingHandler(1)
	q.Start(ctx, handler)

	job := notification.NewStatusJob(kernel.NewUUID(), shipment.Delivered)
	require.NoError(t, q.Enqueue(ctx, job))

	waitFor(t, handler.done)
	handled := handler.handled()
	require.Len(t, handled, 1)
	assert.True(t, handled[0].ShipmentID.IsEqual(job.ShipmentID))
	assert.Equal(t, shipment.Delivered, handled[0].Status)
}

func TestChannelQueue_HandlerErrorDoesNotStopWorkers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := queue.NewChannelQueue(4, 1, testLogger())
	handler := newRecordingHandler(2)
	handler.err = errors.New("send failed")
	q.Start(ctx, handler)

	require.NoError(t, q.Enqueue(ctx, notification.NewStatusJob(kernel.NewUUID(), shipment.Assigned)))
	require.NoError(t, q.Enqueue(ctx, notification.NewStatusJob(kernel.NewUUID(), shipment.PickedUp)))

	waitFor(t, handler.done)
	assert.Len(t, handler.handled(), 2)
}

func TestChannelQueue_FullBufferHonorsContext(t *testing.T) {
	// no workers started, so the single slot stays occupied
	q := queue.NewChannelQueue(1, 1, testLogger())
	require.NoError(t, q.Enqueue(context.Background(),
		notification.NewStatusJob(kernel.NewUUID(), shipment.Assigned)))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := q.Enqueue(ctx, notification.NewStatusJob(kernel.NewUUID(), shipment.PickedUp))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestChannelQueue_CloseUnblocksPendingEnqueue(t *testing.T) {
	// no workers started, so the single slot stays occupied and the
	// second Enqueue parks inside the send
	q := queue.NewChannelQueue(1, 1, testLogger())
	require.NoError(t, q.Enqueue(context.Background(),
		notification.NewStatusJob(kernel.NewUUID(), shipment.Assigned)))

	errCh := make(chan error, 1)
	go func() {
		errCh <- q.Enqueue(context.Background(),
			notification.NewStatusJob(kernel.NewUUID(), shipment.PickedUp))
	}()

	// give the producer time to block on the full buffer
	time.Sleep(50 * time.Millisecond)
	q.Close()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, queue.ErrQueueClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("enqueue still blocked after Close")
	}
}

func TestChannelQueue_ConcurrentEnqueueAndCloseDoNotPanic(t *testing.T) {
	q := queue.NewChannelQueue(1, 1, testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				err := q.Enqueue(context.Background(),
					notification.NewStatusJob(kernel.NewUUID(), shipment.InTransit))
				if errors.Is(err, queue.ErrQueueClosed) {
					return
				}
			}
		}()
	}

	time.Sleep(10 * time.Millisecond)
	q.Close()
	wg.Wait()

	err := q.Enqueue(context.Background(),
		notification.NewStatusJob(kernel.NewUUID(), shipment.Delivered))
	assert.ErrorIs(t, err, queue.ErrQueueClosed)
}

func TestChannelQueue_CloseDrainsBufferedJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := queue.NewChannelQueue(4, 1, testLogger())
	handler := newRecordingHandler(3)

	for i := 0; i < 3; i++ {
		require.NoError(t, q.Enqueue(ctx,
			notification.NewStatusJob(kernel.NewUUID(), shipment.InTransit)))
	}

	q.Start(ctx, handler)
	q.Close()

	waitFor(t, handler.done)
	assert.Len(t, handler.handled(), 3)

	err := q.Enqueue(ctx, notification.NewStatusJob(kernel.NewUUID(), shipment.Delivered))
	assert.ErrorIs(t, err, queue.ErrQueueClosed)
}

func TestChannelQueue_InvalidJobIsRejected(t *testing.T) {
	q := queue.NewChannelQueue(1, 1, testLogger())

	err := q.Enqueue(context.Background(), notification.Job{})
	require.Error(t, err)
}
