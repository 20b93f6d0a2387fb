package commands

import (
	"context"
	"log/slog"
	"time"

	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/domain/model/notification"
	"shiptrack/internal/core/domain/model/shipment"
	"shiptrack/internal/core/ports"
	"shiptrack/internal/pkg/metrics"
)

// TransitionResult carries the outcome of a committed transition: the updated
// aggregate and the log event that recorded it.
type TransitionResult struct {
	Shipment *shipment.Shipment
	Event    *shipment.Event
}

// ApplyTransitionCommandHandler is the single write path for shipment status
// changes. Within one transaction it validates the move against the state
// machine, persists the new status under an optimistic status guard and
// appends exactly one log event; after the commit it schedules one
// notification job. Queue failures are logged, never propagated: the
// transition outcome does not depend on the dispatcher.
type ApplyTransitionCommandHandler struct {
	uowFactory TransitionUoWFactory
	queue      ports.NotificationQueue
	clock      Clock
	logger     *slog.Logger
}

// NewApplyTransitionCommandHandler creates a handler for status transitions.
// clock may be nil, defaulting to time.Now.
func NewApplyTransitionCommandHandler(
	uowFactory TransitionUoWFactory,
	queue ports.NotificationQueue,
	clock Clock,
	logger *slog.Logger,
) ApplyTransitionCommandHandler {
	if clock == nil {
		clock = time.Now
	}

	return ApplyTransitionCommandHandler{
		uowFactory: uowFactory,
		queue:      queue,
		clock:      clock,
		logger:     logger,
	}
}

// Handle processes the transition command.
// Returns *shipment.InvalidTransitionError (wrapping
// shipment.ErrInvalidTransition) when the state machine forbids the move,
// errs.ErrObjectNotFound when the shipment does not exist and
// errs.ErrConcurrentUpdate when a concurrent transition won the race.
func (h *ApplyTransitionCommandHandler) Handle(
	ctx context.Context, cmd ApplyTransitionCommand,
) (*TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	shipmentRepo := uow.ShipmentRepository()

	aggregate, err := shipmentRepo.Get(ctx, cmd.ShipmentID())
	if err != nil {
		return nil, err
	}

	previous := aggregate.Status()
	now := h.clock()

	if err = aggregate.TransitionTo(cmd.Target(), now); err != nil {
		metrics.TransitionsRejectedTotal.Inc()
		return nil, err
	}

	description := cmd.Description()
	if description == "" {
		description = shipment.DefaultTransitionDescription(previous, cmd.Target())
	}

	event, err := shipment.NewEvent(
		kernel.NewUUID(),
		aggregate.ID(),
		cmd.Target(),
		description,
		cmd.Location(),
		cmd.Geo(),
		cmd.Actor(),
		cmd.Metadata(),
		now,
	)
	if err != nil {
		return nil, err
	}

	if err = shipmentRepo.Update(ctx, aggregate, previous); err != nil {
		return nil, err
	}

	if err = uow.EventRepository().Add(ctx, event); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.TransitionsAppliedTotal.WithLabelValues(cmd.Target().String()).Inc()

	if err = h.queue.Enqueue(ctx, notification.NewStatusJob(aggregate.ID(), cmd.Target())); err != nil {
		h.logger.ErrorContext(ctx, "failed to enqueue notification job",
			"shipment_id", aggregate.ID().String(),
			"status", cmd.Target().String(),
			"error", err)
	}

	return &TransitionResult{Shipment: aggregate, Event: event}, nil
}
