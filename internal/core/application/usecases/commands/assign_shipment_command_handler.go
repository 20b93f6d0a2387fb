package commands

import (
	"context"
	"errors"
	"log/slog"

	"shiptrack/internal/core/domain/model/shipment"
)

// assignedTransitionDescription annotates the log event produced by the
// incidental created -> assigned move.
const assignedTransitionDescription = "shipment assigned"

// AssignShipmentCommandHandler routes a shipment through a driver or carrier.
// When the shipment still sits in created, the assignment also moves it to
// assigned through the regular transition path, so the log event and the
// notification fan-out happen exactly as for any other transition. Shipments
// already past created keep their current status.
type AssignShipmentCommandHandler struct {
	uowFactory  ShipmentUoWFactory
	transitions TransitionApplier
	logger      *slog.Logger
}

// NewAssignShipmentCommandHandler creates a handler for assignment operations.
func NewAssignShipmentCommandHandler(
	uowFactory ShipmentUoWFactory,
	transitions TransitionApplier,
	logger *slog.Logger,
) AssignShipmentCommandHandler {
	return AssignShipmentCommandHandler{
		uowFactory:  uowFactory,
		transitions: transitions,
		logger:      logger,
	}
}

// Handle processes the assignment command and returns the updated aggregate.
// Returns errs.ErrObjectNotFound when the shipment does not exist.
func (h *AssignShipmentCommandHandler) Handle(
	ctx context.Context, cmd AssignShipmentCommand,
) (*shipment.Shipment, error) {
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

	if cmd.Driver() != nil {
		err = aggregate.AssignDriver(*cmd.Driver())
	} else {
		err = aggregate.AssignCarrier(*cmd.Carrier(), cmd.ExternalTrackingNumber())
	}
	if err != nil {
		return nil, err
	}

	if err = shipmentRepo.Update(ctx, aggregate, previous); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if previous == shipment.Created {
		h.applyAssignedTransition(ctx, cmd, aggregate)
	}

	return aggregate, nil
}

// applyAssignedTransition performs the incidental created -> assigned move.
// The assignment itself already committed, so failures here are logged and
// swallowed; an invalid transition means a concurrent actor moved the
// shipment first, which is an acceptable outcome.
func (h *AssignShipmentCommandHandler) applyAssignedTransition(
	ctx context.Context, cmd AssignShipmentCommand, aggregate *shipment.Shipment,
) {
	transitionCmd, err := NewApplyTransitionCommand(
		aggregate.ID(), shipment.Assigned, cmd.Actor(),
		assignedTransitionDescription, "", nil, nil,
	)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build assigned transition",
			"shipment_id", aggregate.ID().String(), "error", err)
		return
	}

	if result, err := h.transitions.Handle(ctx, transitionCmd); err != nil {
		if !errors.Is(err, shipment.ErrInvalidTransition) {
			h.logger.WarnContext(ctx, "assigned transition not applied",
				"shipment_id", aggregate.ID().String(), "error", err)
		}
	} else if result.Shipment != nil {
		*aggregate = *result.Shipment
	}
}
