package commands

import (
	"errors"

	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/domain/model/shipment"
	"shiptrack/internal/pkg/guard"
)

var ErrApplyTransitionCommandIsNotConstructed = errors.New(
	"ApplyTransitionCommand must be created via NewApplyTransitionCommand constructor",
)

// ApplyTransitionCommand represents a request to move a shipment to a new
// lifecycle status. Carries the optional audit context captured alongside the
// transition: description, location, coordinates, the acting user and
// arbitrary metadata.
//
// Example:
//
//	cmd, err := commands.NewApplyTransitionCommand(
//	    shipmentID, shipment.PickedUp, &actorID, "", "warehouse 4", nil, nil)
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
type ApplyTransitionCommand struct { //nolint:recvcheck //using for validation
	shipmentID  kernel.UUID
	target      shipment.Status
	actorID     *kernel.UUID
	description string
	location    string
	geo         *kernel.GeoPoint
	metadata    map[string]any

	guard guard.ConstructorGuard
}

// NewApplyTransitionCommand creates a transition request. The actor is nil
// for system-triggered transitions; description defaults to the standard
// "status changed from X to Y" text when empty.
func NewApplyTransitionCommand(
	shipmentID kernel.UUID,
	target shipment.Status,
	actorID *kernel.UUID,
	description string,
	location string,
	geo *kernel.GeoPoint,
	metadata map[string]any,
) (ApplyTransitionCommand, error) {
	cmd := ApplyTransitionCommand{
		description: description,
		location:    location,
		metadata:    metadata,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setShipmentID(shipmentID),
		cmd.setTarget(target),
		cmd.setActorID(actorID),
		cmd.setGeo(geo),
	); err != nil {
		return ApplyTransitionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ApplyTransitionCommand) Validate() error {
	return c.guard.Validate(ErrApplyTransitionCommandIsNotConstructed)
}

// ShipmentID returns the shipment to transition.
func (c ApplyTransitionCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}

// Target returns the requested destination status.
func (c ApplyTransitionCommand) Target() shipment.Status {
	return c.target
}

// Actor returns the user requesting the transition, nil for system actions.
func (c ApplyTransitionCommand) Actor() *kernel.UUID {
	return c.actorID
}

// Description returns the caller-supplied event description, possibly empty.
func (c ApplyTransitionCommand) Description() string {
	return c.description
}

// Location returns the free-text location, possibly empty.
func (c ApplyTransitionCommand) Location() string {
	return c.location
}

// Geo returns the captured coordinates, nil when not available.
func (c ApplyTransitionCommand) Geo() *kernel.GeoPoint {
	return c.geo
}

// Metadata returns the arbitrary payload to attach to the event, possibly nil.
func (c ApplyTransitionCommand) Metadata() map[string]any {
	return c.metadata
}

func (c *ApplyTransitionCommand) setShipmentID(shipmentID kernel.UUID) error {
	if err := shipmentID.Validate(); err != nil {
		return err
	}

	c.shipmentID = shipmentID
	return nil
}

func (c *ApplyTransitionCommand) setTarget(target shipment.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	c.target = target
	return nil
}

func (c *ApplyTransitionCommand) setActorID(actorID *kernel.UUID) error {
	if actorID != nil {
		if err := actorID.Validate(); err != nil {
			return err
		}
	}

	c.actorID = actorID
	return nil
}

func (c *ApplyTransitionCommand) setGeo(geo *kernel.GeoPoint) error {
	if geo != nil {
		if err := geo.Validate(); err != nil {
			return err
		}
	}

	c.geo = geo
	return nil
}
