package commands

import (
	"errors"

	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/pkg/errs"
	"shiptrack/internal/pkg/guard"
)

var (
	ErrAssignShipmentCommandIsNotConstructed = errors.New(
		"AssignShipmentCommand must be created via NewAssignShipmentCommand constructor",
	)
	ErrAssigneeIsAmbiguous = errors.New("exactly one of driver or carrier must be assigned")
)

// AssignShipmentCommand represents a request to route a shipment through an
// internal driver or an external carrier. Exactly one of the two must be set;
// the external tracking number only accompanies a carrier.
type AssignShipmentCommand struct { //nolint:recvcheck //using for validation
	shipmentID             kernel.UUID
	driverID               *kernel.UUID
	carrierID              *kernel.UUID
	externalTrackingNumber string
	actorID                *kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignShipmentCommand creates an assignment request. Pass a driver for
// internal delivery or a carrier (optionally with its tracking number) for
// external delivery, never both.
func NewAssignShipmentCommand(
	shipmentID kernel.UUID,
	driverID *kernel.UUID,
	carrierID *kernel.UUID,
	externalTrackingNumber string,
	actorID *kernel.UUID,
) (AssignShipmentCommand, error) {
	cmd := AssignShipmentCommand{
		externalTrackingNumber: externalTrackingNumber,
		guard:                  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setShipmentID(shipmentID),
		cmd.setAssignee(driverID, carrierID),
		cmd.setActorID(actorID),
	); err != nil {
		return AssignShipmentCommand{}, err
	}

	if driverID != nil && externalTrackingNumber != "" {
		return AssignShipmentCommand{}, errs.NewValueIsInvalidError("externalTrackingNumber")
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignShipmentCommand) Validate() error {
	return c.guard.Validate(ErrAssignShipmentCommandIsNotConstructed)
}

// ShipmentID returns the shipment to assign.
func (c AssignShipmentCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}

// Driver returns the internal driver to assign, nil for carrier assignment.
func (c AssignShipmentCommand) Driver() *kernel.UUID {
	return c.driverID
}

// Carrier returns the external carrier to assign, nil for driver assignment.
func (c AssignShipmentCommand) Carrier() *kernel.UUID {
	return c.carrierID
}

// ExternalTrackingNumber returns the carrier-side tracking number.
func (c AssignShipmentCommand) ExternalTrackingNumber() string {
	return c.externalTrackingNumber
}

// Actor returns the user performing the assignment, nil for system actions.
func (c AssignShipmentCommand) Actor() *kernel.UUID {
	return c.actorID
}

func (c *AssignShipmentCommand) setShipmentID(shipmentID kernel.UUID) error {
	if err := shipmentID.Validate(); err != nil {
		return err
	}

	c.shipmentID = shipmentID
	return nil
}

func (c *AssignShipmentCommand) setAssignee(driverID, carrierID *kernel.UUID) error {
	if (driverID == nil) == (carrierID == nil) {
		return ErrAssigneeIsAmbiguous
	}

	if driverID != nil {
		if err := driverID.Validate(); err != nil {
			return err
		}
	}
	if carrierID != nil {
		if err := carrierID.Validate(); err != nil {
			return err
		}
	}

	c.driverID = driverID
	c.carrierID = carrierID
	return nil
}

func (c *AssignShipmentCommand) setActorID(actorID *kernel.UUID) error {
	if actorID != nil {
		if err := actorID.Validate(); err != nil {
			return err
		}
	}

	c.actorID = actorID
	return nil
}
