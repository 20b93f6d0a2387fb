package commands

import (
	"errors"
	"time"

	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/domain/model/shipment"
	"shiptrack/internal/pkg/errs"
	"shiptrack/internal/pkg/guard"
)

var ErrCreateShipmentCommandIsNotConstructed = errors.New(
	"CreateShipmentCommand must be created via NewCreateShipmentCommand constructor",
)

// CreateShipmentParams carries the caller-supplied shipment attributes.
// SenderEmail, RecipientPhone, RecipientEmail, Reference, WeightKg and
// EstimatedDeliveryDate are optional; PackagesCount defaults to 1 when zero.
type CreateShipmentParams struct {
	ShipmentID            kernel.UUID
	SenderName            string
	SenderEmail           string
	RecipientName         string
	RecipientPhone        string
	RecipientEmail        string
	DeliveryAddress       string
	Priority              shipment.Priority
	DeliveryType          shipment.DeliveryType
	Reference             string
	PackagesCount         int
	WeightKg              float64
	EstimatedDeliveryDate *time.Time
}

// CreateShipmentCommand represents a request to register a new shipment in
// status created, with a generated tracking code and public tracking token.
type CreateShipmentCommand struct { //nolint:recvcheck //using for validation
	params CreateShipmentParams

	guard guard.ConstructorGuard
}

// NewCreateShipmentCommand creates a shipment registration request.
// Validates the identifier, the enums, the required recipient name and
// delivery address, and the parcel figures.
func NewCreateShipmentCommand(params CreateShipmentParams) (CreateShipmentCommand, error) {
	if params.PackagesCount == 0 {
		params.PackagesCount = 1
	}

	if err := errors.Join(
		params.ShipmentID.Validate(),
		params.Priority.Validate(),
		params.DeliveryType.Validate(),
		validateRequired("recipientName", params.RecipientName),
		validateRequired("deliveryAddress", params.DeliveryAddress),
	); err != nil {
		return CreateShipmentCommand{}, err
	}

	if params.PackagesCount < 0 {
		return CreateShipmentCommand{}, errs.NewValueIsInvalidError("packagesCount")
	}
	if params.WeightKg < 0 {
		return CreateShipmentCommand{}, errs.NewValueIsInvalidError("weightKg")
	}

	return CreateShipmentCommand{
		params: params,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateShipmentCommand) Validate() error {
	return c.guard.Validate(ErrCreateShipmentCommandIsNotConstructed)
}

// Params returns the validated shipment attributes.
func (c CreateShipmentCommand) Params() CreateShipmentParams {
	return c.params
}

func validateRequired(name, value string) error {
	if value == "" {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}
