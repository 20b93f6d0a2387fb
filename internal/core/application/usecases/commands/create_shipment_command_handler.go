package commands

import (
	"context"

	"shiptrack/internal/core/domain/model/shipment"
)

// CreateShipmentCommandHandler handles the business logic for shipment
// registration. The shipment starts in status created; no log event and no
// notification are produced until the first transition.
type CreateShipmentCommandHandler struct {
	uowFactory ShipmentUoWFactory
}

// NewCreateShipmentCommandHandler creates a handler for shipment registration.
func NewCreateShipmentCommandHandler(uowFactory ShipmentUoWFactory) CreateShipmentCommandHandler {
	return CreateShipmentCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the registration command and returns the persisted
// aggregate, including its generated tracking code and public token.
func (h *CreateShipmentCommandHandler) Handle(
	ctx context.Context, cmd CreateShipmentCommand,
) (*shipment.Shipment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	p := cmd.Params()

	aggregate, err := shipment.NewShipment(
		p.ShipmentID,
		p.SenderName, p.SenderEmail,
		p.RecipientName, p.RecipientPhone, p.RecipientEmail,
		p.DeliveryAddress,
		p.Priority,
		p.DeliveryType,
	)
	if err != nil {
		return nil, err
	}

	aggregate.SetReference(p.Reference)
	if err = aggregate.SetParcelDetails(p.PackagesCount, p.WeightKg); err != nil {
		return nil, err
	}
	if p.EstimatedDeliveryDate != nil {
		aggregate.SetEstimatedDeliveryDate(*p.EstimatedDeliveryDate)
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.ShipmentRepository().Add(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}
