// Package queries contains read-only operations in the CQRS architecture.
// Query handlers bypass the domain aggregates and read the database directly,
// returning flat response models shaped for their consumers.
package queries

import (
	"errors"
	"time"

	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/pkg/guard"
)

var ErrGetShipmentEventsQueryIsNotConstructed = errors.New(
	"GetShipmentEventsQuery must be created via NewGetShipmentEventsQuery constructor",
)

// GetShipmentEventsQuery retrieves a shipment's transition log,
// most-recent-first.
type GetShipmentEventsQuery struct {
	shipmentID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetShipmentEventsQuery creates a query for one shipment's log.
func NewGetShipmentEventsQuery(shipmentID kernel.UUID) (GetShipmentEventsQuery, error) {
	if err := shipmentID.Validate(); err != nil {
		return GetShipmentEventsQuery{}, err
	}

	return GetShipmentEventsQuery{
		shipmentID: shipmentID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetShipmentEventsQuery) Validate() error {
	return q.guard.Validate(ErrGetShipmentEventsQueryIsNotConstructed)
}

// ShipmentID returns the shipment whose log is requested.
func (q GetShipmentEventsQuery) ShipmentID() kernel.UUID {
	return q.shipmentID
}

// GetShipmentEventsQueryResponse represents one transition log entry.
// Coordinates and actor are nil when they were not captured.
type GetShipmentEventsQueryResponse struct {
	ID          kernel.UUID
	Status      string
	Description string
	Location    string
	Latitude    *float64
	Longitude   *float64
	ActorID     *kernel.UUID
	OccurredAt  time.Time
}
