package ports

import (
	"context"

	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/domain/model/shipment"
)

// EventRepository defines the persistence contract for the append-only
// transition log. Events are only ever added, never updated or deleted.
type EventRepository interface {
	// Add appends one event to the log.
	Add(ctx context.Context, event *shipment.Event) error

	// ListByShipment returns a shipment's events most-recent-first.
	ListByShipment(ctx context.Context, shipmentID kernel.UUID) ([]*shipment.Event, error)
}
