// Package ports defines the contracts between the application core and the
// infrastructure adapters: repositories, the unit of work, the notification
// queue and the outbound message sender. The interfaces enable dependency
// inversion and testability.
package ports

import (
	"context"

	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/domain/model/shipment"
)

// ShipmentRepository defines the persistence contract for shipment
// aggregates.
type ShipmentRepository interface {
	// Add persists a new shipment aggregate to storage.
	Add(ctx context.Context, aggregate *shipment.Shipment) error

	// Update persists changes to an existing shipment. guard is the status
	// the caller read before mutating: the write only applies while the
	// stored row still carries it, serializing concurrent transitions on the
	// same shipment. A lost race yields errs.ErrConcurrentUpdate.
	Update(ctx context.Context, aggregate *shipment.Shipment, guard shipment.Status) error

	// Get retrieves a shipment by its unique identifier.
	// Returns errs.ErrObjectNotFound when no such shipment exists.
	Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error)

	// GetByTrackingToken retrieves a shipment by its public tracking token.
	// Returns errs.ErrObjectNotFound when no such shipment exists.
	GetByTrackingToken(ctx context.Context, token string) (*shipment.Shipment, error)
}
