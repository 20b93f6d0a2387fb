package ports

import (
	"context"

	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/domain/model/pod"
)

// PODRepository defines the persistence contract for proof-of-delivery
// records. Storage enforces two uniqueness invariants: at most one record per
// shipment, and at most one record per (device UUID, local record ID) pair
// among offline-synced records.
type PODRepository interface {
	// Add persists a new record. A violation of either uniqueness invariant
	// yields errs.ErrDuplicateRecord; callers treat that as an idempotent
	// replay, not a failure.
	Add(ctx context.Context, record *pod.Record) error

	// FindByShipment returns the shipment's record, or (nil, nil) when the
	// shipment has none. Absence is an expected outcome, not an error.
	FindByShipment(ctx context.Context, shipmentID kernel.UUID) (*pod.Record, error)

	// FindByDeviceRecord returns the offline-synced record carrying the given
	// idempotency key, or (nil, nil) when none exists.
	FindByDeviceRecord(ctx context.Context, deviceUUID, localRecordID string) (*pod.Record, error)
}
