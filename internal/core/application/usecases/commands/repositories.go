// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"
	"time"

	"shiptrack/internal/core/ports"
)

// Clock supplies the commit-side timestamps for transitions. Handlers fall
// back to time.Now when nil.
type Clock func() time.Time

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// ShipmentRepoFactory provides access to shipment persistence within a transaction.
	ShipmentRepoFactory interface {
		ShipmentRepository() ports.ShipmentRepository
	}

	// EventRepoFactory provides access to the transition log within a transaction.
	EventRepoFactory interface {
		EventRepository() ports.EventRepository
	}

	// PODRepoFactory provides access to POD persistence within a transaction.
	PODRepoFactory interface {
		PODRepository() ports.PODRepository
	}

	// ShipmentUoW manages transactions for shipment-only operations.
	ShipmentUoW interface {
		TxManager
		ShipmentRepoFactory
	}

	// ShipmentUoWFactory creates new shipment unit of work instances.
	ShipmentUoWFactory interface {
		Create() ShipmentUoW
	}

	// TransitionUoW manages transactions that move a shipment through the
	// state machine and append the matching log event atomically.
	TransitionUoW interface {
		TxManager
		ShipmentRepoFactory
		EventRepoFactory
	}

	// TransitionUoWFactory creates new transition unit of work instances.
	TransitionUoWFactory interface {
		Create() TransitionUoW
	}

	// PODUoW manages transactions for proof-of-delivery submission.
	PODUoW interface {
		TxManager
		ShipmentRepoFactory
		PODRepoFactory
	}

	// PODUoWFactory creates new POD unit of work instances.
	PODUoWFactory interface {
		Create() PODUoW
	}
)

// TransitionApplier is the slice of the transition handler that dependent
// handlers (POD submission, assignment) use to derive status changes.
type TransitionApplier interface {
	Handle(ctx context.Context, cmd ApplyTransitionCommand) (*TransitionResult, error)
}
