package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per request/command, ensuring
// isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents one business transaction boundary. Repository
// accessors return repositories bound to the active transaction when one was
// begun, or to the main connection otherwise. Client code manages the
// transaction lifecycle explicitly:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	// repository operations ...
//
//	return uow.Commit(ctx)
type UnitOfWork interface {
	// Begin starts a new database transaction. Calling Begin again on an
	// instance with an active transaction is a no-op.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns an error if no transaction is active or the commit fails.
	Commit(ctx context.Context) error

	// Rollback discards the current transaction.
	// Returns an error if no transaction is active or the rollback fails.
	Rollback(ctx context.Context) error

	// ShipmentRepository returns shipment persistence bound to this unit of work.
	ShipmentRepository() ShipmentRepository

	// EventRepository returns the transition log bound to this unit of work.
	EventRepository() EventRepository

	// PODRepository returns POD persistence bound to this unit of work.
	PODRepository() PODRepository

	// NotificationRepository returns the delivery log bound to this unit of work.
	NotificationRepository() NotificationRepository
}
