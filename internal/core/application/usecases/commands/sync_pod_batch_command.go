package commands

import (
	"errors"

	"shiptrack/internal/pkg/errs"
	"shiptrack/internal/pkg/guard"
)

var (
	ErrSyncPODBatchCommandIsNotConstructed = errors.New(
		"SyncPODBatchCommand must be created via NewSyncPODBatchCommand constructor",
	)
	ErrBatchIsEmpty = errors.New("batch must contain at least one record")
)

// SyncPODBatchCommand represents an offline device uploading its locally
// captured proof-of-delivery records in one request. Every record must carry
// the offline idempotency key; the device may replay the whole batch after a
// connection loss without creating duplicates.
type SyncPODBatchCommand struct { //nolint:recvcheck //using for validation
	records []SubmitPODCommand

	guard guard.ConstructorGuard
}

// NewSyncPODBatchCommand creates a batch sync request from already validated
// submissions. Rejects empty batches and records not flagged as offline.
func NewSyncPODBatchCommand(records []SubmitPODCommand) (SyncPODBatchCommand, error) {
	if len(records) == 0 {
		return SyncPODBatchCommand{}, ErrBatchIsEmpty
	}

	for _, record := range records {
		if err := record.Validate(); err != nil {
			return SyncPODBatchCommand{}, err
		}
		if !record.Params().SyncedFromOffline {
			return SyncPODBatchCommand{}, errs.NewValueIsInvalidError("syncedFromOffline")
		}
	}

	return SyncPODBatchCommand{
		records: records,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c SyncPODBatchCommand) Validate() error {
	return c.guard.Validate(ErrSyncPODBatchCommandIsNotConstructed)
}

// Records returns the batch entries in upload order.
func (c SyncPODBatchCommand) Records() []SubmitPODCommand {
	return c.records
}
