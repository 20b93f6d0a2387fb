package commands

import (
	"context"
	"log/slog"

	"shiptrack/internal/core/domain/model/kernel"
)

// SyncRecordResult reports the fate of one batch entry, correlated back to
// the device through its local record identifier.
type SyncRecordResult struct {
	LocalRecordID string
	Outcome       PODOutcome

	// RecordID identifies the stored record for created and duplicate
	// outcomes, nil for rejected ones.
	RecordID *kernel.UUID

	// Error holds the rejection reason, empty otherwise.
	Error string
}

// PODSubmitter is the slice of the submission handler the batch handler
// drives for each entry.
type PODSubmitter interface {
	Handle(ctx context.Context, cmd SubmitPODCommand) (*SubmitPODResult, error)
}

// SyncPODBatchCommandHandler processes an offline batch record by record.
// Each entry runs in its own transaction so one bad record never poisons the
// rest of the upload; results come back in upload order, one per entry.
type SyncPODBatchCommandHandler struct {
	submit PODSubmitter
	logger *slog.Logger
}

// NewSyncPODBatchCommandHandler creates a handler for offline batch sync.
func NewSyncPODBatchCommandHandler(
	submit PODSubmitter,
	logger *slog.Logger,
) SyncPODBatchCommandHandler {
	return SyncPODBatchCommandHandler{
		submit: submit,
		logger: logger,
	}
}

// Handle processes the batch. The returned slice always has one entry per
// record; rejected entries carry the reason and never abort the batch.
func (h *SyncPODBatchCommandHandler) Handle(
	ctx context.Context, cmd SyncPODBatchCommand,
) ([]SyncRecordResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	results := make([]SyncRecordResult, 0, len(cmd.Records()))

	for _, record := range cmd.Records() {
		localRecordID := record.Params().LocalRecordID

		submitResult, err := h.submit.Handle(ctx, record)
		if err != nil {
			h.logger.WarnContext(ctx, "batch record rejected",
				"local_record_id", localRecordID,
				"shipment_id", record.Params().ShipmentID.String(),
				"error", err)

			results = append(results, SyncRecordResult{
				LocalRecordID: localRecordID,
				Outcome:       PODOutcomeRejected,
				Error:         err.Error(),
			})
			continue
		}

		recordID := submitResult.Record.ID()
		results = append(results, SyncRecordResult{
			LocalRecordID: localRecordID,
			Outcome:       submitResult.Outcome,
			RecordID:      &recordID,
		})
	}

	return results, nil
}
