package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/domain/model/pod"
	"shiptrack/internal/core/domain/model/shipment"
	"shiptrack/internal/pkg/errs"
	"shiptrack/internal/pkg/metrics"
)

// PODOutcome tells the caller what happened to one submission.
type PODOutcome string

const (
	// PODOutcomeCreated marks a freshly persisted record.
	PODOutcomeCreated PODOutcome = "created"
	// PODOutcomeDuplicate marks a replay resolved to the already stored record.
	PODOutcomeDuplicate PODOutcome = "duplicate"
	// PODOutcomeRejected marks a submission refused by validation or storage.
	PODOutcomeRejected PODOutcome = "rejected"
)

// SubmitPODResult carries the stored record together with its outcome. For a
// duplicate the record is the one persisted by the earlier submission.
type SubmitPODResult struct {
	Record  *pod.Record
	Outcome PODOutcome
}

// SubmitPODCommandHandler persists proof-of-delivery records idempotently.
// A submission that collides with the one-record-per-shipment rule or replays
// an already synced (device UUID, local record ID) pair resolves to the
// existing record and reports duplicate instead of failing, which lets mobile
// clients retry uploads safely. A fresh record also derives the shipment's
// status from the delivery result through the regular transition path;
// a state machine refusal there is swallowed, the record stands regardless.
type SubmitPODCommandHandler struct {
	uowFactory  PODUoWFactory
	transitions TransitionApplier
	logger      *slog.Logger
}

// NewSubmitPODCommandHandler creates a handler for POD submissions.
func NewSubmitPODCommandHandler(
	uowFactory PODUoWFactory,
	transitions TransitionApplier,
	logger *slog.Logger,
) SubmitPODCommandHandler {
	return SubmitPODCommandHandler{
		uowFactory:  uowFactory,
		transitions: transitions,
		logger:      logger,
	}
}

// Handle processes one POD submission.
// Returns errs.ErrObjectNotFound when the shipment does not exist.
func (h *SubmitPODCommandHandler) Handle(
	ctx context.Context, cmd SubmitPODCommand,
) (*SubmitPODResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	p := cmd.Params()

	record, err := pod.NewRecord(
		kernel.NewUUID(),
		p.ShipmentID,
		p.DriverID,
		p.Result,
		p.SignerName,
		p.Notes,
		p.RecordedAt,
		p.Geo,
		p.SignatureRef,
		p.SyncedFromOffline,
		p.DeviceUUID,
		p.LocalRecordID,
	)
	if err != nil {
		return nil, err
	}

	for _, photo := range p.Photos {
		if err = record.AddPhoto(kernel.NewUUID(), photo.ImageRef, photo.Caption, photo.TakenAt); err != nil {
			return nil, err
		}
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	podRepo := uow.PODRepository()

	if _, err = uow.ShipmentRepository().Get(ctx, p.ShipmentID); err != nil {
		return nil, err
	}

	if err = podRepo.Add(ctx, record); err != nil {
		if errors.Is(err, errs.ErrDuplicateRecord) {
			// leave the failed transaction before reading the stored record
			_ = uow.Rollback(ctx)
			return h.resolveDuplicate(ctx, uow.PODRepository(), p, err)
		}
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.PODRecordsCreatedTotal.Inc()

	h.applyResultTransition(ctx, p, record)

	return &SubmitPODResult{Record: record, Outcome: PODOutcomeCreated}, nil
}

// resolveDuplicate looks up the record the replayed submission collided with.
// Offline replays resolve through the idempotency key, live ones through the
// shipment's single record.
func (h *SubmitPODCommandHandler) resolveDuplicate(
	ctx context.Context, podRepo podFinder, p SubmitPODParams, cause error,
) (*SubmitPODResult, error) {
	var existing *pod.Record
	var err error

	if p.SyncedFromOffline {
		existing, err = podRepo.FindByDeviceRecord(ctx, p.DeviceUUID, p.LocalRecordID)
	}
	if err == nil && existing == nil {
		existing, err = podRepo.FindByShipment(ctx, p.ShipmentID)
	}
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, cause
	}

	metrics.PODDuplicatesTotal.Inc()

	return &SubmitPODResult{Record: existing, Outcome: PODOutcomeDuplicate}, nil
}

// applyResultTransition derives the shipment's status from the delivery
// result. The record already committed, so nothing here may fail the
// submission: an invalid transition is the expected outcome for shipments
// not yet out for delivery, any other error is logged.
func (h *SubmitPODCommandHandler) applyResultTransition(
	ctx context.Context, p SubmitPODParams, record *pod.Record,
) {
	actorID := p.DriverID
	description := fmt.Sprintf("proof of delivery recorded: %s", record.Result())
	metadata := map[string]any{"pod_record_id": record.ID().String()}

	transitionCmd, err := NewApplyTransitionCommand(
		p.ShipmentID, record.Result().TargetStatus(), &actorID,
		description, "", p.Geo, metadata,
	)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build result transition",
			"shipment_id", p.ShipmentID.String(), "error", err)
		return
	}

	if _, err = h.transitions.Handle(ctx, transitionCmd); err != nil &&
		!errors.Is(err, shipment.ErrInvalidTransition) {
		h.logger.WarnContext(ctx, "result transition not applied",
			"shipment_id", p.ShipmentID.String(),
			"result", record.Result().String(),
			"error", err)
	}
}

// podFinder is the read slice of ports.PODRepository used for duplicate
// resolution.
type podFinder interface {
	FindByShipment(ctx context.Context, shipmentID kernel.UUID) (*pod.Record, error)
	FindByDeviceRecord(ctx context.Context, deviceUUID, localRecordID string) (*pod.Record, error)
}
