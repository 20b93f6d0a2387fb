package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/domain/model/notification"
	"shiptrack/internal/core/domain/model/shipment"
	"shiptrack/internal/core/ports"
	"shiptrack/internal/pkg/metrics"

	"github.com/sethvargo/go-retry"
)

const (
	// sendAttempts bounds how often one row is handed to the sender per job.
	sendAttempts = 3
	retryBackoff = 2 * time.Second
)

// Dispatcher turns queued jobs into persisted, delivered notifications. It is
// the queue's JobHandler: a status job fans out to the shipment's recipients,
// a redelivery job re-attempts one existing row. Every delivery attempt is
// recorded before the send, so a crash leaves a pending row, not silence.
type Dispatcher struct {
	uowFactory ports.UnitOfWorkFactory
	sender     ports.MessageSender
	clock      func() time.Time
	logger     *slog.Logger
}

// NewDispatcher creates a dispatcher. A nil clock defaults to time.Now.
func NewDispatcher(
	uowFactory ports.UnitOfWorkFactory,
	sender ports.MessageSender,
	clock func() time.Time,
	logger *slog.Logger,
) (*Dispatcher, error) {
	if uowFactory == nil {
		return nil, fmt.Errorf("uowFactory is required")
	}
	if sender == nil {
		return nil, fmt.Errorf("sender is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if clock == nil {
		clock = time.Now
	}
	return &Dispatcher{
		uowFactory: uowFactory,
		sender:     sender,
		clock:      clock,
		logger:     logger.With("component", "notification_dispatcher"),
	}, nil
}

// Handle processes one dequeued job. A returned error means the job could not
// be processed at all; per-recipient send failures are absorbed into their
// rows instead.
func (d *Dispatcher) Handle(ctx context.Context, job notification.Job) error {
	if err := job.Validate(); err != nil {
		return err
	}
	if job.IsRedelivery() {
		return d.redeliver(ctx, job)
	}
	return d.fanOut(ctx, job)
}

func (d *Dispatcher) fanOut(ctx context.Context, job notification.Job) error {
	uow := d.uowFactory.Create()

	aggregate, err := uow.ShipmentRepository().Get(ctx, job.ShipmentID)
	if err != nil {
		return fmt.Errorf("failed to load shipment for notification: %w", err)
	}

	data := templateData{
		TrackingCode:    aggregate.TrackingCode(),
		RecipientName:   aggregate.RecipientName(),
		DeliveryAddress: aggregate.DeliveryAddress(),
		Status:          job.Status.String(),
	}
	subject, body := renderMessage(job.Status, data)

	repository := uow.NotificationRepository()
	for _, recipient := range d.recipients(aggregate, job.Status) {
		row, err := notification.NewLog(
			kernel.NewUUID(), job.ShipmentID,
			notification.ChannelEmail, recipient, subject, body,
		)
		if err != nil {
			d.logger.ErrorContext(ctx, "failed to build notification row",
				"shipment_id", job.ShipmentID.String(),
				"recipient", recipient,
				"error", err)
			continue
		}

		// the pending row goes in before the first send attempt
		if err := repository.Add(ctx, row); err != nil {
			d.logger.ErrorContext(ctx, "failed to persist notification row",
				"shipment_id", job.ShipmentID.String(),
				"recipient", recipient,
				"error", err)
			continue
		}

		d.attempt(ctx, repository, row)
	}
	return nil
}

func (d *Dispatcher) redeliver(ctx context.Context, job notification.Job) error {
	uow := d.uowFactory.Create()
	repository := uow.NotificationRepository()

	row, err := repository.Get(ctx, *job.NotificationID)
	if err != nil {
		return fmt.Errorf("failed to load notification for redelivery: %w", err)
	}
	if row.Status() == notification.StatusSent ||
		row.Status() == notification.StatusDelivered {
		return nil
	}

	d.attempt(ctx, repository, row)
	return nil
}

// attempt sends one row with the bounded retry budget and persists the
// outcome.
func (d *Dispatcher) attempt(
	ctx context.Context,
	repository ports.NotificationRepository,
	row *notification.Log,
) {
	var externalID string
	backoff := retry.WithMaxRetries(sendAttempts-1, retry.NewConstant(retryBackoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		id, sendErr := d.sender.Send(ctx, row.Recipient(), row.Subject(), row.Body())
		if sendErr != nil {
			return retry.RetryableError(sendErr)
		}
		externalID = id
		return nil
	})

	if err != nil {
		row.MarkFailed(err.Error())
		metrics.NotificationsFailedTotal.Inc()
		d.logger.ErrorContext(ctx, "notification delivery failed",
			"notification_id", row.ID().String(),
			"recipient", row.Recipient(),
			"error", err)
	} else {
		row.MarkSent(d.clock(), externalID)
		metrics.NotificationsSentTotal.Inc()
	}

	if updateErr := repository.Update(ctx, row); updateErr != nil {
		d.logger.ErrorContext(ctx, "failed to persist notification outcome",
			"notification_id", row.ID().String(),
			"error", updateErr)
	}
}

// recipients resolves who gets notified for the given status. The recipient
// always hears about their shipment; the sender only about terminal delivery
// outcomes.
func (d *Dispatcher) recipients(aggregate *shipment.Shipment, status shipment.Status) []string {
	var out []string
	if aggregate.RecipientEmail() != "" {
		out = append(out, aggregate.RecipientEmail())
	}

	senderCares := status == shipment.Delivered ||
		status == shipment.NotDelivered ||
		status == shipment.Returned
	if senderCares &&
		aggregate.SenderEmail() != "" &&
		aggregate.SenderEmail() != aggregate.RecipientEmail() {
		out = append(out, aggregate.SenderEmail())
	}
	return out
}
