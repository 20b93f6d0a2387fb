package notification

import (
	"errors"
	"fmt"
	"time"

	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/pkg/errs"
)

// ErrLogIsNotConstructed is returned when a Log instance was not created
// through NewLog or RestoreLog.
var ErrLogIsNotConstructed = errors.New("Log must be created via NewLog or RestoreLog")

// Channel is the outbound medium a notification travels on.
type Channel int

const (
	ChannelUnknown Channel = iota
	ChannelEmail
	ChannelWhatsApp
	ChannelSMS
)

func getChannelStrings() map[Channel]string {
	return map[Channel]string{
		ChannelEmail:    "email",
		ChannelWhatsApp: "whatsapp",
		ChannelSMS:      "sms",
	}
}

// String implements fmt.Stringer.
func (c Channel) String() string {
	if str, ok := getChannelStrings()[c]; ok {
		return str
	}
	return "unknown"
}

// Validate returns an error for ChannelUnknown and any unmapped value.
func (c Channel) Validate() error {
	if _, ok := getChannelStrings()[c]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("channel",
			fmt.Errorf("%d is not a valid channel", c))
	}
	return nil
}

// Status is the delivery state of a notification row.
type Status int

const (
	StatusUnknown Status = iota

	// StatusPending is set before the first send attempt; a crash mid-attempt
	// leaves a traceable pending row, never a silent loss.
	StatusPending

	// StatusSent means the outbound channel accepted the message.
	StatusSent

	// StatusDelivered means the channel confirmed end-to-end delivery.
	StatusDelivered

	// StatusFailed means the send attempts exhausted the retry budget.
	StatusFailed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusPending:   "pending",
		StatusSent:      "sent",
		StatusDelivered: "delivered",
		StatusFailed:    "failed",
	}
}

// String implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Log is the durable record of one notification to one recipient. A row is
// created as pending before any delivery attempt, mutated to its terminal
// outcome, and never deleted: together the rows form the dispatch audit trail
// and the retry-inspection record.
type Log struct {
	id         kernel.UUID
	shipmentID kernel.UUID
	channel    Channel
	recipient  string
	subject    string
	body       string
	status     Status
	sentAt     *time.Time
	errorText  string
	externalID string
	// attempts counts queue deliveries of this row, bounding how often the
	// sweep job may re-enqueue it.
	attempts int

	isConstructed bool
}

// NewLog creates a pending notification row for one recipient.
func NewLog(
	id kernel.UUID,
	shipmentID kernel.UUID,
	channel Channel,
	recipient string,
	subject string,
	body string,
) (*Log, error) {
	if err := errors.Join(
		id.Validate(),
		shipmentID.Validate(),
		channel.Validate(),
	); err != nil {
		return nil, err
	}
	if recipient == "" {
		return nil, errs.NewValueIsRequiredError("recipient")
	}
	if body == "" {
		return nil, errs.NewValueIsRequiredError("body")
	}

	return &Log{
		id:            id,
		shipmentID:    shipmentID,
		channel:       channel,
		recipient:     recipient,
		subject:       subject,
		body:          body,
		status:        StatusPending,
		attempts:      1,
		isConstructed: true,
	}, nil
}

// RestoreParams carries the persisted state needed to rebuild a Log.
type RestoreParams struct {
	ID         kernel.UUID
	ShipmentID kernel.UUID
	Channel    Channel
	Recipient  string
	Subject    string
	Body       string
	Status     Status
	SentAt     *time.Time
	ErrorText  string
	ExternalID string
	Attempts   int
}

// RestoreLog reconstructs a Log from persistence.
func RestoreLog(p RestoreParams) (*Log, error) {
	if err := errors.Join(p.ID.Validate(), p.ShipmentID.Validate()); err != nil {
		return nil, err
	}

	return &Log{
		id:            p.ID,
		shipmentID:    p.ShipmentID,
		channel:       p.Channel,
		recipient:     p.Recipient,
		subject:       p.Subject,
		body:          p.Body,
		status:        p.Status,
		sentAt:        p.SentAt,
		errorText:     p.ErrorText,
		externalID:    p.ExternalID,
		attempts:      p.Attempts,
		isConstructed: true,
	}, nil
}

// Validate ensures the Log was built through a constructor.
func (l *Log) Validate() error {
	if l == nil || !l.isConstructed {
		return ErrLogIsNotConstructed
	}
	return nil
}

// MarkSent records that the outbound channel accepted the message.
func (l *Log) MarkSent(at time.Time, externalID string) {
	l.status = StatusSent
	l.sentAt = &at
	l.externalID = externalID
	l.errorText = ""
}

// MarkFailed records that the send attempts exhausted the retry budget.
func (l *Log) MarkFailed(errorText string) {
	l.status = StatusFailed
	l.errorText = errorText
}

// MarkRequeued moves a stale pending or failed row back to pending and counts
// the extra queue delivery against the sweep budget.
func (l *Log) MarkRequeued() {
	l.status = StatusPending
	l.attempts++
}

// ID returns the row's unique identifier.
func (l *Log) ID() kernel.UUID { return l.id }

// ShipmentID returns the shipment the notification is about.
func (l *Log) ShipmentID() kernel.UUID { return l.shipmentID }

// Channel returns the outbound medium.
func (l *Log) Channel() Channel { return l.channel }

// Recipient returns the destination address.
func (l *Log) Recipient() string { return l.recipient }

// Subject returns the message subject.
func (l *Log) Subject() string { return l.subject }

// Body returns the rendered message body.
func (l *Log) Body() string { return l.body }

// Status returns the delivery state.
func (l *Log) Status() Status { return l.status }

// SentAt returns when the channel accepted the message, nil before that.
func (l *Log) SentAt() *time.Time { return l.sentAt }

// ErrorText returns the last delivery error, empty on success.
func (l *Log) ErrorText() string { return l.errorText }

// ExternalID returns the channel-side message identifier when available.
func (l *Log) ExternalID() string { return l.externalID }

// Attempts returns how many queue deliveries this row has consumed.
func (l *Log) Attempts() int { return l.attempts }
