package shipment

import (
	"errors"
	"fmt"
	"time"

	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/pkg/errs"
)

// ErrEventIsNotConstructed is returned when an Event instance was not created
// through NewEvent or RestoreEvent.
var ErrEventIsNotConstructed = errors.New("Event must be created via NewEvent or RestoreEvent")

// maxEventDescriptionLength bounds the free-text description column.
const maxEventDescriptionLength = 500

// Event is the immutable audit record of one successful status transition.
// Exactly one Event exists per transition; events are never updated or
// deleted, and their creation time provides the logical ordering of the log.
type Event struct {
	id          kernel.UUID
	shipmentID  kernel.UUID
	status      Status
	description string
	location    string
	geo         *kernel.GeoPoint
	// actorID is nil for system-triggered transitions.
	actorID    *kernel.UUID
	metadata   map[string]any
	occurredAt time.Time

	isConstructed bool
}

// DefaultTransitionDescription renders the description used when the caller
// supplies none.
func DefaultTransitionDescription(from, to Status) string {
	return fmt.Sprintf("status changed from %s to %s", from, to)
}

// NewEvent creates the audit record for a transition that moved a shipment to
// status. The geo point and actor are optional; metadata may be nil.
func NewEvent(
	id kernel.UUID,
	shipmentID kernel.UUID,
	status Status,
	description string,
	location string,
	geo *kernel.GeoPoint,
	actorID *kernel.UUID,
	metadata map[string]any,
	occurredAt time.Time,
) (*Event, error) {
	if err := errors.Join(
		id.Validate(),
		shipmentID.Validate(),
		status.Validate(),
	); err != nil {
		return nil, err
	}
	if description == "" {
		return nil, errs.NewValueIsRequiredError("description")
	}
	if len(description) > maxEventDescriptionLength {
		return nil, errs.NewValueIsInvalidErrorWithCause("description",
			fmt.Errorf("length %d exceeds %d", len(description), maxEventDescriptionLength))
	}
	if geo != nil {
		if err := geo.Validate(); err != nil {
			return nil, err
		}
	}
	if actorID != nil {
		if err := actorID.Validate(); err != nil {
			return nil, err
		}
	}

	if metadata == nil {
		metadata = map[string]any{}
	}

	return &Event{
		id:            id,
		shipmentID:    shipmentID,
		status:        status,
		description:   description,
		location:      location,
		geo:           geo,
		actorID:       actorID,
		metadata:      metadata,
		occurredAt:    occurredAt,
		isConstructed: true,
	}, nil
}

// RestoreEvent reconstructs an Event from persistence.
func RestoreEvent(
	id kernel.UUID,
	shipmentID kernel.UUID,
	status Status,
	description string,
	location string,
	geo *kernel.GeoPoint,
	actorID *kernel.UUID,
	metadata map[string]any,
	occurredAt time.Time,
) (*Event, error) {
	if err := errors.Join(id.Validate(), shipmentID.Validate()); err != nil {
		return nil, err
	}

	if metadata == nil {
		metadata = map[string]any{}
	}

	return &Event{
		id:            id,
		shipmentID:    shipmentID,
		status:        status,
		description:   description,
		location:      location,
		geo:           geo,
		actorID:       actorID,
		metadata:      metadata,
		occurredAt:    occurredAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the Event was built through a constructor.
func (e *Event) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEventIsNotConstructed
	}
	return nil
}

// ID returns the event's unique identifier.
func (e *Event) ID() kernel.UUID { return e.id }

// ShipmentID returns the shipment the event belongs to.
func (e *Event) ShipmentID() kernel.UUID { return e.shipmentID }

// Status returns the status recorded at the moment of the transition.
func (e *Event) Status() Status { return e.status }

// Description returns the human-readable transition description.
func (e *Event) Description() string { return e.description }

// Location returns the free-text location, empty when not captured.
func (e *Event) Location() string { return e.location }

// Geo returns the captured coordinates, nil when not available.
func (e *Event) Geo() *kernel.GeoPoint { return e.geo }

// Actor returns the user who triggered the transition, nil for
// system-triggered ones.
func (e *Event) Actor() *kernel.UUID { return e.actorID }

// Metadata returns the arbitrary key/value payload attached to the event.
func (e *Event) Metadata() map[string]any { return e.metadata }

// OccurredAt returns the transition commit time.
func (e *Event) OccurredAt() time.Time { return e.occurredAt }
