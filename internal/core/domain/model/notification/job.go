package notification

import (
	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/domain/model/shipment"
)

// Job is one unit of dispatcher work. The transition coordinator enqueues
// exactly one status job per committed transition; the sweep job enqueues
// redelivery jobs pointing at existing notification rows. Jobs are
// fire-and-forget from the producer's point of view: the dispatcher's outcome
// never reaches back to the transition that scheduled it.
type Job struct {
	ShipmentID kernel.UUID
	Status     shipment.Status

	// NotificationID, when set, marks a redelivery of an existing row instead
	// of a fresh fan-out to the shipment's recipients.
	NotificationID *kernel.UUID
}

// NewStatusJob creates the fan-out job for a committed transition.
func NewStatusJob(shipmentID kernel.UUID, status shipment.Status) Job {
	return Job{ShipmentID: shipmentID, Status: status}
}

// NewRedeliveryJob creates a job that re-attempts one existing row.
func NewRedeliveryJob(shipmentID, notificationID kernel.UUID) Job {
	return Job{ShipmentID: shipmentID, NotificationID: &notificationID}
}

// Validate checks the job's identifiers.
func (j Job) Validate() error {
	if err := j.ShipmentID.Validate(); err != nil {
		return err
	}
	if j.NotificationID != nil {
		return j.NotificationID.Validate()
	}
	return j.Status.Validate()
}

// IsRedelivery reports whether the job targets an existing row.
func (j Job) IsRedelivery() bool {
	return j.NotificationID != nil
}
