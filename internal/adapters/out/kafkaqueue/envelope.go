package kafkaqueue

import (
	"encoding/json"

	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/domain/model/notification"
	"shiptrack/internal/core/domain/model/shipment"
)

// envelope is the wire form of a notification job. Messages are keyed by
// shipment id so all jobs for one shipment land on the same partition.
type envelope struct {
	ShipmentID     string  `json:"shipment_id"`
	Status         int     `json:"status"`
	NotificationID *string `json:"notification_id,omitempty"`
}

func marshalJob(job notification.Job) ([]byte, error) {
	env := envelope{
		ShipmentID: job.ShipmentID.String(),
		Status:     int(job.Status),
	}
	if job.NotificationID != nil {
		id := job.NotificationID.String()
		env.NotificationID = &id
	}
	return json.Marshal(env)
}

func unmarshalJob(data []byte) (notification.Job, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return notification.Job{}, err
	}

	shipmentID, err := kernel.UUIDFromString(env.ShipmentID)
	if err != nil {
		return notification.Job{}, err
	}

	job := notification.Job{
		ShipmentID: shipmentID,
		Status:     shipment.Status(env.Status),
	}
	if env.NotificationID != nil {
		notificationID, err := kernel.UUIDFromString(*env.NotificationID)
		if err != nil {
			return notification.Job{}, err
		}
		job.NotificationID = &notificationID
	}
	return job, job.Validate()
}
