// Package notificationrepo persists the notification delivery log. Rows are
// inserted as pending and mutated to their outcome, never deleted.
package notificationrepo

import (
	"time"

	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/domain/model/notification"

	"github.com/google/uuid"
)

// NotificationLogDTO represents the database structure for one notification
// row. UpdatedAt feeds the staleness cutoff of the sweep job.
type NotificationLogDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShipmentID uuid.UUID `gorm:"type:uuid;index"`
	Channel    int
	Recipient  string
	Subject    string
	Body       string
	Status     int `gorm:"index"`
	SentAt     *time.Time
	ErrorText  string
	ExternalID string
	Attempts   int
	CreatedAt  time.Time
	UpdatedAt  time.Time `gorm:"index"`
}

// TableName specifies the database table name for notification rows.
func (NotificationLogDTO) TableName() string {
	return "notification_logs"
}

// fromDomain converts a notification log entry to its database representation.
func fromDomain(log *notification.Log) NotificationLogDTO {
	return NotificationLogDTO{
		ID:         log.ID().Bytes(),
		ShipmentID: log.ShipmentID().Bytes(),
		Channel:    int(log.Channel()),
		Recipient:  log.Recipient(),
		Subject:    log.Subject(),
		Body:       log.Body(),
		Status:     int(log.Status()),
		SentAt:     log.SentAt(),
		ErrorText:  log.ErrorText(),
		ExternalID: log.ExternalID(),
		Attempts:   log.Attempts(),
	}
}

// toDomain converts a database row to a notification log entry.
func toDomain(dto NotificationLogDTO) (*notification.Log, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	shipmentID, err := kernel.UUIDFromBytes(dto.ShipmentID[:])
	if err != nil {
		return nil, err
	}

	return notification.RestoreLog(notification.RestoreParams{
		ID:         id,
		ShipmentID: shipmentID,
		Channel:    notification.Channel(dto.Channel),
		Recipient:  dto.Recipient,
		Subject:    dto.Subject,
		Body:       dto.Body,
		Status:     notification.Status(dto.Status),
		SentAt:     dto.SentAt,
		ErrorText:  dto.ErrorText,
		ExternalID: dto.ExternalID,
		Attempts:   dto.Attempts,
	})
}
