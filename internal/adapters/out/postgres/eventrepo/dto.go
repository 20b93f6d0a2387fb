// Package eventrepo persists the append-only shipment transition log. Events
// are only ever inserted; the repository exposes no update or delete path.
package eventrepo

import (
	"encoding/json"
	"time"

	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/domain/model/shipment"

	"github.com/google/uuid"
)

// EventDTO represents the database structure for one transition log entry.
// Metadata is stored as JSONB; coordinates are nullable columns rather than
// an embedded struct so their absence survives the round trip.
type EventDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ShipmentID  uuid.UUID  `gorm:"type:uuid;index:idx_events_shipment_occurred"`
	Status      int
	Description string     `gorm:"size:500"`
	Location    string
	Latitude    *float64
	Longitude   *float64
	ActorID     *uuid.UUID `gorm:"type:uuid"`
	Metadata    []byte     `gorm:"type:jsonb"`
	OccurredAt  time.Time  `gorm:"index:idx_events_shipment_occurred"`
}

// TableName specifies the database table name for transition log entries.
func (EventDTO) TableName() string {
	return "shipment_events"
}

// fromDomain converts a transition event to its database representation.
func fromDomain(event *shipment.Event) (EventDTO, error) {
	metadata, err := json.Marshal(event.Metadata())
	if err != nil {
		return EventDTO{}, err
	}

	var latitude, longitude *float64
	if geo := event.Geo(); geo != nil {
		lat, lon := geo.Latitude(), geo.Longitude()
		latitude, longitude = &lat, &lon
	}

	var actorID *uuid.UUID
	if actor := event.Actor(); actor != nil {
		raw := actor.Bytes()
		actorID = &raw
	}

	return EventDTO{
		ID:          event.ID().Bytes(),
		ShipmentID:  event.ShipmentID().Bytes(),
		Status:      int(event.Status()),
		Description: event.Description(),
		Location:    event.Location(),
		Latitude:    latitude,
		Longitude:   longitude,
		ActorID:     actorID,
		Metadata:    metadata,
		OccurredAt:  event.OccurredAt(),
	}, nil
}

// toDomain converts a database row to a transition event.
func toDomain(dto EventDTO) (*shipment.Event, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	shipmentID, err := kernel.UUIDFromBytes(dto.ShipmentID[:])
	if err != nil {
		return nil, err
	}

	var geo *kernel.GeoPoint
	if dto.Latitude != nil && dto.Longitude != nil {
		point, geoErr := kernel.NewGeoPoint(*dto.Latitude, *dto.Longitude)
		if geoErr != nil {
			return nil, geoErr
		}
		geo = &point
	}

	var actorID *kernel.UUID
	if dto.ActorID != nil {
		aID, actorErr := kernel.UUIDFromBytes((*dto.ActorID)[:])
		if actorErr != nil {
			return nil, actorErr
		}
		actorID = &aID
	}

	var metadata map[string]any
	if len(dto.Metadata) > 0 {
		if err = json.Unmarshal(dto.Metadata, &metadata); err != nil {
			return nil, err
		}
	}

	return shipment.RestoreEvent(
		id,
		shipmentID,
		shipment.Status(dto.Status),
		dto.Description,
		dto.Location,
		geo,
		actorID,
		metadata,
		dto.OccurredAt,
	)
}
