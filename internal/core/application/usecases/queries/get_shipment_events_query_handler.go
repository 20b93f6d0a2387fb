package queries

import (
	"context"
	"time"

	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/domain/model/shipment"
	"shiptrack/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetShipmentEventsQueryHandler reads the transition log straight from the
// database, skipping aggregate reconstruction.
type GetShipmentEventsQueryHandler struct {
	db *gorm.DB
}

// NewGetShipmentEventsQueryHandler creates a handler for transition log queries.
func NewGetShipmentEventsQueryHandler(db *gorm.DB) GetShipmentEventsQueryHandler {
	return GetShipmentEventsQueryHandler{db: db}
}

// Handle returns the shipment's events most-recent-first.
// Returns errs.ErrObjectNotFound when the shipment does not exist; a shipment
// without transitions yields an empty slice.
func (h GetShipmentEventsQueryHandler) Handle(
	ctx context.Context,
	query GetShipmentEventsQuery,
) ([]GetShipmentEventsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var exists bool
	err := h.db.WithContext(ctx).Raw(`
		SELECT EXISTS (SELECT 1 FROM shipments WHERE id = ?)
	`, query.ShipmentID().Bytes()).Scan(&exists).Error
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.NewObjectNotFoundError("shipment", query.ShipmentID().String())
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			description,
			location,
			latitude,
			longitude,
			actor_id,
			occurred_at
		FROM shipment_events
		WHERE shipment_id = ?
		ORDER BY occurred_at DESC, id DESC
	`, query.ShipmentID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]GetShipmentEventsQueryResponse, 0)

	for rows.Next() {
		var eventResp GetShipmentEventsQueryResponse
		var id uuid.UUID
		var status int
		var actorID uuid.NullUUID
		var occurredAt time.Time

		err = rows.Scan(
			&id,
			&status,
			&eventResp.Description,
			&eventResp.Location,
			&eventResp.Latitude,
			&eventResp.Longitude,
			&actorID,
			&occurredAt,
		)
		if err != nil {
			return nil, err
		}

		eventID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		eventResp.ID = eventID
		eventResp.Status = shipment.Status(status).String()
		eventResp.OccurredAt = occurredAt

		if actorID.Valid {
			actor, actorErr := kernel.UUIDFromBytes(actorID.UUID[:])
			if actorErr != nil {
				return nil, actorErr
			}
			eventResp.ActorID = &actor
		}

		events = append(events, eventResp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
