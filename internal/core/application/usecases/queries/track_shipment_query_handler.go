package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"shiptrack/internal/core/domain/model/shipment"
	"shiptrack/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TrackShipmentQueryHandler serves the unauthenticated tracking page. The
// whole view resolves through the token's unique index plus one log read.
type TrackShipmentQueryHandler struct {
	db *gorm.DB
}

// NewTrackShipmentQueryHandler creates a handler for public tracking queries.
func NewTrackShipmentQueryHandler(db *gorm.DB) TrackShipmentQueryHandler {
	return TrackShipmentQueryHandler{db: db}
}

// Handle resolves the token to the public tracking view.
// Returns errs.ErrObjectNotFound for unknown tokens, indistinguishable from
// never-issued ones.
func (h TrackShipmentQueryHandler) Handle(
	ctx context.Context,
	query TrackShipmentQuery,
) (*TrackShipmentQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var shipmentRow struct {
		ID                    uuid.UUID
		TrackingCode          string
		Status                int
		EstimatedDeliveryDate sql.NullTime
		ActualDeliveryDate    sql.NullTime
	}

	err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			tracking_code,
			status,
			estimated_delivery_date,
			actual_delivery_date
		FROM shipments
		WHERE public_tracking_token = ?
	`, query.Token()).Row().Scan(
		&shipmentRow.ID,
		&shipmentRow.TrackingCode,
		&shipmentRow.Status,
		&shipmentRow.EstimatedDeliveryDate,
		&shipmentRow.ActualDeliveryDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NewObjectNotFoundError("shipment", "by tracking token")
		}
		return nil, err
	}

	response := &TrackShipmentQueryResponse{
		TrackingCode: shipmentRow.TrackingCode,
		Status:       shipment.Status(shipmentRow.Status).String(),
		Events:       make([]TrackShipmentEventResponse, 0),
	}
	if shipmentRow.EstimatedDeliveryDate.Valid {
		estimated := shipmentRow.EstimatedDeliveryDate.Time
		response.EstimatedDeliveryDate = &estimated
	}
	if shipmentRow.ActualDeliveryDate.Valid {
		actual := shipmentRow.ActualDeliveryDate.Time
		response.ActualDeliveryDate = &actual
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			status,
			description,
			occurred_at
		FROM shipment_events
		WHERE shipment_id = ?
		ORDER BY occurred_at DESC, id DESC
	`, shipmentRow.ID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var status int
		var description string
		var occurredAt time.Time

		if err = rows.Scan(&status, &description, &occurredAt); err != nil {
			return nil, err
		}

		response.Events = append(response.Events, TrackShipmentEventResponse{
			Status:      shipment.Status(status).String(),
			Description: description,
			OccurredAt:  occurredAt,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return response, nil
}
