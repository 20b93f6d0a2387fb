package queries

import (
	"errors"
	"time"

	"shiptrack/internal/pkg/errs"
	"shiptrack/internal/pkg/guard"
)

var ErrTrackShipmentQueryIsNotConstructed = errors.New(
	"TrackShipmentQuery must be created via NewTrackShipmentQuery constructor",
)

// TrackShipmentQuery retrieves the public tracking view of a shipment through
// its opaque token. The token is the only credential: the response exposes
// delivery progress but no contact or address data.
type TrackShipmentQuery struct {
	token string

	guard guard.ConstructorGuard
}

// NewTrackShipmentQuery creates a public tracking query.
func NewTrackShipmentQuery(token string) (TrackShipmentQuery, error) {
	if token == "" {
		return TrackShipmentQuery{}, errs.NewValueIsRequiredError("token")
	}

	return TrackShipmentQuery{
		token: token,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q TrackShipmentQuery) Validate() error {
	return q.guard.Validate(ErrTrackShipmentQueryIsNotConstructed)
}

// Token returns the public tracking token.
func (q TrackShipmentQuery) Token() string {
	return q.token
}

// TrackShipmentQueryResponse is the public tracking view: progress data only,
// stripped of all personal and address information.
type TrackShipmentQueryResponse struct {
	TrackingCode          string
	Status                string
	EstimatedDeliveryDate *time.Time
	ActualDeliveryDate    *time.Time
	Events                []TrackShipmentEventResponse
}

// TrackShipmentEventResponse is one log entry of the public tracking view.
type TrackShipmentEventResponse struct {
	Status      string
	Description string
	OccurredAt  time.Time
}
