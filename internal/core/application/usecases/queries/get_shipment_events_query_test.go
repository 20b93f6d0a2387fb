package queries_test

import (
	"testing"

	"shiptrack/internal/core/application/usecases/queries"
	"shiptrack/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetShipmentEventsQuery_ValidInput(t *testing.T) {
	id := kernel.NewUUID()
	query, err := queries.NewGetShipmentEventsQuery(id)
	require.NoError(t, err)
	assert.Equal(t, id, query.ShipmentID())
	require.NoError(t, query.Validate())
}

func TestNewGetShipmentEventsQuery_InvalidShipmentID(t *testing.T) {
	_, err := queries.NewGetShipmentEventsQuery(kernel.UUID{})
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestGetShipmentEventsQuery_Validate_NotConstructed(t *testing.T) {
	query := queries.GetShipmentEventsQuery{}
	require.ErrorIs(t, query.Validate(),
		queries.ErrGetShipmentEventsQueryIsNotConstructed)
}
