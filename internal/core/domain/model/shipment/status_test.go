package shipment_test

import (
	"errors"
	"testing"

	"shiptrack/internal/core/domain/model/shipment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allStatuses() []shipment.Status {
	return []shipment.Status{
		shipment.Created,
		shipment.Assigned,
		shipment.PickedUp,
		shipment.InTransit,
		shipment.OutForDelivery,
		shipment.Delivered,
		shipment.NotDelivered,
		shipment.Returned,
		shipment.Cancelled,
	}
}

// transitionGraph mirrors the documented graph; the test below checks every
// (from, to) pair against it so an accidental edit to either side fails loudly.
func transitionGraph() map[shipment.Status][]shipment.Status {
	return map[shipment.Status][]shipment.Status{
		shipment.Created:        {shipment.Assigned, shipment.Cancelled},
		shipment.Assigned:       {shipment.PickedUp, shipment.Cancelled, shipment.Created},
		shipment.PickedUp:       {shipment.InTransit, shipment.Cancelled},
		shipment.InTransit:      {shipment.OutForDelivery, shipment.Cancelled},
		shipment.OutForDelivery: {shipment.Delivered, shipment.NotDelivered},
		shipment.NotDelivered:   {shipment.OutForDelivery, shipment.Returned, shipment.Cancelled},
	}
}

func TestStatus_CanTransitionTo_FullGraph(t *testing.T) {
	graph := transitionGraph()

	for _, from := range allStatuses() {
		allowed := make(map[shipment.Status]bool)
		for _, to := range graph[from] {
			allowed[to] = true
		}

		for _, to := range allStatuses() {
			got := from.CanTransitionTo(to)
			assert.Equal(t, allowed[to], got, "transition %s -> %s", from, to)
		}
	}
}

func TestStatus_CanTransitionTo_UnknownStatus(t *testing.T) {
	for _, to := range allStatuses() {
		assert.False(t, shipment.Unknown.CanTransitionTo(to))
		assert.False(t, shipment.Status(99).CanTransitionTo(to))
	}
	assert.False(t, shipment.Created.CanTransitionTo(shipment.Unknown))
}

func TestStatus_IsTerminal(t *testing.T) {
	terminal := map[shipment.Status]bool{
		shipment.Delivered: true,
		shipment.Returned:  true,
		shipment.Cancelled: true,
	}

	for _, s := range allStatuses() {
		assert.Equal(t, terminal[s], s.IsTerminal(), "status %s", s)
	}

	assert.False(t, shipment.Unknown.IsTerminal())
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "picked_up", shipment.PickedUp.String())
	assert.Equal(t, "out_for_delivery", shipment.OutForDelivery.String())
	assert.Equal(t, "unknown", shipment.Unknown.String())
	assert.Equal(t, "unknown", shipment.Status(42).String())
}

func TestStatusFromString(t *testing.T) {
	t.Run("round_trip_all_valid_statuses", func(t *testing.T) {
		for _, s := range allStatuses() {
			parsed, err := shipment.StatusFromString(s.String())
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		}
	})

	t.Run("unknown_string_is_rejected", func(t *testing.T) {
		_, err := shipment.StatusFromString("teleported")
		require.Error(t, err)
	})

	t.Run("unknown_is_not_parseable", func(t *testing.T) {
		_, err := shipment.StatusFromString("unknown")
		require.Error(t, err)
	})
}

func TestStatus_Validate(t *testing.T) {
	for _, s := range allStatuses() {
		require.NoError(t, s.Validate())
	}
	require.Error(t, shipment.Unknown.Validate())
	require.Error(t, shipment.Status(42).Validate())
}

func TestInvalidTransitionError(t *testing.T) {
	err := shipment.NewInvalidTransitionError(shipment.Delivered, shipment.PickedUp)

	assert.Equal(t, "invalid status transition: delivered -> picked_up", err.Error())
	require.True(t, errors.Is(err, shipment.ErrInvalidTransition))
}
