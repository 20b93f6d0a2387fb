package kafkaqueue

import (
	"testing"

	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/domain/model/notification"
	"shiptrack/internal/core/domain/model/shipment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope_StatusJobRoundTrip(t *testing.T) {
	job := notification.NewStatusJob(kernel.NewUUID(), shipment.Delivered)

	payload, err := marshalJob(job)
	require.NoError(t, err)

	decoded, err := unmarshalJob(payload)
	require.NoError(t, err)
	assert.True(t, decoded.ShipmentID.IsEqual(job.ShipmentID))
	assert.Equal(t, shipment.Delivered, decoded.Status)
	assert.False(t, decoded.IsRedelivery())
}

func TestEnvelope_RedeliveryJobRoundTrip(t *testing.T) {
	job := notification.NewRedeliveryJob(kernel.NewUUID(), kernel.NewUUID())

	payload, err := marshalJob(job)
	require.NoError(t, err)

	decoded, err := unmarshalJob(payload)
	require.NoError(t, err)
	require.True(t, decoded.IsRedelivery())
	assert.True(t, decoded.NotificationID.IsEqual(*job.NotificationID))
}

func TestEnvelope_RejectsGarbage(t *testing.T) {
	_, err := unmarshalJob([]byte("not json"))
	require.Error(t, err)

	_, err = unmarshalJob([]byte(`{"shipment_id":"not-a-uuid","status":1}`))
	require.Error(t, err)
}
