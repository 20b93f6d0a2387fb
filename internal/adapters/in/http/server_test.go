package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpin "shiptrack/internal/adapters/in/http"
	"shiptrack/internal/core/application/usecases/commands"
	"shiptrack/internal/core/application/usecases/queries"
	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/domain/model/pod"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPODSubmitter persists nothing: it echoes each submission back as a
// created record, except entries whose local record id matches rejectLocalID.
type stubPODSubmitter struct {
	rejectLocalID string
}

func (s stubPODSubmitter) Handle(
	_ context.Context, cmd commands.SubmitPODCommand,
) (*commands.SubmitPODResult, error) {
	p := cmd.Params()
	if p.LocalRecordID == s.rejectLocalID {
		return nil, errors.New("proof of delivery already exists for shipment")
	}

	record, err := pod.NewRecord(
		kernel.NewUUID(), p.ShipmentID, p.DriverID, p.Result,
		p.SignerName, p.Notes, p.RecordedAt, p.Geo, p.SignatureRef,
		p.SyncedFromOffline, p.DeviceUUID, p.LocalRecordID,
	)
	if err != nil {
		return nil, err
	}
	return &commands.SubmitPODResult{Record: record, Outcome: commands.PODOutcomeCreated}, nil
}

func newSyncTestServer(submitter commands.PODSubmitter) *httpin.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return httpin.NewServer(
		commands.CreateShipmentCommandHandler{},
		commands.ApplyTransitionCommandHandler{},
		commands.AssignShipmentCommandHandler{},
		commands.SubmitPODCommandHandler{},
		commands.NewSyncPODBatchCommandHandler(submitter, logger),
		queries.GetShipmentEventsQueryHandler{},
		queries.TrackShipmentQueryHandler{},
	)
}

func postSyncBatch(t *testing.T, server *httpin.Server, body string) []syncResult {
	t.Helper()

	request := httptest.NewRequest(http.MethodPost, "/api/v1/pod/sync", strings.NewReader(body))
	request.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	recorder := httptest.NewRecorder()
	ctx := echo.New().NewContext(request, recorder)

	require.NoError(t, server.SyncPODBatch(ctx))
	require.Equal(t, http.StatusOK, recorder.Code)

	var response struct {
		Results []syncResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	return response.Results
}

type syncResult struct {
	LocalRecordID string  `json:"local_record_id"`
	Outcome       string  `json:"outcome"`
	RecordID      *string `json:"record_id"`
	Error         string  `json:"error"`
}

func offlineEntry(localRecordID string) string {
	return fmt.Sprintf(`{
		"shipment_id": %q,
		"driver_id": %q,
		"result": "delivered",
		"recorded_at": "2025-03-01T10:00:00Z",
		"synced_from_offline": true,
		"device_uuid": "device-7",
		"local_record_id": %q
	}`, kernel.NewUUID().String(), kernel.NewUUID().String(), localRecordID)
}

func TestServer_SyncPODBatch_ResultsMirrorUploadOrder(t *testing.T) {
	server := newSyncTestServer(stubPODSubmitter{})

	// entries 0 and 2 fail parsing, 1 and 3 go through the handler
	body := fmt.Sprintf(`{"records": [
		{"shipment_id": "not-a-uuid", "local_record_id": "L-0"},
		%s,
		{"shipment_id": %q, "driver_id": %q, "result": "vanished",
		 "recorded_at": "2025-03-01T10:00:00Z", "local_record_id": "L-2"},
		%s
	]}`,
		offlineEntry("L-1"),
		kernel.NewUUID().String(), kernel.NewUUID().String(),
		offlineEntry("L-3"))

	results := postSyncBatch(t, server, body)
	require.Len(t, results, 4)

	for i, localRecordID := range []string{"L-0", "L-1", "L-2", "L-3"} {
		assert.Equal(t, localRecordID, results[i].LocalRecordID, "result %d out of order", i)
	}

	assert.Equal(t, "rejected", results[0].Outcome)
	assert.Contains(t, results[0].Error, "invalid shipment id")
	assert.Nil(t, results[0].RecordID)

	assert.Equal(t, "created", results[1].Outcome)
	require.NotNil(t, results[1].RecordID)

	assert.Equal(t, "rejected", results[2].Outcome)
	assert.Nil(t, results[2].RecordID)

	assert.Equal(t, "created", results[3].Outcome)
	require.NotNil(t, results[3].RecordID)
}

func TestServer_SyncPODBatch_HandlerRejectionKeepsPosition(t *testing.T) {
	server := newSyncTestServer(stubPODSubmitter{rejectLocalID: "L-1"})

	body := fmt.Sprintf(`{"records": [%s, %s, %s]}`,
		offlineEntry("L-0"), offlineEntry("L-1"), offlineEntry("L-2"))

	results := postSyncBatch(t, server, body)
	require.Len(t, results, 3)

	assert.Equal(t, "created", results[0].Outcome)
	assert.Equal(t, "L-0", results[0].LocalRecordID)

	assert.Equal(t, "rejected", results[1].Outcome)
	assert.Equal(t, "L-1", results[1].LocalRecordID)
	assert.Contains(t, results[1].Error, "already exists")

	assert.Equal(t, "created", results[2].Outcome)
	assert.Equal(t, "L-2", results[2].LocalRecordID)
}

func TestServer_SyncPODBatch_EmptyBatchReturnsEmptyResults(t *testing.T) {
	server := newSyncTestServer(stubPODSubmitter{})

	results := postSyncBatch(t, server, `{"records": []}`)
	assert.Empty(t, results)
}
