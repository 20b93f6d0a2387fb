// Package http contains the inbound HTTP adapter: thin echo handlers that
// translate requests into commands and queries and map domain errors onto
// status codes.
package http

import (
	"errors"
	"net/http"
	"time"

	"shiptrack/internal/core/application/usecases/commands"
	"shiptrack/internal/core/application/usecases/queries"
	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/domain/model/pod"
	"shiptrack/internal/core/domain/model/shipment"
	"shiptrack/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createShipmentHandler  commands.CreateShipmentCommandHandler
	applyTransitionHandler commands.ApplyTransitionCommandHandler
	assignShipmentHandler  commands.AssignShipmentCommandHandler
	submitPODHandler       commands.SubmitPODCommandHandler
	syncPODBatchHandler    commands.SyncPODBatchCommandHandler

	// Query handlers
	getShipmentEventsHandler queries.GetShipmentEventsQueryHandler
	trackShipmentHandler     queries.TrackShipmentQueryHandler
}

// NewServer creates a new HTTP server with the required command and query
// handlers.
func NewServer(
	createShipmentHandler commands.CreateShipmentCommandHandler,
	applyTransitionHandler commands.ApplyTransitionCommandHandler,
	assignShipmentHandler commands.AssignShipmentCommandHandler,
	submitPODHandler commands.SubmitPODCommandHandler,
	syncPODBatchHandler commands.SyncPODBatchCommandHandler,
	getShipmentEventsHandler queries.GetShipmentEventsQueryHandler,
	trackShipmentHandler queries.TrackShipmentQueryHandler,
) *Server {
	return &Server{
		createShipmentHandler:    createShipmentHandler,
		applyTransitionHandler:   applyTransitionHandler,
		assignShipmentHandler:    assignShipmentHandler,
		submitPODHandler:         submitPODHandler,
		syncPODBatchHandler:      syncPODBatchHandler,
		getShipmentEventsHandler: getShipmentEventsHandler,
		trackShipmentHandler:     trackShipmentHandler,
	}
}

// RegisterRoutes attaches all endpoints to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/shipments", s.CreateShipment)
	api.POST("/shipments/:id/transition", s.ApplyTransition)
	api.POST("/shipments/:id/assign", s.AssignShipment)
	api.POST("/shipments/:id/pod", s.SubmitPOD)
	api.POST("/pod/sync", s.SyncPODBatch)
	api.GET("/shipments/:id/events", s.GetShipmentEvents)
	api.GET("/track/:token", s.TrackShipment)

	e.GET("/health", s.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type shipmentResponse struct {
	ID                     string     `json:"id"`
	TrackingCode           string     `json:"tracking_code"`
	Reference              string     `json:"reference,omitempty"`
	Status                 string     `json:"status"`
	Priority               string     `json:"priority"`
	DeliveryType           string     `json:"delivery_type"`
	DriverID               *string    `json:"driver_id,omitempty"`
	CarrierID              *string    `json:"carrier_id,omitempty"`
	ExternalTrackingNumber string     `json:"external_tracking_number,omitempty"`
	EstimatedDeliveryDate  *time.Time `json:"estimated_delivery_date,omitempty"`
	ActualDeliveryDate     *time.Time `json:"actual_delivery_date,omitempty"`
	PublicTrackingToken    string     `json:"public_tracking_token"`
}

func toShipmentResponse(aggregate *shipment.Shipment) shipmentResponse {
	response := shipmentResponse{
		ID:                     aggregate.ID().String(),
		TrackingCode:           aggregate.TrackingCode(),
		Reference:              aggregate.Reference(),
		Status:                 aggregate.Status().String(),
		Priority:               aggregate.Priority().String(),
		DeliveryType:           aggregate.DeliveryType().String(),
		ExternalTrackingNumber: aggregate.ExternalTrackingNumber(),
		EstimatedDeliveryDate:  aggregate.EstimatedDeliveryDate(),
		ActualDeliveryDate:     aggregate.ActualDeliveryDate(),
		PublicTrackingToken:    aggregate.PublicTrackingToken(),
	}
	if aggregate.Driver() != nil {
		id := aggregate.Driver().String()
		response.DriverID = &id
	}
	if aggregate.Carrier() != nil {
		id := aggregate.Carrier().String()
		response.CarrierID = &id
	}
	return response
}

type createShipmentRequest struct {
	SenderName            string     `json:"sender_name"`
	SenderEmail           string     `json:"sender_email"`
	RecipientName         string     `json:"recipient_name"`
	RecipientPhone        string     `json:"recipient_phone"`
	RecipientEmail        string     `json:"recipient_email"`
	DeliveryAddress       string     `json:"delivery_address"`
	Priority              string     `json:"priority"`
	DeliveryType          string     `json:"delivery_type"`
	Reference             string     `json:"reference"`
	PackagesCount         int        `json:"packages_count"`
	WeightKg              float64    `json:"weight_kg"`
	EstimatedDeliveryDate *time.Time `json:"estimated_delivery_date"`
}

// CreateShipment handles POST /api/v1/shipments.
func (s *Server) CreateShipment(ctx echo.Context) error {
	var request createShipmentRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	priority, err := shipment.PriorityFromString(request.Priority)
	if err != nil {
		return badRequest(ctx, "Invalid priority: "+request.Priority)
	}
	deliveryType, err := shipment.DeliveryTypeFromString(request.DeliveryType)
	if err != nil {
		return badRequest(ctx, "Invalid delivery type: "+request.DeliveryType)
	}

	cmd, err := commands.NewCreateShipmentCommand(commands.CreateShipmentParams{
		ShipmentID:            kernel.NewUUID(),
		SenderName:            request.SenderName,
		SenderEmail:           request.SenderEmail,
		RecipientName:         request.RecipientName,
		RecipientPhone:        request.RecipientPhone,
		RecipientEmail:        request.RecipientEmail,
		DeliveryAddress:       request.DeliveryAddress,
		Priority:              priority,
		DeliveryType:          deliveryType,
		Reference:             request.Reference,
		PackagesCount:         request.PackagesCount,
		WeightKg:              request.WeightKg,
		EstimatedDeliveryDate: request.EstimatedDeliveryDate,
	})
	if err != nil {
		return badRequest(ctx, "Invalid shipment data: "+err.Error())
	}

	aggregate, err := s.createShipmentHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, toShipmentResponse(aggregate))
}

type applyTransitionRequest struct {
	TargetStatus string         `json:"target_status"`
	ActorID      string         `json:"actor_id"`
	Description  string         `json:"description"`
	Location     string         `json:"location"`
	Latitude     *float64       `json:"latitude"`
	Longitude    *float64       `json:"longitude"`
	Metadata     map[string]any `json:"metadata"`
}

type transitionResponse struct {
	Shipment shipmentResponse `json:"shipment"`
	EventID  string           `json:"event_id"`
}

// ApplyTransition handles POST /api/v1/shipments/:id/transition.
func (s *Server) ApplyTransition(ctx echo.Context) error {
	shipmentID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid shipment id")
	}

	var request applyTransitionRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	target, err := shipment.StatusFromString(request.TargetStatus)
	if err != nil {
		return badRequest(ctx, "Invalid target status: "+request.TargetStatus)
	}

	actorID, err := parseOptionalUUID(request.ActorID)
	if err != nil {
		return badRequest(ctx, "Invalid actor id")
	}
	geo, err := parseOptionalGeo(request.Latitude, request.Longitude)
	if err != nil {
		return badRequest(ctx, "Invalid coordinates")
	}

	cmd, err := commands.NewApplyTransitionCommand(
		shipmentID, target, actorID,
		request.Description, request.Location, geo, request.Metadata,
	)
	if err != nil {
		return badRequest(ctx, "Invalid transition data: "+err.Error())
	}

	result, err := s.applyTransitionHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, transitionResponse{
		Shipment: toShipmentResponse(result.Shipment),
		EventID:  result.Event.ID().String(),
	})
}

type assignShipmentRequest struct {
	DriverID               string `json:"driver_id"`
	CarrierID              string `json:"carrier_id"`
	ExternalTrackingNumber string `json:"external_tracking_number"`
	ActorID                string `json:"actor_id"`
}

// AssignShipment handles POST /api/v1/shipments/:id/assign.
func (s *Server) AssignShipment(ctx echo.Context) error {
	shipmentID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid shipment id")
	}

	var request assignShipmentRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	driverID, err := parseOptionalUUID(request.DriverID)
	if err != nil {
		return badRequest(ctx, "Invalid driver id")
	}
	carrierID, err := parseOptionalUUID(request.CarrierID)
	if err != nil {
		return badRequest(ctx, "Invalid carrier id")
	}
	actorID, err := parseOptionalUUID(request.ActorID)
	if err != nil {
		return badRequest(ctx, "Invalid actor id")
	}

	cmd, err := commands.NewAssignShipmentCommand(
		shipmentID, driverID, carrierID, request.ExternalTrackingNumber, actorID)
	if err != nil {
		return badRequest(ctx, "Invalid assignment data: "+err.Error())
	}

	aggregate, err := s.assignShipmentHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toShipmentResponse(aggregate))
}

type podPhotoRequest struct {
	ImageRef string     `json:"image_ref"`
	Caption  string     `json:"caption"`
	TakenAt  *time.Time `json:"taken_at"`
}

type submitPODRequest struct {
	DriverID          string            `json:"driver_id"`
	Result            string            `json:"result"`
	SignerName        string            `json:"signer_name"`
	Notes             string            `json:"notes"`
	RecordedAt        time.Time         `json:"recorded_at"`
	Latitude          *float64          `json:"latitude"`
	Longitude         *float64          `json:"longitude"`
	SignatureRef      string            `json:"signature_ref"`
	SyncedFromOffline bool              `json:"synced_from_offline"`
	DeviceUUID        string            `json:"device_uuid"`
	LocalRecordID     string            `json:"local_record_id"`
	Photos            []podPhotoRequest `json:"photos"`
}

type podRecordResponse struct {
	ID         string    `json:"id"`
	ShipmentID string    `json:"shipment_id"`
	Result     string    `json:"result"`
	SignerName string    `json:"signer_name,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
	Photos     int       `json:"photos"`
}

type submitPODResponse struct {
	Outcome string            `json:"outcome"`
	Record  podRecordResponse `json:"record"`
}

func toPODRecordResponse(record *pod.Record) podRecordResponse {
	return podRecordResponse{
		ID:         record.ID().String(),
		ShipmentID: record.ShipmentID().String(),
		Result:     record.Result().String(),
		SignerName: record.SignerName(),
		RecordedAt: record.RecordedAt(),
		Photos:     len(record.Photos()),
	}
}

func (r submitPODRequest) toParams(shipmentID kernel.UUID) (commands.SubmitPODParams, error) {
	driverID, err := kernel.UUIDFromString(r.DriverID)
	if err != nil {
		return commands.SubmitPODParams{}, errs.NewValueIsInvalidErrorWithCause("driverID", err)
	}
	result, err := pod.ResultFromString(r.Result)
	if err != nil {
		return commands.SubmitPODParams{}, err
	}
	geo, err := parseOptionalGeo(r.Latitude, r.Longitude)
	if err != nil {
		return commands.SubmitPODParams{}, err
	}

	photos := make([]commands.PODPhotoParams, 0, len(r.Photos))
	for _, photo := range r.Photos {
		photos = append(photos, commands.PODPhotoParams{
			ImageRef: photo.ImageRef,
			Caption:  photo.Caption,
			TakenAt:  photo.TakenAt,
		})
	}

	return commands.SubmitPODParams{
		ShipmentID:        shipmentID,
		DriverID:          driverID,
		Result:            result,
		SignerName:        r.SignerName,
		Notes:             r.Notes,
		RecordedAt:        r.RecordedAt,
		Geo:               geo,
		SignatureRef:      r.SignatureRef,
		SyncedFromOffline: r.SyncedFromOffline,
		DeviceUUID:        r.DeviceUUID,
		LocalRecordID:     r.LocalRecordID,
		Photos:            photos,
	}, nil
}

// SubmitPOD handles POST /api/v1/shipments/:id/pod. A replayed submission
// returns 200 with the already stored record instead of 201.
func (s *Server) SubmitPOD(ctx echo.Context) error {
	shipmentID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid shipment id")
	}

	var request submitPODRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	params, err := request.toParams(shipmentID)
	if err != nil {
		return badRequest(ctx, "Invalid POD data: "+err.Error())
	}
	cmd, err := commands.NewSubmitPODCommand(params)
	if err != nil {
		return badRequest(ctx, "Invalid POD data: "+err.Error())
	}

	result, err := s.submitPODHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	status := http.StatusCreated
	if result.Outcome == commands.PODOutcomeDuplicate {
		status = http.StatusOK
	}
	return ctx.JSON(status, submitPODResponse{
		Outcome: string(result.Outcome),
		Record:  toPODRecordResponse(result.Record),
	})
}

type syncPODBatchRequest struct {
	Records []syncPODRecordRequest `json:"records"`
}

type syncPODRecordRequest struct {
	ShipmentID string `json:"shipment_id"`
	submitPODRequest
}

type syncRecordResponse struct {
	LocalRecordID string  `json:"local_record_id"`
	Outcome       string  `json:"outcome"`
	RecordID      *string `json:"record_id,omitempty"`
	Error         string  `json:"error,omitempty"`
}

// SyncPODBatch handles POST /api/v1/pod/sync: the offline flush. Malformed
// entries in the batch are rejected record by record, never as a whole,
// except when no entry can be parsed into a command at all. The result list
// mirrors the upload: entry i of the response reports record i of the request.
func (s *Server) SyncPODBatch(ctx echo.Context) error {
	var request syncPODBatchRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	results := make([]syncRecordResponse, len(request.Records))
	records := make([]commands.SubmitPODCommand, 0, len(request.Records))
	// positions maps each accepted command back to its slot in the upload
	positions := make([]int, 0, len(request.Records))
	for i, entry := range request.Records {
		shipmentID, err := kernel.UUIDFromString(entry.ShipmentID)
		if err != nil {
			results[i] = syncRecordResponse{
				LocalRecordID: entry.LocalRecordID,
				Outcome:       string(commands.PODOutcomeRejected),
				Error:         "invalid shipment id",
			}
			continue
		}
		params, err := entry.toParams(shipmentID)
		if err == nil {
			var cmd commands.SubmitPODCommand
			if cmd, err = commands.NewSubmitPODCommand(params); err == nil {
				records = append(records, cmd)
				positions = append(positions, i)
				continue
			}
		}
		results[i] = syncRecordResponse{
			LocalRecordID: entry.LocalRecordID,
			Outcome:       string(commands.PODOutcomeRejected),
			Error:         err.Error(),
		}
	}

	if len(records) > 0 {
		cmd, err := commands.NewSyncPODBatchCommand(records)
		if err != nil {
			return badRequest(ctx, "Invalid batch: "+err.Error())
		}
		batchResults, err := s.syncPODBatchHandler.Handle(ctx.Request().Context(), cmd)
		if err != nil {
			return domainError(ctx, err)
		}
		for i, result := range batchResults {
			entry := syncRecordResponse{
				LocalRecordID: result.LocalRecordID,
				Outcome:       string(result.Outcome),
				Error:         result.Error,
			}
			if result.RecordID != nil {
				id := result.RecordID.String()
				entry.RecordID = &id
			}
			results[positions[i]] = entry
		}
	}

	return ctx.JSON(http.StatusOK, map[string][]syncRecordResponse{"results": results})
}

type eventResponse struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	Location    string    `json:"location,omitempty"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	ActorID     *string   `json:"actor_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// GetShipmentEvents handles GET /api/v1/shipments/:id/events.
func (s *Server) GetShipmentEvents(ctx echo.Context) error {
	shipmentID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid shipment id")
	}

	query, err := queries.NewGetShipmentEventsQuery(shipmentID)
	if err != nil {
		return badRequest(ctx, "Invalid query: "+err.Error())
	}

	events, err := s.getShipmentEventsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	response := make([]eventResponse, len(events))
	for i, event := range events {
		response[i] = eventResponse{
			ID:          event.ID.String(),
			Status:      event.Status,
			Description: event.Description,
			Location:    event.Location,
			Latitude:    event.Latitude,
			Longitude:   event.Longitude,
			OccurredAt:  event.OccurredAt,
		}
		if event.ActorID != nil {
			id := event.ActorID.String()
			response[i].ActorID = &id
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

type trackEventResponse struct {
	Status      string    `json:"status"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type trackShipmentResponse struct {
	TrackingCode          string               `json:"tracking_code"`
	Status                string               `json:"status"`
	EstimatedDeliveryDate *time.Time           `json:"estimated_delivery_date,omitempty"`
	ActualDeliveryDate    *time.Time           `json:"actual_delivery_date,omitempty"`
	Events                []trackEventResponse `json:"events"`
}

// TrackShipment handles GET /api/v1/track/:token: the unauthenticated
// tracking page. The view carries no personal data.
func (s *Server) TrackShipment(ctx echo.Context) error {
	query, err := queries.NewTrackShipmentQuery(ctx.Param("token"))
	if err != nil {
		return badRequest(ctx, "Invalid tracking token")
	}

	view, err := s.trackShipmentHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	response := trackShipmentResponse{
		TrackingCode:          view.TrackingCode,
		Status:                view.Status,
		EstimatedDeliveryDate: view.EstimatedDeliveryDate,
		ActualDeliveryDate:    view.ActualDeliveryDate,
		Events:                make([]trackEventResponse, len(view.Events)),
	}
	for i, event := range view.Events {
		response.Events[i] = trackEventResponse{
			Status:      event.Status,
			Description: event.Description,
			OccurredAt:  event.OccurredAt,
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func parseOptionalUUID(value string) (*kernel.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := kernel.UUIDFromString(value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseOptionalGeo(latitude, longitude *float64) (*kernel.GeoPoint, error) {
	if latitude == nil && longitude == nil {
		return nil, nil
	}
	if latitude == nil || longitude == nil {
		return nil, errs.NewValueIsRequiredError("coordinates")
	}
	geo, err := kernel.NewGeoPoint(*latitude, *longitude)
	if err != nil {
		return nil, err
	}
	return &geo, nil
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, errorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// domainError maps application errors onto HTTP status codes.
func domainError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, errorResponse{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	case errors.Is(err, shipment.ErrInvalidTransition),
		errors.Is(err, errs.ErrConcurrentUpdate):
		return ctx.JSON(http.StatusConflict, errorResponse{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired):
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Internal server error",
		})
	}
}
