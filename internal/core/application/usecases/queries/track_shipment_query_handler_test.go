package queries_test

import (
	"context"
	"testing"
	"time"

	"shiptrack/internal/adapters/out/postgres/eventrepo"
	"shiptrack/internal/adapters/out/postgres/shipmentrepo"
	"shiptrack/internal/core/application/usecases/queries"
	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/domain/model/shipment"
	"shiptrack/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type TrackShipmentQueryHandlerTestSuite struct {
	suite.Suite
	container    *postgres.PostgresContainer
	db           *gorm.DB
	handler      queries.TrackShipmentQueryHandler
	shipmentRepo *shipmentrepo.GormShipmentRepository
	eventRepo    *eventrepo.GormEventRepository
}

func (suite *TrackShipmentQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&shipmentrepo.ShipmentDTO{}, &eventrepo.EventDTO{}))

	suite.handler = queries.NewTrackShipmentQueryHandler(db)
	suite.shipmentRepo = shipmentrepo.NewGormShipmentRepository(db, noopTracker{})
	suite.eventRepo = eventrepo.NewGormEventRepository(db)
}

func (suite *TrackShipmentQueryHandlerTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE shipments CASCADE").Error)
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE shipment_events CASCADE").Error)
}

func (suite *TrackShipmentQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *TrackShipmentQueryHandlerTestSuite) newShipment() *shipment.Shipment {
	aggregate, err := shipment.NewShipment(
		kernel.NewUUID(),
		"Acme Logistics", "ops@acme.example",
		"Mario Rossi", "+39 02 1234567", "mario@example.com",
		"Via Roma 1, Milano",
		shipment.PriorityNormal,
		shipment.DeliveryTypeInternal,
	)
	suite.Require().NoError(err)
	return aggregate
}

func (suite *TrackShipmentQueryHandlerTestSuite) TestHandle_UnknownToken_ReturnsNotFound() {
	query, err := queries.NewTrackShipmentQuery("never-issued")
	suite.Require().NoError(err)

	response, err := suite.handler.Handle(context.Background(), query)
	suite.Require().Error(err)
	suite.Nil(response)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *TrackShipmentQueryHandlerTestSuite) TestHandle_FreshShipment_PublicView() {
	ctx := context.Background()
	aggregate := suite.newShipment()
	estimated := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	aggregate.SetEstimatedDeliveryDate(estimated)
	suite.Require().NoError(suite.shipmentRepo.Add(ctx, aggregate))

	query, err := queries.NewTrackShipmentQuery(aggregate.PublicTrackingToken())
	suite.Require().NoError(err)

	response, err := suite.handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Require().NotNil(response)

	suite.Equal(aggregate.TrackingCode(), response.TrackingCode)
	suite.Equal("created", response.Status)
	suite.Require().NotNil(response.EstimatedDeliveryDate)
	suite.True(estimated.Equal(*response.EstimatedDeliveryDate))
	suite.Nil(response.ActualDeliveryDate)
	suite.Empty(response.Events)
}

func (suite *TrackShipmentQueryHandlerTestSuite) TestHandle_DeliveredShipment_HasActualDate() {
	ctx := context.Background()
	aggregate := suite.newShipment()
	now := time.Date(2025, 3, 18, 14, 0, 0, 0, time.UTC)
	for _, next := range []shipment.Status{
		shipment.Assigned, shipment.PickedUp, shipment.InTransit,
		shipment.OutForDelivery, shipment.Delivered,
	} {
		suite.Require().NoError(aggregate.TransitionTo(next, now))
		now = now.Add(time.Hour)
	}
	suite.Require().NoError(suite.shipmentRepo.Add(ctx, aggregate))

	query, err := queries.NewTrackShipmentQuery(aggregate.PublicTrackingToken())
	suite.Require().NoError(err)

	response, err := suite.handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Equal("delivered", response.Status)
	suite.Require().NotNil(response.ActualDeliveryDate)
}

func (suite *TrackShipmentQueryHandlerTestSuite) TestHandle_EventsMostRecentFirst_NoPersonalData() {
	ctx := context.Background()
	aggregate := suite.newShipment()
	suite.Require().NoError(suite.shipmentRepo.Add(ctx, aggregate))

	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	actor := kernel.NewUUID()
	for i, status := range []shipment.Status{shipment.Assigned, shipment.PickedUp} {
		event, err := shipment.NewEvent(
			kernel.NewUUID(), aggregate.ID(), status,
			shipment.DefaultTransitionDescription(aggregate.Status(), status),
			"Milano hub", nil, &actor, nil, base.Add(time.Duration(i)*time.Hour),
		)
		suite.Require().NoError(err)
		suite.Require().NoError(suite.eventRepo.Add(ctx, event))
	}

	query, err := queries.NewTrackShipmentQuery(aggregate.PublicTrackingToken())
	suite.Require().NoError(err)

	response, err := suite.handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Require().Len(response.Events, 2)

	suite.Equal("picked_up", response.Events[0].Status)
	suite.Equal("assigned", response.Events[1].Status)
	suite.NotContains(response.Events[0].Description, "Mario Rossi")
}

func (suite *TrackShipmentQueryHandlerTestSuite) TestHandle_InvalidQuery_ReturnsError() {
	invalidQuery := queries.TrackShipmentQuery{}

	response, err := suite.handler.Handle(context.Background(), invalidQuery)
	suite.Require().Error(err)
	suite.Nil(response)
}

func TestTrackShipmentQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TrackShipmentQueryHandlerTestSuite))
}
