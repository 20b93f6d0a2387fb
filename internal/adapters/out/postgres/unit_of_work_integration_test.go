package postgres_test

import (
	"context"
	"testing"
	"time"

	"shiptrack/internal/adapters/out/postgres"
	"shiptrack/internal/adapters/out/postgres/eventrepo"
	"shiptrack/internal/adapters/out/postgres/notificationrepo"
	"shiptrack/internal/adapters/out/postgres/podrepo"
	"shiptrack/internal/adapters/out/postgres/shipmentrepo"
	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/domain/model/shipment"
	"shiptrack/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite verifies transaction atomicity and the
// optimistic status guard against a real PostgreSQL instance.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *pgcontainer.PostgresContainer
	db        *gorm.DB
	factory   *postgres.GormUnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := pgcontainer.Run(ctx,
		"postgres:15-alpine",
		pgcontainer.WithDatabase("testdb"),
		pgcontainer.WithUsername("testuser"),
		pgcontainer.WithPassword("testpass"),
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
		&shipmentrepo.ShipmentDTO{},
		&eventrepo.EventDTO{},
		&podrepo.PODRecordDTO{},
		&podrepo.PODPhotoDTO{},
		&notificationrepo.NotificationLogDTO{},
	))

	suite.factory = postgres.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE shipments CASCADE").Error)
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE shipment_events CASCADE").Error)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) newShipment() *shipment.Shipment {
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

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsShipmentAndEvent() {
	ctx := context.Background()
	aggregate := suite.newShipment()
	now := time.Now().UTC().Truncate(time.Microsecond)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.ShipmentRepository().Add(ctx, aggregate))

	suite.Require().NoError(aggregate.TransitionTo(shipment.Assigned, now))
	suite.Require().NoError(uow.ShipmentRepository().Update(ctx, aggregate, shipment.Created))

	event, err := shipment.NewEvent(
		kernel.NewUUID(), aggregate.ID(), shipment.Assigned,
		shipment.DefaultTransitionDescription(shipment.Created, shipment.Assigned),
		"", nil, nil, nil, now,
	)
	suite.Require().NoError(err)
	suite.Require().NoError(uow.EventRepository().Add(ctx, event))
	suite.Require().NoError(uow.Commit(ctx))

	// read back through a fresh unit of work without a transaction
	fresh := suite.factory.Create()
	stored, err := fresh.ShipmentRepository().Get(ctx, aggregate.ID())
	suite.Require().NoError(err)
	suite.Equal(shipment.Assigned, stored.Status())

	events, err := fresh.EventRepository().ListByShipment(ctx, aggregate.ID())
	suite.Require().NoError(err)
	suite.Require().Len(events, 1)
	suite.Equal("status changed from created to assigned", events[0].Description())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsEverything() {
	ctx := context.Background()
	aggregate := suite.newShipment()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.ShipmentRepository().Add(ctx, aggregate))
	suite.Require().NoError(uow.Rollback(ctx))

	fresh := suite.factory.Create()
	_, err := fresh.ShipmentRepository().Get(ctx, aggregate.ID())
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUpdate_StaleGuard_ConcurrentUpdate() {
	ctx := context.Background()
	aggregate := suite.newShipment()

	setup := suite.factory.Create()
	suite.Require().NoError(setup.ShipmentRepository().Add(ctx, aggregate))

	// first writer wins the created -> assigned race
	winner, err := setup.ShipmentRepository().Get(ctx, aggregate.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(winner.TransitionTo(shipment.Assigned, time.Now()))
	suite.Require().NoError(
		setup.ShipmentRepository().Update(ctx, winner, shipment.Created))

	// second writer still holds the stale created status as its guard
	loser := suite.newShipment()
	restored, err := shipment.RestoreShipment(shipment.RestoreParams{
		ID:                  aggregate.ID(),
		TrackingCode:        loser.TrackingCode(),
		RecipientName:       "Mario Rossi",
		DeliveryAddress:     "Via Roma 1, Milano",
		Status:              shipment.Created,
		Priority:            shipment.PriorityNormal,
		DeliveryType:        shipment.DeliveryTypeInternal,
		PackagesCount:       1,
		PublicTrackingToken: loser.PublicTrackingToken(),
	})
	suite.Require().NoError(err)
	suite.Require().NoError(restored.TransitionTo(shipment.Assigned, time.Now()))

	err = setup.ShipmentRepository().Update(ctx, restored, shipment.Created)
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrConcurrentUpdate)

	// the winner's write is untouched
	stored, err := setup.ShipmentRepository().Get(ctx, aggregate.ID())
	suite.Require().NoError(err)
	suite.Equal(shipment.Assigned, stored.Status())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestBegin_Twice_IsNoOp() {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_WithoutBegin_Fails() {
	uow := suite.factory.Create()
	suite.Require().Error(uow.Commit(context.Background()))
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
