package podrepo_test

import (
	"context"
	"testing"
	"time"

	"shiptrack/internal/adapters/out/postgres/podrepo"
	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/domain/model/pod"
	"shiptrack/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PODRepositoryIntegrationTestSuite verifies the two uniqueness invariants
// the dedup logic relies on against a real PostgreSQL instance.
type PODRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *podrepo.GormPODRepository
}

func (suite *PODRepositoryIntegrationTestSuite) SetupSuite() {
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

	suite.Require().NoError(db.AutoMigrate(&podrepo.PODRecordDTO{}, &podrepo.PODPhotoDTO{}))
}

func (suite *PODRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE pod_records CASCADE").Error)
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE pod_photos CASCADE").Error)
	suite.repository = podrepo.NewGormPODRepository(suite.db)
}

func (suite *PODRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *PODRepositoryIntegrationTestSuite) newRecord(
	shipmentID kernel.UUID, deviceUUID, localRecordID string,
) *pod.Record {
	offline := deviceUUID != ""
	record, err := pod.NewRecord(
		kernel.NewUUID(), shipmentID, kernel.NewUUID(),
		pod.ResultDelivered, "Mario Rossi", "left at reception",
		time.Date(2025, 3, 14, 17, 45, 0, 0, time.UTC),
		nil, "sig/abc.png", offline, deviceUUID, localRecordID,
	)
	suite.Require().NoError(err)
	return record
}

func (suite *PODRepositoryIntegrationTestSuite) TestAdd_FreshRecord_Success() {
	ctx := context.Background()
	record := suite.newRecord(kernel.NewUUID(), "", "")

	suite.Require().NoError(suite.repository.Add(ctx, record))

	found, err := suite.repository.FindByShipment(ctx, record.ShipmentID())
	suite.Require().NoError(err)
	suite.Require().NotNil(found)
	suite.True(found.ID().IsEqual(record.ID()))
	suite.Equal(pod.ResultDelivered, found.Result())
	suite.False(found.SyncedFromOffline())
}

func (suite *PODRepositoryIntegrationTestSuite) TestAdd_SecondRecordForShipment_Duplicate() {
	ctx := context.Background()
	shipmentID := kernel.NewUUID()

	suite.Require().NoError(suite.repository.Add(ctx, suite.newRecord(shipmentID, "", "")))

	err := suite.repository.Add(ctx, suite.newRecord(shipmentID, "", ""))
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrDuplicateRecord)
}

func (suite *PODRepositoryIntegrationTestSuite) TestAdd_ReplayedDeviceRecord_Duplicate() {
	ctx := context.Background()

	first := suite.newRecord(kernel.NewUUID(), "device-1", "local-42")
	suite.Require().NoError(suite.repository.Add(ctx, first))

	// same device key, different shipment: the idempotency key still bites
	replay := suite.newRecord(kernel.NewUUID(), "device-1", "local-42")
	err := suite.repository.Add(ctx, replay)
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrDuplicateRecord)
}

func (suite *PODRepositoryIntegrationTestSuite) TestAdd_LiveRecordsShareNoDeviceKey() {
	ctx := context.Background()

	// live captures store NULL device keys, so two of them never collide
	suite.Require().NoError(suite.repository.Add(ctx, suite.newRecord(kernel.NewUUID(), "", "")))
	suite.Require().NoError(suite.repository.Add(ctx, suite.newRecord(kernel.NewUUID(), "", "")))
}

func (suite *PODRepositoryIntegrationTestSuite) TestFindByShipment_Absent_ReturnsNil() {
	found, err := suite.repository.FindByShipment(context.Background(), kernel.NewUUID())
	suite.Require().NoError(err)
	suite.Nil(found)
}

func (suite *PODRepositoryIntegrationTestSuite) TestFindByDeviceRecord_RoundTrip() {
	ctx := context.Background()
	record := suite.newRecord(kernel.NewUUID(), "device-7", "local-9")
	suite.Require().NoError(suite.repository.Add(ctx, record))

	found, err := suite.repository.FindByDeviceRecord(ctx, "device-7", "local-9")
	suite.Require().NoError(err)
	suite.Require().NotNil(found)
	suite.True(found.ID().IsEqual(record.ID()))
	suite.Equal("device-7", found.DeviceUUID())
	suite.Equal("local-9", found.LocalRecordID())

	missing, err := suite.repository.FindByDeviceRecord(ctx, "device-7", "other")
	suite.Require().NoError(err)
	suite.Nil(missing)
}

func (suite *PODRepositoryIntegrationTestSuite) TestAdd_PhotosRoundTrip() {
	ctx := context.Background()
	record := suite.newRecord(kernel.NewUUID(), "", "")
	takenAt := time.Date(2025, 3, 14, 17, 46, 0, 0, time.UTC)
	suite.Require().NoError(record.AddPhoto(kernel.NewUUID(), "photos/door.jpg", "front door", &takenAt))
	suite.Require().NoError(record.AddPhoto(kernel.NewUUID(), "photos/parcel.jpg", "", nil))

	suite.Require().NoError(suite.repository.Add(ctx, record))

	found, err := suite.repository.FindByShipment(ctx, record.ShipmentID())
	suite.Require().NoError(err)
	suite.Require().NotNil(found)
	suite.Len(found.Photos(), 2)
}

func TestPODRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(PODRepositoryIntegrationTestSuite))
}
