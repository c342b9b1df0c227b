package courierdir_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tc_postgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"dispatch/internal/adapters/out/postgres/courierdir"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// CourierDirectoryIntegrationTestSuite verifies the availability flag
// semantics against a real PostgreSQL instance: the claim is a
// compare-and-set, the release is idempotent.
type CourierDirectoryIntegrationTestSuite struct {
	suite.Suite
	container *tc_postgres.PostgresContainer
	db        *gorm.DB
	directory *courierdir.GormCourierDirectory
}

func (suite *CourierDirectoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tc_postgres.Run(ctx,
		"postgres:15-alpine",
		tc_postgres.WithDatabase("testdb"),
		tc_postgres.WithUsername("testuser"),
		tc_postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&courierdir.CourierDTO{}))
	suite.directory = courierdir.NewGormCourierDirectory(db)
}

func (suite *CourierDirectoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *CourierDirectoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE couriers CASCADE").Error)
}

func (suite *CourierDirectoryIntegrationTestSuite) addCourier(lat, lng float64) courier.Summary {
	location, err := kernel.NewGeoPoint(lat, lng)
	suite.Require().NoError(err)
	summary, err := courier.NewSummary(kernel.NewUUID(), "Ivan", location, 4.5, 20, 90, 100)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.directory.Add(context.Background(), summary))
	return summary
}

func (suite *CourierDirectoryIntegrationTestSuite) TestClaim_SecondClaimLoses() {
	ctx := context.Background()
	summary := suite.addCourier(55.7558, 37.6173)

	won, err := suite.directory.Claim(ctx, summary.ID())
	suite.Require().NoError(err)
	suite.True(won)

	won, err = suite.directory.Claim(ctx, summary.ID())
	suite.Require().NoError(err)
	suite.False(won)
}

func (suite *CourierDirectoryIntegrationTestSuite) TestRelease_MakesCourierClaimableAgain() {
	ctx := context.Background()
	summary := suite.addCourier(55.7558, 37.6173)

	won, err := suite.directory.Claim(ctx, summary.ID())
	suite.Require().NoError(err)
	suite.True(won)

	suite.Require().NoError(suite.directory.Release(ctx, summary.ID()))
	suite.Require().NoError(suite.directory.Release(ctx, summary.ID()))

	won, err = suite.directory.Claim(ctx, summary.ID())
	suite.Require().NoError(err)
	suite.True(won)
}

func (suite *CourierDirectoryIntegrationTestSuite) TestFindAvailableNearby_FiltersByRadiusAndAvailability() {
	ctx := context.Background()
	near := suite.addCourier(55.7600, 37.6200)
	suite.addCourier(56.8600, 35.9000) // ~130km away
	busy := suite.addCourier(55.7500, 37.6100)

	won, err := suite.directory.Claim(ctx, busy.ID())
	suite.Require().NoError(err)
	suite.True(won)

	point, err := kernel.NewGeoPoint(55.7558, 37.6173)
	suite.Require().NoError(err)

	found, err := suite.directory.FindAvailableNearby(ctx, point, 15)
	suite.Require().NoError(err)
	suite.Require().Len(found, 1)
	suite.True(found[0].ID().IsEqual(near.ID()))
}

func (suite *CourierDirectoryIntegrationTestSuite) TestFindAvailableNearby_ExcludesBoxCornerOutsideRadius() {
	ctx := context.Background()
	inside := suite.addCourier(55.7600, 37.6200)
	// Inside the bounding box for a 15km search, ~19km away by great circle.
	suite.addCourier(55.8858, 37.8273)

	point, err := kernel.NewGeoPoint(55.7558, 37.6173)
	suite.Require().NoError(err)

	found, err := suite.directory.FindAvailableNearby(ctx, point, 15)
	suite.Require().NoError(err)
	suite.Require().Len(found, 1)
	suite.True(found[0].ID().IsEqual(inside.ID()))
}

func (suite *CourierDirectoryIntegrationTestSuite) TestRecordOutcome_BumpsCounters() {
	ctx := context.Background()
	summary := suite.addCourier(55.7558, 37.6173)

	suite.Require().NoError(suite.directory.RecordOutcome(ctx, summary.ID(), true))
	suite.Require().NoError(suite.directory.RecordOutcome(ctx, summary.ID(), false))

	point, err := kernel.NewGeoPoint(55.7558, 37.6173)
	suite.Require().NoError(err)
	found, err := suite.directory.FindAvailableNearby(ctx, point, 5)
	suite.Require().NoError(err)
	suite.Require().Len(found, 1)
	suite.Equal(91, found[0].CompletedDeliveries())
	suite.Equal(102, found[0].TotalDeliveries())
}

func TestCourierDirectoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(CourierDirectoryIntegrationTestSuite))
}
