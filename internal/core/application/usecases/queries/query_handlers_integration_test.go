package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tc_postgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/adapters/out/postgres/paymentrepo"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/payment"
	"dispatch/internal/pkg/errs"
)

type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.UUID, any) {}

// QueryHandlersIntegrationTestSuite runs the read-side handlers against a
// real PostgreSQL instance seeded through the write-side repositories.
type QueryHandlersIntegrationTestSuite struct {
	suite.Suite
	container *tc_postgres.PostgresContainer
	db        *gorm.DB
	orders    *orderrepo.GormOrderRepository
	ledger    *paymentrepo.GormTransactionRepository
}

func (suite *QueryHandlersIntegrationTestSuite) SetupSuite() {
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

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}, &paymentrepo.TransactionDTO{}))
	suite.orders = orderrepo.NewGormOrderRepository(db, noopTracker{})
	suite.ledger = paymentrepo.NewGormTransactionRepository(db, noopTracker{})
}

func (suite *QueryHandlersIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *QueryHandlersIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders CASCADE").Error)
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE transactions CASCADE").Error)
}

func (suite *QueryHandlersIntegrationTestSuite) seedOrder() *order.Order {
	origin, err := kernel.NewGeoPoint(55.7558, 37.6173)
	suite.Require().NoError(err)
	destination, err := kernel.NewGeoPoint(55.7339, 37.5882)
	suite.Require().NoError(err)

	pkg, err := order.NewPackage(order.SizeSmall, 2, kernel.Money{}, "documents")
	suite.Require().NoError(err)

	price := order.NewPriceBreakdown(
		kernel.MustMoneyFromCents(50000),
		kernel.MustMoneyFromCents(63000),
		kernel.MustMoneyFromCents(50000),
		kernel.MustMoneyFromCents(50000),
		kernel.Money{},
		kernel.MustMoneyFromCents(31950),
	)

	now := time.Now().UTC()
	o, err := order.NewOrder(
		kernel.NewUUID(), order.NewTrackCode(), kernel.NewUUID(),
		"Tverskaya 1", "Arbat 12",
		origin, destination,
		pkg, order.UrgencyStandard, price,
		now.Add(2*time.Hour), now.Add(4*time.Hour), now,
	)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.orders.Add(context.Background(), o))
	return o
}

func (suite *QueryHandlersIntegrationTestSuite) TestGetOrderByTrackCode_ReturnsTimeline() {
	ctx := context.Background()
	o := suite.seedOrder()
	suite.Require().NoError(o.Assign(kernel.NewUUID(), time.Now().UTC()))
	suite.Require().NoError(suite.orders.Update(ctx, o))

	handler := queries.NewGetOrderByTrackCodeQueryHandler(suite.db)
	query, err := queries.NewGetOrderByTrackCodeQuery(o.TrackCode())
	suite.Require().NoError(err)

	resp, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Equal(o.TrackCode(), resp.TrackCode)
	suite.Equal("assigned", resp.Status)
	suite.True(resp.CourierAssigned)
	suite.Equal(int64(244950), resp.TotalCents)
	suite.Require().Len(resp.Timeline, 2)
	suite.Equal("pending", resp.Timeline[0].Status)
	suite.Equal("assigned", resp.Timeline[1].Status)
}

func (suite *QueryHandlersIntegrationTestSuite) TestGetOrderByTrackCode_UnknownCode() {
	handler := queries.NewGetOrderByTrackCodeQueryHandler(suite.db)
	query, err := queries.NewGetOrderByTrackCodeQuery("TRK-ZZZZZZZZZZ")
	suite.Require().NoError(err)

	_, err = handler.Handle(context.Background(), query)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueryHandlersIntegrationTestSuite) TestGetActiveOrders_SortsByPickupDeadline() {
	ctx := context.Background()
	first := suite.seedOrder()
	second := suite.seedOrder()

	terminal := suite.seedOrder()
	suite.Require().NoError(terminal.ChangeStatus(order.Cancelled, "", nil, time.Now().UTC()))
	suite.Require().NoError(suite.orders.Update(ctx, terminal))

	handler := queries.NewGetActiveOrdersQueryHandler(suite.db)
	resp, err := handler.Handle(ctx, queries.NewGetActiveOrdersQuery())
	suite.Require().NoError(err)

	suite.Require().Len(resp, 2)
	ids := map[string]bool{resp[0].ID.String(): true, resp[1].ID.String(): true}
	suite.True(ids[first.ID().String()])
	suite.True(ids[second.ID().String()])
	suite.False(resp[0].PickupDeadline.After(resp[1].PickupDeadline))
}

func (suite *QueryHandlersIntegrationTestSuite) TestGetTransactionByReference() {
	ctx := context.Background()
	o := suite.seedOrder()

	now := time.Now().UTC()
	orderID := o.ID()
	entry, err := payment.NewTransaction(
		kernel.NewUUID(), &orderID,
		o.CustomerID(), kernel.NewUUID(),
		payment.OrderPayment, payment.Card,
		kernel.MustMoneyFromCents(244950), kernel.MustMoneyFromCents(31950),
		now,
	)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.ledger.Add(ctx, entry))

	handler := queries.NewGetTransactionByReferenceQueryHandler(suite.db)
	query, err := queries.NewGetTransactionByReferenceQuery(entry.Reference())
	suite.Require().NoError(err)

	resp, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Equal(entry.Reference(), resp.Reference)
	suite.Equal("order_payment", resp.Type)
	suite.Equal("card", resp.Method)
	suite.Equal("pending", resp.Status)
	suite.Equal(int64(244950), resp.AmountCents)
	suite.Require().NotNil(resp.OrderID)
	suite.True(resp.OrderID.IsEqual(o.ID()))
}

func TestQueryHandlersIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(QueryHandlersIntegrationTestSuite))
}
