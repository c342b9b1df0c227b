package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tc_postgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	postgres_adapter "dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/assignmentrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/adapters/out/postgres/paymentrepo"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/payment"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// UnitOfWorkIntegrationTestSuite exercises the GORM unit of work against a
// real PostgreSQL instance: transactional coupling across the four
// repositories and the guarded-update conflict semantics.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *tc_postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
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

	err = db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&assignmentrepo.AssignmentDTO{},
		&paymentrepo.TransactionDTO{},
		&paymentrepo.WalletDTO{},
	)
	suite.Require().NoError(err)

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	for _, table := range []string{"orders", "assignments", "transactions", "wallets"} {
		suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE " + table + " CASCADE").Error)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) newOrder() *order.Order {
	origin, err := kernel.NewGeoPoint(55.7558, 37.6173)
	suite.Require().NoError(err)
	destination, err := kernel.NewGeoPoint(55.7339, 37.5882)
	suite.Require().NoError(err)

	pkg, err := order.NewPackage(order.SizeMedium, 5, kernel.Money{}, "documents")
	suite.Require().NoError(err)

	price := order.NewPriceBreakdown(
		kernel.MustMoneyFromCents(50000),
		kernel.MustMoneyFromCents(150000),
		kernel.MustMoneyFromCents(65000),
		kernel.MustMoneyFromCents(50000),
		kernel.Money{},
		kernel.MustMoneyFromCents(47250),
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
	return o
}

func (suite *UnitOfWorkIntegrationTestSuite) newAssignmentFor(o *order.Order, courierID kernel.UUID) *assignment.Assignment {
	a, err := assignment.NewAssignment(
		kernel.NewUUID(), o.ID(), courierID,
		kernel.MustMoneyFromCents(415000),
		o.OriginPoint(), o.DestinationPoint(),
		4.2, 8.5, time.Now().UTC(),
	)
	suite.Require().NoError(err)
	return a
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsAcrossAllRepositories() {
	ctx := context.Background()
	courierID := kernel.NewUUID()

	o := suite.newOrder()
	suite.Require().NoError(o.Assign(courierID, time.Now().UTC()))
	a := suite.newAssignmentFor(o, courierID)

	now := time.Now().UTC()
	orderID := o.ID()
	entry, err := payment.NewTransaction(
		kernel.NewUUID(), &orderID,
		o.CustomerID(), kernel.NewUUID(),
		payment.OrderPayment, payment.Cash,
		kernel.MustMoneyFromCents(462250), kernel.MustMoneyFromCents(47250),
		now,
	)
	suite.Require().NoError(err)

	wallet, err := payment.NewWalletAccount(kernel.NewUUID(), courierID, now)
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.AssignmentRepository().Add(ctx, a))
	suite.Require().NoError(uow.TransactionRepository().Add(ctx, entry))
	suite.Require().NoError(uow.WalletRepository().Add(ctx, wallet))
	suite.Require().NoError(uow.Commit(ctx))

	check := suite.factory.Create()
	storedOrder, err := check.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Assigned, storedOrder.Status())
	suite.Require().NotNil(storedOrder.CourierID())
	suite.True(storedOrder.CourierID().IsEqual(courierID))

	storedAssignment, err := check.AssignmentRepository().GetActiveByOrder(ctx, o.ID())
	suite.Require().NoError(err)
	suite.True(storedAssignment.ID().IsEqual(a.ID()))

	storedEntry, err := check.TransactionRepository().GetByReference(ctx, entry.Reference())
	suite.Require().NoError(err)
	suite.Equal(int64(462250), storedEntry.Amount().Cents())

	storedWallet, err := check.WalletRepository().GetByOwner(ctx, courierID)
	suite.Require().NoError(err)
	suite.True(storedWallet.Balance().IsZero())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsAllWrites() {
	ctx := context.Background()
	o := suite.newOrder()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Rollback(ctx))

	_, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUpdateGuarded_LoserGetsConflict() {
	ctx := context.Background()
	courierID := kernel.NewUUID()
	o := suite.newOrder()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Commit(ctx))

	repo := suite.factory.Create().OrderRepository()
	first, err := repo.Get(ctx, o.ID())
	suite.Require().NoError(err)
	second, err := repo.Get(ctx, o.ID())
	suite.Require().NoError(err)

	now := time.Now().UTC()
	suite.Require().NoError(first.Assign(courierID, now))
	suite.Require().NoError(second.ChangeStatus(order.Cancelled, "Customer changed their mind", nil, now))

	suite.Require().NoError(repo.UpdateGuarded(ctx, first, order.Pending))

	err = repo.UpdateGuarded(ctx, second, order.Pending)
	suite.Require().ErrorIs(err, errs.ErrConflict)

	stored, err := repo.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Assigned, stored.Status())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestAdd_SecondActiveAssignmentConflicts() {
	ctx := context.Background()
	courierID := kernel.NewUUID()
	o := suite.newOrder()
	suite.Require().NoError(o.Assign(courierID, time.Now().UTC()))

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.AssignmentRepository().Add(ctx, suite.newAssignmentFor(o, courierID)))
	suite.Require().NoError(uow.Commit(ctx))

	repo := suite.factory.Create().AssignmentRepository()
	err := repo.Add(ctx, suite.newAssignmentFor(o, kernel.NewUUID()))
	suite.Require().ErrorIs(err, errs.ErrConflict)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestWalletDebits_SerializeUnderRowLock() {
	ctx := context.Background()
	ownerID := kernel.NewUUID()
	now := time.Now().UTC()

	wallet, err := payment.NewWalletAccount(kernel.NewUUID(), ownerID, now)
	suite.Require().NoError(err)
	suite.Require().NoError(wallet.Credit(kernel.MustMoneyFromCents(10000), now))

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.WalletRepository().Add(ctx, wallet))
	suite.Require().NoError(uow.Commit(ctx))

	const debits = 8
	var wg sync.WaitGroup
	errCh := make(chan error, debits)
	for range debits {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errCh <- suite.debitOnce(ctx, ownerID, kernel.MustMoneyFromCents(1000))
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		suite.Require().NoError(err)
	}

	stored, err := suite.factory.Create().WalletRepository().GetByOwner(ctx, ownerID)
	suite.Require().NoError(err)
	suite.Equal(int64(2000), stored.Balance().Cents())
}

func (suite *UnitOfWorkIntegrationTestSuite) debitOnce(ctx context.Context, ownerID kernel.UUID, amount kernel.Money) error {
	uow := suite.factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	wallet, err := uow.WalletRepository().GetByOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	if err = wallet.Debit(amount, time.Now().UTC()); err != nil {
		return err
	}
	if err = uow.WalletRepository().Update(ctx, wallet); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
