package commands_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/payment"
	"dispatch/internal/core/ports"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateGuarded(ctx context.Context, aggregate *order.Order, prior order.Status) error {
	args := m.Called(ctx, aggregate, prior)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByTrackCode(ctx context.Context, trackCode string) (*order.Order, error) {
	args := m.Called(ctx, trackCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllActive(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockAssignmentRepository struct{ mock.Mock }

func (m *MockAssignmentRepository) Add(ctx context.Context, aggregate *assignment.Assignment) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockAssignmentRepository) Update(ctx context.Context, aggregate *assignment.Assignment) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockAssignmentRepository) UpdateGuarded(ctx context.Context, aggregate *assignment.Assignment, prior assignment.Status) error {
	args := m.Called(ctx, aggregate, prior)
	return args.Error(0)
}

func (m *MockAssignmentRepository) Get(ctx context.Context, id kernel.UUID) (*assignment.Assignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assignment.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) GetActiveByOrder(ctx context.Context, orderID kernel.UUID) (*assignment.Assignment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assignment.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) GetAllStale(ctx context.Context, olderThanSeconds int) ([]*assignment.Assignment, error) {
	args := m.Called(ctx, olderThanSeconds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*assignment.Assignment), args.Error(1)
}

type MockTransactionRepository struct{ mock.Mock }

func (m *MockTransactionRepository) Add(ctx context.Context, aggregate *payment.Transaction) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockTransactionRepository) Update(ctx context.Context, aggregate *payment.Transaction) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockTransactionRepository) Get(ctx context.Context, id kernel.UUID) (*payment.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetByReference(ctx context.Context, reference string) (*payment.Transaction, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetAllUndecided(ctx context.Context) ([]*payment.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*payment.Transaction, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Transaction), args.Error(1)
}

type MockWalletRepository struct{ mock.Mock }

func (m *MockWalletRepository) Add(ctx context.Context, aggregate *payment.WalletAccount) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockWalletRepository) Update(ctx context.Context, aggregate *payment.WalletAccount) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockWalletRepository) GetByOwner(ctx context.Context, ownerID kernel.UUID) (*payment.WalletAccount, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.WalletAccount), args.Error(1)
}

// MockUoW satisfies every unit of work combination the handlers depend on.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) AssignmentRepository() ports.AssignmentRepository {
	args := m.Called()
	return args.Get(0).(ports.AssignmentRepository)
}

func (m *MockUoW) TransactionRepository() ports.TransactionRepository {
	args := m.Called()
	return args.Get(0).(ports.TransactionRepository)
}

func (m *MockUoW) WalletRepository() ports.WalletRepository {
	args := m.Called()
	return args.Get(0).(ports.WalletRepository)
}

type orderUoWFactory struct{ uow *MockUoW }

func (f orderUoWFactory) Create() commands.OrderUoW { return f.uow }

type dispatchUoWFactory struct{ uow *MockUoW }

func (f dispatchUoWFactory) Create() commands.DispatchUoW { return f.uow }

type ledgerUoWFactory struct{ uow *MockUoW }

func (f ledgerUoWFactory) Create() commands.LedgerUoW { return f.uow }

type settlementUoWFactory struct{ uow *MockUoW }

func (f settlementUoWFactory) Create() commands.SettlementUoW { return f.uow }

type MockCourierDirectory struct{ mock.Mock }

func (m *MockCourierDirectory) FindAvailableNearby(ctx context.Context, point kernel.GeoPoint, radiusKm float64) ([]courier.Summary, error) {
	args := m.Called(ctx, point, radiusKm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]courier.Summary), args.Error(1)
}

func (m *MockCourierDirectory) Claim(ctx context.Context, courierID kernel.UUID) (bool, error) {
	args := m.Called(ctx, courierID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCourierDirectory) Release(ctx context.Context, courierID kernel.UUID) error {
	args := m.Called(ctx, courierID)
	return args.Error(0)
}

func (m *MockCourierDirectory) RecordOutcome(ctx context.Context, courierID kernel.UUID, completed bool) error {
	args := m.Called(ctx, courierID, completed)
	return args.Error(0)
}

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) Charge(ctx context.Context, reference string, amount kernel.Money, method payment.Method) (ports.ChargeResult, error) {
	args := m.Called(ctx, reference, amount, method)
	return args.Get(0).(ports.ChargeResult), args.Error(1)
}

func (m *MockPaymentGateway) Refund(ctx context.Context, gatewayRef string, amount kernel.Money) error {
	args := m.Called(ctx, gatewayRef, amount)
	return args.Error(0)
}

func (m *MockPaymentGateway) Poll(ctx context.Context, gatewayRef string) (payment.Status, string, error) {
	args := m.Called(ctx, gatewayRef)
	return args.Get(0).(payment.Status), args.String(1), args.Error(2)
}

type MockGeocoder struct{ mock.Mock }

func (m *MockGeocoder) Resolve(ctx context.Context, address string) (kernel.GeoPoint, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(kernel.GeoPoint), args.Error(1)
}

func (m *MockGeocoder) Route(ctx context.Context, from, to kernel.GeoPoint) (float64, float64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(float64), args.Get(1).(float64), args.Error(2)
}

// Fire-and-forget collaborators get silent stubs: the handlers must not fail
// on them, so the tests only need them to exist.
type noopAnalytics struct{}

func (noopAnalytics) Record(context.Context, string, map[string]any) {}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, kernel.UUID, string, string) error { return nil }
