package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/analytics"
	"dispatch/internal/adapters/out/gateway"
	"dispatch/internal/adapters/out/geo"
	"dispatch/internal/adapters/out/notify"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/courierdir"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"
	"dispatch/internal/observability/metrics"
)

// notifyRetryDelay is the pause between notification delivery attempts.
const notifyRetryDelay = 500 * time.Millisecond

// CompositionRoot wires the application graph: adapters into ports, ports
// into handlers, handlers into the server and jobs.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	directory ports.CourierDirectory
	geocoder  ports.Geocoder
	gateway   ports.PaymentGateway
	notifier  ports.Notifier
	analytics ports.AnalyticsSink
	sink      *analytics.KafkaSink

	pricing services.PricingEngine
	matcher services.CourierMatcher

	platformAccountID kernel.UUID
	logger            *slog.Logger
}

// NewCompositionRoot builds the application graph from configuration.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	platformAccountID, err := kernel.UUIDFromString(config.PlatformAccountID)
	if err != nil {
		return nil, fmt.Errorf("invalid PLATFORM_ACCOUNT_ID: %w", err)
	}

	pricing, err := services.NewPricingEngine(services.DefaultPricingPolicy())
	if err != nil {
		return nil, err
	}
	matcher, err := services.NewCourierMatcher(services.DefaultMatchingPolicy())
	if err != nil {
		return nil, err
	}

	root := &CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),

		directory: courierdir.NewGormCourierDirectory(gormDB),
		geocoder:  geo.NewDeterministicGeocoder(geo.DefaultBounds()),
		gateway: gateway.NewRetryingGateway(
			gateway.NewSimulatedCardGateway(kernel.Money{}),
			logger, metrics.GatewayRetriesTotal, gateway.DefaultRetryConfig()),
		notifier: notify.NewNotifier(notify.NewLogSender(logger), logger, 3, notifyRetryDelay),

		pricing: pricing,
		matcher: matcher,

		platformAccountID: platformAccountID,
		logger:            logger,
	}

	if config.KafkaHost != "" {
		root.sink = analytics.NewKafkaSink([]string{config.KafkaHost}, config.KafkaAnalyticsTopic, logger)
		root.analytics = root.sink
	} else {
		root.analytics = analytics.NopSink{}
	}

	return root, nil
}

// Close flushes and releases held resources.
func (c *CompositionRoot) Close() error {
	if c.sink != nil {
		return c.sink.Close()
	}
	return nil
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.geocoder, c.pricing, c.analytics, c.logger)
}

func (c *CompositionRoot) CreateRequestAssignmentCommandHandler() commands.RequestAssignmentCommandHandler {
	return commands.NewRequestAssignmentCommandHandler(
		c.DispatchUoWFactory(), c.directory, c.matcher, c.pricing, c.notifier, c.analytics, c.logger)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	return commands.NewUpdateOrderStatusCommandHandler(
		c.settlementUoWFactory(), c.directory, c.gateway, c.platformAccountID, c.analytics, c.logger)
}

func (c *CompositionRoot) CreateUpdateAssignmentStatusCommandHandler() commands.UpdateAssignmentStatusCommandHandler {
	return commands.NewUpdateAssignmentStatusCommandHandler(
		c.settlementUoWFactory(), c.directory, c.gateway, c.platformAccountID,
		c.notifier, c.analytics, c.logger)
}

func (c *CompositionRoot) CreateInitiatePaymentCommandHandler() commands.InitiatePaymentCommandHandler {
	return commands.NewInitiatePaymentCommandHandler(
		c.settlementUoWFactory(), c.gateway, c.platformAccountID, c.analytics, c.logger)
}

func (c *CompositionRoot) CreatePaymentCallbackCommandHandler() commands.PaymentCallbackCommandHandler {
	return commands.NewPaymentCallbackCommandHandler(c.LedgerUoWFactory(), c.analytics, c.logger)
}

func (c *CompositionRoot) CreateTopUpWalletCommandHandler() commands.TopUpWalletCommandHandler {
	return commands.NewTopUpWalletCommandHandler(c.LedgerUoWFactory(), c.gateway, c.logger)
}

func (c *CompositionRoot) CreateGetOrderByTrackCodeQueryHandler() queries.GetOrderByTrackCodeQueryHandler {
	return queries.NewGetOrderByTrackCodeQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetTransactionByReferenceQueryHandler() queries.GetTransactionByReferenceQueryHandler {
	return queries.NewGetTransactionByReferenceQueryHandler(c.gormDB)
}

// CreateServer builds the HTTP server with every handler wired.
func (c *CompositionRoot) CreateServer() *http.Server {
	return http.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateRequestAssignmentCommandHandler(),
		c.CreateUpdateOrderStatusCommandHandler(),
		c.CreateUpdateAssignmentStatusCommandHandler(),
		c.CreateInitiatePaymentCommandHandler(),
		c.CreatePaymentCallbackCommandHandler(),
		c.CreateTopUpWalletCommandHandler(),
		c.CreateGetOrderByTrackCodeQueryHandler(),
		c.CreateGetActiveOrdersQueryHandler(),
		c.CreateGetTransactionByReferenceQueryHandler(),
	)
}

// CreateJobManager builds the background job manager.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.DispatchUoWFactory(),
		c.LedgerUoWFactory(),
		c.gateway,
		c.CreateRequestAssignmentCommandHandler(),
		c.CreateUpdateAssignmentStatusCommandHandler(),
		c.CreatePaymentCallbackCommandHandler(),
		c.logger,
	)
}

// DispatchUoWFactory exposes the order+assignment unit of work.
func (c *CompositionRoot) DispatchUoWFactory() commands.DispatchUoWFactory {
	return FuncDispatchUoWFactory(func() commands.DispatchUoW {
		return c.uowFactory.Create()
	})
}

// LedgerUoWFactory exposes the ledger+wallet unit of work.
func (c *CompositionRoot) LedgerUoWFactory() commands.LedgerUoWFactory {
	return FuncLedgerUoWFactory(func() commands.LedgerUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) settlementUoWFactory() commands.SettlementUoWFactory {
	return FuncSettlementUoWFactory(func() commands.SettlementUoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncDispatchUoWFactory func() commands.DispatchUoW

func (f FuncDispatchUoWFactory) Create() commands.DispatchUoW {
	return f()
}

type FuncLedgerUoWFactory func() commands.LedgerUoW

func (f FuncLedgerUoWFactory) Create() commands.LedgerUoW {
	return f()
}

type FuncSettlementUoWFactory func() commands.SettlementUoW

func (f FuncSettlementUoWFactory) Create() commands.SettlementUoW {
	return f()
}
