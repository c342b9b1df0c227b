package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// Pickup windows by urgency tier, counted from order creation.
var pickupWindows = map[order.Urgency]time.Duration{
	order.UrgencyStandard: 2 * time.Hour,
	order.UrgencyExpress:  time.Hour,
	order.UrgencyUrgent:   30 * time.Minute,
}

// deliverySlack pads the route estimate when deriving the delivery deadline.
const deliverySlack = time.Hour

// CreateOrderCommandHandler registers a new delivery order: resolves both
// addresses, prices the route, and persists the order in pending status.
// Analytics recording is fire-and-forget and never fails the command.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	geocoder   ports.Geocoder
	pricing    services.PricingEngine
	analytics  ports.AnalyticsSink
	log        *slog.Logger
}

// NewCreateOrderCommandHandler creates a handler for order registration.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	geocoder ports.Geocoder,
	pricing services.PricingEngine,
	analytics ports.AnalyticsSink,
	log *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		geocoder:   geocoder,
		pricing:    pricing,
		analytics:  analytics,
		log:        log.With("component", "create_order"),
	}
}

// Handle processes the order registration command.
//
// Geocoding happens before the transaction opens: an unreachable geocoder
// fails the command with no state committed, so the caller can retry safely.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	originPoint, err := h.geocoder.Resolve(ctx, cmd.OriginAddress())
	if err != nil {
		return nil, fmt.Errorf("resolve origin: %w", err)
	}
	destinationPoint, err := h.geocoder.Resolve(ctx, cmd.DestinationAddress())
	if err != nil {
		return nil, fmt.Errorf("resolve destination: %w", err)
	}

	distanceKm, durationMin, err := h.geocoder.Route(ctx, originPoint, destinationPoint)
	if err != nil {
		return nil, fmt.Errorf("route: %w", err)
	}

	pkg, err := order.NewPackage(cmd.SizeClass(), cmd.WeightKg(), cmd.DeclaredValue(), cmd.Category())
	if err != nil {
		return nil, err
	}

	price, err := h.pricing.Price(distanceKm, pkg, cmd.Urgency())
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	pickupDeadline := now.Add(pickupWindows[cmd.Urgency()])
	deliveryDeadline := pickupDeadline.
		Add(time.Duration(durationMin * float64(time.Minute))).
		Add(deliverySlack)

	newOrder, err := order.NewOrder(
		cmd.OrderID(),
		order.NewTrackCode(),
		cmd.CustomerID(),
		cmd.OriginAddress(), cmd.DestinationAddress(),
		originPoint, destinationPoint,
		pkg,
		cmd.Urgency(),
		price,
		pickupDeadline, deliveryDeadline,
		now,
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.analytics.Record(ctx, "order.created", map[string]any{
		"order_id":    newOrder.ID().String(),
		"track_code":  newOrder.TrackCode(),
		"customer_id": newOrder.CustomerID().String(),
		"urgency":     newOrder.Urgency().String(),
		"distance_km": distanceKm,
		"total":       newOrder.Price().Total().String(),
	})
	h.log.InfoContext(ctx, "order created",
		"order_id", newOrder.ID().String(),
		"track_code", newOrder.TrackCode(),
		"total", newOrder.Price().Total().String())

	return newOrder, nil
}
