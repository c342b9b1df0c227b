package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// searchRadiusKm bounds the courier directory lookup around the pickup point.
const searchRadiusKm = 15.0

// RequestAssignmentCommandHandler matches a pending order to the best
// available courier and claims it.
//
// The ranking is advisory: between ranking and claiming, another order may
// take the top candidate. The handler walks the ranked list and claims each
// courier atomically through the directory; a lost claim moves on to the
// next candidate instead of retrying the same one. When a claim succeeds but
// the subsequent transaction fails, the claim is released so the courier is
// never stranded busy.
type RequestAssignmentCommandHandler struct {
	uowFactory DispatchUoWFactory
	directory  ports.CourierDirectory
	matcher    services.CourierMatcher
	pricing    services.PricingEngine
	notifier   ports.Notifier
	analytics  ports.AnalyticsSink
	log        *slog.Logger
}

// NewRequestAssignmentCommandHandler creates a handler for order dispatch.
func NewRequestAssignmentCommandHandler(
	uowFactory DispatchUoWFactory,
	directory ports.CourierDirectory,
	matcher services.CourierMatcher,
	pricing services.PricingEngine,
	notifier ports.Notifier,
	analytics ports.AnalyticsSink,
	log *slog.Logger,
) RequestAssignmentCommandHandler {
	return RequestAssignmentCommandHandler{
		uowFactory: uowFactory,
		directory:  directory,
		matcher:    matcher,
		pricing:    pricing,
		notifier:   notifier,
		analytics:  analytics,
		log:        log.With("component", "request_assignment"),
	}
}

// Handle processes the dispatch command. Returns the created assignment, or
// ErrNoCourierAvailable when every candidate is gone; the order then stays
// pending and the caller may retry later.
func (h *RequestAssignmentCommandHandler) Handle(ctx context.Context, cmd RequestAssignmentCommand) (*assignment.Assignment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	pending, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if pending.Status() != order.Pending {
		return nil, errs.NewConflictErrorWithCause("order",
			fmt.Errorf("order %s is %s, only pending orders are dispatched",
				pending.ID(), pending.Status()))
	}

	ranked, err := h.rankCandidates(ctx, pending)
	if err != nil {
		return nil, err
	}

	for _, candidate := range ranked {
		claimed, claimErr := h.directory.Claim(ctx, candidate.Courier.ID())
		if claimErr != nil {
			return nil, claimErr
		}
		if !claimed {
			continue
		}

		created, engageErr := h.engage(ctx, uow, pending, candidate)
		if engageErr != nil {
			if releaseErr := h.directory.Release(ctx, candidate.Courier.ID()); releaseErr != nil {
				h.log.ErrorContext(ctx, "release after failed engagement",
					"courier_id", candidate.Courier.ID().String(),
					"error", releaseErr)
			}
			return nil, engageErr
		}

		h.notifyAssigned(ctx, pending, candidate)
		h.analytics.Record(ctx, "assignment.created", map[string]any{
			"order_id":      pending.ID().String(),
			"assignment_id": created.ID().String(),
			"courier_id":    candidate.Courier.ID().String(),
			"score":         candidate.Score,
			"distance_km":   candidate.DistanceKm,
		})
		return created, nil
	}

	h.log.InfoContext(ctx, "no claimable courier",
		"order_id", pending.ID().String(),
		"candidates", len(ranked))
	return nil, errs.ErrNoCourierAvailable
}

func (h *RequestAssignmentCommandHandler) rankCandidates(ctx context.Context, pending *order.Order) ([]services.Candidate, error) {
	pool, err := h.directory.FindAvailableNearby(ctx, pending.OriginPoint(), searchRadiusKm)
	if err != nil {
		return nil, err
	}
	return h.matcher.Rank(pending.OriginPoint(), pending.Package().WeightKg(), pool)
}

// engage creates the assignment and moves the order to assigned inside one
// transaction. The status guard on the order write makes a concurrent
// dispatch of the same order lose with a conflict instead of double
// assigning.
func (h *RequestAssignmentCommandHandler) engage(
	ctx context.Context,
	uow DispatchUoW,
	pending *order.Order,
	candidate services.Candidate,
) (*assignment.Assignment, error) {
	payout, _, err := h.pricing.CourierShare(pending.Price())
	if err != nil {
		return nil, err
	}

	routeKm, err := pending.OriginPoint().DistanceKm(pending.DestinationPoint())
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := assignment.NewAssignment(
		kernel.NewUUID(),
		pending.ID(),
		candidate.Courier.ID(),
		payout,
		pending.OriginPoint(), pending.DestinationPoint(),
		candidate.DistanceKm+routeKm,
		candidate.EtaMinutes,
		now,
	)
	if err != nil {
		return nil, err
	}

	prior := pending.Status()
	if err = pending.Assign(candidate.Courier.ID(), now); err != nil {
		return nil, err
	}

	if err = uow.AssignmentRepository().Add(ctx, created); err != nil {
		return nil, err
	}
	if err = uow.OrderRepository().UpdateGuarded(ctx, pending, prior); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func (h *RequestAssignmentCommandHandler) notifyAssigned(ctx context.Context, pending *order.Order, candidate services.Candidate) {
	msg := fmt.Sprintf("Order %s: pickup %.1f km away", pending.TrackCode(), candidate.DistanceKm)
	if err := h.notifier.Notify(ctx, candidate.Courier.ID(), "New delivery offer", msg); err != nil {
		h.log.WarnContext(ctx, "courier notification failed",
			"courier_id", candidate.Courier.ID().String(),
			"error", err)
	}
}
