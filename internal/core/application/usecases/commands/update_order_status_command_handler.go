package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// UpdateOrderStatusCommandHandler moves an order through its state machine.
//
// Reaching delivered completes any active assignment and triggers
// settlement; reaching cancelled or failed cancels the assignment and
// refunds a completed payment. Either way the courier is released.
// The order write is guarded on the prior status, so of
// two racing transition requests exactly one commits; the loser gets a
// ConflictError and retries with fresh data.
type UpdateOrderStatusCommandHandler struct {
	uowFactory SettlementUoWFactory
	directory  ports.CourierDirectory
	settle     settler
	analytics  ports.AnalyticsSink
	log        *slog.Logger
}

// NewUpdateOrderStatusCommandHandler creates a handler for order status
// transitions.
func NewUpdateOrderStatusCommandHandler(
	uowFactory SettlementUoWFactory,
	directory ports.CourierDirectory,
	gateway ports.PaymentGateway,
	platformAccountID kernel.UUID,
	analytics ports.AnalyticsSink,
	log *slog.Logger,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		directory:  directory,
		settle:     newSettler(gateway, platformAccountID, log),
		analytics:  analytics,
		log:        log.With("component", "update_order_status"),
	}
}

// Handle processes one status transition request.
func (h *UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (*order.Order, error) {
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

	current, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	prior := current.Status()
	description := fmt.Sprintf("Status changed to %s", cmd.NewStatus())
	if err = current.ChangeStatus(cmd.NewStatus(), description, cmd.Point(), now); err != nil {
		return nil, err
	}

	var outcome func(context.Context) error
	switch cmd.NewStatus() {
	case order.Delivered:
		if err = h.closeActiveAssignment(ctx, uow, current, cmd.NewStatus(), now); err != nil {
			return nil, err
		}
		if err = h.settle.settleDelivered(ctx, uow, current); err != nil {
			return nil, err
		}
		outcome = h.releaseFn(current, true)
	case order.Cancelled, order.Failed:
		if err = h.closeActiveAssignment(ctx, uow, current, cmd.NewStatus(), now); err != nil {
			return nil, err
		}
		if err = h.settle.refundIfPaid(ctx, uow, current); err != nil {
			return nil, err
		}
		outcome = h.releaseFn(current, false)
	}

	if err = uow.OrderRepository().UpdateGuarded(ctx, current, prior); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if outcome != nil {
		if err = outcome(ctx); err != nil {
			h.log.ErrorContext(ctx, "courier release after terminal order",
				"order_id", current.ID().String(),
				"error", err)
		}
	}

	h.analytics.Record(ctx, "order.status_changed", map[string]any{
		"order_id": current.ID().String(),
		"from":     prior.String(),
		"to":       cmd.NewStatus().String(),
	})
	return current, nil
}

// closeActiveAssignment mirrors a terminal order status into the order's
// active assignment, if one exists.
func (h *UpdateOrderStatusCommandHandler) closeActiveAssignment(
	ctx context.Context,
	uow SettlementUoW,
	current *order.Order,
	next order.Status,
	now time.Time,
) error {
	active, err := uow.AssignmentRepository().GetActiveByOrder(ctx, current.ID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	prior := active.Status()
	switch next {
	case order.Delivered:
		if active.Status() == assignment.Accepted {
			if err = active.Start(now); err != nil {
				return err
			}
		}
		err = active.Complete(now)
	case order.Failed:
		err = active.Fail(now)
	default:
		err = active.Cancel(now)
	}
	if err != nil {
		return err
	}
	return uow.AssignmentRepository().UpdateGuarded(ctx, active, prior)
}

// releaseFn returns the post-commit courier release for a terminal order.
// Runs after commit so a directory hiccup never rolls back the transition;
// failures are logged and the sweep job repairs stranded couriers.
func (h *UpdateOrderStatusCommandHandler) releaseFn(current *order.Order, completed bool) func(context.Context) error {
	courierID := current.CourierID()
	if courierID == nil {
		return nil
	}
	id := *courierID
	return func(ctx context.Context) error {
		if err := h.directory.Release(ctx, id); err != nil {
			return err
		}
		return h.directory.RecordOutcome(ctx, id, completed)
	}
}
