package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// UpdateAssignmentStatusCommandHandler moves an assignment through its state
// machine and mirrors the move into the order's state machine in the same
// transaction, so the two can never drift apart. An order-side rejection
// aborts both.
//
// Terminal assignment statuses release the courier and record the delivery
// outcome; a decline additionally returns the order to the pending pool so
// the next dispatch attempt can match it again; a completion triggers
// settlement.
type UpdateAssignmentStatusCommandHandler struct {
	uowFactory SettlementUoWFactory
	directory  ports.CourierDirectory
	notifier   ports.Notifier
	settle     settler
	analytics  ports.AnalyticsSink
	log        *slog.Logger
}

// NewUpdateAssignmentStatusCommandHandler creates a handler for assignment
// status transitions.
func NewUpdateAssignmentStatusCommandHandler(
	uowFactory SettlementUoWFactory,
	directory ports.CourierDirectory,
	gateway ports.PaymentGateway,
	platformAccountID kernel.UUID,
	notifier ports.Notifier,
	analytics ports.AnalyticsSink,
	log *slog.Logger,
) UpdateAssignmentStatusCommandHandler {
	return UpdateAssignmentStatusCommandHandler{
		uowFactory: uowFactory,
		directory:  directory,
		notifier:   notifier,
		settle:     newSettler(gateway, platformAccountID, log),
		analytics:  analytics,
		log:        log.With("component", "update_assignment_status"),
	}
}

// Handle processes one assignment transition request.
func (h *UpdateAssignmentStatusCommandHandler) Handle(ctx context.Context, cmd UpdateAssignmentStatusCommand) (*assignment.Assignment, error) {
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

	current, err := uow.AssignmentRepository().Get(ctx, cmd.AssignmentID())
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	priorAssignment := current.Status()
	if err = current.ApplyStatus(cmd.NewStatus(), now); err != nil {
		return nil, err
	}

	bound, err := uow.OrderRepository().Get(ctx, current.OrderID())
	if err != nil {
		return nil, err
	}
	priorOrder := bound.Status()

	if err = h.mirrorIntoOrder(ctx, uow, cmd, current, bound, now); err != nil {
		return nil, err
	}

	if cmd.NewStatus() == assignment.Completed {
		if err = h.settle.settleDelivered(ctx, uow, bound); err != nil {
			return nil, err
		}
	}
	if cmd.NewStatus() == assignment.Cancelled || cmd.NewStatus() == assignment.Failed {
		if err = h.settle.refundIfPaid(ctx, uow, bound); err != nil {
			return nil, err
		}
	}

	if err = uow.AssignmentRepository().UpdateGuarded(ctx, current, priorAssignment); err != nil {
		return nil, err
	}
	if bound.Status() != priorOrder {
		if err = uow.OrderRepository().UpdateGuarded(ctx, bound, priorOrder); err != nil {
			return nil, err
		}
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if current.IsTerminal() {
		h.releaseCourier(ctx, current)
	}

	h.analytics.Record(ctx, "assignment.status_changed", map[string]any{
		"assignment_id": current.ID().String(),
		"order_id":      current.OrderID().String(),
		"courier_id":    current.CourierID().String(),
		"from":          priorAssignment.String(),
		"to":            cmd.NewStatus().String(),
	})
	h.notifyCustomer(ctx, bound, cmd.NewStatus())

	return current, nil
}

// mirrorIntoOrder applies the assignment transition's order-side effect.
// Declines have no mapped effect but return the order to the pending pool.
func (h *UpdateAssignmentStatusCommandHandler) mirrorIntoOrder(
	_ context.Context,
	_ SettlementUoW,
	cmd UpdateAssignmentStatusCommand,
	current *assignment.Assignment,
	bound *order.Order,
	now time.Time,
) error {
	if cmd.NewStatus() == assignment.Declined {
		return bound.ReturnToPool("Courier declined the offer", now)
	}

	effect, ok := cmd.NewStatus().OrderEffect()
	if !ok {
		return nil
	}

	description := fmt.Sprintf("Courier %s: %s", current.CourierID(), cmd.NewStatus())
	if cmd.Notes() != "" {
		description = fmt.Sprintf("%s (%s)", description, cmd.Notes())
	}
	return bound.ChangeStatus(effect, description, nil, now)
}

func (h *UpdateAssignmentStatusCommandHandler) releaseCourier(ctx context.Context, current *assignment.Assignment) {
	if err := h.directory.Release(ctx, current.CourierID()); err != nil {
		h.log.ErrorContext(ctx, "courier release failed",
			"courier_id", current.CourierID().String(),
			"error", err)
		return
	}
	completed := current.Status() == assignment.Completed
	if err := h.directory.RecordOutcome(ctx, current.CourierID(), completed); err != nil {
		h.log.WarnContext(ctx, "outcome recording failed",
			"courier_id", current.CourierID().String(),
			"error", err)
	}
}

func (h *UpdateAssignmentStatusCommandHandler) notifyCustomer(ctx context.Context, bound *order.Order, next assignment.Status) {
	titles := map[assignment.Status]string{
		assignment.Accepted:   "Courier accepted your order",
		assignment.InProgress: "Your package was picked up",
		assignment.Completed:  "Your package was delivered",
	}
	title, ok := titles[next]
	if !ok {
		return
	}
	msg := fmt.Sprintf("Order %s", bound.TrackCode())
	if err := h.notifier.Notify(ctx, bound.CustomerID(), title, msg); err != nil {
		h.log.WarnContext(ctx, "customer notification failed",
			"customer_id", bound.CustomerID().String(),
			"error", err)
	}
}
