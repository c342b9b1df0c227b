package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
	"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
)

// UpdateOrderStatusCommand requests one transition of an order's state
// machine, optionally recording where it happened.
type UpdateOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	newStatus order.Status
	point     *kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewUpdateOrderStatusCommand creates a status transition request.
// The transition itself is validated by the aggregate, not here; the command
// only rejects statuses that do not exist.
func NewUpdateOrderStatusCommand(orderID kernel.UUID, newStatus order.Status, point *kernel.GeoPoint) (UpdateOrderStatusCommand, error) {
	cmd := UpdateOrderStatusCommand{
		point: point,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(orderID.Validate(), newStatus.Validate()); err != nil {
		return UpdateOrderStatusCommand{}, err
	}
	if point != nil {
		if err := point.Validate(); err != nil {
			return UpdateOrderStatusCommand{}, err
		}
	}

	cmd.orderID = orderID
	cmd.newStatus = newStatus
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

// OrderID returns the order to transition.
func (c UpdateOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// NewStatus returns the requested status.
func (c UpdateOrderStatusCommand) NewStatus() order.Status {
	return c.newStatus
}

// Point returns where the transition happened, or nil.
func (c UpdateOrderStatusCommand) Point() *kernel.GeoPoint {
	return c.point
}
