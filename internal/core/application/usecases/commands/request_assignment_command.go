package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrRequestAssignmentCommandIsNotConstructed = errors.New(
	"RequestAssignmentCommand must be created via NewRequestAssignmentCommand constructor",
)

// RequestAssignmentCommand asks the dispatcher to find and claim a courier
// for a pending order.
type RequestAssignmentCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRequestAssignmentCommand creates a command to dispatch one order.
func NewRequestAssignmentCommand(orderID kernel.UUID) (RequestAssignmentCommand, error) {
	cmd := RequestAssignmentCommand{
		guard: guard.NewConstructorGuard(),
	}
	if err := orderID.Validate(); err != nil {
		return RequestAssignmentCommand{}, err
	}
	cmd.orderID = orderID
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RequestAssignmentCommand) Validate() error {
	return c.guard.Validate(ErrRequestAssignmentCommandIsNotConstructed)
}

// OrderID returns the order to dispatch.
func (c RequestAssignmentCommand) OrderID() kernel.UUID {
	return c.orderID
}
