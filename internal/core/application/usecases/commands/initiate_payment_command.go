package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/payment"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrInitiatePaymentCommandIsNotConstructed = errors.New(
	"InitiatePaymentCommand must be created via NewInitiatePaymentCommand constructor",
)

// InitiatePaymentCommand opens the settlement of an order: it creates the
// pending ledger entry and dispatches it to the method-specific backend.
type InitiatePaymentCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	method  payment.Method
	amount  kernel.Money

	guard guard.ConstructorGuard
}

// NewInitiatePaymentCommand creates a payment initiation request.
func NewInitiatePaymentCommand(orderID kernel.UUID, method payment.Method, amount kernel.Money) (InitiatePaymentCommand, error) {
	cmd := InitiatePaymentCommand{
		amount: amount,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(orderID.Validate(), method.Validate()); err != nil {
		return InitiatePaymentCommand{}, err
	}
	if amount.IsZero() {
		return InitiatePaymentCommand{}, errs.NewValueIsRequiredError("amount")
	}

	cmd.orderID = orderID
	cmd.method = method
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c InitiatePaymentCommand) Validate() error {
	return c.guard.Validate(ErrInitiatePaymentCommandIsNotConstructed)
}

// OrderID returns the order being paid for.
func (c InitiatePaymentCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Method returns the requested settlement backend.
func (c InitiatePaymentCommand) Method() payment.Method {
	return c.method
}

// Amount returns the amount to charge.
func (c InitiatePaymentCommand) Amount() kernel.Money {
	return c.amount
}
