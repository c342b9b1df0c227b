package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/payment"
	"dispatch/internal/pkg/guard"
)

var ErrPaymentCallbackCommandIsNotConstructed = errors.New(
	"PaymentCallbackCommand must be created via NewPaymentCallbackCommand constructor",
)

// PaymentCallbackCommand carries a gateway's asynchronous verdict on a
// previously initiated charge.
type PaymentCallbackCommand struct { //nolint:recvcheck //using for validation
	reference string
	status    payment.Status
	authCode  string

	guard guard.ConstructorGuard
}

// NewPaymentCallbackCommand creates a callback application request.
func NewPaymentCallbackCommand(reference string, status payment.Status, authCode string) (PaymentCallbackCommand, error) {
	cmd := PaymentCallbackCommand{
		authCode: authCode,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(payment.ValidateReference(reference), status.Validate()); err != nil {
		return PaymentCallbackCommand{}, err
	}

	cmd.reference = reference
	cmd.status = status
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PaymentCallbackCommand) Validate() error {
	return c.guard.Validate(ErrPaymentCallbackCommandIsNotConstructed)
}

// Reference returns the ledger reference the verdict applies to.
func (c PaymentCallbackCommand) Reference() string {
	return c.reference
}

// Status returns the gateway-reported status.
func (c PaymentCallbackCommand) Status() payment.Status {
	return c.status
}

// AuthCode returns the gateway authorization code, if any.
func (c PaymentCallbackCommand) AuthCode() string {
	return c.authCode
}
