package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrTopUpWalletCommandIsNotConstructed = errors.New(
	"TopUpWalletCommand must be created via NewTopUpWalletCommand constructor",
)

// TopUpWalletCommand charges the owner's card and credits their prepaid
// balance.
type TopUpWalletCommand struct { //nolint:recvcheck //using for validation
	ownerID kernel.UUID
	amount  kernel.Money

	guard guard.ConstructorGuard
}

// NewTopUpWalletCommand creates a wallet top-up request.
func NewTopUpWalletCommand(ownerID kernel.UUID, amount kernel.Money) (TopUpWalletCommand, error) {
	cmd := TopUpWalletCommand{
		amount: amount,
		guard:  guard.NewConstructorGuard(),
	}

	if err := ownerID.Validate(); err != nil {
		return TopUpWalletCommand{}, err
	}
	if amount.IsZero() {
		return TopUpWalletCommand{}, errs.NewValueIsRequiredError("amount")
	}

	cmd.ownerID = ownerID
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c TopUpWalletCommand) Validate() error {
	return c.guard.Validate(ErrTopUpWalletCommandIsNotConstructed)
}

// OwnerID returns the wallet owner.
func (c TopUpWalletCommand) OwnerID() kernel.UUID {
	return c.ownerID
}

// Amount returns the amount to credit.
func (c TopUpWalletCommand) Amount() kernel.Money {
	return c.amount
}
