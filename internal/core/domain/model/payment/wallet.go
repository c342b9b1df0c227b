package payment

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrWalletIsNotConstructed is returned when a WalletAccount was not created
// through NewWalletAccount or RestoreWalletAccount.
var ErrWalletIsNotConstructed = errors.New(
	"WalletAccount must be created via NewWalletAccount or RestoreWalletAccount constructor")

// WalletAccount holds a user's prepaid balance.
//
// The balance never goes negative. A debit or credit is only persisted
// together with the ledger entry that explains it, inside one storage
// transaction.
type WalletAccount struct {
	id        kernel.UUID
	ownerID   kernel.UUID
	balance   kernel.Money
	updatedAt time.Time

	guard guard.ConstructorGuard
}

// NewWalletAccount creates a wallet with a zero balance.
func NewWalletAccount(id, ownerID kernel.UUID, now time.Time) (*WalletAccount, error) {
	w := &WalletAccount{
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(id.Validate(), ownerID.Validate()); err != nil {
		return nil, err
	}
	if now.IsZero() {
		return nil, errs.NewValueIsRequiredError("now")
	}

	w.id = id
	w.ownerID = ownerID
	return w, nil
}

// RestoreWalletAccount reconstructs a wallet from persistent storage.
func RestoreWalletAccount(id, ownerID kernel.UUID, balance kernel.Money, updatedAt time.Time) (*WalletAccount, error) {
	w, err := NewWalletAccount(id, ownerID, updatedAt)
	if err != nil {
		return nil, err
	}
	w.balance = balance
	return w, nil
}

// Validate ensures the WalletAccount was constructed through a constructor.
func (w *WalletAccount) Validate() error {
	if w == nil {
		return ErrWalletIsNotConstructed
	}
	return w.guard.Validate(ErrWalletIsNotConstructed)
}

// ID returns the wallet's unique identifier.
func (w *WalletAccount) ID() kernel.UUID {
	return w.id
}

// OwnerID returns the owning user's identifier.
func (w *WalletAccount) OwnerID() kernel.UUID {
	return w.ownerID
}

// Balance returns the current prepaid balance.
func (w *WalletAccount) Balance() kernel.Money {
	return w.balance
}

// UpdatedAt returns when the balance last changed.
func (w *WalletAccount) UpdatedAt() time.Time {
	return w.updatedAt
}

// Credit adds amount to the balance.
func (w *WalletAccount) Credit(amount kernel.Money, now time.Time) error {
	if amount.IsZero() {
		return errs.NewValueIsRequiredError("amount")
	}
	w.balance = w.balance.Add(amount)
	w.updatedAt = now
	return nil
}

// Debit subtracts amount from the balance. An amount larger than the balance
// fails with ErrInsufficientBalance and leaves the balance unchanged.
func (w *WalletAccount) Debit(amount kernel.Money, now time.Time) error {
	if amount.IsZero() {
		return errs.NewValueIsRequiredError("amount")
	}
	rest, err := w.balance.Sub(amount)
	if err != nil {
		return fmt.Errorf("%w: balance %s, requested %s",
			errs.ErrInsufficientBalance, w.balance, amount)
	}
	w.balance = rest
	w.updatedAt = now
	return nil
}
