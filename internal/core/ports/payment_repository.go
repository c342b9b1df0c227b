package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/payment"
)

// TransactionRepository defines the persistence contract for ledger entries.
type TransactionRepository interface {
	// Add persists a new ledger entry. A duplicate reference fails with a
	// ConflictError; the ledger never merges entries silently.
	Add(ctx context.Context, aggregate *payment.Transaction) error

	// Update persists changes to an existing ledger entry.
	Update(ctx context.Context, aggregate *payment.Transaction) error

	// Get retrieves a ledger entry by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*payment.Transaction, error)

	// GetByReference retrieves a ledger entry by its idempotency reference.
	// Returns ObjectNotFoundError when no such entry exists.
	GetByReference(ctx context.Context, reference string) (*payment.Transaction, error)

	// GetAllUndecided retrieves entries still pending or processing,
	// oldest first. Used by the reconciliation job.
	GetAllUndecided(ctx context.Context) ([]*payment.Transaction, error)

	// GetByOrder retrieves every ledger entry bound to the order, oldest
	// first. Callers filter by type and status, e.g. to find the payment a
	// cancellation has to refund.
	GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*payment.Transaction, error)
}

// WalletRepository defines the persistence contract for wallet accounts.
// Balance changes commit only inside the same unit of work as the ledger
// entry explaining them.
type WalletRepository interface {
	// Add persists a new wallet account.
	Add(ctx context.Context, aggregate *payment.WalletAccount) error

	// Update persists a balance change.
	Update(ctx context.Context, aggregate *payment.WalletAccount) error

	// GetByOwner retrieves the owner's wallet.
	// Returns ObjectNotFoundError when the owner has no wallet yet.
	GetByOwner(ctx context.Context, ownerID kernel.UUID) (*payment.WalletAccount, error)
}
