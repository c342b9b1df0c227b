package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/payment"
	"dispatch/internal/pkg/guard"
)

var ErrGetTransactionByReferenceQueryIsNotConstructed = errors.New(
	"GetTransactionByReferenceQuery must be created via NewGetTransactionByReferenceQuery constructor",
)

// GetTransactionByReferenceQuery retrieves one ledger entry by its
// idempotency reference, the handle callers hold after initiating a payment.
type GetTransactionByReferenceQuery struct {
	reference string

	guard guard.ConstructorGuard
}

// NewGetTransactionByReferenceQuery creates a ledger lookup for the given
// reference. The reference format is validated here, before any I/O.
func NewGetTransactionByReferenceQuery(reference string) (GetTransactionByReferenceQuery, error) {
	if err := payment.ValidateReference(reference); err != nil {
		return GetTransactionByReferenceQuery{}, err
	}

	return GetTransactionByReferenceQuery{
		reference: reference,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetTransactionByReferenceQuery) Validate() error {
	return q.guard.Validate(ErrGetTransactionByReferenceQueryIsNotConstructed)
}

// Reference returns the ledger reference to look up.
func (q GetTransactionByReferenceQuery) Reference() string {
	return q.reference
}

// GetTransactionByReferenceQueryResponse is the caller's view of a ledger
// entry.
type GetTransactionByReferenceQueryResponse struct {
	ID               kernel.UUID
	Reference        string
	OrderID          *kernel.UUID
	Type             string
	Method           string
	Status           string
	AmountCents      int64
	PlatformFeeCents int64
	InitiatedAt      time.Time
	DecidedAt        *time.Time
}
