package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/payment"
	"dispatch/internal/pkg/errs"
)

// GetTransactionByReferenceQueryHandler serves ledger lookups straight from
// the transactions table.
type GetTransactionByReferenceQueryHandler struct {
	db *gorm.DB
}

// NewGetTransactionByReferenceQueryHandler creates a handler for ledger
// lookups.
func NewGetTransactionByReferenceQueryHandler(db *gorm.DB) GetTransactionByReferenceQueryHandler {
	return GetTransactionByReferenceQueryHandler{db: db}
}

// Handle executes the lookup. Returns ObjectNotFoundError for an unknown
// reference.
func (h GetTransactionByReferenceQueryHandler) Handle(
	ctx context.Context,
	query GetTransactionByReferenceQuery,
) (GetTransactionByReferenceQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetTransactionByReferenceQueryResponse{}, err
	}

	var row struct {
		ID               uuid.UUID
		Reference        string
		OrderID          *uuid.UUID
		Type             int
		Method           int
		Status           int
		AmountCents      int64
		PlatformFeeCents int64
		InitiatedAt      time.Time
		DecidedAt        *time.Time
	}

	err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			reference,
			order_id,
			type,
			method,
			status,
			amount_cents,
			platform_fee_cents,
			initiated_at,
			decided_at
		FROM transactions
		WHERE reference = ?
	`, query.Reference()).Scan(&row).Error
	if err != nil {
		return GetTransactionByReferenceQueryResponse{}, err
	}
	if row.Reference == "" {
		return GetTransactionByReferenceQueryResponse{},
			errs.NewObjectNotFoundError("transaction", query.Reference())
	}

	id, err := kernel.UUIDFromBytes(row.ID[:])
	if err != nil {
		return GetTransactionByReferenceQueryResponse{}, err
	}

	var orderID *kernel.UUID
	if row.OrderID != nil {
		oID, oErr := kernel.UUIDFromBytes((*row.OrderID)[:])
		if oErr != nil {
			return GetTransactionByReferenceQueryResponse{}, oErr
		}
		orderID = &oID
	}

	return GetTransactionByReferenceQueryResponse{
		ID:               id,
		Reference:        row.Reference,
		OrderID:          orderID,
		Type:             payment.Type(row.Type).String(),
		Method:           payment.Method(row.Method).String(),
		Status:           payment.Status(row.Status).String(),
		AmountCents:      row.AmountCents,
		PlatformFeeCents: row.PlatformFeeCents,
		InitiatedAt:      row.InitiatedAt,
		DecidedAt:        row.DecidedAt,
	}, nil
}
