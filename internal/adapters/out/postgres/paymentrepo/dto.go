// Package paymentrepo persists the payment ledger and wallet accounts with
// GORM. Ledger entries are append-mostly; the unique reference index is what
// makes initiation idempotent at the storage level.
package paymentrepo

import (
	"time"

	"github.com/google/uuid"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/payment"
)

// TransactionDTO represents the database structure for ledger entries.
type TransactionDTO struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Reference        string     `gorm:"type:varchar(32);uniqueIndex"`
	OrderID          *uuid.UUID `gorm:"type:uuid;index"`
	PayerID          uuid.UUID  `gorm:"type:uuid;index"`
	PayeeID          uuid.UUID  `gorm:"type:uuid;index"`
	Type             int
	Method           int
	Status           int   `gorm:"index"`
	AmountCents      int64 `gorm:"type:bigint"`
	PlatformFeeCents int64 `gorm:"type:bigint"`
	GatewayRef       string
	AuthCode         string
	InitiatedAt      time.Time
	DecidedAt        *time.Time
}

// TableName specifies the database table name for ledger entries.
func (TransactionDTO) TableName() string {
	return "transactions"
}

// WalletDTO represents the database structure for wallet accounts.
type WalletDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID      uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	BalanceCents int64     `gorm:"type:bigint"`
	UpdatedAt    time.Time
}

// TableName specifies the database table name for wallet accounts.
func (WalletDTO) TableName() string {
	return "wallets"
}

func transactionFromDomain(aggregate *payment.Transaction) TransactionDTO {
	var orderID *uuid.UUID
	if id := aggregate.OrderID(); id != nil {
		raw := id.Bytes()
		orderID = &raw
	}

	return TransactionDTO{
		ID:               aggregate.ID().Bytes(),
		Reference:        aggregate.Reference(),
		OrderID:          orderID,
		PayerID:          aggregate.PayerID().Bytes(),
		PayeeID:          aggregate.PayeeID().Bytes(),
		Type:             int(aggregate.Type()),
		Method:           int(aggregate.Method()),
		Status:           int(aggregate.Status()),
		AmountCents:      aggregate.Amount().Cents(),
		PlatformFeeCents: aggregate.PlatformFee().Cents(),
		GatewayRef:       aggregate.GatewayRef(),
		AuthCode:         aggregate.AuthCode(),
		InitiatedAt:      aggregate.InitiatedAt(),
		DecidedAt:        aggregate.DecidedAt(),
	}
}

func transactionToDomain(dto TransactionDTO) (*payment.Transaction, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	payerID, err := kernel.UUIDFromBytes(dto.PayerID[:])
	if err != nil {
		return nil, err
	}
	payeeID, err := kernel.UUIDFromBytes(dto.PayeeID[:])
	if err != nil {
		return nil, err
	}

	var orderID *kernel.UUID
	if dto.OrderID != nil {
		oID, orderErr := kernel.UUIDFromBytes((*dto.OrderID)[:])
		if orderErr != nil {
			return nil, orderErr
		}
		orderID = &oID
	}

	amount, err := kernel.NewMoneyFromCents(dto.AmountCents)
	if err != nil {
		return nil, err
	}
	platformFee, err := kernel.NewMoneyFromCents(dto.PlatformFeeCents)
	if err != nil {
		return nil, err
	}

	return payment.RestoreTransaction(
		id,
		dto.Reference,
		orderID,
		payerID, payeeID,
		payment.Type(dto.Type),
		payment.Method(dto.Method),
		payment.Status(dto.Status),
		amount, platformFee,
		dto.GatewayRef, dto.AuthCode,
		dto.InitiatedAt,
		dto.DecidedAt,
	)
}

func walletFromDomain(aggregate *payment.WalletAccount) WalletDTO {
	return WalletDTO{
		ID:           aggregate.ID().Bytes(),
		OwnerID:      aggregate.OwnerID().Bytes(),
		BalanceCents: aggregate.Balance().Cents(),
		UpdatedAt:    aggregate.UpdatedAt(),
	}
}

func walletToDomain(dto WalletDTO) (*payment.WalletAccount, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	ownerID, err := kernel.UUIDFromBytes(dto.OwnerID[:])
	if err != nil {
		return nil, err
	}
	balance, err := kernel.NewMoneyFromCents(dto.BalanceCents)
	if err != nil {
		return nil, err
	}

	return payment.RestoreWalletAccount(id, ownerID, balance, dto.UpdatedAt)
}
