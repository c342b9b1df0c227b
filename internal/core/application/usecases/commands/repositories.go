// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS
// architecture. All commands follow a consistent pattern: validation,
// transaction management, and persistence.
package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command
// handlers. Each handler depends on the narrowest combination of
// repositories it actually writes.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a
	// transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// AssignmentRepoFactory provides access to the assignment repository
	// within a transaction.
	AssignmentRepoFactory interface {
		AssignmentRepository() ports.AssignmentRepository
	}

	// TransactionRepoFactory provides access to the ledger repository
	// within a transaction.
	TransactionRepoFactory interface {
		TransactionRepository() ports.TransactionRepository
	}

	// WalletRepoFactory provides access to the wallet repository within a
	// transaction.
	WalletRepoFactory interface {
		WalletRepository() ports.WalletRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// DispatchUoW manages transactions coupling an order with its
	// assignment, so both state machines move together or not at all.
	DispatchUoW interface {
		TxManager
		OrderRepoFactory
		AssignmentRepoFactory
	}

	// DispatchUoWFactory creates new dispatch unit of work instances.
	DispatchUoWFactory interface {
		Create() DispatchUoW
	}

	// LedgerUoW manages transactions coupling ledger entries with wallet
	// balances, so a balance change never commits without its entry.
	LedgerUoW interface {
		TxManager
		TransactionRepoFactory
		WalletRepoFactory
	}

	// LedgerUoWFactory creates new ledger unit of work instances.
	LedgerUoWFactory interface {
		Create() LedgerUoW
	}

	// SettlementUoW spans all four repositories for operations that move
	// the state machines and settle money in one transaction.
	SettlementUoW interface {
		TxManager
		OrderRepoFactory
		AssignmentRepoFactory
		TransactionRepoFactory
		WalletRepoFactory
	}

	// SettlementUoWFactory creates new settlement unit of work instances.
	SettlementUoWFactory interface {
		Create() SettlementUoW
	}
)
