// Package ports defines the contracts between the application core and its
// adapters: persistence repositories with a unit of work, and the outbound
// collaborators (courier directory, payment gateway, geocoder, notifier,
// analytics sink).
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// UpdateGuarded persists changes only while the stored status still
	// equals prior. A concurrent status change makes the update match zero
	// rows and fail with a ConflictError, never overwrite. This is the
	// per-order serialization point for racing transition requests.
	UpdateGuarded(ctx context.Context, aggregate *order.Order, prior order.Status) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns ObjectNotFoundError when no such order exists.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByTrackCode retrieves an order by its customer-facing track code.
	GetByTrackCode(ctx context.Context, trackCode string) (*order.Order, error)

	// GetAllActive retrieves every order not yet in a terminal status,
	// oldest first.
	GetAllActive(ctx context.Context) ([]*order.Order, error)
}
