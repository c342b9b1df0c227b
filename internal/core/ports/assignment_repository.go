package ports

import (
	"context"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
)

// AssignmentRepository defines the persistence contract for assignment
// aggregates.
type AssignmentRepository interface {
	// Add persists a new assignment. Adding a second non-terminal
	// assignment for the same order fails with a ConflictError.
	Add(ctx context.Context, aggregate *assignment.Assignment) error

	// Update persists changes to an existing assignment.
	Update(ctx context.Context, aggregate *assignment.Assignment) error

	// UpdateGuarded persists changes only while the stored status still
	// equals prior, the per-assignment serialization point. A lost race
	// fails with a ConflictError.
	UpdateGuarded(ctx context.Context, aggregate *assignment.Assignment, prior assignment.Status) error

	// Get retrieves an assignment by its unique identifier.
	// Returns ObjectNotFoundError when no such assignment exists.
	Get(ctx context.Context, id kernel.UUID) (*assignment.Assignment, error)

	// GetActiveByOrder retrieves the order's single non-terminal
	// assignment. Returns ObjectNotFoundError when the order has none.
	GetActiveByOrder(ctx context.Context, orderID kernel.UUID) (*assignment.Assignment, error)

	// GetAllStale retrieves non-terminal assignments not touched for the
	// given number of seconds, oldest first. Used by the sweep job.
	GetAllStale(ctx context.Context, olderThanSeconds int) ([]*assignment.Assignment, error)
}
