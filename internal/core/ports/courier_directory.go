package ports

import (
	"context"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// CourierDirectory is the dispatch engine's view of the courier pool.
//
// The availability flag is the one shared mutable resource contended by
// concurrent assignment attempts, so Claim must be an atomic check-and-set:
// of two racing claims on the same courier exactly one returns true.
type CourierDirectory interface {
	// FindAvailableNearby returns snapshots of available couriers within
	// radiusKm of the point. The snapshot is advisory; availability may be
	// gone by the time the caller claims.
	FindAvailableNearby(ctx context.Context, point kernel.GeoPoint, radiusKm float64) ([]courier.Summary, error)

	// Claim atomically flips the courier from available to busy. Returns
	// false without error when someone else already holds the courier;
	// the caller then moves on to its next candidate.
	Claim(ctx context.Context, courierID kernel.UUID) (bool, error)

	// Release flips the courier back to available. Idempotent: releasing
	// an already available courier is a no-op. Must be called on every
	// path out of an engagement, including error paths.
	Release(ctx context.Context, courierID kernel.UUID) error

	// RecordOutcome updates the courier's delivery counters after a
	// terminal assignment: total always increments, completed only on a
	// finished delivery.
	RecordOutcome(ctx context.Context, courierID kernel.UUID, completed bool) error
}
