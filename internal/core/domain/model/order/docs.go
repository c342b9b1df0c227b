// Package order provides domain entities and business logic for delivery order
// management. It implements the Order aggregate root with lifecycle management,
// an append-only timeline, and a pinned pricing breakdown.
//
// The package includes:
//   - Order: The aggregate root that manages order identity, package, pricing, and lifecycle
//   - Status: A state machine that enforces valid order status transitions
//   - Package: The package descriptor (size class, weight, declared value, category)
//   - PriceBreakdown: The fee breakdown computed once at creation
//   - TimelineEntry: One append-only lifecycle log record
//
// Key business rules:
//   - Status follows pending -> assigned -> picked_up -> in_transit -> delivered,
//     with cancelled and failed reachable as terminal states from every
//     non-terminal status
//   - Every transition appends a timeline entry; the timeline is never rewritten
//   - pickedUpAt and deliveredAt are stamped exactly once
//   - The pricing breakdown is never recomputed after creation
//   - Orders are never hard-deleted; cancellation is a terminal status
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
