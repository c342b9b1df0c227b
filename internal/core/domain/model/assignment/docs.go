// Package assignment provides the Assignment aggregate: one courier's
// engagement with one order for its duration.
//
// The package includes:
//   - Assignment: The aggregate root tracking the engagement lifecycle,
//     agreed amount, route estimate, and per-status timestamps
//   - Status: A state machine for the engagement lifecycle
//
// Key business rules:
//   - Status follows assigned -> accepted -> in_progress -> completed, with
//     declined terminal from assigned, and cancelled/failed terminal from
//     accepted and in_progress
//   - Each lifecycle timestamp is set at most once
//   - Completing an assignment records the actual duration as the span from
//     startedAt to completedAt
//   - A terminal assignment is immutable
//
// Every assignment status maps onto an order status effect; the orchestrator
// applies both sides inside one transaction so the two state machines never
// diverge.
package assignment
