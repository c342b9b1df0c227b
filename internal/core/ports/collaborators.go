package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/payment"
)

// Notifier delivers a human-readable message to a user. Sends are
// fire-and-forget from the orchestrator's point of view; a failed send is
// logged, never propagated into a command result.
type Notifier interface {
	Notify(ctx context.Context, userID kernel.UUID, title, message string) error
}

// Geocoder resolves postal addresses into coordinates and estimates routes.
// An unreachable backend surfaces as a DownstreamTimeoutError so the caller
// can retry safely.
type Geocoder interface {
	// Resolve turns a postal address into coordinates.
	Resolve(ctx context.Context, address string) (kernel.GeoPoint, error)

	// Route estimates the travel distance and duration between two points.
	Route(ctx context.Context, from, to kernel.GeoPoint) (distanceKm, durationMin float64, err error)
}

// AnalyticsSink records a domain event for downstream analysis. Record never
// blocks the calling command and its errors are swallowed after logging.
type AnalyticsSink interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

// ChargeResult carries the gateway's correlation data for a charge.
type ChargeResult struct {
	GatewayRef string
	AuthCode   string
}

// PaymentGateway is the external card processor. The reference doubles as
// the idempotency key: charging the same reference twice must not move money
// twice.
type PaymentGateway interface {
	// Charge submits a payment for processing.
	// A gateway rejection surfaces as a PaymentFailedError; an unreachable
	// gateway as a DownstreamTimeoutError.
	Charge(ctx context.Context, reference string, amount kernel.Money, method payment.Method) (ChargeResult, error)

	// Refund reverses a previously completed charge.
	Refund(ctx context.Context, gatewayRef string, amount kernel.Money) error

	// Poll fetches the gateway's current status for a charge, used by the
	// reconciliation job when no callback arrived.
	Poll(ctx context.Context, gatewayRef string) (payment.Status, string, error)
}
