package gateway

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/payment"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// counter is the slice of a prometheus counter the decorator needs.
type counter interface {
	Inc()
}

// RetryConfig bounds the retry loop of RetryingGateway.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryConfig is the retry policy used when the caller does not
// override it: three attempts with exponential backoff capped at a second.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    time.Second,
	}
}

// RetryingGateway decorates a PaymentGateway with capped exponential
// backoff on downstream timeouts. Retrying a Charge is safe because the
// ledger reference is the gateway's idempotency key; a replayed charge
// returns the original outcome instead of moving money twice.
//
// Business rejections are never retried: a declined card stays declined.
type RetryingGateway struct {
	next    ports.PaymentGateway
	log     *slog.Logger
	retries counter
	cfg     RetryConfig
}

// NewRetryingGateway wraps next with the retry policy. retries may be nil
// when no metric is wired.
func NewRetryingGateway(next ports.PaymentGateway, log *slog.Logger, retries counter, cfg RetryConfig) *RetryingGateway {
	return &RetryingGateway{
		next:    next,
		log:     log.With("component", "retrying_gateway"),
		retries: retries,
		cfg:     cfg,
	}
}

// Charge submits a payment, retrying on downstream timeouts.
func (g *RetryingGateway) Charge(
	ctx context.Context, reference string, amount kernel.Money, method payment.Method,
) (ports.ChargeResult, error) {
	var result ports.ChargeResult
	err := g.withRetries(ctx, "Charge", func() error {
		var chargeErr error
		result, chargeErr = g.next.Charge(ctx, reference, amount, method)
		return chargeErr
	})
	if err != nil {
		return ports.ChargeResult{}, err
	}
	return result, nil
}

// Refund reverses a charge, retrying on downstream timeouts.
func (g *RetryingGateway) Refund(ctx context.Context, gatewayRef string, amount kernel.Money) error {
	return g.withRetries(ctx, "Refund", func() error {
		return g.next.Refund(ctx, gatewayRef, amount)
	})
}

// Poll fetches the current status of a charge, retrying on downstream
// timeouts.
func (g *RetryingGateway) Poll(ctx context.Context, gatewayRef string) (payment.Status, string, error) {
	var (
		status   payment.Status
		authCode string
	)
	err := g.withRetries(ctx, "Poll", func() error {
		var pollErr error
		status, authCode, pollErr = g.next.Poll(ctx, gatewayRef)
		return pollErr
	})
	if err != nil {
		return payment.StatusUnknown, "", err
	}
	return status, authCode, nil
}

func (g *RetryingGateway) withRetries(ctx context.Context, method string, call func() error) error {
	var lastErr error
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		err := call()
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil || attempt == g.cfg.MaxAttempts || !errors.Is(err, errs.ErrDownstreamTimeout) {
			break
		}

		delay := backoff(g.cfg.BaseDelay, g.cfg.MaxDelay, attempt)
		if g.retries != nil {
			g.retries.Inc()
		}
		g.log.WarnContext(ctx, "payment gateway retry",
			"method", method,
			"attempt", attempt,
			"delay", delay,
			"error", err)

		if !sleepWithContext(ctx, delay) {
			break
		}
	}
	return lastErr
}

func backoff(base, maxDelay time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > maxDelay {
		return maxDelay
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
