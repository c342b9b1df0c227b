package gateway_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/adapters/out/gateway"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/payment"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// flakyGateway fails its first failures calls with the scripted error, then
// succeeds.
type flakyGateway struct {
	failures int
	err      error
	calls    int
}

func (f *flakyGateway) Charge(
	_ context.Context, _ string, _ kernel.Money, _ payment.Method,
) (ports.ChargeResult, error) {
	f.calls++
	if f.calls <= f.failures {
		return ports.ChargeResult{}, f.err
	}
	return ports.ChargeResult{GatewayRef: "gw-1", AuthCode: "AUTH01"}, nil
}

func (f *flakyGateway) Refund(_ context.Context, _ string, _ kernel.Money) error {
	f.calls++
	if f.calls <= f.failures {
		return f.err
	}
	return nil
}

func (f *flakyGateway) Poll(_ context.Context, _ string) (payment.Status, string, error) {
	f.calls++
	if f.calls <= f.failures {
		return payment.StatusUnknown, "", f.err
	}
	return payment.Completed, "AUTH01", nil
}

type countingCounter struct{ n int }

func (c *countingCounter) Inc() { c.n++ }

func fastRetryConfig() gateway.RetryConfig {
	return gateway.RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    2 * time.Millisecond,
	}
}

func TestRetryingGateway_RetriesTimeouts(t *testing.T) {
	flaky := &flakyGateway{
		failures: 2,
		err:      errs.NewDownstreamTimeoutError("charge", errors.New("connection reset")),
	}
	retries := &countingCounter{}
	g := gateway.NewRetryingGateway(flaky, slog.Default(), retries, fastRetryConfig())

	result, err := g.Charge(context.Background(),
		payment.NewReference(payment.OrderPayment, time.Now()),
		kernel.MustMoneyFromCents(462250), payment.Card)
	require.NoError(t, err)

	assert.Equal(t, "gw-1", result.GatewayRef)
	assert.Equal(t, 3, flaky.calls)
	assert.Equal(t, 2, retries.n)
}

func TestRetryingGateway_GivesUpAfterMaxAttempts(t *testing.T) {
	flaky := &flakyGateway{
		failures: 10,
		err:      errs.NewDownstreamTimeoutError("poll", errors.New("connection reset")),
	}
	g := gateway.NewRetryingGateway(flaky, slog.Default(), nil, fastRetryConfig())

	_, _, err := g.Poll(context.Background(), "gw-1")
	require.ErrorIs(t, err, errs.ErrDownstreamTimeout)
	assert.Equal(t, 3, flaky.calls)
}

func TestRetryingGateway_DoesNotRetryDeclines(t *testing.T) {
	flaky := &flakyGateway{
		failures: 10,
		err:      errs.NewPaymentFailedError("PAY-1", errors.New("card declined")),
	}
	g := gateway.NewRetryingGateway(flaky, slog.Default(), nil, fastRetryConfig())

	_, err := g.Charge(context.Background(),
		payment.NewReference(payment.OrderPayment, time.Now()),
		kernel.MustMoneyFromCents(100), payment.Card)
	require.ErrorIs(t, err, errs.ErrPaymentFailed)
	assert.Equal(t, 1, flaky.calls, "a business rejection is never retried")
}

func TestRetryingGateway_StopsOnCancelledContext(t *testing.T) {
	flaky := &flakyGateway{
		failures: 10,
		err:      errs.NewDownstreamTimeoutError("refund", errors.New("connection reset")),
	}
	g := gateway.NewRetryingGateway(flaky, slog.Default(), nil, fastRetryConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := g.Refund(ctx, "gw-1", kernel.MustMoneyFromCents(100))
	require.ErrorIs(t, err, errs.ErrDownstreamTimeout)
	assert.Equal(t, 1, flaky.calls)
}
