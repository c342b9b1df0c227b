package gateway_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/adapters/out/gateway"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/payment"
	"dispatch/internal/pkg/errs"
)

func TestSimulatedCardGateway_ChargeIsIdempotent(t *testing.T) {
	g := gateway.NewSimulatedCardGateway(kernel.Money{})
	ctx := context.Background()
	reference := payment.NewReference(payment.OrderPayment, time.Now())
	amount := kernel.MustMoneyFromCents(462250)

	first, err := g.Charge(ctx, reference, amount, payment.Card)
	require.NoError(t, err)
	require.NotEmpty(t, first.GatewayRef)
	require.NotEmpty(t, first.AuthCode)

	second, err := g.Charge(ctx, reference, amount, payment.Card)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same reference must replay the same outcome")
}

func TestSimulatedCardGateway_DeclinesAboveThreshold(t *testing.T) {
	g := gateway.NewSimulatedCardGateway(kernel.MustMoneyFromCents(100000))
	ctx := context.Background()
	reference := payment.NewReference(payment.OrderPayment, time.Now())

	_, err := g.Charge(ctx, reference, kernel.MustMoneyFromCents(100001), payment.Card)
	require.ErrorIs(t, err, errs.ErrPaymentFailed)

	// A replay of a declined reference is declined again, not re-attempted.
	_, err = g.Charge(ctx, reference, kernel.MustMoneyFromCents(100001), payment.Card)
	require.ErrorIs(t, err, errs.ErrPaymentFailed)
}

func TestSimulatedCardGateway_RejectsNonCardMethods(t *testing.T) {
	g := gateway.NewSimulatedCardGateway(kernel.Money{})
	reference := payment.NewReference(payment.OrderPayment, time.Now())

	_, err := g.Charge(context.Background(), reference, kernel.MustMoneyFromCents(100), payment.Cash)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestSimulatedCardGateway_RefundAndPoll(t *testing.T) {
	g := gateway.NewSimulatedCardGateway(kernel.Money{})
	ctx := context.Background()
	reference := payment.NewReference(payment.OrderPayment, time.Now())
	amount := kernel.MustMoneyFromCents(462250)

	result, err := g.Charge(ctx, reference, amount, payment.Card)
	require.NoError(t, err)

	status, authCode, err := g.Poll(ctx, result.GatewayRef)
	require.NoError(t, err)
	assert.Equal(t, payment.Completed, status)
	assert.Equal(t, result.AuthCode, authCode)

	require.NoError(t, g.Refund(ctx, result.GatewayRef, amount))
	require.NoError(t, g.Refund(ctx, result.GatewayRef, amount), "replayed refund is a no-op")

	status, _, err = g.Poll(ctx, result.GatewayRef)
	require.NoError(t, err)
	assert.Equal(t, payment.Refunded, status)
}

func TestSimulatedCardGateway_RefundUnknownCharge(t *testing.T) {
	g := gateway.NewSimulatedCardGateway(kernel.Money{})

	err := g.Refund(context.Background(), "sim-missing", kernel.MustMoneyFromCents(100))
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}
