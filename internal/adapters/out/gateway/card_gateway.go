package gateway

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/payment"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// authCodeAlphabet matches what acquirer hosts send back: short uppercase
// alphanumeric approval codes.
const authCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

const authCodeLength = 6

type charge struct {
	gatewayRef string
	authCode   string
	status     payment.Status
	amountCent int64
}

// SimulatedCardGateway stands in for the external card processor in local
// runs and tests. It honors the same idempotency contract as the real one:
// the ledger reference is the idempotency key, so charging the same
// reference twice returns the original result without moving money again.
//
// Outcomes are deterministic per configuration. Charges above DeclineOver
// are declined, everything else is authorized immediately.
type SimulatedCardGateway struct {
	declineOver kernel.Money

	mu           sync.Mutex
	byReference  map[string]*charge
	byGatewayRef map[string]*charge
}

// NewSimulatedCardGateway creates a card processor simulator. declineOver
// is the largest amount the simulator authorizes; a zero Money disables
// declining entirely.
func NewSimulatedCardGateway(declineOver kernel.Money) *SimulatedCardGateway {
	return &SimulatedCardGateway{
		declineOver:  declineOver,
		byReference:  make(map[string]*charge),
		byGatewayRef: make(map[string]*charge),
	}
}

// Charge authorizes a card payment. A repeat of an already seen reference
// replays the stored outcome.
func (g *SimulatedCardGateway) Charge(
	_ context.Context, reference string, amount kernel.Money, method payment.Method,
) (ports.ChargeResult, error) {
	if err := payment.ValidateReference(reference); err != nil {
		return ports.ChargeResult{}, err
	}
	if method != payment.Card {
		return ports.ChargeResult{}, errs.NewValueIsInvalidErrorWithCause("method",
			fmt.Errorf("card gateway cannot settle %q payments", method))
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if existing, ok := g.byReference[reference]; ok {
		return g.resultOf(reference, existing)
	}

	c := &charge{
		gatewayRef: "sim-" + kernel.NewUUID().String(),
		amountCent: amount.Cents(),
	}
	if !g.declineOver.IsZero() && amount.Cents() > g.declineOver.Cents() {
		c.status = payment.Failed
	} else {
		c.status = payment.Completed
		c.authCode = newAuthCode()
	}

	g.byReference[reference] = c
	g.byGatewayRef[c.gatewayRef] = c
	return g.resultOf(reference, c)
}

// Refund reverses a completed charge. Refunding the same charge twice is a
// no-op, matching acquirer behavior for replayed reversal requests.
func (g *SimulatedCardGateway) Refund(_ context.Context, gatewayRef string, amount kernel.Money) error {
	if gatewayRef == "" {
		return errs.NewValueIsRequiredError("gatewayRef")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	c, ok := g.byGatewayRef[gatewayRef]
	if !ok {
		return errs.NewObjectNotFoundError("gatewayRef", gatewayRef)
	}
	if c.status == payment.Refunded {
		return nil
	}
	if c.status != payment.Completed {
		return errs.NewPaymentFailedError(gatewayRef,
			fmt.Errorf("cannot refund a charge in status %q", c.status))
	}
	if amount.Cents() > c.amountCent {
		return errs.NewValueIsOutOfRangeError("amount", amount.Cents(), 0, c.amountCent)
	}

	c.status = payment.Refunded
	return nil
}

// Poll reports the current status of a charge, used by the reconciliation
// job when no callback arrived.
func (g *SimulatedCardGateway) Poll(_ context.Context, gatewayRef string) (payment.Status, string, error) {
	if gatewayRef == "" {
		return payment.StatusUnknown, "", errs.NewValueIsRequiredError("gatewayRef")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	c, ok := g.byGatewayRef[gatewayRef]
	if !ok {
		return payment.StatusUnknown, "", errs.NewObjectNotFoundError("gatewayRef", gatewayRef)
	}
	return c.status, c.authCode, nil
}

func (g *SimulatedCardGateway) resultOf(reference string, c *charge) (ports.ChargeResult, error) {
	if c.status == payment.Failed {
		return ports.ChargeResult{}, errs.NewPaymentFailedError(reference,
			errors.New("card declined by issuer"))
	}
	return ports.ChargeResult{GatewayRef: c.gatewayRef, AuthCode: c.authCode}, nil
}

func newAuthCode() string {
	code := make([]byte, authCodeLength)
	for i := range code {
		code[i] = authCodeAlphabet[rand.IntN(len(authCodeAlphabet))] //nolint:gosec // not a secret
	}
	return string(code)
}
