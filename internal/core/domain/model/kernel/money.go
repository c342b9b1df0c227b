package kernel

import (
	"fmt"
	"math"

	"dispatch/internal/pkg/errs"
)

// Money represents a non-negative monetary amount carried in integer minor
// units (cents). Using integers keeps fee arithmetic exact; the only rounding
// point in the system is percentage application, which rounds half up.
//
// The zero value is a valid amount of zero. Money is immutable; arithmetic
// methods return new values.
type Money struct {
	cents int64
}

// NewMoneyFromCents creates a Money amount from integer minor units.
// Negative amounts are rejected: the ledger models direction with payer and
// payee identities, never with signed amounts.
func NewMoneyFromCents(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%d cents is negative", cents))
	}
	return Money{cents: cents}, nil
}

// MustMoneyFromCents creates a Money amount and panics on a negative input.
// Intended for policy constants and tests.
func MustMoneyFromCents(cents int64) Money {
	m, err := NewMoneyFromCents(cents)
	if err != nil {
		panic(err)
	}
	return m
}

// Cents returns the amount in integer minor units.
func (m Money) Cents() int64 {
	return m.cents
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.cents == 0
}

// IsEqual compares two amounts.
func (m Money) IsEqual(other Money) bool {
	return m.cents == other.cents
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// Sub returns the difference of two amounts.
// Returns an error when the result would be negative.
func (m Money) Sub(other Money) (Money, error) {
	if other.cents > m.cents {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("subtracting %d cents from %d cents is negative", other.cents, m.cents))
	}
	return Money{cents: m.cents - other.cents}, nil
}

// MulFloat multiplies the amount by a non-negative factor, rounding half up.
// Used for distance-linear fees and size/urgency multipliers.
func (m Money) MulFloat(factor float64) (Money, error) {
	if math.IsNaN(factor) || factor < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("factor",
			fmt.Errorf("%f is not a valid multiplier", factor))
	}
	return Money{cents: int64(math.Floor(float64(m.cents)*factor + 0.5))}, nil
}

// Percent returns the given percentage of the amount, rounding half up.
func (m Money) Percent(pct float64) (Money, error) {
	return m.MulFloat(pct / 100)
}

// String formats the amount in major units with two decimals, e.g. "4622.50".
// This method implements the fmt.Stringer interface.
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.cents/100, m.cents%100)
}
