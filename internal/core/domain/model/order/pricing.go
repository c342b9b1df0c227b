package order

import (
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrPriceBreakdownIsNotConstructed is returned when using an improperly
// initialized PriceBreakdown.
var ErrPriceBreakdownIsNotConstructed = errs.NewValueIsRequiredError(
	"price breakdown must be created via NewPriceBreakdown constructor")

// PriceBreakdown is the immutable fee decomposition pinned to an order at
// creation time. Every component is non-negative and the total always equals
// the sum of the components; the constructor enforces the identity so a
// breakdown can never drift from its parts.
type PriceBreakdown struct { //nolint:recvcheck //using for validation
	base      kernel.Money
	distance  kernel.Money
	size      kernel.Money
	urgency   kernel.Money
	insurance kernel.Money
	platform  kernel.Money
	total     kernel.Money

	guard guard.ConstructorGuard
}

// NewPriceBreakdown assembles a breakdown from its components and derives the
// total as their sum. Components are Money values and therefore already
// non-negative.
func NewPriceBreakdown(base, distance, size, urgency, insurance, platform kernel.Money) PriceBreakdown {
	total := base.Add(distance).Add(size).Add(urgency).Add(insurance).Add(platform)
	return PriceBreakdown{
		base:      base,
		distance:  distance,
		size:      size,
		urgency:   urgency,
		insurance: insurance,
		platform:  platform,
		total:     total,
		guard:     guard.NewConstructorGuard(),
	}
}

// RestorePriceBreakdown reconstructs a breakdown from persistence, verifying
// that the stored total still equals the sum of the stored components.
func RestorePriceBreakdown(base, distance, size, urgency, insurance, platform, total kernel.Money) (PriceBreakdown, error) {
	restored := NewPriceBreakdown(base, distance, size, urgency, insurance, platform)
	if !restored.total.IsEqual(total) {
		return PriceBreakdown{}, errs.NewValueIsInvalidErrorWithCause("total",
			fmt.Errorf("stored total %s does not equal component sum %s", total, restored.total))
	}
	return restored, nil
}

// Validate ensures the breakdown was created through a constructor.
func (b PriceBreakdown) Validate() error {
	return b.guard.Validate(ErrPriceBreakdownIsNotConstructed)
}

// Base returns the flat base fee.
func (b PriceBreakdown) Base() kernel.Money {
	return b.base
}

// Distance returns the distance-linear fee component.
func (b PriceBreakdown) Distance() kernel.Money {
	return b.distance
}

// Size returns the size-class fee component.
func (b PriceBreakdown) Size() kernel.Money {
	return b.size
}

// Urgency returns the urgency-tier fee component.
func (b PriceBreakdown) Urgency() kernel.Money {
	return b.urgency
}

// Insurance returns the declared-value insurance fee component; zero when the
// customer declared nothing.
func (b PriceBreakdown) Insurance() kernel.Money {
	return b.insurance
}

// Platform returns the platform commission component.
func (b PriceBreakdown) Platform() kernel.Money {
	return b.platform
}

// Total returns the sum of all components.
func (b PriceBreakdown) Total() kernel.Money {
	return b.total
}
