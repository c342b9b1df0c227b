package services

import (
	"errors"
	"fmt"
	"math"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// PricingPolicy carries the tariff constants the pricing engine works from.
// It is injected at composition time so tariffs can change without touching
// the calculation.
type PricingPolicy struct {
	// BaseFee is the flat fee every order starts from.
	BaseFee kernel.Money
	// PerKmFee is the linear distance fee per kilometer.
	PerKmFee kernel.Money
	// SizeMultipliers maps each size class to its base fee multiplier.
	SizeMultipliers map[order.SizeClass]float64
	// UrgencyMultipliers maps each urgency tier to its base fee multiplier.
	UrgencyMultipliers map[order.Urgency]float64
	// InsurancePct is the insurance fee as a percentage of declared value.
	InsurancePct float64
	// PlatformPct is the marketplace cut as a percentage of the sum of all
	// preceding fees.
	PlatformPct float64
}

// DefaultPricingPolicy returns the standard marketplace tariff.
func DefaultPricingPolicy() PricingPolicy {
	return PricingPolicy{
		BaseFee:  kernel.MustMoneyFromCents(50000),
		PerKmFee: kernel.MustMoneyFromCents(15000),
		SizeMultipliers: map[order.SizeClass]float64{
			order.SizeSmall:      1.0,
			order.SizeMedium:     1.3,
			order.SizeLarge:      1.7,
			order.SizeExtraLarge: 2.2,
		},
		UrgencyMultipliers: map[order.Urgency]float64{
			order.UrgencyStandard: 1.0,
			order.UrgencyExpress:  1.5,
			order.UrgencyUrgent:   2.0,
		},
		InsurancePct: 2.0,
		PlatformPct:  15.0,
	}
}

// Validate checks that the policy covers every size class and urgency tier.
func (p PricingPolicy) Validate() error {
	for _, size := range []order.SizeClass{
		order.SizeSmall, order.SizeMedium, order.SizeLarge, order.SizeExtraLarge,
	} {
		if _, ok := p.SizeMultipliers[size]; !ok {
			return errs.NewValueIsRequiredError(fmt.Sprintf("sizeMultipliers[%s]", size))
		}
	}
	for _, urgency := range []order.Urgency{
		order.UrgencyStandard, order.UrgencyExpress, order.UrgencyUrgent,
	} {
		if _, ok := p.UrgencyMultipliers[urgency]; !ok {
			return errs.NewValueIsRequiredError(fmt.Sprintf("urgencyMultipliers[%s]", urgency))
		}
	}
	if p.InsurancePct < 0 || p.PlatformPct < 0 {
		return errs.NewValueIsInvalidError("percentages")
	}
	return nil
}

// PricingEngine is a pure domain service computing a delivery price from the
// route distance, the package, and the urgency tier.
//
// The calculation is deterministic: the same inputs always produce the same
// breakdown. All amounts are integer cents; the only rounding points are the
// multiplier and percentage applications, which round half up.
type PricingEngine struct {
	policy PricingPolicy
}

// NewPricingEngine creates a PricingEngine with the given tariff.
func NewPricingEngine(policy PricingPolicy) (PricingEngine, error) {
	if err := policy.Validate(); err != nil {
		return PricingEngine{}, err
	}
	return PricingEngine{policy: policy}, nil
}

// Price computes the full breakdown for one order:
//
//	base      = policy base fee
//	distance  = per-km fee × distance
//	size      = base fee × size multiplier
//	urgency   = base fee × urgency multiplier
//	insurance = insurance % of declared value (zero when undeclared)
//	platform  = platform % of the sum of all preceding fees
//	total     = sum of everything above
func (e PricingEngine) Price(distanceKm float64, pkg order.Package, urgency order.Urgency) (order.PriceBreakdown, error) {
	if math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) || distanceKm < 0 {
		return order.PriceBreakdown{}, errs.NewValueIsInvalidErrorWithCause("distanceKm",
			fmt.Errorf("%f km is not a valid distance", distanceKm))
	}
	if err := errors.Join(pkg.Validate(), urgency.Validate()); err != nil {
		return order.PriceBreakdown{}, err
	}

	base := e.policy.BaseFee

	distance, err := e.policy.PerKmFee.MulFloat(distanceKm)
	if err != nil {
		return order.PriceBreakdown{}, err
	}

	size, err := base.MulFloat(e.policy.SizeMultipliers[pkg.SizeClass()])
	if err != nil {
		return order.PriceBreakdown{}, err
	}

	urgencyFee, err := base.MulFloat(e.policy.UrgencyMultipliers[urgency])
	if err != nil {
		return order.PriceBreakdown{}, err
	}

	insurance := kernel.Money{}
	if !pkg.DeclaredValue().IsZero() {
		insurance, err = pkg.DeclaredValue().Percent(e.policy.InsurancePct)
		if err != nil {
			return order.PriceBreakdown{}, err
		}
	}

	subtotal := base.Add(distance).Add(size).Add(urgencyFee).Add(insurance)
	platform, err := subtotal.Percent(e.policy.PlatformPct)
	if err != nil {
		return order.PriceBreakdown{}, err
	}

	return order.NewPriceBreakdown(base, distance, size, urgencyFee, insurance, platform), nil
}

// CourierShare splits an order total into the courier payout and the platform
// fee already carried in the breakdown. The two always sum to the total.
func (e PricingEngine) CourierShare(price order.PriceBreakdown) (payout, fee kernel.Money, err error) {
	fee = price.Platform()
	payout, err = price.Total().Sub(fee)
	if err != nil {
		return kernel.Money{}, kernel.Money{}, err
	}
	return payout, fee, nil
}
