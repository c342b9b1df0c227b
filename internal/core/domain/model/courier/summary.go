package courier

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// maxRating is the upper bound of the courier rating scale.
const maxRating = 5.0

// ErrSummaryIsNotConstructed is returned when a Summary was not created via
// NewSummary.
var ErrSummaryIsNotConstructed = errors.New("Summary must be created via NewSummary constructor")

// Summary is a read-only snapshot of one available courier, taken from the
// courier directory at matching time.
type Summary struct {
	id                  kernel.UUID
	name                string
	location            kernel.GeoPoint
	rating              float64
	capacityKg          float64
	completedDeliveries int
	totalDeliveries     int

	guard guard.ConstructorGuard
}

// NewSummary creates a courier snapshot.
//
// Rating is on a 0 to 5 scale. completedDeliveries never exceeds
// totalDeliveries; both are zero for a courier with no history.
func NewSummary(
	id kernel.UUID,
	name string,
	location kernel.GeoPoint,
	rating, capacityKg float64,
	completedDeliveries, totalDeliveries int,
) (Summary, error) {
	s := Summary{
		name:                name,
		rating:              rating,
		capacityKg:          capacityKg,
		completedDeliveries: completedDeliveries,
		totalDeliveries:     totalDeliveries,
		guard:               guard.NewConstructorGuard(),
	}

	if err := errors.Join(id.Validate(), location.Validate()); err != nil {
		return Summary{}, err
	}
	if name == "" {
		return Summary{}, errs.NewValueIsRequiredError("name")
	}
	if rating < 0 || rating > maxRating {
		return Summary{}, errs.NewValueIsOutOfRangeError("rating", rating, 0, maxRating)
	}
	if capacityKg < 0 {
		return Summary{}, errs.NewValueIsInvalidErrorWithCause("capacityKg",
			fmt.Errorf("%f kg is negative", capacityKg))
	}
	if completedDeliveries < 0 || totalDeliveries < 0 || completedDeliveries > totalDeliveries {
		return Summary{}, errs.NewValueIsInvalidErrorWithCause("deliveries",
			fmt.Errorf("%d completed of %d total", completedDeliveries, totalDeliveries))
	}

	s.id = id
	s.location = location
	return s, nil
}

// Validate ensures the Summary was constructed via NewSummary.
func (s Summary) Validate() error {
	return s.guard.Validate(ErrSummaryIsNotConstructed)
}

// ID returns the courier's unique identifier.
func (s Summary) ID() kernel.UUID {
	return s.id
}

// Name returns the courier's display name.
func (s Summary) Name() string {
	return s.name
}

// Location returns where the courier was when the snapshot was taken.
func (s Summary) Location() kernel.GeoPoint {
	return s.location
}

// Rating returns the courier's rating on a 0 to 5 scale.
func (s Summary) Rating() float64 {
	return s.rating
}

// CapacityKg returns the heaviest package the courier can carry.
func (s Summary) CapacityKg() float64 {
	return s.capacityKg
}

// CompletedDeliveries returns how many deliveries the courier finished.
func (s Summary) CompletedDeliveries() int {
	return s.completedDeliveries
}

// TotalDeliveries returns how many deliveries the courier was engaged for.
func (s Summary) TotalDeliveries() int {
	return s.totalDeliveries
}

// CompletionRate returns the share of engagements the courier finished,
// zero for a courier with no history.
func (s Summary) CompletionRate() float64 {
	if s.totalDeliveries == 0 {
		return 0
	}
	return float64(s.completedDeliveries) / float64(s.totalDeliveries)
}

// CanCarry reports whether the courier's capacity fits the package weight.
func (s Summary) CanCarry(weightKg float64) bool {
	return s.capacityKg >= weightKg
}
