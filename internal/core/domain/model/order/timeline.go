package order

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrTimelineEntryIsNotConstructed is returned when using an improperly
// initialized TimelineEntry.
var ErrTimelineEntryIsNotConstructed = errs.NewValueIsRequiredError(
	"timeline entry must be created via NewTimelineEntry constructor")

// TimelineEntry is one record in an order's append-only lifecycle log:
// the status entered, when, a human-readable description, and optionally
// where the courier was at the time.
type TimelineEntry struct { //nolint:recvcheck //using for validation
	status      Status
	at          time.Time
	description string
	point       *kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewTimelineEntry creates a timeline record for the given status.
// The description must be non-empty; point is optional.
func NewTimelineEntry(status Status, at time.Time, description string, point *kernel.GeoPoint) (TimelineEntry, error) {
	if err := status.Validate(); err != nil {
		return TimelineEntry{}, err
	}
	if description == "" {
		return TimelineEntry{}, errs.NewValueIsRequiredError("description")
	}
	if at.IsZero() {
		return TimelineEntry{}, errs.NewValueIsRequiredError("at")
	}
	if point != nil {
		if err := point.Validate(); err != nil {
			return TimelineEntry{}, err
		}
	}

	return TimelineEntry{
		status:      status,
		at:          at,
		description: description,
		point:       point,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the entry was created through NewTimelineEntry.
func (e TimelineEntry) Validate() error {
	return e.guard.Validate(ErrTimelineEntryIsNotConstructed)
}

// Status returns the status the order entered.
func (e TimelineEntry) Status() Status {
	return e.status
}

// At returns when the status was entered.
func (e TimelineEntry) At() time.Time {
	return e.at
}

// Description returns the human-readable description of the event.
func (e TimelineEntry) Description() string {
	return e.description
}

// Point returns where the event happened, or nil when no location was recorded.
func (e TimelineEntry) Point() *kernel.GeoPoint {
	return e.point
}
