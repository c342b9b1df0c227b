// Package queries contains read-only operations for the CQRS read side.
// Handlers read the database directly with raw SQL and return flat response
// structs, bypassing the aggregate layer.
package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrGetOrderByTrackCodeQueryIsNotConstructed = errors.New(
	"GetOrderByTrackCodeQuery must be created via NewGetOrderByTrackCodeQuery constructor",
)

// GetOrderByTrackCodeQuery retrieves one order by its customer-facing track
// code, the public tracking surface: no authentication, no internal IDs
// required.
type GetOrderByTrackCodeQuery struct {
	trackCode string

	guard guard.ConstructorGuard
}

// NewGetOrderByTrackCodeQuery creates a tracking query for the given code.
func NewGetOrderByTrackCodeQuery(trackCode string) (GetOrderByTrackCodeQuery, error) {
	if trackCode == "" {
		return GetOrderByTrackCodeQuery{}, errs.NewValueIsRequiredError("trackCode")
	}

	return GetOrderByTrackCodeQuery{
		trackCode: trackCode,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderByTrackCodeQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderByTrackCodeQueryIsNotConstructed)
}

// TrackCode returns the track code to look up.
func (q GetOrderByTrackCodeQuery) TrackCode() string {
	return q.trackCode
}

// GetOrderByTrackCodeQueryResponse is the public tracking view of an order.
type GetOrderByTrackCodeQueryResponse struct {
	ID               kernel.UUID
	TrackCode        string
	Status           string
	Urgency          string
	CourierAssigned  bool
	TotalCents       int64
	PickupDeadline   time.Time
	DeliveryDeadline time.Time
	PickedUpAt       *time.Time
	DeliveredAt      *time.Time
	Timeline         []TimelineEventResponse
}

// TimelineEventResponse is one tracked moment in the order's history.
type TimelineEventResponse struct {
	Status      string    `json:"status"`
	At          time.Time `json:"at"`
	Description string    `json:"description"`
}
