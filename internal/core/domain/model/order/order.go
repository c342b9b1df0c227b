package order

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Domain errors for order operations.
var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")
	// ErrTrackCodeIsRequired is returned when attempting to create an order
	// without a tracking code.
	ErrTrackCodeIsRequired = errs.NewValueIsRequiredError("trackCode")
	// ErrAddressIsRequired is returned when an origin or destination address
	// reference is empty.
	ErrAddressIsRequired = errs.NewValueIsRequiredError("address")
)

// Order represents one delivery request. It is the aggregate root that owns
// the order lifecycle from submission through assignment to a terminal state.
//
// Order maintains these invariants:
//   - Status changes only through ChangeStatus, which consults the state
//     machine adjacency table; an invalid move leaves the order untouched
//   - The timeline is append-only; every transition appends exactly one entry
//   - pickedUpAt and deliveredAt are stamped once and never overwritten
//   - The pricing breakdown is pinned at creation and never recomputed
//   - The delivery deadline is strictly after the pickup deadline
//
// Orders are never hard-deleted; cancellation and failure are terminal
// statuses, not deletes.
type Order struct {
	id                   kernel.UUID
	trackCode            string
	customerID           kernel.UUID
	courierID            *kernel.UUID
	originAddressID      string
	destinationAddressID string
	originPoint          kernel.GeoPoint
	destinationPoint     kernel.GeoPoint
	pkg                  Package
	urgency              Urgency
	price                PriceBreakdown
	status               Status
	timeline             []TimelineEntry
	pickupDeadline       time.Time
	deliveryDeadline     time.Time
	pickedUpAt           *time.Time
	deliveredAt          *time.Time

	guard guard.ConstructorGuard
}

// NewOrder creates a new Order in Pending status with an opening timeline
// entry. This is the only way to create a fresh order; all invariants are
// validated here.
//
// Parameters:
//   - id: unique order identifier
//   - trackCode: customer-facing tracking code (see NewTrackCode)
//   - customerID: the submitting customer
//   - originAddressID, destinationAddressID: opaque address references
//   - originPoint, destinationPoint: resolved coordinates
//   - pkg: validated package descriptor
//   - urgency: delivery urgency tier
//   - price: the fee breakdown computed by the pricing engine
//   - pickupDeadline, deliveryDeadline: delivery must be strictly after pickup
//   - now: creation instant, recorded in the opening timeline entry
func NewOrder(
	id kernel.UUID,
	trackCode string,
	customerID kernel.UUID,
	originAddressID, destinationAddressID string,
	originPoint, destinationPoint kernel.GeoPoint,
	pkg Package,
	urgency Urgency,
	price PriceBreakdown,
	pickupDeadline, deliveryDeadline time.Time,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status: Pending,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setTrackCode(trackCode),
		o.setCustomerID(customerID),
		o.setAddresses(originAddressID, destinationAddressID),
		o.setPoints(originPoint, destinationPoint),
		o.setPackage(pkg),
		o.setUrgency(urgency),
		o.setPrice(price),
		o.setDeadlines(pickupDeadline, deliveryDeadline),
	); err != nil {
		return nil, err
	}

	opening, err := NewTimelineEntry(Pending, now, "Order created and waiting for courier", nil)
	if err != nil {
		return nil, err
	}
	o.timeline = []TimelineEntry{opening}

	return o, nil
}

// RestoreOrder reconstructs an Order aggregate from persistent storage,
// including its status, courier binding, timeline, and lifecycle stamps.
// The restored order behaves identically to one built through domain
// operations.
func RestoreOrder(
	id kernel.UUID,
	trackCode string,
	customerID kernel.UUID,
	courierID *kernel.UUID,
	originAddressID, destinationAddressID string,
	originPoint, destinationPoint kernel.GeoPoint,
	pkg Package,
	urgency Urgency,
	price PriceBreakdown,
	status Status,
	timeline []TimelineEntry,
	pickupDeadline, deliveryDeadline time.Time,
	pickedUpAt, deliveredAt *time.Time,
) (*Order, error) {
	o := &Order{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setTrackCode(trackCode),
		o.setCustomerID(customerID),
		o.setAddresses(originAddressID, destinationAddressID),
		o.setPoints(originPoint, destinationPoint),
		o.setPackage(pkg),
		o.setUrgency(urgency),
		o.setPrice(price),
		o.setDeadlines(pickupDeadline, deliveryDeadline),
		o.setStatus(status),
		o.setTimeline(timeline),
	); err != nil {
		return nil, err
	}

	if courierID != nil {
		if err := courierID.Validate(); err != nil {
			return nil, err
		}
		o.courierID = courierID
	}
	o.pickedUpAt = pickedUpAt
	o.deliveredAt = deliveredAt

	return o, nil
}

// Validate ensures the Order was constructed through NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// TrackCode returns the customer-facing tracking code.
func (o *Order) TrackCode() string {
	return o.trackCode
}

// CustomerID returns the submitting customer's identifier.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// CourierID returns the assigned courier's identifier, or nil if unassigned.
func (o *Order) CourierID() *kernel.UUID {
	return o.courierID
}

// OriginAddressID returns the opaque origin address reference.
func (o *Order) OriginAddressID() string {
	return o.originAddressID
}

// DestinationAddressID returns the opaque destination address reference.
func (o *Order) DestinationAddressID() string {
	return o.destinationAddressID
}

// OriginPoint returns the resolved pickup coordinates.
func (o *Order) OriginPoint() kernel.GeoPoint {
	return o.originPoint
}

// DestinationPoint returns the resolved drop-off coordinates.
func (o *Order) DestinationPoint() kernel.GeoPoint {
	return o.destinationPoint
}

// Package returns the package descriptor.
func (o *Order) Package() Package {
	return o.pkg
}

// Urgency returns the delivery urgency tier.
func (o *Order) Urgency() Urgency {
	return o.urgency
}

// Price returns the fee breakdown pinned at creation.
func (o *Order) Price() PriceBreakdown {
	return o.price
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// Timeline returns a copy of the append-only lifecycle log.
func (o *Order) Timeline() []TimelineEntry {
	out := make([]TimelineEntry, len(o.timeline))
	copy(out, o.timeline)
	return out
}

// PickupDeadline returns the latest instant the package may be collected.
func (o *Order) PickupDeadline() time.Time {
	return o.pickupDeadline
}

// DeliveryDeadline returns the latest instant the package may be delivered.
func (o *Order) DeliveryDeadline() time.Time {
	return o.deliveryDeadline
}

// PickedUpAt returns when the package was collected, or nil.
func (o *Order) PickedUpAt() *time.Time {
	return o.pickedUpAt
}

// DeliveredAt returns when the package was delivered, or nil.
func (o *Order) DeliveredAt() *time.Time {
	return o.deliveredAt
}

// Assign binds a courier to the order and moves it to Assigned.
//
// Business rules:
//   - The courier ID must be valid
//   - The order must currently be Pending (the adjacency table has a single
//     path into Assigned)
//
// On success the order carries the courier ID and a timeline entry recording
// the assignment.
func (o *Order) Assign(courierID kernel.UUID, now time.Time) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	description := fmt.Sprintf("Courier %s assigned", courierID)
	if err := o.ChangeStatus(Assigned, description, nil, now); err != nil {
		return err
	}

	o.courierID = &courierID
	return nil
}

// ChangeStatus validates and applies a status transition, appending a timeline
// entry with the given description and optional location.
//
// The state machine rejects any move not in the adjacency table with an
// InvalidTransitionError, leaving the order unchanged. Entering PickedUp
// stamps pickedUpAt once; entering Delivered stamps deliveredAt once.
// Timestamps are monotone after creation: the transition instant must not
// precede the opening timeline entry.
func (o *Order) ChangeStatus(next Status, description string, point *kernel.GeoPoint, now time.Time) error {
	newStatus, err := o.status.TransitionTo(next)
	if err != nil {
		return err
	}

	if description == "" {
		description = fmt.Sprintf("Order moved to %s", newStatus)
	}
	if len(o.timeline) > 0 && now.Before(o.timeline[0].At()) {
		return errs.NewValueIsInvalidErrorWithCause("now",
			fmt.Errorf("transition at %s precedes order creation at %s", now, o.timeline[0].At()))
	}

	entry, err := NewTimelineEntry(newStatus, now, description, point)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.timeline = append(o.timeline, entry)

	switch newStatus {
	case PickedUp:
		if o.pickedUpAt == nil {
			stamp := now
			o.pickedUpAt = &stamp
		}
	case Delivered:
		if o.deliveredAt == nil {
			stamp := now
			o.deliveredAt = &stamp
		}
	}

	return nil
}

// ReturnToPool puts an assigned order back into the matching pool after its
// courier declined the offer. The courier binding is cleared, the status
// returns to Pending, and a timeline entry records the event.
//
// This is a dedicated inverse of Assign, not part of the public adjacency
// table: it is only reachable through the orchestrator's decline handling and
// only from Assigned.
func (o *Order) ReturnToPool(description string, now time.Time) error {
	if o.status != Assigned {
		return errs.NewInvalidTransitionError("order", o.status.String(), Pending.String())
	}

	if description == "" {
		description = "Courier declined, order returned to matching pool"
	}
	entry, err := NewTimelineEntry(Pending, now, description, nil)
	if err != nil {
		return err
	}

	o.status = Pending
	o.courierID = nil
	o.timeline = append(o.timeline, entry)
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setTrackCode(trackCode string) error {
	if trackCode == "" {
		return ErrTrackCodeIsRequired
	}
	o.trackCode = trackCode
	return nil
}

func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setAddresses(originAddressID, destinationAddressID string) error {
	if originAddressID == "" || destinationAddressID == "" {
		return ErrAddressIsRequired
	}
	o.originAddressID = originAddressID
	o.destinationAddressID = destinationAddressID
	return nil
}

func (o *Order) setPoints(originPoint, destinationPoint kernel.GeoPoint) error {
	if err := errors.Join(originPoint.Validate(), destinationPoint.Validate()); err != nil {
		return err
	}
	o.originPoint = originPoint
	o.destinationPoint = destinationPoint
	return nil
}

func (o *Order) setPackage(pkg Package) error {
	if err := pkg.Validate(); err != nil {
		return err
	}
	o.pkg = pkg
	return nil
}

func (o *Order) setUrgency(urgency Urgency) error {
	if err := urgency.Validate(); err != nil {
		return err
	}
	o.urgency = urgency
	return nil
}

func (o *Order) setPrice(price PriceBreakdown) error {
	if err := price.Validate(); err != nil {
		return err
	}
	o.price = price
	return nil
}

func (o *Order) setDeadlines(pickupDeadline, deliveryDeadline time.Time) error {
	if pickupDeadline.IsZero() || deliveryDeadline.IsZero() {
		return errs.NewValueIsRequiredError("deadlines")
	}
	if !deliveryDeadline.After(pickupDeadline) {
		return errs.NewValueIsInvalidErrorWithCause("deliveryDeadline",
			fmt.Errorf("delivery deadline %s is not after pickup deadline %s", deliveryDeadline, pickupDeadline))
	}
	o.pickupDeadline = pickupDeadline
	o.deliveryDeadline = deliveryDeadline
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setTimeline(timeline []TimelineEntry) error {
	if len(timeline) == 0 {
		return errs.NewValueIsRequiredError("timeline")
	}
	for _, entry := range timeline {
		if err := entry.Validate(); err != nil {
			return err
		}
	}
	o.timeline = make([]TimelineEntry, len(timeline))
	copy(o.timeline, timeline)
	return nil
}
