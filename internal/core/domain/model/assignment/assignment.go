package assignment

import (
	"errors"
	"fmt"
	"math"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Domain errors for assignment operations.
var (
	// ErrAssignmentIsNotConstructed is returned when an Assignment was not
	// created through NewAssignment or RestoreAssignment.
	ErrAssignmentIsNotConstructed = errors.New(
		"Assignment must be created via NewAssignment or RestoreAssignment constructor")
	// ErrAssignmentIsTerminal is returned when mutating an assignment that
	// already reached a terminal status.
	ErrAssignmentIsTerminal = errors.New("assignment is terminal and immutable")
)

// Assignment represents one courier's claim on one order.
//
// Invariants:
//   - Status moves only through the state machine adjacency table
//   - Each lifecycle timestamp (assigned, accepted, started, completed,
//     cancelled) is set at most once, in lifecycle order
//   - Completing the assignment records actualDuration as completedAt
//     minus startedAt
//   - Once terminal the assignment never changes again
//
// The uniqueness invariants (at most one non-terminal assignment per order
// and per courier) are enforced outside the aggregate: the first by the
// assignment store, the second by the courier directory's availability flag.
type Assignment struct {
	id                   kernel.UUID
	orderID              kernel.UUID
	courierID            kernel.UUID
	status               Status
	amount               kernel.Money
	pickupPoint          kernel.GeoPoint
	dropoffPoint         kernel.GeoPoint
	estimatedDistanceKm  float64
	estimatedDurationMin float64
	actualDurationMin    *float64
	assignedAt           time.Time
	acceptedAt           *time.Time
	startedAt            *time.Time
	completedAt          *time.Time
	cancelledAt          *time.Time

	guard guard.ConstructorGuard
}

// NewAssignment creates an Assignment in Assigned status with the assignedAt
// timestamp set. The offered amount is the courier payout agreed at claim
// time; the distance and duration are the matcher's estimates.
func NewAssignment(
	id, orderID, courierID kernel.UUID,
	amount kernel.Money,
	pickupPoint, dropoffPoint kernel.GeoPoint,
	estimatedDistanceKm, estimatedDurationMin float64,
	now time.Time,
) (*Assignment, error) {
	a := &Assignment{
		status:     Assigned,
		assignedAt: now,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.setOrderID(orderID),
		a.setCourierID(courierID),
		a.setPoints(pickupPoint, dropoffPoint),
		a.setEstimates(estimatedDistanceKm, estimatedDurationMin),
	); err != nil {
		return nil, err
	}

	if now.IsZero() {
		return nil, errs.NewValueIsRequiredError("now")
	}
	a.amount = amount

	return a, nil
}

// RestoreAssignment reconstructs an Assignment from persistent storage.
func RestoreAssignment(
	id, orderID, courierID kernel.UUID,
	status Status,
	amount kernel.Money,
	pickupPoint, dropoffPoint kernel.GeoPoint,
	estimatedDistanceKm, estimatedDurationMin float64,
	actualDurationMin *float64,
	assignedAt time.Time,
	acceptedAt, startedAt, completedAt, cancelledAt *time.Time,
) (*Assignment, error) {
	a := &Assignment{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.setOrderID(orderID),
		a.setCourierID(courierID),
		a.setPoints(pickupPoint, dropoffPoint),
		a.setEstimates(estimatedDistanceKm, estimatedDurationMin),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	if assignedAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("assignedAt")
	}

	a.status = status
	a.amount = amount
	a.actualDurationMin = actualDurationMin
	a.assignedAt = assignedAt
	a.acceptedAt = acceptedAt
	a.startedAt = startedAt
	a.completedAt = completedAt
	a.cancelledAt = cancelledAt

	return a, nil
}

// Validate ensures the Assignment was constructed through a constructor.
func (a *Assignment) Validate() error {
	if a == nil {
		return ErrAssignmentIsNotConstructed
	}
	return a.guard.Validate(ErrAssignmentIsNotConstructed)
}

// IsEqual compares two assignments by their unique identifiers.
func (a *Assignment) IsEqual(other *Assignment) bool {
	return other != nil && a.id.IsEqual(other.id)
}

// ID returns the assignment's unique identifier.
func (a *Assignment) ID() kernel.UUID {
	return a.id
}

// OrderID returns the bound order's identifier.
func (a *Assignment) OrderID() kernel.UUID {
	return a.orderID
}

// CourierID returns the engaged courier's identifier.
func (a *Assignment) CourierID() kernel.UUID {
	return a.courierID
}

// Status returns the current engagement status.
func (a *Assignment) Status() Status {
	return a.status
}

// Amount returns the courier payout agreed at claim time.
func (a *Assignment) Amount() kernel.Money {
	return a.amount
}

// PickupPoint returns the pickup coordinates.
func (a *Assignment) PickupPoint() kernel.GeoPoint {
	return a.pickupPoint
}

// DropoffPoint returns the drop-off coordinates.
func (a *Assignment) DropoffPoint() kernel.GeoPoint {
	return a.dropoffPoint
}

// EstimatedDistanceKm returns the matcher's route distance estimate.
func (a *Assignment) EstimatedDistanceKm() float64 {
	return a.estimatedDistanceKm
}

// EstimatedDurationMin returns the matcher's duration estimate in minutes.
func (a *Assignment) EstimatedDurationMin() float64 {
	return a.estimatedDurationMin
}

// ActualDurationMin returns the measured delivery duration in minutes,
// or nil before completion.
func (a *Assignment) ActualDurationMin() *float64 {
	return a.actualDurationMin
}

// AssignedAt returns when the courier was claimed.
func (a *Assignment) AssignedAt() time.Time {
	return a.assignedAt
}

// AcceptedAt returns when the courier accepted, or nil.
func (a *Assignment) AcceptedAt() *time.Time {
	return a.acceptedAt
}

// StartedAt returns when the delivery started, or nil.
func (a *Assignment) StartedAt() *time.Time {
	return a.startedAt
}

// CompletedAt returns when the delivery completed, or nil.
func (a *Assignment) CompletedAt() *time.Time {
	return a.completedAt
}

// CancelledAt returns when the engagement was declined, cancelled, or failed,
// or nil.
func (a *Assignment) CancelledAt() *time.Time {
	return a.cancelledAt
}

// IsTerminal reports whether the assignment reached a terminal status.
func (a *Assignment) IsTerminal() bool {
	return a.status.IsTerminal()
}

// Accept records the courier's agreement to carry the order.
func (a *Assignment) Accept(now time.Time) error {
	if err := a.transition(Accepted); err != nil {
		return err
	}
	stamp := now
	a.acceptedAt = &stamp
	return nil
}

// Start records that the courier collected the package and the delivery is
// underway.
func (a *Assignment) Start(now time.Time) error {
	if err := a.transition(InProgress); err != nil {
		return err
	}
	stamp := now
	a.startedAt = &stamp
	return nil
}

// Complete finishes the engagement and computes the actual duration from
// startedAt to now. The assignment becomes immutable.
func (a *Assignment) Complete(now time.Time) error {
	if err := a.transition(Completed); err != nil {
		return err
	}

	stamp := now
	a.completedAt = &stamp
	if a.startedAt != nil {
		minutes := now.Sub(*a.startedAt).Minutes()
		minutes = math.Max(minutes, 0)
		a.actualDurationMin = &minutes
	}
	return nil
}

// Decline records the courier's refusal of the offer. The assignment becomes
// immutable and the courier must be released by the orchestrator.
func (a *Assignment) Decline(now time.Time) error {
	return a.terminate(Declined, now)
}

// Cancel withdraws the engagement after acceptance. The assignment becomes
// immutable.
func (a *Assignment) Cancel(now time.Time) error {
	return a.terminate(Cancelled, now)
}

// Fail records that the delivery could not be finished. The assignment
// becomes immutable.
func (a *Assignment) Fail(now time.Time) error {
	return a.terminate(Failed, now)
}

// ApplyStatus dispatches a requested status to the matching lifecycle
// operation. Used by the orchestrator when the requested status arrives over
// the wire rather than through a dedicated call.
func (a *Assignment) ApplyStatus(next Status, now time.Time) error {
	switch next {
	case Accepted:
		return a.Accept(now)
	case InProgress:
		return a.Start(now)
	case Completed:
		return a.Complete(now)
	case Declined:
		return a.Decline(now)
	case Cancelled:
		return a.Cancel(now)
	case Failed:
		return a.Fail(now)
	default:
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not an applicable assignment status", next))
	}
}

func (a *Assignment) transition(next Status) error {
	if a.status.IsTerminal() {
		return ErrAssignmentIsTerminal
	}
	newStatus, err := a.status.TransitionTo(next)
	if err != nil {
		return err
	}
	a.status = newStatus
	return nil
}

func (a *Assignment) terminate(next Status, now time.Time) error {
	if err := a.transition(next); err != nil {
		return err
	}
	stamp := now
	a.cancelledAt = &stamp
	return nil
}

func (a *Assignment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Assignment) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	a.orderID = orderID
	return nil
}

func (a *Assignment) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	a.courierID = courierID
	return nil
}

func (a *Assignment) setPoints(pickupPoint, dropoffPoint kernel.GeoPoint) error {
	if err := errors.Join(pickupPoint.Validate(), dropoffPoint.Validate()); err != nil {
		return err
	}
	a.pickupPoint = pickupPoint
	a.dropoffPoint = dropoffPoint
	return nil
}

func (a *Assignment) setEstimates(distanceKm, durationMin float64) error {
	if math.IsNaN(distanceKm) || distanceKm < 0 {
		return errs.NewValueIsInvalidErrorWithCause("estimatedDistance",
			fmt.Errorf("%f km is negative", distanceKm))
	}
	if math.IsNaN(durationMin) || durationMin < 0 {
		return errs.NewValueIsInvalidErrorWithCause("estimatedDuration",
			fmt.Errorf("%f minutes is negative", durationMin))
	}
	a.estimatedDistanceKm = distanceKm
	a.estimatedDurationMin = durationMin
	return nil
}
