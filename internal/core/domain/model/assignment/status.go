package assignment

import (
	"fmt"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of a courier's engagement with an order.
//
// State transitions:
//
//	Assigned ──> Accepted ──> InProgress ──> Completed
//	    │            │             │
//	    │            └─────────────┴──> Cancelled / Failed
//	    └──> Declined
//
// Completed, Declined, Cancelled, and Failed are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Assigned is the initial status: the courier has been claimed and
	// offered the order but has not yet responded.
	Assigned

	// Accepted indicates the courier agreed to carry the order.
	Accepted

	// InProgress indicates the courier has collected the package and the
	// delivery is underway.
	InProgress

	// Completed is the terminal success status.
	Completed

	// Declined is the terminal status when the courier refuses the offer.
	Declined

	// Cancelled is the terminal status when the engagement is withdrawn
	// after acceptance.
	Cancelled

	// Failed is the terminal status when the delivery could not be finished.
	Failed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		Assigned:   "assigned",
		Accepted:   "accepted",
		InProgress: "in_progress",
		Completed:  "completed",
		Declined:   "declined",
		Cancelled:  "cancelled",
		Failed:     "failed",
	}
}

func transitions() map[Status][]Status {
	return map[Status][]Status{
		Assigned:   {Accepted, Declined},
		Accepted:   {InProgress, Cancelled, Failed},
		InProgress: {Completed, Cancelled, Failed},
	}
}

// StatusFromString parses a status from its wire representation.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid assignment status", s))
}

// Validate checks if the Status value is one of the defined statuses.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status, e.g. "in_progress".
// This method implements the fmt.Stringer interface.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status has no outgoing transitions.
// A terminal assignment releases its courier.
func (s Status) IsTerminal() bool {
	switch s {
	case Completed, Declined, Cancelled, Failed:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the adjacency table permits moving from the
// current status to the requested one.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions()[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionTo validates the requested move against the adjacency table.
// Returns the new status on success, or an InvalidTransitionError leaving the
// caller's state untouched.
func (s Status) TransitionTo(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return Unknown, err
	}
	if !s.CanTransitionTo(next) {
		return Unknown, errs.NewInvalidTransitionError("assignment", s.String(), next.String())
	}
	return next, nil
}

// OrderEffect returns the order status that entering this assignment status
// implies, and whether there is any effect at all.
//
// The fixed mapping keeps the two state machines in lockstep:
//
//	in_progress -> picked_up
//	completed   -> delivered
//	cancelled   -> cancelled
//	failed      -> failed
//
// Accepted and Declined carry no order-side transition: acceptance keeps the
// order assigned, and a decline returns the order to the matching pool, which
// the orchestrator handles as a courier release rather than a status change.
func (s Status) OrderEffect() (order.Status, bool) {
	switch s {
	case InProgress:
		return order.PickedUp, true
	case Completed:
		return order.Delivered, true
	case Cancelled:
		return order.Cancelled, true
	case Failed:
		return order.Failed, true
	default:
		return order.Unknown, false
	}
}
