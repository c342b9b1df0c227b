package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery order.
// It implements a state machine with a fixed adjacency table; no transition
// outside the table is permitted.
//
// State transitions:
//
//	Pending ──> Assigned ──> PickedUp ──> InTransit ──> Delivered
//	   │            │            │            │
//	   └────────────┴────────────┴────────────┴──> Cancelled / Failed
//
// Delivered, Cancelled, and Failed are terminal: no transition leaves them.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status: the order is priced and waiting for a
	// courier assignment.
	Pending

	// Assigned indicates a courier has been claimed for the order.
	Assigned

	// PickedUp indicates the courier has collected the package.
	PickedUp

	// InTransit indicates the package is on its way to the destination.
	InTransit

	// Delivered is the terminal success status. Entering it is the only
	// trigger for settlement finalization.
	Delivered

	// Cancelled is a terminal status for orders withdrawn before delivery.
	Cancelled

	// Failed is a terminal status for orders that could not be delivered.
	Failed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Pending:   "pending",
		Assigned:  "assigned",
		PickedUp:  "picked_up",
		InTransit: "in_transit",
		Delivered: "delivered",
		Cancelled: "cancelled",
		Failed:    "failed",
	}
}

// transitions is the adjacency table of the order state machine.
// Terminal statuses have no outgoing edges.
func transitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:   {Assigned, Cancelled, Failed},
		Assigned:  {PickedUp, Cancelled, Failed},
		PickedUp:  {InTransit, Cancelled, Failed},
		InTransit: {Delivered, Cancelled, Failed},
	}
}

// StatusFromString parses a status from its wire representation.
// Returns an error for unknown names, including "unknown" itself.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid order status", s))
}

// Validate checks if the Status value is one of the defined statuses.
// Unknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status, e.g. "picked_up".
// This method implements the fmt.Stringer interface and is safe to call on
// any Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled || s == Failed
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
		return Unknown, errs.NewInvalidTransitionError("order", s.String(), next.String())
	}
	return next, nil
}
