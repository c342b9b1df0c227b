package payment

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status is a value object describing a ledger entry's settlement progress.
//
// The graph is monotone toward a terminal state:
//
//	Pending ──> Processing ──> Completed ──> Refunded
//	   │            │             │
//	   │            ├──> Failed   │
//	   └────────────┴──> Cancelled
//
// Completed may still move to Refunded; Failed, Refunded, and Cancelled are
// final. A status never moves back toward Pending.
type Status int

const (
	// StatusUnknown is the zero value and is never valid in a ledger entry.
	StatusUnknown Status = iota

	// Pending is the initial status of a freshly initiated transaction.
	Pending

	// Processing means the method backend accepted the transaction and the
	// outcome is not known yet.
	Processing

	// Completed means the money movement succeeded.
	Completed

	// Failed means the backend rejected the transaction.
	Failed

	// Refunded means a previously completed transaction was reversed.
	Refunded

	// Cancelled means the transaction was withdrawn before completion.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown: "unknown",
		Pending:       "pending",
		Processing:    "processing",
		Completed:     "completed",
		Failed:        "failed",
		Refunded:      "refunded",
		Cancelled:     "cancelled",
	}
}

func transitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:    {Processing, Completed, Failed, Cancelled},
		Processing: {Completed, Failed, Cancelled},
		Completed:  {Refunded},
	}
}

// StatusFromString parses a status from its wire representation.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid transaction status", s))
}

// Validate checks if the Status value is one of the defined statuses.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == StatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status.
// This method implements the fmt.Stringer interface.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Failed || s == Refunded || s == Cancelled
}

// IsFinal reports whether the settlement outcome is decided. Completed is
// final for settlement purposes even though a refund may still follow.
func (s Status) IsFinal() bool {
	return s == Completed || s.IsTerminal()
}

// CanTransitionTo reports whether moving to next is permitted.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions()[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionTo returns next if the move is permitted, otherwise the current
// status and an InvalidTransitionError.
func (s Status) TransitionTo(next Status) (Status, error) {
	if !s.CanTransitionTo(next) {
		return s, errs.NewInvalidTransitionError("transaction", s.String(), next.String())
	}
	return next, nil
}
