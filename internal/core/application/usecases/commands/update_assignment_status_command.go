package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrUpdateAssignmentStatusCommandIsNotConstructed = errors.New(
	"UpdateAssignmentStatusCommand must be created via NewUpdateAssignmentStatusCommand constructor",
)

// UpdateAssignmentStatusCommand requests one transition of an assignment's
// state machine, typically driven by the courier's app.
type UpdateAssignmentStatusCommand struct { //nolint:recvcheck //using for validation
	assignmentID kernel.UUID
	newStatus    assignment.Status
	notes        string

	guard guard.ConstructorGuard
}

// NewUpdateAssignmentStatusCommand creates a transition request. Notes are
// free-form and land in the order timeline when the transition mirrors into
// the order.
func NewUpdateAssignmentStatusCommand(assignmentID kernel.UUID, newStatus assignment.Status, notes string) (UpdateAssignmentStatusCommand, error) {
	cmd := UpdateAssignmentStatusCommand{
		notes: notes,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(assignmentID.Validate(), newStatus.Validate()); err != nil {
		return UpdateAssignmentStatusCommand{}, err
	}

	cmd.assignmentID = assignmentID
	cmd.newStatus = newStatus
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateAssignmentStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateAssignmentStatusCommandIsNotConstructed)
}

// AssignmentID returns the assignment to transition.
func (c UpdateAssignmentStatusCommand) AssignmentID() kernel.UUID {
	return c.assignmentID
}

// NewStatus returns the requested status.
func (c UpdateAssignmentStatusCommand) NewStatus() assignment.Status {
	return c.newStatus
}

// Notes returns the courier's free-form notes.
func (c UpdateAssignmentStatusCommand) Notes() string {
	return c.notes
}
