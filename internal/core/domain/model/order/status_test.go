package order_test

import (
	"fmt"
	"testing"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allStatuses() []order.Status {
	return []order.Status{
		order.Pending,
		order.Assigned,
		order.PickedUp,
		order.InTransit,
		order.Delivered,
		order.Cancelled,
		order.Failed,
	}
}

// allowedTransitions mirrors the adjacency table of the order state machine.
func allowedTransitions() map[order.Status][]order.Status {
	return map[order.Status][]order.Status{
		order.Pending:   {order.Assigned, order.Cancelled, order.Failed},
		order.Assigned:  {order.PickedUp, order.Cancelled, order.Failed},
		order.PickedUp:  {order.InTransit, order.Cancelled, order.Failed},
		order.InTransit: {order.Delivered, order.Cancelled, order.Failed},
	}
}

func contains(statuses []order.Status, s order.Status) bool {
	for _, status := range statuses {
		if status == s {
			return true
		}
	}
	return false
}

func TestStatus_Validate(t *testing.T) {
	t.Run("should validate all defined statuses", func(t *testing.T) {
		for _, status := range allStatuses() {
			t.Run(status.String(), func(t *testing.T) {
				require.NoError(t, status.Validate())
			})
		}
	})

	t.Run("should reject Unknown and out-of-range values", func(t *testing.T) {
		for _, status := range []order.Status{order.Unknown, order.Status(-1), order.Status(99)} {
			err := status.Validate()

			require.Error(t, err)
			require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		}
	})
}

func TestStatus_String(t *testing.T) {
	t.Run("should return wire names", func(t *testing.T) {
		assert.Equal(t, "pending", order.Pending.String())
		assert.Equal(t, "picked_up", order.PickedUp.String())
		assert.Equal(t, "in_transit", order.InTransit.String())
		assert.Equal(t, "delivered", order.Delivered.String())
		assert.Equal(t, "unknown", order.Unknown.String())
		assert.Equal(t, "unknown", order.Status(42).String())
	})
}

func TestStatusFromString(t *testing.T) {
	t.Run("should round-trip every valid status", func(t *testing.T) {
		for _, status := range allStatuses() {
			parsed, err := order.StatusFromString(status.String())

			require.NoError(t, err)
			assert.Equal(t, status, parsed)
		}
	})

	t.Run("should reject unknown names", func(t *testing.T) {
		for _, name := range []string{"unknown", "", "shipped", "PENDING"} {
			_, err := order.StatusFromString(name)

			require.Error(t, err, "name %q", name)
		}
	})
}

func TestStatus_TransitionClosure(t *testing.T) {
	// Exhaustively verify every (current, requested) pair against the
	// adjacency table: permitted pairs succeed, everything else fails with an
	// invalid-transition error.
	allowed := allowedTransitions()

	for _, from := range allStatuses() {
		for _, to := range allStatuses() {
			name := fmt.Sprintf("%s to %s", from, to)
			t.Run(name, func(t *testing.T) {
				next, err := from.TransitionTo(to)

				if contains(allowed[from], to) {
					require.NoError(t, err)
					assert.Equal(t, to, next)
				} else {
					require.Error(t, err)
					require.ErrorIs(t, err, errs.ErrInvalidTransition)
					assert.Equal(t, order.Unknown, next)
				}
			})
		}
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	t.Run("terminal statuses have no outgoing transitions", func(t *testing.T) {
		for _, status := range allStatuses() {
			expected := status == order.Delivered || status == order.Cancelled || status == order.Failed
			assert.Equal(t, expected, status.IsTerminal(), "status %s", status)
		}
	})
}
