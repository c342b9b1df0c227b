package assignment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/kernel"
)

func testPickup(t *testing.T) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(55.7558, 37.6173)
	require.NoError(t, err)
	return p
}

func testDropoff(t *testing.T) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(55.7339, 37.5882)
	require.NoError(t, err)
	return p
}

func testAssignment(t *testing.T) *Assignment {
	t.Helper()
	a, err := NewAssignment(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		kernel.MustMoneyFromCents(120000),
		testPickup(t), testDropoff(t),
		3.1, 6.2,
		time.Now().UTC(),
	)
	require.NoError(t, err)
	return a
}

func Test_NewAssignment(t *testing.T) {
	t.Run("should start in assigned status with assignedAt set", func(t *testing.T) {
		now := time.Now().UTC()
		a, err := NewAssignment(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			kernel.MustMoneyFromCents(120000),
			testPickup(t), testDropoff(t),
			3.1, 6.2,
			now,
		)

		require.NoError(t, err)
		assert.NoError(t, a.Validate())
		assert.Equal(t, Assigned, a.Status())
		assert.Equal(t, now, a.AssignedAt())
		assert.Nil(t, a.AcceptedAt())
		assert.Nil(t, a.StartedAt())
		assert.Nil(t, a.CompletedAt())
		assert.Nil(t, a.CancelledAt())
		assert.Nil(t, a.ActualDurationMin())
		assert.False(t, a.IsTerminal())
	})

	t.Run("should reject invalid identifiers", func(t *testing.T) {
		_, err := NewAssignment(
			kernel.UUID{}, kernel.NewUUID(), kernel.NewUUID(),
			kernel.MustMoneyFromCents(120000),
			testPickup(t), testDropoff(t),
			3.1, 6.2,
			time.Now().UTC(),
		)
		assert.Error(t, err)
	})

	t.Run("should reject negative estimates", func(t *testing.T) {
		_, err := NewAssignment(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			kernel.MustMoneyFromCents(120000),
			testPickup(t), testDropoff(t),
			-1, 6.2,
			time.Now().UTC(),
		)
		assert.Error(t, err)
	})
}

func Test_Assignment_Lifecycle(t *testing.T) {
	t.Run("should stamp each step once on the happy path", func(t *testing.T) {
		a := testAssignment(t)
		base := a.AssignedAt()

		require.NoError(t, a.Accept(base.Add(time.Minute)))
		assert.Equal(t, Accepted, a.Status())
		require.NotNil(t, a.AcceptedAt())

		require.NoError(t, a.Start(base.Add(2*time.Minute)))
		assert.Equal(t, InProgress, a.Status())
		require.NotNil(t, a.StartedAt())

		require.NoError(t, a.Complete(base.Add(32*time.Minute)))
		assert.Equal(t, Completed, a.Status())
		require.NotNil(t, a.CompletedAt())
		assert.True(t, a.IsTerminal())
	})

	t.Run("should compute actual duration from start to completion", func(t *testing.T) {
		a := testAssignment(t)
		base := a.AssignedAt()

		require.NoError(t, a.Accept(base.Add(time.Minute)))
		require.NoError(t, a.Start(base.Add(2*time.Minute)))
		require.NoError(t, a.Complete(base.Add(47*time.Minute)))

		require.NotNil(t, a.ActualDurationMin())
		assert.InDelta(t, 45.0, *a.ActualDurationMin(), 0.001)
	})

	t.Run("should reject skipping acceptance", func(t *testing.T) {
		a := testAssignment(t)
		assert.Error(t, a.Start(time.Now().UTC()))
		assert.Error(t, a.Complete(time.Now().UTC()))
	})

	t.Run("should become immutable after decline", func(t *testing.T) {
		a := testAssignment(t)
		now := time.Now().UTC()

		require.NoError(t, a.Decline(now))
		assert.Equal(t, Declined, a.Status())
		require.NotNil(t, a.CancelledAt())

		assert.ErrorIs(t, a.Accept(now), ErrAssignmentIsTerminal)
		assert.ErrorIs(t, a.Cancel(now), ErrAssignmentIsTerminal)
	})

	t.Run("should allow cancellation only after acceptance", func(t *testing.T) {
		a := testAssignment(t)
		now := time.Now().UTC()

		assert.Error(t, a.Cancel(now))

		require.NoError(t, a.Accept(now))
		require.NoError(t, a.Cancel(now.Add(time.Minute)))
		assert.Equal(t, Cancelled, a.Status())
		require.NotNil(t, a.CancelledAt())
	})

	t.Run("should record failure mid delivery", func(t *testing.T) {
		a := testAssignment(t)
		now := time.Now().UTC()

		require.NoError(t, a.Accept(now))
		require.NoError(t, a.Start(now.Add(time.Minute)))
		require.NoError(t, a.Fail(now.Add(5*time.Minute)))

		assert.Equal(t, Failed, a.Status())
		assert.Nil(t, a.ActualDurationMin())
	})
}

func Test_Assignment_ApplyStatus(t *testing.T) {
	t.Run("should dispatch to the matching operation", func(t *testing.T) {
		a := testAssignment(t)
		now := time.Now().UTC()

		require.NoError(t, a.ApplyStatus(Accepted, now))
		require.NoError(t, a.ApplyStatus(InProgress, now.Add(time.Minute)))
		require.NoError(t, a.ApplyStatus(Completed, now.Add(30*time.Minute)))

		assert.Equal(t, Completed, a.Status())
		assert.NotNil(t, a.ActualDurationMin())
	})

	t.Run("should reject a non applicable status", func(t *testing.T) {
		a := testAssignment(t)
		assert.Error(t, a.ApplyStatus(Assigned, time.Now().UTC()))
	})
}

func Test_RestoreAssignment(t *testing.T) {
	t.Run("should round trip an in progress assignment", func(t *testing.T) {
		src := testAssignment(t)
		base := src.AssignedAt()
		require.NoError(t, src.Accept(base.Add(time.Minute)))
		require.NoError(t, src.Start(base.Add(2*time.Minute)))

		restored, err := RestoreAssignment(
			src.ID(), src.OrderID(), src.CourierID(),
			src.Status(), src.Amount(),
			src.PickupPoint(), src.DropoffPoint(),
			src.EstimatedDistanceKm(), src.EstimatedDurationMin(),
			src.ActualDurationMin(),
			src.AssignedAt(),
			src.AcceptedAt(), src.StartedAt(), src.CompletedAt(), src.CancelledAt(),
		)

		require.NoError(t, err)
		assert.True(t, restored.IsEqual(src))
		assert.Equal(t, src.Status(), restored.Status())
		assert.Equal(t, src.StartedAt(), restored.StartedAt())

		require.NoError(t, restored.Complete(base.Add(40*time.Minute)))
		require.NotNil(t, restored.ActualDurationMin())
		assert.InDelta(t, 38.0, *restored.ActualDurationMin(), 0.001)
	})

	t.Run("should reject an unknown status", func(t *testing.T) {
		src := testAssignment(t)
		_, err := RestoreAssignment(
			src.ID(), src.OrderID(), src.CourierID(),
			Unknown, src.Amount(),
			src.PickupPoint(), src.DropoffPoint(),
			src.EstimatedDistanceKm(), src.EstimatedDurationMin(),
			nil, src.AssignedAt(), nil, nil, nil, nil,
		)
		assert.Error(t, err)
	})
}
