package courier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/kernel"
)

func testLocation(t *testing.T) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(55.75, 37.62)
	require.NoError(t, err)
	return p
}

func Test_NewSummary(t *testing.T) {
	t.Run("should create a valid snapshot", func(t *testing.T) {
		s, err := NewSummary(kernel.NewUUID(), "Ivan", testLocation(t), 4.5, 20, 90, 100)

		require.NoError(t, err)
		assert.NoError(t, s.Validate())
		assert.Equal(t, 4.5, s.Rating())
		assert.InDelta(t, 0.9, s.CompletionRate(), 0.0001)
	})

	t.Run("should reject a rating off the scale", func(t *testing.T) {
		_, err := NewSummary(kernel.NewUUID(), "Ivan", testLocation(t), 5.1, 20, 0, 0)
		assert.Error(t, err)
	})

	t.Run("should reject more completed than total deliveries", func(t *testing.T) {
		_, err := NewSummary(kernel.NewUUID(), "Ivan", testLocation(t), 4.5, 20, 10, 5)
		assert.Error(t, err)
	})

	t.Run("should reject an empty name", func(t *testing.T) {
		_, err := NewSummary(kernel.NewUUID(), "", testLocation(t), 4.5, 20, 0, 0)
		assert.Error(t, err)
	})

	t.Run("should give a newcomer a zero completion rate", func(t *testing.T) {
		s, err := NewSummary(kernel.NewUUID(), "Ivan", testLocation(t), 4.0, 20, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, 0.0, s.CompletionRate())
	})

	t.Run("should compare weight against capacity", func(t *testing.T) {
		s, err := NewSummary(kernel.NewUUID(), "Ivan", testLocation(t), 4.0, 15, 0, 0)
		require.NoError(t, err)
		assert.True(t, s.CanCarry(15))
		assert.False(t, s.CanCarry(15.1))
	})

	t.Run("should reject the zero value", func(t *testing.T) {
		var s Summary
		assert.ErrorIs(t, s.Validate(), ErrSummaryIsNotConstructed)
	})
}
