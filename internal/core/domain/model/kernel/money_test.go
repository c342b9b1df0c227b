package kernel_test

import (
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoneyFromCents(t *testing.T) {
	t.Run("should create non-negative amounts", func(t *testing.T) {
		m, err := kernel.NewMoneyFromCents(50000)

		require.NoError(t, err)
		assert.Equal(t, int64(50000), m.Cents())
		assert.False(t, m.IsZero())
	})

	t.Run("zero is a valid amount", func(t *testing.T) {
		m, err := kernel.NewMoneyFromCents(0)

		require.NoError(t, err)
		assert.True(t, m.IsZero())
	})

	t.Run("should reject negative amounts", func(t *testing.T) {
		_, err := kernel.NewMoneyFromCents(-1)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	t.Run("add sums amounts", func(t *testing.T) {
		a := kernel.MustMoneyFromCents(150)
		b := kernel.MustMoneyFromCents(250)

		assert.Equal(t, int64(400), a.Add(b).Cents())
	})

	t.Run("sub returns difference", func(t *testing.T) {
		a := kernel.MustMoneyFromCents(400)
		b := kernel.MustMoneyFromCents(150)

		diff, err := a.Sub(b)

		require.NoError(t, err)
		assert.Equal(t, int64(250), diff.Cents())
	})

	t.Run("sub refuses negative results", func(t *testing.T) {
		a := kernel.MustMoneyFromCents(100)
		b := kernel.MustMoneyFromCents(150)

		_, err := a.Sub(b)

		require.Error(t, err)
	})

	t.Run("percent rounds half up", func(t *testing.T) {
		// 15% of 3150.00 is 472.50
		m := kernel.MustMoneyFromCents(315000)

		fee, err := m.Percent(15)

		require.NoError(t, err)
		assert.Equal(t, int64(47250), fee.Cents())
	})

	t.Run("mul float rejects negative factors", func(t *testing.T) {
		m := kernel.MustMoneyFromCents(100)

		_, err := m.MulFloat(-1)

		require.Error(t, err)
	})
}

func TestMoney_String(t *testing.T) {
	t.Run("formats major units with two decimals", func(t *testing.T) {
		assert.Equal(t, "4622.50", kernel.MustMoneyFromCents(462250).String())
		assert.Equal(t, "0.05", kernel.MustMoneyFromCents(5).String())
		assert.Equal(t, "0.00", kernel.Money{}.String())
	})
}
