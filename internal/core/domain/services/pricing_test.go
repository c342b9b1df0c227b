package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
)

func testEngine(t *testing.T) services.PricingEngine {
	t.Helper()
	e, err := services.NewPricingEngine(services.DefaultPricingPolicy())
	require.NoError(t, err)
	return e
}

func mustPackage(t *testing.T, size order.SizeClass, declared kernel.Money) order.Package {
	t.Helper()
	p, err := order.NewPackage(size, 5, declared, "documents")
	require.NoError(t, err)
	return p
}

func Test_PricingEngine_Price(t *testing.T) {
	t.Run("should price 10km medium standard at 4622.50", func(t *testing.T) {
		e := testEngine(t)

		got, err := e.Price(10, mustPackage(t, order.SizeMedium, kernel.Money{}), order.UrgencyStandard)

		require.NoError(t, err)
		assert.Equal(t, int64(50000), got.Base().Cents())
		assert.Equal(t, int64(150000), got.Distance().Cents())
		assert.Equal(t, int64(65000), got.Size().Cents())
		assert.Equal(t, int64(50000), got.Urgency().Cents())
		assert.Equal(t, int64(0), got.Insurance().Cents())
		assert.Equal(t, int64(47250), got.Platform().Cents())
		assert.Equal(t, int64(462250), got.Total().Cents())
		assert.Equal(t, "4622.50", got.Total().String())
	})

	t.Run("should be deterministic", func(t *testing.T) {
		e := testEngine(t)
		pkg := mustPackage(t, order.SizeLarge, kernel.MustMoneyFromCents(1000000))

		first, err := e.Price(7.3, pkg, order.UrgencyExpress)
		require.NoError(t, err)
		second, err := e.Price(7.3, pkg, order.UrgencyExpress)
		require.NoError(t, err)

		assert.True(t, first.Total().IsEqual(second.Total()))
	})

	t.Run("should charge insurance on the declared value", func(t *testing.T) {
		e := testEngine(t)
		pkg := mustPackage(t, order.SizeSmall, kernel.MustMoneyFromCents(1000000))

		got, err := e.Price(0, pkg, order.UrgencyStandard)

		require.NoError(t, err)
		assert.Equal(t, int64(20000), got.Insurance().Cents())
	})

	t.Run("should scale the urgency fee by tier", func(t *testing.T) {
		e := testEngine(t)
		pkg := mustPackage(t, order.SizeSmall, kernel.Money{})

		standard, err := e.Price(1, pkg, order.UrgencyStandard)
		require.NoError(t, err)
		urgent, err := e.Price(1, pkg, order.UrgencyUrgent)
		require.NoError(t, err)

		assert.Equal(t, int64(50000), standard.Urgency().Cents())
		assert.Equal(t, int64(100000), urgent.Urgency().Cents())
	})

	t.Run("should derive total as the sum of every component", func(t *testing.T) {
		e := testEngine(t)
		pkg := mustPackage(t, order.SizeExtraLarge, kernel.MustMoneyFromCents(55555))

		got, err := e.Price(3.7, pkg, order.UrgencyUrgent)

		require.NoError(t, err)
		sum := got.Base().
			Add(got.Distance()).
			Add(got.Size()).
			Add(got.Urgency()).
			Add(got.Insurance()).
			Add(got.Platform())
		assert.True(t, got.Total().IsEqual(sum))
	})

	t.Run("should reject a negative distance", func(t *testing.T) {
		e := testEngine(t)
		_, err := e.Price(-1, mustPackage(t, order.SizeSmall, kernel.Money{}), order.UrgencyStandard)
		assert.Error(t, err)
	})

	t.Run("should reject an unknown urgency", func(t *testing.T) {
		e := testEngine(t)
		_, err := e.Price(1, mustPackage(t, order.SizeSmall, kernel.Money{}), order.UrgencyUnknown)
		assert.Error(t, err)
	})
}

func Test_PricingEngine_CourierShare(t *testing.T) {
	t.Run("should split total into payout plus platform fee", func(t *testing.T) {
		e := testEngine(t)

		price, err := e.Price(10, mustPackage(t, order.SizeMedium, kernel.Money{}), order.UrgencyStandard)
		require.NoError(t, err)

		payout, fee, err := e.CourierShare(price)
		require.NoError(t, err)
		assert.Equal(t, int64(415000), payout.Cents())
		assert.Equal(t, int64(47250), fee.Cents())
		assert.True(t, payout.Add(fee).IsEqual(price.Total()))
	})
}

func Test_NewPricingEngine(t *testing.T) {
	t.Run("should reject a policy with a missing size multiplier", func(t *testing.T) {
		policy := services.DefaultPricingPolicy()
		delete(policy.SizeMultipliers, order.SizeLarge)

		_, err := services.NewPricingEngine(policy)
		assert.Error(t, err)
	})
}
