package geo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/adapters/out/geo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

func TestResolve_IsDeterministic(t *testing.T) {
	geocoder := geo.NewDeterministicGeocoder(geo.DefaultBounds())
	ctx := context.Background()

	first, err := geocoder.Resolve(ctx, "12 Baker Street")
	require.NoError(t, err)

	second, err := geocoder.Resolve(ctx, "  12  baker STREET ")
	require.NoError(t, err)

	equal, err := first.IsEqual(second)
	require.NoError(t, err)
	assert.True(t, equal, "normalization differences must not move the point")
}

func TestResolve_StaysInsideBounds(t *testing.T) {
	bounds := geo.DefaultBounds()
	geocoder := geo.NewDeterministicGeocoder(bounds)
	ctx := context.Background()

	for _, address := range []string{
		"12 Baker Street",
		"1 Infinite Loop",
		"Nevsky Prospekt 28",
		"742 Evergreen Terrace",
	} {
		point, err := geocoder.Resolve(ctx, address)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, point.Lat(), bounds.MinLat)
		assert.LessOrEqual(t, point.Lat(), bounds.MaxLat)
		assert.GreaterOrEqual(t, point.Lng(), bounds.MinLng)
		assert.LessOrEqual(t, point.Lng(), bounds.MaxLng)
	}
}

func TestResolve_RejectsBlankAddress(t *testing.T) {
	geocoder := geo.NewDeterministicGeocoder(geo.DefaultBounds())

	_, err := geocoder.Resolve(context.Background(), "   ")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestRoute_AppliesRoadFactorAndSpeed(t *testing.T) {
	geocoder := geo.NewDeterministicGeocoder(geo.DefaultBounds())

	from, err := kernel.NewGeoPoint(55.7500, 37.6170)
	require.NoError(t, err)
	to, err := kernel.NewGeoPoint(55.8400, 37.6170)
	require.NoError(t, err)

	straightKm, err := from.DistanceKm(to)
	require.NoError(t, err)

	distanceKm, durationMin, err := geocoder.Route(context.Background(), from, to)
	require.NoError(t, err)

	assert.InDelta(t, straightKm*1.3, distanceKm, 0.001)
	assert.InDelta(t, distanceKm*2, durationMin, 0.001, "30 km/h means two minutes per km")
}
