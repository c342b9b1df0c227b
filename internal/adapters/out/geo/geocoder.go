package geo

import (
	"context"
	"hash/fnv"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// roadFactor inflates the straight-line distance to approximate a street
// route.
const roadFactor = 1.3

// averageSpeedKmh is the assumed courier travel speed used for ETA
// estimates.
const averageSpeedKmh = 30.0

// Bounds is the rectangle addresses resolve into.
type Bounds struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// DefaultBounds covers the service area used in local runs.
func DefaultBounds() Bounds {
	return Bounds{
		MinLat: 55.55, MaxLat: 55.95,
		MinLng: 37.35, MaxLng: 37.85,
	}
}

// DeterministicGeocoder resolves postal addresses without an external
// provider: the normalized address is hashed onto a point inside the
// configured bounds. The same address always resolves to the same point,
// which is what the pricing and matching paths need from a geocoder.
//
// Routes are estimated over the great-circle distance with a road factor
// and a flat average speed.
type DeterministicGeocoder struct {
	bounds Bounds
}

// NewDeterministicGeocoder creates a geocoder over the given service area.
func NewDeterministicGeocoder(bounds Bounds) *DeterministicGeocoder {
	return &DeterministicGeocoder{bounds: bounds}
}

// Resolve maps a postal address onto a stable point inside the service
// area. Addresses differing only in case or spacing resolve identically.
func (g *DeterministicGeocoder) Resolve(_ context.Context, address string) (kernel.GeoPoint, error) {
	normalized := normalizeAddress(address)
	if normalized == "" {
		return kernel.GeoPoint{}, errs.NewValueIsRequiredError("address")
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(normalized))
	sum := h.Sum64()

	latFrac := float64(uint32(sum>>32)) / float64(1<<32)
	lngFrac := float64(uint32(sum)) / float64(1<<32)

	lat := g.bounds.MinLat + latFrac*(g.bounds.MaxLat-g.bounds.MinLat)
	lng := g.bounds.MinLng + lngFrac*(g.bounds.MaxLng-g.bounds.MinLng)
	return kernel.NewGeoPoint(lat, lng)
}

// Route estimates the travel distance and duration between two points.
func (g *DeterministicGeocoder) Route(
	_ context.Context, from, to kernel.GeoPoint,
) (distanceKm, durationMin float64, err error) {
	straightKm, err := from.DistanceKm(to)
	if err != nil {
		return 0, 0, err
	}
	distanceKm = straightKm * roadFactor
	durationMin = distanceKm / averageSpeedKmh * 60
	return distanceKm, durationMin, nil
}

func normalizeAddress(address string) string {
	return strings.Join(strings.Fields(strings.ToLower(address)), " ")
}
