package memory

import (
	"context"
	"sort"
	"sync"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

type courierRecord struct {
	name                string
	location            kernel.GeoPoint
	rating              float64
	capacityKg          float64
	completedDeliveries int
	totalDeliveries     int
	available           bool
}

// CourierDirectory is an in-process courier pool, used in tests and local
// runs where no postgres is available. All operations are serialized under
// a single mutex, so Claim's check-and-set is atomic by construction.
type CourierDirectory struct {
	mu       sync.Mutex
	couriers map[kernel.UUID]*courierRecord
}

// NewCourierDirectory creates an empty in-memory courier pool.
func NewCourierDirectory() *CourierDirectory {
	return &CourierDirectory{
		couriers: make(map[kernel.UUID]*courierRecord),
	}
}

// Add registers a courier as available. An existing courier with the same
// id is replaced.
func (d *CourierDirectory) Add(summary courier.Summary) error {
	if err := summary.Validate(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.couriers[summary.ID()] = &courierRecord{
		name:                summary.Name(),
		location:            summary.Location(),
		rating:              summary.Rating(),
		capacityKg:          summary.CapacityKg(),
		completedDeliveries: summary.CompletedDeliveries(),
		totalDeliveries:     summary.TotalDeliveries(),
		available:           true,
	}
	return nil
}

// FindAvailableNearby returns snapshots of available couriers within
// radiusKm of the point, nearest first.
func (d *CourierDirectory) FindAvailableNearby(
	_ context.Context, point kernel.GeoPoint, radiusKm float64,
) ([]courier.Summary, error) {
	if err := point.Validate(); err != nil {
		return nil, err
	}
	if radiusKm <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("radiusKm", radiusKm, 0, "+inf")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	type hit struct {
		summary    courier.Summary
		distanceKm float64
	}

	var hits []hit
	for id, rec := range d.couriers {
		if !rec.available {
			continue
		}
		distanceKm, err := point.DistanceKm(rec.location)
		if err != nil {
			return nil, err
		}
		if distanceKm > radiusKm {
			continue
		}
		summary, err := courier.NewSummary(id, rec.name, rec.location,
			rec.rating, rec.capacityKg, rec.completedDeliveries, rec.totalDeliveries)
		if err != nil {
			return nil, err
		}
		hits = append(hits, hit{summary: summary, distanceKm: distanceKm})
	}

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].distanceKm < hits[j].distanceKm
	})

	summaries := make([]courier.Summary, 0, len(hits))
	for _, h := range hits {
		summaries = append(summaries, h.summary)
	}
	return summaries, nil
}

// Claim atomically flips the courier from available to busy. Of two racing
// claims on the same courier exactly one returns true.
func (d *CourierDirectory) Claim(_ context.Context, courierID kernel.UUID) (bool, error) {
	if err := courierID.Validate(); err != nil {
		return false, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	rec, ok := d.couriers[courierID]
	if !ok {
		return false, errs.NewObjectNotFoundError("courierID", courierID)
	}
	if !rec.available {
		return false, nil
	}
	rec.available = false
	return true, nil
}

// Release flips the courier back to available. Releasing an already
// available courier is a no-op.
func (d *CourierDirectory) Release(_ context.Context, courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	rec, ok := d.couriers[courierID]
	if !ok {
		return errs.NewObjectNotFoundError("courierID", courierID)
	}
	rec.available = true
	return nil
}

// RecordOutcome bumps the courier's engagement counters after a terminal
// assignment.
func (d *CourierDirectory) RecordOutcome(_ context.Context, courierID kernel.UUID, completed bool) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	rec, ok := d.couriers[courierID]
	if !ok {
		return errs.NewObjectNotFoundError("courierID", courierID)
	}
	rec.totalDeliveries++
	if completed {
		rec.completedDeliveries++
	}
	return nil
}
