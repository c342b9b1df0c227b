package commands_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func originPoint(t *testing.T) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(55.7558, 37.6173)
	require.NoError(t, err)
	return p
}

func destinationPoint(t *testing.T) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(55.7339, 37.5882)
	require.NoError(t, err)
	return p
}

func pendingOrder(t *testing.T) *order.Order {
	t.Helper()

	pkg, err := order.NewPackage(order.SizeMedium, 5, kernel.Money{}, "documents")
	require.NoError(t, err)

	engine, err := services.NewPricingEngine(services.DefaultPricingPolicy())
	require.NoError(t, err)
	price, err := engine.Price(10, pkg, order.UrgencyStandard)
	require.NoError(t, err)

	now := time.Now().UTC()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		order.NewTrackCode(),
		kernel.NewUUID(),
		"Tverskaya 1", "Arbat 12",
		originPoint(t), destinationPoint(t),
		pkg,
		order.UrgencyStandard,
		price,
		now.Add(2*time.Hour), now.Add(4*time.Hour),
		now,
	)
	require.NoError(t, err)
	return o
}

func assignedOrder(t *testing.T, courierID kernel.UUID) *order.Order {
	t.Helper()
	o := pendingOrder(t)
	require.NoError(t, o.Assign(courierID, time.Now().UTC()))
	return o
}

func activeAssignment(t *testing.T, orderID, courierID kernel.UUID, status assignment.Status) *assignment.Assignment {
	t.Helper()

	a, err := assignment.NewAssignment(
		kernel.NewUUID(), orderID, courierID,
		kernel.MustMoneyFromCents(415000),
		originPoint(t), destinationPoint(t),
		4.2, 8.5,
		time.Now().UTC(),
	)
	require.NoError(t, err)

	now := time.Now().UTC()
	switch status {
	case assignment.Accepted:
		require.NoError(t, a.Accept(now))
	case assignment.InProgress:
		require.NoError(t, a.Accept(now))
		require.NoError(t, a.Start(now))
	case assignment.Assigned:
	default:
		t.Fatalf("unsupported fixture status %s", status)
	}
	return a
}

func courierNearby(t *testing.T, origin kernel.GeoPoint, rating float64) courier.Summary {
	t.Helper()
	s, err := courier.NewSummary(kernel.NewUUID(), "Ivan", origin, rating, 20, 90, 100)
	require.NoError(t, err)
	return s
}
