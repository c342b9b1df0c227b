// Package courierdir exposes the courier pool to the dispatch engine. The
// is_available column is the contended availability flag; claiming is a
// conditional update so two racing dispatches can never hold the same
// courier.
package courierdir

import (
	"github.com/google/uuid"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// CourierDTO represents the database structure for courier pool rows.
type CourierDTO struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name                string
	Lat                 float64
	Lng                 float64
	Rating              float64
	CapacityKg          float64
	CompletedDeliveries int
	TotalDeliveries     int
	IsAvailable         bool `gorm:"index"`
}

// TableName specifies the database table name for courier rows.
func (CourierDTO) TableName() string {
	return "couriers"
}

// fromDomain converts a courier snapshot to its database representation.
// New couriers start available.
func fromDomain(summary courier.Summary) CourierDTO {
	return CourierDTO{
		ID:                  summary.ID().Bytes(),
		Name:                summary.Name(),
		Lat:                 summary.Location().Lat(),
		Lng:                 summary.Location().Lng(),
		Rating:              summary.Rating(),
		CapacityKg:          summary.CapacityKg(),
		CompletedDeliveries: summary.CompletedDeliveries(),
		TotalDeliveries:     summary.TotalDeliveries(),
		IsAvailable:         true,
	}
}

// toDomain converts a database row to a courier snapshot.
func toDomain(dto CourierDTO) (courier.Summary, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return courier.Summary{}, err
	}
	location, err := kernel.NewGeoPoint(dto.Lat, dto.Lng)
	if err != nil {
		return courier.Summary{}, err
	}

	return courier.NewSummary(
		id, dto.Name, location,
		dto.Rating, dto.CapacityKg,
		dto.CompletedDeliveries, dto.TotalDeliveries,
	)
}
