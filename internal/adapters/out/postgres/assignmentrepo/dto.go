// Package assignmentrepo persists assignment aggregates with GORM.
package assignmentrepo

import (
	"time"

	"github.com/google/uuid"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
)

// AssignmentDTO represents the database structure for persisting assignment
// aggregates. UpdatedAt feeds the staleness scan of the sweep job.
type AssignmentDTO struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID              uuid.UUID `gorm:"type:uuid;index"`
	CourierID            uuid.UUID `gorm:"type:uuid;index"`
	Status               int       `gorm:"index"`
	AmountCents          int64     `gorm:"type:bigint"`
	PickupLat            float64
	PickupLng            float64
	DropoffLat           float64
	DropoffLng           float64
	EstimatedDistanceKm  float64
	EstimatedDurationMin float64
	ActualDurationMin    *float64
	AssignedAt           time.Time
	AcceptedAt           *time.Time
	StartedAt            *time.Time
	CompletedAt          *time.Time
	CancelledAt          *time.Time
	UpdatedAt            time.Time
}

// TableName specifies the database table name for assignment entities.
func (AssignmentDTO) TableName() string {
	return "assignments"
}

// fromDomain converts an assignment aggregate to its database representation.
func fromDomain(aggregate *assignment.Assignment) AssignmentDTO {
	return AssignmentDTO{
		ID:                   aggregate.ID().Bytes(),
		OrderID:              aggregate.OrderID().Bytes(),
		CourierID:            aggregate.CourierID().Bytes(),
		Status:               int(aggregate.Status()),
		AmountCents:          aggregate.Amount().Cents(),
		PickupLat:            aggregate.PickupPoint().Lat(),
		PickupLng:            aggregate.PickupPoint().Lng(),
		DropoffLat:           aggregate.DropoffPoint().Lat(),
		DropoffLng:           aggregate.DropoffPoint().Lng(),
		EstimatedDistanceKm:  aggregate.EstimatedDistanceKm(),
		EstimatedDurationMin: aggregate.EstimatedDurationMin(),
		ActualDurationMin:    aggregate.ActualDurationMin(),
		AssignedAt:           aggregate.AssignedAt(),
		AcceptedAt:           aggregate.AcceptedAt(),
		StartedAt:            aggregate.StartedAt(),
		CompletedAt:          aggregate.CompletedAt(),
		CancelledAt:          aggregate.CancelledAt(),
	}
}

// toDomain converts a database row back into an assignment aggregate.
func toDomain(dto AssignmentDTO) (*assignment.Assignment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return nil, err
	}

	amount, err := kernel.NewMoneyFromCents(dto.AmountCents)
	if err != nil {
		return nil, err
	}
	pickupPoint, err := kernel.NewGeoPoint(dto.PickupLat, dto.PickupLng)
	if err != nil {
		return nil, err
	}
	dropoffPoint, err := kernel.NewGeoPoint(dto.DropoffLat, dto.DropoffLng)
	if err != nil {
		return nil, err
	}

	return assignment.RestoreAssignment(
		id, orderID, courierID,
		assignment.Status(dto.Status),
		amount,
		pickupPoint, dropoffPoint,
		dto.EstimatedDistanceKm, dto.EstimatedDurationMin,
		dto.ActualDurationMin,
		dto.AssignedAt,
		dto.AcceptedAt, dto.StartedAt, dto.CompletedAt, dto.CancelledAt,
	)
}
