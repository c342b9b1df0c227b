package courierdir

import (
	"context"
	"errors"
	"math"

	"gorm.io/gorm"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// kmPerLatDegree is the approximate north-south span of one degree.
const kmPerLatDegree = 111.0

// GormCourierDirectory implements ports.CourierDirectory using GORM.
type GormCourierDirectory struct {
	db *gorm.DB
}

// NewGormCourierDirectory creates a courier directory backed by Postgres.
func NewGormCourierDirectory(db *gorm.DB) *GormCourierDirectory {
	return &GormCourierDirectory{db: db}
}

// Add registers a courier in the pool, available for work.
func (d *GormCourierDirectory) Add(ctx context.Context, summary courier.Summary) error {
	if err := summary.Validate(); err != nil {
		return err
	}

	dto := fromDomain(summary)
	if err := d.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause("courier "+summary.ID().String(), err)
		}
		return err
	}
	return nil
}

// FindAvailableNearby returns snapshots of available couriers within
// radiusKm of the point. A bounding box narrows the scan in SQL; the exact
// great-circle distance filters the remainder.
func (d *GormCourierDirectory) FindAvailableNearby(ctx context.Context, point kernel.GeoPoint, radiusKm float64) ([]courier.Summary, error) {
	if radiusKm <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("radiusKm", radiusKm, 0, math.MaxFloat64)
	}

	latDelta := radiusKm / kmPerLatDegree
	lngDelta := latDelta / math.Cos(point.Lat()*math.Pi/180)
	if lngDelta < 0 {
		lngDelta = -lngDelta
	}

	var dtos []CourierDTO
	err := d.db.WithContext(ctx).
		Where("is_available = ? AND lat BETWEEN ? AND ? AND lng BETWEEN ? AND ?",
			true,
			point.Lat()-latDelta, point.Lat()+latDelta,
			point.Lng()-lngDelta, point.Lng()+lngDelta).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]courier.Summary, 0, len(dtos))
	for _, dto := range dtos {
		summary, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		distanceKm, err := summary.Location().DistanceKm(point)
		if err != nil {
			return nil, err
		}
		if distanceKm > radiusKm {
			continue
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// Claim atomically flips the courier from available to busy. The WHERE
// clause on is_available makes the flip a compare-and-set: a lost race
// matches zero rows and reports false.
func (d *GormCourierDirectory) Claim(ctx context.Context, courierID kernel.UUID) (bool, error) {
	if err := courierID.Validate(); err != nil {
		return false, err
	}

	result := d.db.WithContext(ctx).
		Model(&CourierDTO{}).
		Where("id = ? AND is_available = ?", courierID.Bytes(), true).
		Update("is_available", false)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// Release flips the courier back to available. Idempotent.
func (d *GormCourierDirectory) Release(ctx context.Context, courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	return d.db.WithContext(ctx).
		Model(&CourierDTO{}).
		Where("id = ?", courierID.Bytes()).
		Update("is_available", true).Error
}

// RecordOutcome bumps the courier's delivery counters after a terminal
// assignment.
func (d *GormCourierDirectory) RecordOutcome(ctx context.Context, courierID kernel.UUID, completed bool) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	updates := map[string]any{
		"total_deliveries": gorm.Expr("total_deliveries + 1"),
	}
	if completed {
		updates["completed_deliveries"] = gorm.Expr("completed_deliveries + 1")
	}

	result := d.db.WithContext(ctx).
		Model(&CourierDTO{}).
		Where("id = ?", courierID.Bytes()).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("courier", courierID.String())
	}

	return nil
}
