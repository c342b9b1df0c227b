package queries

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// GetOrderByTrackCodeQueryHandler serves the public tracking lookup straight
// from the orders table, timeline included.
type GetOrderByTrackCodeQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderByTrackCodeQueryHandler creates a handler for tracking lookups.
func NewGetOrderByTrackCodeQueryHandler(db *gorm.DB) GetOrderByTrackCodeQueryHandler {
	return GetOrderByTrackCodeQueryHandler{db: db}
}

// timelineRecord mirrors the serialized timeline column.
type timelineRecord struct {
	Status      int       `json:"status"`
	At          time.Time `json:"at"`
	Description string    `json:"description"`
}

// Handle executes the tracking lookup. Returns ObjectNotFoundError for an
// unknown track code.
func (h GetOrderByTrackCodeQueryHandler) Handle(
	ctx context.Context,
	query GetOrderByTrackCodeQuery,
) (GetOrderByTrackCodeQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderByTrackCodeQueryResponse{}, err
	}

	var row struct {
		ID               uuid.UUID
		TrackCode        string
		Status           int
		Urgency          int
		CourierID        *uuid.UUID
		PriceTotalCents  int64
		PickupDeadline   time.Time
		DeliveryDeadline time.Time
		PickedUpAt       *time.Time
		DeliveredAt      *time.Time
		Timeline         []byte
	}

	err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			track_code,
			status,
			urgency,
			courier_id,
			price_total_cents,
			pickup_deadline,
			delivery_deadline,
			picked_up_at,
			delivered_at,
			timeline
		FROM orders
		WHERE track_code = ?
	`, query.TrackCode()).Scan(&row).Error
	if err != nil {
		return GetOrderByTrackCodeQueryResponse{}, err
	}
	if row.TrackCode == "" {
		return GetOrderByTrackCodeQueryResponse{},
			errs.NewObjectNotFoundError("order", query.TrackCode())
	}

	id, err := kernel.UUIDFromBytes(row.ID[:])
	if err != nil {
		return GetOrderByTrackCodeQueryResponse{}, err
	}

	var records []timelineRecord
	if len(row.Timeline) > 0 {
		if err = json.Unmarshal(row.Timeline, &records); err != nil {
			return GetOrderByTrackCodeQueryResponse{}, err
		}
	}
	timeline := make([]TimelineEventResponse, 0, len(records))
	for _, record := range records {
		timeline = append(timeline, TimelineEventResponse{
			Status:      order.Status(record.Status).String(),
			At:          record.At,
			Description: record.Description,
		})
	}

	return GetOrderByTrackCodeQueryResponse{
		ID:               id,
		TrackCode:        row.TrackCode,
		Status:           order.Status(row.Status).String(),
		Urgency:          order.Urgency(row.Urgency).String(),
		CourierAssigned:  row.CourierID != nil,
		TotalCents:       row.PriceTotalCents,
		PickupDeadline:   row.PickupDeadline,
		DeliveryDeadline: row.DeliveryDeadline,
		PickedUpAt:       row.PickedUpAt,
		DeliveredAt:      row.DeliveredAt,
		Timeline:         timeline,
	}, nil
}
