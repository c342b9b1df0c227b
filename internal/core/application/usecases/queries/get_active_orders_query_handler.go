package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// GetActiveOrdersQueryHandler lists the active workload from the orders
// table: everything not yet delivered, cancelled, or failed, most urgent
// pickup first.
type GetActiveOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveOrdersQueryHandler creates a handler for active order queries.
func NewGetActiveOrdersQueryHandler(db *gorm.DB) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{db: db}
}

// Handle executes the query.
func (h GetActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrdersQuery,
) ([]GetActiveOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			track_code,
			status,
			urgency,
			courier_id,
			price_total_cents,
			pickup_deadline,
			delivery_deadline
		FROM orders
		WHERE status NOT IN (?, ?, ?)
		ORDER BY pickup_deadline
	`, int(order.Delivered), int(order.Cancelled), int(order.Failed)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]GetActiveOrdersQueryResponse, 0)
	for rows.Next() {
		var resp GetActiveOrdersQueryResponse
		var id uuid.UUID
		var courierID *uuid.UUID
		var status, urgency int

		err = rows.Scan(
			&id,
			&resp.TrackCode,
			&status,
			&urgency,
			&courierID,
			&resp.TotalCents,
			&resp.PickupDeadline,
			&resp.DeliveryDeadline,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = orderID

		if courierID != nil {
			cID, cErr := kernel.UUIDFromBytes((*courierID)[:])
			if cErr != nil {
				return nil, cErr
			}
			resp.CourierID = &cID
		}

		resp.Status = order.Status(status).String()
		resp.Urgency = order.Urgency(urgency).String()
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
