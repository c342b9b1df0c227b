package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"dispatch/internal/core/application/usecases/queries"
)

// TrackingResponse is the public tracking view of an order.
type TrackingResponse struct {
	ID               string                          `json:"id"`
	TrackCode        string                          `json:"track_code"`
	Status           string                          `json:"status"`
	Urgency          string                          `json:"urgency"`
	CourierAssigned  bool                            `json:"courier_assigned"`
	TotalCents       int64                           `json:"total_cents"`
	PickupDeadline   time.Time                       `json:"pickup_deadline"`
	DeliveryDeadline time.Time                       `json:"delivery_deadline"`
	PickedUpAt       *time.Time                      `json:"picked_up_at,omitempty"`
	DeliveredAt      *time.Time                      `json:"delivered_at,omitempty"`
	Timeline         []queries.TimelineEventResponse `json:"timeline"`
}

// ActiveOrderResponse is one order in the dashboard list.
type ActiveOrderResponse struct {
	ID               string    `json:"id"`
	TrackCode        string    `json:"track_code"`
	Status           string    `json:"status"`
	Urgency          string    `json:"urgency"`
	CourierID        *string   `json:"courier_id,omitempty"`
	TotalCents       int64     `json:"total_cents"`
	PickupDeadline   time.Time `json:"pickup_deadline"`
	DeliveryDeadline time.Time `json:"delivery_deadline"`
}

// GetOrderByTrackCode handles GET /api/v1/orders/:trackCode, the public
// tracking endpoint.
func (s *Server) GetOrderByTrackCode(ctx echo.Context) error {
	query, err := queries.NewGetOrderByTrackCodeQuery(ctx.Param("trackCode"))
	if err != nil {
		return errorResponse(ctx, err)
	}

	view, err := s.getOrderByTrackCodeHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	timeline := view.Timeline
	if timeline == nil {
		timeline = []queries.TimelineEventResponse{}
	}
	return ctx.JSON(http.StatusOK, TrackingResponse{
		ID:               view.ID.String(),
		TrackCode:        view.TrackCode,
		Status:           view.Status,
		Urgency:          view.Urgency,
		CourierAssigned:  view.CourierAssigned,
		TotalCents:       view.TotalCents,
		PickupDeadline:   view.PickupDeadline,
		DeliveryDeadline: view.DeliveryDeadline,
		PickedUpAt:       view.PickedUpAt,
		DeliveredAt:      view.DeliveredAt,
		Timeline:         timeline,
	})
}

// GetActiveOrders handles GET /api/v1/orders, the operational dashboard
// list of every order not yet terminal.
func (s *Server) GetActiveOrders(ctx echo.Context) error {
	query := queries.NewGetActiveOrdersQuery()

	orders, err := s.getActiveOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := make([]ActiveOrderResponse, len(orders))
	for i, view := range orders {
		response[i] = ActiveOrderResponse{
			ID:               view.ID.String(),
			TrackCode:        view.TrackCode,
			Status:           view.Status,
			Urgency:          view.Urgency,
			TotalCents:       view.TotalCents,
			PickupDeadline:   view.PickupDeadline,
			DeliveryDeadline: view.DeliveryDeadline,
		}
		if view.CourierID != nil {
			id := view.CourierID.String()
			response[i].CourierID = &id
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetTransactionByReference handles GET /api/v1/payments/:reference.
func (s *Server) GetTransactionByReference(ctx echo.Context) error {
	query, err := queries.NewGetTransactionByReferenceQuery(ctx.Param("reference"))
	if err != nil {
		return errorResponse(ctx, err)
	}

	view, err := s.getTransactionByReferenceHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := TransactionResponse{
		ID:               view.ID.String(),
		Reference:        view.Reference,
		Type:             view.Type,
		Method:           view.Method,
		Status:           view.Status,
		AmountCents:      view.AmountCents,
		PlatformFeeCents: view.PlatformFeeCents,
		InitiatedAt:      view.InitiatedAt,
		DecidedAt:        view.DecidedAt,
	}
	if view.OrderID != nil {
		id := view.OrderID.String()
		response.OrderID = &id
	}
	return ctx.JSON(http.StatusOK, response)
}
