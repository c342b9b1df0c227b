package http

import (
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/payment"
)

// ErrorResponse is the uniform error body of the API.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CreateOrderRequest is the body of POST /api/v1/orders.
type CreateOrderRequest struct {
	CustomerID         string  `json:"customer_id"`
	OriginAddress      string  `json:"origin_address"`
	DestinationAddress string  `json:"destination_address"`
	SizeClass          string  `json:"size_class"`
	WeightKg           float64 `json:"weight_kg"`
	DeclaredValueCents int64   `json:"declared_value_cents"`
	Category           string  `json:"category"`
	Urgency            string  `json:"urgency"`
}

// UpdateOrderStatusRequest is the body of PATCH /api/v1/orders/:id/status.
// Lat and Lng optionally pin the transition to a location, recorded in the
// order timeline.
type UpdateOrderStatusRequest struct {
	Status string   `json:"status"`
	Lat    *float64 `json:"lat,omitempty"`
	Lng    *float64 `json:"lng,omitempty"`
}

// UpdateAssignmentStatusRequest is the body of
// PATCH /api/v1/assignments/:id/status.
type UpdateAssignmentStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

// InitiatePaymentRequest is the body of POST /api/v1/payments.
type InitiatePaymentRequest struct {
	OrderID     string `json:"order_id"`
	Method      string `json:"method"`
	AmountCents int64  `json:"amount_cents"`
}

// PaymentCallbackRequest is the body of POST /api/v1/payments/callback,
// the gateway's asynchronous verdict on a processing charge.
type PaymentCallbackRequest struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	AuthCode  string `json:"auth_code,omitempty"`
}

// TopUpWalletRequest is the body of POST /api/v1/wallets/:id/topup.
type TopUpWalletRequest struct {
	AmountCents int64 `json:"amount_cents"`
}

// PriceResponse breaks an order's price into its components. All amounts
// are integer cents.
type PriceResponse struct {
	BaseCents      int64 `json:"base_cents"`
	DistanceCents  int64 `json:"distance_cents"`
	SizeCents      int64 `json:"size_cents"`
	UrgencyCents   int64 `json:"urgency_cents"`
	InsuranceCents int64 `json:"insurance_cents"`
	PlatformCents  int64 `json:"platform_cents"`
	TotalCents     int64 `json:"total_cents"`
}

// OrderResponse is the API view of an order.
type OrderResponse struct {
	ID               string        `json:"id"`
	TrackCode        string        `json:"track_code"`
	CustomerID       string        `json:"customer_id"`
	CourierID        *string       `json:"courier_id,omitempty"`
	Status           string        `json:"status"`
	Urgency          string        `json:"urgency"`
	Price            PriceResponse `json:"price"`
	PickupDeadline   time.Time     `json:"pickup_deadline"`
	DeliveryDeadline time.Time     `json:"delivery_deadline"`
	PickedUpAt       *time.Time    `json:"picked_up_at,omitempty"`
	DeliveredAt      *time.Time    `json:"delivered_at,omitempty"`
}

// AssignmentResponse is the API view of a courier assignment.
type AssignmentResponse struct {
	ID                   string     `json:"id"`
	OrderID              string     `json:"order_id"`
	CourierID            string     `json:"courier_id"`
	Status               string     `json:"status"`
	AmountCents          int64      `json:"amount_cents"`
	EstimatedDistanceKm  float64    `json:"estimated_distance_km"`
	EstimatedDurationMin float64    `json:"estimated_duration_min"`
	AssignedAt           time.Time  `json:"assigned_at"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
}

// TransactionResponse is the API view of a ledger entry.
type TransactionResponse struct {
	ID               string     `json:"id"`
	Reference        string     `json:"reference"`
	OrderID          *string    `json:"order_id,omitempty"`
	Type             string     `json:"type"`
	Method           string     `json:"method"`
	Status           string     `json:"status"`
	AmountCents      int64      `json:"amount_cents"`
	PlatformFeeCents int64      `json:"platform_fee_cents"`
	InitiatedAt      time.Time  `json:"initiated_at"`
	DecidedAt        *time.Time `json:"decided_at,omitempty"`
}

func orderResponse(o *order.Order) OrderResponse {
	resp := OrderResponse{
		ID:         o.ID().String(),
		TrackCode:  o.TrackCode(),
		CustomerID: o.CustomerID().String(),
		Status:     o.Status().String(),
		Urgency:    o.Urgency().String(),
		Price: PriceResponse{
			BaseCents:      o.Price().Base().Cents(),
			DistanceCents:  o.Price().Distance().Cents(),
			SizeCents:      o.Price().Size().Cents(),
			UrgencyCents:   o.Price().Urgency().Cents(),
			InsuranceCents: o.Price().Insurance().Cents(),
			PlatformCents:  o.Price().Platform().Cents(),
			TotalCents:     o.Price().Total().Cents(),
		},
		PickupDeadline:   o.PickupDeadline(),
		DeliveryDeadline: o.DeliveryDeadline(),
		PickedUpAt:       o.PickedUpAt(),
		DeliveredAt:      o.DeliveredAt(),
	}
	if courierID := o.CourierID(); courierID != nil {
		s := courierID.String()
		resp.CourierID = &s
	}
	return resp
}

func assignmentResponse(a *assignment.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:                   a.ID().String(),
		OrderID:              a.OrderID().String(),
		CourierID:            a.CourierID().String(),
		Status:               a.Status().String(),
		AmountCents:          a.Amount().Cents(),
		EstimatedDistanceKm:  a.EstimatedDistanceKm(),
		EstimatedDurationMin: a.EstimatedDurationMin(),
		AssignedAt:           a.AssignedAt(),
		CompletedAt:          a.CompletedAt(),
	}
}

func transactionResponse(t *payment.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:               t.ID().String(),
		Reference:        t.Reference(),
		Type:             t.Type().String(),
		Method:           t.Method().String(),
		Status:           t.Status().String(),
		AmountCents:      t.Amount().Cents(),
		PlatformFeeCents: t.PlatformFee().Cents(),
		InitiatedAt:      t.InitiatedAt(),
		DecidedAt:        t.DecidedAt(),
	}
	if orderID := t.OrderID(); orderID != nil {
		s := orderID.String()
		resp.OrderID = &s
	}
	return resp
}
