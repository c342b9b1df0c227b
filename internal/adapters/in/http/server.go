package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/observability/metrics"
	"dispatch/internal/pkg/errs"
)

// Server exposes the marketplace operations over HTTP. It translates wire
// requests into commands and queries, and error kinds into status codes;
// all business rules live behind the handlers it calls.
type Server struct {
	createOrderHandler            commands.CreateOrderCommandHandler
	requestAssignmentHandler      commands.RequestAssignmentCommandHandler
	updateOrderStatusHandler      commands.UpdateOrderStatusCommandHandler
	updateAssignmentStatusHandler commands.UpdateAssignmentStatusCommandHandler
	initiatePaymentHandler        commands.InitiatePaymentCommandHandler
	paymentCallbackHandler        commands.PaymentCallbackCommandHandler
	topUpWalletHandler            commands.TopUpWalletCommandHandler

	getOrderByTrackCodeHandler       queries.GetOrderByTrackCodeQueryHandler
	getActiveOrdersHandler           queries.GetActiveOrdersQueryHandler
	getTransactionByReferenceHandler queries.GetTransactionByReferenceQueryHandler
}

// NewServer creates the HTTP server with all command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	requestAssignmentHandler commands.RequestAssignmentCommandHandler,
	updateOrderStatusHandler commands.UpdateOrderStatusCommandHandler,
	updateAssignmentStatusHandler commands.UpdateAssignmentStatusCommandHandler,
	initiatePaymentHandler commands.InitiatePaymentCommandHandler,
	paymentCallbackHandler commands.PaymentCallbackCommandHandler,
	topUpWalletHandler commands.TopUpWalletCommandHandler,
	getOrderByTrackCodeHandler queries.GetOrderByTrackCodeQueryHandler,
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler,
	getTransactionByReferenceHandler queries.GetTransactionByReferenceQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:            createOrderHandler,
		requestAssignmentHandler:      requestAssignmentHandler,
		updateOrderStatusHandler:      updateOrderStatusHandler,
		updateAssignmentStatusHandler: updateAssignmentStatusHandler,
		initiatePaymentHandler:        initiatePaymentHandler,
		paymentCallbackHandler:        paymentCallbackHandler,
		topUpWalletHandler:            topUpWalletHandler,

		getOrderByTrackCodeHandler:       getOrderByTrackCodeHandler,
		getActiveOrdersHandler:           getActiveOrdersHandler,
		getTransactionByReferenceHandler: getTransactionByReferenceHandler,
	}
}

// NewEcho builds an echo instance with the server's routes, recovery, and
// request metrics wired.
func (s *Server) NewEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(requestMetrics())

	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders", s.GetActiveOrders)
	api.GET("/orders/:trackCode", s.GetOrderByTrackCode)
	api.POST("/orders/:id/assignment", s.RequestAssignment)
	api.PATCH("/orders/:id/status", s.UpdateOrderStatus)
	api.PATCH("/assignments/:id/status", s.UpdateAssignmentStatus)
	api.POST("/payments", s.InitiatePayment)
	api.POST("/payments/callback", s.PaymentCallback)
	api.GET("/payments/:reference", s.GetTransactionByReference)
	api.POST("/wallets/:id/topup", s.TopUpWallet)

	e.GET("/health", s.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// errorResponse maps an error to the API's status code convention:
// malformed input or a rejected transition is 400, a missing object 404, a
// lost race or duplicate reference 409, an order no courier can take 422,
// and everything else 500.
func errorResponse(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrConflict):
		code = http.StatusConflict
	case errors.Is(err, errs.ErrNoCourierAvailable),
		errors.Is(err, errs.ErrInsufficientBalance),
		errors.Is(err, errs.ErrPaymentFailed):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		code = http.StatusBadRequest
	}
	return ctx.JSON(code, ErrorResponse{Code: code, Message: err.Error()})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param(name))
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req CreateOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	customerID, err := kernel.UUIDFromString(req.CustomerID)
	if err != nil {
		return badRequest(ctx, "invalid customer_id: "+err.Error())
	}
	sizeClass, err := order.SizeClassFromString(req.SizeClass)
	if err != nil {
		return errorResponse(ctx, err)
	}
	urgency, err := order.UrgencyFromString(req.Urgency)
	if err != nil {
		return errorResponse(ctx, err)
	}
	declaredValue, err := kernel.NewMoneyFromCents(req.DeclaredValueCents)
	if err != nil {
		return errorResponse(ctx, err)
	}

	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), customerID,
		req.OriginAddress, req.DestinationAddress,
		sizeClass, req.WeightKg, declaredValue, req.Category, urgency)
	if err != nil {
		return errorResponse(ctx, err)
	}

	created, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}

	metrics.OrdersCreatedTotal.Inc()
	return ctx.JSON(http.StatusCreated, orderResponse(created))
}

// RequestAssignment handles POST /api/v1/orders/:id/assignment.
func (s *Server) RequestAssignment(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return badRequest(ctx, "invalid order id: "+err.Error())
	}

	cmd, err := commands.NewRequestAssignmentCommand(orderID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	created, err := s.requestAssignmentHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}

	metrics.AssignmentsCreatedTotal.Inc()
	return ctx.JSON(http.StatusCreated, assignmentResponse(created))
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:id/status.
func (s *Server) UpdateOrderStatus(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return badRequest(ctx, "invalid order id: "+err.Error())
	}

	var req UpdateOrderStatusRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	newStatus, err := order.StatusFromString(req.Status)
	if err != nil {
		return errorResponse(ctx, err)
	}

	var point *kernel.GeoPoint
	if req.Lat != nil && req.Lng != nil {
		p, pointErr := kernel.NewGeoPoint(*req.Lat, *req.Lng)
		if pointErr != nil {
			return errorResponse(ctx, pointErr)
		}
		point = &p
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, newStatus, point)
	if err != nil {
		return errorResponse(ctx, err)
	}

	updated, err := s.updateOrderStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if updated.Status() == order.Delivered {
		metrics.DeliveriesCompletedTotal.Inc()
	}
	return ctx.JSON(http.StatusOK, orderResponse(updated))
}

// UpdateAssignmentStatus handles PATCH /api/v1/assignments/:id/status.
func (s *Server) UpdateAssignmentStatus(ctx echo.Context) error {
	assignmentID, err := pathUUID(ctx, "id")
	if err != nil {
		return badRequest(ctx, "invalid assignment id: "+err.Error())
	}

	var req UpdateAssignmentStatusRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	newStatus, err := assignment.StatusFromString(req.Status)
	if err != nil {
		return errorResponse(ctx, err)
	}

	cmd, err := commands.NewUpdateAssignmentStatusCommand(assignmentID, newStatus, req.Notes)
	if err != nil {
		return errorResponse(ctx, err)
	}

	updated, err := s.updateAssignmentStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, assignmentResponse(updated))
}
