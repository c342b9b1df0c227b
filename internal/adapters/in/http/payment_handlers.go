package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/payment"
	"dispatch/internal/observability/metrics"
)

// InitiatePayment handles POST /api/v1/payments.
func (s *Server) InitiatePayment(ctx echo.Context) error {
	var req InitiatePaymentRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return badRequest(ctx, "invalid order_id: "+err.Error())
	}
	method, err := payment.MethodFromString(req.Method)
	if err != nil {
		return errorResponse(ctx, err)
	}
	amount, err := kernel.NewMoneyFromCents(req.AmountCents)
	if err != nil {
		return errorResponse(ctx, err)
	}

	cmd, err := commands.NewInitiatePaymentCommand(orderID, method, amount)
	if err != nil {
		return errorResponse(ctx, err)
	}

	entry, err := s.initiatePaymentHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		metrics.PaymentsFailedTotal.Inc()
		return errorResponse(ctx, err)
	}

	if entry.Status() == payment.Completed {
		metrics.PaymentsCompletedTotal.Inc()
	}
	return ctx.JSON(http.StatusCreated, transactionResponse(entry))
}

// PaymentCallback handles POST /api/v1/payments/callback, the gateway's
// asynchronous verdict on a charge left in processing.
func (s *Server) PaymentCallback(ctx echo.Context) error {
	var req PaymentCallbackRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	status, err := payment.StatusFromString(req.Status)
	if err != nil {
		return errorResponse(ctx, err)
	}

	cmd, err := commands.NewPaymentCallbackCommand(req.Reference, status, req.AuthCode)
	if err != nil {
		return errorResponse(ctx, err)
	}

	entry, err := s.paymentCallbackHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}

	switch entry.Status() {
	case payment.Completed:
		metrics.PaymentsCompletedTotal.Inc()
	case payment.Failed:
		metrics.PaymentsFailedTotal.Inc()
	}
	return ctx.JSON(http.StatusOK, transactionResponse(entry))
}

// TopUpWallet handles POST /api/v1/wallets/:id/topup. The path id is the
// wallet owner, not the wallet account.
func (s *Server) TopUpWallet(ctx echo.Context) error {
	ownerID, err := pathUUID(ctx, "id")
	if err != nil {
		return badRequest(ctx, "invalid owner id: "+err.Error())
	}

	var req TopUpWalletRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	amount, err := kernel.NewMoneyFromCents(req.AmountCents)
	if err != nil {
		return errorResponse(ctx, err)
	}

	cmd, err := commands.NewTopUpWalletCommand(ownerID, amount)
	if err != nil {
		return errorResponse(ctx, err)
	}

	entry, err := s.topUpWalletHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}

	metrics.PaymentsCompletedTotal.Inc()
	return ctx.JSON(http.StatusCreated, transactionResponse(entry))
}
