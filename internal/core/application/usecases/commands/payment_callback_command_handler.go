package commands

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/payment"
	"dispatch/internal/core/ports"
)

// PaymentCallbackCommandHandler applies a gateway verdict to the ledger.
// The status advance is monotone: a late or duplicate callback reporting an
// already applied status is a no-op, a regressing one is rejected.
type PaymentCallbackCommandHandler struct {
	uowFactory LedgerUoWFactory
	analytics  ports.AnalyticsSink
	log        *slog.Logger
}

// NewPaymentCallbackCommandHandler creates a handler for gateway callbacks.
func NewPaymentCallbackCommandHandler(
	uowFactory LedgerUoWFactory,
	analytics ports.AnalyticsSink,
	log *slog.Logger,
) PaymentCallbackCommandHandler {
	return PaymentCallbackCommandHandler{
		uowFactory: uowFactory,
		analytics:  analytics,
		log:        log.With("component", "payment_callback"),
	}
}

// Handle applies one callback.
func (h *PaymentCallbackCommandHandler) Handle(ctx context.Context, cmd PaymentCallbackCommand) (*payment.Transaction, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	entry, err := uow.TransactionRepository().GetByReference(ctx, cmd.Reference())
	if err != nil {
		return nil, err
	}

	prior := entry.Status()
	if err = entry.AdvanceTo(cmd.Status(), cmd.AuthCode(), time.Now().UTC()); err != nil {
		return nil, err
	}

	if err = uow.TransactionRepository().Update(ctx, entry); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.log.InfoContext(ctx, "callback applied",
		"reference", entry.Reference(),
		"from", prior.String(),
		"to", entry.Status().String())
	h.analytics.Record(ctx, "payment.callback", map[string]any{
		"reference": entry.Reference(),
		"status":    entry.Status().String(),
	})
	return entry, nil
}
