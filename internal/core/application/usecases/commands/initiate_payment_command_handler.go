package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/payment"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// InitiatePaymentCommandHandler opens the settlement of an order.
//
// The operation is idempotent per order: a repeat initiation finds the
// existing live entry and returns it instead of creating a second one; only
// a failed or cancelled attempt may be initiated again. Entry creation and
// any wallet debit share one transaction.
type InitiatePaymentCommandHandler struct {
	uowFactory        SettlementUoWFactory
	gateway           ports.PaymentGateway
	platformAccountID kernel.UUID
	analytics         ports.AnalyticsSink
	log               *slog.Logger
}

// NewInitiatePaymentCommandHandler creates a handler for payment initiation.
func NewInitiatePaymentCommandHandler(
	uowFactory SettlementUoWFactory,
	gateway ports.PaymentGateway,
	platformAccountID kernel.UUID,
	analytics ports.AnalyticsSink,
	log *slog.Logger,
) InitiatePaymentCommandHandler {
	return InitiatePaymentCommandHandler{
		uowFactory:        uowFactory,
		gateway:           gateway,
		platformAccountID: platformAccountID,
		analytics:         analytics,
		log:               log.With("component", "initiate_payment"),
	}
}

// Handle processes the initiation. A gateway rejection leaves the entry
// recorded as failed and surfaces a PaymentFailedError; a gateway timeout
// leaves the entry pending for the reconciliation job and reports the
// timeout to the caller, who may retry safely.
func (h *InitiatePaymentCommandHandler) Handle(ctx context.Context, cmd InitiatePaymentCommand) (*payment.Transaction, error) {
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

	paid, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if !cmd.Amount().IsEqual(paid.Price().Total()) {
		return nil, errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%s does not match the order total %s", cmd.Amount(), paid.Price().Total()))
	}

	entries, err := uow.TransactionRepository().GetByOrder(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.Type() != payment.OrderPayment {
			continue
		}
		if entry.Status() != payment.Failed && entry.Status() != payment.Cancelled {
			return entry, nil
		}
	}

	now := time.Now().UTC()
	orderID := cmd.OrderID()
	entry, err := payment.NewTransaction(
		kernel.NewUUID(), &orderID,
		paid.CustomerID(), h.platformAccountID,
		payment.OrderPayment, cmd.Method(),
		cmd.Amount(), paid.Price().Platform(),
		now,
	)
	if err != nil {
		return nil, err
	}

	var backendErr error
	switch cmd.Method() {
	case payment.Card:
		backendErr = h.chargeCard(ctx, entry, now)
	case payment.Wallet:
		backendErr = h.debitWallet(ctx, uow, entry, paid.CustomerID(), now)
	case payment.Cash:
		// Acknowledged on handover; completes at delivery settlement.
	}
	if backendErr != nil && !errors.Is(backendErr, errs.ErrPaymentFailed) &&
		!errors.Is(backendErr, errs.ErrDownstreamTimeout) {
		return nil, backendErr
	}

	if err = uow.TransactionRepository().Add(ctx, entry); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.analytics.Record(ctx, "payment.initiated", map[string]any{
		"order_id":  cmd.OrderID().String(),
		"reference": entry.Reference(),
		"method":    cmd.Method().String(),
		"status":    entry.Status().String(),
		"amount":    entry.Amount().String(),
	})
	return entry, backendErr
}

// chargeCard submits the charge. Rejections mark the entry failed and keep
// the PaymentFailedError; timeouts leave it pending.
func (h *InitiatePaymentCommandHandler) chargeCard(ctx context.Context, entry *payment.Transaction, now time.Time) error {
	result, err := h.gateway.Charge(ctx, entry.Reference(), entry.Amount(), payment.Card)
	switch {
	case errors.Is(err, errs.ErrPaymentFailed):
		if failErr := entry.Fail(now); failErr != nil {
			return failErr
		}
		return err
	case errors.Is(err, errs.ErrDownstreamTimeout):
		h.log.WarnContext(ctx, "gateway timeout, entry left pending",
			"reference", entry.Reference())
		return err
	case err != nil:
		return err
	}

	if err = entry.MarkProcessing(result.GatewayRef); err != nil {
		return err
	}
	if result.AuthCode != "" {
		return entry.Complete(result.AuthCode, now)
	}
	return nil
}

// debitWallet debits the payer and completes the entry in one transaction.
// Insufficient balance aborts everything: no entry, no balance change.
func (h *InitiatePaymentCommandHandler) debitWallet(
	ctx context.Context,
	uow SettlementUoW,
	entry *payment.Transaction,
	payerID kernel.UUID,
	now time.Time,
) error {
	wallet, err := uow.WalletRepository().GetByOwner(ctx, payerID)
	if err != nil {
		return err
	}
	if err = wallet.Debit(entry.Amount(), now); err != nil {
		return err
	}
	if err = uow.WalletRepository().Update(ctx, wallet); err != nil {
		return err
	}
	return entry.Complete("", now)
}
