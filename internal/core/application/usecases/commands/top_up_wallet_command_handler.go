package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/payment"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// TopUpWalletCommandHandler charges the owner's card through the gateway and
// credits the wallet.
//
// The pending ledger entry commits before the gateway sees its reference, so
// the reference a charge may have moved money under is never lost: if the
// handler dies between charge and completion, the durable entry lets a
// repair re-issue the charge under the same reference and the gateway
// replays the recorded outcome instead of charging twice. The balance
// change and the entry's completion commit together.
type TopUpWalletCommandHandler struct {
	uowFactory LedgerUoWFactory
	gateway    ports.PaymentGateway
	log        *slog.Logger
}

// NewTopUpWalletCommandHandler creates a handler for wallet top-ups.
func NewTopUpWalletCommandHandler(
	uowFactory LedgerUoWFactory,
	gateway ports.PaymentGateway,
	log *slog.Logger,
) TopUpWalletCommandHandler {
	return TopUpWalletCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		log:        log.With("component", "top_up_wallet"),
	}
}

// Handle processes one top-up.
func (h *TopUpWalletCommandHandler) Handle(ctx context.Context, cmd TopUpWalletCommand) (*payment.Transaction, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry, err := payment.NewTransaction(
		kernel.NewUUID(), nil,
		cmd.OwnerID(), cmd.OwnerID(),
		payment.WalletTopUp, payment.Card,
		cmd.Amount(), kernel.Money{},
		now,
	)
	if err != nil {
		return nil, err
	}

	if err = h.persistPending(ctx, entry); err != nil {
		return nil, err
	}

	result, err := h.gateway.Charge(ctx, entry.Reference(), cmd.Amount(), payment.Card)
	if err != nil {
		return entry, h.recordChargeFailure(ctx, entry, err, now)
	}
	if err = entry.MarkProcessing(result.GatewayRef); err != nil {
		return nil, err
	}
	if err = entry.Complete(result.AuthCode, now); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = h.credit(ctx, uow, cmd, now); err != nil {
		return nil, err
	}
	if err = uow.TransactionRepository().Update(ctx, entry); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.log.InfoContext(ctx, "wallet topped up",
		"owner_id", cmd.OwnerID().String(),
		"reference", entry.Reference(),
		"amount", cmd.Amount().String())
	return entry, nil
}

// persistPending commits the entry before the charge so its reference is
// durable no matter what happens at the gateway.
func (h *TopUpWalletCommandHandler) persistPending(ctx context.Context, entry *payment.Transaction) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.TransactionRepository().Add(ctx, entry); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

// recordChargeFailure marks a declined entry failed; a timeout leaves it
// pending for a later retry of the same reference. The original gateway
// error is what the caller sees either way.
func (h *TopUpWalletCommandHandler) recordChargeFailure(ctx context.Context, entry *payment.Transaction, chargeErr error, now time.Time) error {
	if errors.Is(chargeErr, errs.ErrDownstreamTimeout) {
		return chargeErr
	}
	if err := entry.Fail(now); err != nil {
		return errors.Join(chargeErr, err)
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return errors.Join(chargeErr, err)
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.TransactionRepository().Update(ctx, entry); err != nil {
		return errors.Join(chargeErr, err)
	}
	if err := uow.Commit(ctx); err != nil {
		return errors.Join(chargeErr, err)
	}
	return chargeErr
}

func (h *TopUpWalletCommandHandler) credit(ctx context.Context, uow LedgerUoW, cmd TopUpWalletCommand, now time.Time) error {
	wallets := uow.WalletRepository()

	wallet, err := wallets.GetByOwner(ctx, cmd.OwnerID())
	switch {
	case err == nil:
		if err = wallet.Credit(cmd.Amount(), now); err != nil {
			return err
		}
		return wallets.Update(ctx, wallet)
	case errors.Is(err, errs.ErrObjectNotFound):
		wallet, err = payment.NewWalletAccount(kernel.NewUUID(), cmd.OwnerID(), now)
		if err != nil {
			return err
		}
		if err = wallet.Credit(cmd.Amount(), now); err != nil {
			return err
		}
		return wallets.Add(ctx, wallet)
	default:
		return err
	}
}
