package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/payment"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// settler finalizes money movement for an order that reached a terminal
// status. It is shared by the status-update handlers so settlement has a
// single implementation regardless of which state machine triggered it.
//
// Settlement is idempotent per order: a second trigger finds the existing
// ledger entries and creates nothing.
type settler struct {
	gateway           ports.PaymentGateway
	platformAccountID kernel.UUID
	log               *slog.Logger
}

func newSettler(gateway ports.PaymentGateway, platformAccountID kernel.UUID, log *slog.Logger) settler {
	return settler{
		gateway:           gateway,
		platformAccountID: platformAccountID,
		log:               log.With("component", "settlement"),
	}
}

// settleDelivered finalizes the order payment and creates the courier
// payout. Called inside the caller's transaction; the caller commits.
//
// The payment entry carries the order total with the platform fee; the
// payout entry carries total minus platform fee. A cash payment completes
// here, on handover. A card payment still processing is left for the
// reconciliation job; the payout is created regardless because the courier's
// work is done.
func (s settler) settleDelivered(ctx context.Context, uow SettlementUoW, delivered *order.Order) error {
	if delivered.CourierID() == nil {
		return errs.NewValueIsRequiredError("courierID")
	}

	txRepo := uow.TransactionRepository()
	entries, err := txRepo.GetByOrder(ctx, delivered.ID())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err = s.finalizePayment(ctx, uow, delivered, entries, now); err != nil {
		return err
	}
	return s.createPayout(ctx, uow, delivered, entries, now)
}

func (s settler) finalizePayment(
	ctx context.Context,
	uow SettlementUoW,
	delivered *order.Order,
	entries []*payment.Transaction,
	now time.Time,
) error {
	for _, entry := range entries {
		if entry.Type() != payment.OrderPayment {
			continue
		}
		switch {
		case entry.Status() == payment.Completed:
			return nil
		case entry.Method() == payment.Cash && !entry.Status().IsFinal():
			if err := entry.Complete("", now); err != nil {
				return err
			}
			return uow.TransactionRepository().Update(ctx, entry)
		case !entry.Status().IsFinal():
			// Card or wallet payment still in flight; the
			// reconciliation job finishes it.
			return nil
		}
	}

	// No usable payment entry at all: cash on delivery, acknowledged now.
	orderID := delivered.ID()
	entry, err := payment.NewTransaction(
		kernel.NewUUID(), &orderID,
		delivered.CustomerID(), s.platformAccountID,
		payment.OrderPayment, payment.Cash,
		delivered.Price().Total(), delivered.Price().Platform(),
		now,
	)
	if err != nil {
		return err
	}
	if err = entry.Complete("", now); err != nil {
		return err
	}
	return uow.TransactionRepository().Add(ctx, entry)
}

func (s settler) createPayout(
	ctx context.Context,
	uow SettlementUoW,
	delivered *order.Order,
	entries []*payment.Transaction,
	now time.Time,
) error {
	for _, entry := range entries {
		if entry.Type() == payment.CourierPayout {
			return nil
		}
	}

	payout, err := delivered.Price().Total().Sub(delivered.Price().Platform())
	if err != nil {
		return err
	}

	orderID := delivered.ID()
	entry, err := payment.NewTransaction(
		kernel.NewUUID(), &orderID,
		s.platformAccountID, *delivered.CourierID(),
		payment.CourierPayout, payment.Wallet,
		payout, kernel.Money{},
		now,
	)
	if err != nil {
		return err
	}
	if err = entry.Complete("", now); err != nil {
		return err
	}

	if err = s.creditWallet(ctx, uow, *delivered.CourierID(), payout, now); err != nil {
		return err
	}
	return uow.TransactionRepository().Add(ctx, entry)
}

// refundIfPaid reverses a completed order payment after a cancellation or
// failure. A card refund goes through the gateway before anything commits,
// so a gateway timeout aborts the whole transaction and the operation stays
// retryable. Orders without a completed payment need nothing.
func (s settler) refundIfPaid(ctx context.Context, uow SettlementUoW, cancelled *order.Order) error {
	txRepo := uow.TransactionRepository()
	entries, err := txRepo.GetByOrder(ctx, cancelled.ID())
	if err != nil {
		return err
	}

	var paid *payment.Transaction
	for _, entry := range entries {
		if entry.Type() == payment.Refund {
			return nil
		}
		if entry.Type() == payment.OrderPayment && entry.Status() == payment.Completed {
			paid = entry
		}
	}
	if paid == nil {
		return nil
	}

	now := time.Now().UTC()
	orderID := cancelled.ID()
	refund, err := payment.NewTransaction(
		kernel.NewUUID(), &orderID,
		s.platformAccountID, cancelled.CustomerID(),
		payment.Refund, paid.Method(),
		paid.Amount(), kernel.Money{},
		now,
	)
	if err != nil {
		return err
	}

	switch paid.Method() {
	case payment.Card:
		if err = s.gateway.Refund(ctx, paid.GatewayRef(), paid.Amount()); err != nil {
			return err
		}
	case payment.Wallet:
		if err = s.creditWallet(ctx, uow, cancelled.CustomerID(), paid.Amount(), now); err != nil {
			return err
		}
	case payment.Cash:
		// Handed back in person; the entry only records it.
	}

	if err = refund.Complete("", now); err != nil {
		return err
	}
	if err = paid.MarkRefunded(now); err != nil {
		return err
	}

	if err = txRepo.Add(ctx, refund); err != nil {
		return err
	}
	if err = txRepo.Update(ctx, paid); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "order payment refunded",
		"order_id", cancelled.ID().String(),
		"reference", refund.Reference(),
		"amount", refund.Amount().String())
	return nil
}

// creditWallet adds amount to the owner's wallet, creating the wallet on
// first use. Runs inside the caller's transaction alongside the ledger
// entry.
func (s settler) creditWallet(ctx context.Context, uow LedgerUoW, ownerID kernel.UUID, amount kernel.Money, now time.Time) error {
	wallets := uow.WalletRepository()

	wallet, err := wallets.GetByOwner(ctx, ownerID)
	switch {
	case err == nil:
		if err = wallet.Credit(amount, now); err != nil {
			return err
		}
		return wallets.Update(ctx, wallet)
	case errors.Is(err, errs.ErrObjectNotFound):
		wallet, err = payment.NewWalletAccount(kernel.NewUUID(), ownerID, now)
		if err != nil {
			return err
		}
		if err = wallet.Credit(amount, now); err != nil {
			return err
		}
		return wallets.Add(ctx, wallet)
	default:
		return err
	}
}
