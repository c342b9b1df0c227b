package jobs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/robfig/cron/v3"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/payment"
	"dispatch/internal/core/ports"
	"dispatch/internal/observability/metrics"
	"dispatch/internal/pkg/errs"
)

// PaymentReconciliationJob resolves charges whose callback never arrived.
// Every thirty seconds it polls the gateway for each processing entry and
// feeds the verdict through the same path a callback would take, so a lost
// webhook delays settlement instead of losing it.
type PaymentReconciliationJob struct {
	uowFactory      commands.LedgerUoWFactory
	gateway         ports.PaymentGateway
	callbackHandler commands.PaymentCallbackCommandHandler
	cron            *cron.Cron
	logger          *slog.Logger
}

// NewPaymentReconciliationJob creates the reconciliation job.
func NewPaymentReconciliationJob(
	uowFactory commands.LedgerUoWFactory,
	gateway ports.PaymentGateway,
	callbackHandler commands.PaymentCallbackCommandHandler,
	logger *slog.Logger,
) *PaymentReconciliationJob {
	return &PaymentReconciliationJob{
		uowFactory:      uowFactory,
		gateway:         gateway,
		callbackHandler: callbackHandler,
		cron:            cron.New(cron.WithSeconds()),
		logger:          logger.With("component", "payment_reconciliation_job"),
	}
}

// Start begins the reconciliation, running every thirty seconds.
func (j *PaymentReconciliationJob) Start() error {
	_, err := j.cron.AddFunc("*/30 * * * * *", func() {
		j.reconcile(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Payment reconciliation started (running every 30 seconds)")
	return nil
}

// Stop stops the reconciliation job.
func (j *PaymentReconciliationJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Payment reconciliation stopped")
}

func (j *PaymentReconciliationJob) reconcile(ctx context.Context) {
	uow := j.uowFactory.Create()
	undecided, err := uow.TransactionRepository().GetAllUndecided(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Undecided entry lookup failed", "error", err)
		metrics.JobErrorsTotal.WithLabelValues("payment_reconciliation").Inc()
		return
	}

	for _, entry := range undecided {
		// Only gateway-bound entries can be polled. Pending card entries
		// never reached the gateway, cash and wallet settle synchronously.
		if entry.Status() != payment.Processing || entry.GatewayRef() == "" {
			continue
		}
		j.reconcileEntry(ctx, entry)
	}
}

func (j *PaymentReconciliationJob) reconcileEntry(ctx context.Context, entry *payment.Transaction) {
	status, authCode, err := j.gateway.Poll(ctx, entry.GatewayRef())
	if err != nil {
		// The gateway being unreachable is the condition this job exists
		// for; the next tick tries again.
		if !errors.Is(err, errs.ErrDownstreamTimeout) {
			j.logger.ErrorContext(ctx, "Gateway poll failed", "reference", entry.Reference(), "error", err)
			metrics.JobErrorsTotal.WithLabelValues("payment_reconciliation").Inc()
		}
		return
	}
	if status == payment.Processing || status == payment.Pending {
		return
	}

	cmd, err := commands.NewPaymentCallbackCommand(entry.Reference(), status, authCode)
	if err != nil {
		j.logger.ErrorContext(ctx, "Reconciliation command rejected", "reference", entry.Reference(), "error", err)
		return
	}

	if _, err := j.callbackHandler.Handle(ctx, cmd); err != nil {
		// A conflict means a real callback landed first; the entry is
		// already decided.
		if !errors.Is(err, errs.ErrConflict) && !errors.Is(err, errs.ErrInvalidTransition) {
			j.logger.ErrorContext(ctx, "Reconciliation failed", "reference", entry.Reference(), "error", err)
			metrics.JobErrorsTotal.WithLabelValues("payment_reconciliation").Inc()
		}
		return
	}

	j.logger.InfoContext(ctx, "Entry reconciled via gateway poll",
		"reference", entry.Reference(), "status", status.String())
}
