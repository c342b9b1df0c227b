package jobs

import (
	"fmt"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	assignmentSweepJob       *AssignmentSweepJob
	paymentReconciliationJob *PaymentReconciliationJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	dispatchUoWFactory commands.DispatchUoWFactory,
	ledgerUoWFactory commands.LedgerUoWFactory,
	gateway ports.PaymentGateway,
	requestAssignmentHandler commands.RequestAssignmentCommandHandler,
	updateAssignmentStatusHandler commands.UpdateAssignmentStatusCommandHandler,
	paymentCallbackHandler commands.PaymentCallbackCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		assignmentSweepJob: NewAssignmentSweepJob(
			dispatchUoWFactory, requestAssignmentHandler, updateAssignmentStatusHandler, logger),
		paymentReconciliationJob: NewPaymentReconciliationJob(
			ledgerUoWFactory, gateway, paymentCallbackHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.assignmentSweepJob.Start(); err != nil {
		return fmt.Errorf("failed to start assignment sweep job: %w", err)
	}

	if err := jm.paymentReconciliationJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.assignmentSweepJob.Stop()
		return fmt.Errorf("failed to start payment reconciliation job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.paymentReconciliationJob.Stop()
	jm.assignmentSweepJob.Stop()
}
