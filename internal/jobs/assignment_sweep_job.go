package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/robfig/cron/v3"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/observability/metrics"
	"dispatch/internal/pkg/errs"
)

// staleAssignmentSeconds is how long an offer may sit unaccepted before the
// sweep declines it and returns the order to the pool.
const staleAssignmentSeconds = 60

// AssignmentSweepJob keeps the dispatch loop moving. Every second it
// declines offers that sat unaccepted past the staleness window, then
// dispatches the pending order with the nearest pickup deadline.
//
// One order per tick keeps a single sweep from monopolizing the courier
// pool; the next tick picks up the next order.
type AssignmentSweepJob struct {
	uowFactory        commands.DispatchUoWFactory
	requestHandler    commands.RequestAssignmentCommandHandler
	assignmentHandler commands.UpdateAssignmentStatusCommandHandler
	cron              *cron.Cron
	logger            *slog.Logger
}

// NewAssignmentSweepJob creates the dispatch sweep.
func NewAssignmentSweepJob(
	uowFactory commands.DispatchUoWFactory,
	requestHandler commands.RequestAssignmentCommandHandler,
	assignmentHandler commands.UpdateAssignmentStatusCommandHandler,
	logger *slog.Logger,
) *AssignmentSweepJob {
	return &AssignmentSweepJob{
		uowFactory:        uowFactory,
		requestHandler:    requestHandler,
		assignmentHandler: assignmentHandler,
		cron:              cron.New(cron.WithSeconds()),
		logger:            logger.With("component", "assignment_sweep_job"),
	}
}

// Start begins the sweep, running every second.
func (j *AssignmentSweepJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx := context.Background()
		j.expireStaleOffers(ctx)
		j.dispatchOldestPending(ctx)
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Assignment sweep started (running every second)")
	return nil
}

// Stop stops the sweep.
func (j *AssignmentSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Assignment sweep stopped")
}

func (j *AssignmentSweepJob) expireStaleOffers(ctx context.Context) {
	uow := j.uowFactory.Create()
	stale, err := uow.AssignmentRepository().GetAllStale(ctx, staleAssignmentSeconds)
	if err != nil {
		j.logger.ErrorContext(ctx, "Stale offer lookup failed", "error", err)
		metrics.JobErrorsTotal.WithLabelValues("assignment_sweep").Inc()
		return
	}

	for _, offer := range stale {
		// Only unanswered offers expire. An accepted engagement that goes
		// quiet is a support case, not something to auto-decline.
		if offer.Status() != assignment.Assigned {
			continue
		}

		cmd, err := commands.NewUpdateAssignmentStatusCommand(
			offer.ID(), assignment.Declined, "offer expired without response")
		if err != nil {
			j.logger.ErrorContext(ctx, "Stale offer command rejected", "assignment_id", offer.ID(), "error", err)
			continue
		}

		if _, err := j.assignmentHandler.Handle(ctx, cmd); err != nil {
			// A conflict means the courier responded between lookup and
			// decline; the offer is no longer stale.
			if !errors.Is(err, errs.ErrConflict) && !errors.Is(err, errs.ErrInvalidTransition) {
				j.logger.ErrorContext(ctx, "Stale offer expiry failed", "assignment_id", offer.ID(), "error", err)
				metrics.JobErrorsTotal.WithLabelValues("assignment_sweep").Inc()
			}
		}
	}
}

func (j *AssignmentSweepJob) dispatchOldestPending(ctx context.Context) {
	uow := j.uowFactory.Create()
	active, err := uow.OrderRepository().GetAllActive(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Pending order lookup failed", "error", err)
		metrics.JobErrorsTotal.WithLabelValues("assignment_sweep").Inc()
		return
	}

	var pending []*order.Order
	for _, o := range active {
		if o.Status() == order.Pending {
			pending = append(pending, o)
		}
	}
	if len(pending) == 0 {
		return
	}

	sort.Slice(pending, func(i, k int) bool {
		return pending[i].PickupDeadline().Before(pending[k].PickupDeadline())
	})
	oldest := pending[0]

	cmd, err := commands.NewRequestAssignmentCommand(oldest.ID())
	if err != nil {
		j.logger.ErrorContext(ctx, "Dispatch command rejected", "order_id", oldest.ID(), "error", err)
		return
	}

	if _, err := j.requestHandler.Handle(ctx, cmd); err != nil {
		// No courier in range is the normal idle state, not a failure.
		if errors.Is(err, errs.ErrNoCourierAvailable) || errors.Is(err, errs.ErrConflict) {
			return
		}
		j.logger.ErrorContext(ctx, "Dispatch failed", "order_id", oldest.ID(), "error", err)
		metrics.JobErrorsTotal.WithLabelValues("assignment_sweep").Inc()
	}
}
