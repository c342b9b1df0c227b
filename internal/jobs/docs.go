// Package jobs provides scheduled background tasks for the dispatch system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle the periodic operations the marketplace needs.
//
// # Available Jobs
//
// 1. AssignmentSweepJob - Runs every second: declines offers that sat
// unanswered past the staleness window, then dispatches the pending order
// with the nearest pickup deadline.
//
// 2. PaymentReconciliationJob - Runs every 30 seconds: polls the gateway
// for charges stuck in processing and advances them through the callback
// path.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(dispatchUoWFactory, ledgerUoWFactory,
//		gateway, requestHandler, assignmentHandler, callbackHandler, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Expected business outcomes (no courier in range, an offer answered
// between lookup and expiry, a callback racing the poll) are not treated
// as failures. Real failures are logged and counted in the job error
// metric; the next tick retries.
package jobs
