// Package metrics defines the prometheus instruments exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_orders_created_total",
		Help: "Total number of orders successfully created.",
	})

	AssignmentsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_assignments_created_total",
		Help: "Total number of courier assignments successfully created.",
	})

	DeliveriesCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_deliveries_completed_total",
		Help: "Total number of orders delivered.",
	})

	PaymentsCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_payments_completed_total",
		Help: "Total number of ledger transactions settled successfully.",
	})

	PaymentsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_payments_failed_total",
		Help: "Total number of ledger transactions rejected by a backend.",
	})

	GatewayRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_gateway_retries_total",
		Help: "Total number of payment gateway calls retried after a timeout.",
	})

	JobErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_job_errors_total",
		Help: "Total number of background job runs that failed.",
	},
		[]string{"job"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dispatch_http_request_duration_seconds",
		Help:    "HTTP request latency by route, method, and status code.",
		Buckets: prometheus.DefBuckets,
	},
		[]string{"route", "method", "status"},
	)
)
