package http

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"dispatch/internal/observability/metrics"
)

// requestMetrics records per-route request latency. The route label uses
// the echo path template, not the raw URL, to keep cardinality bounded.
func requestMetrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)

			route := ctx.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.HTTPRequestDuration.WithLabelValues(
				route,
				ctx.Request().Method,
				strconv.Itoa(ctx.Response().Status),
			).Observe(time.Since(start).Seconds())

			return err
		}
	}
}
