package middlewares

import (
	"strconv"
	"time"

	"marinehub.app/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics records request counts and latency per route pattern, so /jobs/1
// and /jobs/2 share one series.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		metrics.HTTPActiveRequests.Inc()
		defer metrics.HTTPActiveRequests.Dec()

		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		route := c.Route().Path
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}
