// Package metrics holds the Prometheus collectors of the catalog service.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// SearchTotal counts catalog searches by outcome (ok, invalid, error).
	SearchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_search_total",
			Help: "Catalog searches by outcome.",
		},
		[]string{"outcome"},
	)

	// SearchDuration observes the store time of a catalog search.
	SearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_search_duration_seconds",
		Help:    "Catalog search duration in seconds.",
		Buckets: prometheus.DefBuckets,
	})

	// PasswordResetTotal counts reset operations by step and result.
	PasswordResetTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_password_reset_total",
			Help: "Password reset operations by step and result.",
		},
		[]string{"step", "result"},
	)

	// RateLimitedTotal counts requests rejected by a rate limiter.
	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_rate_limited_total",
			Help: "Requests rejected by rate limiting.",
		},
		[]string{"route"},
	)
)

// Search outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Middleware records request count and latency per route template, so that
// /api/attractions/1 and /api/attractions/2 share one series.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if !c.Response().Committed {
					status = 500
				}
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			method := c.Request().Method
			httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
			httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
