package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/newsapi/internal/metrics"
)

// MetricsMiddleware records request counts and latencies per route pattern.
type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

func NewMetricsMiddleware(m *metrics.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

func (mm *MetricsMiddleware) RecordRequests() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if metrics.ShouldSkipEndpoint(c.Request().URL.Path) {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			// Unmatched requests share one label so raw paths never become
			// label values.
			route := c.Path()
			if route == "" || isRouteMiss(err) {
				route = "unmatched"
			}

			mm.metrics.RecordHTTPRequest(c.Request().Method, route, ResponseStatus(c, err), time.Since(start))
			return err
		}
	}
}

func isRouteMiss(err error) bool {
	var echoErr *echo.HTTPError
	if !errors.As(err, &echoErr) {
		return false
	}
	return echoErr.Code == http.StatusNotFound || echoErr.Code == http.StatusMethodNotAllowed
}
