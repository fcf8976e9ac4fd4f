package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-rental-api/internal/metrics"
)

// PrometheusMetrics records request count, latency and in-flight requests
// labelled by the route template (e.g. /movie/:id) rather than the raw
// path, which keeps label cardinality bounded.
func PrometheusMetrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			metrics.TrackActiveRequest(true)
			defer metrics.TrackActiveRequest(false)

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.RecordAPIRequest(c.Request().Method, route, strconv.Itoa(c.Response().Status), time.Since(start))
			return nil
		}
	}
}
