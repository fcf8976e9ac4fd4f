package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-rental-api/internal/logging"
)

// HealthChecker round-trips a trivial query to the store.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// DBCheck handles GET /test-db-connection.  Unlike /health it touches the
// store and answers in plain text.
func DBCheck(h HealthChecker) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		if err := h.Check(ctx); err != nil {
			logging.Ctx(ctx).Error().Err(err).Msg("database connection check failed")
			return c.String(http.StatusInternalServerError, "Database connection error")
		}
		return c.String(http.StatusOK, "Database connection successful")
	}
}
