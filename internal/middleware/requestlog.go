package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/movie-rental-api/internal/logging"
)

// RequestID assigns every request a UUID (or keeps an incoming
// X-Request-ID) and makes it visible to logging.Ctx.
func RequestID() echo.MiddlewareFunc {
	return echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
		RequestIDHandler: func(c echo.Context, id string) {
			r := c.Request()
			c.SetRequest(r.WithContext(logging.ContextWithRequestID(r.Context(), id)))
		},
	})
}

// RequestLogger writes one structured event per request.  Server errors
// are logged at error level, client errors at warn, the rest at info.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// Let Echo render the error now so the logged status is final.
				c.Error(err)
			}

			status := c.Response().Status
			l := logging.Ctx(c.Request().Context())
			ev := l.Info()
			switch {
			case status >= 500:
				ev = l.Error()
			case status >= 400:
				ev = l.Warn()
			}
			ev.Str("method", c.Request().Method).
				Str("route", c.Path()).
				Str("uri", c.Request().RequestURI).
				Int("status", status).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP()).
				Msg("request")
			return nil
		}
	}
}
