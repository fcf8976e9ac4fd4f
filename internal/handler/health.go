package handler // declare the package name; contains HTTP handlers

import (
	"net/http" // net/http provides status codes and response helpers

	"github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Health is a liveness endpoint for load balancers and monitoring.  It
// never touches the store, so it answers "ok" with 200 even when the
// database is down.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
