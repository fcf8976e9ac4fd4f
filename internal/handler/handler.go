// Package handler implements the HTTP endpoints of the movie rental API.
//
// Handlers extract and validate path, query and body input, call one
// repository operation and map its outcome to a status code: validation
// failures become 400, NotFound sentinels 404 and every other store error
// a generic 500 whose detail goes only to the log.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-rental-api/internal/logging"
	"github.com/iliyamo/movie-rental-api/internal/queue"
)

// EventPublisher hands a write event to the event feed.  Failures are
// logged by the caller and never change the HTTP result.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.RentalEvent) error
}

// errInternal is the only text a client sees for a store failure.
const errInternal = "internal server error"

// parseID parses a numeric path parameter.  Zero is accepted; no row has
// it, so lookups answer 404 like any other absent id.
func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

func notFound(c echo.Context, msg string) error {
	return c.JSON(http.StatusNotFound, echo.Map{"error": msg})
}

// internalError logs err with the route and request id and answers 500.
func internalError(c echo.Context, op string, err error) error {
	logging.Ctx(c.Request().Context()).Error().
		Err(err).
		Str("route", c.Path()).
		Str("op", op).
		Msg("store operation failed")
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": errInternal})
}

// publishTimeout bounds one event hand-off after the reply is sent.
const publishTimeout = 5 * time.Second

// respond writes and flushes the JSON reply, then publishes the write
// event.  The client has its answer before the broker is contacted.
func respond(c echo.Context, p EventPublisher, status int, body any, typ string, customerID, filmID uint64) error {
	if err := c.JSON(status, body); err != nil {
		return err
	}
	_ = http.NewResponseController(c.Response()).Flush()
	publish(c, p, typ, customerID, filmID)
	return nil
}

// publish emits a write event.  It runs detached from the request context,
// which may already be cancelled once the reply is flushed.  A nil
// publisher or a failed publish is not an error for the request.
func publish(c echo.Context, p EventPublisher, typ string, customerID, filmID uint64) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), publishTimeout)
	defer cancel()
	ev := queue.RentalEvent{
		Type:       typ,
		CustomerID: customerID,
		FilmID:     filmID,
		OccurredAt: time.Now().UTC(),
		RequestID:  logging.RequestIDFromContext(ctx),
	}
	if err := p.Publish(ctx, ev); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("event", typ).Msg("event publish failed")
	}
}
