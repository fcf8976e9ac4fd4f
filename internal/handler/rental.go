package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-rental-api/internal/logging"
	"github.com/iliyamo/movie-rental-api/internal/model"
	"github.com/iliyamo/movie-rental-api/internal/queue"
)

// RentalStore is the subset of repository.RentalRepo used by RentalHandler.
type RentalStore interface {
	MarkReturned(ctx context.Context, customerID, filmID uint64) (int64, error)
	MarkUnreturned(ctx context.Context, customerID, filmID uint64) (int64, error)
	ListByCustomerAndFilm(ctx context.Context, customerID, filmID uint64) ([]model.Rental, error)
}

// RentalHandler serves the return and unreturn toggles.  Both act on
// every rental of the customer whose inventory item is a copy of the
// film, and neither checks that such a rental exists.
type RentalHandler struct {
	Rentals RentalStore
	Events  EventPublisher
}

// NewRentalHandler constructs a RentalHandler.
func NewRentalHandler(rentals RentalStore, events EventPublisher) *RentalHandler {
	return &RentalHandler{Rentals: rentals, Events: events}
}

// Return handles PUT /api/customers/return/:customer_id/:movie_id.
func (h *RentalHandler) Return(c echo.Context) error {
	return h.toggle(c, h.Rentals.MarkReturned, queue.EventRentalReturned, "Movie marked as returned")
}

// Unreturn handles PUT /api/customers/unreturn/:customer_id/:movie_id.
func (h *RentalHandler) Unreturn(c echo.Context) error {
	return h.toggle(c, h.Rentals.MarkUnreturned, queue.EventRentalUnreturned, "Movie marked as not returned")
}

// List handles GET /api/customers/rentals/:customer_id/:movie_id and
// returns the rentals the toggles act on.
func (h *RentalHandler) List(c echo.Context) error {
	customerID, ok := parseID(c, "customer_id")
	if !ok {
		return badRequest(c, "invalid customer id")
	}
	filmID, ok := parseID(c, "movie_id")
	if !ok {
		return badRequest(c, "invalid movie id")
	}
	out, err := h.Rentals.ListByCustomerAndFilm(c.Request().Context(), customerID, filmID)
	if err != nil {
		return internalError(c, "rental.list", err)
	}
	if out == nil {
		out = []model.Rental{}
	}
	return c.JSON(http.StatusOK, out)
}

func (h *RentalHandler) toggle(c echo.Context, op func(context.Context, uint64, uint64) (int64, error), event, msg string) error {
	customerID, ok := parseID(c, "customer_id")
	if !ok {
		return badRequest(c, "invalid customer id")
	}
	filmID, ok := parseID(c, "movie_id")
	if !ok {
		return badRequest(c, "invalid movie id")
	}

	ctx := c.Request().Context()
	n, err := op(ctx, customerID, filmID)
	if err != nil {
		return internalError(c, event, err)
	}
	logging.Ctx(ctx).Debug().
		Uint64("customer_id", customerID).
		Uint64("film_id", filmID).
		Int64("rows", n).
		Msg(event)
	return respond(c, h.Events, http.StatusOK, echo.Map{"message": msg}, event, customerID, filmID)
}
