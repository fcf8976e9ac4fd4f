package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-rental-api/internal/model"
	"github.com/iliyamo/movie-rental-api/internal/repository"
)

// ActorStore is the subset of repository.ActorRepo used by ActorHandler.
type ActorStore interface {
	Top(ctx context.Context) ([]model.TopActor, error)
	GetByID(ctx context.Context, id uint64) (*model.Actor, error)
	ListFilms(ctx context.Context, actorID uint64) ([]model.FilmSummary, error)
}

// ActorHandler serves the actor report and actor detail routes.
type ActorHandler struct {
	Actors ActorStore
}

// NewActorHandler constructs an ActorHandler.
func NewActorHandler(actors ActorStore) *ActorHandler {
	return &ActorHandler{Actors: actors}
}

// TopActors handles GET /top-actors.
func (h *ActorHandler) TopActors(c echo.Context) error {
	out, err := h.Actors.Top(c.Request().Context())
	if err != nil {
		return internalError(c, "actor.top", err)
	}
	if out == nil {
		out = []model.TopActor{}
	}
	return c.JSON(http.StatusOK, out)
}

// GetActor handles GET /actor/:id and returns the actor with the films
// they appear in.
func (h *ActorHandler) GetActor(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid actor id")
	}
	ctx := c.Request().Context()

	a, err := h.Actors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrActorNotFound) {
			return notFound(c, "actor not found")
		}
		return internalError(c, "actor.get", err)
	}
	films, err := h.Actors.ListFilms(ctx, id)
	if err != nil {
		return internalError(c, "actor.films", err)
	}
	if films == nil {
		films = []model.FilmSummary{}
	}
	return c.JSON(http.StatusOK, model.ActorDetail{Actor: *a, Movies: films})
}
