package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-rental-api/internal/model"
	"github.com/iliyamo/movie-rental-api/internal/repository"
)

// FilmStore is the subset of repository.FilmRepo used by FilmHandler.
type FilmStore interface {
	TopRented(ctx context.Context) ([]model.TopRentedFilm, error)
	GetByID(ctx context.Context, id uint64) (*model.Film, error)
	GetByTitle(ctx context.Context, title string) (*model.Film, error)
}

// FilmHandler serves the film report and film lookup routes.
type FilmHandler struct {
	Films FilmStore
}

// NewFilmHandler constructs a FilmHandler.
func NewFilmHandler(films FilmStore) *FilmHandler {
	return &FilmHandler{Films: films}
}

// TopRentedMovies handles GET /top-rented-movies.
func (h *FilmHandler) TopRentedMovies(c echo.Context) error {
	out, err := h.Films.TopRented(c.Request().Context())
	if err != nil {
		return internalError(c, "film.top_rented", err)
	}
	if out == nil {
		out = []model.TopRentedFilm{}
	}
	return c.JSON(http.StatusOK, out)
}

// GetMovie handles GET /movie/:id.  A numeric id is looked up as a
// film_id, anything else as an exact title.
func (h *FilmHandler) GetMovie(c echo.Context) error {
	ctx := c.Request().Context()
	raw := c.Param("id")
	// Echo routes on RawPath when the path carries encoded reserved
	// characters such as %2F, and leaves the param escaped in that case.
	if c.Request().URL.RawPath != "" {
		unescaped, uerr := url.PathUnescape(raw)
		if uerr != nil {
			return badRequest(c, "invalid movie id")
		}
		raw = unescaped
	}

	var (
		f   *model.Film
		err error
	)
	if id, perr := strconv.ParseUint(raw, 10, 64); perr == nil {
		f, err = h.Films.GetByID(ctx, id)
	} else {
		f, err = h.Films.GetByTitle(ctx, raw)
	}
	if err != nil {
		if errors.Is(err, repository.ErrFilmNotFound) {
			return notFound(c, "movie not found")
		}
		return internalError(c, "film.get", err)
	}
	return c.JSON(http.StatusOK, f)
}
