package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/movie-rental-api/internal/model"
)

// FilmRepo runs the film reports and lookups.
type FilmRepo struct {
	db *sql.DB
}

// NewFilmRepo constructs a FilmRepo with the provided DB handle.
func NewFilmRepo(db *sql.DB) *FilmRepo {
	return &FilmRepo{db: db}
}

const topRentedFilmsSQL = `
	SELECT f.title AS film_title, COUNT(*) AS times_rented
	FROM film AS f
	INNER JOIN inventory AS i ON f.film_id = i.film_id
	INNER JOIN rental AS r ON i.inventory_id = r.inventory_id
	GROUP BY f.title
	ORDER BY times_rented DESC
	LIMIT 5`

const filmSelectSQL = `
	SELECT f.film_id, f.title, f.release_year, f.language_id, f.rental_duration,
	       f.rental_rate, f.length, f.replacement_cost, f.rating, f.special_features,
	       c.name AS category_name
	FROM film AS f
	INNER JOIN film_category AS fc ON f.film_id = fc.film_id
	INNER JOIN category AS c ON fc.category_id = c.category_id`

// TopRented returns up to five films ordered by how often they were rented.
// Ties keep whatever order the store produces.
func (r *FilmRepo) TopRented(ctx context.Context) (out []model.TopRentedFilm, err error) {
	defer func(start time.Time) { observe("film.top_rented", start, err) }(time.Now())
	rows, err := r.db.QueryContext(ctx, topRentedFilmsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out = make([]model.TopRentedFilm, 0, 5)
	for rows.Next() {
		var f model.TopRentedFilm
		if err = rows.Scan(&f.FilmTitle, &f.TimesRented); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a film with its category name.  A film without a
// category row is treated as absent.
func (r *FilmRepo) GetByID(ctx context.Context, id uint64) (*model.Film, error) {
	return r.getOne(ctx, "film.get_by_id", filmSelectSQL+" WHERE f.film_id = ? LIMIT 1", id)
}

// GetByTitle fetches a film by its exact title.
func (r *FilmRepo) GetByTitle(ctx context.Context, title string) (*model.Film, error) {
	return r.getOne(ctx, "film.get_by_title", filmSelectSQL+" WHERE f.title = ? LIMIT 1", title)
}

func (r *FilmRepo) getOne(ctx context.Context, op, q string, arg any) (f *model.Film, err error) {
	defer func(start time.Time) { observe(op, start, err) }(time.Now())
	var film model.Film
	err = r.db.QueryRowContext(ctx, q, arg).Scan(
		&film.FilmID,
		&film.Title,
		&film.ReleaseYear,
		&film.LanguageID,
		&film.RentalDuration,
		&film.RentalRate,
		&film.Length,
		&film.ReplacementCost,
		&film.Rating,
		&film.SpecialFeatures,
		&film.CategoryName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFilmNotFound
		}
		return nil, err
	}
	return &film, nil
}
