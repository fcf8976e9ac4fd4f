package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/movie-rental-api/internal/model"
)

// ActorRepo runs the actor report and actor detail queries.
type ActorRepo struct {
	db *sql.DB
}

// NewActorRepo constructs an ActorRepo with the provided DB handle.
func NewActorRepo(db *sql.DB) *ActorRepo {
	return &ActorRepo{db: db}
}

// LEFT JOIN keeps actors without films; COUNT(fa.film_id) is 0 for them.
const topActorsSQL = `
	SELECT a.actor_id,
	       CONCAT(a.first_name, ' ', a.last_name) AS actor_name,
	       COUNT(fa.film_id) AS movie_count
	FROM actor AS a
	LEFT JOIN film_actor AS fa ON a.actor_id = fa.actor_id
	GROUP BY a.actor_id, a.first_name, a.last_name
	ORDER BY movie_count DESC
	LIMIT 5`

// Top returns up to five actors ordered by the number of films they appear in.
func (r *ActorRepo) Top(ctx context.Context) (out []model.TopActor, err error) {
	defer func(start time.Time) { observe("actor.top", start, err) }(time.Now())
	rows, err := r.db.QueryContext(ctx, topActorsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out = make([]model.TopActor, 0, 5)
	for rows.Next() {
		var a model.TopActor
		if err = rows.Scan(&a.ActorID, &a.ActorName, &a.MovieCount); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches one actor row.  It returns ErrActorNotFound if no row is found.
func (r *ActorRepo) GetByID(ctx context.Context, id uint64) (a *model.Actor, err error) {
	defer func(start time.Time) { observe("actor.get", start, err) }(time.Now())
	const q = "SELECT actor_id, first_name, last_name, last_update FROM actor WHERE actor_id = ?"
	var actor model.Actor
	if err = r.db.QueryRowContext(ctx, q, id).Scan(&actor.ActorID, &actor.FirstName, &actor.LastName, &actor.LastUpdate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrActorNotFound
		}
		return nil, err
	}
	return &actor, nil
}

// ListFilms returns every film the actor appears in, ordered by title.
func (r *ActorRepo) ListFilms(ctx context.Context, actorID uint64) (out []model.FilmSummary, err error) {
	defer func(start time.Time) { observe("actor.films", start, err) }(time.Now())
	const q = `
		SELECT f.film_id, f.title
		FROM film AS f
		INNER JOIN film_actor AS fa ON f.film_id = fa.film_id
		WHERE fa.actor_id = ?
		ORDER BY f.title`
	rows, err := r.db.QueryContext(ctx, q, actorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out = []model.FilmSummary{}
	for rows.Next() {
		var f model.FilmSummary
		if err = rows.Scan(&f.FilmID, &f.Title); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
