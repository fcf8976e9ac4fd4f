package model

import "time"

// Actor mirrors the `actor` table.
type Actor struct {
	ActorID    uint64    `json:"actor_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	LastUpdate time.Time `json:"last_update"`
}

// TopActor is one row of the top actors report.  MovieCount is zero for
// actors without any film_actor rows.
type TopActor struct {
	ActorID    uint64 `json:"actor_id"`
	ActorName  string `json:"actor_name"`
	MovieCount int64  `json:"movie_count"`
}

// ActorDetail is the GET /actor/:id response body.
type ActorDetail struct {
	Actor  Actor         `json:"actor"`
	Movies []FilmSummary `json:"movies"`
}
