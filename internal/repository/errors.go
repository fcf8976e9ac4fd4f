// Package repository holds the parameterized SQL behind every route.  Each
// repository is built around an injected *sql.DB pool; connections are
// borrowed per statement and returned when it completes or fails.
//
// Lookups by identifier return a NotFound sentinel when the store yields
// zero rows so handlers can map it to 404.  Every other error is passed
// through unchanged and becomes a 500 at the handler boundary.
package repository

import (
	"errors"
	"time"

	"github.com/iliyamo/movie-rental-api/internal/metrics"
)

var (
	// ErrFilmNotFound is returned when no film matches an id or title.
	ErrFilmNotFound = errors.New("film not found")
	// ErrActorNotFound is returned when no actor has the requested id.
	ErrActorNotFound = errors.New("actor not found")
	// ErrCustomerNotFound is returned when no customer has the requested id.
	ErrCustomerNotFound = errors.New("customer not found")
)

// observe records a store call in the query metrics.  Not-found outcomes
// are not store failures and are not counted as errors.
func observe(operation string, start time.Time, err error) {
	if isNotFound(err) {
		err = nil
	}
	metrics.RecordDBQuery(operation, time.Since(start), err)
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrFilmNotFound) || errors.Is(err, ErrActorNotFound) || errors.Is(err, ErrCustomerNotFound)
}
