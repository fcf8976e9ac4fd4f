package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-rental-api/internal/config"
	"github.com/iliyamo/movie-rental-api/internal/handler"
	"github.com/iliyamo/movie-rental-api/internal/middleware"
)

func newLimitedServer(t *testing.T) http.Handler {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	e := New(Options{
		RateLimit: config.RateLimitConfig{
			Enabled:        true,
			Capacity:       1,
			RefillTokens:   1,
			RefillInterval: time.Hour,
			TTL:            2 * time.Hour,
			KeyStrategy:    "ip_route",
			Prefix:         "rl",
		},
		Redis: rdb,
	})
	store := stubStore{}
	RegisterRoutes(e, Handlers{
		Films:     handler.NewFilmHandler(store),
		Actors:    handler.NewActorHandler(stubActors{}),
		Customers: handler.NewCustomerHandler(stubCustomers{}, nil, 1, 1),
		Rentals:   handler.NewRentalHandler(stubRentals{}, nil),
		DB:        store,
	}, middleware.WriteGuard(""))
	return e
}

func get(srv http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestRateLimit_ThrottlesStoreRoutes(t *testing.T) {
	srv := newLimitedServer(t)

	if rec := get(srv, "/top-actors"); rec.Code != http.StatusOK {
		t.Fatalf("first request = %d, want 200", rec.Code)
	}
	rec := get(srv, "/top-actors")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}
}

func TestRateLimit_HealthAndMetricsUnlimited(t *testing.T) {
	srv := newLimitedServer(t)

	for i := 0; i < 3; i++ {
		rec := get(srv, "/health")
		if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
			t.Fatalf("/health #%d = %d %q, want 200 ok", i+1, rec.Code, rec.Body.String())
		}
		if rec := get(srv, "/metrics"); rec.Code != http.StatusOK {
			t.Fatalf("/metrics #%d = %d, want 200", i+1, rec.Code)
		}
	}

	// Exhaust a store route's bucket; liveness must still answer.
	get(srv, "/top-actors")
	if rec := get(srv, "/top-actors"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("/top-actors = %d, want 429", rec.Code)
	}
	if rec := get(srv, "/health"); rec.Code != http.StatusOK {
		t.Errorf("/health after throttling = %d, want 200", rec.Code)
	}
}
