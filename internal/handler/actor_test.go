package handler

import (
	"net/http"
	"testing"

	"github.com/iliyamo/movie-rental-api/internal/model"
)

func TestActorHandler_TopActors(t *testing.T) {
	h := NewActorHandler(&fakeActors{top: []model.TopActor{
		{ActorID: 107, ActorName: "GINA DEGENERES", MovieCount: 42},
		{ActorID: 201, ActorName: "NEW ACTOR", MovieCount: 0},
	}})
	rec := do(h.TopActors, http.MethodGet, "/top-actors", "/top-actors", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	got := decode[[]model.TopActor](t, rec)
	if len(got) != 2 || got[1].MovieCount != 0 {
		t.Errorf("got %+v", got)
	}
}

func TestActorHandler_GetActor(t *testing.T) {
	actors := &fakeActors{
		actors: map[uint64]model.Actor{
			1:   {ActorID: 1, FirstName: "PENELOPE", LastName: "GUINESS"},
			201: {ActorID: 201, FirstName: "NO", LastName: "FILMS"},
		},
		films: map[uint64][]model.FilmSummary{1: {{FilmID: 1, Title: "ACADEMY DINOSAUR"}}},
	}
	h := NewActorHandler(actors)

	tests := []struct {
		name       string
		target     string
		wantCode   int
		wantMovies int
	}{
		{name: "with films", target: "/actor/1", wantCode: http.StatusOK, wantMovies: 1},
		{name: "without films", target: "/actor/201", wantCode: http.StatusOK, wantMovies: 0},
		{name: "absent", target: "/actor/999", wantCode: http.StatusNotFound},
		{name: "non-numeric", target: "/actor/abc", wantCode: http.StatusBadRequest},
		{name: "negative", target: "/actor/-1", wantCode: http.StatusBadRequest},
		{name: "zero is absent", target: "/actor/0", wantCode: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h.GetActor, http.MethodGet, "/actor/:id", tt.target, "")
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			got := decode[model.ActorDetail](t, rec)
			if got.Movies == nil || len(got.Movies) != tt.wantMovies {
				t.Errorf("movies = %v, want %d entries", got.Movies, tt.wantMovies)
			}
		})
	}
}

func TestActorHandler_StoreError(t *testing.T) {
	rec := do(NewActorHandler(&fakeActors{err: errStore}).GetActor, http.MethodGet, "/actor/:id", "/actor/1", "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
}
