package handler

import (
	"net/http"
	"testing"

	"github.com/iliyamo/movie-rental-api/internal/model"
	"github.com/iliyamo/movie-rental-api/internal/queue"
)

func TestRentalHandler_Toggle(t *testing.T) {
	rentals := &fakeRentals{returned: map[[2]uint64]bool{}}
	pub := &recordingPublisher{}
	h := NewRentalHandler(rentals, pub)

	rec := do(h.Return, http.MethodPut, "/api/customers/return/:customer_id/:movie_id", "/api/customers/return/1/80", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("return: status = %d", rec.Code)
	}
	if !rentals.returned[[2]uint64{1, 80}] {
		t.Error("rental not marked returned")
	}

	rec = do(h.Unreturn, http.MethodPut, "/api/customers/unreturn/:customer_id/:movie_id", "/api/customers/unreturn/1/80", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unreturn: status = %d", rec.Code)
	}
	if rentals.returned[[2]uint64{1, 80}] {
		t.Error("rental still marked returned")
	}

	if len(pub.events) != 2 ||
		pub.events[0].Type != queue.EventRentalReturned ||
		pub.events[1].Type != queue.EventRentalUnreturned ||
		pub.events[1].FilmID != 80 {
		t.Errorf("events = %+v", pub.events)
	}
}

func TestRentalHandler_InvalidIDs(t *testing.T) {
	h := NewRentalHandler(&fakeRentals{returned: map[[2]uint64]bool{}}, nil)
	for _, target := range []string{"/api/customers/return/x/80", "/api/customers/return/1/y", "/api/customers/return/-1/80"} {
		rec := do(h.Return, http.MethodPut, "/api/customers/return/:customer_id/:movie_id", target, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, rec.Code)
		}
	}
}

func TestRentalHandler_StoreError(t *testing.T) {
	rec := do(NewRentalHandler(&fakeRentals{err: errStore}, nil).Unreturn, http.MethodPut,
		"/api/customers/unreturn/:customer_id/:movie_id", "/api/customers/unreturn/1/80", "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestRentalHandler_List(t *testing.T) {
	rentals := &fakeRentals{returned: map[[2]uint64]bool{{1, 80}: true}}
	h := NewRentalHandler(rentals, nil)
	const route = "/api/customers/rentals/:customer_id/:movie_id"

	rec := do(h.List, http.MethodGet, route, "/api/customers/rentals/1/80", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	got := decode[[]model.Rental](t, rec)
	if len(got) != 1 || got[0].ReturnDate == nil {
		t.Errorf("got %+v", got)
	}

	rec = do(h.List, http.MethodGet, route, "/api/customers/rentals/2/80", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "[]\n" {
		t.Errorf("no rentals: got %d %q", rec.Code, rec.Body.String())
	}

	rec = do(h.List, http.MethodGet, route, "/api/customers/rentals/x/80", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid id: status = %d", rec.Code)
	}
}
