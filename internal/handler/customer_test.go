package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-rental-api/internal/model"
	"github.com/iliyamo/movie-rental-api/internal/queue"
)

func newCustomerHandler(store *fakeCustomers, pub *recordingPublisher) *CustomerHandler {
	if pub == nil {
		return NewCustomerHandler(store, nil, 1, 1)
	}
	return NewCustomerHandler(store, pub, 1, 1)
}

func TestCustomerHandler_List(t *testing.T) {
	store := &fakeCustomers{}
	rec := do(newCustomerHandler(store, nil).List, http.MethodGet, "/api/customers", "/api/customers", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "[]\n" {
		t.Errorf("got %d %q, want empty array", rec.Code, rec.Body.String())
	}
}

func TestCustomerHandler_Search(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantCode  int
		wantCalls []string
	}{
		{name: "by id", query: "searchField=customer_id&searchTerm=5", wantCode: http.StatusOK, wantCalls: []string{"search_id"}},
		{name: "by first name", query: "searchField=first_name&searchTerm=MAR", wantCode: http.StatusOK, wantCalls: []string{"search_first_name:MAR"}},
		{name: "by last name keeps metacharacters", query: "searchField=last_name&searchTerm=50%25_off", wantCode: http.StatusOK, wantCalls: []string{"search_last_name:50%_off"}},
		{name: "invalid field", query: "searchField=email&searchTerm=x", wantCode: http.StatusBadRequest},
		{name: "missing field", query: "searchTerm=x", wantCode: http.StatusBadRequest},
		{name: "missing term", query: "searchField=first_name", wantCode: http.StatusBadRequest},
		{name: "blank term", query: "searchField=first_name&searchTerm=%20%20", wantCode: http.StatusBadRequest},
		{name: "non-numeric id", query: "searchField=customer_id&searchTerm=abc", wantCode: http.StatusBadRequest},
		{name: "injection attempt in field", query: "searchField=first_name%3BDROP&searchTerm=x", wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeCustomers{}
			rec := do(newCustomerHandler(store, nil).Search, http.MethodGet, "/api/customers/search", "/api/customers/search?"+tt.query, "")
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			if strings.Join(store.calls, ",") != strings.Join(tt.wantCalls, ",") {
				t.Errorf("store calls = %v, want %v", store.calls, tt.wantCalls)
			}
		})
	}
}

func TestCustomerHandler_Create(t *testing.T) {
	store := &fakeCustomers{nextID: 600}
	pub := &recordingPublisher{}
	h := NewCustomerHandler(store, pub, 2, 5)

	rec := do(h.Create, http.MethodPost, "/api/customers", "/api/customers",
		`{"first_name":"ADA","last_name":"LOVELACE","email":"ada@example.com"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	body := decode[map[string]any](t, rec)
	if body["customer_id"] != float64(600) || body["message"] == "" {
		t.Errorf("body = %v", body)
	}
	if store.created.StoreID != 2 || store.created.AddressID != 5 || store.created.CustomerID != nil {
		t.Errorf("defaults not applied: %+v", store.created)
	}
	if len(pub.events) != 1 || pub.events[0].Type != queue.EventCustomerCreated || pub.events[0].CustomerID != 600 {
		t.Errorf("events = %+v", pub.events)
	}
}

func TestCustomerHandler_CreateExplicitIDAndStore(t *testing.T) {
	store := &fakeCustomers{}
	rec := do(newCustomerHandler(store, nil).Create, http.MethodPost, "/api/customers", "/api/customers",
		`{"customer_id":700,"store_id":2,"first_name":"A","last_name":"B","email":"a@b.co"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if store.created.CustomerID == nil || *store.created.CustomerID != 700 || store.created.StoreID != 2 {
		t.Errorf("created = %+v", store.created)
	}
	if got := decode[map[string]any](t, rec); got["customer_id"] != float64(700) {
		t.Errorf("customer_id = %v", got["customer_id"])
	}
}

func TestCustomerHandler_CreateRejectsInvalidBody(t *testing.T) {
	bodies := map[string]string{
		"malformed":      `{"first_name":`,
		"missing email":  `{"first_name":"A","last_name":"B"}`,
		"bad email":      `{"first_name":"A","last_name":"B","email":"nope"}`,
		"zero store":     `{"first_name":"A","last_name":"B","email":"a@b.co","store_id":0}`,
		"name too long":  `{"first_name":"` + strings.Repeat("X", 46) + `","last_name":"B","email":"a@b.co"}`,
		"wrong type":     `{"first_name":1,"last_name":"B","email":"a@b.co"}`,
		"negative store": `{"first_name":"A","last_name":"B","email":"a@b.co","store_id":-1}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			store := &fakeCustomers{}
			rec := do(newCustomerHandler(store, nil).Create, http.MethodPost, "/api/customers", "/api/customers", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (%s)", rec.Code, rec.Body.String())
			}
			if len(store.calls) != 0 {
				t.Errorf("store called: %v", store.calls)
			}
		})
	}
}

func TestCustomerHandler_CreateStoreError(t *testing.T) {
	pub := &recordingPublisher{}
	rec := do(newCustomerHandler(&fakeCustomers{err: errStore}, pub).Create, http.MethodPost, "/api/customers", "/api/customers",
		`{"first_name":"A","last_name":"B","email":"a@b.co"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
	if len(pub.events) != 0 {
		t.Error("event published for a failed write")
	}
}

func TestCustomerHandler_Update(t *testing.T) {
	store := &fakeCustomers{}
	pub := &recordingPublisher{}
	h := newCustomerHandler(store, pub)

	rec := do(h.Update, http.MethodPut, "/api/customers/:customer_id", "/api/customers/5",
		`{"first_name":"A","last_name":"B","email":"a@b.co"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if store.updated.StoreID != nil {
		t.Errorf("omitted store_id should stay nil, got %v", *store.updated.StoreID)
	}
	if len(pub.events) != 1 || pub.events[0].Type != queue.EventCustomerUpdated {
		t.Errorf("events = %+v", pub.events)
	}

	rec = do(h.Update, http.MethodPut, "/api/customers/:customer_id", "/api/customers/abc",
		`{"first_name":"A","last_name":"B","email":"a@b.co"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid id: status = %d", rec.Code)
	}
}

func TestCustomerHandler_Delete(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		err      error
		wantCode int
	}{
		{name: "ok", target: "/api/customers/5", wantCode: http.StatusOK},
		{name: "invalid id", target: "/api/customers/x", wantCode: http.StatusBadRequest},
		{name: "store error", target: "/api/customers/5", err: errStore, wantCode: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(newCustomerHandler(&fakeCustomers{err: tt.err}, nil).Delete, http.MethodDelete, "/api/customers/:customer_id", tt.target, "")
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}
}

func TestCustomerHandler_Details(t *testing.T) {
	email := "mary.smith@sakilacustomer.org"
	store := &fakeCustomers{rows: []model.Customer{{CustomerID: 1, StoreID: 1, FirstName: "MARY", LastName: "SMITH", Email: &email}}}
	h := newCustomerHandler(store, nil)

	rec := do(h.Details, http.MethodGet, "/api/customers/details/:customer_id", "/api/customers/details/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decode[model.Customer](t, rec); got.FirstName != "MARY" || got.Email == nil || *got.Email != email {
		t.Errorf("got %+v", got)
	}

	for _, target := range []string{"/api/customers/details/2", "/api/customers/details/0"} {
		rec = do(h.Details, http.MethodGet, "/api/customers/details/:customer_id", target, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", target, rec.Code)
		}
	}
	rec = do(h.Details, http.MethodGet, "/api/customers/details/:customer_id", "/api/customers/details/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("non-numeric: status = %d, want 400", rec.Code)
	}
}

func TestPublish_FailureDoesNotChangeResult(t *testing.T) {
	pub := &recordingPublisher{err: errStore}
	rec := do(newCustomerHandler(&fakeCustomers{}, pub).Delete, http.MethodDelete, "/api/customers/:customer_id", "/api/customers/5", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if len(pub.events) != 1 {
		t.Errorf("events = %+v", pub.events)
	}
}

// replyCheckingPublisher records whether the reply had been flushed when
// the event was handed over.
type replyCheckingPublisher struct {
	rec          *httptest.ResponseRecorder
	sawReply     bool
	ctxCancelled bool
}

func (p *replyCheckingPublisher) Publish(ctx context.Context, _ queue.RentalEvent) error {
	p.sawReply = p.rec.Flushed && p.rec.Code == http.StatusCreated && strings.Contains(p.rec.Body.String(), "customer_id")
	p.ctxCancelled = ctx.Err() != nil
	return nil
}

func TestCustomerHandler_CreateRepliesBeforePublishing(t *testing.T) {
	rec := httptest.NewRecorder()
	pub := &replyCheckingPublisher{rec: rec}
	h := NewCustomerHandler(&fakeCustomers{nextID: 9}, pub, 1, 1)

	e := echo.New()
	e.POST("/api/customers", h.Create)
	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodPost, "/api/customers",
		strings.NewReader(`{"first_name":"A","last_name":"B","email":"a@b.co"}`)).WithContext(ctx)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	cancel() // a client that hung up after the reply

	e.ServeHTTP(rec, req)
	if !pub.sawReply {
		t.Error("event published before the reply was flushed")
	}
	if pub.ctxCancelled {
		t.Error("publish context should be detached from the request")
	}
}
