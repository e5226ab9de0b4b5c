package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/daybook-app/daybook/internal/booking"
	"github.com/daybook-app/daybook/internal/storage"
)

func newTestHandler() *BookingHandler {
	svc := booking.NewService(storage.NewMemStore(booking.DefaultCapacity))
	return NewBookingHandler(svc, slog.New(slog.DiscardHandler))
}

func doJSON(t *testing.T, h http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	h(w, r)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("error body not json: %v (%s)", err, w.Body.String())
	}
	return resp
}

func TestCreateBookingHTTP(t *testing.T) {
	h := newTestHandler()

	w := doJSON(t, h.Bookings, http.MethodPost, "/api/v1/bookings",
		`{"day":"2024-06-03","name":"Ana","phone":"  +1 555 0100 ","notes":"  "}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp createBookingResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Remaining != booking.DefaultCapacity-1 {
		t.Fatalf("remaining = %d, want %d", resp.Remaining, booking.DefaultCapacity-1)
	}
	if resp.Booking.ID == 0 || resp.Booking.CreatedAt == "" {
		t.Fatalf("missing store-assigned fields: %+v", resp.Booking)
	}
	if resp.Booking.Phone == nil || *resp.Booking.Phone != "+1 555 0100" {
		t.Fatalf("phone not normalized: %v", resp.Booking.Phone)
	}
	if resp.Booking.Notes != nil {
		t.Fatalf("blank notes should be null, got %q", *resp.Booking.Notes)
	}
}

func TestCreateBookingHTTPFailures(t *testing.T) {
	h := newTestHandler()

	cases := []struct {
		name   string
		body   string
		status int
		kind   booking.Kind
	}{
		{"weekend", `{"day":"2024-06-08","name":"Ana"}`, http.StatusBadRequest, booking.KindWeekend},
		{"bad format", `{"day":"06/03/2024","name":"Ana"}`, http.StatusBadRequest, booking.KindInvalidFormat},
		{"not a date", `{"day":"2024-02-30","name":"Ana"}`, http.StatusBadRequest, booking.KindInvalidDate},
		{"missing name", `{"day":"2024-06-03"}`, http.StatusBadRequest, booking.KindRequired},
		{"numeric phone", `{"day":"2024-06-03","name":"Ana","phone":42}`, http.StatusBadRequest, booking.KindWrongType},
		{"garbage body", `{"day":`, http.StatusBadRequest, booking.KindInvalidFormat},
	}
	for _, tc := range cases {
		w := doJSON(t, h.Bookings, http.MethodPost, "/api/v1/bookings", tc.body)
		if w.Code != tc.status {
			t.Fatalf("%s: status = %d, want %d (%s)", tc.name, w.Code, tc.status, w.Body.String())
		}
		if resp := decodeError(t, w); resp.Kind != string(tc.kind) {
			t.Fatalf("%s: kind = %q, want %q", tc.name, resp.Kind, tc.kind)
		}
	}
}

func TestCreateBookingHTTPCapacity(t *testing.T) {
	h := newTestHandler()

	for i := 0; i < booking.DefaultCapacity; i++ {
		body := fmt.Sprintf(`{"day":"2024-06-03","name":"client %d"}`, i)
		if w := doJSON(t, h.Bookings, http.MethodPost, "/api/v1/bookings", body); w.Code != http.StatusCreated {
			t.Fatalf("create %d: status = %d", i, w.Code)
		}
	}

	w := doJSON(t, h.Bookings, http.MethodPost, "/api/v1/bookings", `{"day":"2024-06-03","name":"late"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("full day status = %d, want 409", w.Code)
	}
	if resp := decodeError(t, w); resp.Kind != string(booking.KindCapacityExceeded) {
		t.Fatalf("full day kind = %q", resp.Kind)
	}
}

func TestListBookingsHTTP(t *testing.T) {
	h := newTestHandler()

	doJSON(t, h.Bookings, http.MethodPost, "/api/v1/bookings", `{"day":"2024-06-03","name":"Ana"}`)
	doJSON(t, h.Bookings, http.MethodPost, "/api/v1/bookings", `{"day":"2024-06-03","name":"Boris"}`)

	w := doJSON(t, h.Bookings, http.MethodGet, "/api/v1/bookings?day=2024-06-03", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var items []bookingItem
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if len(items) != 2 || items[0].Name != "Ana" || items[1].Name != "Boris" {
		t.Fatalf("unexpected listing: %+v", items)
	}

	w = doJSON(t, h.Bookings, http.MethodGet, "/api/v1/bookings", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing day status = %d, want 400", w.Code)
	}
	if resp := decodeError(t, w); resp.Kind != string(booking.KindMissingParameter) {
		t.Fatalf("missing day kind = %q", resp.Kind)
	}

	// An impossible date is the caller's mistake, never a storage fault.
	w = doJSON(t, h.Bookings, http.MethodGet, "/api/v1/bookings?day=2024-02-30", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("impossible date status = %d, want 400", w.Code)
	}
	if resp := decodeError(t, w); resp.Kind != string(booking.KindInvalidDate) {
		t.Fatalf("impossible date kind = %q", resp.Kind)
	}

	w = doJSON(t, h.Bookings, http.MethodDelete, "/api/v1/bookings", "")
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("DELETE status = %d, want 405", w.Code)
	}
}

func TestUpdateBookingHTTP(t *testing.T) {
	h := newTestHandler()
	doJSON(t, h.Bookings, http.MethodPost, "/api/v1/bookings", `{"day":"2024-06-03","name":"Ana"}`)

	w := doJSON(t, h.Update, http.MethodPost, "/api/v1/bookings/update", `{"id":1,"phone":"+1 555 0100"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var item bookingItem
	if err := json.Unmarshal(w.Body.Bytes(), &item); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if item.Name != "Ana" || item.Phone == nil || *item.Phone != "+1 555 0100" {
		t.Fatalf("partial update wrong: %+v", item)
	}

	cases := []struct {
		name   string
		body   string
		status int
		kind   booking.Kind
	}{
		{"no fields", `{"id":1}`, http.StatusBadRequest, booking.KindNoChanges},
		{"missing id", `{"name":"x"}`, http.StatusBadRequest, booking.KindInvalidID},
		{"string id", `{"id":"1","name":"x"}`, http.StatusBadRequest, booking.KindInvalidID},
		{"unknown id", `{"id":42,"name":"x"}`, http.StatusNotFound, booking.KindNotFound},
		{"numeric notes", `{"id":1,"notes":7}`, http.StatusBadRequest, booking.KindWrongType},
	}
	for _, tc := range cases {
		w := doJSON(t, h.Update, http.MethodPost, "/api/v1/bookings/update", tc.body)
		if w.Code != tc.status {
			t.Fatalf("%s: status = %d, want %d (%s)", tc.name, w.Code, tc.status, w.Body.String())
		}
		if resp := decodeError(t, w); resp.Kind != string(tc.kind) {
			t.Fatalf("%s: kind = %q, want %q", tc.name, resp.Kind, tc.kind)
		}
	}
}

func TestDeleteBookingHTTP(t *testing.T) {
	h := newTestHandler()
	doJSON(t, h.Bookings, http.MethodPost, "/api/v1/bookings", `{"day":"2024-06-03","name":"Ana"}`)

	w := doJSON(t, h.Delete, http.MethodPost, "/api/v1/bookings/delete", `{"id":1}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, h.Delete, http.MethodPost, "/api/v1/bookings/delete", `{"id":1}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", w.Code)
	}

	w = doJSON(t, h.Bookings, http.MethodGet, "/api/v1/bookings?day=2024-06-03", "")
	var items []bookingItem
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("deleted booking still listed: %+v", items)
	}
}

func TestSearchBookingsHTTP(t *testing.T) {
	h := newTestHandler()
	doJSON(t, h.Bookings, http.MethodPost, "/api/v1/bookings", `{"day":"2024-06-03","name":"Ana Petrova"}`)
	doJSON(t, h.Bookings, http.MethodPost, "/api/v1/bookings", `{"day":"2024-07-01","name":"Anatoly"}`)

	w := doJSON(t, h.Search, http.MethodGet, "/api/v1/bookings/search?name=ana&year=2024&month=6", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var items []bookingItem
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Ana Petrova" {
		t.Fatalf("unexpected matches: %+v", items)
	}

	w = doJSON(t, h.Search, http.MethodGet, "/api/v1/bookings/search?year=2024", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing name status = %d, want 400", w.Code)
	}

	w = doJSON(t, h.Search, http.MethodGet, "/api/v1/bookings/search?name=ana&year=abc", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric year status = %d, want 400", w.Code)
	}
}

func TestSummaryHTTP(t *testing.T) {
	h := newTestHandler()
	doJSON(t, h.Bookings, http.MethodPost, "/api/v1/bookings", `{"day":"2024-06-03","name":"Ana"}`)
	doJSON(t, h.Bookings, http.MethodPost, "/api/v1/bookings", `{"day":"2024-06-03","name":"Boris"}`)

	w := doJSON(t, h.Summary, http.MethodGet, "/api/v1/bookings/summary?year=2024&month=6", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var summaries []booking.DaySummary
	if err := json.Unmarshal(w.Body.Bytes(), &summaries); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if len(summaries) != 1 || summaries[0].Count != 2 {
		t.Fatalf("unexpected summary: %+v", summaries)
	}
	if summaries[0].Clients[0].Phone != "" {
		t.Fatalf("nil phone should render empty, got %q", summaries[0].Clients[0].Phone)
	}

	w = doJSON(t, h.Summary, http.MethodGet, "/api/v1/bookings/summary?year=2024", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing month status = %d, want 400", w.Code)
	}
	if resp := decodeError(t, w); resp.Kind != string(booking.KindMissingParameter) {
		t.Fatalf("missing month kind = %q", resp.Kind)
	}
}
