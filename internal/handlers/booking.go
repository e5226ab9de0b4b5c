package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/daybook-app/daybook/internal/booking"
	"github.com/daybook-app/daybook/internal/model"
)

type BookingHandler struct {
	svc    *booking.Service
	logger *slog.Logger
}

func NewBookingHandler(svc *booking.Service, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{svc: svc, logger: logger}
}

type bookingItem struct {
	ID        int64   `json:"id"`
	Day       string  `json:"day"`
	Name      string  `json:"name"`
	Phone     *string `json:"phone"`
	Notes     *string `json:"notes"`
	CreatedAt string  `json:"created_at"`
}

type createBookingResponse struct {
	Booking   bookingItem `json:"booking"`
	Remaining int         `json:"remaining"`
}

type updateBookingRequest struct {
	ID    int64                  `json:"id"`
	Name  booking.OptionalString `json:"name"`
	Phone booking.OptionalString `json:"phone"`
	Notes booking.OptionalString `json:"notes"`
}

type deleteBookingRequest struct {
	ID int64 `json:"id"`
}

func toBookingItem(b model.Booking) bookingItem {
	return bookingItem{
		ID:        b.ID,
		Day:       b.Day,
		Name:      b.Name,
		Phone:     b.Phone,
		Notes:     b.Notes,
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toBookingItems(bs []model.Booking) []bookingItem {
	items := make([]bookingItem, 0, len(bs))
	for _, b := range bs {
		items = append(items, toBookingItem(b))
	}
	return items
}

// Bookings serves the collection path: POST creates, GET lists a day.
func (h *BookingHandler) Bookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.listDay(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *BookingHandler) create(w http.ResponseWriter, r *http.Request) {
	var req booking.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeDecodeError(w, err)
		return
	}

	b, remaining, err := h.svc.Create(r.Context(), req)
	if err != nil {
		h.logFailure(r, "create booking failed", err)
		writeBookingError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createBookingResponse{
		Booking:   toBookingItem(b),
		Remaining: remaining,
	})
}

func (h *BookingHandler) listDay(w http.ResponseWriter, r *http.Request) {
	day := strings.TrimSpace(r.URL.Query().Get("day"))
	bs, err := h.svc.ListDay(r.Context(), day)
	if err != nil {
		h.logFailure(r, "list bookings failed", err)
		writeBookingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingItems(bs))
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req updateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeDecodeError(w, err)
		return
	}

	b, err := h.svc.Update(r.Context(), req.ID, booking.UpdateInput{
		Name:  req.Name,
		Phone: req.Phone,
		Notes: req.Notes,
	})
	if err != nil {
		h.logFailure(r, "update booking failed", err)
		writeBookingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingItem(b))
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req deleteBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeDecodeError(w, err)
		return
	}

	if err := h.svc.Delete(r.Context(), req.ID); err != nil {
		h.logFailure(r, "delete booking failed", err)
		writeBookingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted_id": req.ID})
}

func (h *BookingHandler) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	year, ok := h.optionalIntParam(w, q.Get("year"), "year")
	if !ok {
		return
	}
	month, ok := h.optionalIntParam(w, q.Get("month"), "month")
	if !ok {
		return
	}

	bs, err := h.svc.Search(r.Context(), q.Get("name"), year, month)
	if err != nil {
		h.logFailure(r, "search bookings failed", err)
		writeBookingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingItems(bs))
}

func (h *BookingHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	year, ok := h.optionalIntParam(w, q.Get("year"), "year")
	if !ok {
		return
	}
	month, ok := h.optionalIntParam(w, q.Get("month"), "month")
	if !ok {
		return
	}
	if year == nil || month == nil {
		writeKindError(w, http.StatusBadRequest, booking.KindMissingParameter, "year and month are required")
		return
	}

	summaries, err := h.svc.Summary(r.Context(), *year, *month)
	if err != nil {
		h.logFailure(r, "monthly summary failed", err)
		writeBookingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

// optionalIntParam parses an optional numeric query parameter, writing the
// error response itself when the value is present but malformed.
func (h *BookingHandler) optionalIntParam(w http.ResponseWriter, raw, name string) (*int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeKindError(w, http.StatusBadRequest, booking.KindInvalidFormat, name+" must be an integer")
		return nil, false
	}
	return &v, true
}

func (h *BookingHandler) writeDecodeError(w http.ResponseWriter, err error) {
	if booking.IsWrongType(err) {
		writeKindError(w, http.StatusBadRequest, booking.KindWrongType, "field must be a string or null")
		return
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field == "id" {
		writeKindError(w, http.StatusBadRequest, booking.KindInvalidID, "id must be an integer")
		return
	}
	writeKindError(w, http.StatusBadRequest, booking.KindInvalidFormat, "invalid json body")
}

func (h *BookingHandler) logFailure(r *http.Request, msg string, err error) {
	// Client mistakes are expected traffic; only store faults are errors.
	if booking.KindOf(err) != "" {
		h.logger.Debug(msg, "err", err, "path", r.URL.Path)
		return
	}
	h.logger.Error(msg, "err", err, "path", r.URL.Path)
}
