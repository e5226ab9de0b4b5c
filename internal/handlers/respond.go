package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/daybook-app/daybook/internal/booking"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to build response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeBookingError(w http.ResponseWriter, err error) {
	switch {
	case booking.IsCapacityExceeded(err):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Kind: string(booking.KindCapacityExceeded)})
	case booking.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Kind: string(booking.KindNotFound)})
	case booking.IsInput(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: string(booking.KindOf(err))})
	default:
		// Store failure: surface an opaque message, details stay in the log.
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "storage error"})
	}
}

func writeKindError(w http.ResponseWriter, status int, kind booking.Kind, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Kind: string(kind)})
}
