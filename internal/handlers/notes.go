package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/daybook-app/daybook/internal/model"
	"github.com/daybook-app/daybook/internal/storage"
)

// NoteHandler is a thin CRUD wrapper over the note repository; notes carry
// no booking invariants.
type NoteHandler struct {
	repo   *storage.NoteRepository
	logger *slog.Logger
}

func NewNoteHandler(repo *storage.NoteRepository, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{repo: repo, logger: logger}
}

type noteItem struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
}

type createNoteRequest struct {
	Title string `json:"title"`
}

type updateNoteRequest struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type deleteNoteRequest struct {
	ID string `json:"id"`
}

func toNoteItem(n model.Note) noteItem {
	return noteItem{
		ID:        n.ID,
		Title:     n.Title,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *NoteHandler) Notes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *NoteHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json body"})
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "title is required"})
		return
	}

	n, err := h.repo.CreateNote(r.Context(), title)
	if err != nil {
		h.logger.Error("create note failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "storage error"})
		return
	}
	writeJSON(w, http.StatusCreated, toNoteItem(n))
}

func (h *NoteHandler) list(w http.ResponseWriter, r *http.Request) {
	notes, err := h.repo.ListNotes(r.Context())
	if err != nil {
		h.logger.Error("list notes failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "storage error"})
		return
	}
	items := make([]noteItem, 0, len(notes))
	for _, n := range notes {
		items = append(items, toNoteItem(n))
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req updateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json body"})
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "title is required"})
		return
	}
	if _, err := uuid.Parse(req.ID); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id must be a uuid"})
		return
	}

	n, err := h.repo.UpdateNote(r.Context(), req.ID, title)
	if err != nil {
		if errors.Is(err, storage.ErrNoteNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "note not found"})
			return
		}
		h.logger.Error("update note failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "storage error"})
		return
	}
	writeJSON(w, http.StatusOK, toNoteItem(n))
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req deleteNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json body"})
		return
	}
	if _, err := uuid.Parse(req.ID); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id must be a uuid"})
		return
	}

	if err := h.repo.DeleteNote(r.Context(), req.ID); err != nil {
		if errors.Is(err, storage.ErrNoteNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "note not found"})
			return
		}
		h.logger.Error("delete note failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "storage error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted_id": req.ID})
}
