package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bidtrack/models"
)

// GetBidNotesHandler отдает заметки проекта в порядке добавления
func (h *Handler) GetBidNotesHandler(w http.ResponseWriter, r *http.Request) {
	bidID, err := strconv.Atoi(chi.URLParam(r, "bidId"))
	if err != nil {
		http.Error(w, "Invalid bid id", http.StatusBadRequest)
		return
	}
	notes := h.Store.NotesForBid(bidID)
	if notes == nil {
		notes = []models.Note{}
	}
	writeJSON(w, http.StatusOK, notes)
}

// CreateNoteHandler обрабатывает POST /api/notes/new
func (h *Handler) CreateNoteHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1048576)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var note models.Note
	if err := json.Unmarshal(body, &note); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	if note.Content == "" {
		http.Error(w, "content is required", http.StatusBadRequest)
		return
	}

	created, err := h.Coord.CreateNote(r.Context(), note)
	if err != nil {
		writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

// DeleteNoteHandler обрабатывает DELETE /api/notes/{noteId}
func (h *Handler) DeleteNoteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "noteId"))
	if err != nil {
		http.Error(w, "Invalid note id", http.StatusBadRequest)
		return
	}
	if err := h.Coord.DeleteNote(r.Context(), id); err != nil {
		writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": "deleted"})
}
