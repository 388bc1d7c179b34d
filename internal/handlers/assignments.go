package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bidtrack/models"
)

// GetAssignmentsHandler отдает проекцию привязок; ?bidId= сужает до
// одного проекта
func (h *Handler) GetAssignmentsHandler(w http.ResponseWriter, r *http.Request) {
	assignments := h.Store.Assignments()
	if raw := r.URL.Query().Get("bidId"); raw != "" {
		bidID, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "Invalid bid id", http.StatusBadRequest)
			return
		}
		filtered := []models.VendorAssignment{}
		for _, a := range assignments {
			if a.BidID == bidID {
				filtered = append(filtered, a)
			}
		}
		assignments = filtered
	}
	writeJSON(w, http.StatusOK, assignments)
}

// CreateAssignmentHandler обрабатывает POST /api/assignments/new
func (h *Handler) CreateAssignmentHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1048576)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var assignment models.VendorAssignment
	if err := json.Unmarshal(body, &assignment); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	created, err := h.Coord.CreateAssignment(r.Context(), assignment)
	if err != nil {
		writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

// EditAssignmentHandler обрабатывает PATCH /api/assignments/{assignmentId}
func (h *Handler) EditAssignmentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "assignmentId"))
	if err != nil {
		http.Error(w, "Invalid assignment id", http.StatusBadRequest)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1048576)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var patch models.AssignmentPatch
	if err := json.Unmarshal(body, &patch); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	patch.ID = id

	if err := h.Coord.UpdateAssignment(r.Context(), id, patch); err != nil {
		writeMutationError(w, err)
		return
	}
	assignment, _ := h.Store.Assignment(id)
	writeJSON(w, http.StatusOK, assignment)
}

// DeleteAssignmentHandler обрабатывает DELETE /api/assignments/{assignmentId}
func (h *Handler) DeleteAssignmentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "assignmentId"))
	if err != nil {
		http.Error(w, "Invalid assignment id", http.StatusBadRequest)
		return
	}
	if err := h.Coord.DeleteAssignment(r.Context(), id); err != nil {
		writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": "deleted"})
}

// BulkRemoveAssignmentsHandler обрабатывает POST /api/assignments/bulk-remove.
// Подтвержденные удаления применяются даже при частичном отказе,
// ошибка перечисляет неудавшиеся id.
func (h *Handler) BulkRemoveAssignmentsHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1048576)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var req struct {
		IDs []int `json:"ids"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	if err := h.Coord.BulkRemoveAssignments(r.Context(), req.IDs); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": "removed"})
}
