package handlers

import (
	"net/http"
	"time"

	"bidtrack/internal/phases"
	"bidtrack/models"
)

// GetTasksHandler обрабатывает GET /api/tasks: строит список
// незакрытых напоминаний по фазам и применяет фильтры запроса
// (assignedTo, urgency, from, to, q)
func (h *Handler) GetTasksHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := phases.Filter{
		AssignedTo: q.Get("assignedTo"),
		Urgency:    phases.Urgency(q.Get("urgency")),
		Search:     q.Get("q"),
	}
	if raw := q.Get("from"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			http.Error(w, "Invalid from date", http.StatusBadRequest)
			return
		}
		filter.From = &t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			http.Error(w, "Invalid to date", http.StatusBadRequest)
			return
		}
		filter.To = &t
	}

	bids := map[int]models.Bid{}
	for _, b := range h.Store.Bids() {
		bids[b.ID] = b
	}
	vendors := map[int]models.Vendor{}
	for _, v := range h.Store.Vendors() {
		vendors[v.ID] = v
	}

	tasks := phases.Tasks(h.Store.Assignments(), bids, vendors, time.Now())
	tasks = phases.Apply(tasks, filter)
	if tasks == nil {
		tasks = []phases.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}
