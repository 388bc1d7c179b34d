package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bidtrack/models"
)

// GetBidsHandler отдает проекцию проектов в порядке добавления
func (h *Handler) GetBidsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Bids())
}

// CreateBidHandler обрабатывает POST /api/bids/new
func (h *Handler) CreateBidHandler(w http.ResponseWriter, r *http.Request) {
	// Ограничение размера тела, чтобы избежать DoS
	r.Body = http.MaxBytesReader(w, r.Body, 1048576)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var bid models.Bid
	if err := json.Unmarshal(body, &bid); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	created, err := h.Coord.CreateBid(r.Context(), bid)
	if err != nil {
		writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

// Запрос компоновки "проект сразу с подрядчиками"
type createBidWithVendorsRequest struct {
	Bid       models.Bid `json:"bid"`
	VendorIDs []int      `json:"vendorIds"`
}

type createBidWithVendorsResponse struct {
	Bid         models.Bid                `json:"bid"`
	Assignments []models.VendorAssignment `json:"assignments"`
	Error       string                    `json:"error,omitempty"`
}

// CreateBidWithVendorsHandler обрабатывает POST /api/bids/with-vendors.
// Частичный успех не откатывается: что создалось, то и возвращается,
// неудачи перечисляются в error.
func (h *Handler) CreateBidWithVendorsHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1048576)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var req createBidWithVendorsRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	bid, assignments, err := h.Coord.CreateBidWithVendors(r.Context(), req.Bid, req.VendorIDs)
	if err != nil && bid.ID == 0 {
		writeMutationError(w, err)
		return
	}
	resp := createBidWithVendorsResponse{Bid: bid, Assignments: assignments}
	if err != nil {
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// EditBidHandler обрабатывает PATCH /api/bids/{bidId}
func (h *Handler) EditBidHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "bidId"))
	if err != nil {
		http.Error(w, "Invalid bid id", http.StatusBadRequest)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1048576)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var patch models.BidPatch
	if err := json.Unmarshal(body, &patch); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	patch.ID = id

	if err := h.Coord.UpdateBid(r.Context(), id, patch); err != nil {
		writeMutationError(w, err)
		return
	}
	bid, _ := h.Store.Bid(id)
	writeJSON(w, http.StatusOK, bid)
}

// DeleteBidHandler обрабатывает DELETE /api/bids/{bidId}
func (h *Handler) DeleteBidHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "bidId"))
	if err != nil {
		http.Error(w, "Invalid bid id", http.StatusBadRequest)
		return
	}
	if err := h.Coord.DeleteBid(r.Context(), id); err != nil {
		writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": "deleted"})
}

// ArchiveBidHandler обрабатывает PUT /api/bids/{bidId}/archive
func (h *Handler) ArchiveBidHandler(w http.ResponseWriter, r *http.Request) {
	h.lifecycleFlag(w, r, h.Coord.ArchiveBid)
}

// HoldBidHandler обрабатывает PUT /api/bids/{bidId}/hold
func (h *Handler) HoldBidHandler(w http.ResponseWriter, r *http.Request) {
	h.lifecycleFlag(w, r, h.Coord.HoldBid)
}

// ConvertBidHandler обрабатывает PUT /api/bids/{bidId}/convert
func (h *Handler) ConvertBidHandler(w http.ResponseWriter, r *http.Request) {
	h.lifecycleFlag(w, r, h.Coord.ConvertBid)
}

func (h *Handler) lifecycleFlag(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id int, userID string) error) {
	id, err := strconv.Atoi(chi.URLParam(r, "bidId"))
	if err != nil {
		http.Error(w, "Invalid bid id", http.StatusBadRequest)
		return
	}
	userID := r.URL.Query().Get("userId")
	if err := op(r.Context(), id, userID); err != nil {
		writeMutationError(w, err)
		return
	}
	bid, _ := h.Store.Bid(id)
	writeJSON(w, http.StatusOK, bid)
}
