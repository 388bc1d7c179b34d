package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"bidtrack/internal/recon"
	"bidtrack/internal/store"
	"bidtrack/models"
)

// CoordinatorInterface — контракт координатора мутаций, потребляемый
// HTTP-слоем (чтение идет мимо него, напрямую из проекции)
type CoordinatorInterface interface {
	CreateBid(ctx context.Context, b models.Bid) (models.Bid, error)
	UpdateBid(ctx context.Context, id int, p models.BidPatch) error
	DeleteBid(ctx context.Context, id int) error
	ArchiveBid(ctx context.Context, id int, userID string) error
	HoldBid(ctx context.Context, id int, userID string) error
	ConvertBid(ctx context.Context, id int, userID string) error
	CreateBidWithVendors(ctx context.Context, b models.Bid, vendorIDs []int) (models.Bid, []models.VendorAssignment, error)

	CreateVendor(ctx context.Context, v models.Vendor) (models.Vendor, error)
	UpdateVendor(ctx context.Context, id int, p models.VendorPatch) error
	DeleteVendor(ctx context.Context, id int) error

	CreateAssignment(ctx context.Context, a models.VendorAssignment) (models.VendorAssignment, error)
	UpdateAssignment(ctx context.Context, id int, p models.AssignmentPatch) error
	DeleteAssignment(ctx context.Context, id int) error
	BulkRemoveAssignments(ctx context.Context, ids []int) error

	CreateNote(ctx context.Context, n models.Note) (models.Note, error)
	DeleteNote(ctx context.Context, id int) error
}

// Handler связывает HTTP-маршруты с координатором, проекцией и
// справочником пользователей
type Handler struct {
	Coord CoordinatorInterface
	Store *store.Store
	Users UserSource
}

// NewHandler создает новый Handler
func NewHandler(c CoordinatorInterface, s *store.Store, u UserSource) *Handler {
	return &Handler{Coord: c, Store: s, Users: u}
}

// PingHandler отвечает "ok" для проверки сервера
func (h *Handler) PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeMutationError переводит ошибки координатора в HTTP-статусы.
// Нарушения бизнес-правил — 400, неизвестные записи — 404, остальное
// (отказ хранилища) — 500 с текстом для повтора на клиенте.
func writeMutationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, recon.ErrCostWithoutResponse),
		errors.Is(err, recon.ErrArchivedAndOnHold),
		errors.Is(err, recon.ErrEmptyBid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, recon.ErrUnknownBid),
		errors.Is(err, recon.ErrUnknownVendor),
		errors.Is(err, recon.ErrUnknownAssignment):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
