package handlers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bidtrack/internal/handlers"
	"bidtrack/internal/handlers/testutils"
	"bidtrack/internal/recon"
	"bidtrack/internal/store"
	"bidtrack/models"
)

// MockCoordinator реализует handlers.CoordinatorInterface
type MockCoordinator struct {
	Store *store.Store

	CreateBidErr        error
	UpdateBidFunc       func(ctx context.Context, id int, p models.BidPatch) error
	BulkRemoveErr       error
	CreateAssignmentErr error
}

func (m *MockCoordinator) CreateBid(ctx context.Context, b models.Bid) (models.Bid, error) {
	if m.CreateBidErr != nil {
		return models.Bid{}, m.CreateBidErr
	}
	b.ID = 42
	m.Store.UpsertBid(b)
	return b, nil
}

func (m *MockCoordinator) UpdateBid(ctx context.Context, id int, p models.BidPatch) error {
	if m.UpdateBidFunc != nil {
		return m.UpdateBidFunc(ctx, id, p)
	}
	m.Store.UpdateBid(id, func(b *models.Bid) { p.ApplyTo(b) })
	return nil
}

func (m *MockCoordinator) DeleteBid(ctx context.Context, id int) error {
	m.Store.RemoveBid(id)
	return nil
}

func (m *MockCoordinator) ArchiveBid(ctx context.Context, id int, userID string) error {
	return nil
}
func (m *MockCoordinator) HoldBid(ctx context.Context, id int, userID string) error    { return nil }
func (m *MockCoordinator) ConvertBid(ctx context.Context, id int, userID string) error { return nil }

func (m *MockCoordinator) CreateBidWithVendors(ctx context.Context, b models.Bid, vendorIDs []int) (models.Bid, []models.VendorAssignment, error) {
	created, _ := m.CreateBid(ctx, b)
	assignments := make([]models.VendorAssignment, 0, len(vendorIDs))
	for i, vid := range vendorIDs {
		assignments = append(assignments, models.VendorAssignment{ID: i + 1, BidID: created.ID, VendorID: vid})
	}
	return created, assignments, nil
}

func (m *MockCoordinator) CreateVendor(ctx context.Context, v models.Vendor) (models.Vendor, error) {
	v.ID = 3
	m.Store.UpsertVendor(v)
	return v, nil
}

func (m *MockCoordinator) UpdateVendor(ctx context.Context, id int, p models.VendorPatch) error {
	return nil
}

func (m *MockCoordinator) DeleteVendor(ctx context.Context, id int) error { return nil }

func (m *MockCoordinator) CreateAssignment(ctx context.Context, a models.VendorAssignment) (models.VendorAssignment, error) {
	if m.CreateAssignmentErr != nil {
		return models.VendorAssignment{}, m.CreateAssignmentErr
	}
	a.ID = 7
	m.Store.UpsertAssignment(a)
	return a, nil
}

func (m *MockCoordinator) UpdateAssignment(ctx context.Context, id int, p models.AssignmentPatch) error {
	return nil
}

func (m *MockCoordinator) DeleteAssignment(ctx context.Context, id int) error { return nil }

func (m *MockCoordinator) BulkRemoveAssignments(ctx context.Context, ids []int) error {
	return m.BulkRemoveErr
}

func (m *MockCoordinator) CreateNote(ctx context.Context, n models.Note) (models.Note, error) {
	n.ID = 1
	m.Store.UpsertNote(n)
	return n, nil
}

func (m *MockCoordinator) DeleteNote(ctx context.Context, id int) error { return nil }

func newHandler() (*handlers.Handler, *MockCoordinator, *store.Store) {
	s := store.New()
	mock := &MockCoordinator{Store: s}
	return handlers.NewHandler(mock, s, nil), mock, s
}

func TestCreateBidHandler(t *testing.T) {
	handler, _, s := newHandler()

	reqBody := `{"title":"Roof Replacement","status":"New"}`
	req := httptest.NewRequest(http.MethodPost, "/api/bids/new", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.CreateBidHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, string(body), `"id":42`)
	require.Contains(t, string(body), "Roof Replacement")
	require.Len(t, s.Bids(), 1)
}

func TestCreateBidHandlerRejectsEmpty(t *testing.T) {
	handler, mock, _ := newHandler()
	mock.CreateBidErr = recon.ErrEmptyBid

	req := httptest.NewRequest(http.MethodPost, "/api/bids/new", strings.NewReader(`{}`))
	w := httptest.NewRecorder()

	handler.CreateBidHandler(w, req)
	require.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestGetBidsHandler(t *testing.T) {
	handler, _, s := newHandler()
	s.UpsertBid(models.Bid{ID: 1, Title: "Sample Bid"})

	req := httptest.NewRequest(http.MethodGet, "/api/bids", nil)
	w := httptest.NewRecorder()

	handler.GetBidsHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, string(body), "Sample Bid")
}

func TestEditBidHandler(t *testing.T) {
	handler, _, s := newHandler()
	s.UpsertBid(models.Bid{ID: 42, Title: "Old Title"})

	reqBody := `{"title":"Updated Title"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/bids/42", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	req = testutils.WithChiURLParams(req, map[string]string{"bidId": "42"})
	w := httptest.NewRecorder()

	handler.EditBidHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, string(body), "Updated Title")
}

func TestEditBidHandlerUnknownBid(t *testing.T) {
	handler, mock, _ := newHandler()
	mock.UpdateBidFunc = func(ctx context.Context, id int, p models.BidPatch) error {
		return recon.ErrUnknownBid
	}

	req := httptest.NewRequest(http.MethodPatch, "/api/bids/5", strings.NewReader(`{"title":"x"}`))
	req = testutils.WithChiURLParams(req, map[string]string{"bidId": "5"})
	w := httptest.NewRecorder()

	handler.EditBidHandler(w, req)
	require.Equal(t, http.StatusNotFound, w.Result().StatusCode)
}

func TestCreateAssignmentHandlerCostRule(t *testing.T) {
	handler, mock, _ := newHandler()
	mock.CreateAssignmentErr = recon.ErrCostWithoutResponse

	reqBody := `{"bidId":42,"vendorId":3,"costAmount":1500}`
	req := httptest.NewRequest(http.MethodPost, "/api/assignments/new", strings.NewReader(reqBody))
	w := httptest.NewRecorder()

	handler.CreateAssignmentHandler(w, req)
	require.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestBulkRemoveAssignmentsHandlerSurfacesFailure(t *testing.T) {
	handler, mock, _ := newHandler()
	mock.BulkRemoveErr = &mockError{"assignment 8: connection reset"}

	reqBody := `{"ids":[7,8,9]}`
	req := httptest.NewRequest(http.MethodPost, "/api/assignments/bulk-remove", strings.NewReader(reqBody))
	w := httptest.NewRecorder()

	handler.BulkRemoveAssignmentsHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	require.Equal(t, http.StatusInternalServerError, res.StatusCode)
	require.Contains(t, string(body), "assignment 8")
}

type mockError struct{ msg string }

func (e *mockError) Error() string { return e.msg }

func TestGetTasksHandler(t *testing.T) {
	handler, _, s := newHandler()
	s.UpsertBid(models.Bid{ID: 42, Title: "Roof Replacement"})
	s.UpsertVendor(models.Vendor{ID: 3, CompanyName: "Acme Roofing"})

	yesterday := time.Now().AddDate(0, 0, -1)
	s.UpsertAssignment(models.VendorAssignment{
		ID: 7, BidID: 42, VendorID: 3,
		POFollowUp: &yesterday,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	w := httptest.NewRecorder()

	handler.GetTasksHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, string(body), `"7-po"`)
	require.Contains(t, string(body), `"overdue"`)
}

func TestGetTasksHandlerUrgencyFilter(t *testing.T) {
	handler, _, s := newHandler()
	s.UpsertBid(models.Bid{ID: 42, Title: "Roof Replacement"})

	yesterday := time.Now().AddDate(0, 0, -1)
	nextMonth := time.Now().AddDate(0, 1, 0)
	s.UpsertAssignment(models.VendorAssignment{
		ID: 7, BidID: 42, VendorID: 3,
		POFollowUp:         &yesterday,
		SubmittalsFollowUp: &nextMonth,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks?urgency=overdue", nil)
	w := httptest.NewRecorder()

	handler.GetTasksHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, string(body), `"7-po"`)
	require.NotContains(t, string(body), `"7-submittals"`)
}

func TestGetTasksHandlerBadDate(t *testing.T) {
	handler, _, _ := newHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/tasks?from=junk", nil)
	w := httptest.NewRecorder()

	handler.GetTasksHandler(w, req)
	require.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}
