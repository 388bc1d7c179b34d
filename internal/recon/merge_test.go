package recon_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bidtrack/internal/recon"
	"bidtrack/internal/store"
	"bidtrack/models"
)

func newReconciler() (*recon.Reconciler, *store.Store) {
	s := store.New()
	return recon.NewReconciler(s, zap.NewNop()), s
}

func TestInsertIsIdempotent(t *testing.T) {
	r, s := newReconciler()

	require.True(t, r.InsertBid(models.Bid{ID: 42, Title: "Roof Replacement"}))
	// повторная вставка того же id — no-op, запись не перезаписывается
	require.False(t, r.InsertBid(models.Bid{ID: 42, Title: "Another Title"}))

	bids := s.Bids()
	require.Len(t, bids, 1)
	require.Equal(t, "Roof Replacement", bids[0].Title)
}

func TestMalformedBidInsertRejected(t *testing.T) {
	r, s := newReconciler()

	require.False(t, r.InsertBid(models.Bid{Title: "No id"}))
	require.False(t, r.InsertBid(models.Bid{ID: 7}))

	require.Empty(t, s.Bids())
}

func TestUpdateWithoutInsertIsDropped(t *testing.T) {
	r, s := newReconciler()

	title := "Ghost"
	require.False(t, r.UpdateBid(5, models.BidPatch{ID: 5, Title: &title}))
	require.Empty(t, s.Bids())
}

func TestDeleteAbsorbsDoubleDelete(t *testing.T) {
	r, s := newReconciler()
	require.True(t, r.InsertVendor(models.Vendor{ID: 3, CompanyName: "Acme"}))

	r.DeleteVendor(3)
	r.DeleteVendor(3) // второй раз — no-op, без паники и ошибок
	require.Empty(t, s.Vendors())
}

func TestUpdateMergesFieldLevel(t *testing.T) {
	r, s := newReconciler()
	require.True(t, r.InsertAssignment(models.VendorAssignment{ID: 7, BidID: 42, VendorID: 3}))

	// локальный оптимистичный патч трогает только cost_amount
	cost := 1500.0
	require.True(t, r.UpdateAssignment(7, models.AssignmentPatch{ID: 7, CostAmount: &cost}))

	// push-патч по тому же id трогает только status
	status := "yes bid"
	require.True(t, r.UpdateAssignment(7, models.AssignmentPatch{ID: 7, Status: &status}))

	a, ok := s.Assignment(7)
	require.True(t, ok)
	require.NotNil(t, a.CostAmount)
	require.Equal(t, 1500.0, *a.CostAmount)
	require.Equal(t, "yes bid", a.Status)
}

func TestUpdateDoesNotClearUntouchedFields(t *testing.T) {
	r, s := newReconciler()
	require.True(t, r.InsertBid(models.Bid{ID: 1, Title: "Keep", ProjectName: "Project"}))

	status := models.BidStatusSubmitted
	require.True(t, r.UpdateBid(1, models.BidPatch{ID: 1, Status: &status}))

	b, _ := s.Bid(1)
	require.Equal(t, "Keep", b.Title)
	require.Equal(t, "Project", b.ProjectName)
	require.Equal(t, models.BidStatusSubmitted, b.Status)
}

func TestNoteInsertIdempotent(t *testing.T) {
	r, s := newReconciler()
	require.True(t, r.InsertNote(models.Note{ID: 9, BidID: 1, Content: "first"}))
	require.False(t, r.InsertNote(models.Note{ID: 9, BidID: 1, Content: "dup"}))

	notes := s.Notes()
	require.Len(t, notes, 1)
	require.Equal(t, "first", notes[0].Content)
}
