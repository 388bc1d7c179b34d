package store_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bidtrack/internal/store"
	"bidtrack/models"
)

func TestUpsertKeepsInsertionOrder(t *testing.T) {
	s := store.New()
	s.UpsertBid(models.Bid{ID: 3, Title: "Third"})
	s.UpsertBid(models.Bid{ID: 1, Title: "First"})
	s.UpsertBid(models.Bid{ID: 2, Title: "Second"})

	bids := s.Bids()
	require.Len(t, bids, 3)
	require.Equal(t, []int{3, 1, 2}, []int{bids[0].ID, bids[1].ID, bids[2].ID})
}

func TestUpsertReplacesById(t *testing.T) {
	s := store.New()
	s.UpsertBid(models.Bid{ID: 1, Title: "Old"})
	s.UpsertBid(models.Bid{ID: 1, Title: "New"})

	bids := s.Bids()
	require.Len(t, bids, 1)
	require.Equal(t, "New", bids[0].Title)
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	s := store.New()
	s.UpsertVendor(models.Vendor{ID: 1, CompanyName: "Acme"})

	require.False(t, s.RemoveVendor(99))
	require.Len(t, s.Vendors(), 1)
}

func TestRemoveKeepsOrderOfRest(t *testing.T) {
	s := store.New()
	for _, id := range []int{5, 6, 7, 8} {
		s.UpsertAssignment(models.VendorAssignment{ID: id, BidID: 1, VendorID: 1})
	}
	require.True(t, s.RemoveAssignment(6))

	got := s.Assignments()
	require.Len(t, got, 3)
	require.Equal(t, []int{5, 7, 8}, []int{got[0].ID, got[1].ID, got[2].ID})

	// индекс после сдвига остается рабочим
	a, ok := s.Assignment(8)
	require.True(t, ok)
	require.Equal(t, 8, a.ID)
}

func TestUpdateMissingReturnsFalse(t *testing.T) {
	s := store.New()
	ok := s.UpdateBid(42, func(b *models.Bid) { b.Title = "x" })
	require.False(t, ok)
	require.Empty(t, s.Bids())
}

func TestNotesForBid(t *testing.T) {
	s := store.New()
	s.UpsertNote(models.Note{ID: 1, BidID: 10, Content: "a"})
	s.UpsertNote(models.Note{ID: 2, BidID: 11, Content: "b"})
	s.UpsertNote(models.Note{ID: 3, BidID: 10, Content: "c"})

	notes := s.NotesForBid(10)
	require.Len(t, notes, 2)
	require.Equal(t, "a", notes[0].Content)
	require.Equal(t, "c", notes[1].Content)
}
