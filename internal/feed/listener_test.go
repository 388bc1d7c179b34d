package feed_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bidtrack/internal/feed"
	"bidtrack/internal/phases"
	"bidtrack/internal/recon"
	"bidtrack/internal/store"
	"bidtrack/models"
)

// fakeTransport реализует feed.Transport и отдает обработчики тесту
type fakeTransport struct {
	handlers        map[models.EntityKind]func([]byte)
	unsubscribeErrs map[models.EntityKind]error
	unsubscribed    []models.EntityKind
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		handlers:        map[models.EntityKind]func([]byte){},
		unsubscribeErrs: map[models.EntityKind]error{},
	}
}

func (f *fakeTransport) Subscribe(kind models.EntityKind, h func([]byte)) (feed.Subscription, error) {
	f.handlers[kind] = h
	return &fakeSub{t: f, kind: kind}, nil
}

func (f *fakeTransport) push(kind models.EntityKind, payload string) {
	f.handlers[kind]([]byte(payload))
}

type fakeSub struct {
	t    *fakeTransport
	kind models.EntityKind
}

func (s *fakeSub) Unsubscribe() error {
	s.t.unsubscribed = append(s.t.unsubscribed, s.kind)
	return s.t.unsubscribeErrs[s.kind]
}

func newListener(t *testing.T) (*fakeTransport, *feed.Listener, *store.Store) {
	tr := newFakeTransport()
	s := store.New()
	r := recon.NewReconciler(s, zap.NewNop())
	l := feed.NewListener(tr, r, zap.NewNop())
	require.NoError(t, l.Start())
	return tr, l, s
}

func TestEventTypeKeyNormalized(t *testing.T) {
	tr, _, s := newListener(t)

	tr.push(models.KindBid, `{"eventType":"INSERT","new":{"id":42,"title":"Roof Replacement"}}`)

	b, ok := s.Bid(42)
	require.True(t, ok)
	require.Equal(t, "Roof Replacement", b.Title)
}

func TestAlternateEventKeyNormalized(t *testing.T) {
	tr, _, s := newListener(t)

	tr.push(models.KindBid, `{"event":"insert","new":{"id":1,"project_name":"Warehouse"}}`)
	tr.push(models.KindBid, `{"event":"update","new":{"id":1,"status":"Submitted"}}`)

	b, ok := s.Bid(1)
	require.True(t, ok)
	require.Equal(t, "Warehouse", b.ProjectName)
	require.Equal(t, "Submitted", b.Status)
}

func TestUnknownOperationDropped(t *testing.T) {
	tr, _, s := newListener(t)

	tr.push(models.KindBid, `{"eventType":"TRUNCATE","new":{"id":1,"title":"x"}}`)
	require.Empty(t, s.Bids())
}

func TestUnparseablePayloadDropped(t *testing.T) {
	tr, _, s := newListener(t)

	tr.push(models.KindBid, `{not json`)
	tr.push(models.KindBid, `{"eventType":"INSERT"}`)
	require.Empty(t, s.Bids())
}

func TestBidInsertWithoutTitleDropped(t *testing.T) {
	tr, _, s := newListener(t)

	// есть id, но ни title, ни project_name — защитный фильтр
	tr.push(models.KindBid, `{"eventType":"INSERT","new":{"id":5,"status":"New"}}`)
	require.Empty(t, s.Bids())
}

func TestDeleteUsesOldRecord(t *testing.T) {
	tr, _, s := newListener(t)

	tr.push(models.KindVendor, `{"eventType":"INSERT","new":{"id":3,"company_name":"Acme"}}`)
	require.Len(t, s.Vendors(), 1)

	tr.push(models.KindVendor, `{"eventType":"DELETE","old":{"id":3,"company_name":"Acme"}}`)
	require.Empty(t, s.Vendors())

	// повторное удаление того же id — no-op
	tr.push(models.KindVendor, `{"eventType":"DELETE","old":{"id":3}}`)
	require.Empty(t, s.Vendors())
}

func TestUpdateForUnknownIdDropped(t *testing.T) {
	tr, _, s := newListener(t)

	// создающее событие еще не дошло — update просто отбрасывается
	tr.push(models.KindAssignment, `{"eventType":"UPDATE","new":{"id":7,"status":"yes bid"}}`)
	require.Empty(t, s.Assignments())
}

func TestNullColumnsDoNotClobber(t *testing.T) {
	tr, _, s := newListener(t)

	tr.push(models.KindBid, `{"eventType":"INSERT","new":{"id":42,"title":"P"}}`)
	tr.push(models.KindAssignment, `{"eventType":"INSERT","new":{"id":7,"bid_id":42,"vendor_id":3}}`)

	// локальный оптимистичный патч ставит cost_amount
	r := recon.NewReconciler(s, zap.NewNop())
	cost := 1500.0
	resp := time.Now()
	require.True(t, r.UpdateAssignment(7, models.AssignmentPatch{ID: 7, CostAmount: &cost, ResponseReceivedDate: &resp}))

	// полный ряд из row_to_json несет null в незаполненных колонках —
	// они не затирают локальное состояние
	tr.push(models.KindAssignment, `{"eventType":"UPDATE","new":{"id":7,"bid_id":42,"vendor_id":3,"status":"yes bid","cost_amount":null}}`)

	a, ok := s.Assignment(7)
	require.True(t, ok)
	require.Equal(t, "yes bid", a.Status)
	require.NotNil(t, a.CostAmount)
	require.Equal(t, 1500.0, *a.CostAmount)
}

func TestPushedAssignmentFeedsPhaseEngine(t *testing.T) {
	tr, _, s := newListener(t)

	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.Local)
	tr.push(models.KindBid, `{"eventType":"INSERT","new":{"id":42,"title":"Roof"}}`)
	tr.push(models.KindAssignment,
		`{"eventType":"INSERT","new":{"id":7,"bid_id":42,"vendor_id":3,"po_follow_up":"2025-06-09"}}`)

	tasks := phases.Tasks(s.Assignments(), map[int]models.Bid{}, map[int]models.Vendor{}, now)
	require.Len(t, tasks, 1)
	require.Equal(t, "7-po", tasks[0].ID)
	require.Equal(t, phases.UrgencyOverdue, tasks[0].Urgency)
}

func TestCloseToleratesUnsubscribeFailure(t *testing.T) {
	tr := newFakeTransport()
	tr.unsubscribeErrs[models.KindBid] = errors.New("socket closed")
	tr.unsubscribeErrs[models.KindVendor] = errors.New("socket closed")

	s := store.New()
	r := recon.NewReconciler(s, zap.NewNop())
	l := feed.NewListener(tr, r, zap.NewNop())
	require.NoError(t, l.Start())

	// отказ части подписок не мешает освободить остальные
	require.NotPanics(t, l.Close)
	require.Len(t, tr.unsubscribed, 4)
}
