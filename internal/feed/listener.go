package feed

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"bidtrack/internal/recon"
	"bidtrack/models"
)

// Transport — контракт push-канала изменений: одна подписка на вид
// сущности, обработчик вызывается на каждое событие в порядке доставки
type Transport interface {
	Subscribe(kind models.EntityKind, h func(payload []byte)) (Subscription, error)
}

// Subscription освобождает подписку; контракт "best effort"
type Subscription interface {
	Unsubscribe() error
}

// Listener держит по подписке на каждый вид сущности, нормализует
// сырые события и гонит их через merge-политику. Битые события
// отбрасываются молча (следующее корректное событие по тому же id
// выправит проекцию само).
type Listener struct {
	t    Transport
	r    *recon.Reconciler
	log  *zap.Logger
	subs []Subscription
}

// NewListener собирает слушатель над переданным транспортом
func NewListener(t Transport, r *recon.Reconciler, log *zap.Logger) *Listener {
	return &Listener{t: t, r: r, log: log}
}

// Start открывает подписки на все четыре вида. При ошибке уже
// открытые подписки освобождаются.
func (l *Listener) Start() error {
	kinds := []models.EntityKind{
		models.KindBid, models.KindVendor, models.KindAssignment, models.KindNote,
	}
	for _, kind := range kinds {
		k := kind
		sub, err := l.t.Subscribe(k, func(payload []byte) { l.handle(k, payload) })
		if err != nil {
			l.Close()
			return fmt.Errorf("subscribe %s: %w", k, err)
		}
		l.subs = append(l.subs, sub)
	}
	return nil
}

// Close освобождает все подписки. Отказ одной не мешает остальным:
// ошибка логируется и не пробрасывается.
func (l *Listener) Close() {
	for _, sub := range l.subs {
		if err := sub.Unsubscribe(); err != nil {
			l.log.Warn("unsubscribe failed", zap.Error(err))
		}
	}
	l.subs = nil
}

func (l *Listener) handle(kind models.EntityKind, payload []byte) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		l.log.Warn("dropping unparseable feed event",
			zap.String("kind", string(kind)), zap.Error(err))
		return
	}
	o := env.op()
	if o == opUnknown {
		l.log.Warn("dropping feed event with unknown operation",
			zap.String("kind", string(kind)),
			zap.String("eventType", env.EventType), zap.String("event", env.Event))
		return
	}
	record := env.record(o)
	if len(record) == 0 {
		l.log.Warn("dropping feed event without record",
			zap.String("kind", string(kind)))
		return
	}

	switch kind {
	case models.KindBid:
		l.handleBid(o, record)
	case models.KindVendor:
		l.handleVendor(o, record)
	case models.KindAssignment:
		l.handleAssignment(o, record)
	case models.KindNote:
		l.handleNote(o, record)
	default:
		l.log.Warn("feed event for unknown kind dropped", zap.String("kind", string(kind)))
	}
}

func (l *Listener) handleBid(o op, record []byte) {
	var row bidRow
	if err := json.Unmarshal(record, &row); err != nil {
		l.log.Warn("dropping malformed bid event", zap.Error(err))
		return
	}
	if row.ID == nil {
		l.log.Warn("dropping bid event without id")
		return
	}
	switch o {
	case opInsert:
		l.r.InsertBid(row.toBid())
	case opUpdate:
		l.r.UpdateBid(*row.ID, row.toPatch())
	case opDelete:
		l.r.DeleteBid(*row.ID)
	}
}

func (l *Listener) handleVendor(o op, record []byte) {
	var row vendorRow
	if err := json.Unmarshal(record, &row); err != nil {
		l.log.Warn("dropping malformed vendor event", zap.Error(err))
		return
	}
	if row.ID == nil {
		l.log.Warn("dropping vendor event without id")
		return
	}
	switch o {
	case opInsert:
		l.r.InsertVendor(row.toVendor())
	case opUpdate:
		l.r.UpdateVendor(*row.ID, row.toPatch())
	case opDelete:
		l.r.DeleteVendor(*row.ID)
	}
}

func (l *Listener) handleAssignment(o op, record []byte) {
	var row assignmentRow
	if err := json.Unmarshal(record, &row); err != nil {
		l.log.Warn("dropping malformed assignment event", zap.Error(err))
		return
	}
	if row.ID == nil {
		l.log.Warn("dropping assignment event without id")
		return
	}
	switch o {
	case opInsert:
		l.r.InsertAssignment(row.toAssignment())
	case opUpdate:
		l.r.UpdateAssignment(*row.ID, row.toPatch())
	case opDelete:
		l.r.DeleteAssignment(*row.ID)
	}
}

func (l *Listener) handleNote(o op, record []byte) {
	var row noteRow
	if err := json.Unmarshal(record, &row); err != nil {
		l.log.Warn("dropping malformed note event", zap.Error(err))
		return
	}
	if row.ID == nil {
		l.log.Warn("dropping note event without id")
		return
	}
	switch o {
	case opInsert:
		l.r.InsertNote(row.toNote())
	case opUpdate:
		// заметки append-only, update по ним не приходит
		l.log.Warn("unexpected note update dropped", zap.Int("id", *row.ID))
	case opDelete:
		l.r.DeleteNote(*row.ID)
	}
}
