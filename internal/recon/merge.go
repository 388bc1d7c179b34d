package recon

import (
	"go.uber.org/zap"

	"bidtrack/internal/store"
	"bidtrack/models"
)

// Reconciler — merge-политика проекции. Одни и те же правила применяются
// к оптимистичным локальным изменениям и к событиям push-канала:
//   - Insert идемпотентен по id (повторная вставка — no-op);
//   - Update переносит только заполненные поля патча, запись с
//     неизвестным id отбрасывается (создающее событие могло еще не дойти);
//   - Delete по отсутствующему id — no-op.
//
// Разрешения конфликтов по времени нет: кто применился последним, тот
// и видим, по каждому затронутому полю отдельно.
type Reconciler struct {
	store *store.Store
	log   *zap.Logger
}

// NewReconciler создает merge-политику над переданным стором
func NewReconciler(s *store.Store, log *zap.Logger) *Reconciler {
	return &Reconciler{store: s, log: log}
}

// InsertBid вставляет проект; false, если событие отброшено.
// Вставка без id или без хотя бы одного из title/projectName
// отбрасывается: защита от недоформированных push-уведомлений.
func (r *Reconciler) InsertBid(b models.Bid) bool {
	if b.ID == 0 || (b.Title == "" && b.ProjectName == "") {
		r.log.Warn("dropping malformed bid insert",
			zap.Int("id", b.ID), zap.String("title", b.Title))
		return false
	}
	if _, ok := r.store.Bid(b.ID); ok {
		r.log.Debug("duplicate bid insert ignored", zap.Int("id", b.ID))
		return false
	}
	r.store.UpsertBid(b)
	return true
}

// UpdateBid накладывает патч; false, если записи нет
func (r *Reconciler) UpdateBid(id int, p models.BidPatch) bool {
	ok := r.store.UpdateBid(id, func(b *models.Bid) { p.ApplyTo(b) })
	if !ok {
		r.log.Debug("update for unknown bid dropped", zap.Int("id", id))
	}
	return ok
}

// DeleteBid удаляет проект; отсутствие записи — не ошибка
func (r *Reconciler) DeleteBid(id int) {
	r.store.RemoveBid(id)
}

// InsertVendor вставляет подрядчика; false, если событие отброшено
func (r *Reconciler) InsertVendor(v models.Vendor) bool {
	if v.ID == 0 {
		r.log.Warn("dropping vendor insert without id")
		return false
	}
	if _, ok := r.store.Vendor(v.ID); ok {
		r.log.Debug("duplicate vendor insert ignored", zap.Int("id", v.ID))
		return false
	}
	r.store.UpsertVendor(v)
	return true
}

// UpdateVendor накладывает патч; false, если записи нет
func (r *Reconciler) UpdateVendor(id int, p models.VendorPatch) bool {
	ok := r.store.UpdateVendor(id, func(v *models.Vendor) { p.ApplyTo(v) })
	if !ok {
		r.log.Debug("update for unknown vendor dropped", zap.Int("id", id))
	}
	return ok
}

// DeleteVendor удаляет подрядчика; отсутствие записи — не ошибка
func (r *Reconciler) DeleteVendor(id int) {
	r.store.RemoveVendor(id)
}

// InsertAssignment вставляет привязку; false, если событие отброшено
func (r *Reconciler) InsertAssignment(a models.VendorAssignment) bool {
	if a.ID == 0 {
		r.log.Warn("dropping assignment insert without id")
		return false
	}
	if _, ok := r.store.Assignment(a.ID); ok {
		r.log.Debug("duplicate assignment insert ignored", zap.Int("id", a.ID))
		return false
	}
	r.store.UpsertAssignment(a)
	return true
}

// UpdateAssignment накладывает патч; false, если записи нет
func (r *Reconciler) UpdateAssignment(id int, p models.AssignmentPatch) bool {
	ok := r.store.UpdateAssignment(id, func(a *models.VendorAssignment) { p.ApplyTo(a) })
	if !ok {
		r.log.Debug("update for unknown assignment dropped", zap.Int("id", id))
	}
	return ok
}

// DeleteAssignment удаляет привязку; отсутствие записи — не ошибка
func (r *Reconciler) DeleteAssignment(id int) {
	r.store.RemoveAssignment(id)
}

// InsertNote вставляет заметку; false, если событие отброшено
func (r *Reconciler) InsertNote(n models.Note) bool {
	if n.ID == 0 {
		r.log.Warn("dropping note insert without id")
		return false
	}
	if _, ok := r.store.Note(n.ID); ok {
		r.log.Debug("duplicate note insert ignored", zap.Int("id", n.ID))
		return false
	}
	r.store.UpsertNote(n)
	return true
}

// DeleteNote удаляет заметку; отсутствие записи — не ошибка
func (r *Reconciler) DeleteNote(id int) {
	r.store.RemoveNote(id)
}
