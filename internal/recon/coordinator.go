package recon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"bidtrack/internal/store"
	"bidtrack/models"
)

// Ошибки бизнес-правил, проверяемых до обращения к хранилищу
var (
	ErrCostWithoutResponse = errors.New("cost amount requires a response received date")
	ErrArchivedAndOnHold   = errors.New("bid cannot be archived and on hold at the same time")
	ErrUnknownBid          = errors.New("bid does not exist")
	ErrUnknownVendor       = errors.New("vendor does not exist")
	ErrUnknownAssignment   = errors.New("vendor assignment does not exist")
	ErrEmptyBid            = errors.New("bid requires a title or a project name")
)

// Persistence — контракт слоя хранения, потребляемый координатором.
// Create-методы заполняют id и серверные дефолты в переданной записи.
type Persistence interface {
	CreateBid(ctx context.Context, b *models.Bid) error
	UpdateBid(ctx context.Context, id int, p models.BidPatch) error
	DeleteBid(ctx context.Context, id int) error

	CreateVendor(ctx context.Context, v *models.Vendor) error
	UpdateVendor(ctx context.Context, id int, p models.VendorPatch) error
	DeleteVendor(ctx context.Context, id int) error

	CreateAssignment(ctx context.Context, a *models.VendorAssignment) error
	UpdateAssignment(ctx context.Context, id int, p models.AssignmentPatch) error
	DeleteAssignment(ctx context.Context, id int) error

	CreateNote(ctx context.Context, n *models.Note) error
	DeleteNote(ctx context.Context, id int) error
}

// Coordinator выполняет мутации по схеме "проверить правила → применить
// оптимистично (только update) → вызвать хранилище → примирить результат".
// Create и Delete не оптимистичны: создание ждет серверный id, удаление
// подтверждения, чтобы не воскрешать запись при отказе. Неудавшийся
// оптимистичный update не откатывается — проекцию выправит следующее
// push-событие или полная перезагрузка.
type Coordinator struct {
	p   Persistence
	r   *Reconciler
	s   *store.Store
	log *zap.Logger
	now func() time.Time
}

// NewCoordinator собирает координатор над общим стором
func NewCoordinator(p Persistence, r *Reconciler, s *store.Store, log *zap.Logger) *Coordinator {
	return &Coordinator{p: p, r: r, s: s, log: log, now: time.Now}
}

// CreateBid создает проект и вставляет серверную каноничную запись
func (c *Coordinator) CreateBid(ctx context.Context, b models.Bid) (models.Bid, error) {
	if b.Title == "" && b.ProjectName == "" {
		return models.Bid{}, ErrEmptyBid
	}
	if b.Status == "" {
		b.Status = models.BidStatusNew
	}
	if err := c.p.CreateBid(ctx, &b); err != nil {
		return models.Bid{}, fmt.Errorf("create bid: %w", err)
	}
	c.r.InsertBid(b)
	return b, nil
}

// UpdateBid применяет патч оптимистично и подтверждает его в хранилище
func (c *Coordinator) UpdateBid(ctx context.Context, id int, p models.BidPatch) error {
	cur, ok := c.s.Bid(id)
	if !ok {
		return ErrUnknownBid
	}
	p.ApplyTo(&cur)
	if cur.Archived && cur.OnHold {
		return ErrArchivedAndOnHold
	}
	c.r.UpdateBid(id, p)
	if err := c.p.UpdateBid(ctx, id, p); err != nil {
		c.log.Warn("bid update not persisted, local change kept",
			zap.Int("id", id), zap.Error(err))
		return fmt.Errorf("update bid %d: %w", id, err)
	}
	return nil
}

// DeleteBid удаляет проект из хранилища и затем из проекции
func (c *Coordinator) DeleteBid(ctx context.Context, id int) error {
	if err := c.p.DeleteBid(ctx, id); err != nil {
		return fmt.Errorf("delete bid %d: %w", id, err)
	}
	c.r.DeleteBid(id)
	return nil
}

// ArchiveBid ставит мягкий флаг архива, снимая "на паузе"
func (c *Coordinator) ArchiveBid(ctx context.Context, id int, userID string) error {
	now := c.now()
	t, f := true, false
	return c.UpdateBid(ctx, id, models.BidPatch{
		ID: id, Archived: &t, ArchivedAt: &now, ArchivedBy: &userID, OnHold: &f,
	})
}

// HoldBid ставит мягкий флаг "на паузе", снимая архив
func (c *Coordinator) HoldBid(ctx context.Context, id int, userID string) error {
	now := c.now()
	t, f := true, false
	return c.UpdateBid(ctx, id, models.BidPatch{
		ID: id, OnHold: &t, OnHoldAt: &now, OnHoldBy: &userID, Archived: &f,
	})
}

// ConvertBid помечает проект переданным в следующий контур работ
func (c *Coordinator) ConvertBid(ctx context.Context, id int, userID string) error {
	now := c.now()
	t := true
	return c.UpdateBid(ctx, id, models.BidPatch{
		ID: id, Converted: &t, ConvertedAt: &now, ConvertedBy: &userID,
	})
}

// CreateVendor создает подрядчика
func (c *Coordinator) CreateVendor(ctx context.Context, v models.Vendor) (models.Vendor, error) {
	if err := c.p.CreateVendor(ctx, &v); err != nil {
		return models.Vendor{}, fmt.Errorf("create vendor: %w", err)
	}
	c.r.InsertVendor(v)
	return v, nil
}

// UpdateVendor применяет патч оптимистично и подтверждает его в хранилище
func (c *Coordinator) UpdateVendor(ctx context.Context, id int, p models.VendorPatch) error {
	if _, ok := c.s.Vendor(id); !ok {
		return ErrUnknownVendor
	}
	c.r.UpdateVendor(id, p)
	if err := c.p.UpdateVendor(ctx, id, p); err != nil {
		c.log.Warn("vendor update not persisted, local change kept",
			zap.Int("id", id), zap.Error(err))
		return fmt.Errorf("update vendor %d: %w", id, err)
	}
	return nil
}

// DeleteVendor удаляет подрядчика из хранилища и затем из проекции
func (c *Coordinator) DeleteVendor(ctx context.Context, id int) error {
	if err := c.p.DeleteVendor(ctx, id); err != nil {
		return fmt.Errorf("delete vendor %d: %w", id, err)
	}
	c.r.DeleteVendor(id)
	return nil
}

// CreateAssignment создает привязку подрядчика к проекту.
// Проект и подрядчик должны существовать в проекции, cost_amount
// допустим только вместе с датой полученного ответа.
func (c *Coordinator) CreateAssignment(ctx context.Context, a models.VendorAssignment) (models.VendorAssignment, error) {
	if _, ok := c.s.Bid(a.BidID); !ok {
		return models.VendorAssignment{}, ErrUnknownBid
	}
	if _, ok := c.s.Vendor(a.VendorID); !ok {
		return models.VendorAssignment{}, ErrUnknownVendor
	}
	if a.CostAmount != nil && a.ResponseReceivedDate == nil {
		return models.VendorAssignment{}, ErrCostWithoutResponse
	}
	if err := c.p.CreateAssignment(ctx, &a); err != nil {
		return models.VendorAssignment{}, fmt.Errorf("create assignment: %w", err)
	}
	c.r.InsertAssignment(a)
	return a, nil
}

// UpdateAssignment применяет патч оптимистично и подтверждает его в хранилище
func (c *Coordinator) UpdateAssignment(ctx context.Context, id int, p models.AssignmentPatch) error {
	cur, ok := c.s.Assignment(id)
	if !ok {
		return ErrUnknownAssignment
	}
	p.ApplyTo(&cur)
	if cur.CostAmount != nil && cur.ResponseReceivedDate == nil {
		return ErrCostWithoutResponse
	}
	c.r.UpdateAssignment(id, p)
	if err := c.p.UpdateAssignment(ctx, id, p); err != nil {
		c.log.Warn("assignment update not persisted, local change kept",
			zap.Int("id", id), zap.Error(err))
		return fmt.Errorf("update assignment %d: %w", id, err)
	}
	return nil
}

// DeleteAssignment удаляет привязку из хранилища и затем из проекции
func (c *Coordinator) DeleteAssignment(ctx context.Context, id int) error {
	if err := c.p.DeleteAssignment(ctx, id); err != nil {
		return fmt.Errorf("delete assignment %d: %w", id, err)
	}
	c.r.DeleteAssignment(id)
	return nil
}

// BulkRemoveAssignments удаляет несколько привязок. Локальные удаления
// применяются только для подтвержденных id и только после того, как
// разрешатся все вызовы; ошибка перечисляет каждый неудавшийся id.
func (c *Coordinator) BulkRemoveAssignments(ctx context.Context, ids []int) error {
	var errs []error
	var removed []int
	for _, id := range ids {
		if err := c.p.DeleteAssignment(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("assignment %d: %w", id, err))
			continue
		}
		removed = append(removed, id)
	}
	for _, id := range removed {
		c.r.DeleteAssignment(id)
	}
	return errors.Join(errs...)
}

// CreateBidWithVendors создает проект и N привязок одной логической
// операцией. При частичном успехе в проекцию попадает все, что вернуло
// хранилище (вставка идемпотентна, гонка с push-событием безопасна).
func (c *Coordinator) CreateBidWithVendors(ctx context.Context, b models.Bid, vendorIDs []int) (models.Bid, []models.VendorAssignment, error) {
	created, err := c.CreateBid(ctx, b)
	if err != nil {
		return models.Bid{}, nil, err
	}
	var errs []error
	var assignments []models.VendorAssignment
	for _, vid := range vendorIDs {
		a, err := c.CreateAssignment(ctx, models.VendorAssignment{
			BidID: created.ID, VendorID: vid,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("vendor %d: %w", vid, err))
			continue
		}
		assignments = append(assignments, a)
	}
	return created, assignments, errors.Join(errs...)
}

// CreateNote добавляет заметку к существующему проекту
func (c *Coordinator) CreateNote(ctx context.Context, n models.Note) (models.Note, error) {
	if _, ok := c.s.Bid(n.BidID); !ok {
		return models.Note{}, ErrUnknownBid
	}
	if err := c.p.CreateNote(ctx, &n); err != nil {
		return models.Note{}, fmt.Errorf("create note: %w", err)
	}
	c.r.InsertNote(n)
	return n, nil
}

// DeleteNote удаляет заметку из хранилища и затем из проекции
func (c *Coordinator) DeleteNote(ctx context.Context, id int) error {
	if err := c.p.DeleteNote(ctx, id); err != nil {
		return fmt.Errorf("delete note %d: %w", id, err)
	}
	c.r.DeleteNote(id)
	return nil
}
