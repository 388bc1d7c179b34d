package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"bidtrack/models"
)

// Storage — Postgres-хранилище, источник истины для проекции
type Storage struct {
	db *sqlx.DB
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{db: db}
}

// setClause собирает SET из заполненных полей частичного обновления
type setClause struct {
	cols []string
	args []interface{}
}

func (c *setClause) add(col string, v interface{}) {
	c.cols = append(c.cols, fmt.Sprintf("%s = $%d", col, len(c.args)+1))
	c.args = append(c.args, v)
}

func (c *setClause) empty() bool { return len(c.cols) == 0 }

func (c *setClause) query(table string) string {
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d",
		table, strings.Join(c.cols, ", "), len(c.args)+1)
}

// Bid (Проект)

func (s *Storage) CreateBid(ctx context.Context, b *models.Bid) error {
	if b.Status == "" {
		b.Status = models.BidStatusNew
	}
	query := `
        INSERT INTO bids
            (title, project_name, address, description, contractor, due_date,
             status, priority, estimate)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at`
	return s.db.QueryRowContext(ctx, query,
		b.Title, b.ProjectName, b.Address, b.Description, b.Contractor,
		b.DueDate, b.Status, b.Priority, b.Estimate).
		Scan(&b.ID, &b.CreatedAt)
}

func (s *Storage) UpdateBid(ctx context.Context, id int, p models.BidPatch) error {
	var c setClause
	if p.Title != nil {
		c.add("title", *p.Title)
	}
	if p.ProjectName != nil {
		c.add("project_name", *p.ProjectName)
	}
	if p.Address != nil {
		c.add("address", *p.Address)
	}
	if p.Description != nil {
		c.add("description", *p.Description)
	}
	if p.Contractor != nil {
		c.add("contractor", *p.Contractor)
	}
	if p.DueDate != nil {
		c.add("due_date", *p.DueDate)
	}
	if p.Status != nil {
		c.add("status", *p.Status)
	}
	if p.Priority != nil {
		c.add("priority", *p.Priority)
	}
	if p.Estimate != nil {
		c.add("estimate", *p.Estimate)
	}
	if p.Archived != nil {
		c.add("archived", *p.Archived)
	}
	if p.ArchivedAt != nil {
		c.add("archived_at", *p.ArchivedAt)
	}
	if p.ArchivedBy != nil {
		c.add("archived_by", *p.ArchivedBy)
	}
	if p.OnHold != nil {
		c.add("on_hold", *p.OnHold)
	}
	if p.OnHoldAt != nil {
		c.add("on_hold_at", *p.OnHoldAt)
	}
	if p.OnHoldBy != nil {
		c.add("on_hold_by", *p.OnHoldBy)
	}
	if p.Converted != nil {
		c.add("converted", *p.Converted)
	}
	if p.ConvertedAt != nil {
		c.add("converted_at", *p.ConvertedAt)
	}
	if p.ConvertedBy != nil {
		c.add("converted_by", *p.ConvertedBy)
	}
	if c.empty() {
		return nil
	}
	_, err := s.db.ExecContext(ctx, c.query("bids"), append(c.args, id)...)
	return err
}

func (s *Storage) DeleteBid(ctx context.Context, id int) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM bids WHERE id = $1`, id)
	return err
}

func (s *Storage) GetAllBids(ctx context.Context) ([]models.Bid, error) {
	bids := []models.Bid{}
	query := `SELECT * FROM bids ORDER BY created_at ASC`
	err := s.db.SelectContext(ctx, &bids, query)
	return bids, err
}

// Vendor (Подрядчик)

func (s *Storage) CreateVendor(ctx context.Context, v *models.Vendor) error {
	query := `
        INSERT INTO vendors
            (company_name, contact_name, phone, email, specialty, vendor_type,
             priority, insurance_expiry_date, insurance_doc_ref)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at`
	return s.db.QueryRowContext(ctx, query,
		v.CompanyName, v.ContactName, v.Phone, v.Email, v.Specialty,
		v.VendorType, v.Priority, v.InsuranceExpiryDate, v.InsuranceDocRef).
		Scan(&v.ID, &v.CreatedAt)
}

func (s *Storage) UpdateVendor(ctx context.Context, id int, p models.VendorPatch) error {
	var c setClause
	if p.CompanyName != nil {
		c.add("company_name", *p.CompanyName)
	}
	if p.ContactName != nil {
		c.add("contact_name", *p.ContactName)
	}
	if p.Phone != nil {
		c.add("phone", *p.Phone)
	}
	if p.Email != nil {
		c.add("email", *p.Email)
	}
	if p.Specialty != nil {
		c.add("specialty", *p.Specialty)
	}
	if p.VendorType != nil {
		c.add("vendor_type", *p.VendorType)
	}
	if p.Priority != nil {
		c.add("priority", *p.Priority)
	}
	if p.InsuranceExpiryDate != nil {
		c.add("insurance_expiry_date", *p.InsuranceExpiryDate)
	}
	if p.InsuranceDocRef != nil {
		c.add("insurance_doc_ref", *p.InsuranceDocRef)
	}
	if c.empty() {
		return nil
	}
	_, err := s.db.ExecContext(ctx, c.query("vendors"), append(c.args, id)...)
	return err
}

func (s *Storage) DeleteVendor(ctx context.Context, id int) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM vendors WHERE id = $1`, id)
	return err
}

func (s *Storage) GetAllVendors(ctx context.Context) ([]models.Vendor, error) {
	vendors := []models.Vendor{}
	query := `SELECT * FROM vendors ORDER BY company_name ASC`
	err := s.db.SelectContext(ctx, &vendors, query)
	return vendors, err
}

// VendorAssignment (Привязка)

func (s *Storage) CreateAssignment(ctx context.Context, a *models.VendorAssignment) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
        INSERT INTO vendor_assignments
            (bid_id, vendor_id, assigned_to, due_date, response_received_date,
             status, follow_up_count, priority, cost_amount)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at`
	err = tx.QueryRowContext(ctx, query,
		a.BidID, a.VendorID, a.AssignedTo, a.DueDate, a.ResponseReceivedDate,
		a.Status, a.FollowUpCount, a.Priority, a.CostAmount).
		Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return err
	}

	// Серверные дефолты workflow: шесть пустых фаз в нормализованном виде
	if len(a.Phases) == 0 {
		a.Phases = defaultPhases()
	}
	if err := insertPhases(ctx, tx, a.ID, a.Phases); err != nil {
		return err
	}
	return tx.Commit()
}

func defaultPhases() []models.PhaseEntry {
	names := []string{"buy_number", "po", "submittals", "revised_plans", "equipment_release", "closeouts"}
	entries := make([]models.PhaseEntry, len(names))
	for i, n := range names {
		entries[i] = models.PhaseEntry{Name: n}
	}
	return entries
}

func insertPhases(ctx context.Context, tx *sqlx.Tx, assignmentID int, entries []models.PhaseEntry) error {
	query := `
        INSERT INTO assignment_phases
            (assignment_id, position, name, follow_up_date, received_date, notes)
        VALUES ($1, $2, $3, $4, $5, $6)`
	for i, e := range entries {
		if _, err := tx.ExecContext(ctx, query,
			assignmentID, i, e.Name, e.FollowUpDate, e.ReceivedDate, e.Notes); err != nil {
			return err
		}
	}
	return nil
}

func (s *Storage) UpdateAssignment(ctx context.Context, id int, p models.AssignmentPatch) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var c setClause
	if p.AssignedTo != nil {
		c.add("assigned_to", *p.AssignedTo)
	}
	if p.DueDate != nil {
		c.add("due_date", *p.DueDate)
	}
	if p.ResponseReceivedDate != nil {
		c.add("response_received_date", *p.ResponseReceivedDate)
	}
	if p.Status != nil {
		c.add("status", *p.Status)
	}
	if p.FollowUpCount != nil {
		c.add("follow_up_count", *p.FollowUpCount)
	}
	if p.Priority != nil {
		c.add("priority", *p.Priority)
	}
	if p.CostAmount != nil {
		c.add("cost_amount", *p.CostAmount)
	}
	if p.BuyNumberFollowUp != nil {
		c.add("buy_number_follow_up", *p.BuyNumberFollowUp)
	}
	if p.BuyNumberReceived != nil {
		c.add("buy_number_received", *p.BuyNumberReceived)
	}
	if p.BuyNumberNotes != nil {
		c.add("buy_number_notes", *p.BuyNumberNotes)
	}
	if p.POFollowUp != nil {
		c.add("po_follow_up", *p.POFollowUp)
	}
	if p.POReceived != nil {
		c.add("po_received", *p.POReceived)
	}
	if p.PONotes != nil {
		c.add("po_notes", *p.PONotes)
	}
	if p.SubmittalsFollowUp != nil {
		c.add("submittals_follow_up", *p.SubmittalsFollowUp)
	}
	if p.SubmittalsReceived != nil {
		c.add("submittals_received", *p.SubmittalsReceived)
	}
	if p.SubmittalsNotes != nil {
		c.add("submittals_notes", *p.SubmittalsNotes)
	}
	if p.RevisedPlansFollowUp != nil {
		c.add("revised_plans_follow_up", *p.RevisedPlansFollowUp)
	}
	if p.RevisedPlansReceived != nil {
		c.add("revised_plans_received", *p.RevisedPlansReceived)
	}
	if p.RevisedPlansNotes != nil {
		c.add("revised_plans_notes", *p.RevisedPlansNotes)
	}
	if p.EquipmentReleaseFollowUp != nil {
		c.add("equipment_release_follow_up", *p.EquipmentReleaseFollowUp)
	}
	if p.EquipmentReleaseReceived != nil {
		c.add("equipment_release_received", *p.EquipmentReleaseReceived)
	}
	if p.EquipmentReleaseNotes != nil {
		c.add("equipment_release_notes", *p.EquipmentReleaseNotes)
	}
	if p.CloseoutsFollowUp != nil {
		c.add("closeouts_follow_up", *p.CloseoutsFollowUp)
	}
	if p.CloseoutsReceived != nil {
		c.add("closeouts_received", *p.CloseoutsReceived)
	}
	if p.CloseoutsNotes != nil {
		c.add("closeouts_notes", *p.CloseoutsNotes)
	}
	// updated_at двигается всегда, чтобы триггер уведомил другие сессии
	// даже когда менялись только фазы
	c.cols = append(c.cols, "updated_at = NOW()")

	if _, err := tx.ExecContext(ctx, c.query("vendor_assignments"), append(c.args, id)...); err != nil {
		return err
	}

	// Непустой нормализованный список заменяет фазы целиком
	if p.Phases != nil {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM assignment_phases WHERE assignment_id = $1`, id); err != nil {
			return err
		}
		if err := insertPhases(ctx, tx, id, p.Phases); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Storage) DeleteAssignment(ctx context.Context, id int) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM vendor_assignments WHERE id = $1`, id)
	return err
}

func (s *Storage) GetAllAssignments(ctx context.Context) ([]models.VendorAssignment, error) {
	assignments := []models.VendorAssignment{}
	query := `SELECT * FROM vendor_assignments ORDER BY created_at ASC`
	if err := s.db.SelectContext(ctx, &assignments, query); err != nil {
		return nil, err
	}

	type phaseRow struct {
		AssignmentID int `db:"assignment_id"`
		models.PhaseEntry
	}
	rows := []phaseRow{}
	phasesQuery := `
        SELECT assignment_id, name, follow_up_date, received_date, notes
        FROM assignment_phases
        ORDER BY assignment_id, position`
	if err := s.db.SelectContext(ctx, &rows, phasesQuery); err != nil {
		return nil, err
	}
	byAssignment := map[int][]models.PhaseEntry{}
	for _, r := range rows {
		byAssignment[r.AssignmentID] = append(byAssignment[r.AssignmentID], r.PhaseEntry)
	}
	for i := range assignments {
		assignments[i].Phases = byAssignment[assignments[i].ID]
	}
	return assignments, nil
}

// Note (Заметка)

func (s *Storage) CreateNote(ctx context.Context, n *models.Note) error {
	query := `
        INSERT INTO notes (bid_id, user_id, content)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`
	return s.db.QueryRowContext(ctx, query, n.BidID, n.UserID, n.Content).
		Scan(&n.ID, &n.CreatedAt)
}

func (s *Storage) DeleteNote(ctx context.Context, id int) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	return err
}

func (s *Storage) GetAllNotes(ctx context.Context) ([]models.Note, error) {
	notes := []models.Note{}
	query := `SELECT * FROM notes ORDER BY created_at ASC`
	err := s.db.SelectContext(ctx, &notes, query)
	return notes, err
}

// User (Пользователь)

func (s *Storage) GetAllUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	query := `SELECT * FROM users ORDER BY display_name ASC`
	err := s.db.SelectContext(ctx, &users, query)
	return users, err
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u := &models.User{}
	query := `SELECT * FROM users WHERE email = $1`
	err := s.db.GetContext(ctx, u, query, email)
	return u, err
}
