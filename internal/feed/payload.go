package feed

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"bidtrack/models"
)

// Операция события после нормализации конверта
type op int

const (
	opUnknown op = iota
	opInsert
	opUpdate
	opDelete
)

// Конверт push-события. Транспорт может прислать дискриминатор либо в
// eventType, либо в event; new несет строку для insert/update, old — для
// delete. Все, что не нормализуется, отбрасывается до merge-политики.
type envelope struct {
	EventType string          `json:"eventType"`
	Event     string          `json:"event"`
	New       json.RawMessage `json:"new"`
	Old       json.RawMessage `json:"old"`
}

func (e envelope) op() op {
	name := e.EventType
	if name == "" {
		name = e.Event
	}
	switch strings.ToUpper(name) {
	case "INSERT":
		return opInsert
	case "UPDATE":
		return opUpdate
	case "DELETE":
		return opDelete
	}
	return opUnknown
}

// record возвращает полезную нагрузку события: new для insert/update,
// old для delete
func (e envelope) record(o op) json.RawMessage {
	if o == opDelete {
		if len(e.Old) > 0 {
			return e.Old
		}
	}
	return e.New
}

// flexTime разбирает даты в тех форматах, в которых их отдает
// row_to_json: timestamptz с зоной, timestamp без зоны и голую дату
type flexTime time.Time

func (t *flexTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			*t = flexTime(ts)
			return nil
		}
	}
	return fmt.Errorf("unsupported time format %q", s)
}

func (t *flexTime) std() *time.Time {
	if t == nil {
		return nil
	}
	ts := time.Time(*t)
	return &ts
}

func (t *flexTime) or(def time.Time) time.Time {
	if t == nil {
		return def
	}
	return time.Time(*t)
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func boolVal(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}

func intVal(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}

func floatVal(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// Строка таблицы bids в том виде, в каком ее отдает триггер
// (snake_case-колонки, null для незаполненных полей)
type bidRow struct {
	ID          *int      `json:"id"`
	Title       *string   `json:"title"`
	ProjectName *string   `json:"project_name"`
	Address     *string   `json:"address"`
	Description *string   `json:"description"`
	Contractor  *string   `json:"contractor"`
	DueDate     *flexTime `json:"due_date"`
	Status      *string   `json:"status"`
	Priority    *bool     `json:"priority"`
	Estimate    *float64  `json:"estimate"`
	Archived    *bool     `json:"archived"`
	ArchivedAt  *flexTime `json:"archived_at"`
	ArchivedBy  *string   `json:"archived_by"`
	OnHold      *bool     `json:"on_hold"`
	OnHoldAt    *flexTime `json:"on_hold_at"`
	OnHoldBy    *string   `json:"on_hold_by"`
	Converted   *bool     `json:"converted"`
	ConvertedAt *flexTime `json:"converted_at"`
	ConvertedBy *string   `json:"converted_by"`
	CreatedAt   *flexTime `json:"created_at"`
}

func (r bidRow) toBid() models.Bid {
	return models.Bid{
		ID:          intVal(r.ID),
		Title:       str(r.Title),
		ProjectName: str(r.ProjectName),
		Address:     str(r.Address),
		Description: str(r.Description),
		Contractor:  str(r.Contractor),
		DueDate:     r.DueDate.std(),
		Status:      str(r.Status),
		Priority:    boolVal(r.Priority),
		Estimate:    floatVal(r.Estimate),
		Archived:    boolVal(r.Archived),
		ArchivedAt:  r.ArchivedAt.std(),
		ArchivedBy:  str(r.ArchivedBy),
		OnHold:      boolVal(r.OnHold),
		OnHoldAt:    r.OnHoldAt.std(),
		OnHoldBy:    str(r.OnHoldBy),
		Converted:   boolVal(r.Converted),
		ConvertedAt: r.ConvertedAt.std(),
		ConvertedBy: str(r.ConvertedBy),
		CreatedAt:   r.CreatedAt.or(time.Time{}),
	}
}

// toPatch отдает только присутствующие поля: null-колонки не
// затирают локальное состояние
func (r bidRow) toPatch() models.BidPatch {
	return models.BidPatch{
		ID:          intVal(r.ID),
		Title:       r.Title,
		ProjectName: r.ProjectName,
		Address:     r.Address,
		Description: r.Description,
		Contractor:  r.Contractor,
		DueDate:     r.DueDate.std(),
		Status:      r.Status,
		Priority:    r.Priority,
		Estimate:    r.Estimate,
		Archived:    r.Archived,
		ArchivedAt:  r.ArchivedAt.std(),
		ArchivedBy:  r.ArchivedBy,
		OnHold:      r.OnHold,
		OnHoldAt:    r.OnHoldAt.std(),
		OnHoldBy:    r.OnHoldBy,
		Converted:   r.Converted,
		ConvertedAt: r.ConvertedAt.std(),
		ConvertedBy: r.ConvertedBy,
	}
}

// Строка таблицы vendors
type vendorRow struct {
	ID                  *int      `json:"id"`
	CompanyName         *string   `json:"company_name"`
	ContactName         *string   `json:"contact_name"`
	Phone               *string   `json:"phone"`
	Email               *string   `json:"email"`
	Specialty           *string   `json:"specialty"`
	VendorType          *string   `json:"vendor_type"`
	Priority            *bool     `json:"priority"`
	InsuranceExpiryDate *flexTime `json:"insurance_expiry_date"`
	InsuranceDocRef     *string   `json:"insurance_doc_ref"`
	CreatedAt           *flexTime `json:"created_at"`
}

func (r vendorRow) toVendor() models.Vendor {
	return models.Vendor{
		ID:                  intVal(r.ID),
		CompanyName:         str(r.CompanyName),
		ContactName:         str(r.ContactName),
		Phone:               str(r.Phone),
		Email:               str(r.Email),
		Specialty:           str(r.Specialty),
		VendorType:          str(r.VendorType),
		Priority:            boolVal(r.Priority),
		InsuranceExpiryDate: r.InsuranceExpiryDate.std(),
		InsuranceDocRef:     str(r.InsuranceDocRef),
		CreatedAt:           r.CreatedAt.or(time.Time{}),
	}
}

func (r vendorRow) toPatch() models.VendorPatch {
	return models.VendorPatch{
		ID:                  intVal(r.ID),
		CompanyName:         r.CompanyName,
		ContactName:         r.ContactName,
		Phone:               r.Phone,
		Email:               r.Email,
		Specialty:           r.Specialty,
		VendorType:          r.VendorType,
		Priority:            r.Priority,
		InsuranceExpiryDate: r.InsuranceExpiryDate.std(),
		InsuranceDocRef:     r.InsuranceDocRef,
	}
}

// Строка таблицы vendor_assignments. Нормализованные фазы живут в
// дочерней таблице и в событие родителя не попадают: phases здесь нет,
// патч их не трогает.
type assignmentRow struct {
	ID                   *int      `json:"id"`
	BidID                *int      `json:"bid_id"`
	VendorID             *int      `json:"vendor_id"`
	AssignedTo           *string   `json:"assigned_to"`
	DueDate              *flexTime `json:"due_date"`
	ResponseReceivedDate *flexTime `json:"response_received_date"`
	Status               *string   `json:"status"`
	FollowUpCount        *int      `json:"follow_up_count"`
	Priority             *bool     `json:"priority"`
	CostAmount           *float64  `json:"cost_amount"`

	BuyNumberFollowUp        *flexTime `json:"buy_number_follow_up"`
	BuyNumberReceived        *flexTime `json:"buy_number_received"`
	BuyNumberNotes           *string   `json:"buy_number_notes"`
	POFollowUp               *flexTime `json:"po_follow_up"`
	POReceived               *flexTime `json:"po_received"`
	PONotes                  *string   `json:"po_notes"`
	SubmittalsFollowUp       *flexTime `json:"submittals_follow_up"`
	SubmittalsReceived       *flexTime `json:"submittals_received"`
	SubmittalsNotes          *string   `json:"submittals_notes"`
	RevisedPlansFollowUp     *flexTime `json:"revised_plans_follow_up"`
	RevisedPlansReceived     *flexTime `json:"revised_plans_received"`
	RevisedPlansNotes        *string   `json:"revised_plans_notes"`
	EquipmentReleaseFollowUp *flexTime `json:"equipment_release_follow_up"`
	EquipmentReleaseReceived *flexTime `json:"equipment_release_received"`
	EquipmentReleaseNotes    *string   `json:"equipment_release_notes"`
	CloseoutsFollowUp        *flexTime `json:"closeouts_follow_up"`
	CloseoutsReceived        *flexTime `json:"closeouts_received"`
	CloseoutsNotes           *string   `json:"closeouts_notes"`

	CreatedAt *flexTime `json:"created_at"`
}

func (r assignmentRow) toAssignment() models.VendorAssignment {
	return models.VendorAssignment{
		ID:                   intVal(r.ID),
		BidID:                intVal(r.BidID),
		VendorID:             intVal(r.VendorID),
		AssignedTo:           str(r.AssignedTo),
		DueDate:              r.DueDate.std(),
		ResponseReceivedDate: r.ResponseReceivedDate.std(),
		Status:               str(r.Status),
		FollowUpCount:        intVal(r.FollowUpCount),
		Priority:             boolVal(r.Priority),
		CostAmount:           r.CostAmount,

		BuyNumberFollowUp:        r.BuyNumberFollowUp.std(),
		BuyNumberReceived:        r.BuyNumberReceived.std(),
		BuyNumberNotes:           str(r.BuyNumberNotes),
		POFollowUp:               r.POFollowUp.std(),
		POReceived:               r.POReceived.std(),
		PONotes:                  str(r.PONotes),
		SubmittalsFollowUp:       r.SubmittalsFollowUp.std(),
		SubmittalsReceived:       r.SubmittalsReceived.std(),
		SubmittalsNotes:          str(r.SubmittalsNotes),
		RevisedPlansFollowUp:     r.RevisedPlansFollowUp.std(),
		RevisedPlansReceived:     r.RevisedPlansReceived.std(),
		RevisedPlansNotes:        str(r.RevisedPlansNotes),
		EquipmentReleaseFollowUp: r.EquipmentReleaseFollowUp.std(),
		EquipmentReleaseReceived: r.EquipmentReleaseReceived.std(),
		EquipmentReleaseNotes:    str(r.EquipmentReleaseNotes),
		CloseoutsFollowUp:        r.CloseoutsFollowUp.std(),
		CloseoutsReceived:        r.CloseoutsReceived.std(),
		CloseoutsNotes:           str(r.CloseoutsNotes),

		CreatedAt: r.CreatedAt.or(time.Time{}),
	}
}

func (r assignmentRow) toPatch() models.AssignmentPatch {
	return models.AssignmentPatch{
		ID:                   intVal(r.ID),
		AssignedTo:           r.AssignedTo,
		DueDate:              r.DueDate.std(),
		ResponseReceivedDate: r.ResponseReceivedDate.std(),
		Status:               r.Status,
		FollowUpCount:        r.FollowUpCount,
		Priority:             r.Priority,
		CostAmount:           r.CostAmount,

		BuyNumberFollowUp:        r.BuyNumberFollowUp.std(),
		BuyNumberReceived:        r.BuyNumberReceived.std(),
		BuyNumberNotes:           r.BuyNumberNotes,
		POFollowUp:               r.POFollowUp.std(),
		POReceived:               r.POReceived.std(),
		PONotes:                  r.PONotes,
		SubmittalsFollowUp:       r.SubmittalsFollowUp.std(),
		SubmittalsReceived:       r.SubmittalsReceived.std(),
		SubmittalsNotes:          r.SubmittalsNotes,
		RevisedPlansFollowUp:     r.RevisedPlansFollowUp.std(),
		RevisedPlansReceived:     r.RevisedPlansReceived.std(),
		RevisedPlansNotes:        r.RevisedPlansNotes,
		EquipmentReleaseFollowUp: r.EquipmentReleaseFollowUp.std(),
		EquipmentReleaseReceived: r.EquipmentReleaseReceived.std(),
		EquipmentReleaseNotes:    r.EquipmentReleaseNotes,
		CloseoutsFollowUp:        r.CloseoutsFollowUp.std(),
		CloseoutsReceived:        r.CloseoutsReceived.std(),
		CloseoutsNotes:           r.CloseoutsNotes,
	}
}

// Строка таблицы notes
type noteRow struct {
	ID        *int      `json:"id"`
	BidID     *int      `json:"bid_id"`
	UserID    *string   `json:"user_id"`
	Content   *string   `json:"content"`
	CreatedAt *flexTime `json:"created_at"`
}

func (r noteRow) toNote() models.Note {
	return models.Note{
		ID:        intVal(r.ID),
		BidID:     intVal(r.BidID),
		UserID:    str(r.UserID),
		Content:   str(r.Content),
		CreatedAt: r.CreatedAt.or(time.Time{}),
	}
}
