package models

import "time"

// Вид сущности для стора и канала изменений
type EntityKind string

const (
	KindBid        EntityKind = "bid"
	KindVendor     EntityKind = "vendor"
	KindAssignment EntityKind = "vendor_assignment"
	KindNote       EntityKind = "note"
)

// Статусы проекта
const (
	BidStatusNew        = "New"
	BidStatusEstimating = "Estimating"
	BidStatusSubmitted  = "Submitted"
	BidStatusWon        = "Won"
	BidStatusLost       = "Lost"
	BidStatusClosed     = "Closed"
)

// Типы подрядчика
const (
	VendorTypeVendor            = "vendor"
	VendorTypeSubcontractor     = "subcontractor"
	VendorTypeGeneralContractor = "general_contractor"
)

// Сущность Проекта (Bid)
type Bid struct {
	ID          int        `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	ProjectName string     `db:"project_name" json:"projectName"`
	Address     string     `db:"address" json:"address"`
	Description string     `db:"description" json:"description"`
	Contractor  string     `db:"contractor" json:"contractor"`
	DueDate     *time.Time `db:"due_date" json:"dueDate"`
	Status      string     `db:"status" json:"status"`
	Priority    bool       `db:"priority" json:"priority"`
	Estimate    float64    `db:"estimate" json:"estimate"`

	Archived    bool       `db:"archived" json:"archived"`
	ArchivedAt  *time.Time `db:"archived_at" json:"archivedAt"`
	ArchivedBy  string     `db:"archived_by" json:"archivedBy"`
	OnHold      bool       `db:"on_hold" json:"onHold"`
	OnHoldAt    *time.Time `db:"on_hold_at" json:"onHoldAt"`
	OnHoldBy    string     `db:"on_hold_by" json:"onHoldBy"`
	Converted   bool       `db:"converted" json:"converted"`
	ConvertedAt *time.Time `db:"converted_at" json:"convertedAt"`
	ConvertedBy string     `db:"converted_by" json:"convertedBy"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// Сущность Подрядчика (Vendor)
type Vendor struct {
	ID                  int        `db:"id" json:"id"`
	CompanyName         string     `db:"company_name" json:"companyName"`
	ContactName         string     `db:"contact_name" json:"contactName"`
	Phone               string     `db:"phone" json:"phone"`
	Email               string     `db:"email" json:"email"`
	Specialty           string     `db:"specialty" json:"specialty"`
	VendorType          string     `db:"vendor_type" json:"vendorType"`
	Priority            bool       `db:"priority" json:"priority"`
	InsuranceExpiryDate *time.Time `db:"insurance_expiry_date" json:"insuranceExpiryDate"`
	InsuranceDocRef     string     `db:"insurance_doc_ref" json:"insuranceDocRef"`
	CreatedAt           time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time  `db:"updated_at" json:"-"`
}

// Запись фазы расширенного workflow (нормализованное представление)
type PhaseEntry struct {
	Name         string     `db:"name" json:"name"`
	FollowUpDate *time.Time `db:"follow_up_date" json:"followUpDate"`
	ReceivedDate *time.Time `db:"received_date" json:"receivedDate"`
	Notes        string     `db:"notes" json:"notes"`
}

// Сущность привязки подрядчика к проекту (VendorAssignment).
// Данные фаз живут либо в Phases (нормализованный список), либо в
// legacy-колонках ниже; если Phases непустой, колонки игнорируются.
type VendorAssignment struct {
	ID                   int        `db:"id" json:"id"`
	BidID                int        `db:"bid_id" json:"bidId"`
	VendorID             int        `db:"vendor_id" json:"vendorId"`
	AssignedTo           string     `db:"assigned_to" json:"assignedTo"`
	DueDate              *time.Time `db:"due_date" json:"dueDate"`
	ResponseReceivedDate *time.Time `db:"response_received_date" json:"responseReceivedDate"`
	Status               string     `db:"status" json:"status"`
	FollowUpCount        int        `db:"follow_up_count" json:"followUpCount"`
	Priority             bool       `db:"priority" json:"priority"`
	CostAmount           *float64   `db:"cost_amount" json:"costAmount"`

	Phases []PhaseEntry `db:"-" json:"phases"`

	BuyNumberFollowUp        *time.Time `db:"buy_number_follow_up" json:"buyNumberFollowUp"`
	BuyNumberReceived        *time.Time `db:"buy_number_received" json:"buyNumberReceived"`
	BuyNumberNotes           string     `db:"buy_number_notes" json:"buyNumberNotes"`
	POFollowUp               *time.Time `db:"po_follow_up" json:"poFollowUp"`
	POReceived               *time.Time `db:"po_received" json:"poReceived"`
	PONotes                  string     `db:"po_notes" json:"poNotes"`
	SubmittalsFollowUp       *time.Time `db:"submittals_follow_up" json:"submittalsFollowUp"`
	SubmittalsReceived       *time.Time `db:"submittals_received" json:"submittalsReceived"`
	SubmittalsNotes          string     `db:"submittals_notes" json:"submittalsNotes"`
	RevisedPlansFollowUp     *time.Time `db:"revised_plans_follow_up" json:"revisedPlansFollowUp"`
	RevisedPlansReceived     *time.Time `db:"revised_plans_received" json:"revisedPlansReceived"`
	RevisedPlansNotes        string     `db:"revised_plans_notes" json:"revisedPlansNotes"`
	EquipmentReleaseFollowUp *time.Time `db:"equipment_release_follow_up" json:"equipmentReleaseFollowUp"`
	EquipmentReleaseReceived *time.Time `db:"equipment_release_received" json:"equipmentReleaseReceived"`
	EquipmentReleaseNotes    string     `db:"equipment_release_notes" json:"equipmentReleaseNotes"`
	CloseoutsFollowUp        *time.Time `db:"closeouts_follow_up" json:"closeoutsFollowUp"`
	CloseoutsReceived        *time.Time `db:"closeouts_received" json:"closeoutsReceived"`
	CloseoutsNotes           string     `db:"closeouts_notes" json:"closeoutsNotes"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// Сущность Заметки (append-only, редактирование не поддерживается)
type Note struct {
	ID        int       `db:"id" json:"id"`
	BidID     int       `db:"bid_id" json:"bidId"`
	UserID    string    `db:"user_id" json:"userId"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Роли пользователя
const (
	RoleAdmin      = "Admin"
	RoleEstimating = "Estimating"
	RoleAPM        = "APM"
)

// Сущность Пользователя (только для чтения, идентификация вне системы)
type User struct {
	ID          string    `db:"id" json:"id"`
	Email       string    `db:"email" json:"email"`
	DisplayName string    `db:"display_name" json:"displayName"`
	Color       string    `db:"color" json:"color"`
	Role        string    `db:"role" json:"role"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
