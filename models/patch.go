package models

import "time"

// Частичные обновления. Поле-указатель nil означает "не тронуто":
// merge-политика переносит на существующую запись только непустые поля,
// поэтому повторное или пересекающееся применение патчей безопасно.

// Патч Проекта
type BidPatch struct {
	ID          int        `json:"id"`
	Title       *string    `json:"title"`
	ProjectName *string    `json:"projectName"`
	Address     *string    `json:"address"`
	Description *string    `json:"description"`
	Contractor  *string    `json:"contractor"`
	DueDate     *time.Time `json:"dueDate"`
	Status      *string    `json:"status"`
	Priority    *bool      `json:"priority"`
	Estimate    *float64   `json:"estimate"`

	Archived    *bool      `json:"archived"`
	ArchivedAt  *time.Time `json:"archivedAt"`
	ArchivedBy  *string    `json:"archivedBy"`
	OnHold      *bool      `json:"onHold"`
	OnHoldAt    *time.Time `json:"onHoldAt"`
	OnHoldBy    *string    `json:"onHoldBy"`
	Converted   *bool      `json:"converted"`
	ConvertedAt *time.Time `json:"convertedAt"`
	ConvertedBy *string    `json:"convertedBy"`
}

// ApplyTo переносит заполненные поля патча на запись
func (p BidPatch) ApplyTo(b *Bid) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.ProjectName != nil {
		b.ProjectName = *p.ProjectName
	}
	if p.Address != nil {
		b.Address = *p.Address
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.Contractor != nil {
		b.Contractor = *p.Contractor
	}
	if p.DueDate != nil {
		b.DueDate = p.DueDate
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.Priority != nil {
		b.Priority = *p.Priority
	}
	if p.Estimate != nil {
		b.Estimate = *p.Estimate
	}
	if p.Archived != nil {
		b.Archived = *p.Archived
	}
	if p.ArchivedAt != nil {
		b.ArchivedAt = p.ArchivedAt
	}
	if p.ArchivedBy != nil {
		b.ArchivedBy = *p.ArchivedBy
	}
	if p.OnHold != nil {
		b.OnHold = *p.OnHold
	}
	if p.OnHoldAt != nil {
		b.OnHoldAt = p.OnHoldAt
	}
	if p.OnHoldBy != nil {
		b.OnHoldBy = *p.OnHoldBy
	}
	if p.Converted != nil {
		b.Converted = *p.Converted
	}
	if p.ConvertedAt != nil {
		b.ConvertedAt = p.ConvertedAt
	}
	if p.ConvertedBy != nil {
		b.ConvertedBy = *p.ConvertedBy
	}
}

// Патч Подрядчика
type VendorPatch struct {
	ID                  int        `json:"id"`
	CompanyName         *string    `json:"companyName"`
	ContactName         *string    `json:"contactName"`
	Phone               *string    `json:"phone"`
	Email               *string    `json:"email"`
	Specialty           *string    `json:"specialty"`
	VendorType          *string    `json:"vendorType"`
	Priority            *bool      `json:"priority"`
	InsuranceExpiryDate *time.Time `json:"insuranceExpiryDate"`
	InsuranceDocRef     *string    `json:"insuranceDocRef"`
}

// ApplyTo переносит заполненные поля патча на запись
func (p VendorPatch) ApplyTo(v *Vendor) {
	if p.CompanyName != nil {
		v.CompanyName = *p.CompanyName
	}
	if p.ContactName != nil {
		v.ContactName = *p.ContactName
	}
	if p.Phone != nil {
		v.Phone = *p.Phone
	}
	if p.Email != nil {
		v.Email = *p.Email
	}
	if p.Specialty != nil {
		v.Specialty = *p.Specialty
	}
	if p.VendorType != nil {
		v.VendorType = *p.VendorType
	}
	if p.Priority != nil {
		v.Priority = *p.Priority
	}
	if p.InsuranceExpiryDate != nil {
		v.InsuranceExpiryDate = p.InsuranceExpiryDate
	}
	if p.InsuranceDocRef != nil {
		v.InsuranceDocRef = *p.InsuranceDocRef
	}
}

// Патч привязки. Phases со значением nil означает "не тронуто",
// непустой список заменяет нормализованное представление целиком.
type AssignmentPatch struct {
	ID                   int        `json:"id"`
	AssignedTo           *string    `json:"assignedTo"`
	DueDate              *time.Time `json:"dueDate"`
	ResponseReceivedDate *time.Time `json:"responseReceivedDate"`
	Status               *string    `json:"status"`
	FollowUpCount        *int       `json:"followUpCount"`
	Priority             *bool      `json:"priority"`
	CostAmount           *float64   `json:"costAmount"`

	Phases []PhaseEntry `json:"phases"`

	BuyNumberFollowUp        *time.Time `json:"buyNumberFollowUp"`
	BuyNumberReceived        *time.Time `json:"buyNumberReceived"`
	BuyNumberNotes           *string    `json:"buyNumberNotes"`
	POFollowUp               *time.Time `json:"poFollowUp"`
	POReceived               *time.Time `json:"poReceived"`
	PONotes                  *string    `json:"poNotes"`
	SubmittalsFollowUp       *time.Time `json:"submittalsFollowUp"`
	SubmittalsReceived       *time.Time `json:"submittalsReceived"`
	SubmittalsNotes          *string    `json:"submittalsNotes"`
	RevisedPlansFollowUp     *time.Time `json:"revisedPlansFollowUp"`
	RevisedPlansReceived     *time.Time `json:"revisedPlansReceived"`
	RevisedPlansNotes        *string    `json:"revisedPlansNotes"`
	EquipmentReleaseFollowUp *time.Time `json:"equipmentReleaseFollowUp"`
	EquipmentReleaseReceived *time.Time `json:"equipmentReleaseReceived"`
	EquipmentReleaseNotes    *string    `json:"equipmentReleaseNotes"`
	CloseoutsFollowUp        *time.Time `json:"closeoutsFollowUp"`
	CloseoutsReceived        *time.Time `json:"closeoutsReceived"`
	CloseoutsNotes           *string    `json:"closeoutsNotes"`
}

// ApplyTo переносит заполненные поля патча на запись
func (p AssignmentPatch) ApplyTo(a *VendorAssignment) {
	if p.AssignedTo != nil {
		a.AssignedTo = *p.AssignedTo
	}
	if p.DueDate != nil {
		a.DueDate = p.DueDate
	}
	if p.ResponseReceivedDate != nil {
		a.ResponseReceivedDate = p.ResponseReceivedDate
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.FollowUpCount != nil {
		a.FollowUpCount = *p.FollowUpCount
	}
	if p.Priority != nil {
		a.Priority = *p.Priority
	}
	if p.CostAmount != nil {
		a.CostAmount = p.CostAmount
	}
	if p.Phases != nil {
		a.Phases = p.Phases
	}
	if p.BuyNumberFollowUp != nil {
		a.BuyNumberFollowUp = p.BuyNumberFollowUp
	}
	if p.BuyNumberReceived != nil {
		a.BuyNumberReceived = p.BuyNumberReceived
	}
	if p.BuyNumberNotes != nil {
		a.BuyNumberNotes = *p.BuyNumberNotes
	}
	if p.POFollowUp != nil {
		a.POFollowUp = p.POFollowUp
	}
	if p.POReceived != nil {
		a.POReceived = p.POReceived
	}
	if p.PONotes != nil {
		a.PONotes = *p.PONotes
	}
	if p.SubmittalsFollowUp != nil {
		a.SubmittalsFollowUp = p.SubmittalsFollowUp
	}
	if p.SubmittalsReceived != nil {
		a.SubmittalsReceived = p.SubmittalsReceived
	}
	if p.SubmittalsNotes != nil {
		a.SubmittalsNotes = *p.SubmittalsNotes
	}
	if p.RevisedPlansFollowUp != nil {
		a.RevisedPlansFollowUp = p.RevisedPlansFollowUp
	}
	if p.RevisedPlansReceived != nil {
		a.RevisedPlansReceived = p.RevisedPlansReceived
	}
	if p.RevisedPlansNotes != nil {
		a.RevisedPlansNotes = *p.RevisedPlansNotes
	}
	if p.EquipmentReleaseFollowUp != nil {
		a.EquipmentReleaseFollowUp = p.EquipmentReleaseFollowUp
	}
	if p.EquipmentReleaseReceived != nil {
		a.EquipmentReleaseReceived = p.EquipmentReleaseReceived
	}
	if p.EquipmentReleaseNotes != nil {
		a.EquipmentReleaseNotes = *p.EquipmentReleaseNotes
	}
	if p.CloseoutsFollowUp != nil {
		a.CloseoutsFollowUp = p.CloseoutsFollowUp
	}
	if p.CloseoutsReceived != nil {
		a.CloseoutsReceived = p.CloseoutsReceived
	}
	if p.CloseoutsNotes != nil {
		a.CloseoutsNotes = *p.CloseoutsNotes
	}
}
