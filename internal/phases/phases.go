package phases

import (
	"fmt"
	"strings"
	"time"

	"bidtrack/models"
)

// Фиксированный порядок фаз расширенного workflow
const (
	PhaseBuyNumber        = "buy_number"
	PhasePO               = "po"
	PhaseSubmittals       = "submittals"
	PhaseRevisedPlans     = "revised_plans"
	PhaseEquipmentRelease = "equipment_release"
	PhaseCloseouts        = "closeouts"
)

var order = []string{
	PhaseBuyNumber, PhasePO, PhaseSubmittals,
	PhaseRevisedPlans, PhaseEquipmentRelease, PhaseCloseouts,
}

var labels = map[string]string{
	PhaseBuyNumber:        "Buy Number",
	PhasePO:               "PO",
	PhaseSubmittals:       "Submittals",
	PhaseRevisedPlans:     "Revised Plans",
	PhaseEquipmentRelease: "Equipment Release",
	PhaseCloseouts:        "Closeouts",
}

// Уровень срочности задачи
type Urgency string

const (
	UrgencyOverdue  Urgency = "overdue"
	UrgencyDueToday Urgency = "due_today"
	UrgencyCritical Urgency = "critical"
	UrgencyNormal   Urgency = "normal"
)

// Окно "критично": столько календарных дней после сегодняшнего
const criticalWindowDays = 3

// Task — производная запись: одно незакрытое напоминание по одной
// фазе одной привязки. Живет только в ответах API, не в сторе.
type Task struct {
	ID           string    `json:"id"`
	AssignmentID int       `json:"assignmentId"`
	BidID        int       `json:"bidId"`
	VendorID     int       `json:"vendorId"`
	ProjectName  string    `json:"projectName"`
	VendorName   string    `json:"vendorName"`
	Phase        string    `json:"phase"`
	PhaseLabel   string    `json:"phaseLabel"`
	FollowUpDate time.Time `json:"followUpDate"`
	Notes        string    `json:"notes"`
	Urgency      Urgency   `json:"urgency"`
	AssignedTo   string    `json:"assignedTo"`
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Classify — чистая функция срочности от пары (дата напоминания, сейчас).
// Сравнение по календарным датам, не по моментам времени.
func Classify(followUp, now time.Time) Urgency {
	f := dateOnly(followUp)
	today := dateOnly(now)
	switch {
	case f.Before(today):
		return UrgencyOverdue
	case f.Equal(today):
		return UrgencyDueToday
	case !f.After(today.AddDate(0, 0, criticalWindowDays)):
		return UrgencyCritical
	}
	return UrgencyNormal
}

func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")
	return name
}

// phaseSource выбирает авторитетное представление фаз привязки:
// непустой нормализованный список выигрывает, иначе legacy-колонки.
// Источники никогда не смешиваются.
func phaseSource(a models.VendorAssignment) []models.PhaseEntry {
	if len(a.Phases) > 0 {
		return a.Phases
	}
	return legacyEntries(a)
}

func legacyEntries(a models.VendorAssignment) []models.PhaseEntry {
	return []models.PhaseEntry{
		{Name: PhaseBuyNumber, FollowUpDate: a.BuyNumberFollowUp, ReceivedDate: a.BuyNumberReceived, Notes: a.BuyNumberNotes},
		{Name: PhasePO, FollowUpDate: a.POFollowUp, ReceivedDate: a.POReceived, Notes: a.PONotes},
		{Name: PhaseSubmittals, FollowUpDate: a.SubmittalsFollowUp, ReceivedDate: a.SubmittalsReceived, Notes: a.SubmittalsNotes},
		{Name: PhaseRevisedPlans, FollowUpDate: a.RevisedPlansFollowUp, ReceivedDate: a.RevisedPlansReceived, Notes: a.RevisedPlansNotes},
		{Name: PhaseEquipmentRelease, FollowUpDate: a.EquipmentReleaseFollowUp, ReceivedDate: a.EquipmentReleaseReceived, Notes: a.EquipmentReleaseNotes},
		{Name: PhaseCloseouts, FollowUpDate: a.CloseoutsFollowUp, ReceivedDate: a.CloseoutsReceived, Notes: a.CloseoutsNotes},
	}
}

func entryFor(entries []models.PhaseEntry, phase string) *models.PhaseEntry {
	for i := range entries {
		if normalizeName(entries[i].Name) == phase {
			return &entries[i]
		}
	}
	return nil
}

// Tasks строит плоский список незакрытых напоминаний по всем привязкам.
// Правила: полученный closeouts закрывает привязку целиком; фаза
// пропускается, если уже получена или если напоминание не назначено.
// Очередность фаз не навязывается: все подходящие фазы видны сразу.
func Tasks(assignments []models.VendorAssignment, bids map[int]models.Bid, vendors map[int]models.Vendor, now time.Time) []Task {
	var tasks []Task
	for _, a := range assignments {
		entries := phaseSource(a)
		if e := entryFor(entries, PhaseCloseouts); e != nil && e.ReceivedDate != nil {
			continue
		}
		for _, phase := range order {
			e := entryFor(entries, phase)
			if e == nil || e.ReceivedDate != nil || e.FollowUpDate == nil {
				continue
			}
			t := Task{
				ID:           fmt.Sprintf("%d-%s", a.ID, phase),
				AssignmentID: a.ID,
				BidID:        a.BidID,
				VendorID:     a.VendorID,
				Phase:        phase,
				PhaseLabel:   labels[phase],
				FollowUpDate: *e.FollowUpDate,
				Notes:        e.Notes,
				Urgency:      Classify(*e.FollowUpDate, now),
				AssignedTo:   a.AssignedTo,
			}
			if b, ok := bids[a.BidID]; ok {
				t.ProjectName = b.ProjectName
				if t.ProjectName == "" {
					t.ProjectName = b.Title
				}
			}
			if v, ok := vendors[a.VendorID]; ok {
				t.VendorName = v.CompanyName
			}
			tasks = append(tasks, t)
		}
	}
	return tasks
}
