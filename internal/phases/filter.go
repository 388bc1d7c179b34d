package phases

import (
	"strings"
	"time"
)

// Filter — обычная фильтрация поверх готового списка задач.
// Границы дат нормализуются к местной полуночи и включительны.
type Filter struct {
	AssignedTo string
	Urgency    Urgency
	From       *time.Time
	To         *time.Time
	Search     string
}

// Apply возвращает задачи, прошедшие все заданные условия
func Apply(tasks []Task, f Filter) []Task {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	var out []Task
	for _, t := range tasks {
		if f.AssignedTo != "" && t.AssignedTo != f.AssignedTo {
			continue
		}
		if f.Urgency != "" && t.Urgency != f.Urgency {
			continue
		}
		d := dateOnly(t.FollowUpDate)
		if f.From != nil && d.Before(dateOnly(*f.From)) {
			continue
		}
		if f.To != nil && d.After(dateOnly(*f.To)) {
			continue
		}
		if search != "" && !matches(t, search) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// matches ищет подстроку без учета регистра по проекту, подрядчику,
// названию фазы и заметкам
func matches(t Task, search string) bool {
	for _, s := range []string{t.ProjectName, t.VendorName, t.PhaseLabel, t.Phase, t.Notes} {
		if strings.Contains(strings.ToLower(s), search) {
			return true
		}
	}
	return false
}
