package fairness

import (
	"time"

	"github.com/arnavshah/shift-organizer-go/pkg/models"
)

// Preference fulfillment band thresholds
const (
	PreferredThreshold = 0.3
	AvoidedThreshold   = -0.3
	strongThreshold    = 0.5
)

// Window is an inclusive date range over which metrics are computed
type Window struct {
	Start time.Time
	End   time.Time
}

// PresetWindow builds a window of periodDays centered on now, split
// symmetrically into past and future. Asymmetric past/future weighting is not
// expressible through this form; callers needing it pass an explicit range.
func PresetWindow(now time.Time, periodDays int) Window {
	half := periodDays / 2
	return Window{
		Start: now.AddDate(0, 0, -half),
		End:   now.AddDate(0, 0, periodDays-half),
	}
}

// Contains reports whether the date falls inside the window, inclusive
func (w Window) Contains(date time.Time) bool {
	return !date.Before(w.Start) && !date.After(w.End)
}

type prefKey struct {
	staffID    int
	dayOfWeek  int
	templateID int
}

// PrefIndex resolves a preference score for a (staff, day, template) slot.
// Missing entries resolve to neutral (0.0).
type PrefIndex map[prefKey]float64

// IndexPreferences builds a PrefIndex from preference records
func IndexPreferences(prefs []models.Preference) PrefIndex {
	idx := make(PrefIndex, len(prefs))
	for _, p := range prefs {
		idx[prefKey{p.StaffID, p.DayOfWeek, p.ShiftTemplateID}] = p.PreferenceScore
	}
	return idx
}

// Resolve returns the preference score for a slot, 0.0 when unset
func (idx PrefIndex) Resolve(staffID, dayOfWeek, templateID int) float64 {
	return idx[prefKey{staffID, dayOfWeek, templateID}]
}

// ScoreStaff computes the fairness metric for one staff member over the
// assignments that fall inside the window. It is a pure function: safe to
// call concurrently, no hidden state.
func ScoreStaff(staffID int, assignments []models.Assignment, prefs PrefIndex, w Window) models.FairnessMetric {
	var m models.FairnessMetric
	var sum float64

	for _, a := range assignments {
		if a.StaffID != staffID || !w.Contains(a.Date()) {
			continue
		}
		score := prefs.Resolve(a.StaffID, a.DayOfWeek, a.ShiftTemplateID)
		sum += score
		m.TotalShifts++
		if score > PreferredThreshold {
			m.PreferredCount++
		}
		if score < AvoidedThreshold {
			m.AvoidedCount++
		}
	}

	if m.TotalShifts > 0 {
		// Bounded in [-1, 1] because each preference score is
		m.PreferenceFulfillment = sum / float64(m.TotalShifts)
	}
	return m
}

// ScoreAll computes metrics for every known staff member, including those
// with zero shifts in the window. Output order follows the staff slice.
func ScoreAll(staff []models.Staff, assignments []models.Assignment, prefs PrefIndex, w Window) []models.StaffFairness {
	out := make([]models.StaffFairness, 0, len(staff))
	for _, s := range staff {
		out = append(out, models.StaffFairness{
			StaffID:   s.ID,
			StaffName: s.Name,
			Metrics:   ScoreStaff(s.ID, assignments, prefs, w),
		})
	}
	return out
}

// Band maps a fulfillment score to the qualitative label used by reporting
func Band(score float64) string {
	switch {
	case score > strongThreshold:
		return "very favorable"
	case score > PreferredThreshold:
		return "favorable"
	case score < -strongThreshold:
		return "very unfavorable"
	case score < AvoidedThreshold:
		return "unfavorable"
	default:
		return "neutral"
	}
}
