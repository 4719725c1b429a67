package models

import "time"

// Staff represents a person who can be rostered onto shifts
type Staff struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	Qualifications   []string  `json:"qualifications"`
	MaxShiftsPerWeek int       `json:"max_shifts_per_week"`
	CreatedAt        time.Time `json:"created_at"`
}

// HasQualification reports whether the staff member holds the given tag
func (s *Staff) HasQualification(tag string) bool {
	for _, q := range s.Qualifications {
		if q == tag {
			return true
		}
	}
	return false
}

// ShiftTemplate is a weekly recurring shift definition. It recurs on every
// listed weekday until deactivated.
type ShiftTemplate struct {
	ID                     int            `json:"id"`
	Name                   string         `json:"name"`
	DaysOfWeek             []int          `json:"days_of_week"` // 0=Monday .. 6=Sunday
	StartTime              string         `json:"start_time"`   // HH:MM
	EndTime                string         `json:"end_time"`     // HH:MM
	RequiredStaff          int            `json:"required_staff"`
	RequiredQualifications map[string]int `json:"required_qualifications"` // tag -> min count
	IsActive               bool           `json:"is_active"`
}

// Availability marks whether a staff member can work a given slot.
// Absence of a record means available; availability is opt-out.
type Availability struct {
	ID              int  `json:"id"`
	StaffID         int  `json:"staff_id"`
	DayOfWeek       int  `json:"day_of_week"`
	ShiftTemplateID int  `json:"shift_template_id"`
	IsAvailable     bool `json:"is_available"`
}

// Preference scores how much a staff member wants a given slot.
// Absence of a record means neutral (0.0).
type Preference struct {
	ID              int     `json:"id"`
	StaffID         int     `json:"staff_id"`
	DayOfWeek       int     `json:"day_of_week"`
	ShiftTemplateID int     `json:"shift_template_id"`
	PreferenceScore float64 `json:"preference_score"` // -1 (avoid) to 1 (prefer)
}

// Assignment is one staff member covering one slot in one concrete week
type Assignment struct {
	ID              int       `json:"id"`
	ShiftTemplateID int       `json:"shift_template_id"`
	StaffID         int       `json:"staff_id"`
	WeekStartDate   time.Time `json:"week_start_date"` // always a Monday
	DayOfWeek       int       `json:"day_of_week"`
	AssignedAt      time.Time `json:"assigned_at"`
}

// Date returns the concrete calendar date this assignment falls on
func (a *Assignment) Date() time.Time {
	return a.WeekStartDate.AddDate(0, 0, a.DayOfWeek)
}

// FairnessMetric quantifies how well a staff member's assignments in a time
// window match their stated preferences.
type FairnessMetric struct {
	TotalShifts           int     `json:"total_shifts"`
	PreferredCount        int     `json:"preferred_count"`
	AvoidedCount          int     `json:"avoided_count"`
	PreferenceFulfillment float64 `json:"preference_fulfillment"`
}

// StaffFairness tags a fairness metric with the staff member it belongs to
type StaffFairness struct {
	StaffID   int            `json:"staff_id"`
	StaffName string         `json:"staff_name"`
	Metrics   FairnessMetric `json:"metrics"`
}

// ScheduleRequest triggers one auto-schedule run for one week
type ScheduleRequest struct {
	WeekStartDate time.Time `json:"week_start_date" binding:"required"`
	ClearExisting bool      `json:"clear_existing"`
}

// Slot failure reason codes
const (
	ReasonNoAvailableStaff   = "no_available_staff"
	ReasonQualificationUnmet = "qualification_unmet"
	ReasonCapacityExhausted  = "capacity_exhausted"
	ReasonInsufficientStaff  = "insufficient_staff"
)

// FailedSlot describes a slot the engine could not fully fill
type FailedSlot struct {
	ShiftTemplateID int    `json:"shift_template_id"`
	TemplateName    string `json:"template_name"`
	DayOfWeek       int    `json:"day_of_week"`
	Required        int    `json:"required"`
	Assigned        int    `json:"assigned"`
	Reason          string `json:"reason"`
	Detail          string `json:"detail,omitempty"`
}

// FairnessSummary explains how preference fulfillment spread across staff
// during a run
type FairnessSummary struct {
	Explanation string          `json:"explanation"`
	StaffMeans  map[int]float64 `json:"staff_means"`
}

// RunResult is what one engine run achieved, independent of persistence
type RunResult struct {
	Successful      []Assignment    `json:"successful"`
	Failed          []FailedSlot    `json:"failed"`
	FairnessSummary FairnessSummary `json:"fairness_summary"`
}

// ScheduleResult is the orchestrator's response: the run result plus whether
// it persisted, and the post-run fairness picture for the affected week.
type ScheduleResult struct {
	RunResult
	WeekStartDate time.Time       `json:"week_start_date"`
	Cleared       int64           `json:"cleared"`
	Persisted     bool            `json:"persisted"`
	Fairness      []StaffFairness `json:"fairness"`
}

// WeekStart normalizes t to the Monday of its week, at midnight UTC.
// All day_of_week offsets are relative to this Monday.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	// time.Weekday counts Sunday=0; shift so Monday=0
	offset := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -offset)
}

// IsWeekStart reports whether t is already a normalized Monday
func IsWeekStart(t time.Time) bool {
	return t.Equal(WeekStart(t))
}
