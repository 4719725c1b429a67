package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/arnavshah/shift-organizer-go/pkg/fairness"
	"github.com/arnavshah/shift-organizer-go/pkg/models"
)

// Snapshot is the domain state one engine run works from. The engine never
// mutates it; it only reads and emits new assignments.
type Snapshot struct {
	WeekStart    time.Time
	Staff        []models.Staff
	Templates    []models.ShiftTemplate
	Availability []models.Availability
	Preferences  []models.Preference
	Existing     []models.Assignment // already persisted for the target week
	Recent       []models.Assignment // trailing window, seeds preference history
}

type slotKey struct {
	templateID int
	dayOfWeek  int
}

type availKey struct {
	staffID    int
	dayOfWeek  int
	templateID int
}

// Engine computes assignments for one target week. All run state lives on
// the instance, so runs for different weeks are independent.
type Engine struct {
	weekStart time.Time
	staff     []models.Staff
	templates []models.ShiftTemplate

	avail map[availKey]bool
	prefs fairness.PrefIndex

	// per-run mutable state
	assignedCount map[int]int            // staff id -> assignments this week
	prefHistory   map[int][]float64      // staff id -> preference scores accumulated
	onSlot        map[slotKey]map[int]bool // slot -> staff already covering it
}

// NewEngine builds a run over the given snapshot. Existing assignments seed
// the per-staff weekly counts; recent assignments seed the running preference
// history so the run continues fairness tracking rather than restarting it.
func NewEngine(snap Snapshot) *Engine {
	e := &Engine{
		weekStart:     snap.WeekStart,
		staff:         append([]models.Staff(nil), snap.Staff...),
		templates:     append([]models.ShiftTemplate(nil), snap.Templates...),
		avail:         make(map[availKey]bool, len(snap.Availability)),
		prefs:         fairness.IndexPreferences(snap.Preferences),
		assignedCount: make(map[int]int),
		prefHistory:   make(map[int][]float64),
		onSlot:        make(map[slotKey]map[int]bool),
	}

	// Stable processing order regardless of how the repository returned rows
	sort.Slice(e.staff, func(i, j int) bool { return e.staff[i].ID < e.staff[j].ID })
	sort.Slice(e.templates, func(i, j int) bool { return e.templates[i].ID < e.templates[j].ID })

	for _, a := range snap.Availability {
		e.avail[availKey{a.StaffID, a.DayOfWeek, a.ShiftTemplateID}] = a.IsAvailable
	}

	for _, a := range snap.Existing {
		e.assignedCount[a.StaffID]++
		k := slotKey{a.ShiftTemplateID, a.DayOfWeek}
		if e.onSlot[k] == nil {
			e.onSlot[k] = make(map[int]bool)
		}
		e.onSlot[k][a.StaffID] = true
	}

	history := append([]models.Assignment(nil), snap.Recent...)
	sort.Slice(history, func(i, j int) bool { return history[i].ID < history[j].ID })
	for _, a := range history {
		score := e.prefs.Resolve(a.StaffID, a.DayOfWeek, a.ShiftTemplateID)
		e.prefHistory[a.StaffID] = append(e.prefHistory[a.StaffID], score)
	}

	return e
}

// Absence of an availability record means available
func (e *Engine) available(staffID, day, templateID int) bool {
	if v, ok := e.avail[availKey{staffID, day, templateID}]; ok {
		return v
	}
	return true
}

func (e *Engine) runningMean(staffID int) float64 {
	h := e.prefHistory[staffID]
	if len(h) == 0 {
		return 0
	}
	var sum float64
	for _, v := range h {
		sum += v
	}
	return sum / float64(len(h))
}

type slot struct {
	tmpl *models.ShiftTemplate
	day  int
}

// eligible returns the staff who could take the slot right now: not already
// covering it, available, and under their weekly capacity.
func (e *Engine) eligible(s slot) []*models.Staff {
	var out []*models.Staff
	for i := range e.staff {
		st := &e.staff[i]
		if e.onSlot[slotKey{s.tmpl.ID, s.day}][st.ID] {
			continue
		}
		if !e.available(st.ID, s.day, s.tmpl.ID) {
			continue
		}
		if e.assignedCount[st.ID] >= st.MaxShiftsPerWeek {
			continue
		}
		out = append(out, st)
	}
	return out
}

// unmetQualifications returns the required tags whose minimum count is not
// yet covered by staff already on the slot.
func (e *Engine) unmetQualifications(s slot) map[string]int {
	unmet := make(map[string]int)
	for tag, min := range s.tmpl.RequiredQualifications {
		have := 0
		for i := range e.staff {
			if e.onSlot[slotKey{s.tmpl.ID, s.day}][e.staff[i].ID] && e.staff[i].HasQualification(tag) {
				have++
			}
		}
		if have < min {
			unmet[tag] = min - have
		}
	}
	return unmet
}

// qualificationsFeasible checks whether the eligible pool can still satisfy
// every unmet qualification minimum. A slot that fails this is reported as
// qualification_unmet with no fills at all.
func (e *Engine) qualificationsFeasible(s slot, candidates []*models.Staff) (string, bool) {
	unmet := e.unmetQualifications(s)
	tags := make([]string, 0, len(unmet))
	for tag := range unmet {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	for _, tag := range tags {
		holders := 0
		for _, c := range candidates {
			if c.HasQualification(tag) {
				holders++
			}
		}
		if holders < unmet[tag] {
			return tag, false
		}
	}
	return "", true
}

// rank orders candidates best-first: prefer staff who like this slot and are
// currently under-served by fairness, then fewer current assignments, then
// lower staff id.
func (e *Engine) rank(s slot, candidates []*models.Staff) {
	sort.SliceStable(candidates, func(i, j int) bool {
		ci, cj := candidates[i], candidates[j]
		si := e.prefs.Resolve(ci.ID, s.day, s.tmpl.ID) - e.runningMean(ci.ID)
		sj := e.prefs.Resolve(cj.ID, s.day, s.tmpl.ID) - e.runningMean(cj.ID)
		if si != sj {
			return si > sj
		}
		if e.assignedCount[ci.ID] != e.assignedCount[cj.ID] {
			return e.assignedCount[ci.ID] < e.assignedCount[cj.ID]
		}
		return ci.ID < cj.ID
	})
}

// pick selects the next candidate for the slot. Candidates that help meet an
// unmet qualification minimum are exhausted before any that do not.
func (e *Engine) pick(s slot, candidates []*models.Staff) *models.Staff {
	unmet := e.unmetQualifications(s)
	var helps, rest []*models.Staff
	for _, c := range candidates {
		helpful := false
		for tag := range unmet {
			if c.HasQualification(tag) {
				helpful = true
				break
			}
		}
		if helpful {
			helps = append(helps, c)
		} else {
			rest = append(rest, c)
		}
	}

	if len(helps) > 0 {
		e.rank(s, helps)
		return helps[0]
	}
	if len(rest) > 0 {
		e.rank(s, rest)
		return rest[0]
	}
	return nil
}

func (e *Engine) assign(s slot, st *models.Staff) models.Assignment {
	k := slotKey{s.tmpl.ID, s.day}
	if e.onSlot[k] == nil {
		e.onSlot[k] = make(map[int]bool)
	}
	e.onSlot[k][st.ID] = true
	e.assignedCount[st.ID]++
	e.prefHistory[st.ID] = append(e.prefHistory[st.ID], e.prefs.Resolve(st.ID, s.day, s.tmpl.ID))

	return models.Assignment{
		ShiftTemplateID: s.tmpl.ID,
		StaffID:         st.ID,
		WeekStartDate:   e.weekStart,
		DayOfWeek:       s.day,
	}
}

// terminalReason classifies why no eligible candidate remains for a slot
func (e *Engine) terminalReason(s slot) string {
	atCapacity := 0
	for i := range e.staff {
		st := &e.staff[i]
		if e.onSlot[slotKey{s.tmpl.ID, s.day}][st.ID] {
			continue
		}
		if !e.available(st.ID, s.day, s.tmpl.ID) {
			continue
		}
		if e.assignedCount[st.ID] >= st.MaxShiftsPerWeek {
			atCapacity++
		}
	}
	if atCapacity > 0 {
		return models.ReasonCapacityExhausted
	}
	return models.ReasonNoAvailableStaff
}

// Run processes every slot of the week and returns a best-effort result.
// A slot that cannot be filled never aborts the run; it is reported in
// Failed and the remaining slots proceed. Runs are deterministic: identical
// snapshots produce identical output.
func (e *Engine) Run() models.RunResult {
	slots := e.enumerateSlots()

	result := models.RunResult{
		Successful: []models.Assignment{},
		Failed:     []models.FailedSlot{},
	}

	for _, s := range slots {
		need := s.tmpl.RequiredStaff - len(e.onSlot[slotKey{s.tmpl.ID, s.day}])
		if need <= 0 {
			continue
		}

		if tag, ok := e.qualificationsFeasible(s, e.eligible(s)); !ok {
			result.Failed = append(result.Failed, models.FailedSlot{
				ShiftTemplateID: s.tmpl.ID,
				TemplateName:    s.tmpl.Name,
				DayOfWeek:       s.day,
				Required:        s.tmpl.RequiredStaff,
				Assigned:        s.tmpl.RequiredStaff - need,
				Reason:          models.ReasonQualificationUnmet,
				Detail:          fmt.Sprintf("no eligible staff holds required qualification %q", tag),
			})
			continue
		}

		assignedHere := 0
		for assignedHere < need {
			candidates := e.eligible(s)
			if len(candidates) == 0 {
				break
			}
			st := e.pick(s, candidates)
			result.Successful = append(result.Successful, e.assign(s, st))
			assignedHere++
		}

		if assignedHere < need {
			reason := e.terminalReason(s)
			detail := ""
			if assignedHere > 0 || s.tmpl.RequiredStaff > need {
				reason = models.ReasonInsufficientStaff
				detail = "insufficient qualified/available staff"
			}
			result.Failed = append(result.Failed, models.FailedSlot{
				ShiftTemplateID: s.tmpl.ID,
				TemplateName:    s.tmpl.Name,
				DayOfWeek:       s.day,
				Required:        s.tmpl.RequiredStaff,
				Assigned:        s.tmpl.RequiredStaff - need + assignedHere,
				Reason:          reason,
				Detail:          detail,
			})
		}
	}

	result.FairnessSummary = e.summarize()
	return result
}

// enumerateSlots derives every (template, day) pair from the active
// templates and orders them most-constrained first: fewest eligible staff,
// then day of week, then template name, then template id.
func (e *Engine) enumerateSlots() []slot {
	var slots []slot
	for i := range e.templates {
		t := &e.templates[i]
		if !t.IsActive {
			continue
		}
		for _, day := range t.DaysOfWeek {
			slots = append(slots, slot{tmpl: t, day: day})
		}
	}

	eligCount := make(map[slotKey]int, len(slots))
	for _, s := range slots {
		eligCount[slotKey{s.tmpl.ID, s.day}] = len(e.eligible(s))
	}

	sort.SliceStable(slots, func(i, j int) bool {
		ci := eligCount[slotKey{slots[i].tmpl.ID, slots[i].day}]
		cj := eligCount[slotKey{slots[j].tmpl.ID, slots[j].day}]
		if ci != cj {
			return ci < cj
		}
		if slots[i].day != slots[j].day {
			return slots[i].day < slots[j].day
		}
		if slots[i].tmpl.Name != slots[j].tmpl.Name {
			return slots[i].tmpl.Name < slots[j].tmpl.Name
		}
		return slots[i].tmpl.ID < slots[j].tmpl.ID
	})

	return slots
}

// summarize derives the run's fairness picture from the running preference
// means accumulated across staff.
func (e *Engine) summarize() models.FairnessSummary {
	means := make(map[int]float64)
	var sum, min, max float64
	counted := 0

	for i := range e.staff {
		id := e.staff[i].ID
		if len(e.prefHistory[id]) == 0 {
			continue
		}
		m := e.runningMean(id)
		means[id] = m
		if counted == 0 || m < min {
			min = m
		}
		if counted == 0 || m > max {
			max = m
		}
		sum += m
		counted++
	}

	if counted == 0 {
		return models.FairnessSummary{
			Explanation: "no assignments recorded; fairness unchanged",
			StaffMeans:  means,
		}
	}

	avg := sum / float64(counted)
	return models.FairnessSummary{
		Explanation: fmt.Sprintf(
			"preference fulfillment averages %.2f (%s) across %d staff, ranging %.2f to %.2f",
			avg, fairness.Band(avg), counted, min, max,
		),
		StaffMeans: means,
	}
}
