package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/shift-organizer-go/pkg/models"
)

var testWeek = time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC) // a Monday

func threeStaff() []models.Staff {
	return []models.Staff{
		{ID: 1, Name: "Alice", MaxShiftsPerWeek: 5},
		{ID: 2, Name: "Bob", MaxShiftsPerWeek: 5},
		{ID: 3, Name: "Cara", MaxShiftsPerWeek: 5},
	}
}

func mondayTemplate(required int) models.ShiftTemplate {
	return models.ShiftTemplate{
		ID:            1,
		Name:          "Morning",
		DaysOfWeek:    []int{0},
		StartTime:     "09:00",
		EndTime:       "14:00",
		RequiredStaff: required,
		IsActive:      true,
	}
}

func TestRun_PrefersHighPreferenceCandidates(t *testing.T) {
	snap := Snapshot{
		WeekStart: testWeek,
		Staff:     threeStaff(),
		Templates: []models.ShiftTemplate{mondayTemplate(2)},
		Preferences: []models.Preference{
			{StaffID: 1, DayOfWeek: 0, ShiftTemplateID: 1, PreferenceScore: 0.8},
			{StaffID: 2, DayOfWeek: 0, ShiftTemplateID: 1, PreferenceScore: 0.2},
			{StaffID: 3, DayOfWeek: 0, ShiftTemplateID: 1, PreferenceScore: -0.5},
		},
	}

	result := NewEngine(snap).Run()

	require.Len(t, result.Successful, 2)
	require.Empty(t, result.Failed)
	assert.Equal(t, 1, result.Successful[0].StaffID)
	assert.Equal(t, 2, result.Successful[1].StaffID)
	for _, a := range result.Successful {
		assert.Equal(t, testWeek, a.WeekStartDate)
		assert.Equal(t, 0, a.DayOfWeek)
	}
}

func TestRun_QualificationUnmetFillsNothing(t *testing.T) {
	tmpl := mondayTemplate(2)
	tmpl.RequiredQualifications = map[string]int{"first_aid": 1}

	snap := Snapshot{
		WeekStart: testWeek,
		Staff:     threeStaff(), // nobody holds first_aid
		Templates: []models.ShiftTemplate{tmpl},
	}

	result := NewEngine(snap).Run()

	assert.Empty(t, result.Successful)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, models.ReasonQualificationUnmet, result.Failed[0].Reason)
	assert.Equal(t, 0, result.Failed[0].Assigned)
	assert.Equal(t, 2, result.Failed[0].Required)
}

func TestRun_QualifiedCandidatesExhaustedFirst(t *testing.T) {
	tmpl := mondayTemplate(2)
	tmpl.RequiredQualifications = map[string]int{"keyholder": 1}

	staff := threeStaff()
	staff[2].Qualifications = []string{"keyholder"}

	snap := Snapshot{
		WeekStart: testWeek,
		Staff:     staff,
		Templates: []models.ShiftTemplate{tmpl},
		Preferences: []models.Preference{
			// The keyholder dislikes the slot but must be taken first anyway
			{StaffID: 1, DayOfWeek: 0, ShiftTemplateID: 1, PreferenceScore: 0.9},
			{StaffID: 3, DayOfWeek: 0, ShiftTemplateID: 1, PreferenceScore: -0.9},
		},
	}

	result := NewEngine(snap).Run()

	require.Len(t, result.Successful, 2)
	require.Empty(t, result.Failed)
	assert.Equal(t, 3, result.Successful[0].StaffID, "keyholder fills the qualification need first")
	assert.Equal(t, 1, result.Successful[1].StaffID)
}

func TestRun_CapacityExhausted(t *testing.T) {
	tmpl := models.ShiftTemplate{
		ID: 1, Name: "Morning", DaysOfWeek: []int{0, 1},
		StartTime: "09:00", EndTime: "14:00", RequiredStaff: 1, IsActive: true,
	}
	snap := Snapshot{
		WeekStart: testWeek,
		Staff:     []models.Staff{{ID: 1, Name: "Alice", MaxShiftsPerWeek: 1}},
		Templates: []models.ShiftTemplate{tmpl},
	}

	result := NewEngine(snap).Run()

	require.Len(t, result.Successful, 1)
	assert.Equal(t, 0, result.Successful[0].DayOfWeek)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, 1, result.Failed[0].DayOfWeek)
	assert.Equal(t, models.ReasonCapacityExhausted, result.Failed[0].Reason)
}

func TestRun_NoAvailableStaff(t *testing.T) {
	snap := Snapshot{
		WeekStart: testWeek,
		Staff:     []models.Staff{{ID: 1, Name: "Alice", MaxShiftsPerWeek: 5}},
		Templates: []models.ShiftTemplate{mondayTemplate(1)},
		Availability: []models.Availability{
			{StaffID: 1, DayOfWeek: 0, ShiftTemplateID: 1, IsAvailable: false},
		},
	}

	result := NewEngine(snap).Run()

	assert.Empty(t, result.Successful)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, models.ReasonNoAvailableStaff, result.Failed[0].Reason)
}

func TestRun_PartialFillReportsInsufficientStaff(t *testing.T) {
	snap := Snapshot{
		WeekStart: testWeek,
		Staff: []models.Staff{
			{ID: 1, Name: "Alice", MaxShiftsPerWeek: 5},
			{ID: 2, Name: "Bob", MaxShiftsPerWeek: 5},
		},
		Templates: []models.ShiftTemplate{mondayTemplate(3)},
	}

	result := NewEngine(snap).Run()

	assert.Len(t, result.Successful, 2)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, models.ReasonInsufficientStaff, result.Failed[0].Reason)
	assert.Equal(t, 2, result.Failed[0].Assigned)
	assert.Equal(t, 3, result.Failed[0].Required)
}

func TestRun_CapacityInvariantHolds(t *testing.T) {
	// Two 2-person shifts on every day of the week push against everyone's cap
	allWeek := []int{0, 1, 2, 3, 4, 5, 6}
	snap := Snapshot{
		WeekStart: testWeek,
		Staff: []models.Staff{
			{ID: 1, Name: "Alice", MaxShiftsPerWeek: 3},
			{ID: 2, Name: "Bob", MaxShiftsPerWeek: 4},
			{ID: 3, Name: "Cara", MaxShiftsPerWeek: 2},
		},
		Templates: []models.ShiftTemplate{
			{ID: 1, Name: "Morning", DaysOfWeek: allWeek, StartTime: "09:00", EndTime: "14:00", RequiredStaff: 2, IsActive: true},
			{ID: 2, Name: "Afternoon", DaysOfWeek: allWeek, StartTime: "14:00", EndTime: "19:00", RequiredStaff: 2, IsActive: true},
		},
	}

	result := NewEngine(snap).Run()

	counts := map[int]int{}
	for _, a := range result.Successful {
		counts[a.StaffID]++
	}
	assert.LessOrEqual(t, counts[1], 3)
	assert.LessOrEqual(t, counts[2], 4)
	assert.LessOrEqual(t, counts[3], 2)
	assert.Equal(t, 9, len(result.Successful), "3+4+2 capacity fills 9 of 28 slots")
}

func TestRun_NeverDuplicatesSlotAssignment(t *testing.T) {
	snap := Snapshot{
		WeekStart: testWeek,
		Staff:     threeStaff(),
		Templates: []models.ShiftTemplate{mondayTemplate(3)},
		Existing: []models.Assignment{
			{ID: 10, ShiftTemplateID: 1, StaffID: 1, WeekStartDate: testWeek, DayOfWeek: 0},
		},
	}

	result := NewEngine(snap).Run()

	// Staff 1 already covers the slot; only 2 and 3 are addable
	require.Len(t, result.Successful, 2)
	seen := map[int]bool{}
	for _, a := range result.Successful {
		assert.False(t, seen[a.StaffID], "staff assigned twice to the same slot")
		assert.NotEqual(t, 1, a.StaffID)
		seen[a.StaffID] = true
	}
	assert.Empty(t, result.Failed)
}

func TestRun_SeededHistoryBalancesSelection(t *testing.T) {
	// Bob's recent assignments matched his preferences well; Alice's did
	// not. With equal slot preferences the engine favors Alice.
	prefs := []models.Preference{
		{StaffID: 1, DayOfWeek: 3, ShiftTemplateID: 9, PreferenceScore: -0.7},
		{StaffID: 2, DayOfWeek: 3, ShiftTemplateID: 9, PreferenceScore: 0.7},
	}
	lastWeek := testWeek.AddDate(0, 0, -7)
	recent := []models.Assignment{
		{ID: 1, ShiftTemplateID: 9, StaffID: 1, WeekStartDate: lastWeek, DayOfWeek: 3},
		{ID: 2, ShiftTemplateID: 9, StaffID: 2, WeekStartDate: lastWeek, DayOfWeek: 3},
	}

	snap := Snapshot{
		WeekStart: testWeek,
		Staff: []models.Staff{
			{ID: 1, Name: "Alice", MaxShiftsPerWeek: 5},
			{ID: 2, Name: "Bob", MaxShiftsPerWeek: 5},
		},
		Templates:   []models.ShiftTemplate{mondayTemplate(1)},
		Preferences: prefs,
		Recent:      recent,
	}

	result := NewEngine(snap).Run()

	require.Len(t, result.Successful, 1)
	assert.Equal(t, 1, result.Successful[0].StaffID, "under-served staff picked first")
}

func TestRun_MostConstrainedSlotFirst(t *testing.T) {
	// Cara is the only person available for Scarce; Broad could take anyone.
	// Scarce must be processed first so Cara is not consumed by Broad.
	templates := []models.ShiftTemplate{
		{ID: 1, Name: "Broad", DaysOfWeek: []int{0}, StartTime: "09:00", EndTime: "14:00", RequiredStaff: 1, IsActive: true},
		{ID: 2, Name: "Scarce", DaysOfWeek: []int{0}, StartTime: "14:00", EndTime: "19:00", RequiredStaff: 1, IsActive: true},
	}
	avail := []models.Availability{
		{StaffID: 1, DayOfWeek: 0, ShiftTemplateID: 2, IsAvailable: false},
		{StaffID: 2, DayOfWeek: 0, ShiftTemplateID: 2, IsAvailable: false},
	}

	snap := Snapshot{
		WeekStart:    testWeek,
		Staff:        threeStaff(),
		Templates:    templates,
		Availability: avail,
	}

	result := NewEngine(snap).Run()

	require.Len(t, result.Successful, 2)
	assert.Equal(t, 2, result.Successful[0].ShiftTemplateID, "scarce slot processed first")
	assert.Equal(t, 3, result.Successful[0].StaffID)
	assert.Empty(t, result.Failed)
}

func TestRun_Deterministic(t *testing.T) {
	build := func() Snapshot {
		allWeek := []int{0, 1, 2, 3, 4, 5, 6}
		return Snapshot{
			WeekStart: testWeek,
			Staff:     threeStaff(),
			Templates: []models.ShiftTemplate{
				{ID: 1, Name: "Morning", DaysOfWeek: allWeek, StartTime: "09:00", EndTime: "14:00", RequiredStaff: 2, IsActive: true},
				{ID: 2, Name: "Afternoon", DaysOfWeek: allWeek, StartTime: "14:00", EndTime: "19:00", RequiredStaff: 1, IsActive: true},
			},
			Preferences: []models.Preference{
				{StaffID: 1, DayOfWeek: 0, ShiftTemplateID: 1, PreferenceScore: 0.4},
				{StaffID: 2, DayOfWeek: 2, ShiftTemplateID: 2, PreferenceScore: -0.3},
				{StaffID: 3, DayOfWeek: 5, ShiftTemplateID: 1, PreferenceScore: 0.9},
			},
		}
	}

	first := NewEngine(build()).Run()
	second := NewEngine(build()).Run()

	assert.Equal(t, first, second)
}

func TestRun_InactiveTemplatesProduceNoSlots(t *testing.T) {
	tmpl := mondayTemplate(2)
	tmpl.IsActive = false

	result := NewEngine(Snapshot{
		WeekStart: testWeek,
		Staff:     threeStaff(),
		Templates: []models.ShiftTemplate{tmpl},
	}).Run()

	assert.Empty(t, result.Successful)
	assert.Empty(t, result.Failed)
}

func TestRun_FairnessSummaryReflectsAssignments(t *testing.T) {
	snap := Snapshot{
		WeekStart: testWeek,
		Staff:     threeStaff(),
		Templates: []models.ShiftTemplate{mondayTemplate(2)},
		Preferences: []models.Preference{
			{StaffID: 1, DayOfWeek: 0, ShiftTemplateID: 1, PreferenceScore: 0.8},
			{StaffID: 2, DayOfWeek: 0, ShiftTemplateID: 1, PreferenceScore: 0.6},
		},
	}

	result := NewEngine(snap).Run()

	require.Len(t, result.Successful, 2)
	assert.InDelta(t, 0.8, result.FairnessSummary.StaffMeans[1], 1e-9)
	assert.InDelta(t, 0.6, result.FairnessSummary.StaffMeans[2], 1e-9)
	assert.NotEmpty(t, result.FairnessSummary.Explanation)
}
