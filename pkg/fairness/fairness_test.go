package fairness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/shift-organizer-go/pkg/models"
)

var week = time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC) // a Monday

func sampleData() ([]models.Staff, []models.Assignment, PrefIndex) {
	staff := []models.Staff{
		{ID: 1, Name: "Alice"},
		{ID: 2, Name: "Bob"},
	}
	assignments := []models.Assignment{
		{ID: 1, ShiftTemplateID: 1, StaffID: 1, WeekStartDate: week, DayOfWeek: 0},
		{ID: 2, ShiftTemplateID: 1, StaffID: 1, WeekStartDate: week, DayOfWeek: 1},
		{ID: 3, ShiftTemplateID: 1, StaffID: 1, WeekStartDate: week, DayOfWeek: 2},
	}
	prefs := IndexPreferences([]models.Preference{
		{StaffID: 1, DayOfWeek: 0, ShiftTemplateID: 1, PreferenceScore: 0.9},
		{StaffID: 1, DayOfWeek: 1, ShiftTemplateID: 1, PreferenceScore: -0.6},
		// day 2 unset: resolves neutral
	})
	return staff, assignments, prefs
}

func TestScoreStaff_CountsAndMean(t *testing.T) {
	_, assignments, prefs := sampleData()
	w := Window{Start: week, End: week.AddDate(0, 0, 6)}

	m := ScoreStaff(1, assignments, prefs, w)

	assert.Equal(t, 3, m.TotalShifts)
	assert.Equal(t, 1, m.PreferredCount)
	assert.Equal(t, 1, m.AvoidedCount)
	assert.InDelta(t, 0.1, m.PreferenceFulfillment, 1e-9) // (0.9 - 0.6 + 0.0) / 3
}

func TestScoreStaff_ZeroShiftsIsZero(t *testing.T) {
	_, assignments, prefs := sampleData()
	w := Window{Start: week, End: week.AddDate(0, 0, 6)}

	m := ScoreStaff(2, assignments, prefs, w)

	assert.Equal(t, 0, m.TotalShifts)
	assert.Zero(t, m.PreferenceFulfillment)
}

func TestScoreStaff_Bounded(t *testing.T) {
	staff := models.Staff{ID: 1, Name: "Alice"}
	var assignments []models.Assignment
	var prefRecords []models.Preference
	for day := 0; day < 7; day++ {
		assignments = append(assignments, models.Assignment{
			ID: day + 1, ShiftTemplateID: 1, StaffID: staff.ID, WeekStartDate: week, DayOfWeek: day,
		})
		prefRecords = append(prefRecords, models.Preference{
			StaffID: staff.ID, DayOfWeek: day, ShiftTemplateID: 1, PreferenceScore: -1.0,
		})
	}
	w := Window{Start: week, End: week.AddDate(0, 0, 6)}

	m := ScoreStaff(staff.ID, assignments, IndexPreferences(prefRecords), w)

	assert.GreaterOrEqual(t, m.PreferenceFulfillment, -1.0)
	assert.LessOrEqual(t, m.PreferenceFulfillment, 1.0)
	assert.InDelta(t, -1.0, m.PreferenceFulfillment, 1e-9)
	assert.Equal(t, 7, m.AvoidedCount)
}

func TestScoreStaff_WindowIsInclusive(t *testing.T) {
	_, assignments, prefs := sampleData()

	// Window covering exactly the Tuesday assignment
	tuesday := week.AddDate(0, 0, 1)
	m := ScoreStaff(1, assignments, prefs, Window{Start: tuesday, End: tuesday})

	assert.Equal(t, 1, m.TotalShifts)
	assert.InDelta(t, -0.6, m.PreferenceFulfillment, 1e-9)
}

func TestScoreAll_IncludesZeroShiftStaff(t *testing.T) {
	staff, assignments, prefs := sampleData()
	w := Window{Start: week, End: week.AddDate(0, 0, 6)}

	out := ScoreAll(staff, assignments, prefs, w)

	require.Len(t, out, 2)
	assert.Equal(t, "Alice", out[0].StaffName)
	assert.Equal(t, 3, out[0].Metrics.TotalShifts)
	assert.Equal(t, "Bob", out[1].StaffName)
	assert.Equal(t, 0, out[1].Metrics.TotalShifts)
}

func TestPresetWindow_SplitsSymmetrically(t *testing.T) {
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	w := PresetWindow(now, 28)

	assert.Equal(t, now.AddDate(0, 0, -14), w.Start)
	assert.Equal(t, now.AddDate(0, 0, 14), w.End)
}

func TestPresetWindow_MatchesExplicitRangeMetrics(t *testing.T) {
	staff, assignments, prefs := sampleData()
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	preset := ScoreAll(staff, assignments, prefs, PresetWindow(now, 28))
	explicit := ScoreAll(staff, assignments, prefs, Window{
		Start: now.AddDate(0, 0, -14),
		End:   now.AddDate(0, 0, 14),
	})

	assert.Equal(t, preset, explicit)
}

func TestBand(t *testing.T) {
	assert.Equal(t, "very favorable", Band(0.6))
	assert.Equal(t, "favorable", Band(0.4))
	assert.Equal(t, "neutral", Band(0.3))
	assert.Equal(t, "neutral", Band(0.0))
	assert.Equal(t, "neutral", Band(-0.3))
	assert.Equal(t, "unfavorable", Band(-0.4))
	assert.Equal(t, "very unfavorable", Band(-0.6))
}
