package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/arnavshah/shift-organizer-go/pkg/fairness"
	"github.com/arnavshah/shift-organizer-go/pkg/models"
)

// Trailing window used to seed running preference history, and the default
// preset for fairness queries.
const (
	historyDays       = 28
	DefaultPeriodDays = 28
)

// Repository is the persistence collaborator the orchestrator reads domain
// snapshots from and writes assignment batches to.
type Repository interface {
	LoadStaff(ctx context.Context) ([]models.Staff, error)
	LoadShiftTemplates(ctx context.Context) ([]models.ShiftTemplate, error)
	LoadAvailability(ctx context.Context) ([]models.Availability, error)
	LoadPreferences(ctx context.Context) ([]models.Preference, error)
	LoadAssignments(ctx context.Context, weekStart time.Time) ([]models.Assignment, error)
	LoadAssignmentsRange(ctx context.Context, start, end time.Time) ([]models.Assignment, error)
	SaveAssignments(ctx context.Context, batch []models.Assignment) error
	DeleteAssignments(ctx context.Context, weekStart time.Time) (int64, error)
}

// FairnessQuery selects a window either as a preset symmetric period or an
// explicit inclusive date range, optionally filtered to one staff member.
type FairnessQuery struct {
	PeriodDays int
	StartDate  *time.Time
	EndDate    *time.Time
	StaffID    *int
}

// Orchestrator is the request-level entry point for scheduling operations.
// Writes to a given week are serialized through a per-week lock; reads
// proceed against last-committed state.
type Orchestrator struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time

	mu    sync.Mutex
	weeks map[time.Time]*sync.Mutex
}

func NewOrchestrator(repo Repository, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		repo:  repo,
		log:   log,
		now:   time.Now,
		weeks: make(map[time.Time]*sync.Mutex),
	}
}

func (o *Orchestrator) weekLock(week time.Time) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	l, ok := o.weeks[week]
	if !ok {
		l = &sync.Mutex{}
		o.weeks[week] = l
	}
	return l
}

// AutoSchedule runs the assignment engine for one week and persists the
// result. On persistence failure the computed result is still returned,
// wrapped in a PersistError, so callers can tell an infrastructure problem
// from a coverage problem.
func (o *Orchestrator) AutoSchedule(ctx context.Context, req models.ScheduleRequest) (*models.ScheduleResult, error) {
	if req.WeekStartDate.IsZero() {
		return nil, &ValidationError{Field: "week_start_date", Reason: "required"}
	}
	week := models.WeekStart(req.WeekStartDate)

	lock := o.weekLock(week)
	if !lock.TryLock() {
		return nil, ErrWeekBusy
	}
	defer lock.Unlock()

	started := o.now()
	result := &models.ScheduleResult{WeekStartDate: week}

	if req.ClearExisting {
		cleared, err := o.repo.DeleteAssignments(ctx, week)
		if err != nil {
			return nil, fmt.Errorf("clearing week %s: %w", week.Format("2006-01-02"), err)
		}
		result.Cleared = cleared
	}

	snap, err := o.loadSnapshot(ctx, week)
	if err != nil {
		return nil, err
	}

	result.RunResult = NewEngine(snap).Run()

	if len(result.Successful) > 0 {
		if err := o.repo.SaveAssignments(ctx, result.Successful); err != nil {
			return result, &PersistError{Err: err}
		}
	}
	result.Persisted = true

	weekWindow := fairness.Window{Start: week, End: week.AddDate(0, 0, 6)}
	saved, err := o.repo.LoadAssignments(ctx, week)
	if err != nil {
		return result, fmt.Errorf("loading post-run assignments: %w", err)
	}
	result.Fairness = fairness.ScoreAll(snap.Staff, saved, fairness.IndexPreferences(snap.Preferences), weekWindow)

	o.log.Info("auto-schedule run complete",
		"week", week.Format("2006-01-02"),
		"assigned", len(result.Successful),
		"unfilled", len(result.Failed),
		"cleared", result.Cleared,
		"duration", o.now().Sub(started),
	)
	return result, nil
}

func (o *Orchestrator) loadSnapshot(ctx context.Context, week time.Time) (Snapshot, error) {
	snap := Snapshot{WeekStart: week}
	var err error

	if snap.Staff, err = o.repo.LoadStaff(ctx); err != nil {
		return snap, fmt.Errorf("loading staff: %w", err)
	}
	if snap.Templates, err = o.repo.LoadShiftTemplates(ctx); err != nil {
		return snap, fmt.Errorf("loading shift templates: %w", err)
	}
	if snap.Availability, err = o.repo.LoadAvailability(ctx); err != nil {
		return snap, fmt.Errorf("loading availability: %w", err)
	}
	if snap.Preferences, err = o.repo.LoadPreferences(ctx); err != nil {
		return snap, fmt.Errorf("loading preferences: %w", err)
	}
	if snap.Existing, err = o.repo.LoadAssignments(ctx, week); err != nil {
		return snap, fmt.Errorf("loading existing assignments: %w", err)
	}
	if snap.Recent, err = o.repo.LoadAssignmentsRange(ctx, week.AddDate(0, 0, -historyDays), week.AddDate(0, 0, -1)); err != nil {
		return snap, fmt.Errorf("loading assignment history: %w", err)
	}
	return snap, nil
}

// ClearWeek deletes every assignment for the week. Clearing an already-empty
// week succeeds with zero rows.
func (o *Orchestrator) ClearWeek(ctx context.Context, weekStart time.Time) (int64, error) {
	if weekStart.IsZero() {
		return 0, &ValidationError{Field: "week_start_date", Reason: "required"}
	}
	week := models.WeekStart(weekStart)

	lock := o.weekLock(week)
	if !lock.TryLock() {
		return 0, ErrWeekBusy
	}
	defer lock.Unlock()

	cleared, err := o.repo.DeleteAssignments(ctx, week)
	if err != nil {
		return 0, fmt.Errorf("clearing week %s: %w", week.Format("2006-01-02"), err)
	}
	o.log.Info("week cleared", "week", week.Format("2006-01-02"), "deleted", cleared)
	return cleared, nil
}

// FairnessReport computes per-staff metrics over the queried window
func (o *Orchestrator) FairnessReport(ctx context.Context, q FairnessQuery) ([]models.StaffFairness, error) {
	window, err := o.resolveWindow(q)
	if err != nil {
		return nil, err
	}

	staff, err := o.repo.LoadStaff(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading staff: %w", err)
	}
	if q.StaffID != nil {
		found := false
		filtered := staff[:0]
		for _, s := range staff {
			if s.ID == *q.StaffID {
				filtered = append(filtered, s)
				found = true
			}
		}
		if !found {
			return nil, ErrStaffNotFound
		}
		staff = filtered
	}

	prefs, err := o.repo.LoadPreferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading preferences: %w", err)
	}
	assignments, err := o.repo.LoadAssignmentsRange(ctx, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("loading assignments: %w", err)
	}

	return fairness.ScoreAll(staff, assignments, fairness.IndexPreferences(prefs), window), nil
}

func (o *Orchestrator) resolveWindow(q FairnessQuery) (fairness.Window, error) {
	switch {
	case q.StartDate != nil && q.EndDate != nil:
		if q.PeriodDays != 0 {
			return fairness.Window{}, ErrInvalidWindow
		}
		if q.EndDate.Before(*q.StartDate) {
			return fairness.Window{}, &ValidationError{Field: "end_date", Reason: "before start_date"}
		}
		return fairness.Window{Start: *q.StartDate, End: *q.EndDate}, nil
	case q.StartDate != nil || q.EndDate != nil:
		return fairness.Window{}, ErrInvalidWindow
	case q.PeriodDays < 0:
		return fairness.Window{}, &ValidationError{Field: "period_days", Reason: "must be positive"}
	case q.PeriodDays == 0:
		return fairness.PresetWindow(o.now(), DefaultPeriodDays), nil
	default:
		return fairness.PresetWindow(o.now(), q.PeriodDays), nil
	}
}

// IsConflict reports whether err is the retryable same-week conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrWeekBusy)
}
