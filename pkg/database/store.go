package database

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/arnavshah/shift-organizer-go/pkg/models"
)

// Store implements the scheduler's repository contract on top of gorm
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) LoadStaff(ctx context.Context) ([]models.Staff, error) {
	var rows []Staff
	if err := s.DB.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.Staff, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToModel())
	}
	return out, nil
}

func (s *Store) LoadShiftTemplates(ctx context.Context) ([]models.ShiftTemplate, error) {
	var rows []ShiftTemplate
	if err := s.DB.WithContext(ctx).Where("is_active = ?", true).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.ShiftTemplate, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToModel())
	}
	return out, nil
}

func (s *Store) LoadAvailability(ctx context.Context) ([]models.Availability, error) {
	var rows []Availability
	if err := s.DB.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.Availability, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToModel())
	}
	return out, nil
}

func (s *Store) LoadPreferences(ctx context.Context) ([]models.Preference, error) {
	var rows []Preference
	if err := s.DB.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.Preference, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToModel())
	}
	return out, nil
}

func (s *Store) LoadAssignments(ctx context.Context, weekStart time.Time) ([]models.Assignment, error) {
	var rows []WeekAssignment
	if err := s.DB.WithContext(ctx).Where("week_start_date = ?", weekStart).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.Assignment, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToModel())
	}
	return out, nil
}

func (s *Store) LoadAssignmentsRange(ctx context.Context, start, end time.Time) ([]models.Assignment, error) {
	// A week's assignments span week_start_date .. +6 days, so any week
	// starting within 6 days before the range can still overlap it.
	var rows []WeekAssignment
	err := s.DB.WithContext(ctx).
		Where("week_start_date >= ? AND week_start_date <= ?", start.AddDate(0, 0, -6), end).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]models.Assignment, 0, len(rows))
	for _, r := range rows {
		m := r.ToModel()
		d := m.Date()
		if d.Before(start) || d.After(end) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// SaveAssignments persists the batch as a single unit: either every
// assignment lands or none do.
func (s *Store) SaveAssignments(ctx context.Context, batch []models.Assignment) error {
	if len(batch) == 0 {
		return nil
	}
	rows := make([]WeekAssignment, 0, len(batch))
	now := time.Now().UTC()
	for _, m := range batch {
		r := AssignmentFromModel(m)
		r.AssignedAt = now
		rows = append(rows, r)
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	})
}

func (s *Store) DeleteAssignments(ctx context.Context, weekStart time.Time) (int64, error) {
	res := s.DB.WithContext(ctx).Where("week_start_date = ?", weekStart).Delete(&WeekAssignment{})
	return res.RowsAffected, res.Error
}

// RecordRun stores an audit row for one auto-schedule run
func (s *Store) RecordRun(ctx context.Context, result *models.ScheduleResult, duration time.Duration) error {
	run := ScheduleRun{
		WeekStartDate: result.WeekStartDate,
		Assigned:      len(result.Successful),
		Unfilled:      len(result.Failed),
		Cleared:       int(result.Cleared),
		DurationMs:    duration.Milliseconds(),
	}
	return s.DB.WithContext(ctx).Create(&run).Error
}
