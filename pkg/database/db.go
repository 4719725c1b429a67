package database

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/arnavshah/shift-organizer-go/pkg/models"
)

// Staff represents the staff table
type Staff struct {
	ID               int            `gorm:"primaryKey" json:"id"`
	Name             string         `gorm:"not null" json:"name"`
	Qualifications   datatypes.JSON `json:"qualifications"`
	MaxShiftsPerWeek int            `gorm:"default:5" json:"max_shifts_per_week"`
	CreatedAt        time.Time      `json:"created_at"`
}

// ShiftTemplate represents the shift_template table
type ShiftTemplate struct {
	ID                     int            `gorm:"primaryKey" json:"id"`
	Name                   string         `gorm:"not null" json:"name"`
	DaysOfWeek             datatypes.JSON `gorm:"not null" json:"days_of_week"`
	StartTime              string         `gorm:"not null" json:"start_time"`
	EndTime                string         `gorm:"not null" json:"end_time"`
	RequiredStaff          int            `gorm:"default:1" json:"required_staff"`
	RequiredQualifications datatypes.JSON `json:"required_qualifications"`
	IsActive               bool           `gorm:"default:true" json:"is_active"`
}

// Availability represents the availability table
type Availability struct {
	ID              int  `gorm:"primaryKey" json:"id"`
	StaffID         int  `gorm:"uniqueIndex:idx_avail_slot;not null" json:"staff_id"`
	DayOfWeek       int  `gorm:"uniqueIndex:idx_avail_slot;not null" json:"day_of_week"`
	ShiftTemplateID int  `gorm:"uniqueIndex:idx_avail_slot;not null" json:"shift_template_id"`
	IsAvailable     bool `gorm:"default:true" json:"is_available"`
}

// Preference represents the preference table
type Preference struct {
	ID              int     `gorm:"primaryKey" json:"id"`
	StaffID         int     `gorm:"uniqueIndex:idx_pref_slot;not null" json:"staff_id"`
	DayOfWeek       int     `gorm:"uniqueIndex:idx_pref_slot;not null" json:"day_of_week"`
	ShiftTemplateID int     `gorm:"uniqueIndex:idx_pref_slot;not null" json:"shift_template_id"`
	PreferenceScore float64 `gorm:"default:0" json:"preference_score"`
}

// WeekAssignment represents the week_assignment table. The unique index
// enforces at most one assignment per (staff, template, day, week).
type WeekAssignment struct {
	ID              int       `gorm:"primaryKey" json:"id"`
	ShiftTemplateID int       `gorm:"uniqueIndex:idx_assignment_slot;not null" json:"shift_template_id"`
	StaffID         int       `gorm:"uniqueIndex:idx_assignment_slot;not null" json:"staff_id"`
	WeekStartDate   time.Time `gorm:"uniqueIndex:idx_assignment_slot;not null" json:"week_start_date"`
	DayOfWeek       int       `gorm:"uniqueIndex:idx_assignment_slot;not null" json:"day_of_week"`
	AssignedAt      time.Time `json:"assigned_at"`
}

// ScheduleRun records one auto-schedule run for auditing
type ScheduleRun struct {
	ID            int       `gorm:"primaryKey" json:"id"`
	WeekStartDate time.Time `gorm:"not null" json:"week_start_date"`
	Assigned      int       `gorm:"default:0" json:"assigned"`
	Unfilled      int       `gorm:"default:0" json:"unfilled"`
	Cleared       int       `gorm:"default:0" json:"cleared"`
	DurationMs    int64     `gorm:"default:0" json:"duration_ms"`
	CreatedAt     time.Time `json:"created_at"`
}

// MasterUser represents the master_users table
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// InitDB initializes the database connection and migrates the schema
func InitDB() *gorm.DB {
	var db *gorm.DB
	var err error

	dsn := os.Getenv("DATABASE_URL")
	if dsn != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		dbPath := os.Getenv("DATA_PATH")
		if dbPath == "" {
			dbPath = "shift_organizer.db"
		}
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	}

	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	// Auto Migration
	db.AutoMigrate(&Staff{}, &ShiftTemplate{}, &Availability{}, &Preference{},
		&WeekAssignment{}, &ScheduleRun{}, &MasterUser{})

	return db
}

// ToModel converts a staff row to the domain type
func (s Staff) ToModel() models.Staff {
	var quals []string
	if len(s.Qualifications) > 0 {
		_ = json.Unmarshal(s.Qualifications, &quals)
	}
	return models.Staff{
		ID:               s.ID,
		Name:             s.Name,
		Qualifications:   quals,
		MaxShiftsPerWeek: s.MaxShiftsPerWeek,
		CreatedAt:        s.CreatedAt,
	}
}

// StaffFromModel converts a domain staff member to its row form
func StaffFromModel(m models.Staff) Staff {
	quals, _ := json.Marshal(m.Qualifications)
	if m.Qualifications == nil {
		quals = []byte("[]")
	}
	return Staff{
		ID:               m.ID,
		Name:             m.Name,
		Qualifications:   quals,
		MaxShiftsPerWeek: m.MaxShiftsPerWeek,
		CreatedAt:        m.CreatedAt,
	}
}

// ToModel converts a shift template row to the domain type
func (t ShiftTemplate) ToModel() models.ShiftTemplate {
	var days []int
	if len(t.DaysOfWeek) > 0 {
		_ = json.Unmarshal(t.DaysOfWeek, &days)
	}
	quals := map[string]int{}
	if len(t.RequiredQualifications) > 0 {
		_ = json.Unmarshal(t.RequiredQualifications, &quals)
	}
	return models.ShiftTemplate{
		ID:                     t.ID,
		Name:                   t.Name,
		DaysOfWeek:             days,
		StartTime:              t.StartTime,
		EndTime:                t.EndTime,
		RequiredStaff:          t.RequiredStaff,
		RequiredQualifications: quals,
		IsActive:               t.IsActive,
	}
}

// TemplateFromModel converts a domain template to its row form
func TemplateFromModel(m models.ShiftTemplate) ShiftTemplate {
	days, _ := json.Marshal(m.DaysOfWeek)
	if m.DaysOfWeek == nil {
		days = []byte("[]")
	}
	quals, _ := json.Marshal(m.RequiredQualifications)
	if m.RequiredQualifications == nil {
		quals = []byte("{}")
	}
	return ShiftTemplate{
		ID:                     m.ID,
		Name:                   m.Name,
		DaysOfWeek:             days,
		StartTime:              m.StartTime,
		EndTime:                m.EndTime,
		RequiredStaff:          m.RequiredStaff,
		RequiredQualifications: quals,
		IsActive:               m.IsActive,
	}
}

// ToModel converts an availability row to the domain type
func (a Availability) ToModel() models.Availability {
	return models.Availability{
		ID:              a.ID,
		StaffID:         a.StaffID,
		DayOfWeek:       a.DayOfWeek,
		ShiftTemplateID: a.ShiftTemplateID,
		IsAvailable:     a.IsAvailable,
	}
}

// ToModel converts a preference row to the domain type
func (p Preference) ToModel() models.Preference {
	return models.Preference{
		ID:              p.ID,
		StaffID:         p.StaffID,
		DayOfWeek:       p.DayOfWeek,
		ShiftTemplateID: p.ShiftTemplateID,
		PreferenceScore: p.PreferenceScore,
	}
}

// ToModel converts an assignment row to the domain type
func (a WeekAssignment) ToModel() models.Assignment {
	return models.Assignment{
		ID:              a.ID,
		ShiftTemplateID: a.ShiftTemplateID,
		StaffID:         a.StaffID,
		WeekStartDate:   a.WeekStartDate,
		DayOfWeek:       a.DayOfWeek,
		AssignedAt:      a.AssignedAt,
	}
}

// AssignmentFromModel converts a domain assignment to its row form
func AssignmentFromModel(m models.Assignment) WeekAssignment {
	return WeekAssignment{
		ID:              m.ID,
		ShiftTemplateID: m.ShiftTemplateID,
		StaffID:         m.StaffID,
		WeekStartDate:   m.WeekStartDate,
		DayOfWeek:       m.DayOfWeek,
		AssignedAt:      m.AssignedAt,
	}
}
