package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"

	"github.com/arnavshah/shift-organizer-go/pkg/database"
)

// SetAvailability upserts an availability record for a (staff, day, shift)
// slot. Staff default to available; records exist to opt out.
func (h *Handler) SetAvailability(c *gin.Context) {
	var req struct {
		StaffID         int  `json:"staff_id" binding:"required"`
		DayOfWeek       *int `json:"day_of_week" binding:"required"`
		ShiftTemplateID int  `json:"shift_template_id" binding:"required"`
		IsAvailable     bool `json:"is_available"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if *req.DayOfWeek < 0 || *req.DayOfWeek > 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day_of_week must be 0 (Monday) through 6 (Sunday)"})
		return
	}

	row := database.Availability{
		StaffID:         req.StaffID,
		DayOfWeek:       *req.DayOfWeek,
		ShiftTemplateID: req.ShiftTemplateID,
		IsAvailable:     req.IsAvailable,
	}

	// Single-query upsert keyed on the slot (supported by both Postgres and SQLite)
	err := h.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "staff_id"}, {Name: "day_of_week"}, {Name: "shift_template_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_available"}),
	}).Create(&row).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save availability"})
		return
	}
	c.JSON(http.StatusOK, row.ToModel())
}

// GetStaffAvailability lists the availability records for one staff member
func (h *Handler) GetStaffAvailability(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid staff id"})
		return
	}
	var rows []database.Availability
	if err := h.DB.Where("staff_id = ?", id).Order("id").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch availability"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// SetPreference upserts a preference record for a (staff, day, shift) slot.
// Missing records mean neutral.
func (h *Handler) SetPreference(c *gin.Context) {
	var req struct {
		StaffID         int      `json:"staff_id" binding:"required"`
		DayOfWeek       *int     `json:"day_of_week" binding:"required"`
		ShiftTemplateID int      `json:"shift_template_id" binding:"required"`
		PreferenceScore *float64 `json:"preference_score" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if *req.DayOfWeek < 0 || *req.DayOfWeek > 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day_of_week must be 0 (Monday) through 6 (Sunday)"})
		return
	}
	if *req.PreferenceScore < -1.0 || *req.PreferenceScore > 1.0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "preference_score must be between -1.0 and 1.0"})
		return
	}

	row := database.Preference{
		StaffID:         req.StaffID,
		DayOfWeek:       *req.DayOfWeek,
		ShiftTemplateID: req.ShiftTemplateID,
		PreferenceScore: *req.PreferenceScore,
	}

	err := h.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "staff_id"}, {Name: "day_of_week"}, {Name: "shift_template_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"preference_score"}),
	}).Create(&row).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save preference"})
		return
	}
	c.JSON(http.StatusOK, row.ToModel())
}

// GetStaffPreferences lists the preference records for one staff member
func (h *Handler) GetStaffPreferences(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid staff id"})
		return
	}
	var rows []database.Preference
	if err := h.DB.Where("staff_id = ?", id).Order("id").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch preferences"})
		return
	}
	c.JSON(http.StatusOK, rows)
}
