package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/shift-organizer-go/pkg/database"
	"github.com/arnavshah/shift-organizer-go/pkg/models"
)

// GetAllAssignments lists every assignment
func (h *Handler) GetAllAssignments(c *gin.Context) {
	var rows []database.WeekAssignment
	if err := h.DB.Order("id").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch assignments"})
		return
	}
	out := make([]models.Assignment, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToModel())
	}
	c.JSON(http.StatusOK, out)
}

// GetWeekAssignments lists the assignments for one week
func (h *Handler) GetWeekAssignments(c *gin.Context) {
	week, err := parseDate(c.Param("week"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "week must be YYYY-MM-DD"})
		return
	}
	week = models.WeekStart(week)

	var rows []database.WeekAssignment
	if err := h.DB.Where("week_start_date = ?", week).Order("id").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch assignments"})
		return
	}
	out := make([]models.Assignment, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToModel())
	}
	c.JSON(http.StatusOK, out)
}

// CreateAssignment manually assigns a staff member to a slot. Manual writes
// may overbook past weekly capacity; only duplicates are rejected.
func (h *Handler) CreateAssignment(c *gin.Context) {
	var req struct {
		ShiftTemplateID int    `json:"shift_template_id" binding:"required"`
		StaffID         int    `json:"staff_id" binding:"required"`
		WeekStartDate   string `json:"week_start_date" binding:"required"`
		DayOfWeek       *int   `json:"day_of_week" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	week, err := parseDate(req.WeekStartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "week_start_date must be YYYY-MM-DD"})
		return
	}
	week = models.WeekStart(week)

	var staff database.Staff
	if err := h.DB.First(&staff, req.StaffID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Staff not found"})
		return
	}

	var tmplRow database.ShiftTemplate
	if err := h.DB.First(&tmplRow, req.ShiftTemplateID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Shift template not found"})
		return
	}

	tmpl := tmplRow.ToModel()
	onDay := false
	for _, d := range tmpl.DaysOfWeek {
		if d == *req.DayOfWeek {
			onDay = true
			break
		}
	}
	if !onDay {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Day " + strconv.Itoa(*req.DayOfWeek) + " is not in this shift template's days"})
		return
	}

	var existing database.WeekAssignment
	err = h.DB.Where(
		"staff_id = ? AND shift_template_id = ? AND day_of_week = ? AND week_start_date = ?",
		req.StaffID, req.ShiftTemplateID, *req.DayOfWeek, week,
	).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "This staff member is already assigned to this shift on this day"})
		return
	}

	row := database.WeekAssignment{
		ShiftTemplateID: req.ShiftTemplateID,
		StaffID:         req.StaffID,
		WeekStartDate:   week,
		DayOfWeek:       *req.DayOfWeek,
		AssignedAt:      time.Now().UTC(),
	}
	if err := h.DB.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create assignment"})
		return
	}
	c.JSON(http.StatusOK, row.ToModel())
}

// DeleteAssignment removes one assignment by id
func (h *Handler) DeleteAssignment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assignment id"})
		return
	}
	var row database.WeekAssignment
	if err := h.DB.First(&row, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Assignment not found"})
		return
	}
	if err := h.DB.Delete(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete assignment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Assignment deleted"})
}
