package handlers

import (
	"net/http"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/shift-organizer-go/pkg/database"
	"github.com/arnavshah/shift-organizer-go/pkg/models"
)

var timeOfDay = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type templateRequest struct {
	Name                   string         `json:"name" binding:"required"`
	DaysOfWeek             []int          `json:"days_of_week" binding:"required"`
	StartTime              string         `json:"start_time" binding:"required"`
	EndTime                string         `json:"end_time" binding:"required"`
	RequiredStaff          int            `json:"required_staff"`
	RequiredQualifications map[string]int `json:"required_qualifications"`
	IsActive               *bool          `json:"is_active"`
}

func (r *templateRequest) toModel() (models.ShiftTemplate, string) {
	if r.RequiredStaff == 0 {
		r.RequiredStaff = 1
	}
	if r.RequiredStaff < 0 {
		return models.ShiftTemplate{}, "required_staff must be positive"
	}
	seen := make(map[int]bool)
	for _, d := range r.DaysOfWeek {
		if d < 0 || d > 6 {
			return models.ShiftTemplate{}, "days_of_week entries must be 0 (Monday) through 6 (Sunday)"
		}
		if seen[d] {
			return models.ShiftTemplate{}, "duplicate day_of_week: " + strconv.Itoa(d)
		}
		seen[d] = true
	}
	if !timeOfDay.MatchString(r.StartTime) || !timeOfDay.MatchString(r.EndTime) {
		return models.ShiftTemplate{}, "start_time and end_time must be HH:MM"
	}
	for tag, min := range r.RequiredQualifications {
		if min <= 0 {
			return models.ShiftTemplate{}, "required_qualifications[" + tag + "] must be positive"
		}
	}

	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return models.ShiftTemplate{
		Name:                   r.Name,
		DaysOfWeek:             r.DaysOfWeek,
		StartTime:              r.StartTime,
		EndTime:                r.EndTime,
		RequiredStaff:          r.RequiredStaff,
		RequiredQualifications: r.RequiredQualifications,
		IsActive:               active,
	}, ""
}

// CreateShiftTemplate adds a recurring shift definition
func (h *Handler) CreateShiftTemplate(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, problem := req.toModel()
	if problem != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": problem})
		return
	}

	row := database.TemplateFromModel(m)
	if err := h.DB.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create shift template"})
		return
	}
	c.JSON(http.StatusOK, row.ToModel())
}

// GetShiftTemplates lists active shift templates
func (h *Handler) GetShiftTemplates(c *gin.Context) {
	var rows []database.ShiftTemplate
	if err := h.DB.Where("is_active = ?", true).Order("id").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch shift templates"})
		return
	}
	out := make([]models.ShiftTemplate, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToModel())
	}
	c.JSON(http.StatusOK, out)
}

// UpdateShiftTemplate replaces a template's attributes
func (h *Handler) UpdateShiftTemplate(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid template id"})
		return
	}
	var row database.ShiftTemplate
	if err := h.DB.First(&row, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Shift template not found"})
		return
	}

	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, problem := req.toModel()
	if problem != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": problem})
		return
	}

	m.ID = row.ID
	updated := database.TemplateFromModel(m)
	if err := h.DB.Save(&updated).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update shift template"})
		return
	}
	c.JSON(http.StatusOK, updated.ToModel())
}

// DeleteShiftTemplate deactivates a template; it stops generating slots but
// history referencing it survives.
func (h *Handler) DeleteShiftTemplate(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid template id"})
		return
	}
	var row database.ShiftTemplate
	if err := h.DB.First(&row, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Shift template not found"})
		return
	}

	if err := h.DB.Model(&row).Update("is_active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not deactivate shift template"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shift template deactivated"})
}
