package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/shift-organizer-go/pkg/database"
	"github.com/arnavshah/shift-organizer-go/pkg/models"
)

// ValidateScheduleRequest checks a schedule request against the current
// domain state without running the engine or touching assignments.
func (h *Handler) ValidateScheduleRequest(c *gin.Context) {
	var req struct {
		WeekStartDate string `json:"week_start_date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	week, err := parseDate(req.WeekStartDate)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": "week_start_date must be YYYY-MM-DD",
		})
		return
	}
	week = models.WeekStart(week)

	var staffCount int64
	h.DB.Model(&database.Staff{}).Count(&staffCount)
	if staffCount == 0 {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": "At least one staff member is required",
		})
		return
	}

	var templateCount int64
	h.DB.Model(&database.ShiftTemplate{}).Where("is_active = ?", true).Count(&templateCount)
	if templateCount == 0 {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": "At least one active shift template is required",
		})
		return
	}

	var existing int64
	h.DB.Model(&database.WeekAssignment{}).Where("week_start_date = ?", week).Count(&existing)

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"week_start_date":      week.Format("2006-01-02"),
			"staff_count":          staffCount,
			"template_count":       templateCount,
			"existing_assignments": existing,
		},
	})
}
