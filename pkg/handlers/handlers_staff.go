package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/shift-organizer-go/pkg/database"
	"github.com/arnavshah/shift-organizer-go/pkg/models"
)

type staffRequest struct {
	Name             string   `json:"name" binding:"required"`
	Qualifications   []string `json:"qualifications"`
	MaxShiftsPerWeek int      `json:"max_shifts_per_week"`
}

func (r *staffRequest) toModel() (models.Staff, string) {
	if r.MaxShiftsPerWeek == 0 {
		r.MaxShiftsPerWeek = 5
	}
	if r.MaxShiftsPerWeek < 0 {
		return models.Staff{}, "max_shifts_per_week must be positive"
	}
	seen := make(map[string]bool)
	for _, q := range r.Qualifications {
		if seen[q] {
			return models.Staff{}, "duplicate qualification: " + q
		}
		seen[q] = true
	}
	return models.Staff{
		Name:             r.Name,
		Qualifications:   r.Qualifications,
		MaxShiftsPerWeek: r.MaxShiftsPerWeek,
	}, ""
}

// CreateStaff adds a new staff member
func (h *Handler) CreateStaff(c *gin.Context) {
	var req staffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, problem := req.toModel()
	if problem != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": problem})
		return
	}

	row := database.StaffFromModel(m)
	if err := h.DB.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create staff"})
		return
	}
	c.JSON(http.StatusOK, row.ToModel())
}

// GetAllStaff lists every staff member
func (h *Handler) GetAllStaff(c *gin.Context) {
	var rows []database.Staff
	if err := h.DB.Order("id").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch staff"})
		return
	}
	out := make([]models.Staff, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToModel())
	}
	c.JSON(http.StatusOK, out)
}

// GetStaff returns one staff member by id
func (h *Handler) GetStaff(c *gin.Context) {
	row, ok := h.findStaff(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, row.ToModel())
}

// UpdateStaff replaces a staff member's attributes
func (h *Handler) UpdateStaff(c *gin.Context) {
	row, ok := h.findStaff(c)
	if !ok {
		return
	}

	var req staffRequest
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
	m.CreatedAt = row.CreatedAt
	updated := database.StaffFromModel(m)
	if err := h.DB.Save(&updated).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update staff"})
		return
	}
	c.JSON(http.StatusOK, updated.ToModel())
}

// DeleteStaff removes a staff member and their dependent records
func (h *Handler) DeleteStaff(c *gin.Context) {
	row, ok := h.findStaff(c)
	if !ok {
		return
	}

	h.DB.Where("staff_id = ?", row.ID).Delete(&database.Availability{})
	h.DB.Where("staff_id = ?", row.ID).Delete(&database.Preference{})
	h.DB.Where("staff_id = ?", row.ID).Delete(&database.WeekAssignment{})
	if err := h.DB.Delete(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete staff"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Staff deleted successfully"})
}

func (h *Handler) findStaff(c *gin.Context) (database.Staff, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid staff id"})
		return database.Staff{}, false
	}
	var row database.Staff
	if err := h.DB.First(&row, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Staff not found"})
		return database.Staff{}, false
	}
	return row, true
}
