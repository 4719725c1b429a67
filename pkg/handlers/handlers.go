package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/arnavshah/shift-organizer-go/pkg/auth"
	"github.com/arnavshah/shift-organizer-go/pkg/database"
	"github.com/arnavshah/shift-organizer-go/pkg/models"
	"github.com/arnavshah/shift-organizer-go/pkg/scheduler"
)

// Handler contains dependencies for the route handlers
type Handler struct {
	DB    *gorm.DB
	Store *database.Store
	Orc   *scheduler.Orchestrator
}

func NewHandler(db *gorm.DB, store *database.Store, orc *scheduler.Orchestrator) *Handler {
	return &Handler{DB: db, Store: store, Orc: orc}
}

// AuthMiddleware verifies the JWT token for admin routes
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		// Strip "Bearer " if present
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}

		claims, err := auth.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}

// Login handles admin login
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user database.MasterUser
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.CreateToken(user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// parseDate accepts plain dates and full RFC3339 timestamps
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// AutoSchedule triggers automatic scheduling for a specific week
func (h *Handler) AutoSchedule(c *gin.Context) {
	var req struct {
		WeekStartDate string `json:"week_start_date" binding:"required"`
		ClearExisting bool   `json:"clear_existing"`
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

	started := time.Now()
	result, err := h.Orc.AutoSchedule(c.Request.Context(), models.ScheduleRequest{
		WeekStartDate: week,
		ClearExisting: req.ClearExisting,
	})

	var valErr *scheduler.ValidationError
	var persistErr *scheduler.PersistError
	switch {
	case err == nil:
		_ = h.Store.RecordRun(c.Request.Context(), result, time.Since(started))
		c.JSON(http.StatusOK, result)
	case errors.As(err, &valErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case scheduler.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &persistErr):
		// The engine's result is included so the caller can tell an
		// infrastructure problem from a coverage problem.
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "result": result})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// ClearWeek deletes all assignments for a specific week
func (h *Handler) ClearWeek(c *gin.Context) {
	week, err := parseDate(c.Param("week"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "week must be YYYY-MM-DD"})
		return
	}

	deleted, err := h.Orc.ClearWeek(c.Request.Context(), week)
	if err != nil {
		if scheduler.IsConflict(err) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deleted " + strconv.FormatInt(deleted, 10) + " assignments"})
}

// GetRuns returns the recent auto-schedule run history
func (h *Handler) GetRuns(c *gin.Context) {
	var runs []database.ScheduleRun
	if err := h.DB.Order("created_at desc").Limit(30).Find(&runs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch run history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// fairnessQuery builds a window query from period_days or start/end params.
// The preset form is symmetric around now; asymmetric windows need the
// explicit range form.
func fairnessQuery(c *gin.Context) (scheduler.FairnessQuery, error) {
	var q scheduler.FairnessQuery

	if v := c.Query("period_days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return q, errors.New("period_days must be an integer")
		}
		q.PeriodDays = n
	}
	if v := c.Query("start_date"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return q, errors.New("start_date must be YYYY-MM-DD")
		}
		q.StartDate = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return q, errors.New("end_date must be YYYY-MM-DD")
		}
		q.EndDate = &t
	}
	return q, nil
}

// GetAllFairness returns fairness metrics for every staff member
func (h *Handler) GetAllFairness(c *gin.Context) {
	q, err := fairnessQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.Orc.FairnessReport(c.Request.Context(), q)
	if err != nil {
		h.fairnessError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetStaffFairness returns fairness metrics for one staff member
func (h *Handler) GetStaffFairness(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid staff id"})
		return
	}

	q, err := fairnessQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	q.StaffID = &id

	report, err := h.Orc.FairnessReport(c.Request.Context(), q)
	if err != nil {
		h.fairnessError(c, err)
		return
	}
	c.JSON(http.StatusOK, report[0].Metrics)
}

func (h *Handler) fairnessError(c *gin.Context, err error) {
	var valErr *scheduler.ValidationError
	switch {
	case errors.Is(err, scheduler.ErrStaffNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Staff not found"})
	case errors.Is(err, scheduler.ErrInvalidWindow), errors.As(err, &valErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
