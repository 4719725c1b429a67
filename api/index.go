package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/arnavshah/shift-organizer-go/pkg/auth"
	"github.com/arnavshah/shift-organizer-go/pkg/database"
	"github.com/arnavshah/shift-organizer-go/pkg/handlers"
	"github.com/arnavshah/shift-organizer-go/pkg/scheduler"
)

var r *gin.Engine

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	db := database.InitDB()
	_ = auth.EnsureAdminExists(db)

	store := database.NewStore(db)
	orc := scheduler.NewOrchestrator(store, slog.Default())
	h := handlers.NewHandler(db, store, orc)

	gin.SetMode(gin.ReleaseMode)
	r = gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Shift Organizer API (Vercel)",
			"version": "1.0.0",
		})
	})

	r.POST("/admin/login", h.Login)

	api := r.Group("/api")
	{
		api.POST("/staff", h.CreateStaff)
		api.GET("/staff", h.GetAllStaff)
		api.GET("/staff/:id", h.GetStaff)
		api.PUT("/staff/:id", h.UpdateStaff)
		api.DELETE("/staff/:id", h.DeleteStaff)

		api.POST("/shift-templates", h.CreateShiftTemplate)
		api.GET("/shift-templates", h.GetShiftTemplates)
		api.PUT("/shift-templates/:id", h.UpdateShiftTemplate)
		api.DELETE("/shift-templates/:id", h.DeleteShiftTemplate)

		api.POST("/availability", h.SetAvailability)
		api.GET("/availability/staff/:id", h.GetStaffAvailability)
		api.POST("/preference", h.SetPreference)
		api.GET("/preference/staff/:id", h.GetStaffPreferences)

		api.GET("/assignments", h.GetAllAssignments)
		api.GET("/assignments/week/:week", h.GetWeekAssignments)
		api.POST("/assignments", h.CreateAssignment)
		api.DELETE("/assignments/:id", h.DeleteAssignment)

		api.GET("/fairness/all", h.GetAllFairness)
		api.GET("/fairness/staff/:id", h.GetStaffFairness)

		api.POST("/schedule/validate", h.ValidateScheduleRequest)
	}

	protected := r.Group("/api")
	protected.Use(h.AuthMiddleware())
	{
		protected.POST("/schedule/auto", h.AutoSchedule)
		protected.DELETE("/assignments/week/:week", h.ClearWeek)
		protected.GET("/schedule/runs", h.GetRuns)
	}
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
