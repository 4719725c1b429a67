package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/arnavshah/shift-organizer-go/pkg/auth"
	"github.com/arnavshah/shift-organizer-go/pkg/database"
	"github.com/arnavshah/shift-organizer-go/pkg/handlers"
	"github.com/arnavshah/shift-organizer-go/pkg/scheduler"
)

func main() {
	// Load .env if it exists
	// Try root and parent directories for flexibility
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	db := database.InitDB()
	_ = auth.EnsureAdminExists(db)

	store := database.NewStore(db)
	orc := scheduler.NewOrchestrator(store, slog.Default())
	h := handlers.NewHandler(db, store, orc)

	r := gin.Default()

	// Routes
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Shift Organizer API",
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

	// Destructive operations sit behind admin auth
	protected := r.Group("/api")
	protected.Use(h.AuthMiddleware())
	{
		protected.POST("/schedule/auto", h.AutoSchedule)
		protected.DELETE("/assignments/week/:week", h.ClearWeek)
		protected.GET("/schedule/runs", h.GetRuns)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
