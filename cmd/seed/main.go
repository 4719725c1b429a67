package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/arnavshah/shift-organizer-go/pkg/database"
	"github.com/arnavshah/shift-organizer-go/pkg/models"
)

// Seeds the database with demo data: three staff, morning and afternoon
// shifts across the whole week, and a few preferences to make auto-schedule
// runs interesting.
func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	db := database.InitDB()

	var count int64
	db.Model(&database.Staff{}).Count(&count)
	if count > 0 {
		fmt.Println("Database already has staff; refusing to seed twice")
		os.Exit(1)
	}

	staff := []database.Staff{
		database.StaffFromModel(models.Staff{Name: "Fredo", Qualifications: []string{"keyholder"}, MaxShiftsPerWeek: 5}),
		database.StaffFromModel(models.Staff{Name: "Employee 2", Qualifications: []string{}, MaxShiftsPerWeek: 5}),
		database.StaffFromModel(models.Staff{Name: "Employee 3", Qualifications: []string{}, MaxShiftsPerWeek: 5}),
	}
	if err := db.Create(&staff).Error; err != nil {
		log.Fatalf("seeding staff: %v", err)
	}
	for _, s := range staff {
		fmt.Printf("Created staff %s (id=%d)\n", s.Name, s.ID)
	}

	allWeek := []int{0, 1, 2, 3, 4, 5, 6}
	templates := []database.ShiftTemplate{
		database.TemplateFromModel(models.ShiftTemplate{
			Name:          "Morning",
			DaysOfWeek:    allWeek,
			StartTime:     "09:00",
			EndTime:       "14:00",
			RequiredStaff: 2,
			RequiredQualifications: map[string]int{"keyholder": 1},
			IsActive:      true,
		}),
		database.TemplateFromModel(models.ShiftTemplate{
			Name:          "Afternoon",
			DaysOfWeek:    allWeek,
			StartTime:     "14:00",
			EndTime:       "19:00",
			RequiredStaff: 2,
			IsActive:      true,
		}),
	}
	if err := db.Create(&templates).Error; err != nil {
		log.Fatalf("seeding shift templates: %v", err)
	}
	for _, t := range templates {
		fmt.Printf("Created shift template %s (id=%d)\n", t.Name, t.ID)
	}

	// Fredo likes mornings, Employee 3 avoids weekends
	var prefs []database.Preference
	for _, day := range allWeek {
		prefs = append(prefs, database.Preference{
			StaffID:         staff[0].ID,
			DayOfWeek:       day,
			ShiftTemplateID: templates[0].ID,
			PreferenceScore: 0.8,
		})
	}
	for _, day := range []int{5, 6} {
		for _, t := range templates {
			prefs = append(prefs, database.Preference{
				StaffID:         staff[2].ID,
				DayOfWeek:       day,
				ShiftTemplateID: t.ID,
				PreferenceScore: -0.6,
			})
		}
	}
	if err := db.Create(&prefs).Error; err != nil {
		log.Fatalf("seeding preferences: %v", err)
	}

	fmt.Printf("Seeded %d preferences\n", len(prefs))
}
