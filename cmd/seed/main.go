// Command seed inserts the default timetable into an empty gym_classes table.
package main

import (
	"context"
	"log"

	"gym-agent-be/internal/config"
	"gym-agent-be/internal/repository/implementation"
	"gym-agent-be/pkg/database"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := database.NewGormSQLite(cfg.Storage.ClassesDBPath, "busy_timeout(5000)")
	if err != nil {
		log.Fatal("Error: Failed to open classes database:", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	repo := implementation.NewGymClassRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal("Error: Failed to create gym_classes:", err)
	}

	inserted, err := repo.SeedDefaults(ctx)
	if err != nil {
		log.Fatal("Error: Seeding failed:", err)
	}
	if inserted == 0 {
		log.Println("gym_classes already has rows, skipping...")
		return
	}
	log.Printf("Seeded %d gym classes", inserted)
}
