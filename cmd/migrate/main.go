// Command migrate creates the gym class table and, for the postgres vector
// store, the pgvector extension and document_chunks table.
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

	log.Println("Step 1: Migrating gym_classes...")
	db, err := database.NewGormSQLite(cfg.Storage.ClassesDBPath, "busy_timeout(5000)")
	if err != nil {
		log.Fatal("Error: Failed to open classes database:", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := implementation.NewGymClassRepository(db).EnsureSchema(ctx); err != nil {
		log.Fatal("Error: Failed to create gym_classes:", err)
	}

	if cfg.Storage.VectorStore != "postgres" {
		log.Println("Step 2: Skipped, local vector store needs no migration")
		log.Println("Migration completed")
		return
	}

	log.Println("Step 2: Migrating document_chunks...")
	if cfg.Storage.DBConnection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}
	pg, err := database.NewGormDBFromDSN(cfg.Storage.DBConnection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}
	if err := implementation.MigrateDocumentChunks(ctx, pg); err != nil {
		log.Fatal("Error: Migration failed:", err)
	}

	log.Println("Migration completed")
}
