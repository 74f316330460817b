package main

import (
	"log"
	"log/slog"

	"chat-realtime/internal/config"
	"chat-realtime/internal/database"
)

// Migrate creates the tables the realtime service reads and writes.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	slog.Info("Starting database migration...", "driver", cfg.Database.Driver)

	// NewConnection migrates on connect
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get database instance:", err)
	}
	defer sqlDB.Close()

	slog.Info("Database migration completed successfully!")
}
