// Command main applies the database schema for chronicle.
package main

import (
	"log"

	"chronicle/internal/config"
	"chronicle/internal/database"
	"chronicle/internal/middleware"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.InitMiddleware(cfg)

	// Connect runs AutoMigrate as part of startup.
	if _, err := database.Connect(cfg); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Schema is up to date")
}
