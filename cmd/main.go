package main

import (
	"log"
	"os"

	"github.com/mailpane/core/internal/api"
	"github.com/mailpane/core/internal/cli"
	"github.com/mailpane/core/internal/config"
	"github.com/mailpane/core/internal/database"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	// Initialize database
	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Check if running CLI command
	if len(os.Args) > 1 {
		cli.Execute(db, cfg)
		return
	}

	// Start API server
	router := api.SetupRouter(db, cfg)

	log.Printf("Starting Mailpane server on port %s", cfg.APIPort)
	log.Printf("Data directory: %s", cfg.DataDir)
	log.Printf("Database path: %s", cfg.DatabasePath)
	if err := router.Run(":" + cfg.APIPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
