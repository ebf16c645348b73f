package database

import (
	"os"
	"path/filepath"

	"github.com/mailpane/core/internal/database/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Initialize creates and returns a database connection
func Initialize(dbPath string) (*gorm.DB, error) {
	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	// Configure GORM logger
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	// Open SQLite database with foreign key enforcement enabled
	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), gormConfig)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		return nil, err
	}

	// Seed the sample mailbox on first run
	if err := SeedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

// runMigrations runs all database migrations
func runMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Email{},
		&models.Attachment{},
		&models.Log{},
	)
}

// Reset drops all application tables and recreates them, reseeding the
// sample mailbox. Used by the maintenance CLI only.
func Reset(db *gorm.DB) error {
	if err := db.Migrator().DropTable(
		&models.Attachment{},
		&models.Email{},
		&models.Log{},
	); err != nil {
		return err
	}
	if err := runMigrations(db); err != nil {
		return err
	}
	return SeedIfEmpty(db)
}
