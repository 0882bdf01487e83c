package config

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/bellapacxx/bingo-hall/models"
	"github.com/bellapacxx/bingo-hall/utils/logger"
)

// SetupDatabase connects to postgres and runs migrations.
func SetupDatabase(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	logger.Info("Database connected and migrated")
	return db, nil
}

// Migrate creates or updates the round, ticket and history tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.RoundState{},
		&models.Ticket{},
		&models.RoundHistory{},
	); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
