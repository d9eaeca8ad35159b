package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/avelardi/polisbot/internal/adapters/persistence"
	"github.com/avelardi/polisbot/internal/infrastructure/config"
)

// NewConnection opens the local SQLite database that backs the order audit
// log and migrates its schema.
func NewConnection(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&persistence.OrderLogModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}

// NewTestConnection opens an in-memory database for tests.
func NewTestConnection() (*gorm.DB, error) {
	return NewConnection(&config.DatabaseConfig{Path: ":memory:"})
}

// Close releases the underlying connection.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying db: %w", err)
	}
	return sqlDB.Close()
}
