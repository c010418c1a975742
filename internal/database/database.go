// Package database opens the SQLite store shared by the API server and the worker.
package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/talentfit/talentfit/internal/models"
)

// Open connects to the database at url, applies pragmas and runs migrations
func Open(url string, zlog zerolog.Logger) (*gorm.DB, error) {
	const (
		maxOpenConns    = 8
		maxIdleConns    = 4
		connMaxLifetime = 300  // seconds
		busyTimeout     = 5000 // milliseconds
	)

	db, err := gorm.Open(sqlite.Open(url), &gorm.Config{
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				LogLevel:                  logger.Error,
				IgnoreRecordNotFoundError: true,
				SlowThreshold:             200 * time.Millisecond,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(connMaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// WAL must be set first
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeout),
		"PRAGMA foreign_keys=1",
		"PRAGMA temp_store=2",
	}

	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			zlog.Warn().Str("pragma", pragma).Err(err).Msg("Failed to apply pragma")
		}
	}

	if err := models.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// OpenMemory opens a private in-memory database, used by tests
func OpenMemory() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	// every connection to ":memory:" is a separate database
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys=1").Error; err != nil {
		return nil, err
	}

	if err := models.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}
