package database

import (
	"fmt"

	"github.com/mikepea/linky/pkg/linky/logging"
	"github.com/mikepea/linky/pkg/linky/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Open opens a SQLite database and runs migrations.
// The pool is capped at one connection: SQLite has a single writer anyway, and
// ":memory:" databases are per-connection.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logging.NewGormLogger(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dsn, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := models.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Connect initializes the global database connection.
func Connect(dsn string) error {
	var err error
	DB, err = Open(dsn)
	return err
}

// GetDB returns the database instance.
func GetDB() *gorm.DB {
	return DB
}

// Close releases the global connection.
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
