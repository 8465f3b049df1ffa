package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLite opens a SQLite database, used for local development and tests.
// Pass ":memory:" or a "file:...?mode=memory" DSN for an in-memory database.
func NewSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}
	return db, nil
}
