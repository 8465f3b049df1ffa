package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"academy/internal/model"
)

// NewMySQL returns a connected GORM DB instance.
func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	return db, nil
}

// Open connects to the configured driver ("mysql" or "sqlite").
func Open(driver, mysqlDSN, sqlitePath string) (*gorm.DB, error) {
	switch driver {
	case "", "mysql":
		return NewMySQL(mysqlDSN)
	case "sqlite":
		return NewSQLite(sqlitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Reset drops every table, join tables included, in reverse dependency order.
func Reset(db *gorm.DB) error {
	models := model.All()
	tables := []interface{}{"user_roles"}
	for i := len(models) - 1; i >= 0; i-- {
		tables = append(tables, models[i])
	}
	for _, table := range tables {
		if err := db.Migrator().DropTable(table); err != nil {
			return fmt.Errorf("drop table %v: %w", table, err)
		}
	}
	return nil
}
