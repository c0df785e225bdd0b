package database

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewInMemory creates a throwaway, fully migrated SQLite database.
// Each call gets its own named in-memory database.
func NewInMemory() (*Client, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	d, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := d.DB()
	if err != nil {
		return nil, err
	}
	// A single connection keeps the shared-cache database alive and
	// serializes writers.
	sqlDB.SetMaxOpenConns(1)

	c := &Client{DB: d}
	if err := c.AutoMigrate(); err != nil {
		return nil, err
	}
	return c, nil
}
