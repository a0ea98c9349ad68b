// Package gorm provides GORM model definitions for the application
package gorm

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DocumentModel represents one persisted workspace document
type DocumentModel struct {
	Key       string `gorm:"type:varchar(64);primaryKey"`
	Data      []byte `gorm:"not null"`
	Version   int64  `gorm:"not null;default:1"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name
func (DocumentModel) TableName() string {
	return "documents"
}

// Models lists every model the schema is migrated for
func Models() []any {
	return []any{&DocumentModel{}}
}

// Migrate creates or updates the schema
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// LogLevel maps a configured level name onto the GORM logger levels
func LogLevel(name string) logger.LogLevel {
	switch name {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
