package config

import (
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB opens MySQL when DB_DSN is set, otherwise a local sqlite file.
// Tests open their own in-memory sqlite.
func InitDB() (*gorm.DB, error) {
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		return gorm.Open(mysql.Open(dsn), &gorm.Config{})
	}

	path := os.Getenv("SQLITE_PATH")
	if path == "" {
		path = "pickup.db"
	}
	return gorm.Open(sqlite.Open(path), &gorm.Config{})
}
