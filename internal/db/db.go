package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/mysql"  // MySQL driver for GORM
	"gorm.io/driver/sqlite" // SQLite driver for local runs and tests
	"gorm.io/gorm"          // GORM ORM library
	"gorm.io/gorm/logger"
)

// Open connects to the database for the given driver and DSN
func Open(driver, dsn string, quiet bool) (*gorm.DB, error) {
	cfg := &gorm.Config{TranslateError: true} // Unique violations surface as gorm.ErrDuplicatedKey
	if quiet {
		cfg.Logger = logger.Discard // Silence SQL logging in production
	}
	switch driver {
	case "mysql":
		return gorm.Open(mysql.Open(dsn), cfg)
	case "sqlite":
		return openSQLite(dsn, cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// OpenMemory opens a private in-memory SQLite database with the schema migrated
func OpenMemory() (*gorm.DB, error) {
	db, err := openSQLite(":memory:", &gorm.Config{Logger: logger.Discard, TranslateError: true})
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func openSQLite(path string, cfg *gorm.Config) (*gorm.DB, error) {
	dsn := "file:" + path
	if strings.Contains(dsn, "?") {
		dsn += "&_foreign_keys=on"
	} else {
		dsn += "?_foreign_keys=on"
	}
	db, err := gorm.Open(sqlite.Open(dsn), cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite serializes writers anyway; a single connection also keeps :memory: alive
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}
