package main

import (
	"drops_api/internal/config" // Custom import path (Config)
	"drops_api/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus"
)

// Main entry point for migration
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}
	db.Migrate(cfg.DBDriver, cfg.DSN())
}
