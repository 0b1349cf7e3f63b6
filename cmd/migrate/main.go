package main

import (
	"expense_tracker/internal/config" // Custom import path (Config)
	"expense_tracker/internal/db"     // Custom import path (Database)
	"expense_tracker/internal/store"  // Custom import path (Store)

	"github.com/sirupsen/logrus"
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration

	switch cfg.StoreBackend {
	case store.BackendMySQL:
		if err := db.Migrate(cfg.DSN()); err != nil {
			logrus.Fatalf("migration failed: %v", err) // Log fatal error if migration fails
		}
	case store.BackendSQLite:
		if err := store.RunMigrations(cfg.SQLitePath); err != nil {
			logrus.Fatalf("migration failed: %v", err)
		}
		logrus.Info("Migration completed.")
	default:
		logrus.Infof("Backend %q has no schema to migrate", cfg.StoreBackend)
	}
}
