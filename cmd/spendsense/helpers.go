package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/andychuong/spendsense/internal/catalog"
	"github.com/andychuong/spendsense/internal/config"
	"github.com/andychuong/spendsense/internal/engine"
	"github.com/andychuong/spendsense/internal/service"
	"github.com/andychuong/spendsense/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	} else {
		dbPath = config.ExpandPath(dbPath)
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initCatalog loads the configured catalog file, or the built-in default
// when none is configured.
func initCatalog() (*catalog.Catalog, error) {
	path := viper.GetString("catalog.path")
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(config.ExpandPath(path))
}

// initEngine wires up the evaluation engine from configuration.
func initEngine(store service.Storage) (*engine.EvaluationEngine, error) {
	cat, err := initCatalog()
	if err != nil {
		return nil, err
	}

	cfg := engine.DefaultConfig()
	if days := viper.GetInt("cooldown.days"); days > 0 {
		cfg.CooldownDays = days
	}
	return engine.NewWithConfig(store, cat, cfg), nil
}

// parseAsOf parses the --as-of flag, defaulting to now.
func parseAsOf(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	asOf, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --as-of date %q (want YYYY-MM-DD): %w", value, err)
	}
	return asOf, nil
}
