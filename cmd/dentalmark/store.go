package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dentalmark/dentalmark/internal/config"
	"github.com/dentalmark/dentalmark/internal/db"
	"github.com/dentalmark/dentalmark/internal/repository"
	"github.com/dentalmark/dentalmark/internal/repository/gormrepo"
)

// openStore opens the persistence backend selected by store.driver.
func openStore(cfg *config.Config) (repository.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverSQLite:
		database, err := db.OpenDB(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		return repository.NewSQLiteStore(database), nil

	case config.DriverGormSQLite:
		if cfg.Store.Path != db.MemoryPath {
			if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
		store, err := gormrepo.OpenSQLite(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		return store, nil

	case config.DriverPostgres:
		store, err := gormrepo.OpenPostgres(gormrepo.PostgresConfig{
			Host:     cfg.DB.Host,
			Port:     cfg.DB.Port,
			Username: cfg.DB.Username,
			Password: cfg.DB.Password,
			Database: cfg.DB.Database,
			SSLMode:  cfg.DB.SSLMode,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
