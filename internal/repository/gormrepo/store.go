// Package gormrepo implements the repository interfaces on GORM, for hosted
// Postgres deployments and the pure-Go SQLite driver.
package gormrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/dentalmark/dentalmark/internal/repository"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PostgresConfig holds the connection settings of a Postgres server.
type PostgresConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	SSLMode  string
}

// DSN renders the keyword/value connection string.
func (c PostgresConfig) DSN() string {
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=%s`,
		c.Host, c.Port, c.Username, c.Password, c.Database, sslmode)
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}
}

// OpenPostgres connects to Postgres and migrates the schema.
func OpenPostgres(cfg PostgresConfig) (*Store, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true,
	}), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	return setup(db)
}

// OpenSQLite opens a SQLite file through GORM. ":memory:" gives a private
// in-memory database.
func OpenSQLite(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	if path == ":memory:" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("accessing sql interface: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	return setup(db)
}

func setup(db *gorm.DB) (*Store, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("accessing sql interface: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("validating connection: %w", err)
	}
	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Store implements repository.Store on a *gorm.DB.
type Store struct {
	db   *gorm.DB
	inTx bool
}

var _ repository.Store = (*Store)(nil)

func (s *Store) Treatments() repository.TreatmentRepo { return &TreatmentRepo{db: s.db} }

func (s *Store) Companies() repository.CompanyRepo { return &CompanyRepo{db: s.db} }

func (s *Store) Users() repository.UserRepo { return &UserRepo{db: s.db} }

// DB exposes the underlying handle.
func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &Store{db: tx, inTx: true})
	})
}

func (s *Store) Close() error {
	if s.inTx {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// translate maps GORM and driver errors onto the repository sentinels.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", what, repository.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey), repository.IsUniqueViolation(err):
		return fmt.Errorf("%s: %w", what, repository.ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}

// affected maps a zero-row write to ErrNotFound.
func affected(res *gorm.DB, what string) error {
	if res.Error != nil {
		return translate(res.Error, what)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", what, repository.ErrNotFound)
	}
	return nil
}
