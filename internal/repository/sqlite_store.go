package repository

import (
	"context"
	"database/sql"

	"github.com/dentalmark/dentalmark/internal/db"
)

// SQLiteStore implements Store on a database/sql SQLite handle.
type SQLiteStore struct {
	db   *sql.DB
	conn db.DBTX
	uow  db.UnitOfWork
}

// NewSQLiteStore wraps an open database. The store owns it from then on.
func NewSQLiteStore(database *sql.DB) *SQLiteStore {
	return &SQLiteStore{
		db:   database,
		conn: database,
		uow:  db.NewSQLiteUnitOfWork(database),
	}
}

// NewSQLiteStoreWithUoW is NewSQLiteStore with a custom unit of work, used to
// inject failures in tests.
func NewSQLiteStoreWithUoW(database *sql.DB, uow db.UnitOfWork) *SQLiteStore {
	s := NewSQLiteStore(database)
	s.uow = uow
	return s
}

func (s *SQLiteStore) Treatments() TreatmentRepo { return NewSQLiteTreatmentRepo(s.conn) }

func (s *SQLiteStore) Companies() CompanyRepo { return NewSQLiteCompanyRepo(s.conn) }

func (s *SQLiteStore) Users() UserRepo { return NewSQLiteUserRepo(s.conn) }

// WithinTx runs fn with a store whose repositories share one transaction.
// Nested calls reuse the outer transaction.
func (s *SQLiteStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	if s.uow == nil {
		return fn(ctx, s)
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &SQLiteStore{db: s.db, conn: tx})
	})
}

func (s *SQLiteStore) Close() error {
	if s.uow == nil {
		return nil
	}
	return s.db.Close()
}
