package db

import (
	"context"
	"database/sql"
)

// DBTX is what the clinic repositories run their queries against. Both a
// pooled *sql.DB and an open *sql.Tx qualify, so the same repository code
// serves plain reads and the grouped writes of a company or user change.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
