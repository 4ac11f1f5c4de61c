package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillBgClass(db); err != nil {
		return fmt.Errorf("backfilling treatment bg_class: %w", err)
	}
	return nil
}

// migrateBackfillBgClass fills bg_class for treatments created before the
// column existed. The derivation matches domain.BgClassFor.
func migrateBackfillBgClass(db *sql.DB) error {
	ctx := context.Background()
	rows, err := db.QueryContext(ctx, `SELECT id, color FROM treatments WHERE bg_class = ''`)
	if err != nil {
		return fmt.Errorf("listing treatments without bg_class: %w", err)
	}
	type pending struct{ id, color string }
	var todo []pending
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.id, &p.color); err != nil {
			rows.Close()
			return fmt.Errorf("scanning treatment: %w", err)
		}
		todo = append(todo, p)
	}
	if err := rows.Close(); err != nil {
		return err
	}
	if len(todo) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting backfill transaction: %w", err)
	}
	for _, p := range todo {
		class := "bg-gray"
		if c := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(p.color)), "#"); c != "" {
			class = "bg-[#" + c + "]"
		}
		if _, err := tx.ExecContext(ctx, `UPDATE treatments SET bg_class = ? WHERE id = ?`, class, p.id); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("updating treatment %s: %w", p.id, err)
		}
	}
	return tx.Commit()
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS companies (
		id                     TEXT PRIMARY KEY,
		name                   TEXT NOT NULL,
		description            TEXT NOT NULL DEFAULT '',
		logo                   TEXT NOT NULL DEFAULT '',
		address                TEXT NOT NULL DEFAULT '',
		phone                  TEXT NOT NULL DEFAULT '',
		email                  TEXT NOT NULL DEFAULT '',
		website                TEXT NOT NULL DEFAULT '',
		owner_name             TEXT NOT NULL DEFAULT '',
		specialty              TEXT NOT NULL DEFAULT '',
		certifications         TEXT NOT NULL DEFAULT '[]',
		licenses               TEXT NOT NULL DEFAULT '[]',
		additional_training    TEXT NOT NULL DEFAULT '[]',
		recommendations        TEXT NOT NULL DEFAULT '[]',
		important_observations TEXT NOT NULL DEFAULT '',
		is_active              INTEGER NOT NULL DEFAULT 1,
		created_at             TEXT NOT NULL,
		updated_at             TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS treatments (
		id          TEXT PRIMARY KEY,
		company_id  TEXT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		color       TEXT NOT NULL,
		cost        TEXT NOT NULL DEFAULT '0',
		description TEXT NOT NULL DEFAULT '',
		is_active   INTEGER NOT NULL DEFAULT 1,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		UNIQUE(company_id, name)
	)`,
	`ALTER TABLE treatments ADD COLUMN bg_class TEXT NOT NULL DEFAULT ''`,
	`CREATE TABLE IF NOT EXISTS users (
		id         TEXT PRIMARY KEY,
		email      TEXT NOT NULL UNIQUE,
		name       TEXT NOT NULL DEFAULT '',
		role       TEXT NOT NULL DEFAULT 'user' CHECK(role IN ('admin','user')),
		company_id TEXT REFERENCES companies(id) ON DELETE SET NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_treatments_company ON treatments(company_id)`,
	`CREATE INDEX IF NOT EXISTS idx_treatments_active ON treatments(company_id, is_active)`,
	`CREATE INDEX IF NOT EXISTS idx_users_company ON users(company_id)`,
	`CREATE INDEX IF NOT EXISTS idx_companies_active ON companies(is_active)`,
}
