package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dentalmark/dentalmark/internal/db"
	"github.com/dentalmark/dentalmark/internal/domain"
)

// SQLiteTreatmentRepo implements TreatmentRepo using a SQLite database.
type SQLiteTreatmentRepo struct {
	db db.DBTX
}

// NewSQLiteTreatmentRepo creates a new SQLiteTreatmentRepo.
func NewSQLiteTreatmentRepo(conn db.DBTX) *SQLiteTreatmentRepo {
	return &SQLiteTreatmentRepo{db: conn}
}

const treatmentColumns = `id, company_id, name, color, bg_class, cost, description, is_active, created_at, updated_at`

func (r *SQLiteTreatmentRepo) Create(ctx context.Context, t *domain.Treatment) error {
	query := `INSERT INTO treatments (` + treatmentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.CompanyID,
		t.Name,
		t.Color,
		t.BgClass,
		t.Cost.String(),
		t.Description,
		boolToInt(t.IsActive),
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("treatment %q: %w", t.Name, ErrDuplicate)
		}
		return fmt.Errorf("inserting treatment: %w", err)
	}
	return nil
}

func (r *SQLiteTreatmentRepo) GetByID(ctx context.Context, id string) (*domain.Treatment, error) {
	query := `SELECT ` + treatmentColumns + ` FROM treatments WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteTreatmentRepo) GetByName(ctx context.Context, companyID, name string) (*domain.Treatment, error) {
	query := `SELECT ` + treatmentColumns + ` FROM treatments WHERE company_id = ? AND name = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, companyID, name))
}

func (r *SQLiteTreatmentRepo) ListByCompany(ctx context.Context, companyID string) ([]*domain.Treatment, error) {
	query := `SELECT ` + treatmentColumns + ` FROM treatments WHERE company_id = ? ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("listing treatments: %w", err)
	}
	defer rows.Close()

	var out []*domain.Treatment
	for rows.Next() {
		t, err := scanTreatment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating treatments: %w", err)
	}
	return out, nil
}

func (r *SQLiteTreatmentRepo) Update(ctx context.Context, t *domain.Treatment) error {
	query := `UPDATE treatments SET name = ?, color = ?, bg_class = ?, cost = ?, description = ?, is_active = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.Name,
		t.Color,
		t.BgClass,
		t.Cost.String(),
		t.Description,
		boolToInt(t.IsActive),
		formatTime(t.UpdatedAt),
		t.ID,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("treatment %q: %w", t.Name, ErrDuplicate)
		}
		return fmt.Errorf("updating treatment: %w", err)
	}
	return expectOne(res, "treatment")
}

func (r *SQLiteTreatmentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM treatments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting treatment: %w", err)
	}
	return expectOne(res, "treatment")
}

func (r *SQLiteTreatmentRepo) DeleteByCompany(ctx context.Context, companyID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM treatments WHERE company_id = ?`, companyID)
	if err != nil {
		return 0, fmt.Errorf("deleting company treatments: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteTreatmentRepo) scanOne(row *sql.Row) (*domain.Treatment, error) {
	t, err := scanTreatment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("treatment: %w", ErrNotFound)
	}
	return t, err
}

func scanTreatment(row rowScanner) (*domain.Treatment, error) {
	var t domain.Treatment
	var cost, createdAt, updatedAt string
	var active int

	err := row.Scan(
		&t.ID, &t.CompanyID, &t.Name, &t.Color, &t.BgClass,
		&cost, &t.Description, &active,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning treatment: %w", err)
	}

	t.IsActive = intToBool(active)
	if t.Cost, err = parseCost(cost); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
