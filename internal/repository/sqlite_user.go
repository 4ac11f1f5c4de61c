package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dentalmark/dentalmark/internal/db"
	"github.com/dentalmark/dentalmark/internal/domain"
)

// SQLiteUserRepo implements UserRepo using a SQLite database.
type SQLiteUserRepo struct {
	db db.DBTX
}

// NewSQLiteUserRepo creates a new SQLiteUserRepo.
func NewSQLiteUserRepo(conn db.DBTX) *SQLiteUserRepo {
	return &SQLiteUserRepo{db: conn}
}

const userColumns = `id, email, name, role, company_id, created_at`

func (r *SQLiteUserRepo) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		u.ID,
		u.Email,
		u.Name,
		string(u.Role),
		nullableString(u.CompanyID),
		formatTime(u.CreatedAt),
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("user %s: %w", u.Email, ErrDuplicate)
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (r *SQLiteUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *SQLiteUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER(?)`, email)
}

func (r *SQLiteUserRepo) getOne(ctx context.Context, query string, arg string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user: %w", ErrNotFound)
	}
	return u, err
}

func (r *SQLiteUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users ORDER BY email`)
}

func (r *SQLiteUserRepo) ListByCompany(ctx context.Context, companyID string) ([]*domain.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users WHERE company_id = ? ORDER BY email`, companyID)
}

func (r *SQLiteUserRepo) list(ctx context.Context, query string, args ...any) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var out []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}
	return out, nil
}

func (r *SQLiteUserRepo) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET email = ?, name = ?, role = ?, company_id = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		u.Email,
		u.Name,
		string(u.Role),
		nullableString(u.CompanyID),
		u.ID,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("user %s: %w", u.Email, ErrDuplicate)
		}
		return fmt.Errorf("updating user: %w", err)
	}
	return expectOne(res, "user")
}

func (r *SQLiteUserRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return expectOne(res, "user")
}

func (r *SQLiteUserRepo) DeleteByCompany(ctx context.Context, companyID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE company_id = ?`, companyID)
	if err != nil {
		return 0, fmt.Errorf("deleting company users: %w", err)
	}
	return res.RowsAffected()
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var role, createdAt string
	var companyID sql.NullString

	if err := row.Scan(&u.ID, &u.Email, &u.Name, &role, &companyID, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	u.Role = domain.Role(role)
	u.CompanyID = fromNullString(companyID)

	var err error
	if u.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	return &u, nil
}
