package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dentalmark/dentalmark/internal/db"
	"github.com/dentalmark/dentalmark/internal/domain"
)

// SQLiteCompanyRepo implements CompanyRepo using a SQLite database.
type SQLiteCompanyRepo struct {
	db db.DBTX
}

// NewSQLiteCompanyRepo creates a new SQLiteCompanyRepo.
func NewSQLiteCompanyRepo(conn db.DBTX) *SQLiteCompanyRepo {
	return &SQLiteCompanyRepo{db: conn}
}

const companyColumns = `id, name, description, logo, address, phone, email, website, owner_name, specialty,
	certifications, licenses, additional_training, recommendations, important_observations,
	is_active, created_at, updated_at`

type companyLists struct {
	certifications, licenses, training, recommendations string
}

func encodeCompanyLists(c *domain.Company) (companyLists, error) {
	var l companyLists
	var err error
	if l.certifications, err = encodeList(c.Certifications); err != nil {
		return l, fmt.Errorf("encoding certifications: %w", err)
	}
	if l.licenses, err = encodeList(c.Licenses); err != nil {
		return l, fmt.Errorf("encoding licenses: %w", err)
	}
	if l.training, err = encodeList(c.AdditionalTraining); err != nil {
		return l, fmt.Errorf("encoding additional_training: %w", err)
	}
	if l.recommendations, err = encodeList(c.Recommendations); err != nil {
		return l, fmt.Errorf("encoding recommendations: %w", err)
	}
	return l, nil
}

func (r *SQLiteCompanyRepo) Create(ctx context.Context, c *domain.Company) error {
	lists, err := encodeCompanyLists(c)
	if err != nil {
		return err
	}
	query := `INSERT INTO companies (` + companyColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Description, c.Logo, c.Address, c.Phone, c.Email, c.Website,
		c.OwnerName, c.Specialty,
		lists.certifications, lists.licenses, lists.training, lists.recommendations,
		c.ImportantObservations,
		boolToInt(c.IsActive),
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("company %s: %w", c.ID, ErrDuplicate)
		}
		return fmt.Errorf("inserting company: %w", err)
	}
	return nil
}

func (r *SQLiteCompanyRepo) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = ?`
	c, err := scanCompany(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("company: %w", ErrNotFound)
	}
	return c, err
}

func (r *SQLiteCompanyRepo) List(ctx context.Context) ([]*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing companies: %w", err)
	}
	defer rows.Close()

	var out []*domain.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating companies: %w", err)
	}
	return out, nil
}

func (r *SQLiteCompanyRepo) Update(ctx context.Context, c *domain.Company) error {
	lists, err := encodeCompanyLists(c)
	if err != nil {
		return err
	}
	query := `UPDATE companies SET name = ?, description = ?, logo = ?, address = ?, phone = ?, email = ?,
		website = ?, owner_name = ?, specialty = ?, certifications = ?, licenses = ?, additional_training = ?,
		recommendations = ?, important_observations = ?, is_active = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		c.Name, c.Description, c.Logo, c.Address, c.Phone, c.Email, c.Website,
		c.OwnerName, c.Specialty,
		lists.certifications, lists.licenses, lists.training, lists.recommendations,
		c.ImportantObservations,
		boolToInt(c.IsActive),
		formatTime(c.UpdatedAt),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating company: %w", err)
	}
	return expectOne(res, "company")
}

func (r *SQLiteCompanyRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM companies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting company: %w", err)
	}
	return expectOne(res, "company")
}

func scanCompany(row rowScanner) (*domain.Company, error) {
	var c domain.Company
	var certs, licenses, training, recs, createdAt, updatedAt string
	var active int

	err := row.Scan(
		&c.ID, &c.Name, &c.Description, &c.Logo, &c.Address, &c.Phone, &c.Email, &c.Website,
		&c.OwnerName, &c.Specialty,
		&certs, &licenses, &training, &recs,
		&c.ImportantObservations,
		&active, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning company: %w", err)
	}

	c.IsActive = intToBool(active)
	if c.Certifications, err = decodeList("certifications", certs); err != nil {
		return nil, err
	}
	if c.Licenses, err = decodeList("licenses", licenses); err != nil {
		return nil, err
	}
	if c.AdditionalTraining, err = decodeList("additional_training", training); err != nil {
		return nil, err
	}
	if c.Recommendations, err = decodeList("recommendations", recs); err != nil {
		return nil, err
	}
	if c.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
