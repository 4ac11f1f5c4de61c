package repository

import (
	"context"

	"github.com/dentalmark/dentalmark/internal/domain"
)

type TreatmentRepo interface {
	Create(ctx context.Context, t *domain.Treatment) error
	GetByID(ctx context.Context, id string) (*domain.Treatment, error)
	GetByName(ctx context.Context, companyID, name string) (*domain.Treatment, error)
	// ListByCompany returns the company's treatments ordered by name.
	ListByCompany(ctx context.Context, companyID string) ([]*domain.Treatment, error)
	Update(ctx context.Context, t *domain.Treatment) error
	Delete(ctx context.Context, id string) error
	DeleteByCompany(ctx context.Context, companyID string) (int64, error)
}

type CompanyRepo interface {
	Create(ctx context.Context, c *domain.Company) error
	GetByID(ctx context.Context, id string) (*domain.Company, error)
	// List returns every company ordered by name.
	List(ctx context.Context) ([]*domain.Company, error)
	Update(ctx context.Context, c *domain.Company) error
	Delete(ctx context.Context, id string) error
}

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	ListByCompany(ctx context.Context, companyID string) ([]*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error
	DeleteByCompany(ctx context.Context, companyID string) (int64, error)
}

// Store bundles the repositories of one backend. Repositories obtained from
// the Store passed to WithinTx share its transaction.
type Store interface {
	Treatments() TreatmentRepo
	Companies() CompanyRepo
	Users() UserRepo
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
	Close() error
}
