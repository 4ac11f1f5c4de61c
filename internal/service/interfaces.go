package service

import (
	"context"

	"github.com/dentalmark/dentalmark/internal/domain"
)

// Validator checks input structs. *validation.Validator satisfies it.
type Validator interface {
	Struct(s interface{}) error
}

type TreatmentService interface {
	Add(ctx context.Context, companyID string, in domain.TreatmentInput) (*domain.Treatment, error)
	Get(ctx context.Context, id string) (*domain.Treatment, error)
	GetByName(ctx context.Context, companyID, name string) (*domain.Treatment, error)
	Update(ctx context.Context, id string, in domain.TreatmentInput) (*domain.Treatment, error)
	Delete(ctx context.Context, id string) error
	ToggleStatus(ctx context.Context, id string) (*domain.Treatment, error)
	List(ctx context.Context, companyID string, f domain.TreatmentFilter) ([]*domain.Treatment, error)
	ListActive(ctx context.Context, companyID string) ([]*domain.Treatment, error)
	// Catalog snapshots the company's active treatments for pricing.
	Catalog(ctx context.Context, companyID string) (*Catalog, error)
}

type CompanyService interface {
	Create(ctx context.Context, in domain.CompanyInput) (*domain.Company, error)
	Get(ctx context.Context, id string) (*domain.Company, error)
	List(ctx context.Context, f domain.CompanyFilter) ([]*domain.Company, error)
	Update(ctx context.Context, id string, in domain.CompanyInput) (*domain.Company, error)
	ToggleStatus(ctx context.Context, id string) (*domain.Company, error)
	// Delete removes the company together with its treatments and users.
	Delete(ctx context.Context, id string) error
	DoctorInfo(ctx context.Context, id string) domain.DoctorInfo
	ImportantObservations(ctx context.Context, id string) string
}

type UserService interface {
	Add(ctx context.Context, in domain.UserInput) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	ListByCompany(ctx context.Context, companyID string) ([]*domain.User, error)
	SetRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
	Assign(ctx context.Context, userID, companyID string) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
