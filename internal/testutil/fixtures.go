package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dentalmark/dentalmark/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var testEmailCounter atomic.Int64

// Company options
type CompanyOption func(*domain.Company)

func WithOwner(name, specialty string) CompanyOption {
	return func(c *domain.Company) {
		c.OwnerName = name
		c.Specialty = specialty
	}
}

func WithCertifications(certs ...string) CompanyOption {
	return func(c *domain.Company) {
		c.Certifications = certs
	}
}

func WithObservations(text string) CompanyOption {
	return func(c *domain.Company) {
		c.ImportantObservations = text
	}
}

func WithCompanyInactive() CompanyOption {
	return func(c *domain.Company) {
		c.IsActive = false
	}
}

func NewTestCompany(name string, opts ...CompanyOption) *domain.Company {
	now := time.Now().UTC().Truncate(time.Second)
	c := &domain.Company{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     "contacto@clinica.mx",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Treatment options
type TreatmentOption func(*domain.Treatment)

func WithCost(cost string) TreatmentOption {
	return func(t *domain.Treatment) {
		t.Cost = decimal.RequireFromString(cost)
	}
}

func WithColor(color string) TreatmentOption {
	return func(t *domain.Treatment) {
		t.Color = color
		t.BgClass = domain.BgClassFor(color)
	}
}

func WithDescription(d string) TreatmentOption {
	return func(t *domain.Treatment) {
		t.Description = d
	}
}

func WithInactive() TreatmentOption {
	return func(t *domain.Treatment) {
		t.IsActive = false
	}
}

func NewTestTreatment(companyID, name string, opts ...TreatmentOption) *domain.Treatment {
	now := time.Now().UTC().Truncate(time.Second)
	t := &domain.Treatment{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      name,
		Color:     "#3b82f6",
		BgClass:   domain.BgClassFor("#3b82f6"),
		Cost:      decimal.NewFromInt(500),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// User options
type UserOption func(*domain.User)

func WithRole(r domain.Role) UserOption {
	return func(u *domain.User) {
		u.Role = r
	}
}

func WithCompany(companyID string) UserOption {
	return func(u *domain.User) {
		u.CompanyID = companyID
	}
}

func WithEmail(email string) UserOption {
	return func(u *domain.User) {
		u.Email = email
	}
}

func NewTestUser(name string, opts ...UserOption) *domain.User {
	n := testEmailCounter.Add(1)
	u := &domain.User{
		ID:        uuid.New().String(),
		Email:     fmt.Sprintf("user%02d@clinica.mx", n),
		Name:      name,
		Role:      domain.RoleUser,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}
