package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/dentalmark/dentalmark/internal/domain"
	"github.com/dentalmark/dentalmark/internal/repository"
	"github.com/google/uuid"
)

type companyService struct {
	store     repository.Store
	validator Validator
	logger    *slog.Logger
	observer  UseCaseObserver
}

func NewCompanyService(store repository.Store, v Validator, logger *slog.Logger, observers ...UseCaseObserver) CompanyService {
	if logger == nil {
		logger = slog.Default()
	}
	return &companyService{
		store:     store,
		validator: v,
		logger:    logger,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *companyService) validate(in domain.CompanyInput) error {
	if s.validator == nil {
		return nil
	}
	return s.validator.Struct(in)
}

func (s *companyService) Create(ctx context.Context, in domain.CompanyInput) (c *domain.Company, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"name": in.Name}
	defer func() { observe(ctx, s.observer, "create-company", startedAt, fields, err) }()

	if err = s.validate(in); err != nil {
		return nil, err
	}
	c = &domain.Company{
		ID:        uuid.New().String(),
		IsActive:  true,
		CreatedAt: startedAt,
	}
	c.Apply(in, startedAt)
	if err = s.store.Companies().Create(ctx, c); err != nil {
		return nil, err
	}
	fields["id"] = c.ID
	return c, nil
}

func (s *companyService) Get(ctx context.Context, id string) (*domain.Company, error) {
	return s.store.Companies().GetByID(ctx, id)
}

func (s *companyService) List(ctx context.Context, f domain.CompanyFilter) ([]*domain.Company, error) {
	all, err := s.store.Companies().List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Company, 0, len(all))
	for _, c := range all {
		if f.Matches(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *companyService) Update(ctx context.Context, id string, in domain.CompanyInput) (c *domain.Company, err error) {
	startedAt := time.Now().UTC()
	defer func() { observe(ctx, s.observer, "update-company", startedAt, map[string]any{"id": id}, err) }()

	if err = s.validate(in); err != nil {
		return nil, err
	}
	if c, err = s.store.Companies().GetByID(ctx, id); err != nil {
		return nil, err
	}
	c.Apply(in, startedAt)
	if err = s.store.Companies().Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *companyService) ToggleStatus(ctx context.Context, id string) (*domain.Company, error) {
	c, err := s.store.Companies().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.IsActive = !c.IsActive
	c.UpdatedAt = time.Now().UTC()
	if err := s.store.Companies().Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *companyService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"id": id}
	defer func() { observe(ctx, s.observer, "delete-company", startedAt, fields, err) }()

	return s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		if _, err := tx.Companies().GetByID(ctx, id); err != nil {
			return err
		}
		treatments, err := tx.Treatments().DeleteByCompany(ctx, id)
		if err != nil {
			return err
		}
		users, err := tx.Users().DeleteByCompany(ctx, id)
		if err != nil {
			return err
		}
		fields["treatments"] = treatments
		fields["users"] = users
		return tx.Companies().Delete(ctx, id)
	})
}

// DoctorInfo never fails: a missing company or empty profile fields fall
// back to the default practitioner block.
func (s *companyService) DoctorInfo(ctx context.Context, id string) domain.DoctorInfo {
	def := domain.DefaultDoctorInfo
	if id == "" {
		return def
	}
	c, err := s.store.Companies().GetByID(ctx, id)
	if err != nil {
		s.logger.Warn("using default doctor info", "company", id, "error", err)
		return def
	}

	info := domain.DoctorInfo{
		Name:           c.OwnerName,
		Specialty:      c.Specialty,
		Certifications: c.DoctorInfo().Certifications,
	}
	if info.Name == "" {
		info.Name = def.Name
	}
	if info.Specialty == "" {
		info.Specialty = def.Specialty
	}
	if len(info.Certifications) == 0 {
		info.Certifications = def.Certifications
	}
	info.Initials = domain.Initials(info.Name)
	return info
}

func (s *companyService) ImportantObservations(ctx context.Context, id string) string {
	if id == "" {
		return domain.DefaultImportantObservations
	}
	c, err := s.store.Companies().GetByID(ctx, id)
	if err != nil {
		s.logger.Warn("using default observations", "company", id, "error", err)
		return domain.DefaultImportantObservations
	}
	if strings.TrimSpace(c.ImportantObservations) == "" {
		return domain.DefaultImportantObservations
	}
	return c.ImportantObservations
}
