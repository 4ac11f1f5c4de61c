package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dentalmark/dentalmark/internal/domain"
	"github.com/dentalmark/dentalmark/internal/repository"
	"github.com/google/uuid"
)

type treatmentService struct {
	store     repository.Store
	validator Validator
	observer  UseCaseObserver
}

func NewTreatmentService(store repository.Store, v Validator, observers ...UseCaseObserver) TreatmentService {
	return &treatmentService{
		store:     store,
		validator: v,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *treatmentService) validate(in domain.TreatmentInput) error {
	if s.validator == nil {
		return nil
	}
	return s.validator.Struct(in)
}

func (s *treatmentService) Add(ctx context.Context, companyID string, in domain.TreatmentInput) (t *domain.Treatment, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"company": companyID, "name": in.Name}
	defer func() { observe(ctx, s.observer, "add-treatment", startedAt, fields, err) }()

	if err = s.validate(in); err != nil {
		return nil, err
	}
	if _, err = s.store.Companies().GetByID(ctx, companyID); err != nil {
		return nil, fmt.Errorf("adding treatment: %w", err)
	}

	t = &domain.Treatment{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		IsActive:  true,
		CreatedAt: startedAt,
	}
	t.Apply(in, startedAt)
	if err = s.store.Treatments().Create(ctx, t); err != nil {
		return nil, err
	}
	fields["id"] = t.ID
	return t, nil
}

func (s *treatmentService) Get(ctx context.Context, id string) (*domain.Treatment, error) {
	return s.store.Treatments().GetByID(ctx, id)
}

func (s *treatmentService) GetByName(ctx context.Context, companyID, name string) (*domain.Treatment, error) {
	return s.store.Treatments().GetByName(ctx, companyID, name)
}

func (s *treatmentService) Update(ctx context.Context, id string, in domain.TreatmentInput) (t *domain.Treatment, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"id": id}
	defer func() { observe(ctx, s.observer, "update-treatment", startedAt, fields, err) }()

	if err = s.validate(in); err != nil {
		return nil, err
	}
	if t, err = s.store.Treatments().GetByID(ctx, id); err != nil {
		return nil, err
	}
	t.Apply(in, startedAt)
	if err = s.store.Treatments().Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *treatmentService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	defer func() { observe(ctx, s.observer, "delete-treatment", startedAt, map[string]any{"id": id}, err) }()
	return s.store.Treatments().Delete(ctx, id)
}

func (s *treatmentService) ToggleStatus(ctx context.Context, id string) (*domain.Treatment, error) {
	t, err := s.store.Treatments().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.IsActive = !t.IsActive
	t.UpdatedAt = time.Now().UTC()
	if err := s.store.Treatments().Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *treatmentService) List(ctx context.Context, companyID string, f domain.TreatmentFilter) ([]*domain.Treatment, error) {
	all, err := s.store.Treatments().ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Treatment, 0, len(all))
	for _, t := range all {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *treatmentService) ListActive(ctx context.Context, companyID string) ([]*domain.Treatment, error) {
	active := true
	return s.List(ctx, companyID, domain.TreatmentFilter{IsActive: &active})
}

func (s *treatmentService) Catalog(ctx context.Context, companyID string) (*Catalog, error) {
	ts, err := s.store.Treatments().ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return NewCatalog(ts), nil
}
