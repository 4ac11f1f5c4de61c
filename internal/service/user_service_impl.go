package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dentalmark/dentalmark/internal/domain"
	"github.com/dentalmark/dentalmark/internal/repository"
	"github.com/google/uuid"
)

type userService struct {
	store     repository.Store
	validator Validator
	observer  UseCaseObserver
}

func NewUserService(store repository.Store, v Validator, observers ...UseCaseObserver) UserService {
	return &userService{
		store:     store,
		validator: v,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *userService) Add(ctx context.Context, in domain.UserInput) (u *domain.User, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"role": in.Role}
	defer func() { observe(ctx, s.observer, "add-user", startedAt, fields, err) }()

	if s.validator != nil {
		if err = s.validator.Struct(in); err != nil {
			return nil, err
		}
	}
	if in.CompanyID != "" {
		if _, err = s.store.Companies().GetByID(ctx, in.CompanyID); err != nil {
			return nil, fmt.Errorf("adding user: %w", err)
		}
	}
	u = &domain.User{
		ID:        uuid.New().String(),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Name:      strings.TrimSpace(in.Name),
		Role:      domain.Role(in.Role),
		CompanyID: in.CompanyID,
		CreatedAt: startedAt,
	}
	if err = s.store.Users().Create(ctx, u); err != nil {
		return nil, err
	}
	fields["id"] = u.ID
	return u, nil
}

func (s *userService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.store.Users().GetByID(ctx, id)
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.store.Users().GetByEmail(ctx, strings.TrimSpace(email))
}

func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	return s.store.Users().List(ctx)
}

func (s *userService) ListByCompany(ctx context.Context, companyID string) ([]*domain.User, error) {
	return s.store.Users().ListByCompany(ctx, companyID)
}

func (s *userService) SetRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	if !domain.ValidRoles[string(role)] {
		return nil, &domain.ValidationError{Fields: []domain.FieldError{
			{Field: "role", Message: fmt.Sprintf("rol desconocido %q", role)},
		}}
	}
	u, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Role = role
	if err := s.store.Users().Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Assign attaches the user to companyID. An empty companyID detaches it.
func (s *userService) Assign(ctx context.Context, userID, companyID string) (*domain.User, error) {
	var u *domain.User
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		if companyID != "" {
			if _, err := tx.Companies().GetByID(ctx, companyID); err != nil {
				return err
			}
		}
		var err error
		if u, err = tx.Users().GetByID(ctx, userID); err != nil {
			return err
		}
		u.CompanyID = companyID
		return tx.Users().Update(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	return s.store.Users().Delete(ctx, id)
}

// RequireManager returns domain.ErrForbidden unless u may change catalog
// and company data. A nil user means no acting identity was given.
func RequireManager(u *domain.User) error {
	if u == nil {
		return nil
	}
	if !u.CanManage() {
		return fmt.Errorf("%s: %w", u.Email, domain.ErrForbidden)
	}
	return nil
}
