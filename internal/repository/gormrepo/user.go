package gormrepo

import (
	"context"

	"github.com/dentalmark/dentalmark/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepo implements repository.UserRepo.
type UserRepo struct {
	db *gorm.DB
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	m := userFromDomain(u)
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error
	return translate(err, "inserting user")
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var m User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err, "user")
	}
	return m.toDomain(), nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m User
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&m).Error; err != nil {
		return nil, translate(err, "user")
	}
	return m.toDomain(), nil
}

func (r *UserRepo) List(ctx context.Context) ([]*domain.User, error) {
	return r.find(r.db.WithContext(ctx))
}

func (r *UserRepo) ListByCompany(ctx context.Context, companyID string) ([]*domain.User, error) {
	return r.find(r.db.WithContext(ctx).Where("company_id = ?", companyID))
}

func (r *UserRepo) find(q *gorm.DB) ([]*domain.User, error) {
	var rows []User
	if err := q.Order("email").Find(&rows).Error; err != nil {
		return nil, translate(err, "listing users")
	}
	out := make([]*domain.User, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	m := userFromDomain(u)
	res := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", u.ID).Updates(map[string]interface{}{
		"email":      m.Email,
		"name":       m.Name,
		"role":       m.Role,
		"company_id": m.CompanyID,
	})
	return affected(res, "user")
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&User{})
	return affected(res, "user")
}

func (r *UserRepo) DeleteByCompany(ctx context.Context, companyID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("company_id = ?", companyID).Delete(&User{})
	if res.Error != nil {
		return 0, translate(res.Error, "deleting company users")
	}
	return res.RowsAffected, nil
}
