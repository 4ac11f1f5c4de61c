package gormrepo

import (
	"context"

	"github.com/dentalmark/dentalmark/internal/domain"
	"gorm.io/gorm"
)

// CompanyRepo implements repository.CompanyRepo.
type CompanyRepo struct {
	db *gorm.DB
}

func (r *CompanyRepo) Create(ctx context.Context, c *domain.Company) error {
	m := companyFromDomain(c)
	return translate(r.db.WithContext(ctx).Create(&m).Error, "inserting company")
}

func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	var m Company
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err, "company")
	}
	return m.toDomain()
}

func (r *CompanyRepo) List(ctx context.Context) ([]*domain.Company, error) {
	var rows []Company
	if err := r.db.WithContext(ctx).Order("name").Order("id").Find(&rows).Error; err != nil {
		return nil, translate(err, "listing companies")
	}
	out := make([]*domain.Company, 0, len(rows))
	for _, m := range rows {
		c, err := m.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *CompanyRepo) Update(ctx context.Context, c *domain.Company) error {
	m := companyFromDomain(c)
	res := r.db.WithContext(ctx).Model(&Company{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"name":                   m.Name,
		"description":            m.Description,
		"logo":                   m.Logo,
		"address":                m.Address,
		"phone":                  m.Phone,
		"email":                  m.Email,
		"website":                m.Website,
		"owner_name":             m.OwnerName,
		"specialty":              m.Specialty,
		"certifications":         m.Certifications,
		"licenses":               m.Licenses,
		"additional_training":    m.AdditionalTraining,
		"recommendations":        m.Recommendations,
		"important_observations": m.ImportantObservations,
		"is_active":              m.IsActive,
		"updated_at":             m.UpdatedAt,
	})
	return affected(res, "company")
}

func (r *CompanyRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Company{})
	return affected(res, "company")
}
