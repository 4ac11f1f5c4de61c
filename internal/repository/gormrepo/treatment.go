package gormrepo

import (
	"context"

	"github.com/dentalmark/dentalmark/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TreatmentRepo implements repository.TreatmentRepo.
type TreatmentRepo struct {
	db *gorm.DB
}

func (r *TreatmentRepo) Create(ctx context.Context, t *domain.Treatment) error {
	m := treatmentFromDomain(t)
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error
	return translate(err, "inserting treatment")
}

func (r *TreatmentRepo) GetByID(ctx context.Context, id string) (*domain.Treatment, error) {
	var m Treatment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err, "treatment")
	}
	return m.toDomain(), nil
}

func (r *TreatmentRepo) GetByName(ctx context.Context, companyID, name string) (*domain.Treatment, error) {
	var m Treatment
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND name = ?", companyID, name).
		First(&m).Error
	if err != nil {
		return nil, translate(err, "treatment")
	}
	return m.toDomain(), nil
}

func (r *TreatmentRepo) ListByCompany(ctx context.Context, companyID string) ([]*domain.Treatment, error) {
	var rows []Treatment
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name").Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, translate(err, "listing treatments")
	}
	out := make([]*domain.Treatment, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (r *TreatmentRepo) Update(ctx context.Context, t *domain.Treatment) error {
	res := r.db.WithContext(ctx).Model(&Treatment{}).Where("id = ?", t.ID).Updates(map[string]interface{}{
		"name":        t.Name,
		"color":       t.Color,
		"bg_class":    t.BgClass,
		"cost":        t.Cost,
		"description": t.Description,
		"is_active":   t.IsActive,
		"updated_at":  t.UpdatedAt,
	})
	return affected(res, "treatment")
}

func (r *TreatmentRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Treatment{})
	return affected(res, "treatment")
}

func (r *TreatmentRepo) DeleteByCompany(ctx context.Context, companyID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("company_id = ?", companyID).Delete(&Treatment{})
	if res.Error != nil {
		return 0, translate(res.Error, "deleting company treatments")
	}
	return res.RowsAffected, nil
}
