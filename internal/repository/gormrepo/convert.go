package gormrepo

import (
	"encoding/json"
	"fmt"

	"github.com/dentalmark/dentalmark/internal/domain"
	"gorm.io/datatypes"
)

// listToJSON converts a []string to datatypes.JSON for DB storage.
func listToJSON(v []string) datatypes.JSON {
	if len(v) == 0 {
		return datatypes.JSON("[]")
	}
	data, _ := json.Marshal(v)
	return datatypes.JSON(data)
}

func jsonToList(field string, raw datatypes.JSON) ([]string, error) {
	var out []string
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", field, err)
	}
	return out, nil
}

func companyFromDomain(c *domain.Company) Company {
	return Company{
		ID:                    c.ID,
		Name:                  c.Name,
		Description:           c.Description,
		Logo:                  c.Logo,
		Address:               c.Address,
		Phone:                 c.Phone,
		Email:                 c.Email,
		Website:               c.Website,
		OwnerName:             c.OwnerName,
		Specialty:             c.Specialty,
		Certifications:        listToJSON(c.Certifications),
		Licenses:              listToJSON(c.Licenses),
		AdditionalTraining:    listToJSON(c.AdditionalTraining),
		Recommendations:       listToJSON(c.Recommendations),
		ImportantObservations: c.ImportantObservations,
		IsActive:              c.IsActive,
		CreatedAt:             c.CreatedAt,
		UpdatedAt:             c.UpdatedAt,
	}
}

func (m Company) toDomain() (*domain.Company, error) {
	c := &domain.Company{
		ID:                    m.ID,
		Name:                  m.Name,
		Description:           m.Description,
		Logo:                  m.Logo,
		Address:               m.Address,
		Phone:                 m.Phone,
		Email:                 m.Email,
		Website:               m.Website,
		OwnerName:             m.OwnerName,
		Specialty:             m.Specialty,
		ImportantObservations: m.ImportantObservations,
		IsActive:              m.IsActive,
		CreatedAt:             m.CreatedAt.UTC(),
		UpdatedAt:             m.UpdatedAt.UTC(),
	}
	var err error
	if c.Certifications, err = jsonToList("certifications", m.Certifications); err != nil {
		return nil, err
	}
	if c.Licenses, err = jsonToList("licenses", m.Licenses); err != nil {
		return nil, err
	}
	if c.AdditionalTraining, err = jsonToList("additional_training", m.AdditionalTraining); err != nil {
		return nil, err
	}
	if c.Recommendations, err = jsonToList("recommendations", m.Recommendations); err != nil {
		return nil, err
	}
	return c, nil
}

func treatmentFromDomain(t *domain.Treatment) Treatment {
	return Treatment{
		ID:          t.ID,
		CompanyID:   t.CompanyID,
		Name:        t.Name,
		Color:       t.Color,
		BgClass:     t.BgClass,
		Cost:        t.Cost,
		Description: t.Description,
		IsActive:    t.IsActive,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (m Treatment) toDomain() *domain.Treatment {
	return &domain.Treatment{
		ID:          m.ID,
		CompanyID:   m.CompanyID,
		Name:        m.Name,
		Color:       m.Color,
		BgClass:     m.BgClass,
		Cost:        m.Cost,
		Description: m.Description,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

func userFromDomain(u *domain.User) User {
	m := User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
	if u.CompanyID != "" {
		id := u.CompanyID
		m.CompanyID = &id
	}
	return m
}

func (m User) toDomain() *domain.User {
	u := &domain.User{
		ID:        m.ID,
		Email:     m.Email,
		Name:      m.Name,
		Role:      domain.Role(m.Role),
		CreatedAt: m.CreatedAt.UTC(),
	}
	if m.CompanyID != nil {
		u.CompanyID = *m.CompanyID
	}
	return u
}
