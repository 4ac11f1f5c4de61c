package formatter

import (
	"testing"

	"github.com/dentalmark/dentalmark/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatTreatmentList(t *testing.T) {
	out := stripANSI(FormatTreatmentList([]*domain.Treatment{
		{ID: "abcdef12-3456", Name: "Resina", Color: "#3b82f6", Cost: decimal.NewFromInt(650), IsActive: true},
		{ID: "12345678-9999", Name: "Corona", Color: "#ef4444", Cost: decimal.NewFromInt(1800)},
	}))
	assert.Contains(t, out, "TRATAMIENTOS")
	assert.Contains(t, out, "abcdef12")
	assert.NotContains(t, out, "abcdef12-3456")
	assert.Contains(t, out, "$650")
	assert.Contains(t, out, "● Activo")
	assert.Contains(t, out, "○ Inactivo")
}

func TestFormatCompany(t *testing.T) {
	c := &domain.Company{
		ID:              "c-1",
		Name:            "Sonrisas",
		Phone:           "555-0101",
		IsActive:        true,
		Recommendations: []string{"Cepillado tres veces al día"},
	}
	out := stripANSI(FormatCompany(c, domain.DoctorInfo{Name: "Laura Méndez", Specialty: "Ortodoncia", Initials: "LM"}))
	assert.Contains(t, out, "SONRISAS")
	assert.Contains(t, out, "555-0101")
	assert.Contains(t, out, "[LM] Laura Méndez")
	assert.Contains(t, out, "• Cepillado tres veces al día")
}

func TestFormatUserList(t *testing.T) {
	out := stripANSI(FormatUserList([]*domain.User{
		{ID: "u1", Email: "laura@clinica.mx", Role: domain.RoleAdmin, CompanyID: "c-1"},
		{ID: "u2", Email: "pedro@clinica.mx", Name: "Pedro", Role: domain.RoleUser},
	}, map[string]string{"c-1": "Sonrisas"}))
	assert.Contains(t, out, "laura")
	assert.Contains(t, out, "Sonrisas")
	assert.Contains(t, out, "Pedro")
	assert.Contains(t, out, "admin")
}
