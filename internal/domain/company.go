package domain

import (
	"strings"
	"time"
)

type Company struct {
	ID                    string
	Name                  string
	Description           string
	Logo                  string
	Address               string
	Phone                 string
	Email                 string
	Website               string
	OwnerName             string
	Specialty             string
	Certifications        []string
	Licenses              []string
	AdditionalTraining    []string
	Recommendations       []string
	ImportantObservations string
	IsActive              bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

type CompanyInput struct {
	Name                  string   `json:"name" validate:"notblank,max=120"`
	Description           string   `json:"description" validate:"max=1000"`
	Logo                  string   `json:"logo" validate:"omitempty,url"`
	Address               string   `json:"address" validate:"max=300"`
	Phone                 string   `json:"phone" validate:"max=40"`
	Email                 string   `json:"email" validate:"omitempty,email"`
	Website               string   `json:"website" validate:"omitempty,url"`
	OwnerName             string   `json:"ownerName" validate:"max=120"`
	Specialty             string   `json:"specialty" validate:"max=120"`
	Certifications        []string `json:"certifications" validate:"dive,required"`
	Licenses              []string `json:"licenses" validate:"dive,required"`
	AdditionalTraining    []string `json:"additionalTraining" validate:"dive,required"`
	Recommendations       []string `json:"recommendations" validate:"dive,required"`
	ImportantObservations string   `json:"importantObservations" validate:"max=2000"`
}

type CompanyFilter struct {
	Search   string
	IsActive *bool
}

func (f CompanyFilter) Matches(c *Company) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(c.Name), q) &&
			!strings.Contains(strings.ToLower(c.OwnerName), q) &&
			!strings.Contains(strings.ToLower(c.Email), q) {
			return false
		}
	}
	if f.IsActive != nil && c.IsActive != *f.IsActive {
		return false
	}
	return true
}

func (c *Company) Apply(in CompanyInput, now time.Time) {
	c.Name = strings.TrimSpace(in.Name)
	c.Description = in.Description
	c.Logo = in.Logo
	c.Address = in.Address
	c.Phone = in.Phone
	c.Email = in.Email
	c.Website = in.Website
	c.OwnerName = in.OwnerName
	c.Specialty = in.Specialty
	c.Certifications = in.Certifications
	c.Licenses = in.Licenses
	c.AdditionalTraining = in.AdditionalTraining
	c.Recommendations = in.Recommendations
	c.ImportantObservations = in.ImportantObservations
	c.UpdatedAt = now
}

// DoctorInfo is the practitioner block printed on a budget.
type DoctorInfo struct {
	Name           string
	Specialty      string
	Certifications []string
	Initials       string
}

// DefaultDoctorInfo is used when the company profile cannot be loaded.
var DefaultDoctorInfo = DoctorInfo{
	Name:      "Yomaira García Flores",
	Specialty: "Especialista en Odontopediatría",
	Certifications: []string{
		"Certificado por Colegio Mexicano de Odontología Pediátrica",
		"Cédula licenciatura UAEI 9834567 - Cédula especialidad UAT 10584298",
		"Formación en psicología infantil - C.E.T.A.P Puebla",
	},
	Initials: "YG",
}

// DefaultImportantObservations is printed when the company has none configured.
const DefaultImportantObservations = "Hay que considerar que entre más avance el tiempo el daño avanza y tanto el tratamiento como el presupuesto se pueden ver modificados."

// DoctorInfo builds the practitioner block from the company profile.
func (c *Company) DoctorInfo() DoctorInfo {
	name := c.OwnerName
	if name == "" {
		name = c.Name
	}
	certs := make([]string, 0, len(c.Certifications)+len(c.Licenses)+len(c.AdditionalTraining))
	certs = append(certs, c.Certifications...)
	certs = append(certs, c.Licenses...)
	certs = append(certs, c.AdditionalTraining...)
	return DoctorInfo{
		Name:           name,
		Specialty:      c.Specialty,
		Certifications: certs,
		Initials:       Initials(name),
	}
}

// Initials returns up to two uppercase initials of a person's name.
func Initials(name string) string {
	var out []rune
	for _, w := range strings.Fields(name) {
		r := []rune(w)
		out = append(out, []rune(strings.ToUpper(string(r[0])))...)
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}
