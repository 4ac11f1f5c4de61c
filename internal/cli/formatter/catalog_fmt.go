package formatter

import (
	"fmt"
	"strings"

	"github.com/dentalmark/dentalmark/internal/domain"
)

// FormatTreatmentList renders the catalog inside a bordered box.
func FormatTreatmentList(ts []*domain.Treatment) string {
	t := Table{
		Headers: []string{"ID", "", "TRATAMIENTO", "COSTO", "ESTADO"},
		Align:   []Align{AlignLeft, AlignLeft, AlignLeft, AlignRight},
	}
	for _, tr := range ts {
		t.Rows = append(t.Rows, []string{
			TruncID(tr.ID),
			Swatch(tr.Color),
			Bold(tr.Name),
			Money(tr.Cost),
			ActivePill(tr.IsActive),
		})
	}
	return RenderBox("Tratamientos", t.Render())
}

// FormatTreatment renders one treatment as a label/value card.
func FormatTreatment(tr *domain.Treatment) string {
	rows := [][2]string{
		{"ID", tr.ID},
		{"Nombre", tr.Name},
		{"Color", Swatch(tr.Color) + " " + tr.Color},
		{"Costo", Money(tr.Cost)},
		{"Descripción", orDash(tr.Description)},
		{"Estado", ActivePill(tr.IsActive)},
	}
	return RenderBox(tr.Name, card(rows))
}

func FormatCompanyList(cs []*domain.Company) string {
	t := Table{Headers: []string{"ID", "CLÍNICA", "RESPONSABLE", "CONTACTO", "ESTADO"}}
	for _, c := range cs {
		contact := c.Email
		if contact == "" {
			contact = c.Phone
		}
		t.Rows = append(t.Rows, []string{
			TruncID(c.ID),
			Bold(c.Name),
			orDash(c.OwnerName),
			orDash(contact),
			ActivePill(c.IsActive),
		})
	}
	return RenderBox("Clínicas", t.Render())
}

// FormatCompany renders the company profile, including the practitioner
// block printed on budgets.
func FormatCompany(c *domain.Company, doctor domain.DoctorInfo) string {
	rows := [][2]string{
		{"ID", c.ID},
		{"Dirección", orDash(c.Address)},
		{"Teléfono", orDash(c.Phone)},
		{"Correo", orDash(c.Email)},
		{"Sitio web", orDash(c.Website)},
		{"Estado", ActivePill(c.IsActive)},
		{"Alta", HumanDate(c.CreatedAt)},
	}
	var b strings.Builder
	b.WriteString(card(rows))
	b.WriteString("\n")
	b.WriteString(FormatDoctor(doctor))
	if len(c.Recommendations) > 0 {
		b.WriteString("\n\n")
		b.WriteString(Header("Recomendaciones"))
		b.WriteString("\n")
		b.WriteString(bullets(c.Recommendations))
	}
	return RenderBox(c.Name, b.String())
}

// FormatDoctor renders the practitioner block.
func FormatDoctor(d domain.DoctorInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", StyleHeader.Render("["+d.Initials+"]"), Bold(d.Name))
	b.WriteString(StyleFg.Render(d.Specialty))
	if len(d.Certifications) > 0 {
		b.WriteString("\n")
		b.WriteString(bullets(d.Certifications))
	}
	return strings.TrimRight(b.String(), "\n")
}

func FormatUserList(us []*domain.User, companies map[string]string) string {
	t := Table{Headers: []string{"ID", "CORREO", "NOMBRE", "ROL", "CLÍNICA"}}
	for _, u := range us {
		role := StyleDim.Render(string(u.Role))
		if u.CanManage() {
			role = StyleYellow.Render(string(u.Role))
		}
		company := companies[u.CompanyID]
		if company == "" && u.CompanyID != "" {
			company = TruncID(u.CompanyID)
		}
		t.Rows = append(t.Rows, []string{
			TruncID(u.ID),
			u.Email,
			u.DisplayName(),
			role,
			orDash(company),
		})
	}
	return RenderBox("Usuarios", t.Render())
}

func card(rows [][2]string) string {
	width := 0
	for _, r := range rows {
		width = max(width, len([]rune(r[0])))
	}
	var b strings.Builder
	for _, r := range rows {
		label := r[0] + strings.Repeat(" ", width-len([]rune(r[0])))
		fmt.Fprintf(&b, "%s  %s\n", Dim(label), r[1])
	}
	return b.String()
}

func bullets(items []string) string {
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, "  %s %s\n", Dim("•"), it)
	}
	return b.String()
}
