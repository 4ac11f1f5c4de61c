package formatter

import (
	"fmt"
	"strings"

	"github.com/dentalmark/dentalmark/internal/domain"
	"github.com/shopspring/decimal"
)

// BudgetView is everything printed on a patient budget.
type BudgetView struct {
	Patient      domain.Patient
	Doctor       domain.DoctorInfo
	Summary      domain.Summary
	Images       int
	Observations string
}

// FormatBudgetLines renders the per-treatment table with the grand total.
func FormatBudgetLines(s domain.Summary) string {
	if len(s.Lines) == 0 {
		return Dim("Sin tratamientos marcados.")
	}
	t := Table{
		Headers: []string{"TRATAMIENTO", "CANT.", "COSTO UNIT.", "TOTAL"},
		Align:   []Align{AlignLeft, AlignRight, AlignRight, AlignRight},
	}
	for _, l := range s.Lines {
		t.Rows = append(t.Rows, []string{
			l.TreatmentName,
			fmt.Sprintf("%d", l.Count),
			Money(l.UnitCost),
			Money(l.LineTotal),
		})
	}
	return t.Render() + fmt.Sprintf("\n%s %s", Bold("Total:"), StyleGreen.Bold(true).Render(Money(s.GrandTotal)))
}

// FormatSessionPlan renders the payment split. suggested is shown next to
// the effective count when they differ.
func FormatSessionPlan(total decimal.Decimal, suggested int, plan domain.SessionPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", Dim("Total:"), Money(total))
	count := fmt.Sprintf("%d %s", plan.SessionCount, Plural(plan.SessionCount, "sesión", "sesiones"))
	if plan.SessionCount != suggested {
		count += Dim(fmt.Sprintf(" (sugerido: %d)", suggested))
	}
	fmt.Fprintf(&b, "%s %s\n", Dim("Sesiones:"), count)
	fmt.Fprintf(&b, "%s %s", Dim("Por sesión:"), Bold(MoneyCents(plan.AmountPerSession)))
	return b.String()
}

// FormatBudget renders the full patient budget.
func FormatBudget(v BudgetView) string {
	var b strings.Builder

	b.WriteString(FormatDoctor(v.Doctor))
	b.WriteString("\n\n")

	b.WriteString(Header("Paciente"))
	b.WriteString("\n")
	patient := [][2]string{{"Nombre", orDash(v.Patient.Name)}}
	if v.Patient.Age != "" {
		patient = append(patient, [2]string{"Edad", v.Patient.Age + " años"})
	}
	if v.Patient.Date != "" {
		patient = append(patient, [2]string{"Fecha", v.Patient.Date})
	}
	if v.Patient.Notes != "" {
		patient = append(patient, [2]string{"Notas", v.Patient.Notes})
	}
	b.WriteString(card(patient))
	b.WriteString("\n")

	b.WriteString(Header("Tratamientos"))
	b.WriteString("\n")
	b.WriteString(FormatBudgetLines(v.Summary))
	fmt.Fprintf(&b, "\n%s\n\n", Dim(fmt.Sprintf("%d %s en %d %s",
		v.Summary.MarkerCount(), Plural(v.Summary.MarkerCount(), "marca", "marcas"),
		v.Images, Plural(v.Images, "imagen", "imágenes"))))

	b.WriteString(Header("Plan de pagos"))
	b.WriteString("\n")
	b.WriteString(FormatSessionPlan(v.Summary.GrandTotal, v.Summary.Suggested, v.Summary.Plan))

	if v.Observations != "" {
		b.WriteString("\n\n")
		b.WriteString(Header("Observaciones importantes"))
		b.WriteString("\n")
		b.WriteString(StyleYellow.Render(v.Observations))
	}
	return RenderBox("Presupuesto", b.String())
}
