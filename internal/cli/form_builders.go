package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/dentalmark/dentalmark/internal/cli/formatter"
	"github.com/shopspring/decimal"
)

func dentalmarkHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Swatches offered by the treatment form.
var treatmentColors = []string{
	"#ef4444", "#f97316", "#eab308", "#22c55e",
	"#3b82f6", "#8b5cf6", "#ec4899", "#6b7280",
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

func validateHexColor(s string) error {
	if !hexColor.MatchString(s) {
		return fmt.Errorf("enter a color like #ef4444")
	}
	return nil
}

func validateCost(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return fmt.Errorf("enter a non-negative amount")
	}
	return nil
}

// treatmentFields backs the interactive treatment form.
type treatmentFields struct {
	name        string
	color       string
	cost        string
	description string
}

// treatmentForm asks for whatever the flags left empty.
func treatmentForm(f *treatmentFields) *huh.Form {
	options := make([]huh.Option[string], 0, len(treatmentColors))
	for _, c := range treatmentColors {
		options = append(options, huh.NewOption(formatter.Swatch(c)+" "+c, c))
	}
	if f.color == "" {
		f.color = treatmentColors[0]
	}
	if f.cost == "" {
		f.cost = "0"
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Nombre del tratamiento").
				Value(&f.name).
				Validate(validateRequired),
			huh.NewSelect[string]().
				Title("Color").
				Options(options...).
				Value(&f.color),
			huh.NewInput().
				Title("Costo").
				Placeholder("0").
				Value(&f.cost).
				Validate(validateCost),
			huh.NewText().
				Title("Descripción (opcional)").
				Value(&f.description),
		),
	).WithTheme(dentalmarkHuhTheme()).WithShowHelp(false)
}
