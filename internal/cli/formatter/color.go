package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Clinic palette: teal accents on a warm neutral foreground.
var (
	ColorGreen  = lipgloss.Color("#2dd4bf")
	ColorYellow = lipgloss.Color("#fbbf24")
	ColorRed    = lipgloss.Color("#f87171")
	ColorDim    = lipgloss.Color("#9ca3af")
	ColorFg     = lipgloss.Color("#f5f5f4")
	ColorHeader = lipgloss.Color("#0ea5e9")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
)

// Swatch renders a dot in a treatment color token such as "#ef4444".
// Tokens that are not short or long hex render as a dim dot.
func Swatch(token string) string {
	if !strings.HasPrefix(token, "#") || (len(token) != 4 && len(token) != 7) {
		return StyleDim.Render("●")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(token)).Render("●")
}

// Header renders an uppercase section title over a rule of the same width.
func Header(text string) string {
	title := strings.ToUpper(text)
	rule := strings.Repeat("─", lipgloss.Width(title))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(title), StyleDim.Render(rule))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleFg.Bold(true).Render(text)
}
