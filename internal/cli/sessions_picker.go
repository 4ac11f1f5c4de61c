package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dentalmark/dentalmark/internal/budget"
	"github.com/dentalmark/dentalmark/internal/cli/formatter"
	"github.com/dentalmark/dentalmark/internal/domain"
	"github.com/shopspring/decimal"
)

// sessionsModel lets the user keep the suggested session count or type a
// custom one, previewing the per-session amount as they type.
type sessionsModel struct {
	total     decimal.Decimal
	suggested int
	custom    bool
	input     textinput.Model

	plan      domain.SessionPlan
	err       error
	confirmed bool
	quitting  bool
}

func newSessionsModel(total decimal.Decimal) sessionsModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "número de sesiones"
	ti.CharLimit = 3
	ti.Width = 20

	suggested := budget.SuggestSessions(total)
	plan, _ := budget.PlanSessions(total, suggested)
	return sessionsModel{
		total:     total,
		suggested: suggested,
		input:     ti,
		plan:      plan,
	}
}

func (m sessionsModel) Init() tea.Cmd {
	return textinput.Blink
}

// count returns the session count currently chosen.
func (m sessionsModel) count() (int, error) {
	if !m.custom {
		return m.suggested, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(m.input.Value()))
	if err != nil || n < 1 {
		return 0, domain.ErrInvalidSessionCount
	}
	return n, nil
}

func (m sessionsModel) refresh() sessionsModel {
	n, err := m.count()
	m.err = err
	if err == nil {
		m.plan, m.err = budget.PlanSessions(m.total, n)
	}
	return m
}

func (m sessionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyTab, tea.KeyUp, tea.KeyDown:
		m.custom = !m.custom
		if m.custom {
			m.input.Focus()
		} else {
			m.input.Blur()
		}
		return m.refresh(), nil
	case tea.KeyEnter:
		m = m.refresh()
		if m.err != nil {
			return m, nil
		}
		m.confirmed = true
		return m, tea.Quit
	}

	if !m.custom {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m.refresh(), cmd
}

func (m sessionsModel) View() string {
	if m.quitting || m.confirmed {
		return ""
	}
	radio := func(on bool) string {
		if on {
			return formatter.StyleHeader.Render("(•)")
		}
		return formatter.Dim("( )")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", formatter.Dim("Total:"), formatter.Bold(formatter.Money(m.total)))
	fmt.Fprintf(&b, "%s Sugerido: %d %s\n", radio(!m.custom), m.suggested,
		formatter.Plural(m.suggested, "sesión", "sesiones"))
	fmt.Fprintf(&b, "%s Personalizado: %s\n\n", radio(m.custom), m.input.View())
	if m.err != nil {
		b.WriteString(formatter.StyleRed.Render("Ingresa un número de sesiones mayor a 0"))
	} else {
		fmt.Fprintf(&b, "%s %s", formatter.Dim("Por sesión:"), formatter.Bold(formatter.MoneyCents(m.plan.AmountPerSession)))
	}
	b.WriteString("\n\n")
	b.WriteString(formatter.Dim("tab cambiar · enter confirmar · esc cancelar"))
	return b.String()
}

// runSessionsPicker runs the picker on the given terminal streams. ok is
// false when the user cancelled.
func runSessionsPicker(total decimal.Decimal, in io.Reader, out io.Writer) (domain.SessionPlan, bool, error) {
	final, err := tea.NewProgram(newSessionsModel(total), tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		return domain.SessionPlan{}, false, err
	}
	m := final.(sessionsModel)
	return m.plan, m.confirmed, nil
}
