package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Align selects how a column's cells are padded.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Table is an aligned plain-text table. Widths are measured on the visible
// text, so styled cells line up.
type Table struct {
	Headers []string
	Rows    [][]string
	// Align is indexed by column; missing entries align left.
	Align []Align
}

const colGap = 2

func (t Table) align(col int) Align {
	if col < len(t.Align) {
		return t.Align[col]
	}
	return AlignLeft
}

func (t Table) widths() []int {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i := 0; i < len(widths) && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func (t Table) writeRow(b *strings.Builder, cells []string, widths []int, style func(string) string) {
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		pad := max(w-lipgloss.Width(cell), 0)
		if style != nil {
			cell = style(cell)
		}
		last := i == len(widths)-1
		switch {
		case t.align(i) == AlignRight:
			b.WriteString(strings.Repeat(" ", pad))
			b.WriteString(cell)
		case last:
			b.WriteString(cell)
		default:
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", pad))
		}
		if !last {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")
}

// Render draws the header row, a separator line and the data rows.
func (t Table) Render() string {
	if len(t.Headers) == 0 {
		return ""
	}
	widths := t.widths()

	var b strings.Builder
	t.writeRow(&b, t.Headers, widths, func(s string) string { return StyleHeader.Render(s) })
	for i, w := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
		if i < len(widths)-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")
	for _, row := range t.Rows {
		t.writeRow(&b, row, widths, nil)
	}
	return b.String()
}

// RenderTable renders a left-aligned table.
func RenderTable(headers []string, rows [][]string) string {
	return Table{Headers: headers, Rows: rows}.Render()
}
