package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Flexoki Dark.
var (
	ColorRule   = lipgloss.Color("#575653")
	ColorMuted  = lipgloss.Color("#6F6E69")
	ColorText   = lipgloss.Color("#FFFCF0")
	ColorAccent = lipgloss.Color("#3AA99F")
	ColorGreen  = lipgloss.Color("#879A39")
	ColorOrange = lipgloss.Color("#DA702C")
	ColorRed    = lipgloss.Color("#D14D41")
)

var (
	ruleStyle   = lipgloss.NewStyle().Foreground(ColorRule)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	cellStyle   = lipgloss.NewStyle().Foreground(ColorText)
	footerStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorText)
	mutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)

	underStyle = lipgloss.NewStyle().Foreground(ColorGreen)
	nearStyle  = lipgloss.NewStyle().Foreground(ColorOrange)
	overStyle  = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
)

// Table is a bordered text table for CLI output.
type Table struct {
	Headers []string
	Rows    [][]string
	// Footer is an optional totals row drawn below a rule.
	Footer []string
	// LeftAlign lists the columns padded on the right. Nil means only
	// the first column; every other column is right-aligned.
	LeftAlign []int
}

func (t Table) leftAligned(col int) bool {
	if t.LeftAlign == nil {
		return col == 0
	}
	for _, c := range t.LeftAlign {
		if c == col {
			return true
		}
	}
	return false
}

// widths measures every column in terminal cells.
func (t Table) widths() []int {
	n := max(len(t.Headers), len(t.Footer))
	for _, row := range t.Rows {
		n = max(n, len(row))
	}
	w := make([]int, n)
	grow := func(row []string) {
		for i, cell := range row {
			w[i] = max(w[i], lipgloss.Width(cell))
		}
	}
	grow(t.Headers)
	for _, row := range t.Rows {
		grow(row)
	}
	grow(t.Footer)
	return w
}

// RenderTitle renders a centered title in a rounded box.
func RenderTitle(title string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorRule).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(lipgloss.NewStyle().Bold(true).Foreground(ColorText).Render(title))
}

// RenderTable renders t with rounded borders. It returns "" for a table
// with neither headers nor rows.
func RenderTable(t Table) string {
	if len(t.Headers) == 0 && len(t.Rows) == 0 {
		return ""
	}
	widths := t.widths()

	var b strings.Builder
	rule := func(left, mid, right string) {
		b.WriteString(ruleStyle.Render(left))
		for i, w := range widths {
			if i > 0 {
				b.WriteString(ruleStyle.Render(mid))
			}
			b.WriteString(ruleStyle.Render(strings.Repeat("─", w+2)))
		}
		b.WriteString(ruleStyle.Render(right))
		b.WriteByte('\n')
	}
	line := func(row []string, style lipgloss.Style, aligned bool) {
		b.WriteString(ruleStyle.Render("│"))
		for i, w := range widths {
			if i > 0 {
				b.WriteString(ruleStyle.Render("│"))
			}
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(style.Render(" " + pad(cell, w, !aligned || t.leftAligned(i)) + " "))
		}
		b.WriteString(ruleStyle.Render("│"))
		b.WriteByte('\n')
	}

	rule("╭", "┬", "╮")
	if len(t.Headers) > 0 {
		line(t.Headers, headerStyle, false)
		rule("├", "┼", "┤")
	}
	for _, row := range t.Rows {
		line(row, cellStyle, true)
	}
	if len(t.Footer) > 0 {
		rule("├", "┼", "┤")
		line(t.Footer, footerStyle, true)
	}
	rule("╰", "┴", "╯")
	return b.String()
}

// pad fills s with spaces to width cells, on the right when left is set.
func pad(s string, width int, left bool) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	if left {
		return s + strings.Repeat(" ", gap)
	}
	return strings.Repeat(" ", gap) + s
}

// RenderBudgetBar renders how much of limit is spent, colored by headroom.
func RenderBudgetBar(spent, limit decimal.Decimal, width int) string {
	if width <= 0 || !limit.IsPositive() {
		return ""
	}

	pct := max(Share(spent, limit), 0)
	filled := min(int(pct*float64(width)), width)

	style := underStyle
	switch {
	case pct > 1:
		style = overStyle
	case pct >= 0.8:
		style = nearStyle
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s", style.Render(bar), mutedStyle.Render(FormatPercent(pct)))
}

// RenderRemaining renders an amount left, red when overspent.
func RenderRemaining(d decimal.Decimal) string {
	if d.IsNegative() {
		return overStyle.Render(FormatMoney(d))
	}
	return underStyle.Render(FormatMoney(d))
}

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// RenderSparkline scales values against the largest one, one block per value.
// Negative values draw as the lowest block.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	peak := 0.0
	for _, v := range values {
		peak = max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	top := len(sparkBlocks) - 1
	out := make([]rune, len(values))
	for i, v := range values {
		out[i] = sparkBlocks[min(max(int(v/peak*float64(top)), 0), top)]
	}
	return string(out)
}
