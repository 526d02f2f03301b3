package tui

import (
	"strconv"
	"strings"

	"github.com/theirongolddev/purse/internal/cli"
	"github.com/theirongolddev/purse/internal/model"
	"github.com/theirongolddev/purse/internal/tui/components"
	"github.com/theirongolddev/purse/internal/tui/theme"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

const (
	colPos   = 4
	colPrice = 12
	colDate  = 10
	colTime  = 5
	colDay   = 9
)

func newHistoryTable() table.Model {
	t := table.New(
		table.WithColumns(historyColumns(60)),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	th := theme.Active
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(th.Border).
		BorderBottom(true).
		Foreground(th.Accent).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(th.TextPrimary).
		Background(th.SurfaceHover).
		Bold(false)
	t.SetStyles(s)
	return t
}

func historyColumns(width int) []table.Column {
	// Each column carries one cell of padding on both sides.
	fixed := colPos + colPrice + colDate + colTime + colDay + 6*2
	item := width - fixed
	if item < 10 {
		item = 10
	}
	return []table.Column{
		{Title: "#", Width: colPos},
		{Title: "Item", Width: item},
		{Title: "Price", Width: colPrice},
		{Title: "Date", Width: colDate},
		{Title: "Time", Width: colTime},
		{Title: "Day", Width: colDay},
	}
}

func historyRows(rows []model.Row) []table.Row {
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		p := r.Purchase
		out[i] = table.Row{
			strconv.Itoa(r.Position),
			p.Name,
			padLeft(formatMoney(p.Price), colPrice),
			p.DateText(),
			p.Time,
			cli.FormatDayOfWeek(p.Date),
		}
	}
	return out
}

func (a *App) resizeTable() {
	w := a.contentWidth()
	a.table.SetColumns(historyColumns(w))
	a.table.SetWidth(w)

	h := a.height - chromeHeight
	if h < 3 {
		h = 3
	}
	a.table.SetHeight(h)
}

func (a App) renderHistoryTab(w int) string {
	t := theme.Active
	s := a.snap

	metrics := []components.Metric{
		{
			Label: "Spent today",
			Value: formatMoney(s.SpentToday),
			Note:  "limit " + formatMoney(s.DailyLimit),
		},
		{
			Label: "Remaining today",
			Value: formatMoney(s.RemainingDaily),
			Color: remainingColor(s.RemainingDaily),
		},
		{
			Label: "Remaining budget",
			Value: formatMoney(s.RemainingMonthly),
			Note:  "of " + formatMoney(s.MonthlyBudget),
			Color: remainingColor(s.RemainingMonthly),
		},
		{
			Label: "Purchases",
			Value: strconv.Itoa(len(s.Rows)),
		},
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(metrics, w))
	b.WriteString("\n")

	barW := w - 24
	if barW < 10 {
		barW = 10
	}
	b.WriteString(" " + components.BudgetBar("Today", cli.Share(s.SpentToday, s.DailyLimit), 8, barW))
	b.WriteString("\n")
	b.WriteString(" " + components.BudgetBar("Budget", cli.Share(s.MonthlyBudget.Sub(s.RemainingMonthly), s.MonthlyBudget), 8, barW))
	b.WriteString("\n\n")

	if len(s.Rows) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Render("  No purchases yet. Press [a] to add one."))
		return b.String()
	}
	b.WriteString(a.table.View())
	return b.String()
}

func remainingColor(d decimal.Decimal) lipgloss.Color {
	if d.IsNegative() {
		return theme.Active.Red
	}
	return theme.Active.Green
}

func formatMoney(d decimal.Decimal) string {
	return cli.FormatMoney(d)
}

func padLeft(s string, w int) string {
	if n := lipgloss.Width(s); n < w {
		return strings.Repeat(" ", w-n) + s
	}
	return s
}

func padRight(s string, w int) string {
	if n := lipgloss.Width(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}
