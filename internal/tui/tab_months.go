package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/purse/internal/cli"
	"github.com/theirongolddev/purse/internal/tui/components"
	"github.com/theirongolddev/purse/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderMonthsTab(w int) string {
	t := theme.Active

	if len(a.months) == 0 {
		return components.ContentCard("Spending by month",
			lipgloss.NewStyle().Foreground(t.TextDim).Render("No dated purchases yet."), w)
	}

	amountStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	countStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	barW := w - 44
	if barW < 10 {
		barW = 10
	}

	var b strings.Builder
	for i, m := range a.months {
		if i > 0 {
			b.WriteString("\n")
		}
		pct := cli.Share(m.Spent, a.snap.MonthlyBudget)
		b.WriteString(components.BudgetBar(cli.FormatMonth(m.Month), pct, 9, barW))
		b.WriteString(amountStyle.Render(padLeft(formatMoney(m.Spent), 14)))
		b.WriteString(countStyle.Render(fmt.Sprintf("  %3d items", m.Entries)))
	}

	return components.ContentCard("Spending by month (share of monthly budget)", b.String(), w)
}
