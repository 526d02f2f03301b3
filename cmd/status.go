package cmd

import (
	"fmt"

	"github.com/theirongolddev/purse/internal/cli"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's spending and what is left",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctrl, closeFn, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	s := ctrl.Snapshot()
	spent := s.MonthlyBudget.Sub(s.RemainingMonthly)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("PURSE  %s %s", s.Cursor, cli.FormatDayOfWeek(s.Cursor))))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"", "Limit", "Spent", "Remaining"},
		Rows: [][]string{
			{"Today", cli.FormatMoney(s.DailyLimit), cli.FormatMoney(s.SpentToday), cli.FormatMoney(s.RemainingDaily)},
			{"Budget", cli.FormatMoney(s.MonthlyBudget), cli.FormatMoney(spent), cli.FormatMoney(s.RemainingMonthly)},
		},
	}))
	fmt.Println()
	fmt.Printf("  Today   %s\n", cli.RenderBudgetBar(s.SpentToday, s.DailyLimit, 30))
	fmt.Printf("  Budget  %s\n", cli.RenderBudgetBar(spent, s.MonthlyBudget, 30))
	fmt.Println()

	if len(s.Rows) == 0 {
		fmt.Println("  No purchases yet. Try `purse add Milk 4000`.")
		fmt.Println()
	}
	return nil
}
