package cmd

import (
	"fmt"

	"github.com/theirongolddev/purse/internal/cli"

	"github.com/spf13/cobra"
)

var monthsCmd = &cobra.Command{
	Use:   "months",
	Short: "Spending per calendar month",
	RunE:  runMonths,
}

func init() {
	rootCmd.AddCommand(monthsCmd)
}

func runMonths(cmd *cobra.Command, _ []string) error {
	ctrl, closeFn, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	months := ctrl.Months()
	if len(months) == 0 {
		fmt.Println("\n  No dated purchases yet.")
		return nil
	}

	monthly := ctrl.Budget().Monthly
	rows := make([][]string, 0, len(months))
	spark := make([]float64, 0, len(months))
	for _, m := range months {
		share := cli.Share(m.Spent, monthly)
		rows = append(rows, []string{
			cli.FormatMonth(m.Month),
			cli.FormatNumber(int64(m.Entries)),
			cli.FormatMoney(m.Spent),
			cli.FormatPercent(share),
		})
		f, _ := m.Spent.Float64()
		spark = append(spark, f)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SPENDING BY MONTH"))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Items", "Spent", "Of budget"},
		Rows:    rows,
	}))
	if len(spark) > 1 {
		fmt.Printf("\n  Trend  %s\n", cli.RenderSparkline(spark))
	}
	return nil
}
