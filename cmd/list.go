package cmd

import (
	"fmt"
	"strconv"

	"github.com/theirongolddev/purse/internal/cli"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var flagListIDs bool

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "history"},
	Short:   "Show every recorded purchase",
	RunE:    runList,
}

func init() {
	listCmd.Flags().BoolVar(&flagListIDs, "ids", false, "Show record ids")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	ctrl, closeFn, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	snap := ctrl.Snapshot()
	if len(snap.Rows) == 0 {
		fmt.Println("\n  No purchases recorded.")
		return nil
	}

	headers := []string{"#", "Item", "Price", "Date", "Time", "Day"}
	left := []int{1, 3, 4, 5}
	if flagListIDs {
		headers = append(headers, "ID")
		left = append(left, 6)
	}

	total := decimal.Zero
	rows := make([][]string, 0, len(snap.Rows))
	for _, r := range snap.Rows {
		p := r.Purchase
		row := []string{
			strconv.Itoa(r.Position),
			p.Name,
			cli.FormatMoney(p.Price),
			p.DateText(),
			p.Time,
			cli.FormatDayOfWeek(p.Date),
		}
		if flagListIDs {
			row = append(row, p.ID)
		}
		rows = append(rows, row)
		total = total.Add(p.Price)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("PURCHASES  %d entries", len(snap.Rows))))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers:   headers,
		Rows:      rows,
		Footer:    []string{"", "Total", cli.FormatMoney(total)},
		LeftAlign: left,
	}))
	return nil
}
