package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/theirongolddev/purse/internal/cli"
	"github.com/theirongolddev/purse/internal/ledger"
	"github.com/theirongolddev/purse/internal/model"

	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <position|id> <YYYY-MM-DD> <HH:MM>",
	Short: "Change the date and time of a purchase",
	Long: "Change the date and time of a purchase. Name and price stay as they are. " +
		"Position is the # column of `purse list`.",
	Example: "  purse edit 2 2024-06-03 10:15",
	Args:    cobra.ExactArgs(3),
	RunE:    runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ctrl, closeFn, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	p, err := editTarget(ctx, ctrl, args[0], args[1], args[2])
	if err != nil && !errors.Is(err, ledger.ErrPersistence) {
		return err
	}

	fmt.Printf("  %s is now dated %s %s (%s)\n", p.Name, p.Date, p.Time, cli.FormatDayOfWeek(p.Date))
	return err
}

func editTarget(ctx context.Context, ctrl *ledger.Controller, target, date, clock string) (model.Purchase, error) {
	if pos, err := strconv.Atoi(target); err == nil {
		return ctrl.EditEntryDateTimeAt(ctx, pos-1, date, clock)
	}
	return ctrl.EditEntryDateTime(ctx, target, date, clock)
}
