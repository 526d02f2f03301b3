package cmd

import (
	"errors"
	"strconv"

	"github.com/theirongolddev/purse/internal/ledger"

	"github.com/spf13/cobra"
)

var flagDeleteForce bool

var deleteCmd = &cobra.Command{
	Use:     "delete <position|id>",
	Aliases: []string{"rm"},
	Short:   "Delete a purchase after confirmation",
	Long: "Delete a purchase. Every later purchase moves up one position, so run " +
		"`purse list` again before deleting by position a second time.",
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&flagDeleteForce, "force", "f", false, "Delete without asking")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	if flagDeleteForce {
		flagYes = true
	}

	ctx := cmd.Context()
	ctrl, closeFn, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	var res ledger.Result
	if pos, convErr := strconv.Atoi(args[0]); convErr == nil {
		res, err = ctrl.DeleteEntryAt(ctx, pos-1)
	} else {
		res, err = ctrl.DeleteEntry(ctx, args[0])
	}
	if err != nil && !errors.Is(err, ledger.ErrPersistence) {
		return err
	}

	printOutcome(res)
	return err
}
