package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/purse/internal/cli"
	"github.com/theirongolddev/purse/internal/ledger"
	"github.com/theirongolddev/purse/internal/model"

	"github.com/spf13/cobra"
)

var flagAddTime string

var addCmd = &cobra.Command{
	Use:   "add [item...] [price]",
	Short: "Record a purchase against today's limit",
	Long: "Record a purchase. When it would push today past the daily limit you are " +
		"asked whether to count it against tomorrow instead. With no arguments a form is shown.",
	Example: "  purse add Milk 4000\n  purse add \"Olive oil\" 1250.50 --time 18:30",
	RunE:    runAdd,
}

func init() {
	addCmd.Flags().StringVar(&flagAddTime, "time", "", "Purchase time HH:MM (default now)")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var name, price string
	switch len(args) {
	case 0:
		var err error
		name, price, err = prompter().AskPurchase(ctx)
		if err != nil {
			return err
		}
	case 1:
		return errors.New("need both an item and a price")
	default:
		name = strings.Join(args[:len(args)-1], " ")
		price = args[len(args)-1]
	}

	ctrl, closeFn, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	at, err := purchaseTime(ctrl.Now(), flagAddTime)
	if err != nil {
		return err
	}

	res, err := ctrl.AddEntry(ctx, name, price, at)
	if err != nil && !errors.Is(err, ledger.ErrPersistence) {
		return err
	}

	printOutcome(res)
	return err
}

// purchaseTime applies an HH:MM override to now.
func purchaseTime(now time.Time, hhmm string) (time.Time, error) {
	if hhmm == "" {
		return now, nil
	}
	norm, err := model.ParseClock(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	t, _ := time.Parse(model.ClockLayout, norm)
	return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location()), nil
}

func printOutcome(res ledger.Result) {
	p := res.Record
	switch res.Outcome {
	case ledger.OutcomeAccepted:
		fmt.Printf("  Added %s (%s) on %s %s\n", p.Name, cli.FormatMoney(p.Price), p.Date, cli.FormatDayOfWeek(p.Date))
	case ledger.OutcomeDeferred:
		fmt.Printf("  Added %s (%s) to %s\n", p.Name, cli.FormatMoney(p.Price), p.Date)
	case ledger.OutcomeRejected:
		fmt.Printf("  %s was not added.\n", p.Name)
		return
	case ledger.OutcomeDeleted:
		fmt.Printf("  Deleted %s (%s, %s)\n", p.Name, cli.FormatMoney(p.Price), p.Date)
	case ledger.OutcomeKept:
		fmt.Printf("  Kept %s.\n", p.Name)
		return
	}
	fmt.Printf("  Remaining today: %s   Remaining budget: %s\n",
		cli.RenderRemaining(res.RemainingDaily),
		cli.RenderRemaining(res.RemainingMonthly))
}
