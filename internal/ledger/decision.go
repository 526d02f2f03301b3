package ledger

import (
	"fmt"

	"github.com/theirongolddev/purse/internal/model"

	"github.com/shopspring/decimal"
)

// Outcome is what a controller operation did to the ledger.
type Outcome int

const (
	// OutcomePending means a Decision must be resolved before anything happens.
	OutcomePending Outcome = iota
	// OutcomeAccepted: recorded against the current day.
	OutcomeAccepted
	// OutcomeDeferred: recorded against the next day.
	OutcomeDeferred
	// OutcomeRejected: over the daily limit and the user declined to defer.
	OutcomeRejected
	// OutcomeEdited: date/time replaced in place.
	OutcomeEdited
	// OutcomeDeleted: record removed.
	OutcomeDeleted
	// OutcomeKept: deletion was not confirmed.
	OutcomeKept
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeAccepted:
		return "accepted"
	case OutcomeDeferred:
		return "deferred"
	case OutcomeRejected:
		return "rejected"
	case OutcomeEdited:
		return "edited"
	case OutcomeDeleted:
		return "deleted"
	case OutcomeKept:
		return "kept"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result reports a committed or aborted operation. Remaining values are
// computed after the operation, against the current day.
type Result struct {
	Outcome          Outcome
	Record           model.Purchase
	RemainingDaily   decimal.Decimal
	RemainingMonthly decimal.Decimal
}

// DecisionKind says which question a Decision asks.
type DecisionKind int

const (
	// DecideDefer asks whether an over-limit purchase goes to the next day.
	DecideDefer DecisionKind = iota + 1
	// DecideDelete asks whether to delete a record.
	DecideDelete
)

// Decision is a proposed mutation waiting on a yes/no answer. The ledger is
// not locked while it waits. Resolve it exactly once with Controller.Resolve.
type Decision struct {
	Kind    DecisionKind
	Message string
	// Record is the purchase that would be added (DecideDefer) or the one
	// targeted for removal (DecideDelete).
	Record model.Purchase
	// Reason is ErrOverDailyLimit for defer decisions.
	Reason error

	resolved bool
}

func deferMessage() string {
	return "Daily limit exceeded! Would you like to add this item to the next day's budget?"
}

func deleteMessage(p model.Purchase) string {
	return fmt.Sprintf("Are you sure you want to delete %q (%s)?", p.Name, p.Date)
}

// DeferredNotice is the message shown after a purchase lands on the next day.
func DeferredNotice(p model.Purchase) string {
	return fmt.Sprintf("Item added to the next day's budget (Date: %s, Day: %s)", p.Date, p.Weekday())
}
