package ledger

import "errors"

var (
	// ErrInvalidInput covers a missing name, an unparsable or negative price,
	// and empty or unparsable edit fields. The ledger is left unchanged.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIndexOutOfRange is returned for a stale position or an unknown id.
	// The ledger is left unchanged.
	ErrIndexOutOfRange = errors.New("entry not found")

	// ErrPersistence wraps a failed save. The in-memory change is kept and
	// the next successful save reconciles storage.
	ErrPersistence = errors.New("persisting ledger")

	// ErrOverDailyLimit marks a defer decision: the purchase would push the
	// current day past its limit.
	ErrOverDailyLimit = errors.New("over daily limit")

	// ErrDecisionResolved is returned when a decision is resolved twice.
	ErrDecisionResolved = errors.New("decision already resolved")
)
