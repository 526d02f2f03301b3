package ledger

import (
	"context"
	"time"

	"github.com/theirongolddev/purse/internal/model"

	"github.com/oklog/ulid/v2"
)

// Store persists the whole record sequence. Save must replace the previous
// snapshot atomically.
type Store interface {
	Load(ctx context.Context) ([]model.Purchase, error)
	Save(ctx context.Context, records []model.Purchase) error
}

// Clock supplies wall-clock time.
type Clock interface {
	Now() time.Time
}

// Confirmer asks the user a yes/no question and blocks until answered.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// Notifier shows a fire-and-forget message.
type Notifier interface {
	Notify(message string)
}

// IDGenerator generates record ids.
type IDGenerator interface {
	Generate() string
}

// SystemClock reads time.Now in the local zone.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// ULIDGenerator generates monotonic ULIDs.
type ULIDGenerator struct{}

// Generate implements IDGenerator.
func (ULIDGenerator) Generate() string {
	return ulid.Make().String()
}

// ConfirmFunc adapts a plain function to Confirmer.
type ConfirmFunc func(ctx context.Context, message string) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, message string) (bool, error) {
	return f(ctx, message)
}

// NotifyFunc adapts a plain function to Notifier.
type NotifyFunc func(message string)

// Notify implements Notifier.
func (f NotifyFunc) Notify(message string) { f(message) }

type declineAll struct{}

func (declineAll) Confirm(context.Context, string) (bool, error) { return false, nil }

type discard struct{}

func (discard) Notify(string) {}
