package ledger

import (
	"context"
	"time"

	"github.com/theirongolddev/purse/internal/model"
)

// DefaultWatchInterval is how often Watch checks for a new calendar day.
const DefaultWatchInterval = time.Minute

// Watch checks the clock every interval and advances the cursor when the
// calendar day changes, calling onChange with the new day. It runs until
// ctx is canceled and returns nil.
func (c *Controller) Watch(ctx context.Context, interval time.Duration, onChange func(model.Day)) error {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if c.AdvanceDayIfNeeded(c.clock.Now()) && onChange != nil {
				onChange(c.Cursor())
			}
		}
	}
}
