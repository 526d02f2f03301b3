package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/theirongolddev/purse/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Controller applies user intents to the ledger and persists the result.
// One mutex covers validate, mutate and persist, and also guards the
// current-day cursor, so the rollover watcher never interleaves with a
// mutation.
type Controller struct {
	mu     sync.Mutex
	ledger *Ledger
	cursor model.Day
	dirty  bool // last save failed

	store   Store
	clock   Clock
	ids     IDGenerator
	confirm Confirmer
	notify  Notifier
	log     zerolog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the clock. Default SystemClock.
func WithClock(c Clock) Option { return func(ctl *Controller) { ctl.clock = c } }

// WithIDGenerator sets the record id source. Default ULIDGenerator.
func WithIDGenerator(g IDGenerator) Option { return func(ctl *Controller) { ctl.ids = g } }

// WithConfirmer sets the confirmation prompt. The default declines everything.
func WithConfirmer(c Confirmer) Option { return func(ctl *Controller) { ctl.confirm = c } }

// WithNotifier sets the notification sink. The default discards.
func WithNotifier(n Notifier) Option { return func(ctl *Controller) { ctl.notify = n } }

// WithLogger sets the logger. Default zerolog.Nop.
func WithLogger(l zerolog.Logger) Option { return func(ctl *Controller) { ctl.log = l } }

// New restores the ledger from store and sets the cursor to today.
// A load failure degrades to an empty ledger; it is logged, not returned.
func New(ctx context.Context, store Store, budget Budget, opts ...Option) *Controller {
	c := &Controller{
		store:   store,
		clock:   SystemClock{},
		ids:     ULIDGenerator{},
		confirm: declineAll{},
		notify:  discard{},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	records, err := store.Load(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("could not load ledger, starting with empty history")
		records = nil
	}
	c.ledger = NewLedger(budget, c.assignIDs(records))
	c.cursor = model.DayOf(c.clock.Now())

	c.log.Debug().
		Int("records", c.ledger.Len()).
		Str("cursor", c.cursor.String()).
		Msg("ledger restored")
	return c
}

// assignIDs gives every record a unique id; missing or duplicate ids are replaced.
func (c *Controller) assignIDs(records []model.Purchase) []model.Purchase {
	seen := make(map[string]bool, len(records))
	for i := range records {
		if records[i].ID == "" || seen[records[i].ID] {
			records[i].ID = c.ids.Generate()
		}
		seen[records[i].ID] = true
	}
	return records
}

// Cursor returns the current accounting day.
func (c *Controller) Cursor() model.Day {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

// Budget returns the thresholds the controller enforces.
func (c *Controller) Budget() Budget {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.Budget()
}

// Now returns the controller clock's time.
func (c *Controller) Now() time.Time {
	return c.clock.Now()
}

// Dirty reports whether the last save failed and storage is behind memory.
func (c *Controller) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// Snapshot returns the current state for rendering.
func (c *Controller) Snapshot() model.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	records := c.ledger.Records()
	rows := make([]model.Row, len(records))
	for i, r := range records {
		rows[i] = model.Row{Position: i + 1, Purchase: r}
	}

	budget := c.ledger.Budget()
	return model.Snapshot{
		Cursor:           c.cursor,
		MonthlyBudget:    budget.Monthly,
		DailyLimit:       budget.DailyLimit,
		SpentToday:       c.ledger.SpentOn(c.cursor),
		RemainingDaily:   c.ledger.RemainingDaily(c.cursor),
		RemainingMonthly: c.ledger.RemainingMonthly(),
		Rows:             rows,
	}
}

// Months returns per-month sums, oldest first.
func (c *Controller) Months() []model.MonthTotal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.Months()
}

// ProposeAdd validates a purchase made at the given wall time. Under the
// daily limit it is recorded against the current day and the committed
// Result is returned. Over the limit nothing changes and a DecideDefer
// Decision is returned instead.
func (c *Controller) ProposeAdd(ctx context.Context, name, price string, at time.Time) (Result, *Decision, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Result{}, nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	amount, err := parsePrice(price)
	if err != nil {
		return Result{}, nil, err
	}
	clock := model.FormatClock(at)

	c.mu.Lock()
	defer c.mu.Unlock()

	spent := c.ledger.SpentOn(c.cursor)
	if spent.Add(amount).GreaterThan(c.ledger.Budget().DailyLimit) {
		c.log.Info().
			Str("name", name).
			Str("price", amount.String()).
			Str("spent", spent.String()).
			Msg("purchase exceeds daily limit")
		return Result{Outcome: OutcomePending}, &Decision{
			Kind:    DecideDefer,
			Message: deferMessage(),
			Record:  model.Purchase{Name: name, Price: amount, Date: c.cursor.Next(), Time: clock},
			Reason:  ErrOverDailyLimit,
		}, nil
	}

	rec := model.Purchase{ID: c.ids.Generate(), Name: name, Price: amount, Date: c.cursor, Time: clock}
	c.ledger.append(rec)
	return c.result(OutcomeAccepted, rec), nil, c.persist(ctx)
}

// ProposeDelete targets the record with id for deletion.
func (c *Controller) ProposeDelete(id string) (*Decision, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.ledger.IndexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: id %s", ErrIndexOutOfRange, id)
	}
	return c.deleteDecision(idx), nil
}

// ProposeDeleteAt targets the record at the 0-based index for deletion.
func (c *Controller) ProposeDeleteAt(index int) (*Decision, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.ledger.At(index); !ok {
		return nil, fmt.Errorf("%w: index %d of %d", ErrIndexOutOfRange, index, c.ledger.Len())
	}
	return c.deleteDecision(index), nil
}

func (c *Controller) deleteDecision(idx int) *Decision {
	rec, _ := c.ledger.At(idx)
	return &Decision{Kind: DecideDelete, Message: deleteMessage(rec), Record: rec}
}

// Resolve commits (confirmed) or aborts a Decision. Aborting never writes.
func (c *Controller) Resolve(ctx context.Context, d *Decision, confirmed bool) (Result, error) {
	if d == nil {
		return Result{}, fmt.Errorf("%w: no decision to resolve", ErrInvalidInput)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if d.resolved {
		return Result{}, ErrDecisionResolved
	}
	d.resolved = true

	switch d.Kind {
	case DecideDefer:
		if !confirmed {
			return c.result(OutcomeRejected, d.Record), nil
		}
		rec := d.Record
		rec.ID = c.ids.Generate()
		c.ledger.append(rec)
		c.log.Info().Str("id", rec.ID).Str("date", rec.Date.String()).Msg("purchase deferred to next day")
		return c.result(OutcomeDeferred, rec), c.persist(ctx)

	case DecideDelete:
		if !confirmed {
			return c.result(OutcomeKept, d.Record), nil
		}
		idx := c.ledger.IndexOf(d.Record.ID)
		if idx < 0 {
			return Result{}, fmt.Errorf("%w: id %s", ErrIndexOutOfRange, d.Record.ID)
		}
		removed := c.ledger.remove(idx)
		c.log.Info().Str("id", removed.ID).Msg("purchase deleted")
		return c.result(OutcomeDeleted, removed), c.persist(ctx)

	default:
		return Result{}, fmt.Errorf("unknown decision kind %d", d.Kind)
	}
}

// AddEntry records a purchase, asking the Confirmer whether to defer it
// when it would exceed today's limit. A deferral is announced through the
// Notifier. When the returned error wraps ErrPersistence the Result is
// still valid: the purchase is recorded in memory.
func (c *Controller) AddEntry(ctx context.Context, name, price string, at time.Time) (Result, error) {
	res, d, err := c.ProposeAdd(ctx, name, price, at)
	if err != nil || d == nil {
		return res, err
	}

	ok, err := c.confirm.Confirm(ctx, d.Message)
	if err != nil {
		return Result{}, fmt.Errorf("confirming deferral: %w", err)
	}

	res, err = c.Resolve(ctx, d, ok)
	if res.Outcome == OutcomeDeferred {
		c.notify.Notify(DeferredNotice(res.Record))
	}
	return res, err
}

// DeleteEntry deletes the record with id after confirmation.
func (c *Controller) DeleteEntry(ctx context.Context, id string) (Result, error) {
	d, err := c.ProposeDelete(id)
	if err != nil {
		return Result{}, err
	}
	return c.confirmAndResolve(ctx, d)
}

// DeleteEntryAt deletes the record at the 0-based index after confirmation.
// Every later record moves up one position.
func (c *Controller) DeleteEntryAt(ctx context.Context, index int) (Result, error) {
	d, err := c.ProposeDeleteAt(index)
	if err != nil {
		return Result{}, err
	}
	return c.confirmAndResolve(ctx, d)
}

func (c *Controller) confirmAndResolve(ctx context.Context, d *Decision) (Result, error) {
	ok, err := c.confirm.Confirm(ctx, d.Message)
	if err != nil {
		return Result{}, fmt.Errorf("confirming deletion: %w", err)
	}
	return c.Resolve(ctx, d, ok)
}

// EditEntryDateTime replaces the date and time of the record with id.
// Name and price never change.
func (c *Controller) EditEntryDateTime(ctx context.Context, id, date, clock string) (model.Purchase, error) {
	return c.edit(ctx, date, clock, func() (int, error) {
		idx := c.ledger.IndexOf(id)
		if idx < 0 {
			return 0, fmt.Errorf("%w: id %s", ErrIndexOutOfRange, id)
		}
		return idx, nil
	})
}

// EditEntryDateTimeAt is EditEntryDateTime addressed by 0-based index.
func (c *Controller) EditEntryDateTimeAt(ctx context.Context, index int, date, clock string) (model.Purchase, error) {
	return c.edit(ctx, date, clock, func() (int, error) {
		if _, ok := c.ledger.At(index); !ok {
			return 0, fmt.Errorf("%w: index %d of %d", ErrIndexOutOfRange, index, c.ledger.Len())
		}
		return index, nil
	})
}

func (c *Controller) edit(ctx context.Context, date, clock string, locate func() (int, error)) (model.Purchase, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx, err := locate()
	if err != nil {
		return model.Purchase{}, err
	}

	day, hm, err := parseDateTime(date, clock)
	if err != nil {
		return model.Purchase{}, err
	}

	rec, _ := c.ledger.At(idx)
	rec.Date = day
	rec.RawDate = ""
	rec.Time = hm
	c.ledger.replace(idx, rec)
	c.log.Info().Str("id", rec.ID).Str("date", rec.Date.String()).Str("time", rec.Time).Msg("purchase edited")
	return rec, c.persist(ctx)
}

// AdvanceDayIfNeeded moves the cursor to at's calendar date when it differs
// and reports whether it moved. Records and storage are never touched.
func (c *Controller) AdvanceDayIfNeeded(at time.Time) bool {
	today := model.DayOf(at)

	c.mu.Lock()
	defer c.mu.Unlock()

	if today.Equal(c.cursor) {
		return false
	}
	c.log.Info().Str("from", c.cursor.String()).Str("to", today.String()).Msg("accounting day rolled over")
	c.cursor = today
	return true
}

// Sync re-saves the in-memory ledger, typically after an ErrPersistence.
func (c *Controller) Sync(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.persist(ctx)
}

// persist must be called with c.mu held.
func (c *Controller) persist(ctx context.Context) error {
	if err := c.store.Save(ctx, c.ledger.Records()); err != nil {
		c.dirty = true
		c.log.Error().Err(err).Int("records", c.ledger.Len()).Msg("saving ledger failed, keeping in-memory state")
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	c.dirty = false
	return nil
}

// result must be called with c.mu held.
func (c *Controller) result(o Outcome, rec model.Purchase) Result {
	return Result{
		Outcome:          o,
		Record:           rec,
		RemainingDaily:   c.ledger.RemainingDaily(c.cursor),
		RemainingMonthly: c.ledger.RemainingMonthly(),
	}
}

func parsePrice(s string) (decimal.Decimal, error) {
	amount, err := model.ParsePrice(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return amount, nil
}

func parseDateTime(date, clock string) (model.Day, string, error) {
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	if date == "" || clock == "" {
		return model.Day{}, "", fmt.Errorf("%w: date and time are both required", ErrInvalidInput)
	}
	day, err := model.ParseDay(date)
	if err != nil {
		return model.Day{}, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	hm, err := model.ParseClock(clock)
	if err != nil {
		return model.Day{}, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return day, hm, nil
}
