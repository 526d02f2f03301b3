package ledger_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/theirongolddev/purse/internal/ledger"
	"github.com/theirongolddev/purse/internal/ledger/mocks"
	"github.com/theirongolddev/purse/internal/model"
	"github.com/theirongolddev/purse/internal/store"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

type seqIDs struct{ n int }

func (g *seqIDs) Generate() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

func june(day, hour, minute int) time.Time {
	return time.Date(2024, time.June, day, hour, minute, 0, 0, time.UTC)
}

var testBudget = ledger.Budget{
	Monthly:    decimal.NewFromInt(150000),
	DailyLimit: decimal.NewFromInt(5000),
}

func answer(yes bool) ledger.Confirmer {
	return ledger.ConfirmFunc(func(context.Context, string) (bool, error) { return yes, nil })
}

func newController(t *testing.T, st ledger.Store, opts ...ledger.Option) (*ledger.Controller, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: june(1, 9, 30)}
	base := []ledger.Option{ledger.WithClock(clock), ledger.WithIDGenerator(&seqIDs{})}
	return ledger.New(context.Background(), st, testBudget, append(base, opts...)...), clock
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func assertDecimal(t *testing.T, want int64, got decimal.Decimal, what string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("%s = %s, want %d", what, got, want)
	}
}

func TestAddEntryAcceptsThenDefers(t *testing.T) {
	var notices []string
	st := store.NewMemory()
	ctrl, _ := newController(t, st,
		ledger.WithConfirmer(answer(true)),
		ledger.WithNotifier(ledger.NotifyFunc(func(msg string) { notices = append(notices, msg) })),
	)
	ctx := context.Background()

	res, err := ctrl.AddEntry(ctx, "Milk", "4000", june(1, 9, 30))
	require.NoError(t, err)
	assert.Equal(t, ledger.OutcomeAccepted, res.Outcome)
	assert.Equal(t, "2024-06-01", res.Record.Date.String())
	assert.Equal(t, "09:30", res.Record.Time)
	assertDecimal(t, 1000, res.RemainingDaily, "remaining daily")
	assertDecimal(t, 146000, res.RemainingMonthly, "remaining monthly")

	res, err = ctrl.AddEntry(ctx, "Bread", "2000", june(1, 10, 0))
	require.NoError(t, err)
	assert.Equal(t, ledger.OutcomeDeferred, res.Outcome)
	assert.Equal(t, "2024-06-02", res.Record.Date.String())
	assert.Equal(t, time.Sunday, res.Record.Weekday())
	assertDecimal(t, 1000, res.RemainingDaily, "remaining daily")
	assertDecimal(t, 144000, res.RemainingMonthly, "remaining monthly")

	require.Len(t, notices, 1)
	assert.Equal(t, "Item added to the next day's budget (Date: 2024-06-02, Day: Sunday)", notices[0])

	snap := ctrl.Snapshot()
	require.Len(t, snap.Rows, 2)
	assert.Equal(t, 1, snap.Rows[0].Position)
	assert.Equal(t, "Milk", snap.Rows[0].Purchase.Name)
	assert.Equal(t, "Bread", snap.Rows[1].Purchase.Name)
	assert.Equal(t, 2, st.Saves())
}

func TestAddEntryAtExactLimitIsAccepted(t *testing.T) {
	ctrl, _ := newController(t, store.NewMemory())

	res, err := ctrl.AddEntry(context.Background(), "Groceries", "5000", june(1, 12, 0))
	require.NoError(t, err)
	assert.Equal(t, ledger.OutcomeAccepted, res.Outcome)
	assertDecimal(t, 0, res.RemainingDaily, "remaining daily")
}

func TestAddEntryDeclinedDeferralWritesNothing(t *testing.T) {
	mc := gomock.NewController(t)
	defer mc.Finish()

	st := mocks.NewMockStore(mc)
	st.EXPECT().Load(gomock.Any()).Return(nil, nil)
	st.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	confirm := mocks.NewMockConfirmer(mc)
	confirm.EXPECT().
		Confirm(gomock.Any(), "Daily limit exceeded! Would you like to add this item to the next day's budget?").
		Return(false, nil)

	ctrl, _ := newController(t, st, ledger.WithConfirmer(confirm))
	ctx := context.Background()

	_, err := ctrl.AddEntry(ctx, "Milk", "4000", june(1, 9, 30))
	require.NoError(t, err)

	res, err := ctrl.AddEntry(ctx, "Bread", "2000", june(1, 10, 0))
	require.NoError(t, err)
	assert.Equal(t, ledger.OutcomeRejected, res.Outcome)
	assert.Len(t, ctrl.Snapshot().Rows, 1)
}

func TestAddEntryRejectsInvalidInput(t *testing.T) {
	mc := gomock.NewController(t)
	defer mc.Finish()

	st := mocks.NewMockStore(mc)
	st.EXPECT().Load(gomock.Any()).Return(nil, nil)
	confirm := mocks.NewMockConfirmer(mc)

	ctrl, _ := newController(t, st, ledger.WithConfirmer(confirm))

	tests := []struct {
		name, item, price string
	}{
		{"empty name", "", "100"},
		{"blank name", "   ", "100"},
		{"empty price", "Milk", ""},
		{"not a number", "Milk", "abc"},
		{"negative", "Milk", "-1"},
		{"too many decimals", "Milk", "0.00001"},
		{"tiny exponent", "Milk", "1e-5000000"},
		{"huge exponent", "Milk", "1e13"},
		{"empty name over limit", "", "999999"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ctrl.AddEntry(context.Background(), tt.item, tt.price, june(1, 9, 0))
			if !errors.Is(err, ledger.ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
	assert.Empty(t, ctrl.Snapshot().Rows)
}

func TestAddEntryKeepsMutationWhenSaveFails(t *testing.T) {
	mc := gomock.NewController(t)
	defer mc.Finish()

	st := mocks.NewMockStore(mc)
	st.EXPECT().Load(gomock.Any()).Return(nil, nil)
	saveErr := errors.New("disk full")
	gomock.InOrder(
		st.EXPECT().Save(gomock.Any(), gomock.Any()).Return(saveErr),
		st.EXPECT().Save(gomock.Any(), gomock.Len(1)).Return(nil),
	)

	ctrl, _ := newController(t, st)
	ctx := context.Background()

	res, err := ctrl.AddEntry(ctx, "Milk", "4000", june(1, 9, 30))
	require.ErrorIs(t, err, ledger.ErrPersistence)
	require.ErrorIs(t, err, saveErr)
	assert.Equal(t, ledger.OutcomeAccepted, res.Outcome)
	assert.Len(t, ctrl.Snapshot().Rows, 1)
	assert.True(t, ctrl.Dirty())

	require.NoError(t, ctrl.Sync(ctx))
	assert.False(t, ctrl.Dirty())
}

func TestDeleteShiftsLaterPositions(t *testing.T) {
	ctrl, _ := newController(t, store.NewMemory(), ledger.WithConfirmer(answer(true)))
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		_, err := ctrl.AddEntry(ctx, name, "10", june(1, 9, 0))
		require.NoError(t, err)
	}

	res, err := ctrl.DeleteEntryAt(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, ledger.OutcomeDeleted, res.Outcome)
	assert.Equal(t, "A", res.Record.Name)

	// Position 0 now refers to what used to be B.
	edited, err := ctrl.EditEntryDateTimeAt(ctx, 0, "2024-05-31", "23:59")
	require.NoError(t, err)
	assert.Equal(t, "B", edited.Name)
	assert.Equal(t, "2024-05-31", edited.Date.String())
	assert.Equal(t, "23:59", edited.Time)

	snap := ctrl.Snapshot()
	require.Len(t, snap.Rows, 2)
	assert.Equal(t, "C", snap.Rows[1].Purchase.Name)
	assertDecimal(t, 4990, snap.RemainingDaily, "remaining daily")
}

func TestDeleteDeclinedKeepsRecord(t *testing.T) {
	mc := gomock.NewController(t)
	defer mc.Finish()

	st := mocks.NewMockStore(mc)
	st.EXPECT().Load(gomock.Any()).Return([]model.Purchase{
		{ID: "keep", Name: "Milk", Price: dec(100), Date: model.NewDay(2024, time.June, 1), Time: "08:00"},
	}, nil)

	ctrl, _ := newController(t, st, ledger.WithConfirmer(answer(false)))

	res, err := ctrl.DeleteEntry(context.Background(), "keep")
	require.NoError(t, err)
	assert.Equal(t, ledger.OutcomeKept, res.Outcome)
	assert.Len(t, ctrl.Snapshot().Rows, 1)
}

func TestEditChangesOnlyDateAndTime(t *testing.T) {
	ctrl, _ := newController(t, store.NewMemory())
	ctx := context.Background()

	res, err := ctrl.AddEntry(ctx, "Milk", "4000", june(1, 9, 30))
	require.NoError(t, err)

	edited, err := ctrl.EditEntryDateTime(ctx, res.Record.ID, "2024-06-03", "7:05")
	require.NoError(t, err)
	assert.Equal(t, res.Record.ID, edited.ID)
	assert.Equal(t, "Milk", edited.Name)
	assert.True(t, edited.Price.Equal(dec(4000)))
	assert.Equal(t, "2024-06-03", edited.Date.String())
	assert.Equal(t, "07:05", edited.Time)
	assert.Equal(t, time.Monday, edited.Weekday())

	// Moving the purchase off the current day frees the daily allowance.
	assertDecimal(t, 5000, ctrl.Snapshot().RemainingDaily, "remaining daily")
}

func TestEditRejectsBadFields(t *testing.T) {
	ctrl, _ := newController(t, store.NewMemory())
	ctx := context.Background()

	res, err := ctrl.AddEntry(ctx, "Milk", "4000", june(1, 9, 30))
	require.NoError(t, err)

	tests := []struct {
		name, date, clock string
	}{
		{"empty date", "", "10:00"},
		{"empty time", "2024-06-02", ""},
		{"bad date", "2024-13-40", "10:00"},
		{"bad time", "2024-06-02", "25:61"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ctrl.EditEntryDateTime(ctx, res.Record.ID, tt.date, tt.clock)
			if !errors.Is(err, ledger.ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
		})
	}

	got := ctrl.Snapshot().Rows[0].Purchase
	assert.Equal(t, "2024-06-01", got.Date.String())
	assert.Equal(t, "09:30", got.Time)
}

func TestOutOfRangeTargets(t *testing.T) {
	ctrl, _ := newController(t, store.NewMemory(), ledger.WithConfirmer(answer(true)))
	ctx := context.Background()

	_, err := ctrl.AddEntry(ctx, "Milk", "10", june(1, 9, 0))
	require.NoError(t, err)

	_, err = ctrl.DeleteEntryAt(ctx, 1)
	assert.ErrorIs(t, err, ledger.ErrIndexOutOfRange)
	_, err = ctrl.DeleteEntryAt(ctx, -1)
	assert.ErrorIs(t, err, ledger.ErrIndexOutOfRange)
	_, err = ctrl.DeleteEntry(ctx, "nope")
	assert.ErrorIs(t, err, ledger.ErrIndexOutOfRange)
	_, err = ctrl.EditEntryDateTimeAt(ctx, 3, "2024-06-01", "10:00")
	assert.ErrorIs(t, err, ledger.ErrIndexOutOfRange)
	_, err = ctrl.EditEntryDateTime(ctx, "nope", "2024-06-01", "10:00")
	assert.ErrorIs(t, err, ledger.ErrIndexOutOfRange)

	assert.Len(t, ctrl.Snapshot().Rows, 1)
}

func TestResolveTwiceFails(t *testing.T) {
	ctrl, _ := newController(t, store.NewMemory())
	ctx := context.Background()

	_, err := ctrl.AddEntry(ctx, "Milk", "4000", june(1, 9, 0))
	require.NoError(t, err)

	res, d, err := ctrl.ProposeAdd(ctx, "Bread", "2000", june(1, 9, 5))
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, ledger.OutcomePending, res.Outcome)
	assert.Equal(t, ledger.DecideDefer, d.Kind)
	assert.ErrorIs(t, d.Reason, ledger.ErrOverDailyLimit)
	assert.Len(t, ctrl.Snapshot().Rows, 1, "proposal must not mutate")

	_, err = ctrl.Resolve(ctx, d, true)
	require.NoError(t, err)
	_, err = ctrl.Resolve(ctx, d, true)
	assert.ErrorIs(t, err, ledger.ErrDecisionResolved)
	assert.Len(t, ctrl.Snapshot().Rows, 2)
}

func TestResolveNilDecision(t *testing.T) {
	ctrl, _ := newController(t, store.NewMemory())

	_, err := ctrl.Resolve(context.Background(), nil, true)
	assert.ErrorIs(t, err, ledger.ErrInvalidInput)
}

func TestResolveDeleteAfterTargetVanished(t *testing.T) {
	ctrl, _ := newController(t, store.NewMemory(), ledger.WithConfirmer(answer(true)))
	ctx := context.Background()

	res, err := ctrl.AddEntry(ctx, "Milk", "10", june(1, 9, 0))
	require.NoError(t, err)

	d, err := ctrl.ProposeDelete(res.Record.ID)
	require.NoError(t, err)
	_, err = ctrl.DeleteEntry(ctx, res.Record.ID)
	require.NoError(t, err)

	_, err = ctrl.Resolve(ctx, d, true)
	assert.ErrorIs(t, err, ledger.ErrIndexOutOfRange)
}

func TestAdvanceDayIfNeeded(t *testing.T) {
	mc := gomock.NewController(t)
	defer mc.Finish()

	st := mocks.NewMockStore(mc)
	st.EXPECT().Load(gomock.Any()).Return(nil, nil)
	// No Save expectation: moving the cursor never persists.

	ctrl, _ := newController(t, st)

	assert.False(t, ctrl.AdvanceDayIfNeeded(june(1, 23, 59)))
	assert.True(t, ctrl.AdvanceDayIfNeeded(june(2, 0, 0)))
	assert.False(t, ctrl.AdvanceDayIfNeeded(june(2, 0, 1)))
	assert.Equal(t, "2024-06-02", ctrl.Cursor().String())
}

func TestDeferredEntryCountsAgainstNextDay(t *testing.T) {
	ctrl, _ := newController(t, store.NewMemory(), ledger.WithConfirmer(answer(true)))
	ctx := context.Background()

	_, err := ctrl.AddEntry(ctx, "Milk", "4000", june(1, 9, 0))
	require.NoError(t, err)
	_, err = ctrl.AddEntry(ctx, "Bread", "2000", june(1, 9, 5))
	require.NoError(t, err)

	require.True(t, ctrl.AdvanceDayIfNeeded(june(2, 8, 0)))
	snap := ctrl.Snapshot()
	assertDecimal(t, 2000, snap.SpentToday, "spent today")
	assertDecimal(t, 3000, snap.RemainingDaily, "remaining daily")
}

func TestNewSurvivesLoadFailureAndFixesIDs(t *testing.T) {
	mc := gomock.NewController(t)
	defer mc.Finish()

	failing := mocks.NewMockStore(mc)
	failing.EXPECT().Load(gomock.Any()).Return(nil, errors.New("connection refused"))
	ctrl, _ := newController(t, failing)
	assert.Empty(t, ctrl.Snapshot().Rows)

	legacy := mocks.NewMockStore(mc)
	legacy.EXPECT().Load(gomock.Any()).Return([]model.Purchase{
		{Name: "no id", Price: dec(1)},
		{ID: "dup", Name: "first", Price: dec(1)},
		{ID: "dup", Name: "second", Price: dec(1)},
	}, nil)
	ctrl, _ = newController(t, legacy)

	rows := ctrl.Snapshot().Rows
	require.Len(t, rows, 3)
	seen := map[string]bool{}
	for _, r := range rows {
		require.NotEmpty(t, r.Purchase.ID)
		require.False(t, seen[r.Purchase.ID], "duplicate id %s", r.Purchase.ID)
		seen[r.Purchase.ID] = true
	}
	assert.Equal(t, "dup", rows[1].Purchase.ID)
}

func TestLedgerSurvivesRestart(t *testing.T) {
	st := store.NewMemory()
	ctrl, _ := newController(t, st, ledger.WithConfirmer(answer(true)))
	ctx := context.Background()

	first, err := ctrl.AddEntry(ctx, "Milk", "4000.50", june(1, 9, 0))
	require.NoError(t, err)
	_, err = ctrl.AddEntry(ctx, "Bread", "2000", june(1, 9, 5))
	require.NoError(t, err)

	restarted, _ := newController(t, st)
	rows := restarted.Snapshot().Rows
	require.Len(t, rows, 2)
	assert.Equal(t, first.Record.ID, rows[0].Purchase.ID)
	assert.True(t, rows[0].Purchase.Price.Equal(decimal.RequireFromString("4000.5")))
	assert.Equal(t, "2024-06-02", rows[1].Purchase.Date.String())
}

func TestConfirmerErrorAborts(t *testing.T) {
	boom := errors.New("tty closed")
	ctrl, _ := newController(t, store.NewMemory(), ledger.WithConfirmer(
		ledger.ConfirmFunc(func(context.Context, string) (bool, error) { return false, boom }),
	))
	ctx := context.Background()

	_, err := ctrl.AddEntry(ctx, "Milk", "6000", june(1, 9, 0))
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, ctrl.Snapshot().Rows)
}

func TestWatchAdvancesCursor(t *testing.T) {
	ctrl, clock := newController(t, store.NewMemory())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan model.Day, 1)
	done := make(chan error, 1)
	go func() {
		done <- ctrl.Watch(ctx, 5*time.Millisecond, func(d model.Day) { changed <- d })
	}()

	clock.Set(june(2, 0, 0))
	select {
	case d := <-changed:
		assert.Equal(t, "2024-06-02", d.String())
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not report the new day")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop on cancel")
	}
}

func TestStoredRecordsSurviveTheNextWrite(t *testing.T) {
	st := store.NewMemory()
	st.SetRaw([]byte(`[
		{"name":"Tea","price":300,"date":"2024-6-1","time":"09:00"},
		{"name":42,"price":100,"date":"2024-06-01","time":"09:10"}
	]`))
	ctrl, _ := newController(t, st)
	ctx := context.Background()

	require.Len(t, ctrl.Snapshot().Rows, 2)
	_, err := ctrl.AddEntry(ctx, "Milk", "4000", june(1, 9, 30))
	require.NoError(t, err)

	saved, err := store.Decode(st.Raw(), zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, saved, 3)
	assert.Equal(t, "2024-6-1", saved[0].RawDate)
	assert.Equal(t, "Tea", saved[0].Name)
	assert.Equal(t, "42", saved[1].Name)
	assert.Equal(t, "Milk", saved[2].Name)
	assert.Contains(t, string(st.Raw()), `"date":"2024-6-1"`)

	edited, err := ctrl.EditEntryDateTimeAt(ctx, 0, "2024-06-01", "09:00")
	require.NoError(t, err)
	assert.Empty(t, edited.RawDate)

	saved, err = store.Decode(st.Raw(), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", saved[0].Date.String())
	assert.NotContains(t, string(st.Raw()), "2024-6-1")
}
