// Package ledger holds the purchase history, the budget arithmetic over it,
// and the Controller that mutates it under the daily-limit policy.
package ledger

import (
	"sort"

	"github.com/theirongolddev/purse/internal/model"

	"github.com/shopspring/decimal"
)

// Budget holds the two fixed thresholds.
type Budget struct {
	Monthly    decimal.Decimal
	DailyLimit decimal.Decimal
}

// Ledger is the ordered purchase sequence plus its budget. Insertion order
// is display order. Ledger does no validation and is not safe for
// concurrent use; Controller serializes access.
type Ledger struct {
	budget  Budget
	records []model.Purchase
}

// NewLedger returns a ledger over records, which it takes ownership of.
func NewLedger(budget Budget, records []model.Purchase) *Ledger {
	return &Ledger{budget: budget, records: records}
}

// Budget returns the thresholds.
func (l *Ledger) Budget() Budget {
	return l.budget
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	return len(l.records)
}

// Records returns a copy of the sequence.
func (l *Ledger) Records() []model.Purchase {
	out := make([]model.Purchase, len(l.records))
	copy(out, l.records)
	return out
}

// At returns the record at index.
func (l *Ledger) At(index int) (model.Purchase, bool) {
	if index < 0 || index >= len(l.records) {
		return model.Purchase{}, false
	}
	return l.records[index], true
}

// IndexOf returns the current position of id, or -1.
func (l *Ledger) IndexOf(id string) int {
	for i, r := range l.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// Total sums every price in the ledger.
func (l *Ledger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, r := range l.records {
		total = total.Add(r.Price)
	}
	return total
}

// SpentOn sums the prices of records dated day.
func (l *Ledger) SpentOn(day model.Day) decimal.Decimal {
	total := decimal.Zero
	for _, r := range l.records {
		if r.Date.Equal(day) {
			total = total.Add(r.Price)
		}
	}
	return total
}

// RemainingMonthly is the monthly budget minus every recorded price,
// deferred entries included. It may be negative.
func (l *Ledger) RemainingMonthly() decimal.Decimal {
	return l.budget.Monthly.Sub(l.Total())
}

// RemainingDaily is the daily limit minus what is recorded against day.
func (l *Ledger) RemainingDaily(day model.Day) decimal.Decimal {
	return l.budget.DailyLimit.Sub(l.SpentOn(day))
}

// Months returns per-calendar-month sums, oldest first. Undated records
// are not attributed to any month.
func (l *Ledger) Months() []model.MonthTotal {
	byMonth := make(map[model.Day]*model.MonthTotal)
	for _, r := range l.records {
		if r.Date.IsZero() {
			continue
		}
		m := r.Date.Month()
		mt, ok := byMonth[m]
		if !ok {
			mt = &model.MonthTotal{Month: m, Spent: decimal.Zero}
			byMonth[m] = mt
		}
		mt.Spent = mt.Spent.Add(r.Price)
		mt.Entries++
	}

	out := make([]model.MonthTotal, 0, len(byMonth))
	for _, mt := range byMonth {
		out = append(out, *mt)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Month.Before(out[j].Month.Time)
	})
	return out
}

func (l *Ledger) append(p model.Purchase) {
	l.records = append(l.records, p)
}

func (l *Ledger) replace(index int, p model.Purchase) {
	l.records[index] = p
}

func (l *Ledger) remove(index int) model.Purchase {
	removed := l.records[index]
	l.records = append(l.records[:index], l.records[index+1:]...)
	return removed
}
