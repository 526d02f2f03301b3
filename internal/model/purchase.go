package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Price bounds. Anything finer than 1/10000, coarser than 10^12 or longer
// than MaxPriceDigits significant digits is rejected so sums stay small.
const (
	MinPriceExponent = -4
	MaxPriceExponent = 12
	MaxPriceDigits   = 18
)

// Purchase is one recorded purchase event.
type Purchase struct {
	ID    string
	Name  string
	Price decimal.Decimal
	Date  Day    // accounting day the price counts against
	Time  string // HH:MM, display only

	// RawDate holds stored date text that did not parse. It is written back
	// unchanged while Date is zero.
	RawDate string
}

// Weekday returns the day of the week of the purchase's accounting day.
func (p Purchase) Weekday() time.Weekday {
	return p.Date.Weekday()
}

// DateText returns the date as stored: YYYY-MM-DD, or the unparsed text.
func (p Purchase) DateText() string {
	if p.Date.IsZero() {
		return p.RawDate
	}
	return p.Date.String()
}

// ParsePrice parses a non-negative decimal price within the exponent bounds.
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, errors.New("price is required")
	}
	if len(s) > 64 {
		return decimal.Zero, fmt.Errorf("price %.16s... is too long", s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("price %q is not a number", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("price %s is negative", s)
	}
	if exp := d.Exponent(); exp < MinPriceExponent || exp > MaxPriceExponent || d.NumDigits() > MaxPriceDigits {
		return decimal.Zero, fmt.Errorf("price %s is out of range", s)
	}
	return d, nil
}

// Row is a purchase at its current display position.
// Positions are 1-based and only valid for the snapshot that produced them.
type Row struct {
	Position int
	Purchase Purchase
}

// Snapshot is everything a render surface needs for one frame.
type Snapshot struct {
	Cursor           Day
	MonthlyBudget    decimal.Decimal
	DailyLimit       decimal.Decimal
	SpentToday       decimal.Decimal
	RemainingDaily   decimal.Decimal
	RemainingMonthly decimal.Decimal
	Rows             []Row
}

// MonthTotal is the spent sum for one calendar month.
type MonthTotal struct {
	Month   Day // first day of the month
	Spent   decimal.Decimal
	Entries int
}
