// Package cli provides formatting, rendering and prompt utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/purse/internal/model"

	"github.com/shopspring/decimal"
)

// FormatMoney formats an amount with comma separators. Whole amounts have
// no fraction; anything else is shown to two places.
// e.g., 146000 -> "146,000", 4000.5 -> "4,000.50", -200 -> "-200"
func FormatMoney(d decimal.Decimal) string {
	d = d.Round(2)
	if d.IsNegative() {
		return "-" + FormatMoney(d.Neg())
	}

	whole := d.Truncate(0)
	s := FormatNumber(whole.IntPart())
	if frac := d.Sub(whole); !frac.IsZero() {
		fixed := d.StringFixed(2)
		s += fixed[len(fixed)-3:]
	}
	return s
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatDayOfWeek returns the English weekday name of d, or "" for an undated record.
func FormatDayOfWeek(d model.Day) string {
	if d.IsZero() {
		return ""
	}
	return d.Weekday().String()
}

// FormatMonth formats the first day of a month as "Jun 2024".
func FormatMonth(d model.Day) string {
	return d.Format("Jan 2006")
}

// Share returns part/whole as a float for FormatPercent, 0 when whole is 0.
func Share(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}
	f, _ := part.Div(whole).Float64()
	return f
}
