package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Hundred converts between fractions and percentages.
var Hundred = decimal.NewFromInt(100)

// SafeParse parses a string into a decimal, returning zero for invalid or empty input.
func SafeParse(value string) decimal.Decimal {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// SafeDiv divides a by b, returning zero when b is zero.
func SafeDiv(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.Div(b)
}

// PercentOf returns pct/100 * value.
func PercentOf(pct, value decimal.Decimal) decimal.Decimal {
	return pct.Div(Hundred).Mul(value)
}

// FormatFixed rounds to the given number of places and strips trailing zeros.
func FormatFixed(d decimal.Decimal, places int32) string {
	s := d.Round(places).StringFixed(places)
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
