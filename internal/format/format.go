// Package format renders amounts, percentages and dates for reports and exports.
package format

import (
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/fordscott/portfolio-builder/internal/domain"
)

// CurrencyCode is the currency every balance and fee is expressed in.
const CurrencyCode = money.AUD

// DateLayout is the day-first date layout used on reports.
const DateLayout = "02/01/2006"

// Currency formats an amount in whole dollars, e.g. "$1,400".
func Currency(amount decimal.Decimal) string {
	f := *money.GetCurrency(CurrencyCode).Formatter()
	f.Fraction = 0
	return f.Format(amount.Round(0).IntPart())
}

// CurrencyCents formats an amount with cents, e.g. "$1,400.50".
func CurrencyCents(amount decimal.Decimal) string {
	cents := amount.Shift(2).Round(0).IntPart()
	return money.New(cents, CurrencyCode).Display()
}

// Percent formats a fraction as a percentage, e.g. 0.014 -> "1.40%".
func Percent(fraction decimal.Decimal, digits int32) string {
	return fraction.Mul(domain.Hundred).StringFixed(digits) + "%"
}

// Points formats a value that is already a percentage, e.g. 44 -> "44.0%".
func Points(pct decimal.Decimal, digits int32) string {
	return pct.StringFixed(digits) + "%"
}

// Signed prefixes positive values with "+".
func Signed(s string, v decimal.Decimal) string {
	if v.IsPositive() {
		return "+" + s
	}
	return s
}

// Date formats t as dd/mm/yyyy.
func Date(t time.Time) string {
	return t.Format(DateLayout)
}
