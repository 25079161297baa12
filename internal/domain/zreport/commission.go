package zreport

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Commission returns the acquirer fee for a gross card amount.
func Commission(gross, rate decimal.Decimal) decimal.Decimal {
	if !gross.IsPositive() || !rate.IsPositive() {
		return decimal.Zero
	}
	return Round2(gross.Mul(rate))
}

// NormalizeCommissionRate turns a human-entered rate into a four-digit
// fraction. Values above 1 are read as percentages ("2.5" -> 0.0250),
// anything else as a fraction already ("0.025" -> 0.0250).
//
// Exactly 1 is not divided: a 100% rate and the fraction 1.0 read the same,
// and 1.0 is kept as 1.0000.
func NormalizeCommissionRate(text string) decimal.Decimal {
	v := parseRate(text)
	if v.GreaterThan(one) {
		return v.DivRound(hundred, RatePlaces)
	}
	return v.Round(RatePlaces)
}

// parseRate reads a rate written with either decimal separator. A comma
// switches to the amount convention ("1.234,5"); without one the point is
// the decimal separator, since rates carry no thousands grouping.
func parseRate(text string) decimal.Decimal {
	s := strings.TrimSpace(text)
	if strings.Contains(s, ",") {
		return parseLocale(s)
	}
	if s == "" || !plainNumber(s) {
		return decimal.Zero
	}
	v, err := decimal.NewFromString(s)
	if err != nil || v.IsNegative() {
		return decimal.Zero
	}
	return v
}
