package zreport

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AmountPlaces is the number of fractional digits kept for money.
const AmountPlaces = 2

// RatePlaces is the number of fractional digits kept for commission rates.
const RatePlaces = 4

// ParseAmount converts operator input in the "1.234,56" convention into an
// exact non-negative amount with two fractional digits.
//
// Parsing is lenient on purpose: empty, malformed and negative input all
// yield 0.00 instead of an error, and totals downstream rely on that.
func ParseAmount(text string) decimal.Decimal {
	return parseLocale(text).Round(AmountPlaces)
}

// parseLocale strips thousands separators, turns the decimal comma into a
// point and parses the result. Anything unparsable or negative is zero.
func parseLocale(text string) decimal.Decimal {
	s := strings.TrimSpace(text)
	if s == "" {
		return decimal.Zero
	}
	if !plainNumber(s) {
		return decimal.Zero
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}

// plainNumber reports whether s holds only digits, separators and a sign.
// Exponent forms such as "1e9" are rejected before decimal parsing, which
// would otherwise expand them in full.
func plainNumber(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.', r == ',', r == '+', r == '-':
		default:
			return false
		}
	}
	return true
}

// Round2 quantizes d to two fractional digits, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountPlaces)
}

// FormatAmount renders an amount in the same convention ParseAmount reads,
// e.g. 1234.5 -> "1.234,50". ParseAmount(FormatAmount(x)) == x for any
// value ParseAmount produced.
func FormatAmount(d decimal.Decimal) string {
	fixed := d.StringFixed(AmountPlaces)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	b.WriteString(sign)
	lead := len(intPart) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(intPart[:lead])
	for i := lead; i < len(intPart); i += 3 {
		b.WriteByte('.')
		b.WriteString(intPart[i : i+3])
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}
