package zreport

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RateCode tags a VAT bucket.
type RateCode string

const (
	RateVAT0    RateCode = "VAT0"
	RateVAT5    RateCode = "VAT5"
	RateVAT10   RateCode = "VAT10"
	RateVAT16   RateCode = "VAT16"
	RateVAT20   RateCode = "VAT20"
	RateSpecial RateCode = "SPECIAL"
)

// RateEntry is one row of the rate table. Fixed is false for codes without
// a fixed rate, whose amounts are never decomposed.
type RateEntry struct {
	Code  RateCode
	Rate  decimal.Decimal
	Fixed bool
}

// rateTable order is the rendering and accumulation order.
var rateTable = []RateEntry{
	{Code: RateVAT0, Rate: decimal.Zero, Fixed: true},
	{Code: RateVAT5, Rate: decimal.RequireFromString("0.05"), Fixed: true},
	{Code: RateVAT10, Rate: decimal.RequireFromString("0.10"), Fixed: true},
	{Code: RateVAT16, Rate: decimal.RequireFromString("0.16"), Fixed: true},
	{Code: RateVAT20, Rate: decimal.RequireFromString("0.20"), Fixed: true},
	{Code: RateSpecial},
}

// RateCodes returns all rate codes in table order.
func RateCodes() []RateCode {
	codes := make([]RateCode, len(rateTable))
	for i, e := range rateTable {
		codes[i] = e.Code
	}
	return codes
}

// RateOf returns the fraction for code. ok is false for SPECIAL and for
// unknown codes.
func RateOf(code RateCode) (rate decimal.Decimal, ok bool) {
	for _, e := range rateTable {
		if e.Code == code {
			return e.Rate, e.Fixed
		}
	}
	return decimal.Zero, false
}

// IsValid reports whether c is in the rate table.
func (c RateCode) IsValid() bool {
	for _, e := range rateTable {
		if e.Code == c {
			return true
		}
	}
	return false
}

func (c RateCode) String() string {
	return string(c)
}

// ParseRateCode accepts a code case-insensitively.
func ParseRateCode(s string) (RateCode, error) {
	c := RateCode(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("unknown VAT rate code %q", s)
	}
	return c, nil
}

// RatePercent returns the rate as a percentage with two decimals, or nil
// for codes without a fixed rate.
func RatePercent(code RateCode) *decimal.Decimal {
	rate, ok := RateOf(code)
	if !ok {
		return nil
	}
	pct := rate.Mul(decimal.NewFromInt(100)).Round(AmountPlaces)
	return &pct
}
