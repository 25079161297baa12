package zreport

import "github.com/shopspring/decimal"

var one = decimal.NewFromInt(1)

// DecomposeInclusive splits a tax-inclusive amount into its net and tax
// parts. Tax is taken as gross minus the rounded net, so net+tax equals the
// quantized gross for every input.
func DecomposeInclusive(grossInclusive, rate decimal.Decimal) (net, tax decimal.Decimal) {
	if !grossInclusive.IsPositive() {
		return decimal.Zero, decimal.Zero
	}
	if !rate.IsPositive() {
		return Round2(grossInclusive), decimal.Zero
	}

	net = grossInclusive.DivRound(one.Add(rate), AmountPlaces)
	tax = Round2(grossInclusive.Sub(net))
	return net, tax
}

// DecomposeCode decomposes gross by the rate of code. Codes without a fixed
// rate pass through as net with zero tax.
func DecomposeCode(code RateCode, gross decimal.Decimal) (net, tax decimal.Decimal) {
	rate, ok := RateOf(code)
	if !ok {
		return gross, decimal.Zero
	}
	return DecomposeInclusive(gross, rate)
}
