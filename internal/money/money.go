// Package money centralizes order arithmetic so every caller rounds the
// same way: two decimal places, half up.
package money

import "github.com/shopspring/decimal"

// Round normalizes an amount to cents, rounding half up.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Sum adds amounts without intermediate rounding.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// LineTotal prices one order line: unit price plus per-unit modifiers,
// times quantity.
func LineTotal(unitPrice, modifiersTotal decimal.Decimal, quantity int) decimal.Decimal {
	return Round(unitPrice.Add(modifiersTotal).Mul(decimal.NewFromInt(int64(quantity))))
}

// Subtotal sums already-rounded line totals.
func Subtotal(lineTotals ...decimal.Decimal) decimal.Decimal {
	return Round(Sum(lineTotals...))
}

// Tax applies a fractional rate (0.08 for 8%) to the subtotal.
func Tax(subtotal, rate decimal.Decimal) decimal.Decimal {
	return Round(subtotal.Mul(rate))
}

// Total assembles the grand total. The caller is expected to reject a
// discount large enough to push it negative.
func Total(subtotal, tax, tip, deliveryFee, discount decimal.Decimal) decimal.Decimal {
	return Round(subtotal.Add(tax).Add(tip).Add(deliveryFee).Sub(discount))
}

// AverageSpend divides lifetime spend by visit count. Zero visits yields
// zero rather than a division error.
func AverageSpend(totalSpent decimal.Decimal, visits int64) decimal.Decimal {
	if visits <= 0 {
		return decimal.Zero
	}
	return Round(totalSpent.Div(decimal.NewFromInt(visits)))
}

// Points converts a spend amount into loyalty points, truncating any
// fractional point.
func Points(amount decimal.Decimal, pointsPerDollar int64) int64 {
	if pointsPerDollar <= 0 {
		return 0
	}
	return amount.Mul(decimal.NewFromInt(pointsPerDollar)).Floor().IntPart()
}
