// Package mathutil provides exact decimal helpers for growth, percentage and
// probability arithmetic.
package mathutil

import (
	"github.com/iwvelando/liquidity-forecast/pkg/constants"
	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(constants.PercentageMultiplier)
)

// GrowthFactor returns (1 + percent/100)^periods exactly. A nil percent or
// a non-positive number of periods yields 1.
func GrowthFactor(percent *decimal.Decimal, periods int) decimal.Decimal {
	if percent == nil || percent.IsZero() || periods <= 0 {
		return one
	}
	step := one.Add(percent.Div(hundred))
	factor := one
	for i := 0; i < periods; i++ {
		factor = factor.Mul(step)
	}
	return factor
}

// PercentToFraction converts 0-100 into 0-1.
func PercentToFraction(percent decimal.Decimal) decimal.Decimal {
	return percent.Div(hundred)
}

// FractionToPercent converts 0-1 into 0-100.
func FractionToPercent(fraction decimal.Decimal) decimal.Decimal {
	return fraction.Mul(hundred)
}

// Clamp bounds n to [lo, hi].
func Clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
