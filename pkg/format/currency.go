// Package format renders amounts and percentages the way German-speaking
// readers of a liquidity plan expect them.
package format

import (
	"strings"

	"github.com/iwvelando/liquidity-forecast/pkg/money"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.German)

// Currency returns an amount with thousands separators and a euro sign (e.g., "-1.234,56 €").
func Currency(amount money.Cents) string {
	return NumericCurrency(amount) + " €"
}

// NumericCurrency returns an amount without a currency symbol but with separators (e.g., "-1.234,56").
func NumericCurrency(amount money.Cents) string {
	units := amount.Units()
	sign := ""
	if units.IsNegative() {
		sign = "-"
		units = units.Neg()
	}
	fixed := units.StringFixed(2)
	parts := strings.SplitN(fixed, ".", 2)
	return sign + groupThousands(parts[0]) + "," + parts[1]
}

// Percent renders a percentage with a decimal comma and no trailing zeros (e.g., "-5%", "2,5%").
func Percent(p decimal.Decimal) string {
	return strings.Replace(p.String(), ".", ",", 1) + "%"
}

// BasisPercent renders a percent x 100 value with two decimals (1000 -> "10,00%").
func BasisPercent(basis money.Cents) string {
	return strings.Replace(basis.Units().StringFixed(2), ".", ",", 1) + "%"
}

func groupThousands(intPart string) string {
	d, err := decimal.NewFromString(intPart)
	if err == nil && d.LessThan(decimal.New(1, 18)) {
		return printer.Sprintf("%d", d.IntPart())
	}

	if len(intPart) <= 3 {
		return intPart
	}
	var builder strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			builder.WriteByte('.')
		}
		builder.WriteRune(digit)
	}
	return builder.String()
}
