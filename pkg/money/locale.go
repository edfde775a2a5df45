package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/liquidity-forecast/pkg/constants"
	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for input that is not a well-formed amount.
var ErrInvalidAmount = errors.New("invalid amount")

var currencyMarks = strings.NewReplacer("€", "", "EUR", "", "eur", "", " ", "", " ", "", " ", "", "%", "")

// ParseLocale reads a user-entered currency amount into exact cents. It
// accepts the German form ("40.000,00", "40000,5"), a plain dot decimal
// ("40000.50") and dot-grouped thousands without decimals ("1.234").
// More than two fractional digits is an error, never rounded.
func ParseLocale(s string) (Cents, error) {
	d, err := parseLocaleDecimal(s)
	if err != nil {
		return Zero, err
	}
	return Cents{d: d.Mul(centsPerUnit)}, nil
}

// ParseDecimal reads a signed locale decimal such as "-5", "2,5" or "1.25"
// with at most two fractional digits. It is used for percentages.
func ParseDecimal(s string) (decimal.Decimal, error) {
	return parseLocaleDecimal(s)
}

func parseLocaleDecimal(s string) (decimal.Decimal, error) {
	cleaned := currencyMarks.Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%w: empty value", ErrInvalidAmount)
	}

	sign := ""
	switch cleaned[0] {
	case '-':
		sign = "-"
		cleaned = cleaned[1:]
	case '+':
		cleaned = cleaned[1:]
	}
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%w: %q has no digits", ErrInvalidAmount, s)
	}
	for _, r := range cleaned {
		if (r < '0' || r > '9') && r != '.' && r != ',' {
			return decimal.Zero, fmt.Errorf("%w: %q contains %q", ErrInvalidAmount, s, r)
		}
	}

	var intPart, fracPart string
	switch {
	case strings.Contains(cleaned, ","):
		if strings.Count(cleaned, ",") > 1 {
			return decimal.Zero, fmt.Errorf("%w: %q has more than one decimal comma", ErrInvalidAmount, s)
		}
		parts := strings.SplitN(cleaned, ",", 2)
		if strings.Contains(parts[1], ".") {
			return decimal.Zero, fmt.Errorf("%w: %q has a separator after the decimal comma", ErrInvalidAmount, s)
		}
		grouped, err := ungroup(parts[0], s)
		if err != nil {
			return decimal.Zero, err
		}
		intPart, fracPart = grouped, parts[1]
	case strings.Count(cleaned, ".") == 1 && len(cleaned)-strings.Index(cleaned, ".")-1 <= constants.MaxDecimalPlaces:
		parts := strings.SplitN(cleaned, ".", 2)
		intPart, fracPart = parts[0], parts[1]
	default:
		grouped, err := ungroup(cleaned, s)
		if err != nil {
			return decimal.Zero, err
		}
		intPart = grouped
	}

	if len(fracPart) > constants.MaxDecimalPlaces {
		return decimal.Zero, fmt.Errorf("%w: %q has more than %d decimal places", ErrInvalidAmount, s, constants.MaxDecimalPlaces)
	}
	if intPart == "" && fracPart == "" {
		return decimal.Zero, fmt.Errorf("%w: %q has no digits", ErrInvalidAmount, s)
	}
	if intPart == "" {
		intPart = "0"
	}
	if fracPart == "" && (strings.HasSuffix(cleaned, ",") || strings.HasSuffix(cleaned, ".")) {
		return decimal.Zero, fmt.Errorf("%w: %q ends with a decimal separator", ErrInvalidAmount, s)
	}

	literal := sign + intPart
	if fracPart != "" {
		literal += "." + fracPart
	}
	d, err := decimal.NewFromString(literal)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d, nil
}

// ungroup strips dot thousands separators, requiring groups of three digits.
func ungroup(value, original string) (string, error) {
	if !strings.Contains(value, ".") {
		return value, nil
	}
	groups := strings.Split(value, ".")
	if groups[0] == "" || len(groups[0]) > 3 {
		return "", fmt.Errorf("%w: %q has misplaced thousands separators", ErrInvalidAmount, original)
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return "", fmt.Errorf("%w: %q has misplaced thousands separators", ErrInvalidAmount, original)
		}
	}
	return strings.Join(groups, ""), nil
}
