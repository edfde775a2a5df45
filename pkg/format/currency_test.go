package format

import (
	"testing"

	"github.com/iwvelando/liquidity-forecast/pkg/money"
	"github.com/shopspring/decimal"
)

func TestNumericCurrency(t *testing.T) {
	tests := []struct {
		cents    string
		expected string
	}{
		{"0", "0,00"},
		{"5", "0,05"},
		{"4000000", "40.000,00"},
		{"123456", "1.234,56"},
		{"-200000", "-2.000,00"},
		{"100000000000", "1.000.000.000,00"},
		{"123456789012345678901234", "1.234.567.890.123.456.789.012,34"},
	}

	for _, tt := range tests {
		t.Run(tt.cents, func(t *testing.T) {
			got := NumericCurrency(money.MustParse(tt.cents))
			if got != tt.expected {
				t.Errorf("NumericCurrency(%s) = %q, expected %q", tt.cents, got, tt.expected)
			}
		})
	}
}

func TestCurrency(t *testing.T) {
	if got := Currency(money.FromInt64(-123456)); got != "-1.234,56 €" {
		t.Errorf("Currency() = %q", got)
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(decimal.NewFromInt(-5)); got != "-5%" {
		t.Errorf("Percent(-5) = %q", got)
	}
	if got := Percent(decimal.RequireFromString("2.5")); got != "2,5%" {
		t.Errorf("Percent(2.5) = %q", got)
	}
	if got := BasisPercent(money.FromInt64(1000)); got != "10,00%" {
		t.Errorf("BasisPercent(1000) = %q", got)
	}
}
