// Package money provides the exact cent amount type used for every monetary
// value in the forecast. No monetary computation goes through float64.
package money

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iwvelando/liquidity-forecast/pkg/constants"
	"github.com/shopspring/decimal"
)

// Cents is a signed, arbitrary-precision count of cents. The zero value is 0.
type Cents struct {
	d decimal.Decimal
}

// Zero is an amount of 0 cents.
var Zero = Cents{}

var (
	centsPerUnit = decimal.NewFromInt(constants.CentsPerUnit)
	basisPoints  = decimal.NewFromInt(constants.PercentageBasisPoints)
)

// FromInt64 returns an amount of n cents.
func FromInt64(n int64) Cents {
	return Cents{d: decimal.NewFromInt(n)}
}

// FromDecimal rounds d half away from zero to a whole number of cents.
func FromDecimal(d decimal.Decimal) Cents {
	return Cents{d: d.Round(0)}
}

// Parse reads an integer cent string such as "4000000" or "-150".
func Parse(s string) (Cents, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Zero, fmt.Errorf("empty cent amount")
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return Zero, fmt.Errorf("invalid cent amount %q: %w", s, err)
	}
	if !d.IsInteger() {
		return Zero, fmt.Errorf("cent amount %q is not an integer", s)
	}
	return Cents{d: d}, nil
}

// MustParse is Parse for values known to be valid, such as test fixtures.
func MustParse(s string) Cents {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Decimal returns the amount in cents as a decimal.
func (c Cents) Decimal() decimal.Decimal {
	return c.d
}

// Units returns the amount in currency units (cents / 100).
func (c Cents) Units() decimal.Decimal {
	return c.d.Div(centsPerUnit)
}

func (c Cents) Add(o Cents) Cents { return Cents{d: c.d.Add(o.d)} }
func (c Cents) Sub(o Cents) Cents { return Cents{d: c.d.Sub(o.d)} }
func (c Cents) Neg() Cents        { return Cents{d: c.d.Neg()} }

// Mul multiplies by an exact factor and rounds once, half away from zero.
func (c Cents) Mul(factor decimal.Decimal) Cents {
	return FromDecimal(c.d.Mul(factor))
}

// PercentOf returns round(c x basis / 10000), where basis is a percentage
// scaled by 100 (1000 = 10%).
func (c Cents) PercentOf(basis Cents) Cents {
	return FromDecimal(c.d.Mul(basis.d).Div(basisPoints))
}

func (c Cents) Equal(o Cents) bool    { return c.d.Equal(o.d) }
func (c Cents) LessThan(o Cents) bool { return c.d.LessThan(o.d) }
func (c Cents) IsZero() bool          { return c.d.IsZero() }
func (c Cents) IsNegative() bool      { return c.d.IsNegative() }

// Int64 returns the amount as int64. Callers must know it fits.
func (c Cents) Int64() int64 {
	return c.d.IntPart()
}

// String returns the integer cent representation, e.g. "-200000".
func (c Cents) String() string {
	return c.d.String()
}

// MarshalJSON encodes the amount as a quoted integer string.
func (c Cents) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts a quoted integer string or a bare integer.
func (c *Cents) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*c = Zero
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = s
	}
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML encodes the amount as an integer string.
func (c Cents) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// Value stores the amount as its integer string.
func (c Cents) Value() (driver.Value, error) {
	return c.String(), nil
}

// Scan reads an amount stored as text or integer.
func (c *Cents) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*c = Zero
		return nil
	case int64:
		*c = FromInt64(v)
		return nil
	case string:
		parsed, err := Parse(v)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	case []byte:
		parsed, err := Parse(string(v))
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into money.Cents", value)
	}
}

// GormDataType keeps amounts exact in every dialect.
func (Cents) GormDataType() string {
	return "text"
}
