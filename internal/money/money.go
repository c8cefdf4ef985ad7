package money

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a currency amount in integer paise (1/100 rupee).
// All ledger arithmetic happens on this type so balances never drift
// the way float64 rupees would across many payments.
type Amount int64

// Zero is the zero amount.
const Zero Amount = 0

var hundred = decimal.NewFromInt(100)

// FromRupees converts a whole-rupee integer to paise.
func FromRupees(r int64) Amount {
	return Amount(r * 100)
}

// FromDecimal converts an exact decimal rupee value to paise.
// Values with more than two decimal places are rejected rather than rounded.
func FromDecimal(d decimal.Decimal) (Amount, error) {
	if d.Exponent() < -2 {
		return 0, fmt.Errorf("amount %s has sub-paise precision", d.String())
	}
	paise := d.Mul(hundred)
	if !paise.IsInteger() {
		return 0, fmt.Errorf("amount %s has sub-paise precision", d.String())
	}
	bi := paise.BigInt()
	if !bi.IsInt64() {
		return 0, fmt.Errorf("amount %s is outside the representable range", d.String())
	}
	return Amount(bi.Int64()), nil
}

// Parse parses a decimal rupee string like "25000" or "1250.50".
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return FromDecimal(d)
}

// Decimal returns the amount as exact decimal rupees.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

// Rupees returns the amount as float64 rupees. Display only, never
// fed back into ledger arithmetic.
func (a Amount) Rupees() float64 {
	f, _ := a.Decimal().Float64()
	return f
}

// String formats the amount as decimal rupees with two places.
func (a Amount) String() string {
	return a.Decimal().StringFixed(2)
}

// IsNegative reports whether the amount is below zero.
func (a Amount) IsNegative() bool { return a < 0 }

// IsPositive reports whether the amount is above zero.
func (a Amount) IsPositive() bool { return a > 0 }

// ClampZero returns the amount floored at zero. Presentation helper for
// "due" badges; ledger values themselves are never clamped.
func (a Amount) ClampZero() Amount {
	if a < 0 {
		return 0
	}
	return a
}

// MarshalJSON emits the amount as a decimal rupee string, e.g. "17000.00".
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON accepts either a JSON number or a decimal string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Value implements driver.Valuer; amounts are stored as BIGINT paise.
func (a Amount) Value() (driver.Value, error) {
	return int64(a), nil
}

// Scan implements sql.Scanner for BIGINT paise columns.
func (a *Amount) Scan(src interface{}) error {
	switch v := src.(type) {
	case int64:
		*a = Amount(v)
		return nil
	case nil:
		*a = 0
		return nil
	default:
		return fmt.Errorf("cannot scan %T into money.Amount", src)
	}
}
