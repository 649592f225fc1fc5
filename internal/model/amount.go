package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of fractional digits kept for money values.
const AmountScale = 2

// maxAmountExponent bounds the decimal exponent accepted before rounding.
const maxAmountExponent = 18

// maxAmount is the exclusive magnitude limit of NUMERIC(12,2).
var maxAmount = decimal.New(1, 10)

// ErrAmountOutOfRange is returned for amounts that cannot be stored exactly.
var ErrAmountOutOfRange = errors.New("amount out of range")

// Amount is a signed fixed-point money value.
// It is stored as NUMERIC(12,2) and serialized as a bare JSON number
// with exactly two fractional digits, e.g. 42.50.
type Amount struct {
	decimal.Decimal
}

// NewAmount rounds d to AmountScale and wraps it.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d.Round(AmountScale)}
}

// AmountFromCents builds an Amount from an integer number of cents.
func AmountFromCents(cents int64) Amount {
	return Amount{Decimal: decimal.New(cents, -AmountScale)}
}

// ParseAmount parses a decimal string such as "42.50" or "-3".
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return boundedAmount(d)
}

// boundedAmount rounds d after checking its exponent and magnitude.
func boundedAmount(d decimal.Decimal) (Amount, error) {
	if exp := d.Exponent(); exp < -maxAmountExponent || exp > maxAmountExponent {
		return Amount{}, ErrAmountOutOfRange
	}
	a := NewAmount(d)
	if !a.InRange() {
		return Amount{}, ErrAmountOutOfRange
	}
	return a, nil
}

// InRange reports whether the amount fits NUMERIC(12,2).
func (a Amount) InRange() bool {
	return a.Abs().LessThan(maxAmount)
}

// MustParseAmount is ParseAmount for literals. It panics on bad input.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Cents returns the amount as an integer count of cents.
func (a Amount) Cents() (int64, error) {
	if !a.InRange() {
		return 0, ErrAmountOutOfRange
	}
	return a.Shift(AmountScale).IntPart(), nil
}

// String returns the amount with exactly two fractional digits.
func (a Amount) String() string {
	return a.StringFixed(AmountScale)
}

// MarshalJSON encodes the amount as a JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.StringFixed(AmountScale)), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted decimal strings.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	bounded, err := boundedAmount(d)
	if err != nil {
		return err
	}
	*a = bounded
	return nil
}
