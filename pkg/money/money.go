package money

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an exact fixed-point monetary amount. It wraps a decimal so that
// balance arithmetic never drifts the way float64 would; amounts replayed
// over a wallet's transaction history must reproduce every recorded
// balance-after to the cent.
type Money struct {
	d decimal.Decimal
}

// Zero is the zero amount.
var Zero = Money{}

// New creates a Money from a decimal value.
func New(d decimal.Decimal) Money {
	return Money{d: d}
}

// FromString parses a decimal string like "125.50" into a Money.
func FromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("parse money %q: %w", s, err)
	}
	return Money{d: d}, nil
}

// FromInt creates a Money from a whole number of currency units.
func FromInt(n int64) Money {
	return Money{d: decimal.NewFromInt(n)}
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{d: m.d.Add(other.d)}
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return Money{d: m.d.Sub(other.d)}
}

// Mul returns m * factor.
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{d: m.d.Mul(factor)}
}

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{d: m.d.Neg()}
}

// Cmp compares m and other: -1 if m < other, 0 if equal, +1 if m > other.
func (m Money) Cmp(other Money) int {
	return m.d.Cmp(other.d)
}

// Equal reports whether m and other represent the same amount.
func (m Money) Equal(other Money) bool {
	return m.d.Equal(other.d)
}

// IsPositive reports whether m > 0.
func (m Money) IsPositive() bool {
	return m.d.IsPositive()
}

// IsNegative reports whether m < 0.
func (m Money) IsNegative() bool {
	return m.d.IsNegative()
}

// IsZero reports whether m == 0.
func (m Money) IsZero() bool {
	return m.d.IsZero()
}

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return m.d
}

// String renders the amount as a plain decimal string.
func (m Money) String() string {
	return m.d.String()
}

// minorUnits maps ISO 4217 currencies with non-standard fraction digits.
// Anything not listed uses 2.
var minorUnits = map[string]int32{
	"JPY": 0,
	"KRW": 0,
	"VND": 0,
	"BHD": 3,
	"KWD": 3,
	"OMR": 3,
}

// FractionDigits returns the number of fraction digits for a currency.
func FractionDigits(currency string) int32 {
	if n, ok := minorUnits[currency]; ok {
		return n
	}
	return 2
}

// ValidScale reports whether m carries no more fraction digits than the
// currency permits. "10.005" is not a valid USD amount.
func (m Money) ValidScale(currency string) bool {
	return m.d.Exponent() >= -FractionDigits(currency)
}

// StringFixed renders the amount with the currency's exact fraction
// digits: "100.3" goes out as "100.30" for USD and "1000" stays "1000"
// for JPY. API responses use this form, never the trimmed String.
func (m Money) StringFixed(currency string) string {
	return m.d.StringFixed(FractionDigits(currency))
}

// Scan implements sql.Scanner, accepting NUMERIC column values.
func (m *Money) Scan(src any) error {
	return m.d.Scan(src)
}

// Value implements driver.Valuer.
func (m Money) Value() (driver.Value, error) {
	return m.d.Value()
}

// MarshalJSON renders the amount as a quoted decimal string so no caller
// ever sees a float.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.d.String() + `"`), nil
}

// UnmarshalJSON accepts both quoted and bare decimal literals.
func (m *Money) UnmarshalJSON(data []byte) error {
	return m.d.UnmarshalJSON(data)
}
