package webullpnl

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Webull exports are denominated in US dollars only.
const currencyCode = "USD"

// Money represents an exact monetary value in USD.
//
// The value keeps its full precision through every computation; rounding to
// cents happens only when formatting for display, so running totals never
// accumulate rounding drift.
type Money struct {
	value decimal.Decimal // as major unit value
}

func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Money {
	return Money{value: newDecimal(value)}
}

// ParseMoney parses an amount from its decimal string representation.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{value: d}, nil
}

func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool           { return m.value.LessThan(n.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg()} }
func (m Money) Add(n Money) Money               { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money               { return Money{value: m.value.Sub(n.value)} }
func (m Money) Mul(q Quantity) Money            { return Money{value: m.value.Mul(q.value)} }
func (m Money) Div(q Quantity) Money            { return Money{value: m.value.Div(q.value)} }

// StringFixed returns the plain decimal representation rounded to the given
// number of places, without a currency symbol.
func (m Money) StringFixed(places int32) string { return m.value.StringFixed(places) }

// String returns the value formatted as a currency string, rounded to cents.
func (m Money) String() string {
	cur := money.GetCurrency(currencyCode)
	cents := m.value.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return money.New(cents.IntPart(), currencyCode).Display()
}

// SignedString is like String with an explicit sign for positive values.
func (m Money) SignedString() string {
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

// MarshalJSON implements the json.Marshaler interface.
func (m Money) MarshalJSON() ([]byte, error) {
	return m.value.MarshalJSON()
}
func (m *Money) UnmarshalJSON(decimalBytes []byte) error {
	return m.value.UnmarshalJSON(decimalBytes)
}
