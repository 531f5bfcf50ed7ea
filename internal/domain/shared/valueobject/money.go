package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is a value object representing a monetary amount in integer minor
// units (centavos). All arithmetic stays in int64 so that summing large
// entry counts never accumulates floating-point drift; decimal conversion
// happens only at the presentation boundary.
// It is immutable - all operations return new Money instances.
type Money struct {
	cents int64
}

// NewMoneyFromCents creates Money from an amount in centavos
func NewMoneyFromCents(cents int64) Money {
	return Money{cents: cents}
}

// NewMoneyFromDecimal creates Money from a decimal amount in reais,
// rounding to the nearest centavo
func NewMoneyFromDecimal(amount decimal.Decimal) Money {
	return Money{cents: amount.Round(2).Mul(decimal.NewFromInt(100)).IntPart()}
}

// NewMoneyFromFloat creates Money from a float64 amount in reais
func NewMoneyFromFloat(amount float64) Money {
	return NewMoneyFromDecimal(decimal.NewFromFloat(amount))
}

// NewMoneyFromString creates Money from a string representation in reais
func NewMoneyFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoneyFromDecimal(d), nil
}

// Zero returns a zero-value Money
func Zero() Money {
	return Money{}
}

// Cents returns the amount in centavos
func (m Money) Cents() int64 {
	return m.cents
}

// Decimal returns the amount as a decimal in reais
func (m Money) Decimal() decimal.Decimal {
	return decimal.NewFromInt(m.cents).Div(decimal.NewFromInt(100))
}

// Float64 returns the amount in reais as a float64 (presentation only)
func (m Money) Float64() float64 {
	f, _ := m.Decimal().Float64()
	return f
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.cents == 0
}

// IsPositive returns true if the amount is greater than zero
func (m Money) IsPositive() bool {
	return m.cents > 0
}

// IsNegative returns true if the amount is less than zero
func (m Money) IsNegative() bool {
	return m.cents < 0
}

// Add returns a new Money with the sum of both amounts
func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// Subtract returns a new Money with the difference
func (m Money) Subtract(other Money) Money {
	return Money{cents: m.cents - other.cents}
}

// Negate returns a new Money with the sign reversed
func (m Money) Negate() Money {
	return Money{cents: -m.cents}
}

// Abs returns a new Money with the absolute value
func (m Money) Abs() Money {
	if m.cents < 0 {
		return Money{cents: -m.cents}
	}
	return m
}

// Equals returns true if both amounts are equal
func (m Money) Equals(other Money) bool {
	return m.cents == other.cents
}

// LessThan returns true if this Money is less than the other
func (m Money) LessThan(other Money) bool {
	return m.cents < other.cents
}

// GreaterThan returns true if this Money is greater than the other
func (m Money) GreaterThan(other Money) bool {
	return m.cents > other.cents
}

// CalculatePercentage returns the given percentage of this Money,
// rounded to the nearest centavo
func (m Money) CalculatePercentage(percent decimal.Decimal) Money {
	amount := m.Decimal().Mul(percent).Div(decimal.NewFromInt(100))
	return NewMoneyFromDecimal(amount)
}

// String returns the amount formatted with two decimal places
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// MarshalJSON implements json.Marshaler, emitting the decimal string form
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON implements json.Unmarshaler, accepting the decimal string form
func (m *Money) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := NewMoneyFromString(s)
	if err != nil {
		return err
	}
	m.cents = parsed.cents
	return nil
}

// Value implements driver.Valuer for database storage; stored as centavos
func (m Money) Value() (driver.Value, error) {
	return m.cents, nil
}

// Scan implements sql.Scanner for database retrieval
func (m *Money) Scan(value any) error {
	if value == nil {
		m.cents = 0
		return nil
	}
	switch v := value.(type) {
	case int64:
		m.cents = v
	case int:
		m.cents = int64(v)
	case []byte:
		d, err := decimal.NewFromString(string(v))
		if err != nil {
			return fmt.Errorf("invalid money value: %w", err)
		}
		m.cents = d.IntPart()
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}
	return nil
}
