package valueobject

import (
	"regexp"
	"strings"

	"booking-core/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)

var hundred = decimal.NewFromInt(100)

// Money is a non-negative decimal amount in a single currency.
type Money struct {
	amount   decimal.Decimal
	currency string
}

func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if !currencyRegex.MatchString(currency) {
		return Money{}, errs.NewValidation("currency", "currency must be a 3-letter ISO code")
	}
	if amount.IsNegative() {
		return Money{}, errs.NewValidation("amount", "amount cannot be negative")
	}
	return Money{amount: amount, currency: currency}, nil
}

func MustMoney(amount string, currency string) Money {
	m, err := NewMoney(decimal.RequireFromString(amount), currency)
	if err != nil {
		panic(err)
	}
	return m
}

func ZeroMoney(currency string) Money {
	return Money{amount: decimal.Zero, currency: strings.ToUpper(currency)}
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() string        { return m.currency }
func (m Money) IsZero() bool            { return m.amount.IsZero() }

func (m Money) String() string {
	return m.amount.StringFixed(2) + " " + m.currency
}

func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) Cmp(other Money) (int, error) {
	if err := m.sameCurrency(other); err != nil {
		return 0, err
	}
	return m.amount.Cmp(other.amount), nil
}

func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

func (m Money) Sub(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	result := m.amount.Sub(other.amount)
	if result.IsNegative() {
		return Money{}, errs.NewValidation("amount", "result cannot be negative")
	}
	return Money{amount: result, currency: m.currency}, nil
}

func (m Money) SubFloor(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	result := m.amount.Sub(other.amount)
	if result.IsNegative() {
		result = decimal.Zero
	}
	return Money{amount: result, currency: m.currency}, nil
}

// Percent returns pct/100 of m rounded to minor units.
func (m Money) Percent(pct decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(pct).Div(hundred).Round(2), currency: m.currency}
}

func (m Money) DivRound(divisor decimal.Decimal) Money {
	return Money{amount: m.amount.Div(divisor).Round(2), currency: m.currency}
}

// MinorUnits returns the amount in cents, as payment gateways expect.
func (m Money) MinorUnits() int64 {
	return m.amount.Shift(2).Round(0).IntPart()
}

func (m Money) sameCurrency(other Money) error {
	if m.currency != other.currency {
		return errs.NewValidation("currency", "currency mismatch: "+m.currency+" vs "+other.currency)
	}
	return nil
}
