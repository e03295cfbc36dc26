package types

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/shopcart/pkg/errors"
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits every Money carries.
const MoneyScale = 2

// Money is an exact currency amount with exactly two fractional digits.
// The zero value is 0.00.
type Money struct {
	amount decimal.Decimal
}

// NewMoney validates that amount has at most two fractional digits.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.Exponent() < -MoneyScale {
		return Money{}, pkgerrors.New(pkgerrors.CodeInvalidAmount,
			fmt.Sprintf("number of decimals is %d, money can only have %d", -amount.Exponent(), MoneyScale)).
			WithDetails(map[string]any{"amount": amount.String()})
	}
	return Money{amount: normalize(amount)}, nil
}

// NewMoneyFromString parses a plain decimal string such as "15.02".
func NewMoneyFromString(amount string) (Money, error) {
	if amount == "" {
		return Money{}, pkgerrors.New(pkgerrors.CodeInvalidAmount, "amount cannot be empty")
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, pkgerrors.Wrap(pkgerrors.CodeInvalidAmount, err, "amount is not a number").
			WithDetails(map[string]any{"amount": amount})
	}
	return NewMoney(parsed)
}

// NewMoneyFromFloat goes through the float's shortest string form so 8.43
// becomes exactly 8.43 instead of its binary expansion.
func NewMoneyFromFloat(amount float64) (Money, error) {
	parsed, err := DecimalFromFloat(amount)
	if err != nil {
		return Money{}, err
	}
	return NewMoney(parsed)
}

// MustMoney panics when amount is not valid money. Meant for constants and tests.
func MustMoney(amount string) Money {
	m, err := NewMoneyFromString(amount)
	if err != nil {
		panic(err)
	}
	return m
}

// ZeroMoney returns 0.00.
func ZeroMoney() Money {
	return Money{amount: normalize(decimal.Zero)}
}

// DecimalFromFloat converts f through strconv's shortest representation.
func DecimalFromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Decimal{}, pkgerrors.New(pkgerrors.CodeInvalidAmount, "amount must be a finite number")
	}
	return decimal.NewFromString(strconv.FormatFloat(f, 'f', -1, 64))
}

// Get returns the amount at exactly two fractional digits.
func (m Money) Get() decimal.Decimal {
	return normalize(m.amount)
}

// MultiplyByFactorWithBankersRounding multiplies by factor and rounds half-to-even
// to two fractional digits.
func (m Money) MultiplyByFactorWithBankersRounding(factor float64) (Money, error) {
	f, err := DecimalFromFloat(factor)
	if err != nil {
		return Money{}, err
	}
	return m.MulRoundBank(f), nil
}

// MulRoundBank is MultiplyByFactorWithBankersRounding with an exact factor.
func (m Money) MulRoundBank(factor decimal.Decimal) Money {
	return Money{amount: normalize(m.amount.Mul(factor).RoundBank(MoneyScale))}
}

// Add sums two amounts exactly.
func (m Money) Add(other Money) Money {
	return Money{amount: normalize(m.amount.Add(other.amount))}
}

func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

func (m Money) String() string {
	return m.amount.StringFixed(MoneyScale)
}

// MarshalJSON writes the amount as a bare JSON number, e.g. 15.02.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted number.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInvalidAmount, err, "amount is not a number")
	}
	parsed, err := NewMoney(d)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements driver.Valuer so Money can back a numeric(…,2) column.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

// Scan implements sql.Scanner. Drivers hand numerics back as text, bytes,
// integers or floats depending on the backend.
func (m *Money) Scan(value interface{}) error {
	var (
		parsed Money
		err    error
	)
	switch v := value.(type) {
	case nil:
		*m = ZeroMoney()
		return nil
	case string:
		parsed, err = NewMoneyFromString(strings.TrimSpace(v))
	case []byte:
		parsed, err = NewMoneyFromString(strings.TrimSpace(string(v)))
	case int64:
		parsed, err = NewMoney(decimal.NewFromInt(v))
	case float64:
		parsed, err = NewMoneyFromFloat(v)
	default:
		return fmt.Errorf("money: unsupported scan type %T", value)
	}
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func normalize(d decimal.Decimal) decimal.Decimal {
	return decimal.NewFromBigInt(d.Shift(MoneyScale).BigInt(), -MoneyScale)
}
