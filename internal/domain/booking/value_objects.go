package booking

import (
	"github.com/shopspring/decimal"
)

// Money is a non-negative decimal amount. Float arithmetic is never used.
type Money struct {
	amount decimal.Decimal
}

func NewMoney(d decimal.Decimal) (Money, error) {
	if d.IsNegative() {
		return Money{}, ErrNegativePrice
	}
	return Money{amount: d}, nil
}

func MustParseMoney(s string) Money {
	return Money{amount: decimal.RequireFromString(s)}
}

func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

func (m Money) Times(qty Quantity) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(qty.Int())))}
}

func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

// String renders two fractional digits, matching the NUMERIC(12,2) columns.
func (m Money) String() string {
	return m.amount.StringFixed(2)
}

type Quantity struct {
	value int
}

func NewQuantity(v int) (Quantity, error) {
	if v < 1 {
		return Quantity{}, ErrInvalidQuantity
	}
	return Quantity{value: v}, nil
}

func (q Quantity) Int() int {
	return q.value
}
