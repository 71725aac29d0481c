package domain

import (
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places every reported amount is rounded to.
const MoneyPlaces = 2

// Money is a reported monetary amount. It is rounded once, when constructed,
// and renders as a JSON number with exactly two decimals.
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d.Round(MoneyPlaces)}
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.StringFixed(MoneyPlaces)), nil
}

// Quantity renders a decimal as a bare JSON number without rounding.
type Quantity struct {
	decimal.Decimal
}

func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(q.String()), nil
}
