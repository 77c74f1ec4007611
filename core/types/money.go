// Package types - Money types
package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code
type Currency string

const (
	CurrencySEK Currency = "SEK"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// Money is a fee amount in a currency
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency"`
}

// NewMoney wraps an integer fee
func NewMoney(units int, currency Currency) Money {
	if currency == "" {
		currency = CurrencySEK
	}
	return Money{Amount: decimal.NewFromInt(int64(units)), Currency: currency}
}

// Add sums two amounts of the same currency
func (m Money) Add(other Money) Money {
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}
}

// String renders the amount with two decimals, e.g. "47.00 SEK"
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.StringFixed(2), m.Currency)
}
