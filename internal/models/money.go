package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount tagged with its ISO 4217 currency code.
type Money struct {
	Amount   decimal.Decimal `json:"amount" yaml:"amount"`
	Currency string          `json:"currency" yaml:"currency"`
}

// NewMoney creates a Money value. The currency code is upper-cased.
func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{
		Amount:   amount,
		Currency: normalizeCurrency(currency),
	}
}

// NewMoneyFromString parses amount and returns it as Money.
func NewMoneyFromString(amount, currency string) (Money, error) {
	dec, err := ParseAmount(amount)
	if err != nil {
		return Money{}, err
	}
	return NewMoney(dec, currency), nil
}

// ZeroMoney returns a zero amount in the given currency.
func ZeroMoney(currency string) Money {
	return NewMoney(decimal.Zero, currency)
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

// SameCurrency reports whether both values use the same currency code.
func (m Money) SameCurrency(other Money) bool {
	return m.Currency == other.Currency
}

// Add adds another Money value to this one.
// Returns an error if currencies don't match.
func (m Money) Add(other Money) (Money, error) {
	if !m.SameCurrency(other) {
		return Money{}, fmt.Errorf("cannot add different currencies: %s and %s", m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Sub subtracts another Money value from this one.
// Returns an error if currencies don't match.
func (m Money) Sub(other Money) (Money, error) {
	if !m.SameCurrency(other) {
		return Money{}, fmt.Errorf("cannot subtract different currencies: %s and %s", m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}, nil
}

// Round rounds the amount half away from zero to the given number of places.
func (m Money) Round(places int32) Money {
	return Money{Amount: m.Amount.Round(places), Currency: m.Currency}
}

// String returns "12.50 CHF".
func (m Money) String() string {
	if m.Currency == "" {
		return m.Amount.StringFixed(2)
	}
	return fmt.Sprintf("%s %s", m.Amount.StringFixed(2), m.Currency)
}

// ParseAmount parses amounts as they show up in bank exports: "1'234.50",
// "1 234,50", "-12.00 CHF".
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	amount := strings.TrimSpace(amountStr)
	if amount == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	// Strip a trailing or leading alphabetic currency code
	amount = strings.TrimFunc(amount, func(r rune) bool {
		return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || r == ' '
	})
	amount = strings.NewReplacer("'", "", " ", "", "\u00a0", "").Replace(amount)

	// A lone comma is a decimal separator, otherwise commas group thousands
	if strings.Count(amount, ",") == 1 && !strings.Contains(amount, ".") {
		amount = strings.Replace(amount, ",", ".", 1)
	} else {
		amount = strings.ReplaceAll(amount, ",", "")
	}

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount string '%s': %w", amountStr, err)
	}
	return dec, nil
}

func normalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
