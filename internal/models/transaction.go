// Package models provides the data structures shared by the budgeting pipeline.
package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one spending record from the caller's ledger.
// Positive amounts are spending, negative amounts are refunds.
type Transaction struct {
	ID          string    `json:"id" yaml:"id"`
	Date        time.Time `json:"date" yaml:"date"`
	Amount      Money     `json:"amount" yaml:"amount"`
	Category    string    `json:"category" yaml:"category"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
}

// NewTransaction builds a Transaction, normalising the date to a calendar day
// and the category name.
func NewTransaction(id string, date time.Time, amount decimal.Decimal, currency, category string) Transaction {
	return Transaction{
		ID:       id,
		Date:     time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		Amount:   NewMoney(amount, currency),
		Category: NormalizeCategory(category),
	}
}

// NormalizeCategory trims the name and maps blanks to CategoryUncategorized.
func NormalizeCategory(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return CategoryUncategorized
	}
	return strings.ToLower(name)
}
