// Package budgeterror defines the typed errors returned by the budgeting
// pipeline. Every type matches a package sentinel through errors.Is and can be
// unpacked with errors.As.
package budgeterror

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidInput marks malformed or out-of-domain input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrBudgetInfeasible marks a period whose commitments and savings exceed income.
	ErrBudgetInfeasible = errors.New("budget infeasible")
	// ErrInconsistentCurrency marks a transaction set spanning several currencies.
	ErrInconsistentCurrency = errors.New("inconsistent currency")
)

// InvalidInputError reports a rejected input field.
type InvalidInputError struct {
	Field  string
	Value  string
	Reason string
	Err    error
}

// NewInvalidInput builds an InvalidInputError.
func NewInvalidInput(field, value, reason string) *InvalidInputError {
	return &InvalidInputError{Field: field, Value: value, Reason: reason}
}

func (e *InvalidInputError) Error() string {
	msg := fmt.Sprintf("invalid %s", e.Field)
	if e.Value != "" {
		msg += fmt.Sprintf("='%s'", e.Value)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *InvalidInputError) Unwrap() error { return e.Err }

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

// BudgetInfeasibleError is returned when fixed commitments plus savings leave
// nothing to spend. Shortfall is the positive amount missing.
type BudgetInfeasibleError struct {
	Income           decimal.Decimal
	FixedCommitments decimal.Decimal
	SavingsTarget    decimal.Decimal
	Shortfall        decimal.Decimal
}

// NewBudgetInfeasible derives the shortfall from the three period amounts.
// A zero shortfall is reported when available spending is exactly zero.
func NewBudgetInfeasible(income, fixed, savings decimal.Decimal) *BudgetInfeasibleError {
	shortfall := fixed.Add(savings).Sub(income)
	if shortfall.IsNegative() {
		shortfall = decimal.Zero
	}
	return &BudgetInfeasibleError{
		Income:           income,
		FixedCommitments: fixed,
		SavingsTarget:    savings,
		Shortfall:        shortfall,
	}
}

func (e *BudgetInfeasibleError) Error() string {
	return fmt.Sprintf("budget infeasible: commitments %s + savings %s leave nothing of income %s (shortfall %s)",
		e.FixedCommitments.String(), e.SavingsTarget.String(), e.Income.String(), e.Shortfall.String())
}

func (e *BudgetInfeasibleError) Is(target error) bool { return target == ErrBudgetInfeasible }

// InconsistentCurrencyError reports the first transaction whose currency
// differs from the period currency.
type InconsistentCurrencyError struct {
	Expected      string
	Found         string
	TransactionID string
}

func (e *InconsistentCurrencyError) Error() string {
	if e.TransactionID != "" {
		return fmt.Sprintf("inconsistent currency: expected %s, transaction %s is in %s",
			e.Expected, e.TransactionID, e.Found)
	}
	return fmt.Sprintf("inconsistent currency: expected %s, found %s", e.Expected, e.Found)
}

// Is matches both ErrInconsistentCurrency and ErrInvalidInput.
func (e *InconsistentCurrencyError) Is(target error) bool {
	return target == ErrInconsistentCurrency || target == ErrInvalidInput
}

// IsClientError reports whether err is caused by caller input rather than by
// the environment.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrBudgetInfeasible)
}
