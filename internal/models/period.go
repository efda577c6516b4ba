package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BudgetPeriod is one budgeting window (normally a calendar month) for one user.
// Start and End are inclusive calendar days in UTC.
type BudgetPeriod struct {
	Start            time.Time       `json:"period_start"`
	End              time.Time       `json:"period_end"`
	MonthlyIncome    decimal.Decimal `json:"monthly_income"`
	FixedCommitments decimal.Decimal `json:"fixed_commitments"`
	SavingsTarget    decimal.Decimal `json:"savings_target"`
	Currency         string          `json:"currency"`
}

// NewMonthlyPeriod returns the BudgetPeriod covering the whole calendar month.
func NewMonthlyPeriod(year int, month time.Month, income, fixed, savings decimal.Decimal, currency string) BudgetPeriod {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return BudgetPeriod{
		Start:            start,
		End:              start.AddDate(0, 1, -1),
		MonthlyIncome:    income,
		FixedCommitments: fixed,
		SavingsTarget:    savings,
		Currency:         normalizeCurrency(currency),
	}
}

// Days returns the number of calendar days in the period, 0 if End is before Start.
func (p BudgetPeriod) Days() int {
	if p.End.Before(p.Start) {
		return 0
	}
	return int(Day(p.End).Sub(Day(p.Start)).Hours()/24) + 1
}

// Dates returns every calendar day of the period in order.
func (p BudgetPeriod) Dates() []time.Time {
	n := p.Days()
	dates := make([]time.Time, 0, n)
	start := Day(p.Start)
	for i := 0; i < n; i++ {
		dates = append(dates, start.AddDate(0, 0, i))
	}
	return dates
}

// Contains reports whether date falls within [Start, End].
func (p BudgetPeriod) Contains(date time.Time) bool {
	d := Day(date)
	return !d.Before(Day(p.Start)) && !d.After(Day(p.End))
}

// AvailableForSpending is income minus fixed commitments minus the savings target.
// It can be negative; callers decide how to treat that.
func (p BudgetPeriod) AvailableForSpending() decimal.Decimal {
	return p.MonthlyIncome.Sub(p.FixedCommitments).Sub(p.SavingsTarget)
}

// Key identifies the period window, e.g. "2024-09-01_2024-09-30".
func (p BudgetPeriod) Key() string {
	return fmt.Sprintf("%s_%s", DateKey(p.Start), DateKey(p.End))
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateKey formats the calendar day of t as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format(ISODate)
}
