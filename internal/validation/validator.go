// Package validation holds the post-condition checks applied to a
// redistribution result, plus the small input checks used by the commands.
package validation

import (
	"fmt"
	"time"

	"fjacquet/daily-budget/internal/currencyutils"
	"fjacquet/daily-budget/internal/logging"
	"fjacquet/daily-budget/internal/models"

	"github.com/shopspring/decimal"
)

var categoryRelativeTolerance = decimal.RequireFromString("0.01")

// Validator checks a result without changing it. Violations are data: the
// result stays usable and the caller decides whether to show it.
type Validator struct {
	tolerance decimal.Decimal
	logger    logging.Logger
}

// NewValidator creates a Validator. tolerance is the rounding slack allowed on
// the period total.
func NewValidator(tolerance decimal.Decimal, logger logging.Logger) *Validator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if tolerance.IsNegative() {
		tolerance = decimal.Zero
	}
	return &Validator{tolerance: tolerance, logger: logger}
}

// Validate runs every check and returns all violations found.
func (v *Validator) Validate(result *models.RedistributionResult, period models.BudgetPeriod) models.ValidationOutcome {
	var violations []models.Violation

	committed := period.FixedCommitments.Add(period.SavingsTarget)
	if committed.GreaterThan(period.MonthlyIncome) {
		over := committed.Sub(period.MonthlyIncome)
		violations = append(violations, models.Violation{
			Code:    models.ViolationCommitmentsExceedIncome,
			Amount:  &over,
			Message: fmt.Sprintf("fixed commitments and savings exceed income by %s", over.String()),
		})
	}

	if result == nil {
		violations = append(violations, models.Violation{
			Code:    models.ViolationDayCountMismatch,
			Message: "no allocations produced",
		})
		return v.outcome(period, violations)
	}

	violations = append(violations, v.checkDates(result.DayAllocations, period)...)
	violations = append(violations, v.checkAmounts(result, period)...)
	return v.outcome(period, violations)
}

func (v *Validator) outcome(period models.BudgetPeriod, violations []models.Violation) models.ValidationOutcome {
	out := models.ValidationOutcome{OK: len(violations) == 0, Violations: violations}
	if out.Violations == nil {
		out.Violations = []models.Violation{}
	}
	for _, viol := range violations {
		v.logger.Warn("Allocation check failed",
			logging.F(logging.FieldPeriod, period.Key()),
			logging.F(logging.FieldStatus, string(viol.Code)),
			logging.F("message", viol.Message))
	}
	return out
}

// checkDates verifies one entry per calendar day, in order, without gaps.
func (v *Validator) checkDates(days []models.DayAllocation, period models.BudgetPeriod) []models.Violation {
	var out []models.Violation

	if len(days) != period.Days() {
		out = append(out, models.Violation{
			Code:    models.ViolationDayCountMismatch,
			Message: fmt.Sprintf("expected %d days, got %d", period.Days(), len(days)),
		})
	}

	seen := make(map[string]bool, len(days))
	var prev time.Time
	for i, d := range days {
		date := models.Day(d.Date)
		key := models.DateKey(date)
		switch {
		case seen[key]:
			out = append(out, dateViolation(models.ViolationDuplicateDate, date, "date listed more than once"))
		case !period.Contains(date):
			out = append(out, dateViolation(models.ViolationDateOutOfOrder, date, "date outside the period"))
		case i > 0 && !date.After(prev):
			out = append(out, dateViolation(models.ViolationDateOutOfOrder, date, "date not after the previous entry"))
		}
		seen[key] = true
		prev = date
	}

	for _, date := range period.Dates() {
		if !seen[models.DateKey(date)] {
			out = append(out, dateViolation(models.ViolationMissingDate, date, "no allocation for this date"))
		}
	}
	return out
}

func (v *Validator) checkAmounts(result *models.RedistributionResult, period models.BudgetPeriod) []models.Violation {
	var out []models.Violation

	places, err := currencyutils.MinorUnits(period.Currency)
	if err != nil {
		places = currencyutils.DefaultPlaces
	}
	unit := currencyutils.SmallestUnit(places)

	for _, d := range result.DayAllocations {
		if d.AllocatedAmount.IsNegative() {
			amount := d.AllocatedAmount
			violation := dateViolation(models.ViolationNegativeAllocation, d.Date, fmt.Sprintf("allocation %s is negative", amount.String()))
			violation.Amount = &amount
			out = append(out, violation)
		}

		sum := decimal.Zero
		for _, part := range d.CategoryBreakdown {
			sum = sum.Add(part)
		}
		tolerance := d.AllocatedAmount.Abs().Mul(categoryRelativeTolerance)
		if byUnit := unit.Mul(decimal.NewFromInt(int64(len(d.CategoryBreakdown)))); byUnit.GreaterThan(tolerance) {
			tolerance = byUnit
		}
		if diff := sum.Sub(d.AllocatedAmount); diff.Abs().GreaterThan(tolerance) {
			violation := dateViolation(models.ViolationCategorySumMismatch, d.Date,
				fmt.Sprintf("categories sum to %s, allocation is %s", sum.String(), d.AllocatedAmount.String()))
			violation.Amount = &diff
			out = append(out, violation)
		}
	}

	available := period.AvailableForSpending()
	outlay := result.ProjectedOutlay()
	if outlay.GreaterThan(available.Add(v.tolerance)) {
		over := outlay.Sub(available)
		out = append(out, models.Violation{
			Code:    models.ViolationOverAllocation,
			Amount:  &over,
			Message: fmt.Sprintf("projected outlay %s exceeds available %s by %s", outlay.String(), available.String(), over.String()),
		})
	}
	return out
}

func dateViolation(code models.ViolationCode, date time.Time, msg string) models.Violation {
	d := models.Day(date)
	return models.Violation{Code: code, Date: &d, Message: msg}
}
