// Package advisor produces an optional plain-language note about a plan. The
// note is informational: nothing in the budgeting path depends on it.
package advisor

import (
	"context"
	"time"

	"fjacquet/daily-budget/internal/models"

	"github.com/shopspring/decimal"
)

// Advisor writes a short note about a plan.
type Advisor interface {
	Advise(ctx context.Context, summary Summary) (string, error)
}

// Summary carries the aggregate numbers an advisor may see. It never holds
// transaction descriptions or identifiers.
type Summary struct {
	Tier              models.IncomeTier
	Currency          string
	Available         decimal.Decimal
	BaseDailyBudget   decimal.Decimal
	DaysElapsed       int
	DaysRemaining     int
	SurplusPool       decimal.Decimal
	UnabsorbedDeficit decimal.Decimal
	UnabsorbedSurplus decimal.Decimal
	Confidence        decimal.Decimal
	Methodology       models.Methodology
	// NextAllocation is the allocation of the first remaining day, if any.
	NextAllocation *decimal.Decimal
	NextDate       *time.Time
}

// NewSummary extracts the aggregates of a result.
func NewSummary(classification models.IncomeClassification, result *models.RedistributionResult) Summary {
	s := Summary{
		Tier:              classification.Tier,
		Currency:          result.Currency,
		Available:         result.AvailableForSpending,
		BaseDailyBudget:   result.BaseDailyBudget,
		SurplusPool:       result.SurplusPool,
		UnabsorbedDeficit: result.UnabsorbedDeficit,
		UnabsorbedSurplus: result.UnabsorbedSurplus,
		Confidence:        result.Confidence,
		Methodology:       result.Methodology,
	}
	for _, d := range result.DayAllocations {
		if d.Elapsed {
			s.DaysElapsed++
			continue
		}
		if s.NextAllocation == nil {
			amount, date := d.AllocatedAmount, d.Date
			s.NextAllocation, s.NextDate = &amount, &date
		}
		s.DaysRemaining++
	}
	return s
}

// Noop never says anything.
type Noop struct{}

// Advise returns an empty note.
func (Noop) Advise(context.Context, Summary) (string, error) {
	return "", nil
}
