package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Methodology names the calculation path that produced a result.
type Methodology string

const (
	// MethodologyFullHistory redistributes elapsed surplus or deficit using spending history.
	MethodologyFullHistory Methodology = "full-history-aware"
	// MethodologyFallback allocates temporal budgets only, without history.
	MethodologyFallback Methodology = "fallback-default"
)

// DayAllocation is the budget assigned to one calendar day.
type DayAllocation struct {
	Date            time.Time       `json:"date"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount"`
	// ActualSpent is nil for future days and for elapsed days without history.
	ActualSpent       *decimal.Decimal           `json:"actual_spent,omitempty"`
	CategoryBreakdown map[string]decimal.Decimal `json:"category_breakdown"`
	// TemporalBudget is the pre-redistribution budget for the day.
	TemporalBudget decimal.Decimal `json:"temporal_budget"`
	Factor         decimal.Decimal `json:"factor"`
	Elapsed        bool            `json:"elapsed"`
	// Frozen marks elapsed values passed through from an earlier run.
	Frozen bool `json:"frozen"`
}

// RedistributionResult is the engine output for one run.
type RedistributionResult struct {
	DayAllocations       []DayAllocation `json:"day_allocations"`
	TotalRedistributed   decimal.Decimal `json:"total_redistributed"`
	SurplusPool          decimal.Decimal `json:"surplus_pool"`
	UnabsorbedDeficit    decimal.Decimal `json:"unabsorbed_deficit"`
	UnabsorbedSurplus    decimal.Decimal `json:"unabsorbed_surplus"`
	BaseDailyBudget      decimal.Decimal `json:"base_daily_budget"`
	AvailableForSpending decimal.Decimal `json:"available_for_spending"`
	Confidence           decimal.Decimal `json:"confidence"`
	Methodology          Methodology     `json:"methodology"`
	AsOf                 time.Time       `json:"as_of"`
	Currency             string          `json:"currency"`
}

// ElapsedDays returns the number of elapsed entries.
func (r *RedistributionResult) ElapsedDays() int {
	n := 0
	for _, d := range r.DayAllocations {
		if d.Elapsed {
			n++
		}
	}
	return n
}

// TotalAllocated sums AllocatedAmount over every day.
func (r *RedistributionResult) TotalAllocated() decimal.Decimal {
	total := decimal.Zero
	for _, d := range r.DayAllocations {
		total = total.Add(d.AllocatedAmount)
	}
	return total
}

// ProjectedOutlay is what the period will cost if remaining days spend exactly
// their allocation: actual spending for elapsed days with history, the
// allocation for every other day.
func (r *RedistributionResult) ProjectedOutlay() decimal.Decimal {
	total := decimal.Zero
	for _, d := range r.DayAllocations {
		if d.Elapsed && d.ActualSpent != nil {
			total = total.Add(*d.ActualSpent)
			continue
		}
		total = total.Add(d.AllocatedAmount)
	}
	return total
}

// Allocation returns the entry for date.
func (r *RedistributionResult) Allocation(date time.Time) (DayAllocation, bool) {
	key := DateKey(date)
	for _, d := range r.DayAllocations {
		if DateKey(d.Date) == key {
			return d, true
		}
	}
	return DayAllocation{}, false
}

// ElapsedAllocations returns the elapsed allocations keyed by date, ready to be frozen.
func (r *RedistributionResult) ElapsedAllocations() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, d := range r.DayAllocations {
		if d.Elapsed {
			out[DateKey(d.Date)] = d.AllocatedAmount
		}
	}
	return out
}
