package engine

import (
	"fjacquet/daily-budget/internal/currencyutils"
	"fjacquet/daily-budget/internal/models"

	"github.com/shopspring/decimal"
)

type distribution struct {
	redistributed     decimal.Decimal
	unabsorbedSurplus decimal.Decimal
	unabsorbedDeficit decimal.Decimal
}

// distribute spreads pool over the remaining days in proportion to their
// temporal budgets. Each day is clamped to
// [temporal*MinDailyRatio, temporal*(1+buffer)] and whatever a day cannot
// take is carried to the next one in date order. The allocations are written
// into days in place.
func (e *Engine) distribute(days []models.DayAllocation, pool, buffer decimal.Decimal, places int32) distribution {
	total := decimal.Zero
	for _, d := range days {
		total = total.Add(d.TemporalBudget)
	}
	count := decimal.NewFromInt(int64(len(days)))
	one := decimal.NewFromInt(1)

	raw := make([]decimal.Decimal, len(days))
	carry := decimal.Zero
	for i, d := range days {
		t := d.TemporalBudget
		var share decimal.Decimal
		if total.IsPositive() {
			share = pool.Mul(t).Div(total)
		} else {
			share = pool.Div(count)
		}

		desired := t.Add(share).Add(carry)
		floor := t.Mul(e.cfg.MinDailyRatio)
		ceiling := t.Mul(one.Add(buffer))

		alloc := desired
		if alloc.GreaterThan(ceiling) {
			alloc = ceiling
		}
		if alloc.LessThan(floor) {
			alloc = floor
		}
		carry = desired.Sub(alloc)
		raw[i] = alloc
	}

	rounded := currencyutils.RoundSeries(raw, places)
	allocated := decimal.Zero
	for i := range days {
		days[i].AllocatedAmount = rounded[i]
		allocated = allocated.Add(rounded[i])
	}

	out := distribution{
		redistributed:     allocated.Sub(total),
		unabsorbedSurplus: decimal.Zero,
		unabsorbedDeficit: decimal.Zero,
	}
	// pool = redistributed + unabsorbed surplus - unabsorbed deficit
	left := pool.Sub(out.redistributed)
	if left.IsPositive() {
		out.unabsorbedSurplus = left
	} else if left.IsNegative() {
		out.unabsorbedDeficit = left.Neg()
	}
	return out
}
