package engine

import "github.com/shopspring/decimal"

var (
	transitionPenalty = decimal.RequireFromString("0.15")
	sparsePenalty     = decimal.RequireFromString("0.5")
	confidenceFloor   = decimal.RequireFromString("0.5")
)

// confidence starts at 1, loses transitionPenalty near a tier boundary and
// up to sparsePenalty in proportion to the share of elapsed days without any
// recorded transaction. It never drops below confidenceFloor.
func confidence(inTransition bool, elapsed, emptyDays int) decimal.Decimal {
	c := decimal.NewFromInt(1)
	if inTransition {
		c = c.Sub(transitionPenalty)
	}
	if elapsed > 0 && emptyDays > 0 {
		fraction := decimal.NewFromInt(int64(emptyDays)).Div(decimal.NewFromInt(int64(elapsed)))
		c = c.Sub(sparsePenalty.Mul(fraction))
	}
	if c.LessThan(confidenceFloor) {
		c = confidenceFloor
	}
	return c.Round(4)
}
