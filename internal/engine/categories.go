package engine

import (
	"fjacquet/daily-budget/internal/currencyutils"
	"fjacquet/daily-budget/internal/models"

	"github.com/shopspring/decimal"
)

// breakdown splits amount over the category weights so that the parts sum
// exactly to amount. Without weights everything lands in one bucket.
func breakdown(amount decimal.Decimal, weights []models.CategoryWeight, places int32) map[string]decimal.Decimal {
	if len(weights) == 0 {
		return map[string]decimal.Decimal{models.CategoryUncategorized: amount}
	}

	ws := make([]decimal.Decimal, len(weights))
	for i, w := range weights {
		ws[i] = w.Weight
	}
	parts := currencyutils.SplitLargestRemainder(amount, ws, places)

	out := make(map[string]decimal.Decimal, len(weights))
	for i, w := range weights {
		out[w.Category] = out[w.Category].Add(parts[i])
	}
	return out
}
