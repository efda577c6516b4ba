// Package history turns a caller's transaction list into per-day spending
// totals for the elapsed part of a budget period.
package history

import (
	"time"

	"fjacquet/daily-budget/internal/budgeterror"
	"fjacquet/daily-budget/internal/logging"
	"fjacquet/daily-budget/internal/models"
)

// Aggregator is stateless and safe for concurrent use.
type Aggregator struct {
	logger logging.Logger
}

// NewAggregator creates an Aggregator. A nil logger gets a default adapter.
func NewAggregator(logger logging.Logger) *Aggregator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Aggregator{logger: logger}
}

// Aggregate sums transactions per elapsed day of period. Every day from the
// period start through asOf (clamped to the period end) gets an entry, empty
// when nothing was spent; later days are omitted. Transactions outside the
// period are ignored. The currency of the result is the period currency, or
// the first in-period transaction's when the period has none; any other
// currency fails with an InconsistentCurrencyError.
func (a *Aggregator) Aggregate(txs []models.Transaction, period models.BudgetPeriod, asOf time.Time) (*models.SpendHistory, error) {
	if period.Days() == 0 {
		return nil, budgeterror.NewInvalidInput("period", period.Key(), "end is before start")
	}

	asOf = models.Day(asOf)
	last := models.Day(period.End)
	if asOf.Before(last) {
		last = asOf
	}

	h := &models.SpendHistory{
		Currency: period.Currency,
		AsOf:     asOf,
		Days:     make(map[string]models.DaySpend),
	}
	for d := models.Day(period.Start); !d.After(last); d = d.AddDate(0, 0, 1) {
		h.Days[models.DateKey(d)] = models.EmptyDaySpend()
	}

	ignored := 0
	for _, tx := range txs {
		if !period.Contains(tx.Date) {
			ignored++
			continue
		}

		cur := tx.Amount.Currency
		if cur != "" {
			if h.Currency == "" {
				h.Currency = cur
			} else if cur != h.Currency {
				return nil, &budgeterror.InconsistentCurrencyError{Expected: h.Currency, Found: cur, TransactionID: tx.ID}
			}
		}

		key := models.DateKey(models.Day(tx.Date))
		ds, elapsed := h.Days[key]
		if !elapsed {
			continue
		}
		category := models.NormalizeCategory(tx.Category)
		ds.Total = ds.Total.Add(tx.Amount.Amount)
		ds.ByCategory[category] = ds.ByCategory[category].Add(tx.Amount.Amount)
		ds.Count++
		h.Days[key] = ds
	}

	a.logger.Debug("Aggregated spending history",
		logging.F(logging.FieldPeriod, period.Key()),
		logging.F(logging.FieldAsOf, models.DateKey(asOf)),
		logging.F(logging.FieldCount, len(txs)),
		logging.F("elapsed_days", len(h.Days)),
		logging.F("ignored", ignored))
	return h, nil
}
