package history

import (
	"errors"
	"testing"
	"time"

	"fjacquet/daily-budget/internal/budgeterror"
	"fjacquet/daily-budget/internal/logging"
	"fjacquet/daily-budget/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time { return time.Date(2024, 9, d, 0, 0, 0, 0, time.UTC) }

func tx(id string, date time.Time, amount, currency, category string) models.Transaction {
	return models.NewTransaction(id, date, decimal.RequireFromString(amount), currency, category)
}

func september(currency string) models.BudgetPeriod {
	return models.NewMonthlyPeriod(2024, time.September,
		decimal.NewFromInt(3000), decimal.NewFromInt(1500), decimal.NewFromInt(450), currency)
}

func TestAggregate(t *testing.T) {
	agg := NewAggregator(logging.NewMockLogger())
	txs := []models.Transaction{
		tx("1", day(1), "12.50", "CHF", "Groceries"),
		tx("2", day(1), "7.50", "CHF", "groceries"),
		tx("3", day(2), "20", "CHF", "dining"),
		tx("4", day(3), "-5", "CHF", "shopping"),
		tx("5", day(9), "100", "CHF", "shopping"),
		tx("6", time.Date(2024, 8, 31, 0, 0, 0, 0, time.UTC), "999", "CHF", "dining"),
		tx("7", day(4).Add(15*time.Hour), "3", "CHF", ""),
	}

	h, err := agg.Aggregate(txs, september("CHF"), day(5))
	require.NoError(t, err)

	assert.Len(t, h.Days, 5)
	assert.Equal(t, "CHF", h.Currency)

	d1, ok := h.Spent(day(1))
	require.True(t, ok)
	assert.Equal(t, "20.00", d1.Total.StringFixed(2))
	assert.Equal(t, "20.00", d1.ByCategory["groceries"].StringFixed(2))
	assert.Equal(t, 2, d1.Count)

	d3, _ := h.Spent(day(3))
	assert.Equal(t, "-5.00", d3.Total.StringFixed(2))

	d4, _ := h.Spent(day(4))
	assert.Equal(t, "3.00", d4.ByCategory[models.CategoryUncategorized].StringFixed(2))

	d5, ok := h.Spent(day(5))
	require.True(t, ok, "days without transactions are present")
	assert.True(t, d5.Total.IsZero())
	assert.NotNil(t, d5.ByCategory)
	assert.Equal(t, 0, d5.Count)

	_, ok = h.Spent(day(9))
	assert.False(t, ok, "future days are omitted")
	assert.Equal(t, "38.00", h.Total().StringFixed(2))
}

func TestAggregate_AsOfBoundaries(t *testing.T) {
	agg := NewAggregator(nil)

	before, err := agg.Aggregate(nil, september("CHF"), time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, before.Days)

	after, err := agg.Aggregate(nil, september("CHF"), time.Date(2024, 10, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, after.Days, 30)
	assert.Equal(t, "2024-09-01", after.SortedKeys()[0])
	assert.Equal(t, "2024-09-30", after.SortedKeys()[29])
}

func TestAggregate_InconsistentCurrency(t *testing.T) {
	agg := NewAggregator(nil)
	txs := []models.Transaction{
		tx("1", day(1), "10", "CHF", "dining"),
		tx("2", day(2), "10", "EUR", "dining"),
	}

	_, err := agg.Aggregate(txs, september("CHF"), day(5))
	require.Error(t, err)
	assert.True(t, errors.Is(err, budgeterror.ErrInconsistentCurrency))
	var cerr *budgeterror.InconsistentCurrencyError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "2", cerr.TransactionID)

	// A future transaction in another currency is still in the set.
	txs = []models.Transaction{tx("3", day(20), "10", "EUR", "dining")}
	_, err = agg.Aggregate(txs, september("CHF"), day(5))
	assert.Error(t, err)

	// Out-of-period transactions are ignored entirely.
	txs = []models.Transaction{tx("4", time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC), "10", "EUR", "dining")}
	_, err = agg.Aggregate(txs, september("CHF"), day(5))
	assert.NoError(t, err)
}

func TestAggregate_CurrencyFromTransactions(t *testing.T) {
	agg := NewAggregator(nil)
	h, err := agg.Aggregate([]models.Transaction{tx("1", day(1), "10", "eur", "dining")}, september(""), day(2))
	require.NoError(t, err)
	assert.Equal(t, "EUR", h.Currency)
}

func TestAggregate_InvalidPeriod(t *testing.T) {
	agg := NewAggregator(nil)
	p := models.BudgetPeriod{Start: day(10), End: day(1)}
	_, err := agg.Aggregate(nil, p, day(5))
	assert.True(t, errors.Is(err, budgeterror.ErrInvalidInput))
}
