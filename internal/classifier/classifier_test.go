package classifier

import (
	"errors"
	"testing"

	"fjacquet/daily-budget/internal/budgeterror"
	"fjacquet/daily-budget/internal/config"
	"fjacquet/daily-budget/internal/logging"
	"fjacquet/daily-budget/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := New(config.DefaultTables(), Options{
		TransitionBand:     decimal.RequireFromString("0.05"),
		DefaultBufferRatio: decimal.RequireFromString("0.20"),
	}, logging.NewMockLogger())
	require.NoError(t, err)
	return c
}

func TestClassify_Tiers(t *testing.T) {
	c := newTestClassifier(t)

	tests := []struct {
		name       string
		income     int64
		locality   string
		tier       models.IncomeTier
		transition bool
		fixed      string
	}{
		{name: "zero income", income: 0, tier: models.TierLow, fixed: "0.6"},
		{name: "low", income: 1000, tier: models.TierLow, fixed: "0.6"},
		{name: "boundary goes to lower tier", income: 1500, tier: models.TierLow, transition: true, fixed: "0.6"},
		{name: "just above boundary", income: 1501, tier: models.TierLowerMiddle, transition: true, fixed: "0.55"},
		{name: "scenario income", income: 3000, tier: models.TierLowerMiddle, transition: true, fixed: "0.55"},
		{name: "middle", income: 4500, tier: models.TierMiddle, fixed: "0.5"},
		{name: "upper middle", income: 9000, tier: models.TierUpperMiddle, fixed: "0.45"},
		{name: "high", income: 20000, tier: models.TierHigh, fixed: "0.4"},
		{name: "edge of band", income: 5700, tier: models.TierMiddle, transition: true, fixed: "0.5"},
		{name: "outside band", income: 5699, tier: models.TierMiddle, fixed: "0.5"},
		{name: "hcol lowers adjusted income", income: 5000, locality: "HCOL", tier: models.TierMiddle, fixed: "0.5"},
		{name: "lcol raises adjusted income", income: 5500, locality: "lcol", tier: models.TierUpperMiddle, fixed: "0.45"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Classify(decimal.NewFromInt(tt.income), tt.locality)
			require.NoError(t, err)
			assert.Equal(t, tt.tier, got.Tier)
			assert.Equal(t, tt.transition, got.IsInTransition)
			assert.True(t, decimal.RequireFromString(tt.fixed).Equal(got.FixedCommitmentRatio), "fixed ratio %s", got.FixedCommitmentRatio)
		})
	}
}

func TestClassify_AdjustedIncomeAndBuffer(t *testing.T) {
	c := newTestClassifier(t)

	got, err := c.Classify(decimal.NewFromInt(5000), "hcol")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(4000).Equal(got.AdjustedIncome))
	assert.Equal(t, "HCOL", got.Locality)
	assert.True(t, decimal.RequireFromString("0.2").Equal(got.RedistributionBufferRatio))
	assert.True(t, decimal.RequireFromString("0.15").Equal(got.SavingsTargetRatio))
}

func TestClassify_Errors(t *testing.T) {
	c := newTestClassifier(t)

	_, err := c.Classify(decimal.NewFromInt(-1), "")
	assert.True(t, errors.Is(err, budgeterror.ErrInvalidInput))

	_, err = c.Classify(decimal.NewFromInt(1000), "MARS")
	var invalid *budgeterror.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "locality", invalid.Field)
}

func TestClassify_Deterministic(t *testing.T) {
	c := newTestClassifier(t)
	a, err := c.Classify(decimal.NewFromInt(2900), "MCOL")
	require.NoError(t, err)
	b, err := c.Classify(decimal.NewFromInt(2900), "MCOL")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNew_DefaultBufferUsedWhenTierOmitsOne(t *testing.T) {
	tables := config.DefaultTables()
	tables.Tiers[0].RedistributionBufferRatio = nil

	c, err := New(tables, Options{TransitionBand: decimal.Zero, DefaultBufferRatio: decimal.RequireFromString("0.33")}, nil)
	require.NoError(t, err)

	got, err := c.Classify(decimal.NewFromInt(100), "")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.33").Equal(got.RedistributionBufferRatio))
	assert.False(t, got.IsInTransition)
}

func TestNew_RejectsInvalidTables(t *testing.T) {
	tables := config.DefaultTables()
	tables.Tiers = nil
	_, err := New(tables, Options{}, nil)
	assert.Error(t, err)
}

func TestCategoryWeights(t *testing.T) {
	c := newTestClassifier(t)
	weights := c.CategoryWeights(models.TierHigh)
	require.Len(t, weights, 6)
	sum := decimal.Zero
	for _, w := range weights {
		sum = sum.Add(w.Weight)
	}
	assert.True(t, decimal.NewFromInt(1).Equal(sum))
	assert.Nil(t, c.CategoryWeights("unknown"))
	assert.Len(t, c.Localities(), 3)
}
