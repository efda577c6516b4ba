package config

import (
	"testing"

	"fjacquet/daily-budget/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTables_Valid(t *testing.T) {
	tables := DefaultTables()
	require.NoError(t, tables.Validate())
	assert.Len(t, tables.Tiers, len(models.AllTiers))

	for _, tier := range models.AllTiers {
		weights := tables.Weights(tier)
		require.Len(t, weights, 6, "tier %s", tier)
		sum := 0.0
		for _, w := range weights {
			f, _ := w.Weight.Float64()
			sum += f
		}
		assert.InDelta(t, 1.0, sum, weightSumTolerance)
	}
}

func TestTables_WeightsSorted(t *testing.T) {
	weights := DefaultTables().Weights(models.TierMiddle)
	for i := 1; i < len(weights); i++ {
		assert.Less(t, weights[i-1].Category, weights[i].Category)
	}
}

func TestTables_Locality(t *testing.T) {
	tables := DefaultTables()

	m, ok := tables.Locality("hcol")
	assert.True(t, ok)
	assert.Equal(t, 0.8, m)

	_, ok = tables.Locality("moon")
	assert.False(t, ok)
}

func TestTables_ValidateErrors(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Tables)
		expectedErr string
	}{
		{name: "empty", mutate: func(tb *Tables) { tb.Tiers = nil }, expectedErr: "empty"},
		{name: "unknown tier", mutate: func(tb *Tables) { tb.Tiers[0].Name = "poor" }, expectedErr: "unknown income tier"},
		{name: "duplicate tier", mutate: func(tb *Tables) { tb.Tiers[1].Name = "low" }, expectedErr: "twice"},
		{name: "missing bound", mutate: func(tb *Tables) { tb.Tiers[1].UpperBound = nil }, expectedErr: "upper_bound"},
		{name: "unordered bounds", mutate: func(tb *Tables) { tb.Tiers[2].UpperBound = ptr(100) }, expectedErr: "increasing"},
		{name: "ratio range", mutate: func(tb *Tables) { tb.Tiers[0].SavingsTargetRatio = 1.2 }, expectedErr: "between 0 and 1"},
		{name: "ratios exceed one", mutate: func(tb *Tables) { tb.Tiers[0].SavingsTargetRatio = 0.5 }, expectedErr: "exceed 1"},
		{name: "buffer range", mutate: func(tb *Tables) { tb.Tiers[0].RedistributionBufferRatio = ptr(2) }, expectedErr: "redistribution_buffer_ratio"},
		{name: "weights sum", mutate: func(tb *Tables) { tb.CategoryWeights["low"]["groceries"] = 0.9 }, expectedErr: "sum to"},
		{name: "missing weights", mutate: func(tb *Tables) { delete(tb.CategoryWeights, "high") }, expectedErr: "no category weights"},
		{name: "locality", mutate: func(tb *Tables) { tb.Localities["XCOL"] = 0 }, expectedErr: "locality XCOL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables := DefaultTables()
			tt.mutate(tables)
			err := tables.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestTables_SnakeCaseWeightKeys(t *testing.T) {
	tables := DefaultTables()
	tables.CategoryWeights["upper_middle"] = tables.CategoryWeights[string(models.TierUpperMiddle)]
	delete(tables.CategoryWeights, string(models.TierUpperMiddle))

	require.NoError(t, tables.Validate())
	assert.Len(t, tables.Weights(models.TierUpperMiddle), 6)
}
