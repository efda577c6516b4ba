package validation

import (
	"testing"
	"time"

	"fjacquet/daily-budget/internal/config"
	"fjacquet/daily-budget/internal/engine"
	"fjacquet/daily-budget/internal/logging"
	"fjacquet/daily-budget/internal/models"
	"fjacquet/daily-budget/internal/temporal"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func period() models.BudgetPeriod {
	return models.NewMonthlyPeriod(2024, time.April, dec("3000"), dec("1500"), dec("450"), "CHF")
}

// validResult runs the engine with nothing elapsed.
func validResult(t *testing.T, normalize bool) *models.RedistributionResult {
	t.Helper()
	adjuster, err := temporal.New(temporal.DefaultConfig())
	require.NoError(t, err)
	cfg := engine.DefaultConfig()
	cfg.NormalizeTemporal = normalize
	e := engine.New(adjuster, cfg, logging.NewMockLogger())

	result, err := e.Redistribute(engine.Input{
		Period:          period(),
		Classification:  models.IncomeClassification{Tier: models.TierLowerMiddle, RedistributionBufferRatio: dec("0.15")},
		AsOf:            time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		CategoryWeights: config.DefaultTables().Weights(models.TierLowerMiddle),
	})
	require.NoError(t, err)
	return result
}

func newValidator() (*Validator, *logging.MockLogger) {
	logger := logging.NewMockLogger()
	return NewValidator(dec("0.01"), logger), logger
}

func TestValidate_ValidResult(t *testing.T) {
	v, logger := newValidator()

	outcome := v.Validate(validResult(t, true), period())
	assert.True(t, outcome.OK)
	assert.Empty(t, outcome.Violations)
	assert.NotNil(t, outcome.Violations)
	assert.Empty(t, logger.GetEntriesByLevel("WARN"))
}

func TestValidate_RawTemporalBudgetsOverAllocate(t *testing.T) {
	v, _ := newValidator()

	outcome := v.Validate(validResult(t, false), period())
	assert.False(t, outcome.OK)
	assert.True(t, outcome.Has(models.ViolationOverAllocation))
}

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(r *models.RedistributionResult)
		expected []models.ViolationCode
	}{
		{
			name: "negative allocation",
			mutate: func(r *models.RedistributionResult) {
				r.DayAllocations[3].AllocatedAmount = dec("-1")
				r.DayAllocations[3].CategoryBreakdown = map[string]decimal.Decimal{"groceries": dec("-1")}
			},
			expected: []models.ViolationCode{models.ViolationNegativeAllocation},
		},
		{
			name: "over allocation",
			mutate: func(r *models.RedistributionResult) {
				r.DayAllocations[5].AllocatedAmount = r.DayAllocations[5].AllocatedAmount.Add(dec("5"))
				r.DayAllocations[5].CategoryBreakdown["groceries"] = r.DayAllocations[5].CategoryBreakdown["groceries"].Add(dec("5"))
			},
			expected: []models.ViolationCode{models.ViolationOverAllocation},
		},
		{
			name: "category sum mismatch",
			mutate: func(r *models.RedistributionResult) {
				r.DayAllocations[0].CategoryBreakdown["dining"] = r.DayAllocations[0].CategoryBreakdown["dining"].Add(dec("3"))
			},
			expected: []models.ViolationCode{models.ViolationCategorySumMismatch},
		},
		{
			name: "missing day",
			mutate: func(r *models.RedistributionResult) {
				r.DayAllocations = r.DayAllocations[:29]
			},
			expected: []models.ViolationCode{models.ViolationDayCountMismatch, models.ViolationMissingDate},
		},
		{
			name: "duplicate day",
			mutate: func(r *models.RedistributionResult) {
				r.DayAllocations[10].Date = r.DayAllocations[9].Date
			},
			expected: []models.ViolationCode{models.ViolationDuplicateDate, models.ViolationMissingDate},
		},
		{
			name: "out of order",
			mutate: func(r *models.RedistributionResult) {
				r.DayAllocations[1], r.DayAllocations[2] = r.DayAllocations[2], r.DayAllocations[1]
			},
			expected: []models.ViolationCode{models.ViolationDateOutOfOrder},
		},
		{
			name: "date outside period",
			mutate: func(r *models.RedistributionResult) {
				r.DayAllocations[29].Date = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
			},
			expected: []models.ViolationCode{models.ViolationDateOutOfOrder, models.ViolationMissingDate},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, logger := newValidator()
			result := validResult(t, true)
			tt.mutate(result)

			outcome := v.Validate(result, period())
			assert.False(t, outcome.OK)

			codes := map[models.ViolationCode]bool{}
			for _, viol := range outcome.Violations {
				codes[viol.Code] = true
			}
			for _, code := range tt.expected {
				assert.True(t, codes[code], "expected %s in %v", code, outcome.Violations)
			}
			assert.Len(t, codes, len(tt.expected))
			assert.NotEmpty(t, logger.GetEntriesByLevel("WARN"))
		})
	}
}

func TestValidate_CategoryToleranceUsesSmallestUnit(t *testing.T) {
	tests := []struct {
		name string
		last string
		ok   bool
	}{
		{name: "drift within one unit per category", last: "0.15", ok: true},
		{name: "drift beyond one unit per category", last: "0.17", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _ := newValidator()
			result := validResult(t, true)

			// Six parts on an allocation of 1.00 allow 0.06 of drift.
			result.DayAllocations[0].AllocatedAmount = dec("1.00")
			result.DayAllocations[0].CategoryBreakdown = map[string]decimal.Decimal{
				"a": dec("0.18"), "b": dec("0.18"), "c": dec("0.18"),
				"d": dec("0.18"), "e": dec("0.18"), "f": dec(tt.last),
			}

			outcome := v.Validate(result, period())
			assert.Equal(t, tt.ok, outcome.OK, "%v", outcome.Violations)
		})
	}
}

func TestValidate_CommitmentsExceedIncome(t *testing.T) {
	v, _ := newValidator()
	p := models.NewMonthlyPeriod(2024, time.April, dec("1000"), dec("800"), dec("300"), "CHF")

	outcome := v.Validate(nil, p)
	assert.False(t, outcome.OK)
	assert.True(t, outcome.Has(models.ViolationCommitmentsExceedIncome))
	assert.True(t, outcome.Has(models.ViolationDayCountMismatch))
	require.NotNil(t, outcome.Violations[0].Amount)
	assert.Equal(t, "100", outcome.Violations[0].Amount.String())
}

func TestValidate_DoesNotMutate(t *testing.T) {
	v, _ := newValidator()
	result := validResult(t, true)
	result.DayAllocations[3].AllocatedAmount = dec("-1")
	before := result.DayAllocations[3].AllocatedAmount

	v.Validate(result, period())
	assert.True(t, before.Equal(result.DayAllocations[3].AllocatedAmount))
	assert.Len(t, result.DayAllocations, 30)
}

func TestIsValidOutputFormat(t *testing.T) {
	for _, f := range OutputFormats {
		assert.NoError(t, IsValidOutputFormat(f))
	}
	err := IsValidOutputFormat("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table, json, csv")
}
