package config

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"fjacquet/daily-budget/internal/models"

	"github.com/shopspring/decimal"
)

// weightSumTolerance is how far a tier's category weights may drift from 1.
const weightSumTolerance = 0.001

// TierEntry is one row of the income tier table. UpperBound is nil for the
// top tier; RedistributionBufferRatio falls back to the engine default when nil.
type TierEntry struct {
	Name                      string   `yaml:"name"`
	UpperBound                *float64 `yaml:"upper_bound,omitempty"`
	FixedCommitmentRatio      float64  `yaml:"fixed_commitment_ratio"`
	SavingsTargetRatio        float64  `yaml:"savings_target_ratio"`
	RedistributionBufferRatio *float64 `yaml:"redistribution_buffer_ratio,omitempty"`
}

// Tables holds the classification and category tables injected into the
// classifier and the engine.
type Tables struct {
	Tiers           []TierEntry                   `yaml:"tiers"`
	Localities      map[string]float64            `yaml:"localities"`
	CategoryWeights map[string]map[string]float64 `yaml:"category_weights"`
}

func ptr(f float64) *float64 { return &f }

// DefaultTables returns the built-in tier, locality and category tables.
func DefaultTables() *Tables {
	return &Tables{
		Tiers: []TierEntry{
			{Name: string(models.TierLow), UpperBound: ptr(1500), FixedCommitmentRatio: 0.60, SavingsTargetRatio: 0.05, RedistributionBufferRatio: ptr(0.10)},
			{Name: string(models.TierLowerMiddle), UpperBound: ptr(3000), FixedCommitmentRatio: 0.55, SavingsTargetRatio: 0.10, RedistributionBufferRatio: ptr(0.15)},
			{Name: string(models.TierMiddle), UpperBound: ptr(6000), FixedCommitmentRatio: 0.50, SavingsTargetRatio: 0.15, RedistributionBufferRatio: ptr(0.20)},
			{Name: string(models.TierUpperMiddle), UpperBound: ptr(12000), FixedCommitmentRatio: 0.45, SavingsTargetRatio: 0.20, RedistributionBufferRatio: ptr(0.25)},
			{Name: string(models.TierHigh), FixedCommitmentRatio: 0.40, SavingsTargetRatio: 0.25, RedistributionBufferRatio: ptr(0.30)},
		},
		Localities: map[string]float64{
			"HCOL": 0.8,
			"MCOL": 1.0,
			"LCOL": 1.2,
		},
		CategoryWeights: map[string]map[string]float64{
			string(models.TierLow): {
				models.CategoryGroceries: 0.40, models.CategoryTransport: 0.20, models.CategoryDining: 0.10,
				models.CategoryEntertainment: 0.05, models.CategoryShopping: 0.10, models.CategoryMiscellaneous: 0.15,
			},
			string(models.TierLowerMiddle): {
				models.CategoryGroceries: 0.35, models.CategoryTransport: 0.18, models.CategoryDining: 0.12,
				models.CategoryEntertainment: 0.08, models.CategoryShopping: 0.12, models.CategoryMiscellaneous: 0.15,
			},
			string(models.TierMiddle): {
				models.CategoryGroceries: 0.30, models.CategoryTransport: 0.15, models.CategoryDining: 0.15,
				models.CategoryEntertainment: 0.10, models.CategoryShopping: 0.15, models.CategoryMiscellaneous: 0.15,
			},
			string(models.TierUpperMiddle): {
				models.CategoryGroceries: 0.25, models.CategoryTransport: 0.12, models.CategoryDining: 0.18,
				models.CategoryEntertainment: 0.12, models.CategoryShopping: 0.18, models.CategoryMiscellaneous: 0.15,
			},
			string(models.TierHigh): {
				models.CategoryGroceries: 0.20, models.CategoryTransport: 0.10, models.CategoryDining: 0.20,
				models.CategoryEntertainment: 0.15, models.CategoryShopping: 0.20, models.CategoryMiscellaneous: 0.15,
			},
		},
	}
}

// Validate checks the tables for ordering, ratio ranges and weight sums.
func (t *Tables) Validate() error {
	if len(t.Tiers) == 0 {
		return fmt.Errorf("tier table is empty")
	}

	seen := make(map[models.IncomeTier]bool)
	prev := math.Inf(-1)
	for i, entry := range t.Tiers {
		tier, err := models.ParseIncomeTier(entry.Name)
		if err != nil {
			return fmt.Errorf("tier %d: %w", i, err)
		}
		if seen[tier] {
			return fmt.Errorf("tier %s listed twice", tier)
		}
		seen[tier] = true

		last := i == len(t.Tiers)-1
		switch {
		case entry.UpperBound == nil && !last:
			return fmt.Errorf("tier %s: only the last tier may omit upper_bound", tier)
		case entry.UpperBound != nil:
			if *entry.UpperBound <= prev || *entry.UpperBound < 0 {
				return fmt.Errorf("tier %s: upper_bound %v must be increasing and >= 0", tier, *entry.UpperBound)
			}
			prev = *entry.UpperBound
		}

		if !inUnit(entry.FixedCommitmentRatio) || !inUnit(entry.SavingsTargetRatio) {
			return fmt.Errorf("tier %s: ratios must be between 0 and 1", tier)
		}
		if entry.FixedCommitmentRatio+entry.SavingsTargetRatio > 1 {
			return fmt.Errorf("tier %s: fixed and savings ratios exceed 1", tier)
		}
		if entry.RedistributionBufferRatio != nil && !inUnit(*entry.RedistributionBufferRatio) {
			return fmt.Errorf("tier %s: redistribution_buffer_ratio must be between 0 and 1", tier)
		}

		weights, ok := t.weightsFor(tier)
		if !ok || len(weights) == 0 {
			return fmt.Errorf("tier %s: no category weights", tier)
		}
		sum := 0.0
		for category, w := range weights {
			if w < 0 {
				return fmt.Errorf("tier %s: negative weight for %s", tier, category)
			}
			sum += w
		}
		if math.Abs(sum-1) > weightSumTolerance {
			return fmt.Errorf("tier %s: category weights sum to %.4f, want 1", tier, sum)
		}
	}

	for code, m := range t.Localities {
		if m <= 0 {
			return fmt.Errorf("locality %s: multiplier must be > 0", code)
		}
	}
	return nil
}

// Weights returns the tier's category weights sorted by category name.
func (t *Tables) Weights(tier models.IncomeTier) []models.CategoryWeight {
	raw, _ := t.weightsFor(tier)
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]models.CategoryWeight, 0, len(names))
	for _, name := range names {
		out = append(out, models.CategoryWeight{Category: models.NormalizeCategory(name), Weight: decimal.NewFromFloat(raw[name])})
	}
	return out
}

// Locality returns the multiplier for a locality code, matched case-insensitively.
func (t *Tables) Locality(code string) (float64, bool) {
	for k, v := range t.Localities {
		if strings.EqualFold(k, code) {
			return v, true
		}
	}
	return 0, false
}

// weightsFor accepts both canonical and snake_case tier keys.
func (t *Tables) weightsFor(tier models.IncomeTier) (map[string]float64, bool) {
	for key, weights := range t.CategoryWeights {
		if parsed, err := models.ParseIncomeTier(key); err == nil && parsed == tier {
			return weights, true
		}
	}
	return nil, false
}

func inUnit(f float64) bool { return f >= 0 && f <= 1 }
