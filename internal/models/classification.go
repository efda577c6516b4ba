package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// IncomeTier is the income bracket used to pick default budgeting ratios.
type IncomeTier string

const (
	TierLow         IncomeTier = "low"
	TierLowerMiddle IncomeTier = "lowerMiddle"
	TierMiddle      IncomeTier = "middle"
	TierUpperMiddle IncomeTier = "upperMiddle"
	TierHigh        IncomeTier = "high"
)

// AllTiers lists the tiers from lowest to highest.
var AllTiers = []IncomeTier{TierLow, TierLowerMiddle, TierMiddle, TierUpperMiddle, TierHigh}

// ParseIncomeTier accepts the canonical names case-insensitively, plus the
// snake_case spellings used in YAML tables.
func ParseIncomeTier(s string) (IncomeTier, error) {
	norm := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", ""))
	for _, t := range AllTiers {
		if strings.ToLower(string(t)) == norm {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown income tier: %q", s)
}

// IncomeClassification is the output of the income classifier.
type IncomeClassification struct {
	Tier                      IncomeTier      `json:"tier"`
	FixedCommitmentRatio      decimal.Decimal `json:"fixed_commitment_ratio"`
	SavingsTargetRatio        decimal.Decimal `json:"savings_target_ratio"`
	RedistributionBufferRatio decimal.Decimal `json:"redistribution_buffer_ratio"`
	IsInTransition            bool            `json:"is_in_transition"`
	// AdjustedIncome is the income after the locality multiplier.
	AdjustedIncome decimal.Decimal `json:"adjusted_income"`
	Locality       string          `json:"locality,omitempty"`
}

// CategoryWeight is one entry of a tier's category-weight table.
type CategoryWeight struct {
	Category string          `json:"category" yaml:"category"`
	Weight   decimal.Decimal `json:"weight" yaml:"weight"`
}
