// Package classifier maps a monthly income to an income tier and the tier's
// budgeting ratios.
package classifier

import (
	"fmt"
	"strings"

	"fjacquet/daily-budget/internal/budgeterror"
	"fjacquet/daily-budget/internal/config"
	"fjacquet/daily-budget/internal/logging"
	"fjacquet/daily-budget/internal/models"

	"github.com/shopspring/decimal"
)

type tier struct {
	name       models.IncomeTier
	upperBound *decimal.Decimal
	fixed      decimal.Decimal
	savings    decimal.Decimal
	buffer     decimal.Decimal
	weights    []models.CategoryWeight
}

// Classifier is stateless after construction and safe for concurrent use.
type Classifier struct {
	tiers      []tier
	localities map[string]decimal.Decimal
	band       decimal.Decimal
	logger     logging.Logger
}

// Options carries the engine-level settings the classifier needs.
type Options struct {
	// TransitionBand is the relative distance to a tier boundary that flags
	// an income as in transition (0.05 = ±5%).
	TransitionBand decimal.Decimal
	// DefaultBufferRatio applies to tiers whose table entry omits one.
	DefaultBufferRatio decimal.Decimal
}

// New builds a Classifier from validated tables.
func New(tables *config.Tables, opts Options, logger logging.Logger) (*Classifier, error) {
	if tables == nil {
		tables = config.DefaultTables()
	}
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("invalid classification tables: %w", err)
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	c := &Classifier{
		localities: make(map[string]decimal.Decimal, len(tables.Localities)),
		band:       opts.TransitionBand,
		logger:     logger,
	}
	for _, entry := range tables.Tiers {
		name, _ := models.ParseIncomeTier(entry.Name)
		t := tier{
			name:    name,
			fixed:   decimal.NewFromFloat(entry.FixedCommitmentRatio),
			savings: decimal.NewFromFloat(entry.SavingsTargetRatio),
			buffer:  opts.DefaultBufferRatio,
			weights: tables.Weights(name),
		}
		if entry.UpperBound != nil {
			b := decimal.NewFromFloat(*entry.UpperBound)
			t.upperBound = &b
		}
		if entry.RedistributionBufferRatio != nil {
			t.buffer = decimal.NewFromFloat(*entry.RedistributionBufferRatio)
		}
		c.tiers = append(c.tiers, t)
	}
	for code, m := range tables.Localities {
		c.localities[strings.ToUpper(code)] = decimal.NewFromFloat(m)
	}
	return c, nil
}

// Classify returns the tier and ratios for monthlyIncome. locality is an
// optional cost-of-living code applied before thresholding; an unknown code
// is rejected rather than ignored.
func (c *Classifier) Classify(monthlyIncome decimal.Decimal, locality string) (models.IncomeClassification, error) {
	if monthlyIncome.IsNegative() {
		return models.IncomeClassification{}, budgeterror.NewInvalidInput("monthly_income", monthlyIncome.String(), "must be >= 0")
	}

	adjusted := monthlyIncome
	code := strings.ToUpper(strings.TrimSpace(locality))
	if code != "" {
		m, ok := c.localities[code]
		if !ok {
			return models.IncomeClassification{}, budgeterror.NewInvalidInput("locality", locality, "unknown locality code")
		}
		adjusted = adjusted.Mul(m)
	}

	chosen := c.tiers[len(c.tiers)-1]
	for _, t := range c.tiers {
		// Ties at a boundary resolve to the lower tier.
		if t.upperBound == nil || adjusted.LessThanOrEqual(*t.upperBound) {
			chosen = t
			break
		}
	}

	result := models.IncomeClassification{
		Tier:                      chosen.name,
		FixedCommitmentRatio:      chosen.fixed,
		SavingsTargetRatio:        chosen.savings,
		RedistributionBufferRatio: chosen.buffer,
		IsInTransition:            c.nearBoundary(adjusted),
		AdjustedIncome:            adjusted,
		Locality:                  code,
	}

	c.logger.Debug("Classified income",
		logging.F(logging.FieldTier, string(result.Tier)),
		logging.F(logging.FieldLocality, code),
		logging.F("adjusted_income", adjusted.String()),
		logging.F("in_transition", result.IsInTransition))
	return result, nil
}

func (c *Classifier) nearBoundary(income decimal.Decimal) bool {
	for _, t := range c.tiers {
		if t.upperBound == nil {
			continue
		}
		b := *t.upperBound
		if income.Sub(b).Abs().LessThanOrEqual(b.Mul(c.band)) {
			return true
		}
	}
	return false
}

// CategoryWeights returns the category-weight table of a tier.
func (c *Classifier) CategoryWeights(name models.IncomeTier) []models.CategoryWeight {
	for _, t := range c.tiers {
		if t.name == name {
			return append([]models.CategoryWeight(nil), t.weights...)
		}
	}
	return nil
}

// Localities returns the known locality codes.
func (c *Classifier) Localities() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(c.localities))
	for k, v := range c.localities {
		out[k] = v
	}
	return out
}
