// Package engine implements the daily budget redistribution: it freezes the
// allocations of elapsed days and spreads their surplus or deficit over the
// remaining days of the period, within the tier's redistribution buffer.
package engine

import (
	"time"

	"fjacquet/daily-budget/internal/budgeterror"
	"fjacquet/daily-budget/internal/currencyutils"
	"fjacquet/daily-budget/internal/logging"
	"fjacquet/daily-budget/internal/models"
	"fjacquet/daily-budget/internal/temporal"

	"github.com/shopspring/decimal"
)

// Config holds the engine settings that are not part of the temporal rules.
type Config struct {
	// MinDailyRatio is the deficit floor of a remaining day, as a fraction of
	// its temporal budget. Zero lets a day be cut to nothing.
	MinDailyRatio decimal.Decimal
	// NormalizeTemporal scales temporal budgets so the period total equals
	// the amount available for spending.
	NormalizeTemporal bool
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{MinDailyRatio: decimal.Zero, NormalizeTemporal: true}
}

// Input is the snapshot handed to Redistribute. The engine never keeps or
// mutates it.
type Input struct {
	Period         models.BudgetPeriod
	Classification models.IncomeClassification
	// History is nil when the caller has no spending data for the period.
	History *models.SpendHistory
	AsOf    time.Time
	// Frozen holds elapsed allocations recorded by an earlier run, keyed by
	// date. They are used instead of a fresh temporal computation.
	Frozen map[string]decimal.Decimal
	Mode   Mode
	// CategoryWeights is the tier's category table used for breakdowns.
	CategoryWeights []models.CategoryWeight
}

// Engine is immutable after construction and safe for concurrent use. Runs
// for the same period must still be serialised by the caller so that elapsed
// days are frozen once.
type Engine struct {
	adjuster *temporal.Adjuster
	cfg      Config
	logger   logging.Logger
}

// New creates an Engine.
func New(adjuster *temporal.Adjuster, cfg Config, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if cfg.MinDailyRatio.IsNegative() {
		cfg.MinDailyRatio = decimal.Zero
	}
	return &Engine{adjuster: adjuster, cfg: cfg, logger: logger}
}

// Redistribute computes the allocation of every day of the period.
func (e *Engine) Redistribute(in Input) (*models.RedistributionResult, error) {
	period := in.Period
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	if in.History != nil && in.History.Currency != "" && period.Currency != "" && in.History.Currency != period.Currency {
		return nil, &budgeterror.InconsistentCurrencyError{Expected: period.Currency, Found: in.History.Currency}
	}
	places, err := currencyutils.MinorUnits(period.Currency)
	if err != nil {
		return nil, &budgeterror.InvalidInputError{Field: "currency", Value: period.Currency, Err: err}
	}

	mode, err := resolveMode(in.Mode, in.History)
	if err != nil {
		return nil, err
	}

	available := period.AvailableForSpending()
	if !available.IsPositive() {
		return nil, budgeterror.NewBudgetInfeasible(period.MonthlyIncome, period.FixedCommitments, period.SavingsTarget)
	}

	dates := period.Dates()
	base := available.Div(decimal.NewFromInt(int64(len(dates))))
	factors, temporalBudgets := e.temporalBudgets(dates, period, base, available, places)

	asOf := models.Day(in.AsOf)
	if asOf.After(models.Day(period.End)) {
		asOf = models.Day(period.End)
	}

	days := make([]models.DayAllocation, len(dates))
	pool := decimal.Zero
	elapsedCount, emptyDays := 0, 0
	firstRemaining := len(dates)

	for i, d := range dates {
		days[i] = models.DayAllocation{
			Date:            d,
			AllocatedAmount: temporalBudgets[i],
			TemporalBudget:  temporalBudgets[i],
			Factor:          factors[i],
		}
		if d.After(asOf) {
			if firstRemaining == len(dates) {
				firstRemaining = i
			}
			continue
		}

		elapsedCount++
		days[i].Elapsed = true
		if v, ok := in.Frozen[models.DateKey(d)]; ok {
			days[i].AllocatedAmount = v
			days[i].Frozen = true
		}

		if mode != ModeFull {
			emptyDays++
			continue
		}
		// Elapsed days missing from the history count as zero spend.
		ds, ok := in.History.Spent(d)
		if !ok {
			ds = models.EmptyDaySpend()
		}
		spent := ds.Total
		days[i].ActualSpent = &spent
		if ds.Count == 0 {
			emptyDays++
		}
		// The pool is measured against the temporal budget. A frozen value
		// may already hold money moved in by an earlier run, and counting it
		// again would hand the same surplus out twice.
		pool = pool.Add(days[i].TemporalBudget.Sub(spent))
	}
	pool = pool.Round(places)

	result := &models.RedistributionResult{
		SurplusPool:          pool,
		TotalRedistributed:   decimal.Zero,
		UnabsorbedDeficit:    decimal.Zero,
		UnabsorbedSurplus:    decimal.Zero,
		BaseDailyBudget:      base.Round(places),
		AvailableForSpending: available,
		Confidence:           confidence(in.Classification.IsInTransition, elapsedCount, emptyDays),
		Methodology:          mode.methodology(),
		AsOf:                 asOf,
		Currency:             period.Currency,
	}

	if mode == ModeFull {
		remaining := days[firstRemaining:]
		if len(remaining) == 0 {
			// Nothing left to absorb the pool; it is reported, not distributed.
			result.TotalRedistributed = pool
		} else {
			d := e.distribute(remaining, pool, in.Classification.RedistributionBufferRatio, places)
			result.TotalRedistributed = d.redistributed
			result.UnabsorbedSurplus = d.unabsorbedSurplus
			result.UnabsorbedDeficit = d.unabsorbedDeficit
		}
	}

	for i := range days {
		days[i].CategoryBreakdown = breakdown(days[i].AllocatedAmount, in.CategoryWeights, places)
	}
	result.DayAllocations = days

	e.logger.Info("Redistribution complete",
		logging.F(logging.FieldPeriod, period.Key()),
		logging.F(logging.FieldAsOf, models.DateKey(asOf)),
		logging.F(logging.FieldMode, string(mode)),
		logging.F(logging.FieldTier, string(in.Classification.Tier)),
		logging.F("surplus_pool", pool.String()),
		logging.F("total_redistributed", result.TotalRedistributed.String()),
		logging.F("unabsorbed_deficit", result.UnabsorbedDeficit.String()),
		logging.F("confidence", result.Confidence.String()))
	return result, nil
}

// TemporalBudgets returns the rounded pre-redistribution budget of every day
// of period.
func (e *Engine) TemporalBudgets(period models.BudgetPeriod) ([]decimal.Decimal, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	places, err := currencyutils.MinorUnits(period.Currency)
	if err != nil {
		return nil, &budgeterror.InvalidInputError{Field: "currency", Value: period.Currency, Err: err}
	}
	available := period.AvailableForSpending()
	if !available.IsPositive() {
		return nil, budgeterror.NewBudgetInfeasible(period.MonthlyIncome, period.FixedCommitments, period.SavingsTarget)
	}
	dates := period.Dates()
	base := available.Div(decimal.NewFromInt(int64(len(dates))))
	_, budgets := e.temporalBudgets(dates, period, base, available, places)
	return budgets, nil
}

func (e *Engine) temporalBudgets(dates []time.Time, period models.BudgetPeriod, base, available decimal.Decimal, places int32) ([]decimal.Decimal, []decimal.Decimal) {
	factors := make([]decimal.Decimal, len(dates))
	raw := make([]decimal.Decimal, len(dates))
	sum := decimal.Zero
	for i, d := range dates {
		factors[i] = e.adjuster.AdjustmentFactor(d, period.Start, period.End)
		raw[i] = base.Mul(factors[i])
		sum = sum.Add(factors[i])
	}

	if e.cfg.NormalizeTemporal && sum.IsPositive() {
		// base * Σfactor is the raw total, so each day becomes
		// available * factor / Σfactor.
		for i := range raw {
			raw[i] = available.Mul(factors[i]).Div(sum)
		}
	}
	return factors, currencyutils.RoundSeries(raw, places)
}

func checkPeriod(p models.BudgetPeriod) error {
	if p.Days() == 0 {
		return budgeterror.NewInvalidInput("period", p.Key(), "end is before start")
	}
	for field, v := range map[string]decimal.Decimal{
		"monthly_income":    p.MonthlyIncome,
		"fixed_commitments": p.FixedCommitments,
		"savings_target":    p.SavingsTarget,
	} {
		if v.IsNegative() {
			return budgeterror.NewInvalidInput(field, v.String(), "must be >= 0")
		}
	}
	return nil
}
