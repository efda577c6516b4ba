// Package planner runs the whole budgeting pipeline for one profile and
// period: classify, aggregate, redistribute, validate, freeze and advise.
package planner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fjacquet/daily-budget/internal/advisor"
	"fjacquet/daily-budget/internal/budgeterror"
	"fjacquet/daily-budget/internal/classifier"
	"fjacquet/daily-budget/internal/currencyutils"
	"fjacquet/daily-budget/internal/dateutils"
	"fjacquet/daily-budget/internal/engine"
	"fjacquet/daily-budget/internal/history"
	"fjacquet/daily-budget/internal/logging"
	"fjacquet/daily-budget/internal/models"
	"fjacquet/daily-budget/internal/store"
	"fjacquet/daily-budget/internal/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultProfileID is used when a request names no profile.
const DefaultProfileID = "default"

// Request describes one planning run.
type Request struct {
	ProfileID     string
	Start         time.Time
	End           time.Time
	MonthlyIncome decimal.Decimal
	// FixedCommitments and SavingsTarget are derived from the income tier
	// when nil.
	FixedCommitments *decimal.Decimal
	SavingsTarget    *decimal.Decimal
	Currency         string
	Locality         string
	// Transactions nil means no spending history is available; an empty
	// non-nil slice means a history with no spending.
	Transactions []models.Transaction
	// AsOf defaults to the current day.
	AsOf   time.Time
	Mode   engine.Mode
	Freeze bool
	Advise bool
}

// MonthRequest is a Request covering the whole month that contains month.
func MonthRequest(profileID string, month time.Time, income decimal.Decimal, currency string) Request {
	return Request{
		ProfileID:     profileID,
		Start:         dateutils.StartOfMonth(month),
		End:           dateutils.EndOfMonth(month),
		MonthlyIncome: income,
		Currency:      currency,
	}
}

// Planner is safe for concurrent use.
type Planner struct {
	classifier *classifier.Classifier
	aggregator *history.Aggregator
	engine     *engine.Engine
	validator  *validation.Validator
	ledger     store.FrozenLedger
	advisor    advisor.Advisor
	logger     logging.Logger
	now        func() time.Time
	locks      *keyedMutex
}

// New creates a Planner. ledger and adv may be nil.
func New(
	c *classifier.Classifier,
	agg *history.Aggregator,
	eng *engine.Engine,
	v *validation.Validator,
	ledger store.FrozenLedger,
	adv advisor.Advisor,
	logger logging.Logger,
) *Planner {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if adv == nil {
		adv = advisor.Noop{}
	}
	return &Planner{
		classifier: c,
		aggregator: agg,
		engine:     eng,
		validator:  v,
		ledger:     ledger,
		advisor:    adv,
		logger:     logger,
		now:        time.Now,
		locks:      newKeyedMutex(),
	}
}

// Classify classifies an income without planning.
func (p *Planner) Classify(income decimal.Decimal, locality string) (models.IncomeClassification, error) {
	return p.classifier.Classify(income, locality)
}

// History aggregates transactions for a period without planning.
func (p *Planner) History(txs []models.Transaction, period models.BudgetPeriod, asOf time.Time) (*models.SpendHistory, error) {
	return p.aggregator.Aggregate(txs, period, asOf)
}

// Plan runs the pipeline for req. Runs for the same profile and period are
// serialised so elapsed days are frozen exactly once.
func (p *Planner) Plan(ctx context.Context, req Request) (*models.Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkRequest(req); err != nil {
		return nil, err
	}

	profileID := req.ProfileID
	if profileID == "" {
		profileID = DefaultProfileID
	}
	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = p.now()
	}
	asOf = dateutils.CalendarDay(asOf)

	classification, err := p.classifier.Classify(req.MonthlyIncome, req.Locality)
	if err != nil {
		return nil, err
	}
	period, err := p.period(req, classification)
	if err != nil {
		return nil, err
	}

	key := PeriodKey(profileID, period)
	unlock := p.locks.Lock(key)
	defer unlock()

	var spend *models.SpendHistory
	if req.Transactions != nil {
		spend, err = p.aggregator.Aggregate(req.Transactions, period, asOf)
		if err != nil {
			return nil, err
		}
	}

	var frozen map[string]decimal.Decimal
	if p.ledger != nil {
		frozen, err = p.ledger.Load(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("loading frozen allocations: %w", err)
		}
	}

	result, err := p.engine.Redistribute(engine.Input{
		Period:          period,
		Classification:  classification,
		History:         spend,
		AsOf:            asOf,
		Frozen:          frozen,
		Mode:            req.Mode,
		CategoryWeights: p.classifier.CategoryWeights(classification.Tier),
	})
	if err != nil {
		return nil, err
	}

	plan := &models.Plan{
		ID:             uuid.NewString(),
		ProfileID:      profileID,
		Period:         period,
		Classification: classification,
		Result:         result,
		Validation:     p.validator.Validate(result, period),
		CreatedAt:      p.now().UTC(),
	}

	if req.Freeze {
		if err := p.freeze(ctx, key, plan); err != nil {
			return nil, err
		}
	}

	if req.Advise {
		note, err := p.advisor.Advise(ctx, advisor.NewSummary(classification, result))
		if err != nil {
			p.logger.WithError(err).Warn("Advisor unavailable, continuing without advice",
				logging.F(logging.FieldPeriod, key))
		}
		plan.Advice = note
	}

	p.logger.Info("Plan ready",
		logging.F(logging.FieldRunID, plan.ID),
		logging.F(logging.FieldPeriod, key),
		logging.F(logging.FieldTier, string(classification.Tier)),
		logging.F(logging.FieldMethodology, string(result.Methodology)),
		logging.F(logging.FieldStatus, validationStatus(plan.Validation)))
	return plan, nil
}

// freeze records elapsed days. A plan that failed validation is not frozen,
// so a bad run never becomes the reference for later ones.
func (p *Planner) freeze(ctx context.Context, key string, plan *models.Plan) error {
	if p.ledger == nil {
		p.logger.Warn("Freeze requested but the ledger is disabled", logging.F(logging.FieldPeriod, key))
		return nil
	}
	if !plan.Validation.OK {
		p.logger.Warn("Not freezing a plan that failed validation", logging.F(logging.FieldPeriod, key))
		return nil
	}
	n, err := p.ledger.Freeze(ctx, key, plan.ID, plan.Result.DayAllocations)
	if err != nil {
		return fmt.Errorf("freezing allocations: %w", err)
	}
	plan.FrozenNew = n
	return nil
}

// period builds the BudgetPeriod, deriving missing commitments from the tier.
func (p *Planner) period(req Request, c models.IncomeClassification) (models.BudgetPeriod, error) {
	places, err := currencyutils.MinorUnits(req.Currency)
	if err != nil {
		return models.BudgetPeriod{}, budgeterror.NewInvalidInput("currency", req.Currency, err.Error())
	}

	fixed := req.MonthlyIncome.Mul(c.FixedCommitmentRatio).Round(places)
	if req.FixedCommitments != nil {
		fixed = *req.FixedCommitments
	}
	savings := req.MonthlyIncome.Mul(c.SavingsTargetRatio).Round(places)
	if req.SavingsTarget != nil {
		savings = *req.SavingsTarget
	}

	return models.BudgetPeriod{
		Start:            dateutils.CalendarDay(req.Start),
		End:              dateutils.CalendarDay(req.End),
		MonthlyIncome:    req.MonthlyIncome,
		FixedCommitments: fixed,
		SavingsTarget:    savings,
		Currency:         strings.ToUpper(strings.TrimSpace(req.Currency)),
	}, nil
}

func checkRequest(req Request) error {
	if req.Start.IsZero() || req.End.IsZero() {
		return budgeterror.NewInvalidInput("period", "", "start and end dates are required")
	}
	if req.End.Before(req.Start) {
		return budgeterror.NewInvalidInput("period_end", models.DateKey(req.End), "must not be before period_start")
	}
	if req.Currency == "" || !currencyutils.ValidCode(req.Currency) {
		return budgeterror.NewInvalidInput("currency", req.Currency, "unknown ISO 4217 code")
	}
	if req.FixedCommitments != nil && req.FixedCommitments.IsNegative() {
		return budgeterror.NewInvalidInput("fixed_commitments", req.FixedCommitments.String(), "must be >= 0")
	}
	if req.SavingsTarget != nil && req.SavingsTarget.IsNegative() {
		return budgeterror.NewInvalidInput("savings_target", req.SavingsTarget.String(), "must be >= 0")
	}
	return nil
}

// PeriodKey identifies a profile's period in the ledger.
func PeriodKey(profileID string, period models.BudgetPeriod) string {
	return profileID + "/" + period.Key()
}

func validationStatus(o models.ValidationOutcome) string {
	if o.OK {
		return "ok"
	}
	return "violations"
}
