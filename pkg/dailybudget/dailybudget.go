// Package dailybudget is the library entry point of the daily budget engine.
//
// A Service wires the classifier, temporal adjuster, history aggregator,
// redistribution engine and validator from a configuration:
//
//	svc, err := dailybudget.New(nil)
//	if err != nil {
//		return err
//	}
//	defer svc.Close()
//
//	req := dailybudget.MonthRequest("alice", time.Now(), decimal.NewFromInt(5200), "CHF")
//	plan, err := svc.Plan(ctx, req)
package dailybudget

import (
	"context"
	"time"

	"fjacquet/daily-budget/internal/budgeterror"
	"fjacquet/daily-budget/internal/config"
	"fjacquet/daily-budget/internal/container"
	"fjacquet/daily-budget/internal/engine"
	"fjacquet/daily-budget/internal/logging"
	"fjacquet/daily-budget/internal/models"
	"fjacquet/daily-budget/internal/planner"
	"fjacquet/daily-budget/internal/report"
	"fjacquet/daily-budget/internal/source"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type (
	Config               = config.Config
	Transaction          = models.Transaction
	BudgetPeriod         = models.BudgetPeriod
	IncomeClassification = models.IncomeClassification
	SpendHistory         = models.SpendHistory
	DayAllocation        = models.DayAllocation
	RedistributionResult = models.RedistributionResult
	ValidationOutcome    = models.ValidationOutcome
	Violation            = models.Violation
	Plan                 = models.Plan
	Request              = planner.Request
	BatchResult          = planner.BatchResult
	Mode                 = engine.Mode
)

// Computation modes.
const (
	ModeAuto  = engine.ModeAuto
	ModeFull  = engine.ModeFull
	ModeBasic = engine.ModeBasic
)

// Report formats accepted by Render.
const (
	FormatTable = report.FormatTable
	FormatJSON  = report.FormatJSON
	FormatCSV   = report.FormatCSV
)

// Error sentinels, usable with errors.Is.
var (
	ErrInvalidInput         = budgeterror.ErrInvalidInput
	ErrBudgetInfeasible     = budgeterror.ErrBudgetInfeasible
	ErrInconsistentCurrency = budgeterror.ErrInconsistentCurrency
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config { return config.DefaultConfig() }

// LoadConfig reads a configuration file; an empty path searches the standard
// locations and the BUDGET_ environment variables.
func LoadConfig(path string) (*Config, error) { return config.InitializeConfigFromFile(path) }

// MonthRequest is a Request for the calendar month containing month.
func MonthRequest(profileID string, month time.Time, income decimal.Decimal, currency string) Request {
	return planner.MonthRequest(profileID, month, income, currency)
}

// Service is safe for concurrent use.
type Service struct {
	c *container.Container
}

// New builds a Service from cfg; nil means DefaultConfig.
func New(cfg *Config) (*Service, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c, err := container.NewContainer(cfg)
	if err != nil {
		return nil, err
	}
	return &Service{c: c}, nil
}

// NewWithLogger is New with a caller-owned logrus logger.
func NewWithLogger(cfg *Config, logger *logrus.Logger) (*Service, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c, err := container.NewContainerWithLogger(cfg, logging.NewLogrusAdapterFromLogger(logger))
	if err != nil {
		return nil, err
	}
	return &Service{c: c}, nil
}

// Close releases the ledger and advisor, if any.
func (s *Service) Close() error { return s.c.Close() }

// Plan runs the full pipeline for one request.
func (s *Service) Plan(ctx context.Context, req Request) (*Plan, error) {
	return s.c.GetPlanner().Plan(ctx, req)
}

// PlanBatch plans many requests concurrently; results keep input order.
func (s *Service) PlanBatch(ctx context.Context, reqs []Request, concurrency int) []BatchResult {
	return s.c.GetPlanner().PlanBatch(ctx, reqs, concurrency)
}

// Classify classifies a monthly income.
func (s *Service) Classify(income decimal.Decimal, locality string) (IncomeClassification, error) {
	return s.c.GetPlanner().Classify(income, locality)
}

// History aggregates transactions over the elapsed days of period.
func (s *Service) History(txs []Transaction, period BudgetPeriod, asOf time.Time) (*SpendHistory, error) {
	return s.c.GetPlanner().History(txs, period, asOf)
}

// Validate checks a result against period.
func (s *Service) Validate(result *RedistributionResult, period BudgetPeriod) ValidationOutcome {
	return s.c.GetValidator().Validate(result, period)
}

// Render renders plan as a table, JSON or CSV.
func (s *Service) Render(plan *Plan, format string) ([]byte, error) {
	return s.c.GetReportGenerator().Generate(plan, format)
}

// LoadTransactions reads a .csv or CAMT.053 .xml export.
func (s *Service) LoadTransactions(path string) ([]Transaction, error) {
	return source.LoadFile(path, s.c.GetSourceOptions(), s.c.GetLogger())
}
