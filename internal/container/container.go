// Package container provides dependency injection for the daily-budget
// application. It builds every component from a *config.Config so the
// commands and the HTTP API share one wiring.
package container

import (
	"context"
	"fmt"
	"time"

	"fjacquet/daily-budget/internal/advisor"
	"fjacquet/daily-budget/internal/classifier"
	"fjacquet/daily-budget/internal/config"
	"fjacquet/daily-budget/internal/dateutils"
	"fjacquet/daily-budget/internal/engine"
	"fjacquet/daily-budget/internal/history"
	"fjacquet/daily-budget/internal/logging"
	"fjacquet/daily-budget/internal/planner"
	"fjacquet/daily-budget/internal/report"
	"fjacquet/daily-budget/internal/source"
	"fjacquet/daily-budget/internal/store"
	"fjacquet/daily-budget/internal/temporal"
	"fjacquet/daily-budget/internal/validation"

	"github.com/shopspring/decimal"
)

// Container holds all application dependencies. It is immutable after
// creation; dependencies are reached through getters.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	tables     *config.Tables
	classifier *classifier.Classifier
	engine     *engine.Engine
	validator  *validation.Validator
	ledger     *store.Ledger
	advisor    advisor.Advisor
	planner    *planner.Planner
	reports    *report.Generator
	sourceOpts source.Options
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format))
}

// NewContainerWithLogger is NewContainer with an explicit logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}

	tables, err := store.NewTableStore(cfg.Tables.File, logger).LoadTables()
	if err != nil {
		return nil, fmt.Errorf("loading tables: %w", err)
	}

	cls, err := classifier.New(tables, classifier.Options{
		TransitionBand:     decimal.NewFromFloat(cfg.Engine.TransitionBand),
		DefaultBufferRatio: decimal.NewFromFloat(cfg.Engine.RedistributionBufferRatio),
	}, logger)
	if err != nil {
		return nil, err
	}

	tcfg, err := TemporalConfig(cfg.Engine)
	if err != nil {
		return nil, err
	}
	adjuster, err := temporal.New(tcfg)
	if err != nil {
		return nil, fmt.Errorf("invalid temporal settings: %w", err)
	}

	eng := engine.New(adjuster, EngineConfig(cfg.Engine), logger)
	validator := validation.NewValidator(decimal.NewFromFloat(cfg.Engine.RoundingTolerance), logger)

	c := &Container{
		logger:     logger,
		config:     cfg,
		tables:     tables,
		classifier: cls,
		engine:     eng,
		validator:  validator,
		advisor:    advisor.Noop{},
		reports:    report.NewGenerator([]rune(cfg.CSV.Delimiter)[0], logger),
		sourceOpts: source.Options{
			Delimiter:       []rune(cfg.CSV.Delimiter)[0],
			DateFormat:      cfg.CSV.DateFormat,
			DefaultCurrency: cfg.CSV.DefaultCurrency,
		},
	}

	var ledger store.FrozenLedger
	if cfg.Ledger.Enabled {
		l, err := store.OpenLedger(cfg.Ledger.Path, logger)
		if err != nil {
			return nil, err
		}
		c.ledger = l
		ledger = l
		logger.Info("Frozen-allocation ledger enabled", logging.F(logging.FieldFile, cfg.Ledger.Path))
	}

	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		gemini, err := advisor.NewGeminiAdvisor(context.Background(), advisor.GeminiOptions{
			APIKey:            cfg.AI.APIKey,
			Model:             cfg.AI.Model,
			RequestsPerMinute: cfg.AI.RequestsPerMinute,
			Timeout:           time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
		}, logger)
		if err != nil {
			logger.WithError(err).Warn("AI advisor unavailable")
		} else {
			c.advisor = gemini
			logger.Info("AI advisor enabled", logging.F(logging.FieldModel, cfg.AI.Model))
		}
	} else {
		logger.Debug("AI advisor disabled")
	}

	c.planner = planner.New(cls, history.NewAggregator(logger), eng, validator, ledger, c.advisor, logger)

	logger.Debug("Container initialized successfully",
		logging.F("ledger_enabled", cfg.Ledger.Enabled),
		logging.F("ai_enabled", cfg.AI.Enabled))
	return c, nil
}

// TemporalConfig converts the engine settings into temporal rules.
func TemporalConfig(e config.EngineConfig) (temporal.Config, error) {
	weekend, err := dateutils.ParseWeekdays(e.WeekendDays)
	if err != nil {
		return temporal.Config{}, fmt.Errorf("invalid weekend days: %w", err)
	}
	return temporal.Config{
		WeekendDays:                weekend,
		WeekendFactor:              decimal.NewFromFloat(e.WeekendFactor),
		MonthEndConservationFactor: decimal.NewFromFloat(e.MonthEndConservationFactor),
		MonthEndWindowDays:         e.MonthEndWindowDays,
		PaydayDay:                  e.PaydayDay,
		PaydayWindowDays:           e.PaydayWindowDays,
		PaydayFactor:               decimal.NewFromFloat(e.PaydayFactor),
		MinFactor:                  decimal.NewFromFloat(e.MinFactor),
	}, nil
}

// EngineConfig converts the engine settings into the redistribution config.
func EngineConfig(e config.EngineConfig) engine.Config {
	return engine.Config{
		MinDailyRatio:     decimal.NewFromFloat(e.MinDailyRatio),
		NormalizeTemporal: e.NormalizeTemporal,
	}
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetTables returns the tier, locality and category tables in use.
func (c *Container) GetTables() *config.Tables {
	return c.tables
}

// GetClassifier returns the income classifier.
func (c *Container) GetClassifier() *classifier.Classifier {
	return c.classifier
}

// GetEngine returns the redistribution engine.
func (c *Container) GetEngine() *engine.Engine {
	return c.engine
}

// GetValidator returns the allocation validator.
func (c *Container) GetValidator() *validation.Validator {
	return c.validator
}

// GetPlanner returns the planner.
func (c *Container) GetPlanner() *planner.Planner {
	return c.planner
}

// GetReportGenerator returns the report generator.
func (c *Container) GetReportGenerator() *report.Generator {
	return c.reports
}

// GetSourceOptions returns the transaction source settings.
func (c *Container) GetSourceOptions() source.Options {
	return c.sourceOpts
}

// GetAdvisor returns the advisor; it is advisor.Noop when AI is disabled.
func (c *Container) GetAdvisor() advisor.Advisor {
	return c.advisor
}

// LedgerEnabled reports whether a ledger database is open.
func (c *Container) LedgerEnabled() bool {
	return c.ledger != nil
}

// Close releases the ledger database and the AI client.
func (c *Container) Close() error {
	var firstErr error
	if c.ledger != nil {
		if err := c.ledger.Close(); err != nil {
			firstErr = err
		}
	}
	if g, ok := c.advisor.(*advisor.GeminiAdvisor); ok {
		if err := g.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.logger.Debug("Container closed")
	return firstErr
}
