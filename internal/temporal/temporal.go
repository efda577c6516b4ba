// Package temporal computes the per-day multiplier applied to the base daily
// budget: weekend boost, month-end conservation and payday proximity.
package temporal

import (
	"fmt"
	"time"

	"fjacquet/daily-budget/internal/dateutils"

	"github.com/shopspring/decimal"
)

// Config holds the rule parameters. A zero PaydayDay disables the payday rule.
type Config struct {
	WeekendDays                []time.Weekday
	WeekendFactor              decimal.Decimal
	MonthEndConservationFactor decimal.Decimal
	MonthEndWindowDays         int
	PaydayDay                  int
	PaydayWindowDays           int
	PaydayFactor               decimal.Decimal
	MinFactor                  decimal.Decimal
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		WeekendDays:                []time.Weekday{time.Saturday, time.Sunday},
		WeekendFactor:              decimal.RequireFromString("1.15"),
		MonthEndConservationFactor: decimal.RequireFromString("0.85"),
		MonthEndWindowDays:         5,
		PaydayWindowDays:           3,
		PaydayFactor:               decimal.RequireFromString("1.05"),
		MinFactor:                  decimal.RequireFromString("0.5"),
	}
}

// Adjuster is a pure function of its Config and safe for concurrent use.
type Adjuster struct {
	cfg     Config
	weekend map[time.Weekday]bool
}

// New validates cfg and returns an Adjuster.
func New(cfg Config) (*Adjuster, error) {
	for name, f := range map[string]decimal.Decimal{
		"weekend factor":   cfg.WeekendFactor,
		"month-end factor": cfg.MonthEndConservationFactor,
		"payday factor":    cfg.PaydayFactor,
		"minimum factor":   cfg.MinFactor,
	} {
		if !f.IsPositive() {
			return nil, fmt.Errorf("%s must be > 0, got %s", name, f)
		}
	}
	if cfg.MonthEndWindowDays < 0 || cfg.PaydayWindowDays < 0 {
		return nil, fmt.Errorf("rule windows must be >= 0")
	}
	if cfg.PaydayDay < 0 || cfg.PaydayDay > 31 {
		return nil, fmt.Errorf("payday day must be between 0 and 31, got %d", cfg.PaydayDay)
	}

	weekend := make(map[time.Weekday]bool, len(cfg.WeekendDays))
	for _, d := range cfg.WeekendDays {
		weekend[d] = true
	}
	return &Adjuster{cfg: cfg, weekend: weekend}, nil
}

// Config returns the adjuster settings.
func (a *Adjuster) Config() Config { return a.cfg }

// AdjustmentFactor returns the multiplier for date within [periodStart, periodEnd].
// Rules compose multiplicatively and the product never drops below MinFactor.
func (a *Adjuster) AdjustmentFactor(date, periodStart, periodEnd time.Time) decimal.Decimal {
	factor := decimal.NewFromInt(1)
	for _, r := range a.Rules(date, periodStart, periodEnd) {
		factor = factor.Mul(r.Factor)
	}
	if factor.LessThan(a.cfg.MinFactor) {
		return a.cfg.MinFactor
	}
	return factor
}

// Rule is one rule that fired for a date.
type Rule struct {
	Name   string
	Factor decimal.Decimal
}

// Rule names reported by Rules.
const (
	RuleWeekend  = "weekend"
	RuleMonthEnd = "month-end"
	RulePayday   = "payday"
)

// Rules lists the rules applying to date, in evaluation order.
func (a *Adjuster) Rules(date, periodStart, periodEnd time.Time) []Rule {
	day := dateutils.CalendarDay(date)
	var rules []Rule

	if a.weekend[day.Weekday()] {
		rules = append(rules, Rule{Name: RuleWeekend, Factor: a.cfg.WeekendFactor})
	}

	left := dateutils.DaysBetween(day, periodEnd)
	if left >= 0 && left < a.cfg.MonthEndWindowDays {
		rules = append(rules, Rule{Name: RuleMonthEnd, Factor: a.cfg.MonthEndConservationFactor})
	}

	if a.cfg.PaydayDay > 0 && a.cfg.PaydayWindowDays > 0 {
		payday := a.cfg.PaydayDay
		if last := dateutils.EndOfMonth(day).Day(); payday > last {
			payday = last
		}
		if day.Day() >= payday && day.Day() < payday+a.cfg.PaydayWindowDays {
			rules = append(rules, Rule{Name: RulePayday, Factor: a.cfg.PaydayFactor})
		}
	}
	return rules
}
