// Package common contains shared functionality for command handlers
package common

import (
	"fmt"
	"os"
	"strings"
	"time"

	"fjacquet/daily-budget/internal/budgeterror"
	"fjacquet/daily-budget/internal/dateutils"
	"fjacquet/daily-budget/internal/fileutils"
	"fjacquet/daily-budget/internal/logging"
	"fjacquet/daily-budget/internal/models"
	"fjacquet/daily-budget/internal/report"
	"fjacquet/daily-budget/internal/source"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a required amount flag.
func ParseAmount(name, value string) (decimal.Decimal, error) {
	amount, err := models.ParseAmount(value)
	if err != nil {
		return decimal.Zero, budgeterror.NewInvalidInput(name, value, "not an amount")
	}
	return amount, nil
}

// OptionalAmount parses an optional amount flag; blank means nil.
func OptionalAmount(name, value string) (*decimal.Decimal, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	amount, err := ParseAmount(name, value)
	if err != nil {
		return nil, err
	}
	return &amount, nil
}

// ParseDay parses an optional date flag; blank means the zero time.
func ParseDay(name, value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	d, err := dateutils.ParseDate(value, dateutils.DateLayoutISO)
	if err != nil {
		return time.Time{}, budgeterror.NewInvalidInput(name, value, "unrecognised date")
	}
	return dateutils.CalendarDay(d), nil
}

// ParseMonth parses a YYYY-MM flag; blank means the current month.
func ParseMonth(value string, now time.Time) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return dateutils.StartOfMonth(now), nil
	}
	m, err := dateutils.ParseMonth(value)
	if err != nil {
		return time.Time{}, budgeterror.NewInvalidInput("month", value, "expected YYYY-MM")
	}
	return m, nil
}

// LoadTransactions reads the transactions file. An empty path returns nil,
// which plans without spending history.
func LoadTransactions(path string, opts source.Options, logger logging.Logger) ([]models.Transaction, error) {
	if path == "" {
		return nil, nil
	}
	txs, err := source.LoadFile(path, opts, logger)
	if err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	logger.Info("Loaded transactions",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(txs)))
	return txs, nil
}

// RenderPlan renders plan in format and writes it to output, or stdout when
// output is empty.
func RenderPlan(gen *report.Generator, plan *models.Plan, format, output string, logger logging.Logger) error {
	data, err := gen.Generate(plan, format)
	if err != nil {
		return err
	}
	return WriteOutput(data, output, logger)
}

// WriteOutput writes data to path, creating parent directories. An empty path
// writes to stdout.
func WriteOutput(data []byte, path string, logger logging.Logger) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := fileutils.WriteFileAtomic(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	logger.Info("Report written", logging.F(logging.FieldFile, path))
	return nil
}

// ReportExtension maps a report format to a file extension.
func ReportExtension(format string) string {
	switch format {
	case report.FormatJSON:
		return ".json"
	case report.FormatCSV:
		return ".csv"
	default:
		return ".txt"
	}
}
