// Package report renders plans as terminal tables, JSON or CSV.
package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"fjacquet/daily-budget/internal/logging"
	"fjacquet/daily-budget/internal/models"

	"github.com/gocarina/gocsv"
)

// Format names.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

// Generator renders plans in the supported formats.
type Generator struct {
	delimiter rune
	logger    logging.Logger
}

// NewGenerator creates a Generator. delimiter applies to CSV output.
func NewGenerator(delimiter rune, logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if delimiter == 0 {
		delimiter = ','
	}
	return &Generator{delimiter: delimiter, logger: logger}
}

// Generate renders plan in format.
func (g *Generator) Generate(plan *models.Plan, format string) ([]byte, error) {
	if plan == nil || plan.Result == nil {
		return nil, fmt.Errorf("no plan to render")
	}
	switch format {
	case FormatTable:
		return []byte(RenderPlan(plan)), nil
	case FormatJSON:
		return g.generateJSON(plan)
	case FormatCSV:
		return g.generateCSV(plan)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *Generator) generateJSON(plan *models.Plan) ([]byte, error) {
	out, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return append(out, '\n'), nil
}

// dayRow is one CSV line.
type dayRow struct {
	Date           string `csv:"date"`
	Factor         string `csv:"factor"`
	TemporalBudget string `csv:"temporal_budget"`
	Allocated      string `csv:"allocated_amount"`
	ActualSpent    string `csv:"actual_spent"`
	Elapsed        bool   `csv:"elapsed"`
	Frozen         bool   `csv:"frozen"`
	Categories     string `csv:"categories"`
	Currency       string `csv:"currency"`
}

func (g *Generator) generateCSV(plan *models.Plan) ([]byte, error) {
	rows := make([]*dayRow, 0, len(plan.Result.DayAllocations))
	for _, d := range plan.Result.DayAllocations {
		row := &dayRow{
			Date:           models.DateKey(d.Date),
			Factor:         d.Factor.String(),
			TemporalBudget: d.TemporalBudget.String(),
			Allocated:      d.AllocatedAmount.String(),
			Elapsed:        d.Elapsed,
			Frozen:         d.Frozen,
			Categories:     FlattenCategories(d),
			Currency:       plan.Result.Currency,
		}
		if d.ActualSpent != nil {
			row.ActualSpent = d.ActualSpent.String()
		}
		rows = append(rows, row)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = g.delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(w)); err != nil {
		g.logger.WithError(err).Error("Failed to marshal CSV report")
		return nil, fmt.Errorf("error writing CSV data: %w", err)
	}
	return buf.Bytes(), nil
}

// FlattenCategories renders a breakdown as "name=amount;name=amount", sorted
// by name.
func FlattenCategories(d models.DayAllocation) string {
	names := make([]string, 0, len(d.CategoryBreakdown))
	for name := range d.CategoryBreakdown {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+"="+d.CategoryBreakdown[name].String())
	}
	return strings.Join(parts, ";")
}
