// Package history implements the history command.
package history

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"fjacquet/daily-budget/cmd/common"
	"fjacquet/daily-budget/cmd/root"
	"fjacquet/daily-budget/internal/budgeterror"
	"fjacquet/daily-budget/internal/container"
	"fjacquet/daily-budget/internal/models"
	"fjacquet/daily-budget/internal/report"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// Options holds the command's flags.
type Options struct {
	Month    string
	Start    string
	End      string
	AsOf     string
	Currency string
}

var opts Options

// Cmd represents the history command
var Cmd = &cobra.Command{
	Use:   "history",
	Short: "Aggregate spending per elapsed day of a period",
	Long: `Read a transactions file and print the spending of every elapsed day of the
period, split by category.

Example:
  daily-budget history -i april.csv --month 2024-04 --as-of 2024-04-12`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		if c == nil {
			return fmt.Errorf("container not initialized")
		}
		return Run(c, opts, root.SharedFlags, time.Now())
	},
}

func init() {
	Cmd.Flags().StringVar(&opts.Month, "month", "", "Budget month YYYY-MM (default current month)")
	Cmd.Flags().StringVar(&opts.Start, "start", "", "Period start, overrides --month")
	Cmd.Flags().StringVar(&opts.End, "end", "", "Period end, overrides --month")
	Cmd.Flags().StringVar(&opts.AsOf, "as-of", "", "Reference date (default today)")
	Cmd.Flags().StringVar(&opts.Currency, "currency", "", "ISO 4217 currency (default csv.default_currency)")
}

// Run aggregates the input file and writes the history.
func Run(c *container.Container, o Options, shared root.CommonFlags, now time.Time) error {
	if shared.Input == "" {
		return budgeterror.NewInvalidInput("input", "", "a transactions file is required")
	}
	logger := c.GetLogger()

	period, asOf, err := buildPeriod(o, c.GetConfig().CSV.DefaultCurrency, now)
	if err != nil {
		return err
	}
	txs, err := common.LoadTransactions(shared.Input, c.GetSourceOptions(), logger)
	if err != nil {
		return err
	}
	h, err := c.GetPlanner().History(txs, period, asOf)
	if err != nil {
		return err
	}

	var out []byte
	if shared.Format == report.FormatJSON {
		if out, err = json.MarshalIndent(h, "", "  "); err != nil {
			return fmt.Errorf("error marshaling history: %w", err)
		}
		out = append(out, '\n')
	} else {
		out = []byte(report.RenderHistory(h))
	}
	return common.WriteOutput(out, shared.Output, logger)
}

func buildPeriod(o Options, defaultCurrency string, now time.Time) (models.BudgetPeriod, time.Time, error) {
	month, err := common.ParseMonth(o.Month, now)
	if err != nil {
		return models.BudgetPeriod{}, time.Time{}, err
	}
	currency := o.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	period := models.NewMonthlyPeriod(month.Year(), month.Month(), decimal.Zero, decimal.Zero, decimal.Zero, strings.ToUpper(currency))

	start, err := common.ParseDay("start", o.Start)
	if err != nil {
		return models.BudgetPeriod{}, time.Time{}, err
	}
	if !start.IsZero() {
		period.Start = start
	}
	end, err := common.ParseDay("end", o.End)
	if err != nil {
		return models.BudgetPeriod{}, time.Time{}, err
	}
	if !end.IsZero() {
		period.End = end
	}

	asOf, err := common.ParseDay("as-of", o.AsOf)
	if err != nil {
		return models.BudgetPeriod{}, time.Time{}, err
	}
	if asOf.IsZero() {
		asOf = models.Day(now)
	}
	return period, asOf, nil
}
