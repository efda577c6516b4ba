// Package redistribute implements the redistribute command.
package redistribute

import (
	"context"
	"fmt"
	"time"

	"fjacquet/daily-budget/cmd/common"
	"fjacquet/daily-budget/cmd/root"
	"fjacquet/daily-budget/internal/container"
	"fjacquet/daily-budget/internal/engine"
	"fjacquet/daily-budget/internal/logging"
	"fjacquet/daily-budget/internal/planner"

	"github.com/spf13/cobra"
)

// Options holds the command's flags.
type Options struct {
	Profile  string
	Income   string
	Fixed    string
	Savings  string
	Month    string
	Start    string
	End      string
	AsOf     string
	Currency string
	Locality string
	Mode     string
	Freeze   bool
	Advise   bool
}

var opts Options

// Cmd represents the redistribute command
var Cmd = &cobra.Command{
	Use:   "redistribute",
	Short: "Compute daily allocations for a budget period",
	Long: `Compute the daily spending allocations of one budget period.

Without --input every day gets its temporally adjusted budget. With a
transactions file (.csv or CAMT.053 .xml) the surplus or deficit of elapsed
days is moved onto the remaining days.

Example:
  daily-budget redistribute --income 5200 --month 2024-04 -i april.csv --as-of 2024-04-12`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		if c == nil {
			return fmt.Errorf("container not initialized")
		}
		return Run(cmd.Context(), c, opts, root.SharedFlags)
	},
}

func init() {
	Cmd.Flags().StringVar(&opts.Profile, "profile", planner.DefaultProfileID, "Profile id, keys the frozen-allocation ledger")
	Cmd.Flags().StringVar(&opts.Income, "income", "", "Monthly net income (required)")
	Cmd.Flags().StringVar(&opts.Fixed, "fixed", "", "Fixed commitments (default derived from the income tier)")
	Cmd.Flags().StringVar(&opts.Savings, "savings", "", "Savings target (default derived from the income tier)")
	Cmd.Flags().StringVar(&opts.Month, "month", "", "Budget month YYYY-MM (default current month)")
	Cmd.Flags().StringVar(&opts.Start, "start", "", "Period start, overrides --month")
	Cmd.Flags().StringVar(&opts.End, "end", "", "Period end, overrides --month")
	Cmd.Flags().StringVar(&opts.AsOf, "as-of", "", "Reference date (default today)")
	Cmd.Flags().StringVar(&opts.Currency, "currency", "", "ISO 4217 currency (default csv.default_currency)")
	Cmd.Flags().StringVar(&opts.Locality, "locality", "", "Locality code for the cost-of-living multiplier")
	Cmd.Flags().StringVar(&opts.Mode, "mode", "auto", "Computation mode: auto, full or basic")
	Cmd.Flags().BoolVar(&opts.Freeze, "freeze", false, "Record elapsed allocations in the ledger")
	Cmd.Flags().BoolVar(&opts.Advise, "advise", false, "Ask the AI advisor for a note")
	_ = Cmd.MarkFlagRequired("income")
}

// Run plans one period and writes the report.
func Run(ctx context.Context, c *container.Container, o Options, shared root.CommonFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := c.GetLogger()

	if o.Currency == "" {
		o.Currency = c.GetConfig().CSV.DefaultCurrency
	}
	req, err := BuildRequest(o, time.Now())
	if err != nil {
		return err
	}
	req.Transactions, err = common.LoadTransactions(shared.Input, c.GetSourceOptions(), logger)
	if err != nil {
		return err
	}

	plan, err := c.GetPlanner().Plan(ctx, req)
	if err != nil {
		return err
	}
	logger.Debug("Rendering plan", logging.F(logging.FieldFormat, shared.Format))
	return common.RenderPlan(c.GetReportGenerator(), plan, shared.Format, shared.Output, logger)
}

// BuildRequest converts the flags into a planner request.
func BuildRequest(o Options, now time.Time) (planner.Request, error) {
	income, err := common.ParseAmount("income", o.Income)
	if err != nil {
		return planner.Request{}, err
	}
	month, err := common.ParseMonth(o.Month, now)
	if err != nil {
		return planner.Request{}, err
	}
	req := planner.MonthRequest(o.Profile, month, income, o.Currency)

	start, err := common.ParseDay("start", o.Start)
	if err != nil {
		return planner.Request{}, err
	}
	if !start.IsZero() {
		req.Start = start
	}
	end, err := common.ParseDay("end", o.End)
	if err != nil {
		return planner.Request{}, err
	}
	if !end.IsZero() {
		req.End = end
	}

	if req.FixedCommitments, err = common.OptionalAmount("fixed", o.Fixed); err != nil {
		return planner.Request{}, err
	}
	if req.SavingsTarget, err = common.OptionalAmount("savings", o.Savings); err != nil {
		return planner.Request{}, err
	}
	if req.AsOf, err = common.ParseDay("as-of", o.AsOf); err != nil {
		return planner.Request{}, err
	}
	if req.Mode, err = engine.ParseMode(o.Mode); err != nil {
		return planner.Request{}, err
	}

	req.Locality = o.Locality
	req.Freeze = o.Freeze
	req.Advise = o.Advise
	return req, nil
}
