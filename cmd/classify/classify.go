// Package classify implements the classify command.
package classify

import (
	"encoding/json"
	"fmt"

	"fjacquet/daily-budget/cmd/common"
	"fjacquet/daily-budget/cmd/root"
	"fjacquet/daily-budget/internal/container"
	"fjacquet/daily-budget/internal/logging"
	"fjacquet/daily-budget/internal/report"

	"github.com/spf13/cobra"
)

var (
	income   string
	locality string
)

// Cmd represents the classify command
var Cmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a monthly income into a budgeting tier",
	Long: `Classify a monthly income into a tier and print the commitment, savings and
buffer ratios that apply to it.

Example:
  daily-budget classify --income 6500 --locality zh`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		if c == nil {
			return fmt.Errorf("container not initialized")
		}
		return Run(c, income, locality, root.SharedFlags)
	},
}

func init() {
	Cmd.Flags().StringVar(&income, "income", "", "Monthly net income (required)")
	Cmd.Flags().StringVar(&locality, "locality", "", "Locality code for the cost-of-living multiplier")
	_ = Cmd.MarkFlagRequired("income")
}

// Run classifies the income and writes the result.
func Run(c *container.Container, incomeFlag, localityFlag string, shared root.CommonFlags) error {
	amount, err := common.ParseAmount("income", incomeFlag)
	if err != nil {
		return err
	}
	classification, err := c.GetPlanner().Classify(amount, localityFlag)
	if err != nil {
		return err
	}

	logger := c.GetLogger()
	logger.Debug("Income classified",
		logging.F(logging.FieldTier, string(classification.Tier)),
		logging.F(logging.FieldLocality, localityFlag))

	var out []byte
	if shared.Format == report.FormatJSON {
		if out, err = json.MarshalIndent(classification, "", "  "); err != nil {
			return fmt.Errorf("error marshaling classification: %w", err)
		}
		out = append(out, '\n')
	} else {
		out = []byte(report.RenderClassification(classification))
	}
	return common.WriteOutput(out, shared.Output, logger)
}
