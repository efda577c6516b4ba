// Package batch handles planning many profiles at once
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"fjacquet/daily-budget/cmd/common"
	"fjacquet/daily-budget/cmd/redistribute"
	"fjacquet/daily-budget/cmd/root"
	"fjacquet/daily-budget/internal/container"
	"fjacquet/daily-budget/internal/fileutils"
	"fjacquet/daily-budget/internal/logging"
	"fjacquet/daily-budget/internal/models"
	"fjacquet/daily-budget/internal/planner"

	"github.com/spf13/cobra"
)

var (
	profilesFile string
	concurrency  int
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Plan many profiles from a YAML profiles file",
	Long: `Plan every profile listed in a YAML profiles file and write one report per
profile into the output directory. Profiles are planned in parallel; a failing
profile is reported and does not stop the others.

Example:
  daily-budget batch --profiles profiles.yaml -o reports/ -f csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		if c == nil {
			return fmt.Errorf("container not initialized")
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		_, err := Run(ctx, c, profilesFile, concurrency, root.SharedFlags)
		return err
	},
}

func init() {
	Cmd.Flags().StringVar(&profilesFile, "profiles", "profiles.yaml", "YAML file listing the profiles to plan")
	Cmd.Flags().IntVar(&concurrency, "concurrency", planner.DefaultConcurrency, "Maximum number of profiles planned at once")
}

// Run plans every profile and returns the number of reports written. It fails
// when any profile failed.
func Run(ctx context.Context, c *container.Container, path string, limit int, shared root.CommonFlags) (int, error) {
	logger := c.GetLogger()
	if shared.Output == "" {
		return 0, fmt.Errorf("an output directory must be specified")
	}
	if err := fileutils.EnsureDirectoryExists(shared.Output); err != nil {
		return 0, err
	}

	profiles, err := LoadProfiles(path)
	if err != nil {
		return 0, err
	}
	logger.Info("Found profiles for processing", logging.F(logging.FieldCount, len(profiles)))

	now := time.Now()
	failed := 0
	var reqs []planner.Request
	for _, p := range profiles {
		req, err := buildRequest(p, c, now)
		if err != nil {
			failed++
			logger.WithError(err).Error("Skipping profile", logging.F(logging.FieldProfile, p.ID))
			continue
		}
		reqs = append(reqs, req)
	}

	written := 0
	for _, r := range c.GetPlanner().PlanBatch(ctx, reqs, limit) {
		if r.Err != nil {
			failed++
			logger.WithError(r.Err).Error("Failed to plan profile", logging.F(logging.FieldProfile, r.Request.ProfileID))
			continue
		}
		out := filepath.Join(shared.Output, reportName(r.Plan, shared.Format))
		if err := common.RenderPlan(c.GetReportGenerator(), r.Plan, shared.Format, out, logger); err != nil {
			failed++
			logger.WithError(err).Error("Failed to write report", logging.F(logging.FieldProfile, r.Plan.ProfileID))
			continue
		}
		written++
	}

	logger.Info(fmt.Sprintf("Batch processing completed. %d reports created.", written),
		logging.F("failed", failed))
	if failed > 0 {
		return written, fmt.Errorf("%d of %d profiles failed", failed, len(profiles))
	}
	return written, nil
}

func buildRequest(p Profile, c *container.Container, now time.Time) (planner.Request, error) {
	req, err := redistribute.BuildRequest(p.options(c.GetConfig().CSV.DefaultCurrency), now)
	if err != nil {
		return planner.Request{}, err
	}
	req.Transactions, err = common.LoadTransactions(p.Transactions, c.GetSourceOptions(), c.GetLogger())
	if err != nil {
		return planner.Request{}, err
	}
	return req, nil
}

// reportName is "<profile>_<start>_<end><ext>".
func reportName(plan *models.Plan, format string) string {
	return plan.ProfileID + "_" + plan.Period.Key() + common.ReportExtension(format)
}
