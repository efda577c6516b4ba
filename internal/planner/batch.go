package planner

import (
	"context"

	"fjacquet/daily-budget/internal/logging"
	"fjacquet/daily-budget/internal/models"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds PlanBatch when no limit is given.
const DefaultConcurrency = 4

// BatchResult is the outcome of one request of a batch.
type BatchResult struct {
	Request Request
	Plan    *models.Plan
	Err     error
}

// PlanBatch plans every request with at most concurrency runs in flight.
// Results come back in input order; one failing request does not stop the
// others. Cancelling ctx stops requests that have not started.
func (p *Planner) PlanBatch(ctx context.Context, reqs []Request, concurrency int) []BatchResult {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]BatchResult, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, req := range reqs {
		results[i].Request = req
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			plan, err := p.Plan(gctx, req)
			results[i].Plan, results[i].Err = plan, err
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	p.logger.Info("Batch complete",
		logging.F(logging.FieldCount, len(reqs)),
		logging.F("failed", failed))
	return results
}
