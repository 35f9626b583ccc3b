// SPDX-License-Identifier: AGPL-3.0-or-later

package simulate

import (
	"context"
	"fmt"
	"time"

	"github.com/keruvi/keruvi/internal/trainer"
	"github.com/keruvi/keruvi/pkg/logger"
	"github.com/keruvi/keruvi/sdk/monitor"
)

// Result summarizes one finished run.
type Result struct {
	Model    string
	RunID    string
	Final    monitor.Logs
	Duration time.Duration
}

// Runner executes plan runs, each reported through its own Monitor built
// from a shared base configuration.
type Runner struct {
	base    monitor.Config
	catalog map[string]Spec
}

func NewRunner(base monitor.Config, catalog map[string]Spec) *Runner {
	return &Runner{base: base, catalog: catalog}
}

// Execute trains a single run. The run id defaults to the base ModelID, then
// to the model name.
func (r *Runner) Execute(ctx context.Context, run Run) (Result, error) {
	spec, err := Lookup(r.catalog, run.Model, run.Epochs, run.Batches)
	if err != nil {
		return Result{}, err
	}

	cfg := r.base
	switch {
	case run.ID != "":
		cfg.ModelID = run.ID
	case cfg.ModelID == "":
		cfg.ModelID = spec.Name
	}

	mon, err := monitor.New(cfg)
	if err != nil {
		return Result{}, fmt.Errorf("run %s: %w", spec.Name, err)
	}

	seed := run.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	logger.InfoCtx("SIMULATOR", "Training %s as %s (%d epochs x %d batches) -> %s",
		spec.Name, mon.ModelID(), spec.Plan.Epochs, spec.Plan.Batches, mon.Endpoints().Epoch)

	start := time.Now()
	final, err := trainer.Fit(ctx, NewModel(spec, seed), spec.Plan, mon)
	if err != nil {
		return Result{}, fmt.Errorf("run %s: %w", mon.ModelID(), err)
	}

	res := Result{
		Model:    spec.Name,
		RunID:    mon.ModelID(),
		Final:    final,
		Duration: time.Since(start),
	}
	logger.InfoCtx("SIMULATOR", "Finished %s in %s: %v", res.RunID, res.Duration.Round(time.Millisecond), final)
	return res, nil
}

// ExecutePlan runs every entry in order and stops at the first failure.
func (r *Runner) ExecutePlan(ctx context.Context, plan RunPlan) ([]Result, error) {
	results := make([]Result, 0, len(plan.Runs))
	for _, run := range plan.Runs {
		res, err := r.Execute(ctx, run)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}
