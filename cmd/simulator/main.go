// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/keruvi/keruvi/internal/config"
	"github.com/keruvi/keruvi/internal/simulate"
	"github.com/keruvi/keruvi/pkg/logger"
)

// reviewCorpus seeds the imdb vocabulary.
const reviewCorpus = `one of the best films i have seen this year the acting was superb
and the story kept me hooked a total waste of time the plot was thin and the
dialogue painful i wanted to like it but the ending ruined everything`

func main() {
	if err := run(os.Args[1:]); err != nil {
		logger.ErrorCtx("SIMULATOR", "%v", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg := config.Load()
	logger.SetLevel(cfg.LogLevel)

	flags := pflag.NewFlagSet("simulator", pflag.ContinueOnError)
	root := flags.String("root", cfg.Monitor.Root, "collector root URL (end with / to keep its path)")
	path := flags.String("path", cfg.Monitor.Path, "sub-path joined onto the root URL")
	modelID := flags.String("model-id", cfg.Monitor.ModelID, "run identifier, defaults to the model name")
	models := flags.StringSlice("models", []string{"boston"}, "models to train")
	planFile := flags.String("plan", "", "YAML run plan, overrides --models")
	epochs := flags.Int("epochs", 0, "override epochs per run")
	batches := flags.Int("batches", 0, "override batches per epoch")
	flags.BoolVar(&cfg.Monitor.UseBatchCallback, "batch", cfg.Monitor.UseBatchCallback, "report batch events")
	flags.BoolVar(&cfg.Monitor.UseEpochCallback, "epoch", cfg.Monitor.UseEpochCallback, "report epoch events")
	flags.BoolVar(&cfg.Monitor.UseTrainCallback, "train", cfg.Monitor.UseTrainCallback, "report train events")
	flags.DurationVar(&cfg.Monitor.Timeout, "timeout", cfg.Monitor.Timeout, "per-request timeout (0 = none)")
	flags.IntVar(&cfg.Monitor.MaxRetries, "retries", cfg.Monitor.MaxRetries, "retries per event (0 = none)")
	list := flags.Bool("list", false, "list known models and exit")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg.Monitor.Root = *root
	cfg.Monitor.Path = *path
	cfg.Monitor.ModelID = *modelID

	catalog := simulate.Catalog(simulate.NewVocabularyFromText(reviewCorpus))
	if *list {
		for _, name := range simulate.Names(catalog) {
			spec := catalog[name]
			fmt.Printf("%-20s %d epochs x %d batches\n", name, spec.Plan.Epochs, spec.Plan.Batches)
		}
		return nil
	}

	plan := simulate.PlanFor(*models, *epochs, *batches)
	if *planFile != "" {
		var err error
		if plan, err = simulate.LoadPlan(*planFile); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("═══════════════════════════════════════════════════")
	logger.InfoCtx("SIMULATOR", "Collector: %s%s", cfg.Monitor.Root, cfg.Monitor.Path)
	logger.InfoCtx("SIMULATOR", "Events: batch=%v epoch=%v train=%v",
		cfg.Monitor.UseBatchCallback, cfg.Monitor.UseEpochCallback, cfg.Monitor.UseTrainCallback)
	logger.InfoCtx("SIMULATOR", "Runs: %s", describe(plan))
	logger.Info("═══════════════════════════════════════════════════")

	results, err := simulate.NewRunner(cfg.Monitor, catalog).ExecutePlan(ctx, plan)
	if err != nil {
		return err
	}

	logger.InfoCtx("SIMULATOR", "%d run(s) completed", len(results))
	return nil
}

func describe(plan simulate.RunPlan) string {
	names := make([]string, 0, len(plan.Runs))
	for _, r := range plan.Runs {
		names = append(names, r.Model)
	}
	return strings.Join(names, ", ")
}
