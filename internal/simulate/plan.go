// SPDX-License-Identifier: AGPL-3.0-or-later

package simulate

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Run is one entry of a plan file.
type Run struct {
	Model   string `yaml:"model"`
	ID      string `yaml:"id"`
	Epochs  int    `yaml:"epochs"`
	Batches int    `yaml:"batches"`
	Seed    int64  `yaml:"seed"`
}

// RunPlan is the YAML document read by LoadPlan:
//
//	runs:
//	  - model: boston
//	    epochs: 20
//	  - model: imdb
//	    id: imdb-baseline
type RunPlan struct {
	Runs []Run `yaml:"runs"`
}

func LoadPlan(path string) (RunPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunPlan{}, fmt.Errorf("read plan: %w", err)
	}
	return ParsePlan(data)
}

func ParsePlan(data []byte) (RunPlan, error) {
	var plan RunPlan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return RunPlan{}, fmt.Errorf("parse plan: %w", err)
	}
	for i, run := range plan.Runs {
		if run.Model == "" {
			return RunPlan{}, fmt.Errorf("parse plan: run %d has no model", i)
		}
		if run.Epochs < 0 || run.Batches < 0 {
			return RunPlan{}, fmt.Errorf("parse plan: run %d (%s) has a negative size", i, run.Model)
		}
	}
	return plan, nil
}

// PlanFor builds a plan running each named model once with default sizes.
func PlanFor(models []string, epochs, batches int) RunPlan {
	plan := RunPlan{Runs: make([]Run, 0, len(models))}
	for i, name := range models {
		plan.Runs = append(plan.Runs, Run{
			Model:   name,
			Epochs:  epochs,
			Batches: batches,
			Seed:    int64(i + 1),
		})
	}
	return plan
}
