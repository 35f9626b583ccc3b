// SPDX-License-Identifier: AGPL-3.0-or-later

// Package simulate provides stand-in models whose metrics evolve like real
// training runs, so the reporting path can be exercised without a framework.
package simulate

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/keruvi/keruvi/internal/trainer"
	"github.com/keruvi/keruvi/sdk/monitor"
)

type Task int

const (
	Regression Task = iota
	Classification
)

// Spec describes a simulated model.
type Spec struct {
	Name    string
	Task    Task
	Classes int
	Plan    trainer.Plan
	Extra   monitor.Logs // static entries added to every epoch snapshot
}

// Catalog returns the known models keyed by name. The imdb entry reports the
// size of vocab.
func Catalog(vocab *Vocabulary) map[string]Spec {
	return map[string]Spec{
		"boston": {
			Name: "boston", Task: Regression,
			Plan: trainer.Plan{Epochs: 200, Batches: 21},
		},
		"mnist": {
			Name: "mnist", Task: Classification, Classes: 10,
			Plan: trainer.Plan{Epochs: 5, Batches: 469},
		},
		"handwritten_digits": {
			Name: "handwritten_digits", Task: Classification, Classes: 10,
			Plan: trainer.Plan{Epochs: 10, Batches: 12},
		},
		"gtsrb": {
			Name: "gtsrb", Task: Classification, Classes: 43,
			Plan: trainer.Plan{Epochs: 15, Batches: 981},
		},
		"imdb": {
			Name: "imdb", Task: Classification, Classes: 2,
			Plan:  trainer.Plan{Epochs: 4, Batches: 30},
			Extra: monitor.Logs{"vocab_size": vocab.Size()},
		},
	}
}

// Names lists the catalog's model names in sorted order.
func Names(catalog map[string]Spec) []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Model yields float32 metrics that decay towards a floor with noise, the
// way a numeric library hands them to its callbacks.
type Model struct {
	spec  Spec
	rng   *rand.Rand
	steps int
	total int
	loss  float64
}

var _ trainer.Model = (*Model)(nil)

func NewModel(spec Spec, seed int64) *Model {
	initial := 1.0
	if spec.Task == Regression {
		initial = 550.0
	} else if spec.Classes > 1 {
		initial = math.Log(float64(spec.Classes))
	}
	return &Model{
		spec:  spec,
		rng:   rand.New(rand.NewSource(seed)),
		total: spec.Plan.Epochs * spec.Plan.Batches,
		loss:  initial,
	}
}

func (m *Model) progress() float64 {
	if m.total == 0 {
		return 1
	}
	return float64(m.steps) / float64(m.total)
}

func (m *Model) noise(scale float64) float64 {
	return 1 + (m.rng.Float64()-0.5)*scale
}

func (m *Model) TrainBatch(ctx context.Context, epoch, batch int) (monitor.Logs, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.steps++

	floor := 0.02
	if m.spec.Task == Regression {
		floor = 9
	}
	decay := math.Exp(-5 * m.progress())
	m.loss = (floor + (m.loss-floor)*0.5 + (m.loss-floor)*0.5*decay) * m.noise(0.05)

	logs := monitor.Logs{
		"batch": batch,
		"size":  32,
		"loss":  float32(m.loss),
	}
	if m.spec.Task == Classification {
		logs["accuracy"] = float32(m.accuracy())
	}
	return logs, nil
}

func (m *Model) accuracy() float64 {
	chance := 1.0 / float64(max(m.spec.Classes, 2))
	acc := chance + (0.99-chance)*(1-math.Exp(-4*m.progress()))
	return math.Min(acc*m.noise(0.02), 1)
}

func (m *Model) EndEpoch(ctx context.Context, epoch int) (monitor.Logs, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logs := monitor.Logs{
		"loss":     float32(m.loss),
		"val_loss": float32(m.loss * m.noise(0.2) * 1.1),
	}
	if m.spec.Task == Classification {
		logs["accuracy"] = float32(m.accuracy())
		logs["val_accuracy"] = float32(m.accuracy() * 0.97)
	}
	for k, v := range m.spec.Extra {
		logs[k] = v
	}
	return logs, nil
}

// Lookup returns the spec called name, with plan overrides applied when positive.
func Lookup(catalog map[string]Spec, name string, epochs, batches int) (Spec, error) {
	spec, ok := catalog[name]
	if !ok {
		return Spec{}, fmt.Errorf("unknown model %q (known: %v)", name, Names(catalog))
	}
	if epochs > 0 {
		spec.Plan.Epochs = epochs
	}
	if batches > 0 {
		spec.Plan.Batches = batches
	}
	return spec, nil
}
