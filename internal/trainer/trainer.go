// SPDX-License-Identifier: AGPL-3.0-or-later

// Package trainer drives a training loop and invokes monitor callbacks at each
// lifecycle transition.
package trainer

import (
	"context"
	"errors"
	"fmt"

	"github.com/keruvi/keruvi/sdk/monitor"
)

// Model is trained one batch at a time. EndEpoch returns the epoch-level
// metrics, typically merged with validation results.
type Model interface {
	TrainBatch(ctx context.Context, epoch, batch int) (monitor.Logs, error)
	EndEpoch(ctx context.Context, epoch int) (monitor.Logs, error)
}

type Plan struct {
	Epochs  int
	Batches int // per epoch
}

var ErrEmptyPlan = errors.New("trainer: plan needs at least one epoch and one batch")

// Fit runs plan against model. A callback error aborts the run and is returned
// as is, wrapped with the event position. On success the last epoch's metrics
// are returned after OnTrainEnd has been delivered.
func Fit(ctx context.Context, model Model, plan Plan, callbacks ...monitor.Callback) (monitor.Logs, error) {
	if plan.Epochs < 1 || plan.Batches < 1 {
		return nil, ErrEmptyPlan
	}

	var last monitor.Logs
	for epoch := 0; epoch < plan.Epochs; epoch++ {
		for batch := 0; batch < plan.Batches; batch++ {
			if err := ctx.Err(); err != nil {
				return last, err
			}

			logs, err := model.TrainBatch(ctx, epoch, batch)
			if err != nil {
				return last, fmt.Errorf("trainer: epoch %d batch %d: %w", epoch, batch, err)
			}
			for _, cb := range callbacks {
				if err := cb.OnBatchEnd(ctx, batch, logs); err != nil {
					return last, fmt.Errorf("trainer: batch %d callback: %w", batch, err)
				}
			}
		}

		logs, err := model.EndEpoch(ctx, epoch)
		if err != nil {
			return last, fmt.Errorf("trainer: epoch %d: %w", epoch, err)
		}
		for _, cb := range callbacks {
			if err := cb.OnEpochEnd(ctx, epoch, logs); err != nil {
				return last, fmt.Errorf("trainer: epoch %d callback: %w", epoch, err)
			}
		}
		last = logs
	}

	for _, cb := range callbacks {
		if err := cb.OnTrainEnd(ctx, last); err != nil {
			return last, fmt.Errorf("trainer: train end callback: %w", err)
		}
	}
	return last, nil
}
