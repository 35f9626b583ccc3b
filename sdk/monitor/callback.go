// SPDX-License-Identifier: MIT

package monitor

import "context"

// Callback is the set of lifecycle hooks a training engine invokes. A nil
// logs map is valid and means an empty snapshot. A returned error is meant
// to abort the run.
type Callback interface {
	OnBatchEnd(ctx context.Context, batch int, logs Logs) error
	OnEpochEnd(ctx context.Context, epoch int, logs Logs) error
	OnTrainEnd(ctx context.Context, logs Logs) error
}

var _ Callback = (*Monitor)(nil)
