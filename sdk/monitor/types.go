// SPDX-License-Identifier: MIT

package monitor

// Logs is the metrics snapshot handed over by the training engine at a
// lifecycle event, keyed by metric name.
type Logs map[string]interface{}

// Payload is the body POSTed to the collector.
type Payload struct {
	ID      string  `json:"id"`
	Metrics Metrics `json:"metrics"`
}

// Metrics carries the normalized snapshot and the time it was built.
type Metrics struct {
	Timestamp string `json:"timestamp"`
	Logs      Logs   `json:"logs"`
}

// EventKind identifies a lifecycle event and the endpoint it reports to.
type EventKind int

const (
	EventBatch EventKind = iota
	EventEpoch
	EventTrain
)

// String returns the path segment used for the kind's endpoint.
func (k EventKind) String() string {
	switch k {
	case EventBatch:
		return "batch"
	case EventEpoch:
		return "epoch"
	case EventTrain:
		return "train"
	}
	return "unknown"
}
