// SPDX-License-Identifier: MIT

package monitor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	neturl "net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/keruvi/keruvi/pkg/logger"
)

var (
	ErrEmptyRoot        = errors.New("monitor: root url is required")
	ErrUnsupportedValue = errors.New("monitor: metric value cannot be encoded")
)

// StatusError is returned for a non-2xx collector response when
// Config.RequireSuccess is set.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("monitor: POST %s returned %d", e.URL, e.StatusCode)
}

type Config struct {
	Root    string
	Path    string // joined onto Root before the event segments are resolved
	ModelID string // empty generates a random UUID

	UseBatchCallback bool
	UseEpochCallback bool
	UseTrainCallback bool

	// Everything below is opt-in. The zero values give one blocking POST per
	// event with no timeout, no retry and no status check.
	Timeout              time.Duration
	MaxRetries           int
	RetryInitialInterval time.Duration
	RetryMaxElapsed      time.Duration
	RequireSuccess       bool
	BatchRate            float64 // batch deliveries per second, 0 = unthrottled
	BatchBurst           int

	// HTTPClient replaces the default client. A positive Timeout is applied
	// to a copy of it; the caller's client is left untouched.
	HTTPClient *http.Client
}

// DefaultConfig returns a Config reporting epoch events only.
func DefaultConfig(root string) Config {
	return Config{
		Root:             root,
		UseEpochCallback: true,
	}
}

// Monitor reports training lifecycle events to a remote collector. Its
// endpoints and run identifier are fixed at construction, so a Monitor may be
// shared between goroutines.
type Monitor struct {
	config       Config
	id           string
	endpoints    Endpoints
	client       *http.Client
	batchLimiter *rate.Limiter
	now          func() time.Time
}

func New(cfg Config) (*Monitor, error) {
	if cfg.Root == "" {
		return nil, ErrEmptyRoot
	}

	endpoints, err := ResolveEndpoints(cfg.Root, cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("monitor: %w", err)
	}

	client := &http.Client{Timeout: cfg.Timeout}
	if cfg.HTTPClient != nil {
		shallow := *cfg.HTTPClient
		if cfg.Timeout > 0 {
			shallow.Timeout = cfg.Timeout
		}
		client = &shallow
	}

	m := &Monitor{
		config:    cfg,
		id:        newRunID(cfg.ModelID),
		endpoints: endpoints,
		client:    client,
		now:       time.Now,
	}

	if cfg.BatchRate > 0 {
		burst := cfg.BatchBurst
		if burst < 1 {
			burst = 1
		}
		m.batchLimiter = rate.NewLimiter(rate.Limit(cfg.BatchRate), burst)
	}

	return m, nil
}

// ModelID returns the run identifier attached to every payload.
func (m *Monitor) ModelID() string {
	return m.id
}

func (m *Monitor) Endpoints() Endpoints {
	return m.endpoints
}

func (m *Monitor) OnBatchEnd(ctx context.Context, batch int, logs Logs) error {
	if !m.config.UseBatchCallback {
		return nil
	}
	if m.batchLimiter != nil && !m.batchLimiter.Allow() {
		logger.DebugCtx("MONITOR", "batch %d throttled for %s", batch, m.id)
		return nil
	}
	return m.deliver(ctx, EventBatch, logs)
}

func (m *Monitor) OnEpochEnd(ctx context.Context, epoch int, logs Logs) error {
	if !m.config.UseEpochCallback {
		return nil
	}
	return m.deliver(ctx, EventEpoch, logs)
}

func (m *Monitor) OnTrainEnd(ctx context.Context, logs Logs) error {
	if !m.config.UseTrainCallback {
		return nil
	}
	return m.deliver(ctx, EventTrain, logs)
}

// BuildPayload normalizes logs and stamps them with the current local time.
// A nil logs map yields an empty, non-nil snapshot.
func (m *Monitor) BuildPayload(logs Logs) Payload {
	return Payload{
		ID: m.id,
		Metrics: Metrics{
			Timestamp: timestamp(m.now()),
			Logs:      normalizeLogs(logs),
		},
	}
}

func (m *Monitor) deliver(ctx context.Context, kind EventKind, logs Logs) error {
	body, err := json.Marshal(m.BuildPayload(logs))
	if err != nil {
		var valueErr *json.UnsupportedValueError
		var typeErr *json.UnsupportedTypeError
		if errors.As(err, &valueErr) || errors.As(err, &typeErr) {
			return fmt.Errorf("%w: %w", ErrUnsupportedValue, err)
		}
		return fmt.Errorf("monitor: encode %s payload: %w", kind, err)
	}

	url := m.endpoints.For(kind)
	if m.config.MaxRetries <= 0 {
		err = m.post(ctx, url, body)
	} else {
		err = backoff.Retry(func() error {
			if err := m.post(ctx, url, body); err != nil {
				if !retryable(ctx, err) {
					return backoff.Permanent(err)
				}
				logger.WarnCtx("MONITOR", "%s event for %s failed, retrying: %v", kind, m.id, err)
				return err
			}
			return nil
		}, m.retryPolicy(ctx))
	}
	if err != nil {
		return err
	}

	logger.DebugCtx("MONITOR", "%s event for %s sent to %s", kind, m.id, url)
	return nil
}

func (m *Monitor) retryPolicy(ctx context.Context) backoff.BackOff {
	policy := backoff.NewExponentialBackOff()
	if m.config.RetryInitialInterval > 0 {
		policy.InitialInterval = m.config.RetryInitialInterval
	}
	if m.config.RetryMaxElapsed > 0 {
		policy.MaxElapsedTime = m.config.RetryMaxElapsed
	}
	return backoff.WithContext(backoff.WithMaxRetries(policy, uint64(m.config.MaxRetries)), ctx)
}

func (m *Monitor) post(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("monitor: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("monitor: POST %s: %w", url, err)
	}
	defer func(Body io.ReadCloser) {
		_, _ = io.Copy(io.Discard, Body)
		_ = Body.Close()
	}(resp.Body)

	if m.config.RequireSuccess && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		return &StatusError{URL: url, StatusCode: resp.StatusCode}
	}
	return nil
}

// retryable reports whether a failed POST is worth another attempt: network
// failures (dial, read, write, timeout, dropped connection), 5xx and 429 are.
// Malformed requests, client errors and a done ctx are not.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500 || statusErr.StatusCode == http.StatusTooManyRequests
	}

	var urlErr *neturl.Error
	if !errors.As(err, &urlErr) {
		return false
	}
	if urlErr.Timeout() {
		return true
	}
	// *url.Error itself satisfies net.Error, so only its cause is inspected.
	var opErr *net.OpError
	if errors.As(urlErr.Err, &opErr) {
		return true
	}
	return errors.Is(urlErr.Err, io.EOF) || errors.Is(urlErr.Err, io.ErrUnexpectedEOF)
}
