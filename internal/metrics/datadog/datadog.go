// Package datadog implements a DogStatsD backend for the metrics package.
//
// Labels become Datadog tags ("binder:mssql", "status:success"); counters
// are sent as Count and durations as Histogram metrics.
package datadog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/DataDog/datadog-go/v5/statsd"

	"tvpshape/internal/metrics"
)

// ErrNoAddr is returned when Config.Addr is empty.
var ErrNoAddr = errors.New("datadog: addr is required")

// Config holds Datadog backend configuration.
type Config struct {
	// Addr is the DogStatsD address, e.g. "127.0.0.1:8125" or
	// "unix:///var/run/datadog/dsd.socket".
	Addr string

	// Namespace is an optional prefix added to all metric names, e.g. "tvp.".
	Namespace string

	// Tags are applied to every metric, e.g. []string{"env:prod"}.
	Tags []string
}

// Backend is a Datadog implementation of metrics.Backend.
type Backend struct {
	client *statsd.Client
}

var _ metrics.Backend = (*Backend)(nil)

// NewBackend constructs a backend. Extra statsd options are applied after
// the ones derived from cfg.
func NewBackend(cfg Config, opts ...statsd.Option) (*Backend, error) {
	if cfg.Addr == "" {
		return nil, ErrNoAddr
	}

	all := make([]statsd.Option, 0, len(opts)+2)
	if cfg.Namespace != "" {
		all = append(all, statsd.WithNamespace(cfg.Namespace))
	}
	if len(cfg.Tags) > 0 {
		all = append(all, statsd.WithTags(cfg.Tags))
	}
	all = append(all, opts...)

	c, err := statsd.New(cfg.Addr, all...)
	if err != nil {
		return nil, fmt.Errorf("datadog: create client: %w", err)
	}
	return &Backend{client: c}, nil
}

// IncCounter sends a Count metric. DogStatsD counts are integers; fractional
// deltas are truncated.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	_ = b.client.Count(name, int64(delta), labelsToTags(labels), 1)
}

// ObserveHistogram sends a Histogram metric.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	_ = b.client.Histogram(name, value, labelsToTags(labels), 1)
}

// Flush sends buffered metrics to the agent.
func (b *Backend) Flush() error {
	return b.client.Flush()
}

// Close flushes and releases the client. The backend must not be used
// afterwards.
func (b *Backend) Close() error {
	return b.client.Close()
}

// labelsToTags converts labels into sorted "key:value" tags.
func labelsToTags(lbls metrics.Labels) []string {
	if len(lbls) == 0 {
		return nil
	}
	out := make([]string, 0, len(lbls))
	for k, v := range lbls {
		out = append(out, k+":"+v)
	}
	sort.Strings(out)
	return out
}
