// Package config defines the JSON configuration for hosts that hand lists to
// the database through tvpshape: which binder to use, how items are shaped
// into tables, and where metrics go.
//
// Example:
//
//	{
//	  "backend": "mssql",
//	  "default_column_name": "Value",
//	  "tag_key": "db",
//	  "strict": true,
//	  "metrics": { "enabled": true, "kind": "prometheus", "job": "orders-api",
//	               "push_gateway": "http://pushgateway:9091" }
//	}
//
// Every field is optional except backend. Decoding is done by encoding/json;
// unknown fields are rejected so typos do not silently fall back to defaults.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"tvpshape/internal/metrics"
	"tvpshape/internal/metrics/datadog"
	"tvpshape/internal/metrics/prom"
	"tvpshape/pkg/param"
	"tvpshape/pkg/shaper"
)

// Config is the top-level configuration object.
type Config struct {
	// Backend selects a registered binder kind ("mssql", "ydb", "pgcopy").
	Backend string `json:"backend"`

	// DefaultColumnName names the column of scalar lists built without
	// column names. Empty means shaper.DefaultColumnName.
	DefaultColumnName string `json:"default_column_name"`

	// TagKey is the struct tag consulted for column names. Empty means
	// shaper.DefaultTagKey.
	TagKey string `json:"tag_key"`

	// Strict rejects item types without a known column kind.
	Strict bool `json:"strict"`

	Metrics Metrics `json:"metrics"`
}

// Metrics kinds.
const (
	MetricsPrometheus = "prometheus"
	MetricsDatadog    = "datadog"
)

// Metrics selects and configures the metrics backend.
type Metrics struct {
	Enabled bool `json:"enabled"`

	// Kind is MetricsPrometheus (the default) or MetricsDatadog.
	Kind string `json:"kind"`

	// Prometheus: Job is the Pushgateway job label. Without PushGateway the
	// collectors are only reachable through the backend's registry.
	Job         string `json:"job"`
	PushGateway string `json:"push_gateway"`

	// Datadog: DogStatsD address, metric name prefix and global tags.
	Addr      string   `json:"addr"`
	Namespace string   `json:"namespace"`
	Tags      []string `json:"tags"`
}

// Load decodes a Config from r.
func Load(r io.Reader) (Config, error) {
	var c Config
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	return c, nil
}

// LoadFile decodes a Config from the file at path.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// ShaperOptions translates the shaping settings into shaper options. log may
// be nil.
func (c Config) ShaperOptions(log *zap.Logger) []shaper.Option {
	opts := []shaper.Option{shaper.WithDefaultColumnName(c.DefaultColumnName)}
	if c.TagKey != "" {
		opts = append(opts, shaper.WithTagKey(c.TagKey))
	}
	if c.Strict {
		opts = append(opts, shaper.Strict())
	}
	if log != nil {
		opts = append(opts, shaper.WithLogger(log))
	}
	return opts
}

// NewBinder constructs the configured binder. The binder kind must have been
// registered, usually by importing tvpshape/pkg/param/all.
func (c Config) NewBinder(log *zap.Logger) (param.Binder, error) {
	b, err := param.New(c.Backend, log)
	if err != nil {
		return nil, fmt.Errorf("config: backend: %w", err)
	}
	return b, nil
}

// InstallMetrics builds the configured backend and installs it with
// metrics.SetBackend. It returns nil, nil when metrics are disabled.
func (c Config) InstallMetrics() (metrics.Backend, error) {
	if !c.Metrics.Enabled {
		return nil, nil
	}

	var (
		b   metrics.Backend
		err error
	)
	switch m := c.Metrics; m.Kind {
	case "", MetricsPrometheus:
		b, err = prom.NewBackend(m.Job, m.PushGateway)
	case MetricsDatadog:
		b, err = datadog.NewBackend(datadog.Config{Addr: m.Addr, Namespace: m.Namespace, Tags: m.Tags})
	default:
		err = fmt.Errorf("unsupported kind=%s", m.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("config: metrics: %w", err)
	}
	metrics.SetBackend(b)
	return b, nil
}
