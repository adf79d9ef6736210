// Package prom implements a Prometheus backend for the metrics package.
//
// Collectors are registered on a private registry. Hosts that scrape can
// expose Registry() over HTTP; batch-style hosts can configure a Pushgateway
// URL and call metrics.Flush before exiting.
package prom

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"tvpshape/internal/metrics"
)

// Backend is a Prometheus metrics backend.
type Backend struct {
	gatewayURL string // optional, e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	tables   *prometheus.CounterVec   // tvp_tables_total
	rows     *prometheus.CounterVec   // tvp_rows_total
	duration *prometheus.HistogramVec // tvp_build_duration_seconds
}

// NewBackend constructs a backend. gatewayURL may be empty, in which case
// Flush is a no-op.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if jobName == "" {
		jobName = "tvpshape"
	}
	reg := prometheus.NewRegistry()

	tables := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.TablesTotal,
			Help: "Tables handed to a parameter binder, partitioned by binder and status.",
		},
		[]string{"binder", "status"},
	)
	rows := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.RowsTotal,
			Help: "Rows handed to a parameter binder, partitioned by binder.",
		},
		[]string{"binder"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    metrics.BuildDuration,
			Help:    "Time spent shaping and binding a table, in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
		[]string{"binder", "status"},
	)

	for name, c := range map[string]prometheus.Collector{
		"tables counter":     tables,
		"rows counter":       rows,
		"duration histogram": duration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("prom: register %s: %w", name, err)
		}
	}

	return &Backend{
		gatewayURL: gatewayURL,
		jobName:    jobName,
		reg:        reg,
		tables:     tables,
		rows:       rows,
		duration:   duration,
	}, nil
}

// Registry returns the registry holding the backend's collectors.
func (b *Backend) Registry() *prometheus.Registry { return b.reg }

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.TablesTotal:
		b.tables.WithLabelValues(labels["binder"], labels["status"]).Add(delta)
	case metrics.RowsTotal:
		b.rows.WithLabelValues(labels["binder"]).Add(delta)
	default:
		// unknown metric name: ignore
	}
}

func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != metrics.BuildDuration {
		return
	}
	b.duration.WithLabelValues(labels["binder"], labels["status"]).Observe(value)
}

// Flush pushes the registry to the Pushgateway when one is configured.
func (b *Backend) Flush() error {
	if b.gatewayURL == "" {
		return nil
	}
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
