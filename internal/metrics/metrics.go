// Package metrics provides a small, backend-agnostic abstraction for recording
// operational metrics about table-valued parameter handoffs.
//
// It exposes a narrow Backend interface (counters and timing data) and a
// global, pluggable backend that defaults to a no-op implementation, so
// recording is always safe even when no real backend is configured.
// Concrete metric systems live in subpackages (see metrics/prom).
package metrics

import (
	"sync/atomic"
	"time"
)

// Metric names recorded by this package.
const (
	TablesTotal   = "tvp_tables_total"
	RowsTotal     = "tvp_rows_total"
	BuildDuration = "tvp_build_duration_seconds"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

// holder boxes the installed Backend so it can be swapped atomically while
// other goroutines record.
type holder struct{ Backend }

var backend atomic.Pointer[holder]

func init() { backend.Store(&holder{nopBackend{}}) }

// SetBackend installs a concrete backend. Passing nil keeps the existing
// backend. It is safe to call while other goroutines record metrics.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend.Store(&holder{b})
}

// Current returns the installed backend.
func Current() Backend { return backend.Load().Backend }

// Flush delegates to the current backend.
func Flush() error {
	return Current().Flush()
}

// RecordBind records one table handoff to the named binder: a success or
// failure count, the time spent shaping and binding, and on success the
// number of rows handed over.
func RecordBind(binder string, err error, rows int, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{
		"binder": binder,
		"status": status,
	}

	b := Current()
	b.IncCounter(TablesTotal, 1, lbls)
	b.ObserveHistogram(BuildDuration, d.Seconds(), lbls)

	if err == nil && rows > 0 {
		b.IncCounter(RowsTotal, float64(rows), Labels{"binder": binder})
	}
}
