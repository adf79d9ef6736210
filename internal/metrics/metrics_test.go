package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeBackend is a simple in-memory Backend implementation for tests.
type fakeBackend struct {
	mu sync.Mutex

	counters   []counterCall
	histograms []histCall
	flushCount int
}

type counterCall struct {
	name   string
	delta  float64
	labels Labels
}

type histCall struct {
	name   string
	value  float64
	labels Labels
}

func (f *fakeBackend) IncCounter(name string, delta float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters = append(f.counters, counterCall{name, delta, labels})
}

func (f *fakeBackend) ObserveHistogram(name string, value float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.histograms = append(f.histograms, histCall{name, value, labels})
}

func (f *fakeBackend) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushCount++
	return nil
}

func useFake(t *testing.T) *fakeBackend {
	t.Helper()
	orig := Current()
	t.Cleanup(func() { SetBackend(orig) })

	fb := &fakeBackend{}
	SetBackend(fb)
	return fb
}

func TestRecordBind_Success(t *testing.T) {
	fb := useFake(t)

	RecordBind("mssql", nil, 3, 2*time.Second)

	require.Len(t, fb.counters, 2)
	require.Equal(t, counterCall{TablesTotal, 1, Labels{"binder": "mssql", "status": "success"}}, fb.counters[0])
	require.Equal(t, counterCall{RowsTotal, 3, Labels{"binder": "mssql"}}, fb.counters[1])

	require.Len(t, fb.histograms, 1)
	require.Equal(t, BuildDuration, fb.histograms[0].name)
	require.InDelta(t, 2.0, fb.histograms[0].value, 1e-9)
}

func TestRecordBind_FailureSkipsRows(t *testing.T) {
	fb := useFake(t)

	RecordBind("ydb", errors.New("boom"), 10, time.Millisecond)

	require.Len(t, fb.counters, 1)
	require.Equal(t, "failure", fb.counters[0].labels["status"])
}

func TestSetBackend_NilKeepsCurrent(t *testing.T) {
	fb := useFake(t)

	SetBackend(nil)
	require.NoError(t, Flush())
	require.Equal(t, 1, fb.flushCount)
}

func TestNopBackend(t *testing.T) {
	var b Backend = nopBackend{}
	b.IncCounter("x", 1, nil)
	b.ObserveHistogram("x", 1, nil)
	require.NoError(t, b.Flush())
}

func TestSetBackend_ConcurrentWithRecording(t *testing.T) {
	fb := useFake(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			RecordBind("mssql", nil, 1, time.Millisecond)
		}()
		go func() {
			defer wg.Done()
			SetBackend(fb)
		}()
	}
	wg.Wait()

	fb.mu.Lock()
	defer fb.mu.Unlock()
	require.Len(t, fb.histograms, 8)
}
