package param

import (
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"tvpshape/internal/metrics"
	"tvpshape/pkg/shaper"
	"tvpshape/pkg/tabular"
)

type item struct {
	Id   int
	Name string
}

// recordingBinder captures what it was asked to bind.
type recordingBinder struct {
	table    *tabular.Table
	typeName string
	err      error
}

func (r *recordingBinder) AsParameter(t *tabular.Table, typeName string) (any, error) {
	r.table, r.typeName = t, typeName
	if r.err != nil {
		return nil, r.err
	}
	return "bound:" + typeName, nil
}

func (r *recordingBinder) Name() string { return "recording" }

type countingBackend struct {
	mu       sync.Mutex
	counters map[string]float64
	status   []string
}

func (c *countingBackend) IncCounter(name string, delta float64, labels metrics.Labels) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counters == nil {
		c.counters = map[string]float64{}
	}
	c.counters[name+"/"+labels["binder"]] += delta
	if name == metrics.TablesTotal {
		c.status = append(c.status, labels["status"])
	}
}

func (c *countingBackend) ObserveHistogram(string, float64, metrics.Labels) {}
func (c *countingBackend) Flush() error                                   { return nil }

func useCountingBackend(t *testing.T) *countingBackend {
	t.Helper()
	orig := metrics.Current()
	t.Cleanup(func() { metrics.SetBackend(orig) })
	cb := &countingBackend{}
	metrics.SetBackend(cb)
	return cb
}

func TestAddList(t *testing.T) {
	cb := useCountingBackend(t)
	args := &NamedArgs{}
	b := &recordingBinder{}

	err := AddList(args, b, "Items", "dbo.ItemList", []item{{1, "a"}, {2, "b"}}, []string{"Id", "Name"})
	require.NoError(t, err)

	require.Equal(t, "dbo.ItemList", b.typeName)
	require.Equal(t, []string{"Id", "Name"}, b.table.ColumnNames())
	require.Equal(t, 2, b.table.Len())

	v, ok := args.Lookup("Items")
	require.True(t, ok)
	require.Equal(t, "bound:dbo.ItemList", v)
	require.Equal(t, []any{sql.Named("Items", "bound:dbo.ItemList")}, args.Args())

	require.Equal(t, 1.0, cb.counters[metrics.TablesTotal+"/recording"])
	require.Equal(t, 2.0, cb.counters[metrics.RowsTotal+"/recording"])
	require.Equal(t, []string{"success"}, cb.status)
}

func TestAddList_ShaperErrorAddsNothing(t *testing.T) {
	cb := useCountingBackend(t)
	args := &NamedArgs{}
	b := &recordingBinder{}

	err := AddList(args, b, "Items", "dbo.ItemList", []item{{1, "a"}}, nil)
	require.ErrorIs(t, err, shaper.ErrMultiFieldWithoutColumnOrder)
	require.Nil(t, b.table, "binder must not be called")
	require.Zero(t, args.Len())
	require.Equal(t, []string{"failure"}, cb.status)
}

func TestAddList_BinderError(t *testing.T) {
	useCountingBackend(t)
	boom := errors.New("boom")
	args := &NamedArgs{}

	err := AddList(args, &recordingBinder{err: boom}, "Ids", "dbo.IdList", []int{1}, nil)
	require.ErrorIs(t, err, boom)
	require.Zero(t, args.Len())
}

func TestAddList_DuplicateAndEmptyNames(t *testing.T) {
	useCountingBackend(t)
	args := &NamedArgs{}
	b := BinderFunc(func(t *tabular.Table, typeName string) (any, error) { return t, nil })

	require.NoError(t, AddList(args, b, "Ids", "dbo.IdList", []int{1}, nil))
	require.ErrorIs(t, AddList(args, b, "Ids", "dbo.IdList", []int{2}, nil), ErrDuplicateParameter)
	require.ErrorIs(t, AddList(args, b, "", "dbo.IdList", []int{2}, nil), ErrEmptyName)
	require.Equal(t, 1, args.Len())
}

func TestAddList_PassesShaperOptions(t *testing.T) {
	useCountingBackend(t)
	args := &NamedArgs{}
	b := &recordingBinder{}

	require.NoError(t, AddList(args, b, "Ids", "dbo.IdList", []int{1}, nil, shaper.WithDefaultColumnName("Id")))
	require.Equal(t, []string{"Id"}, b.table.ColumnNames())
}

func TestBinderName(t *testing.T) {
	require.Equal(t, "recording", binderName(&recordingBinder{}))
	require.Equal(t, "param.BinderFunc", binderName(BinderFunc(nil)))
}
