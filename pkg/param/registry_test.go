package param

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tvpshape/pkg/tabular"
)

func TestRegisterAndNew(t *testing.T) {
	var got *zap.Logger
	Register("fake", func(log *zap.Logger) Binder {
		got = log
		return BinderFunc(func(*tabular.Table, string) (any, error) { return "ok", nil })
	})

	b, err := New("fake", nil)
	require.NoError(t, err)
	require.NotNil(t, got, "nil logger is replaced")

	v, err := b.AsParameter(&tabular.Table{}, "t")
	require.NoError(t, err)
	require.Equal(t, "ok", v)
	require.Contains(t, ListKinds(), "fake")
}

func TestNew_Unsupported(t *testing.T) {
	_, err := New("does-not-exist", zap.NewNop())
	require.EqualError(t, err, "unsupported binder kind=does-not-exist")
}

func TestRegister_Override(t *testing.T) {
	calls := 0
	Register("override", func(*zap.Logger) Binder { calls++; return &recordingBinder{} })
	Register("override", func(*zap.Logger) Binder { calls += 10; return &recordingBinder{} })

	_, err := New("override", nil)
	require.NoError(t, err)
	require.Equal(t, 10, calls)
}

func TestListKinds_Snapshot(t *testing.T) {
	Register("snap", func(*zap.Logger) Binder { return &recordingBinder{} })

	a := ListKinds()
	require.NotEmpty(t, a)
	a[0] = "mutated"
	require.NotContains(t, ListKinds(), "mutated")
}
