package all

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tvpshape/pkg/param"
)

func TestBuiltinKindsRegistered(t *testing.T) {
	kinds := param.ListKinds()
	for _, k := range []string{"mssql", "pgcopy", "ydb"} {
		require.Contains(t, kinds, k)
		b, err := param.New(k, nil)
		require.NoError(t, err)
		require.NotNil(t, b)
	}
}
