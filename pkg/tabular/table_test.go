package tabular

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	intType    = reflect.TypeOf(int(0))
	stringType = reflect.TypeOf("")
)

func TestTable_AddColumnAndRow(t *testing.T) {
	tbl, err := New(
		Column{Name: "Id", Kind: Integer, Type: intType},
		Column{Name: "Name", Kind: String, Type: stringType, Nullable: true},
	)
	require.NoError(t, err)

	require.NoError(t, tbl.AddRow(1, "a"))
	require.NoError(t, tbl.AddRow(2, nil))

	require.Equal(t, 2, tbl.Len())
	require.Equal(t, 2, tbl.Width())
	require.Equal(t, []string{"Id", "Name"}, tbl.ColumnNames())
	require.Equal(t, Row{2, nil}, tbl.Rows[1])

	c, ok := tbl.Column("Name")
	require.True(t, ok)
	require.True(t, c.Nullable)
	require.Equal(t, 1, tbl.ColumnIndex("Name"))
	require.Equal(t, -1, tbl.ColumnIndex("Missing"))
}

func TestTable_ColumnsFrozenAfterFirstRow(t *testing.T) {
	tbl, err := New(Column{Name: "Id", Kind: Integer, Type: intType})
	require.NoError(t, err)
	require.NoError(t, tbl.AddRow(1))

	err = tbl.AddColumn(Column{Name: "Other", Kind: String, Type: stringType})
	require.ErrorIs(t, err, ErrColumnsFrozen)
	require.Equal(t, 1, tbl.Width())
}

func TestTable_Errors(t *testing.T) {
	tests := []struct {
		name string
		run  func(*Table) error
		want error
	}{
		{
			name: "duplicate column",
			run: func(tbl *Table) error {
				return tbl.AddColumn(Column{Name: "Id", Kind: Integer, Type: intType})
			},
			want: ErrDuplicateColumn,
		},
		{
			name: "empty name",
			run:  func(tbl *Table) error { return tbl.AddColumn(Column{Kind: String}) },
			want: ErrEmptyColumnName,
		},
		{
			name: "short row",
			run:  func(tbl *Table) error { return tbl.AddRow() },
			want: ErrRowWidth,
		},
		{
			name: "wide row",
			run:  func(tbl *Table) error { return tbl.AddRow(1, 2) },
			want: ErrRowWidth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := New(Column{Name: "Id", Kind: Integer, Type: intType})
			require.NoError(t, err)
			require.ErrorIs(t, tt.run(tbl), tt.want)
			require.Equal(t, 0, tbl.Len())
		})
	}
}

func TestKind_String(t *testing.T) {
	require.Equal(t, "integer", Integer.String())
	require.Equal(t, "datetime", DateTime.String())
	require.Equal(t, "other", Other.String())
	require.Equal(t, "kind(42)", Kind(42).String())
}

func TestColumn_String(t *testing.T) {
	c := Column{Name: "Id", Kind: Integer, Type: intType}
	require.Equal(t, "Id integer(int) not null", c.String())
}
