package shaper

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"tvpshape/pkg/tabular"
)

func pairSchema(opts ...Option) *Schema[pair] {
	return NewSchema([]FieldDesc[pair]{
		Field("Id", func(p pair) int { return p.Id }),
		Field("Name", func(p pair) string { return p.Name }),
		Field("Label", func(p pair) sql.NullString {
			return sql.NullString{String: p.Name + "!", Valid: p.Name != ""}
		}),
		Field("Color", func(p pair) color { return color(p.Id) }),
	}, opts...)
}

func TestSchema_BuildTable(t *testing.T) {
	tbl, err := pairSchema().BuildTable([]pair{{Id: 1, Name: "a"}, {Id: 2}})
	require.NoError(t, err)

	require.Equal(t, []string{"Id", "Name", "Label", "Color"}, tbl.ColumnNames())
	require.False(t, tbl.Columns[0].Nullable)
	require.True(t, tbl.Columns[1].Nullable)
	require.True(t, tbl.Columns[2].Nullable)
	require.True(t, tbl.Columns[3].Enum)
	require.Equal(t, []tabular.Row{
		{1, "a", "a!", int32(1)},
		{2, "", nil, int32(2)},
	}, tbl.Rows)
}

func TestSchema_Select(t *testing.T) {
	s, err := pairSchema().Select("Name", "Id")
	require.NoError(t, err)

	tbl, err := s.BuildTable([]pair{{Id: 9, Name: "z"}})
	require.NoError(t, err)
	require.Equal(t, []string{"Name", "Id"}, tbl.ColumnNames())
	require.Equal(t, []tabular.Row{{"z", 9}}, tbl.Rows)

	_, err = pairSchema().Select("Nope")
	require.ErrorIs(t, err, ErrColumnNameNotFound)
}

func TestSchema_Columns(t *testing.T) {
	cols, err := pairSchema().Columns()
	require.NoError(t, err)
	require.Len(t, cols, 4)
	require.Equal(t, tabular.Integer, cols[3].Kind)

	strict := NewSchema([]FieldDesc[pair]{
		Field("Any", func(p pair) chan int { return nil }),
	}, Strict())
	_, err = strict.Columns()
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestSchema_DuplicateField(t *testing.T) {
	s := NewSchema([]FieldDesc[pair]{
		Field("Id", func(p pair) int { return p.Id }),
		Field("Id", func(p pair) int { return p.Id }),
	})
	_, err := s.BuildTable(nil)
	require.ErrorIs(t, err, tabular.ErrDuplicateColumn)
}
