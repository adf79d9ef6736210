// Package tabular defines the in-memory, column-typed table handed to
// parameter binders.
//
// The model is deliberately small and database-agnostic:
//
//   - A Table owns an ordered list of Columns and an ordered list of Rows.
//   - Column order is significant: binders emit columns positionally, so it
//     must match the column order of the destination table type.
//   - Rows are positionally aligned with Columns.
//
// Column set and order are frozen as soon as the first row is added. A Table
// is built once per call, handed to a binder and then discarded; it is not
// safe for concurrent mutation.
package tabular

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrColumnsFrozen is returned when a column is added after the first row.
	ErrColumnsFrozen = errors.New("tabular: columns are frozen once rows exist")
	// ErrDuplicateColumn is returned when a column name is already present.
	ErrDuplicateColumn = errors.New("tabular: duplicate column")
	// ErrEmptyColumnName is returned for a column without a name.
	ErrEmptyColumnName = errors.New("tabular: empty column name")
	// ErrRowWidth is returned when a row's value count differs from the
	// column count.
	ErrRowWidth = errors.New("tabular: row width does not match column count")
)

// Column describes a single column of a Table.
//
// Fields:
//   - Name: column name, unique within the table
//   - Kind: semantic column type (Integer, String, ...)
//   - Type: declared non-nullable Go type of the column's values; int32 for
//     columns built from enums
//   - Nullable: whether nil values are allowed
//   - Enum: the column was built from an enum and holds its int32 values
type Column struct {
	Name     string
	Kind     Kind
	Type     reflect.Type
	Nullable bool
	Enum     bool
}

func (c Column) String() string {
	null := "not null"
	if c.Nullable {
		null = "null"
	}
	typ := "<nil>"
	if c.Type != nil {
		typ = c.Type.String()
	}
	return fmt.Sprintf("%s %s(%s) %s", c.Name, c.Kind, typ, null)
}

// Row is an ordered sequence of values, one per column.
type Row []any

// Table is an ordered set of Columns and the Rows built against them.
type Table struct {
	Columns []Column
	Rows    []Row

	index map[string]int
}

// New returns a Table with the given columns. It fails on the same
// conditions as AddColumn.
func New(cols ...Column) (*Table, error) {
	t := &Table{}
	for _, c := range cols {
		if err := t.AddColumn(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// AddColumn appends a column. Columns can only be added while the table has
// no rows.
func (t *Table) AddColumn(c Column) error {
	if len(t.Rows) > 0 {
		return fmt.Errorf("%w: column %q", ErrColumnsFrozen, c.Name)
	}
	if c.Name == "" {
		return ErrEmptyColumnName
	}
	if t.index == nil {
		t.index = make(map[string]int, 4)
	}
	if _, ok := t.index[c.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name)
	}
	t.index[c.Name] = len(t.Columns)
	t.Columns = append(t.Columns, c)
	return nil
}

// AddRow appends a row. The number of values must equal the number of
// columns; the slice is stored as-is, callers must not reuse it.
func (t *Table) AddRow(values ...any) error {
	if len(values) != len(t.Columns) {
		return fmt.Errorf("%w: got %d values, want %d", ErrRowWidth, len(values), len(t.Columns))
	}
	t.Rows = append(t.Rows, Row(values))
	return nil
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.Columns[i], true
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// ColumnNames returns the column names in table order.
func (t *Table) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.Columns) }
