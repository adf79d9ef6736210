package shaper

import (
	"reflect"

	"go.uber.org/zap"

	"tvpshape/pkg/tabular"
)

// FieldDesc describes one column of a Schema: a name, the declared type of
// its values and an accessor.
type FieldDesc[T any] struct {
	name string
	typ  reflect.Type
	get  func(T) reflect.Value
}

// Field describes a column named name whose values are read with get. The
// column type is inferred from V exactly as for struct fields.
func Field[T, V any](name string, get func(T) V) FieldDesc[T] {
	return FieldDesc[T]{
		name: name,
		typ:  reflect.TypeFor[V](),
		get: func(item T) reflect.Value {
			v := get(item)
			return reflect.ValueOf(&v).Elem()
		},
	}
}

// Name returns the column name.
func (f FieldDesc[T]) Name() string { return f.name }

// Schema is an explicit, ordered description of how items of type T map to
// columns. The order of the fields is the column order, so unlike
// BuildTable no column list is ever required.
type Schema[T any] struct {
	fields []FieldDesc[T]
	opts   []Option
}

// NewSchema returns a Schema with the given fields in order. The options
// apply to every table the schema builds.
func NewSchema[T any](fields []FieldDesc[T], opts ...Option) *Schema[T] {
	return &Schema[T]{fields: fields, opts: opts}
}

// Select returns a Schema with only the named fields, in the given order.
func (s *Schema[T]) Select(names ...string) (*Schema[T], error) {
	out := make([]FieldDesc[T], 0, len(names))
	for _, name := range names {
		f, ok := s.field(name)
		if !ok {
			return nil, &ColumnNameNotFoundError{Name: name, Type: reflect.TypeFor[T]()}
		}
		out = append(out, f)
	}
	return &Schema[T]{fields: out, opts: s.opts}, nil
}

// Columns returns the inferred columns in schema order.
func (s *Schema[T]) Columns() ([]tabular.Column, error) {
	plans, err := s.plans(newOptions(s.opts))
	if err != nil {
		return nil, err
	}
	cols := make([]tabular.Column, len(plans))
	for i := range plans {
		cols[i] = plans[i].col
	}
	return cols, nil
}

// BuildTable builds one row per item by calling each field accessor in
// schema order.
func (s *Schema[T]) BuildTable(items []T) (*tabular.Table, error) {
	o := newOptions(s.opts)
	plans, err := s.plans(o)
	if err != nil {
		return nil, err
	}
	tbl := &tabular.Table{}
	for i := range plans {
		if err := tbl.AddColumn(plans[i].col); err != nil {
			return nil, err
		}
	}
	for _, item := range items {
		row := make([]any, len(plans))
		for i := range plans {
			v, err := plans[i].value(s.fields[i].get(item))
			if err != nil {
				return nil, err
			}
			row[i] = v
		}
		if err := tbl.AddRow(row...); err != nil {
			return nil, err
		}
	}
	o.log.Debug("table built",
		zap.String("branch", "schema"),
		zap.Strings("columns", tbl.ColumnNames()),
		zap.Int("rows", tbl.Len()),
	)
	return tbl, nil
}

func (s *Schema[T]) plans(o options) ([]plan, error) {
	plans := make([]plan, len(s.fields))
	for i, f := range s.fields {
		p, err := inferPlan(f.typ, f.name, o.strict)
		if err != nil {
			return nil, err
		}
		plans[i] = p
	}
	return plans, nil
}

func (s *Schema[T]) field(name string) (FieldDesc[T], bool) {
	for _, f := range s.fields {
		if f.name == name {
			return f, true
		}
	}
	return FieldDesc[T]{}, false
}
