// Package shaper turns a sequence of uniformly typed Go values into a
// tabular.Table suitable for a table-valued parameter.
//
// Items are shaped in one of two ways, depending on the item type:
//
//   - Scalars (numbers, bool, string, time.Time, []byte, decimal.Decimal,
//     uuid.UUID, enums and their nullable wrappers) produce a single column
//     named after the first requested column name, or DefaultColumnName.
//   - Composites (structs and pointers to structs) produce one column per
//     requested column name, resolved against the exported fields of the
//     struct. When the struct has more than one readable field the caller
//     must supply the column order, because field order is not guaranteed
//     to match the destination table type. Nil items of a pointer item
//     type fail with ErrNilItem.
//
// A nil columnNames lets the shaper choose the names; a non-nil empty
// slice is rejected with ErrNoColumnNames. Enum values that do not fit the
// int32 enum representation fail with ErrValueRange.
//
// Column kinds and nullability are inferred from declared Go types; see
// InferColumn. Callers that want no reflection over their item type can
// describe it with a Schema instead.
package shaper

import (
	"fmt"
	"iter"
	"reflect"
	"slices"

	"go.uber.org/zap"

	"tvpshape/pkg/tabular"
)

// BuildTable shapes items into a Table. columnNames may be nil; see the
// package documentation for when it is required.
func BuildTable[T any](items []T, columnNames []string, opts ...Option) (*tabular.Table, error) {
	return BuildTableSeq(slices.Values(items), columnNames, opts...)
}

// BuildTableSeq is BuildTable over an iterator. The sequence is consumed
// once, after columns have been resolved.
func BuildTableSeq[T any](items iter.Seq[T], columnNames []string, opts ...Option) (*tabular.Table, error) {
	if columnNames != nil && len(columnNames) == 0 {
		return nil, ErrNoColumnNames
	}
	o := newOptions(opts)
	itemType := reflect.TypeFor[T]()

	var (
		tbl *tabular.Table
		err error
	)
	branch := "scalar"
	if st, ok := isComposite(itemType); ok {
		branch = "composite"
		tbl, err = buildComposite(items, st, itemType.Kind() == reflect.Pointer, columnNames, o)
	} else {
		tbl, err = buildScalar(items, itemType, columnNames, o)
	}
	if err != nil {
		return nil, err
	}

	if ce := o.log.Check(zap.DebugLevel, "table built"); ce != nil {
		ce.Write(
			zap.String("branch", branch),
			zap.Stringer("item_type", itemType),
			zap.Strings("columns", tbl.ColumnNames()),
			zap.Int("rows", tbl.Len()),
		)
	}
	return tbl, nil
}

func buildScalar[T any](items iter.Seq[T], t reflect.Type, columnNames []string, o options) (*tabular.Table, error) {
	name := o.defaultColumn
	if len(columnNames) > 0 {
		name = columnNames[0]
	}
	p, err := inferPlan(t, name, o.strict)
	if err != nil {
		return nil, err
	}
	tbl, err := tabular.New(p.col)
	if err != nil {
		return nil, err
	}
	for item := range items {
		v, err := p.value(reflect.ValueOf(&item).Elem())
		if err != nil {
			return nil, err
		}
		if err := tbl.AddRow(v); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}

func buildComposite[T any](items iter.Seq[T], st reflect.Type, isPtr bool, columnNames []string, o options) (*tabular.Table, error) {
	fields := readableFields(st, o.tagKey)
	if len(fields) > 1 && columnNames == nil {
		return nil, ErrMultiFieldWithoutColumnOrder
	}

	names := columnNames
	if names == nil {
		names = make([]string, len(fields))
		for i, f := range fields {
			names[i] = f.name
		}
	}

	plans := make([]plan, len(names))
	tbl := &tabular.Table{}
	for i, name := range names {
		f, ok := findField(fields, name)
		if !ok {
			return nil, &ColumnNameNotFoundError{Name: name, Type: st}
		}
		p, err := inferPlan(f.typ, name, o.strict)
		if err != nil {
			return nil, err
		}
		p.index = f.index
		if f.viaPtr {
			p.col.Nullable = true
		}
		if err := tbl.AddColumn(p.col); err != nil {
			return nil, err
		}
		plans[i] = p
	}

	n := 0
	for item := range items {
		rv := reflect.ValueOf(&item).Elem()
		if isPtr {
			if rv.IsNil() {
				return nil, fmt.Errorf("%w: item %d", ErrNilItem, n)
			}
			rv = rv.Elem()
		}
		row := make([]any, len(plans))
		for i := range plans {
			fv, err := rv.FieldByIndexErr(plans[i].index)
			if err != nil {
				// nil embedded pointer on the path
				continue
			}
			if row[i], err = plans[i].value(readable(fv)); err != nil {
				return nil, fmt.Errorf("item %d: %w", n, err)
			}
		}
		if err := tbl.AddRow(row...); err != nil {
			return nil, err
		}
		n++
	}
	return tbl, nil
}
