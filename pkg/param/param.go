// Package param hands shaped tables to database parameter binders.
//
// A Binder turns a tabular.Table plus the name of the destination table type
// into an opaque, bindable parameter value. A Collection is the caller's
// named-parameter set. AddList glues the two together:
//
//	args := &param.NamedArgs{}
//	err := param.AddList(args, mssql.Binder{}, "Ids", "dbo.IdList", ids, nil)
//	...
//	rows, err := db.QueryContext(ctx, "SELECT * FROM t JOIN @Ids i ON i.Id = t.Id", args.Args()...)
//
// Binders for concrete databases live in subpackages (mssql, ydb, pgcopy).
package param

import (
	"errors"
	"fmt"
	"time"

	"tvpshape/internal/metrics"
	"tvpshape/pkg/shaper"
	"tvpshape/pkg/tabular"
)

var (
	// ErrEmptyName is returned for an empty parameter name.
	ErrEmptyName = errors.New("param: empty parameter name")
	// ErrDuplicateParameter is returned when a Collection already holds a
	// parameter with the same name.
	ErrDuplicateParameter = errors.New("param: duplicate parameter")
)

// Binder converts a table into a bindable parameter for the destination
// table type typeName.
type Binder interface {
	AsParameter(t *tabular.Table, typeName string) (any, error)
}

// BinderFunc adapts a function to Binder.
type BinderFunc func(t *tabular.Table, typeName string) (any, error)

func (f BinderFunc) AsParameter(t *tabular.Table, typeName string) (any, error) {
	return f(t, typeName)
}

// Collection is a caller-owned set of named parameters.
type Collection interface {
	Add(name string, value any) error
}

// AddList shapes items into a table, binds it as typeName and adds the
// result to c under name. columnNames may be nil; see shaper.BuildTable for
// when it is required. Nothing is added to c on error.
func AddList[T any](c Collection, b Binder, name, typeName string, items []T, columnNames []string, opts ...shaper.Option) (err error) {
	start := time.Now()
	rows := 0
	defer func() { metrics.RecordBind(binderName(b), err, rows, time.Since(start)) }()

	if name == "" {
		return ErrEmptyName
	}
	tbl, err := shaper.BuildTable(items, columnNames, opts...)
	if err != nil {
		return fmt.Errorf("param %s: %w", name, err)
	}
	p, err := b.AsParameter(tbl, typeName)
	if err != nil {
		return fmt.Errorf("param %s: bind %s: %w", name, typeName, err)
	}
	if err := c.Add(name, p); err != nil {
		return err
	}
	rows = tbl.Len()
	return nil
}

// binderName labels metrics; binders may implement Name() string.
func binderName(b Binder) string {
	if n, ok := b.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", b)
}
