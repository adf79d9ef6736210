// Package mssql binds shaped tables as SQL Server table-valued parameters
// using the go-mssqldb driver.
//
// go-mssqldb sends a TVP from a slice of structs, one struct field per
// column in declaration order. The binder synthesizes that struct type from
// the table's columns with reflect.StructOf, so the column order of the
// tabular.Table is the column order on the wire and must match the
// destination type (CREATE TYPE ... AS TABLE). Nullable columns become
// pointer fields and nil values are sent as NULL.
//
// Typical usage with database/sql:
//
//	args := &param.NamedArgs{}
//	if err := param.AddList(args, mssql.Binder{}, "Ids", "dbo.IdList", ids, nil); err != nil {
//	    return err
//	}
//	_, err := db.ExecContext(ctx, "EXEC dbo.Process @Ids", args.Args()...)
package mssql

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	mssql "github.com/microsoft/go-mssqldb"
	"go.uber.org/zap"

	"tvpshape/pkg/tabular"
)

var (
	// ErrEmptyTypeName is returned when no destination type is given.
	ErrEmptyTypeName = errors.New("mssql: empty table type name")
	// ErrNoColumns is returned for a table without columns.
	ErrNoColumns = errors.New("mssql: table has no columns")
	// ErrNullValue is returned for a nil value in a NOT NULL column.
	ErrNullValue = errors.New("mssql: null value in non-nullable column")
)

// Binder converts tables into mssql.TVP values. The zero value is ready to
// use; Logger, when set, receives a debug line per bound table.
type Binder struct {
	Logger *zap.Logger
}

// Name identifies the binder in metrics.
func (Binder) Name() string { return "mssql" }

// AsParameter returns an mssql.TVP for the user-defined table type typeName,
// e.g. "dbo.IdList". The Value of the TVP is a slice of a synthesized struct
// type with one field per column.
func (b Binder) AsParameter(t *tabular.Table, typeName string) (any, error) {
	typeName = strings.TrimSpace(typeName)
	if typeName == "" {
		return nil, ErrEmptyTypeName
	}
	value, err := Rows(t)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", QuoteFQN(typeName), err)
	}
	if b.Logger != nil {
		b.Logger.Debug("tvp bound",
			zap.String("type", QuoteFQN(typeName)),
			zap.String("shape", Describe(t)),
			zap.Int("rows", t.Len()),
		)
	}
	return mssql.TVP{TypeName: typeName, Value: value}, nil
}

// Rows converts the table into the []struct value go-mssqldb expects in
// mssql.TVP.Value.
func Rows(t *tabular.Table) (any, error) {
	if t.Width() == 0 {
		return nil, ErrNoColumns
	}

	codecs := make([]codec, t.Width())
	fields := make([]reflect.StructField, t.Width())
	for i, c := range t.Columns {
		cd, err := codecFor(c)
		if err != nil {
			return nil, err
		}
		codecs[i] = cd
		ft := cd.typ
		if c.Nullable {
			ft = reflect.PointerTo(ft)
		}
		fields[i] = reflect.StructField{
			Name: fmt.Sprintf("C%d", i),
			Type: ft,
		}
	}
	rowType := reflect.StructOf(fields)

	out := reflect.MakeSlice(reflect.SliceOf(rowType), t.Len(), t.Len())
	for r, row := range t.Rows {
		elem := out.Index(r)
		for i, v := range row {
			c := t.Columns[i]
			if v == nil {
				if !c.Nullable {
					return nil, fmt.Errorf("%w: row %d column %q", ErrNullValue, r, c.Name)
				}
				continue
			}
			cv, err := codecs[i].conv(v)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", r, err)
			}
			fv := reflect.ValueOf(cv)
			if c.Nullable {
				p := reflect.New(codecs[i].typ)
				p.Elem().Set(fv)
				fv = p
			}
			elem.Field(i).Set(fv)
		}
	}
	return out.Interface(), nil
}
