// Package ydb binds shaped tables as YDB query parameters.
//
// YDB has no named table types; a table-valued parameter is a value of type
// List<Struct<...>>, declared in YQL as e.g.
//
//	DECLARE $items AS List<Struct<Id: Int64, Name: Optional<Utf8>>>;
//
// Struct members are keyed by name, so the table's column names must match
// the member names of the declared struct. Nullable columns become
// Optional<T> members.
package ydb

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/ydb-platform/ydb-go-sdk/v3/table/types"
	"go.uber.org/zap"

	"tvpshape/pkg/tabular"
)

// Decimal columns are sent as Decimal(DecimalPrecision, DecimalScale), the
// YDB default decimal type.
const (
	DecimalPrecision = 22
	DecimalScale     = 9
)

var (
	// ErrUnsupportedColumn is returned for columns without a YDB type.
	ErrUnsupportedColumn = errors.New("ydb: unsupported column type")
	// ErrNullValue is returned for a nil value in a non-nullable column.
	ErrNullValue = errors.New("ydb: null value in non-nullable column")
)

var (
	durationType = reflect.TypeFor[time.Duration]()
	uuidType     = reflect.TypeFor[uuid.UUID]()
)

// Binder converts tables into List<Struct<...>> values. The zero value is
// ready to use.
type Binder struct {
	Logger *zap.Logger
}

// Name identifies the binder in metrics.
func (Binder) Name() string { return "ydb" }

// AsParameter returns a types.Value of type List<Struct<...>>. typeName is
// only used in log lines and errors: YDB list types are structural.
func (b Binder) AsParameter(t *tabular.Table, typeName string) (any, error) {
	v, err := ListValue(t)
	if err != nil {
		if typeName != "" {
			return nil, fmt.Errorf("%s: %w", typeName, err)
		}
		return nil, err
	}
	if b.Logger != nil {
		b.Logger.Debug("list parameter bound",
			zap.String("type", typeName),
			zap.String("yql_type", v.Type().Yql()),
			zap.Int("rows", t.Len()),
		)
	}
	return v, nil
}

// column is the YDB type of a table column and the conversion from non-nil
// row values to it.
type column struct {
	name string
	typ  types.Type // without Optional
	conv func(reflect.Value) types.Value
}

// ListValue converts a table into a YDB List<Struct<...>> value. An empty
// table yields a typed empty list.
func ListValue(t *tabular.Table) (types.Value, error) {
	cols := make([]column, t.Width())
	for i, c := range t.Columns {
		yc, err := columnFor(c)
		if err != nil {
			return nil, err
		}
		cols[i] = yc
	}

	if t.Len() == 0 {
		return types.ZeroValue(types.List(structType(t.Columns, cols))), nil
	}

	items := make([]types.Value, 0, t.Len())
	for r, row := range t.Rows {
		fields := make([]types.StructValueOption, len(row))
		for i, v := range row {
			c := t.Columns[i]
			var fv types.Value
			switch {
			case v == nil && !c.Nullable:
				return nil, fmt.Errorf("%w: row %d column %q", ErrNullValue, r, c.Name)
			case v == nil:
				fv = types.NullValue(cols[i].typ)
			case c.Nullable:
				fv = types.OptionalValue(cols[i].conv(reflect.ValueOf(v)))
			default:
				fv = cols[i].conv(reflect.ValueOf(v))
			}
			fields[i] = types.StructFieldValue(c.Name, fv)
		}
		items = append(items, types.StructValue(fields...))
	}
	return types.ListValue(items...), nil
}

// structType builds the member types in name order, the order YDB uses for
// struct values.
func structType(tcols []tabular.Column, cols []column) types.Type {
	idx := make([]int, len(cols))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return cols[idx[a]].name < cols[idx[b]].name })

	opts := make([]types.StructOption, len(idx))
	for n, i := range idx {
		typ := cols[i].typ
		if tcols[i].Nullable {
			typ = types.Optional(typ)
		}
		opts[n] = types.StructField(cols[i].name, typ)
	}
	return types.Struct(opts...)
}

// columnFor maps a column onto a YDB primitive type.
//
// Rules:
//
//   - Integers keep their width and signedness; enums are Int32 and
//     time.Duration is Interval.
//   - float32 -> Float, float64 -> Double.
//   - Decimal -> Decimal(22, 9), rounded to the scale.
//   - String -> Utf8, Binary -> String (bytes), DateTime -> Timestamp.
//   - uuid.UUID -> Uuid.
func columnFor(c tabular.Column) (column, error) {
	yc := column{name: c.Name}
	switch c.Kind {
	case tabular.Integer:
		return integerColumn(c)
	case tabular.Float:
		if c.Type.Kind() == reflect.Float32 {
			yc.typ, yc.conv = types.TypeFloat, func(v reflect.Value) types.Value { return types.FloatValue(float32(v.Float())) }
		} else {
			yc.typ, yc.conv = types.TypeDouble, func(v reflect.Value) types.Value { return types.DoubleValue(v.Float()) }
		}
	case tabular.Decimal:
		yc.typ = types.DecimalType(DecimalPrecision, DecimalScale)
		yc.conv = func(v reflect.Value) types.Value {
			d := v.Interface().(decimal.Decimal)
			return types.DecimalValueFromBigInt(d.Round(DecimalScale).Shift(DecimalScale).BigInt(), DecimalPrecision, DecimalScale)
		}
	case tabular.Boolean:
		yc.typ, yc.conv = types.TypeBool, func(v reflect.Value) types.Value { return types.BoolValue(v.Bool()) }
	case tabular.String:
		yc.typ, yc.conv = types.TypeText, func(v reflect.Value) types.Value { return types.TextValue(v.String()) }
	case tabular.Binary:
		yc.typ, yc.conv = types.TypeBytes, func(v reflect.Value) types.Value { return types.BytesValue(v.Bytes()) }
	case tabular.DateTime:
		yc.typ = types.TypeTimestamp
		yc.conv = func(v reflect.Value) types.Value { return types.TimestampValueFromTime(v.Interface().(time.Time)) }
	case tabular.Other:
		if c.Type != uuidType {
			return column{}, fmt.Errorf("%w: column %q of type %v", ErrUnsupportedColumn, c.Name, c.Type)
		}
		yc.typ = types.TypeUUID
		yc.conv = func(v reflect.Value) types.Value { return types.UuidValue(v.Interface().(uuid.UUID)) }
	default:
		return column{}, fmt.Errorf("%w: column %q of %s kind", ErrUnsupportedColumn, c.Name, c.Kind)
	}
	return yc, nil
}

func integerColumn(c tabular.Column) (column, error) {
	yc := column{name: c.Name}
	switch {
	case c.Enum:
		yc.typ, yc.conv = types.TypeInt32, func(v reflect.Value) types.Value { return types.Int32Value(int32(v.Int())) }
		return yc, nil
	case c.Type == durationType:
		yc.typ = types.TypeInterval
		yc.conv = func(v reflect.Value) types.Value { return types.IntervalValueFromDuration(time.Duration(v.Int())) }
		return yc, nil
	}

	switch c.Type.Kind() {
	case reflect.Int8:
		yc.typ, yc.conv = types.TypeInt8, func(v reflect.Value) types.Value { return types.Int8Value(int8(v.Int())) }
	case reflect.Int16:
		yc.typ, yc.conv = types.TypeInt16, func(v reflect.Value) types.Value { return types.Int16Value(int16(v.Int())) }
	case reflect.Int32:
		yc.typ, yc.conv = types.TypeInt32, func(v reflect.Value) types.Value { return types.Int32Value(int32(v.Int())) }
	case reflect.Int, reflect.Int64:
		yc.typ, yc.conv = types.TypeInt64, func(v reflect.Value) types.Value { return types.Int64Value(v.Int()) }
	case reflect.Uint8:
		yc.typ, yc.conv = types.TypeUint8, func(v reflect.Value) types.Value { return types.Uint8Value(uint8(v.Uint())) }
	case reflect.Uint16:
		yc.typ, yc.conv = types.TypeUint16, func(v reflect.Value) types.Value { return types.Uint16Value(uint16(v.Uint())) }
	case reflect.Uint32:
		yc.typ, yc.conv = types.TypeUint32, func(v reflect.Value) types.Value { return types.Uint32Value(uint32(v.Uint())) }
	case reflect.Uint, reflect.Uint64:
		yc.typ, yc.conv = types.TypeUint64, func(v reflect.Value) types.Value { return types.Uint64Value(v.Uint()) }
	default:
		return column{}, fmt.Errorf("%w: integer column %q of type %v", ErrUnsupportedColumn, c.Name, c.Type)
	}
	return yc, nil
}
