package shaper

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tvpshape/pkg/tabular"
)

// Enumer is implemented by enum types whose integer representation is not
// simply their underlying value.
type Enumer interface {
	EnumValue() int32
}

var (
	timeType     = reflect.TypeFor[time.Time]()
	durationType = reflect.TypeFor[time.Duration]()
	decimalType  = reflect.TypeFor[decimal.Decimal]()
	uuidType     = reflect.TypeFor[uuid.UUID]()
	int32Type    = reflect.TypeFor[int32]()
	stringerType = reflect.TypeFor[fmt.Stringer]()
	enumerType   = reflect.TypeFor[Enumer]()
)

type wrapper uint8

const (
	wrapNone wrapper = iota
	wrapPtr
	wrapSQLNull
)

// plan is the resolved recipe for one column: the column itself plus what
// it takes to turn a source value into a row value.
type plan struct {
	col    tabular.Column
	wraps  []wrapper
	enum   bool
	enumer bool
	index  []int // field path for composite items; nil for scalars
}

// InferColumn derives a column from a declared Go type.
//
// Rules:
//
//   - Nullable is true when t is not a value type (pointer, slice, map,
//     interface, chan, func), when t is a nullable wrapper (*V, sql.Null[V],
//     sql.NullString, ...) and always for strings.
//   - Enums become Integer columns of type int32. An enum is a defined
//     integer type implementing fmt.Stringer, or any type implementing
//     Enumer. time.Duration is not an enum.
//   - Otherwise the column type is the unwrapped type of t and its kind
//     comes from a closed mapping; unknown types become Other unless Strict
//     is set.
func InferColumn(t reflect.Type, name string, opts ...Option) (tabular.Column, error) {
	o := newOptions(opts)
	p, err := inferPlan(t, name, o.strict)
	if err != nil {
		return tabular.Column{}, err
	}
	return p.col, nil
}

func inferPlan(t reflect.Type, name string, strict bool) (plan, error) {
	if t == nil {
		return plan{}, fmt.Errorf("%w: nil type for column %q", ErrUnsupportedType, name)
	}
	inner, wraps := unwrap(t)

	p := plan{
		wraps: wraps,
		col: tabular.Column{
			Name:     name,
			Nullable: len(wraps) > 0 || isReference(inner) || inner.Kind() == reflect.String,
		},
	}

	if enumer := implements(inner, enumerType); enumer || isStringerEnum(inner) {
		p.enum, p.enumer = true, enumer
		p.col.Kind, p.col.Type, p.col.Enum = tabular.Integer, int32Type, true
		return p, nil
	}

	p.col.Type = inner
	p.col.Kind = kindOf(inner)
	if p.col.Kind == tabular.Other && strict && inner != uuidType {
		return plan{}, fmt.Errorf("%w: %s for column %q", ErrUnsupportedType, t, name)
	}
	return p, nil
}

// unwrap strips pointers and database/sql Null wrappers, outermost first.
func unwrap(t reflect.Type) (reflect.Type, []wrapper) {
	var wraps []wrapper
	for {
		switch {
		case t.Kind() == reflect.Pointer:
			wraps = append(wraps, wrapPtr)
			t = t.Elem()
		case isSQLNull(t):
			wraps = append(wraps, wrapSQLNull)
			t = t.Field(0).Type
		default:
			return t, wraps
		}
	}
}

// isSQLNull matches sql.Null[T] and the sql.NullXxx family: a struct whose
// second and last field is Valid bool.
func isSQLNull(t reflect.Type) bool {
	return t.Kind() == reflect.Struct &&
		t.PkgPath() == "database/sql" &&
		strings.HasPrefix(t.Name(), "Null") &&
		t.NumField() == 2 &&
		t.Field(1).Name == "Valid" &&
		t.Field(1).Type.Kind() == reflect.Bool
}

func isReference(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface,
		reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return true
	}
	return false
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isStringerEnum(t reflect.Type) bool {
	return t.PkgPath() != "" && t != durationType &&
		isInteger(t.Kind()) && implements(t, stringerType)
}

func implements(t, iface reflect.Type) bool {
	return t.Kind() != reflect.Interface &&
		(t.Implements(iface) || reflect.PointerTo(t).Implements(iface))
}

func kindOf(t reflect.Type) tabular.Kind {
	switch t {
	case timeType:
		return tabular.DateTime
	case decimalType:
		return tabular.Decimal
	}
	switch k := t.Kind(); {
	case k == reflect.Bool:
		return tabular.Boolean
	case isInteger(k):
		return tabular.Integer
	case k == reflect.Float32 || k == reflect.Float64:
		return tabular.Float
	case k == reflect.String:
		return tabular.String
	case k == reflect.Slice && t.Elem().Kind() == reflect.Uint8:
		return tabular.Binary
	}
	return tabular.Other
}

// value turns a source value into the row value for p's column: nil for
// absent values, int32 for enums, the unwrapped value otherwise.
func (p *plan) value(v reflect.Value) (any, error) {
	for _, w := range p.wraps {
		switch w {
		case wrapPtr:
			if v.IsNil() {
				return nil, nil
			}
			v = v.Elem()
		case wrapSQLNull:
			if !v.Field(1).Bool() {
				return nil, nil
			}
			v = v.Field(0)
		}
	}
	if isReference(v.Type()) && v.IsNil() {
		return nil, nil
	}
	if p.enum {
		n, err := enumValue(v, p.enumer)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", p.col.Name, err)
		}
		return n, nil
	}
	return v.Interface(), nil
}

// enumValue returns the int32 representation of an enum value. Values of
// wider enum types outside the int32 range fail with ErrValueRange.
func enumValue(v reflect.Value, enumer bool) (int32, error) {
	if enumer {
		if e, ok := v.Interface().(Enumer); ok {
			return e.EnumValue(), nil
		}
		ptr := reflect.New(v.Type())
		ptr.Elem().Set(v)
		return ptr.Interface().(Enumer).EnumValue(), nil
	}
	if v.CanInt() {
		n := v.Int()
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0, fmt.Errorf("%w: %s(%d) does not fit in int32", ErrValueRange, v.Type(), n)
		}
		return int32(n), nil
	}
	u := v.Uint()
	if u > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s(%d) does not fit in int32", ErrValueRange, v.Type(), u)
	}
	return int32(u), nil
}
