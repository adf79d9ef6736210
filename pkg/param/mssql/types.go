package mssql

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	mssql "github.com/microsoft/go-mssqldb"
	"github.com/shopspring/decimal"

	"tvpshape/pkg/tabular"
)

var (
	// ErrUnsupportedColumn is returned for columns the driver cannot send.
	ErrUnsupportedColumn = errors.New("mssql: unsupported column type")
	// ErrValueRange is returned for unsigned values above math.MaxInt64.
	ErrValueRange = errors.New("mssql: value out of range")
)

var (
	int16Type   = reflect.TypeFor[int16]()
	int32Type   = reflect.TypeFor[int32]()
	int64Type   = reflect.TypeFor[int64]()
	uint8Type   = reflect.TypeFor[uint8]()
	float32Type = reflect.TypeFor[float32]()
	float64Type = reflect.TypeFor[float64]()
	boolType    = reflect.TypeFor[bool]()
	stringType  = reflect.TypeFor[string]()
	timeType    = reflect.TypeFor[time.Time]()
	bytesType   = reflect.TypeFor[[]byte]()
	uuidType    = reflect.TypeFor[uuid.UUID]()
	guidType    = reflect.TypeFor[mssql.UniqueIdentifier]()
)

// codec is the driver-side Go type of a column and the conversion from row
// values to it. Row values are never nil when conv is called.
type codec struct {
	typ     reflect.Type
	sqlType string
	conv    func(v any) (any, error)
}

// codecFor maps a column onto a Go type go-mssqldb can send in a TVP.
//
// Rules:
//
//   - int8/int16 -> int16 (SMALLINT), uint8 -> uint8 (TINYINT),
//     int32/uint16/enum -> int32 (INT), everything else integral -> int64
//     (BIGINT); uint/uint64 values above MaxInt64 fail with ErrValueRange.
//   - float32 -> REAL, float64 -> FLOAT.
//   - Decimal is sent as its string form into DECIMAL(38, 10).
//   - uuid.UUID -> mssql.UniqueIdentifier (UNIQUEIDENTIFIER).
//   - Other columns fail with ErrUnsupportedColumn.
func codecFor(c tabular.Column) (codec, error) {
	switch c.Kind {
	case tabular.Integer:
		return integerCodec(c)
	case tabular.Float:
		if c.Type.Kind() == reflect.Float32 {
			return codec{float32Type, "REAL", convertTo(float32Type)}, nil
		}
		return codec{float64Type, "FLOAT", convertTo(float64Type)}, nil
	case tabular.Decimal:
		return codec{stringType, "DECIMAL(38, 10)", func(v any) (any, error) {
			d, ok := v.(decimal.Decimal)
			if !ok {
				return nil, fmt.Errorf("%w: %T in decimal column %q", ErrUnsupportedColumn, v, c.Name)
			}
			return d.String(), nil
		}}, nil
	case tabular.Boolean:
		return codec{boolType, "BIT", convertTo(boolType)}, nil
	case tabular.String:
		return codec{stringType, "NVARCHAR(MAX)", convertTo(stringType)}, nil
	case tabular.DateTime:
		return codec{timeType, "DATETIME2", convertTo(timeType)}, nil
	case tabular.Binary:
		return codec{bytesType, "VARBINARY(MAX)", convertTo(bytesType)}, nil
	case tabular.Other:
		if c.Type == uuidType {
			return codec{guidType, "UNIQUEIDENTIFIER", convertTo(guidType)}, nil
		}
	}
	return codec{}, fmt.Errorf("%w: column %q of %s kind (%v)", ErrUnsupportedColumn, c.Name, c.Kind, c.Type)
}

func integerCodec(c tabular.Column) (codec, error) {
	if c.Enum {
		return codec{int32Type, "INT", convertTo(int32Type)}, nil
	}
	switch c.Type.Kind() {
	case reflect.Int8, reflect.Int16:
		return codec{int16Type, "SMALLINT", convertTo(int16Type)}, nil
	case reflect.Uint8:
		return codec{uint8Type, "TINYINT", convertTo(uint8Type)}, nil
	case reflect.Int32, reflect.Uint16:
		return codec{int32Type, "INT", convertTo(int32Type)}, nil
	case reflect.Uint, reflect.Uint64:
		return codec{int64Type, "BIGINT", func(v any) (any, error) {
			rv := reflect.ValueOf(v)
			if !rv.CanUint() {
				return nil, fmt.Errorf("%w: %T in column %q", ErrUnsupportedColumn, v, c.Name)
			}
			u := rv.Uint()
			if u > math.MaxInt64 {
				return nil, fmt.Errorf("%w: %d in column %q", ErrValueRange, u, c.Name)
			}
			return int64(u), nil
		}}, nil
	}
	return codec{int64Type, "BIGINT", convertTo(int64Type)}, nil
}

// convertTo converts values of any type convertible to t, which covers
// named types such as `type Status string`.
func convertTo(t reflect.Type) func(any) (any, error) {
	return func(v any) (any, error) {
		rv := reflect.ValueOf(v)
		if !rv.Type().ConvertibleTo(t) {
			return nil, fmt.Errorf("%w: cannot convert %T to %s", ErrUnsupportedColumn, v, t)
		}
		return rv.Convert(t).Interface(), nil
	}
}

// SQLType returns the SQL Server column type a column is sent as, or ""
// when the column cannot be sent.
func SQLType(c tabular.Column) string {
	cd, err := codecFor(c)
	if err != nil {
		return ""
	}
	return cd.sqlType
}

// Describe renders a table's columns the way they would appear in a
// CREATE TYPE ... AS TABLE body, for log lines and error messages:
//
//	[Id] INT NOT NULL, [Name] NVARCHAR(MAX) NULL
func Describe(t *tabular.Table) string {
	parts := make([]string, 0, t.Width())
	for _, c := range t.Columns {
		typ := SQLType(c)
		if typ == "" {
			typ = "?"
		}
		null := " NOT NULL"
		if c.Nullable {
			null = " NULL"
		}
		parts = append(parts, quoteIdent(c.Name)+" "+typ+null)
	}
	return strings.Join(parts, ", ")
}

// quoteIdent quotes a single identifier segment for SQL Server using
// bracket syntax, escaping any closing brackets.
//
//	name      -> [name]
//	weird]id  -> [weird]]id]
func quoteIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}

// QuoteFQN quotes a possibly schema-qualified type name, e.g.:
//
//	"dbo.IdList" -> [dbo].[IdList]
//	"IdList"     -> [IdList]
func QuoteFQN(fqn string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, quoteIdent(p))
	}
	return strings.Join(out, ".")
}
