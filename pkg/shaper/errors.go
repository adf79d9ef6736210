package shaper

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrMultiFieldWithoutColumnOrder is returned when a composite item type
	// has more than one readable field and no column order was supplied.
	// Field enumeration order is not guaranteed to match the destination
	// table type, so an explicit order is mandatory.
	ErrMultiFieldWithoutColumnOrder = errors.New("shaper: ordered column names must be provided when the item type has more than one field")

	// ErrColumnNameNotFound is returned when a requested column does not
	// match any readable field of the item type.
	ErrColumnNameNotFound = errors.New("shaper: column name not found")

	// ErrUnsupportedType is returned in strict mode for declared types that
	// have no column kind mapping.
	ErrUnsupportedType = errors.New("shaper: unsupported column type")

	// ErrValueRange is returned when an enum value does not fit in the
	// int32 representation of enum columns.
	ErrValueRange = errors.New("shaper: enum value out of int32 range")

	// ErrNilItem is returned for a nil item of a pointer-to-struct item
	// type. A nil record has no field values to shape.
	ErrNilItem = errors.New("shaper: nil item")

	// ErrNoColumnNames is returned when columnNames is non-nil but empty.
	// Pass nil to let the shaper pick the column names.
	ErrNoColumnNames = errors.New("shaper: empty column name list")
)

// ColumnNameNotFoundError reports the missing column and the item type it
// was looked up on. It matches ErrColumnNameNotFound with errors.Is.
type ColumnNameNotFoundError struct {
	Name string
	Type reflect.Type
}

func (e *ColumnNameNotFoundError) Error() string {
	if e.Type == nil {
		return fmt.Sprintf("%v: %q", ErrColumnNameNotFound, e.Name)
	}
	return fmt.Sprintf("%v: %q on %s", ErrColumnNameNotFound, e.Name, e.Type)
}

func (e *ColumnNameNotFoundError) Is(target error) bool {
	return target == ErrColumnNameNotFound
}
