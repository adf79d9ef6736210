package shaper

import (
	"reflect"
	"strings"
	"unsafe"
)

// field is a readable field of a composite item type.
type field struct {
	name  string
	typ   reflect.Type
	index []int
	// viaPtr is set for fields promoted through an embedded pointer, which
	// read as nil when the pointer is nil.
	viaPtr bool
}

// isComposite reports whether items of type t are records with named
// fields. time.Time, decimal.Decimal and the database/sql Null wrappers are
// structs but shape as scalars.
func isComposite(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, false
	}
	if t == timeType || t == decimalType || isSQLNull(t) {
		return nil, false
	}
	return t, true
}

// readableFields lists the exported fields of st, including fields promoted
// from embedded structs, in declaration order. Embedded structs themselves
// are not columns. The tag key, when set, renames a field ("name") or hides
// it ("-").
func readableFields(st reflect.Type, tagKey string) []field {
	var out []field
	for _, f := range reflect.VisibleFields(st) {
		if !f.IsExported() {
			continue
		}
		if f.Anonymous {
			if _, ok := isComposite(f.Type); ok {
				continue
			}
		}
		name := f.Name
		if tagKey != "" {
			if tag, ok := f.Tag.Lookup(tagKey); ok {
				tag, _, _ = strings.Cut(tag, ",")
				if tag == "-" {
					continue
				}
				if tag != "" {
					name = tag
				}
			}
		}
		out = append(out, field{name: name, typ: f.Type, index: f.Index, viaPtr: promotedViaPtr(st, f.Index)})
	}
	return out
}

func promotedViaPtr(st reflect.Type, index []int) bool {
	t := st
	for _, i := range index[:len(index)-1] {
		t = t.Field(i).Type
		if t.Kind() == reflect.Pointer {
			return true
		}
	}
	return false
}

func findField(fields []field, name string) (field, bool) {
	for _, f := range fields {
		if f.name == name {
			return f, true
		}
	}
	return field{}, false
}

// readable clears the read-only flag reflect sets on fields promoted
// through an unexported embedded struct, so their values can be returned.
// v must be addressable, which holds for fields of the item copies built
// by buildComposite.
func readable(v reflect.Value) reflect.Value {
	if v.CanInterface() || !v.CanAddr() {
		return v
	}
	return reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem()
}
