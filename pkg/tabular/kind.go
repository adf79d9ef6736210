package tabular

import "strconv"

// Kind is the semantic column type assigned to a column, independent of the
// Go type that carries its values.
type Kind uint8

const (
	Other Kind = iota
	Integer
	Float
	Decimal
	Boolean
	String
	DateTime
	Binary
	// Enum is never stored on a Column; enum-typed sources produce Integer
	// columns with Column.Enum set.
	Enum
)

var kindNames = [...]string{
	Other:    "other",
	Integer:  "integer",
	Float:    "float",
	Decimal:  "decimal",
	Boolean:  "boolean",
	String:   "string",
	DateTime: "datetime",
	Binary:   "binary",
	Enum:     "enum",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}
