package param

import (
	"database/sql"
	"fmt"
)

// NamedArgs is a Collection of database/sql named arguments, in insertion
// order. The zero value is ready to use.
type NamedArgs struct {
	args []sql.NamedArg
}

// Add appends a named argument. Names must be non-empty and unique.
func (n *NamedArgs) Add(name string, value any) error {
	if name == "" {
		return ErrEmptyName
	}
	for _, a := range n.args {
		if a.Name == name {
			return fmt.Errorf("%w: %q", ErrDuplicateParameter, name)
		}
	}
	n.args = append(n.args, sql.Named(name, value))
	return nil
}

// Args returns the arguments for db.ExecContext / db.QueryContext.
func (n *NamedArgs) Args() []any {
	out := make([]any, len(n.args))
	for i, a := range n.args {
		out[i] = a
	}
	return out
}

// Lookup returns the value stored under name.
func (n *NamedArgs) Lookup(name string) (any, bool) {
	for _, a := range n.args {
		if a.Name == name {
			return a.Value, true
		}
	}
	return nil, false
}

// Len returns the number of arguments.
func (n *NamedArgs) Len() int { return len(n.args) }
