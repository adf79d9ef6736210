// Package pgcopy hands shaped tables to PostgreSQL through COPY.
//
// PostgreSQL has no table-valued parameters. The closest bulk handoff is
// COPY FROM STDIN, which pgx exposes as conn.CopyFrom(ctx, table, columns,
// source). The binder here packages a table as those three arguments; the
// destination type name is the (optionally schema-qualified) table to copy
// into, typically a temporary staging table:
//
//	args := &param.NamedArgs{}
//	if err := param.AddList(args, pgcopy.Binder{}, "items", "staging_items", items, cols); err != nil {
//	    return err
//	}
//	v, _ := args.Lookup("items")
//	in := v.(*pgcopy.CopyIn)
//	n, err := conn.CopyFrom(ctx, in.Table, in.Columns, in.Source)
package pgcopy

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"tvpshape/pkg/tabular"
)

var (
	// ErrEmptyTableName is returned when no destination table is given.
	ErrEmptyTableName = errors.New("pgcopy: empty table name")
	// ErrNoColumns is returned for a table without columns.
	ErrNoColumns = errors.New("pgcopy: table has no columns")
)

// CopyIn holds the arguments of pgx's CopyFrom for one table.
type CopyIn struct {
	Table   pgx.Identifier
	Columns []string
	Source  pgx.CopyFromSource
}

// Binder converts tables into *CopyIn values.
type Binder struct{}

// Name identifies the binder in metrics.
func (Binder) Name() string { return "pgcopy" }

// AsParameter returns a *CopyIn that copies t into the table typeName,
// e.g. "public.items" or "staging_items".
func (Binder) AsParameter(t *tabular.Table, typeName string) (any, error) {
	ident := ParseIdentifier(typeName)
	if len(ident) == 0 {
		return nil, ErrEmptyTableName
	}
	if t.Width() == 0 {
		return nil, ErrNoColumns
	}
	return &CopyIn{
		Table:   ident,
		Columns: t.ColumnNames(),
		Source:  Source(t),
	}, nil
}

// ParseIdentifier splits a dotted name into a pgx.Identifier, dropping
// empty segments.
func ParseIdentifier(name string) pgx.Identifier {
	var ident pgx.Identifier
	for _, p := range strings.Split(name, ".") {
		if p = strings.TrimSpace(p); p != "" {
			ident = append(ident, p)
		}
	}
	return ident
}

// Source returns a pgx.CopyFromSource over the table's rows. Enum columns
// already hold int32 values; everything else is passed to pgx unchanged.
func Source(t *tabular.Table) pgx.CopyFromSource {
	return &tableSource{rows: t.Rows, pos: -1}
}

type tableSource struct {
	rows []tabular.Row
	pos  int
}

func (s *tableSource) Next() bool {
	s.pos++
	return s.pos < len(s.rows)
}

func (s *tableSource) Values() ([]any, error) {
	return s.rows[s.pos], nil
}

func (s *tableSource) Err() error { return nil }
