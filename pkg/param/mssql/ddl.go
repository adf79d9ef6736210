package mssql

import (
	"fmt"
	"strings"

	"tvpshape/pkg/tabular"
)

// CreateTypeSQL returns a T-SQL script that creates the user-defined table
// type a table binds to, unless a type of that name already exists:
//
//	IF TYPE_ID(N'[dbo].[IdList]') IS NULL
//	BEGIN
//	  CREATE TYPE [dbo].[IdList] AS TABLE (
//	    [Id] BIGINT NOT NULL
//	  );
//	END;
//
// Column types follow SQLType, so a table bound with AsParameter always
// matches the generated type. Columns without a SQL Server type fail with
// ErrUnsupportedColumn.
func CreateTypeSQL(typeName string, t *tabular.Table) (string, error) {
	fqn := QuoteFQN(typeName)
	if fqn == "" {
		return "", ErrEmptyTypeName
	}
	if t.Width() == 0 {
		return "", ErrNoColumns
	}

	cols := make([]string, 0, t.Width())
	for _, c := range t.Columns {
		typ := SQLType(c)
		if typ == "" {
			return "", fmt.Errorf("%w: column %q of %s kind (%v)", ErrUnsupportedColumn, c.Name, c.Kind, c.Type)
		}
		col := quoteIdent(c.Name) + " " + typ
		if !c.Nullable {
			col += " NOT NULL"
		}
		cols = append(cols, col)
	}

	return fmt.Sprintf(
		"IF TYPE_ID(N'%s') IS NULL\nBEGIN\n  CREATE TYPE %s AS TABLE (\n    %s\n  );\nEND;",
		strings.ReplaceAll(fqn, "'", "''"),
		fqn,
		strings.Join(cols, ",\n    "),
	), nil
}
