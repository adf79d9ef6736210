// Package all wires the built-in binders into the param registry.
//
// It exists for side effects only: a blank import runs the init functions
// of each binder package, which register their factories with param.
// Afterwards the following kinds are available to param.New:
//
//   - "mssql"  (tvpshape/pkg/param/mssql)
//   - "ydb"    (tvpshape/pkg/param/ydb)
//   - "pgcopy" (tvpshape/pkg/param/pgcopy)
//
// A binary that needs only some backends can import those packages
// directly instead.
package all

import (
	_ "tvpshape/pkg/param/mssql"
	_ "tvpshape/pkg/param/pgcopy"
	_ "tvpshape/pkg/param/ydb"
)
