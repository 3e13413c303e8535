// Package all wires every built-in source backend into the source factory.
//
// The package exists purely for side effects: importing it (usually blank)
// runs each backend's init, which registers its factory with the source
// package. It makes the following source kinds available at runtime:
//
//   - "postgres" (internal/source/postgres)
//   - "mysql"    (internal/source/mysql)
//   - "mssql"    (internal/source/mssql)
//   - "sqlite"   (internal/source/sqlite)
package all

import (
	_ "github.com/niarepo/gosales-etl/internal/source/mssql"
	_ "github.com/niarepo/gosales-etl/internal/source/mysql"
	_ "github.com/niarepo/gosales-etl/internal/source/postgres"
	_ "github.com/niarepo/gosales-etl/internal/source/sqlite"
)
