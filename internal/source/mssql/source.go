// Package mssql registers the "mssql" source kind.
package mssql

import (
	"context"
	"strings"

	_ "github.com/microsoft/go-mssqldb"

	"github.com/niarepo/gosales-etl/internal/source"
	"github.com/niarepo/gosales-etl/internal/source/sqldb"
)

func init() {
	source.Register("mssql", func(ctx context.Context, cfg source.Config) (source.Source, error) {
		return sqldb.Open(ctx, dialect(), cfg.DSN)
	})
}

func dialect() sqldb.Dialect {
	return sqldb.Dialect{
		Driver:    "sqlserver",
		ListQuery: "SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME",
		Quote:     quoteIdent,
	}
}

func quoteIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}
