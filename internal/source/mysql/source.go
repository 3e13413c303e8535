// Package mysql registers the "mysql" source kind.
package mysql

import (
	"context"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"github.com/niarepo/gosales-etl/internal/source"
	"github.com/niarepo/gosales-etl/internal/source/sqldb"
)

func init() {
	source.Register("mysql", func(ctx context.Context, cfg source.Config) (source.Source, error) {
		return sqldb.Open(ctx, dialect(), cfg.DSN)
	})
}

func dialect() sqldb.Dialect {
	return sqldb.Dialect{
		Driver:    "mysql",
		ListQuery: "SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() ORDER BY table_name",
		Quote:     quoteIdent,
	}
}

func quoteIdent(id string) string {
	return "`" + strings.ReplaceAll(id, "`", "``") + "`"
}
