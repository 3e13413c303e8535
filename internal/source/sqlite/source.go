// Package sqlite registers the "sqlite" source kind.
package sqlite

import (
	"context"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/niarepo/gosales-etl/internal/source"
	"github.com/niarepo/gosales-etl/internal/source/sqldb"
)

func init() {
	source.Register("sqlite", func(ctx context.Context, cfg source.Config) (source.Source, error) {
		return sqldb.Open(ctx, Dialect(), cfg.DSN)
	})
}

// Dialect is exported so tests elsewhere can open SQLite fixtures directly.
func Dialect() sqldb.Dialect {
	return sqldb.Dialect{
		Driver:    "sqlite",
		ListQuery: "SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name",
		Quote:     quoteIdent,
	}
}

func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
