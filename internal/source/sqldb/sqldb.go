// Package sqldb implements the source contract on top of database/sql. It is
// the shared core behind the mysql, mssql, and sqlite source kinds, which
// differ only in driver name, relation-listing query, and identifier quoting.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/niarepo/gosales-etl/internal/relation"
	"github.com/niarepo/gosales-etl/internal/source"
	"github.com/niarepo/gosales-etl/pkg/records"
)

// Dialect captures the per-backend differences.
type Dialect struct {
	// Driver is the database/sql driver name.
	Driver string
	// ListQuery returns relation names, one per row, first column.
	ListQuery string
	// Quote wraps a single identifier for use in a query.
	Quote func(string) string
}

// Source reads relations through database/sql.
type Source struct {
	db      *sql.DB
	dialect Dialect
}

// Open connects and pings with a short timeout so an unreachable source
// fails the run immediately rather than at first read.
func Open(ctx context.Context, d Dialect, dsn string) (*Source, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("%s: DSN must not be empty", d.Driver)
	}
	db, err := sql.Open(d.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", d.Driver, err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: ping: %w", d.Driver, err)
	}
	return &Source{db: db, dialect: d}, nil
}

// ListRelations returns the relation names visible at the source.
func (s *Source) ListRelations(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.ListQuery)
	if err != nil {
		return nil, fmt.Errorf("list relations: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list relations: scan: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Columns returns the column names of the named relation without reading any
// rows.
func (s *Source) Columns(ctx context.Context, name string) ([]string, error) {
	if err := s.ensureExists(ctx, name); err != nil {
		return nil, err
	}
	q := fmt.Sprintf("SELECT * FROM %s WHERE 1=0", s.dialect.Quote(name))
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("columns of %s: %w", name, err)
	}
	defer rows.Close()
	return rows.Columns()
}

// ReadRelation materializes the named relation in full.
func (s *Source) ReadRelation(ctx context.Context, name string) (*relation.Relation, error) {
	if err := s.ensureExists(ctx, name); err != nil {
		return nil, err
	}
	q := fmt.Sprintf("SELECT * FROM %s", s.dialect.Quote(name))
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read %s: columns: %w", name, err)
	}

	var recs []records.Record
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("read %s: scan: %w", name, err)
		}
		rec := make(records.Record, len(cols))
		for i, c := range cols {
			rec[c] = normalizeValue(vals[i])
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return relation.New(cols, recs), nil
}

// Close releases the connection.
func (s *Source) Close() { s.db.Close() }

// ensureExists resolves the relation name against the source catalog so that
// a missing relation maps onto source.ErrRelationNotFound instead of a
// driver-specific query error.
func (s *Source) ensureExists(ctx context.Context, name string) error {
	names, err := s.ListRelations(ctx)
	if err != nil {
		return err
	}
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return nil
		}
	}
	return fmt.Errorf("%s: %w", name, source.ErrRelationNotFound)
}

// normalizeValue folds driver types onto the records value vocabulary.
// []byte becomes string (MySQL delivers text columns as []byte); integer
// widths collapse to int64.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case float32:
		return float64(t)
	default:
		return v
	}
}
