// Package postgres implements the "postgres" source kind natively on pgx v5.
// It reads relations through a pgxpool and maps the undefined-table SQLSTATE
// onto the source package's not-found error.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/niarepo/gosales-etl/internal/relation"
	"github.com/niarepo/gosales-etl/internal/source"
	"github.com/niarepo/gosales-etl/pkg/records"
)

// SQLSTATE for "relation does not exist".
const undefinedTable = "42P01"

func init() {
	source.Register("postgres", func(ctx context.Context, cfg source.Config) (source.Source, error) {
		return NewSource(ctx, cfg.DSN)
	})
}

// Source is a Postgres-backed source.Source.
type Source struct {
	pool *pgxpool.Pool
}

// NewSource connects a pgxpool and pings it so connection problems surface at
// acquisition time.
func NewSource(ctx context.Context, dsn string) (*Source, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgxpool: ping: %w", err)
	}
	return &Source{pool: pool}, nil
}

// ListRelations returns the table names in the public schema.
func (s *Source) ListRelations(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT tablename FROM pg_tables WHERE schemaname = 'public' ORDER BY tablename")
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

// Columns returns the column names of the named relation without reading rows.
func (s *Source) Columns(ctx context.Context, name string) ([]string, error) {
	rows, err := s.pool.Query(ctx, "SELECT * FROM "+pgIdent(name)+" WHERE false")
	if err != nil {
		return nil, mapNotFound(name, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name
	}
	return cols, nil
}

// ReadRelation materializes the named relation in full.
func (s *Source) ReadRelation(ctx context.Context, name string) (*relation.Relation, error) {
	rows, err := s.pool.Query(ctx, "SELECT * FROM "+pgIdent(name))
	if err != nil {
		return nil, mapNotFound(name, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name
	}

	var recs []records.Record
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read %s: values: %w", name, err)
		}
		rec := make(records.Record, len(cols))
		for i, c := range cols {
			rec[c] = normalizeValue(vals[i])
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, mapNotFound(name, err)
	}
	return relation.New(cols, recs), nil
}

// Close releases the pool.
func (s *Source) Close() { s.pool.Close() }

// mapNotFound converts the undefined-table SQLSTATE into ErrRelationNotFound
// and wraps anything else with the relation name.
func mapNotFound(name string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == undefinedTable {
		return fmt.Errorf("%s: %w", name, source.ErrRelationNotFound)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	return fmt.Errorf("read %s: %w", name, err)
}

// normalizeValue folds pgx-decoded values onto the records vocabulary.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case float32:
		return float64(t)
	case []byte:
		return string(t)
	default:
		return v
	}
}

// pgIdent safely quotes a single identifier segment.
func pgIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }
