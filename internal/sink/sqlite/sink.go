// Package sqlite writes the final relation as a single SQLite database file:
// one table, typed columns, batched transactional inserts. SQLite gives the
// artifact typed columns and round-trip fidelity while staying a single file
// at a single configured path.
//
// The writer builds the artifact at <path>.tmp and renames it into place only
// after a successful commit, so a failed run never leaves a partial artifact.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/niarepo/gosales-etl/internal/relation"
	"github.com/niarepo/gosales-etl/internal/sink"
	"github.com/niarepo/gosales-etl/pkg/records"
)

// DateLayout is how time.Time values are stored in TEXT columns.
const DateLayout = "2006-01-02"

const insertBatch = 500

func init() {
	sink.Register("sqlite", func(cfg sink.Config) (sink.Writer, error) {
		if strings.TrimSpace(cfg.Path) == "" {
			return nil, fmt.Errorf("sqlite sink: path must not be empty")
		}
		table := cfg.Table
		if table == "" {
			table = "enriched_orders"
		}
		return &Writer{path: cfg.Path, table: table}, nil
	})
}

// Writer is the SQLite artifact writer.
type Writer struct {
	path  string
	table string
}

// Write persists the relation. The table is created fresh from inferred
// column types; rows are inserted in batched transactions.
func (w *Writer) Write(ctx context.Context, rel *relation.Relation) error {
	tmp := w.path + ".tmp"
	// A stale tmp file from a crashed run must not leak into this artifact.
	_ = os.Remove(tmp)

	db, err := sql.Open("sqlite", tmp)
	if err != nil {
		return fmt.Errorf("sqlite sink: open: %w", err)
	}

	if err := w.writeAll(ctx, db, rel); err != nil {
		db.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := db.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("sqlite sink: close: %w", err)
	}
	if err := os.Rename(tmp, w.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("sqlite sink: finalize: %w", err)
	}
	return nil
}

func (w *Writer) writeAll(ctx context.Context, db *sql.DB, rel *relation.Relation) error {
	if _, err := db.ExecContext(ctx, createTableSQL(w.table, rel)); err != nil {
		return fmt.Errorf("sqlite sink: create table: %w", err)
	}

	placeholders := make([]string, len(rel.Columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(w.table),
		strings.Join(quoteAll(rel.Columns), ", "),
		strings.Join(placeholders, ", "),
	)

	for start := 0; start < len(rel.Rows); start += insertBatch {
		end := start + insertBatch
		if end > len(rel.Rows) {
			end = len(rel.Rows)
		}
		if err := w.insertBatch(ctx, db, insertSQL, rel.Columns, rel.Rows[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) insertBatch(ctx context.Context, db *sql.DB, insertSQL string, cols []string, rows []records.Record) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite sink: begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("sqlite sink: prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(cols))
	for _, row := range rows {
		for i, c := range cols {
			args[i] = toSQLValue(row[c])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("sqlite sink: insert: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite sink: commit: %w", err)
	}
	return nil
}

// ReadTable reads an artifact back as a relation. It exists for round-trip
// verification and ad-hoc inspection; the pipeline itself never reads its own
// output.
func ReadTable(ctx context.Context, path, table string) (*relation.Relation, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite read: open: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+quoteIdent(table))
	if err != nil {
		return nil, fmt.Errorf("sqlite read: query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sqlite read: columns: %w", err)
	}

	var recs []records.Record
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("sqlite read: scan: %w", err)
		}
		rec := make(records.Record, len(cols))
		for i, c := range cols {
			switch v := vals[i].(type) {
			case []byte:
				rec[c] = string(v)
			default:
				rec[c] = v
			}
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite read: %w", err)
	}
	return relation.New(cols, recs), nil
}

// createTableSQL infers a column type from the first non-nil value in each
// column: int64/bool→INTEGER, float64→REAL, everything else (strings, dates
// stored as text, all-nil columns)→TEXT.
func createTableSQL(table string, rel *relation.Relation) string {
	defs := make([]string, len(rel.Columns))
	for i, c := range rel.Columns {
		defs[i] = quoteIdent(c) + " " + inferSQLType(c, rel.Rows)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(defs, ", "))
}

func inferSQLType(col string, rows []records.Record) string {
	for _, r := range rows {
		switch r[col].(type) {
		case nil:
			continue
		case int64, bool:
			return "INTEGER"
		case float64:
			return "REAL"
		default:
			return "TEXT"
		}
	}
	return "TEXT"
}

// toSQLValue folds pipeline values onto SQLite bind types.
func toSQLValue(v any) any {
	switch t := v.(type) {
	case time.Time:
		return t.Format(DateLayout)
	case bool:
		if t {
			return int64(1)
		}
		return int64(0)
	default:
		return v
	}
}

func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

func quoteAll(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = quoteIdent(id)
	}
	return out
}
