// Package relation implements the in-memory tabular model the pipeline
// operates on: a named set of ordered columns plus row records.
//
// Relations are immutable by convention. Every operation (Rename, DropPrefix,
// LeftJoin, projection in the project package) returns a new Relation and
// never mutates its operands, so intermediate stages can be held and compared
// safely.
package relation

import (
	"fmt"

	"github.com/niarepo/gosales-etl/pkg/records"
)

// Relation is a tabular dataset: an ordered column list and homogeneous rows.
type Relation struct {
	Columns []string
	Rows    []records.Record
}

// New constructs a Relation from a column list and rows. The inputs are not
// copied; callers hand over ownership.
func New(columns []string, rows []records.Record) *Relation {
	return &Relation{Columns: columns, Rows: rows}
}

// HasColumn reports whether the relation declares the named column.
func (r *Relation) HasColumn(name string) bool {
	for _, c := range r.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Len returns the number of rows.
func (r *Relation) Len() int { return len(r.Rows) }

// Rename returns a new relation with column old renamed to new. Renaming a
// column that does not exist is an error: a silent no-op here would later
// surface as a confusing missing-column failure at projection time.
func (r *Relation) Rename(old, new string) (*Relation, error) {
	if !r.HasColumn(old) {
		return nil, fmt.Errorf("rename %s: %w", old, ErrMissingColumn)
	}
	cols := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		if c == old {
			cols[i] = new
		} else {
			cols[i] = c
		}
	}
	rows := make([]records.Record, len(r.Rows))
	for i, row := range r.Rows {
		nr := row.Clone()
		if v, ok := nr[old]; ok {
			delete(nr, old)
			nr[new] = v
		}
		rows[i] = nr
	}
	return &Relation{Columns: cols, Rows: rows}, nil
}

// DropPrefix returns a new relation without the columns whose names start
// with prefix, except those listed in keep.
func (r *Relation) DropPrefix(prefix string, keep ...string) *Relation {
	kept := make(map[string]struct{}, len(keep))
	for _, k := range keep {
		kept[k] = struct{}{}
	}
	drop := func(name string) bool {
		if _, ok := kept[name]; ok {
			return false
		}
		return len(name) >= len(prefix) && name[:len(prefix)] == prefix
	}

	cols := make([]string, 0, len(r.Columns))
	for _, c := range r.Columns {
		if !drop(c) {
			cols = append(cols, c)
		}
	}
	rows := make([]records.Record, len(r.Rows))
	for i, row := range r.Rows {
		nr := make(records.Record, len(cols))
		for _, c := range cols {
			nr[c] = row[c]
		}
		rows[i] = nr
	}
	return &Relation{Columns: cols, Rows: rows}
}

// AddColumns appends the named columns to the declared column list when not
// already present. Rows are left untouched; callers use this after a
// derivation stage has populated new fields on the row records.
func (r *Relation) AddColumns(names ...string) *Relation {
	cols := append([]string(nil), r.Columns...)
	for _, n := range names {
		if !r.HasColumn(n) {
			cols = append(cols, n)
		}
	}
	return &Relation{Columns: cols, Rows: r.Rows}
}

// WithRows returns a relation with the same columns and the given rows.
func (r *Relation) WithRows(rows []records.Record) *Relation {
	return &Relation{Columns: r.Columns, Rows: rows}
}
