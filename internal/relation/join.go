package relation

import (
	"errors"
	"fmt"

	"github.com/niarepo/gosales-etl/pkg/records"
)

var (
	// ErrMissingColumn is returned when an operation references a column the
	// relation does not declare.
	ErrMissingColumn = errors.New("column not found")

	// ErrDuplicateJoinKey is returned when the right-hand relation of a left
	// join carries duplicate key values. A duplicate right key would silently
	// inflate the output row count, so it is treated as a fatal precondition
	// violation rather than tolerated.
	ErrDuplicateJoinKey = errors.New("duplicate join key on right relation")
)

// LeftJoin joins r (left) with right on the named key column, keeping every
// left row. Rows without a right match receive nil for all right columns.
//
// Preconditions enforced:
//   - both relations must declare the key column;
//   - right key values must be unique (ErrDuplicateJoinKey otherwise).
//
// The output declares the left columns followed by the right columns minus
// the key, and its row count always equals the left row count.
func (r *Relation) LeftJoin(right *Relation, key string) (*Relation, error) {
	if !r.HasColumn(key) {
		return nil, fmt.Errorf("left join on %s: left: %w", key, ErrMissingColumn)
	}
	if !right.HasColumn(key) {
		return nil, fmt.Errorf("left join on %s: right: %w", key, ErrMissingColumn)
	}

	rightCols := make([]string, 0, len(right.Columns)-1)
	for _, c := range right.Columns {
		if c != key {
			rightCols = append(rightCols, c)
		}
	}

	// Index right rows by key. Rows with a nil key cannot match anything and
	// are excluded from both the index and the uniqueness domain.
	index := make(map[string]records.Record, len(right.Rows))
	for _, row := range right.Rows {
		v, ok := row[key]
		if !ok || v == nil {
			continue
		}
		k := keyString(v)
		if _, dup := index[k]; dup {
			return nil, fmt.Errorf("left join on %s: key %v: %w", key, v, ErrDuplicateJoinKey)
		}
		index[k] = row
	}

	cols := append(append([]string(nil), r.Columns...), rightCols...)
	rows := make([]records.Record, len(r.Rows))
	for i, left := range r.Rows {
		out := left.Clone()
		var match records.Record
		if v, ok := left[key]; ok && v != nil {
			match = index[keyString(v)]
		}
		for _, c := range rightCols {
			if match != nil {
				out[c] = match[c]
			} else {
				out[c] = nil
			}
		}
		rows[i] = out
	}
	return &Relation{Columns: cols, Rows: rows}, nil
}

// keyString folds a key value to a comparable string so that e.g. an int64
// key on one side matches the same number on the other regardless of how the
// driver surfaced it.
func keyString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
