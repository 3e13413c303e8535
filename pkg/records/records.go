// Package records defines the shared value vocabulary passed between pipeline
// stages. A Record is one row of a relation keyed by column name.
//
// Values stored in a Record are restricted by convention to:
//
//	nil, string, int64, float64, bool, time.Time
//
// Sources are responsible for mapping driver-specific types (e.g. []byte from
// MySQL) onto this set before records enter the pipeline.
package records

import "time"

// Record is a single row keyed by column name.
type Record map[string]any

// Clone returns a shallow copy of the record. Values are not deep-copied;
// the allowed value set contains only immutable types.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Float reports the value under key as a float64. Integers widen; anything
// else (including nil and missing keys) reports ok=false.
func (r Record) Float(key string) (float64, bool) {
	switch v := r[key].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	}
	return 0, false
}

// Int reports the value under key as an int64.
func (r Record) Int(key string) (int64, bool) {
	switch v := r[key].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	}
	return 0, false
}

// String reports the value under key as a string.
func (r Record) String(key string) (string, bool) {
	s, ok := r[key].(string)
	return s, ok
}

// Time reports the value under key as a time.Time.
func (r Record) Time(key string) (time.Time, bool) {
	t, ok := r[key].(time.Time)
	return t, ok
}
