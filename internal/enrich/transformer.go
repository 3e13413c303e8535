// Package enrich contains the row-wise derivation steps applied to the joined
// order relation: string cleanup, type coercion, null filling, categorical
// remaps, date bucketing, and the derived unit-economics fields.
//
// Every step implements Transformer and is total: it always produces a value
// for its target fields and never fails a row. Steps mutate the record slice
// they are handed in place and return it, so a Chain is cheap to compose.
package enrich

import "github.com/niarepo/gosales-etl/pkg/records"

// Transformer applies one derivation step to a batch of records.
type Transformer interface {
	Apply([]records.Record) []records.Record
}

// Chain is an ordered list of transformers applied front to back.
type Chain []Transformer

// Apply runs every transformer in order.
func (c Chain) Apply(in []records.Record) []records.Record {
	out := in
	for _, t := range c {
		out = t.Apply(out)
	}
	return out
}
