package enrich

import "github.com/niarepo/gosales-etl/pkg/records"

// FillZero replaces nil or absent values in the named fields with int64(0).
// It backs the return-count invariant: the field is never null downstream.
type FillZero struct {
	Fields []string
}

func (f FillZero) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for _, field := range f.Fields {
			if v, ok := r[field]; !ok || v == nil {
				r[field] = int64(0)
			}
		}
	}
	return in
}
