package enrich

import "github.com/niarepo/gosales-etl/pkg/records"

// Remap writes a categorical relabeling of Field into Target. Lookup is an
// exact string match against Table; on a miss the value of FallbackField (or
// Field itself when FallbackField is empty) passes through unchanged. The
// step is total: Target is always assigned, and re-applying a remap to an
// already-remapped value outside the table domain leaves it as-is.
type Remap struct {
	Field         string            // source field for the lookup key
	Target        string            // field the label is written to
	Table         map[string]string // exact-match relabeling
	FallbackField string            // pass-through source on a miss; Field when empty
}

func (m Remap) Apply(in []records.Record) []records.Record {
	fallback := m.FallbackField
	if fallback == "" {
		fallback = m.Field
	}
	for _, r := range in {
		if s, ok := r[m.Field].(string); ok {
			if label, hit := m.Table[s]; hit {
				r[m.Target] = label
				continue
			}
		}
		r[m.Target] = r[fallback]
	}
	return in
}
