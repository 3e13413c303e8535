package enrich

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/niarepo/gosales-etl/pkg/records"
)

// cleaner NFC-normalizes and strips format/control runes that occasionally
// leak out of exported source tables.
var cleaner = transform.Chain(
	norm.NFC,
	runes.Remove(runes.In(unicode.Cf)),
)

// Normalize trims and normalizes every string value in place. It runs first
// in the chain so that remap lookups and coercions see canonical text.
type Normalize struct{}

func (Normalize) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for k, v := range r {
			s, ok := v.(string)
			if !ok {
				continue
			}
			if cleaned, _, err := transform.String(cleaner, s); err == nil {
				s = cleaned
			}
			r[k] = strings.TrimSpace(s)
		}
	}
	return in
}
