package enrich

import (
	"strconv"
	"time"

	"github.com/niarepo/gosales-etl/pkg/records"
)

// Coerce converts string values into typed ones per the Types map. Supported
// targets: "int" (int64), "float" (float64), "date" (time.Time via Layout),
// "string". Values that are already typed, or strings that fail to parse,
// pass through unchanged; validation of the result is not this step's job.
//
// Dates are normalized to midnight UTC so that closed-interval bucket
// comparisons work on whole days regardless of driver timezone behavior.
type Coerce struct {
	Types  map[string]string
	Layout string
}

func (c Coerce) Apply(in []records.Record) []records.Record {
	if len(c.Types) == 0 {
		return in
	}
	for _, r := range in {
		for field, typ := range c.Types {
			v, ok := r[field]
			if !ok || v == nil {
				continue
			}
			switch typ {
			case "int":
				if s, isStr := v.(string); isStr {
					if i, err := strconv.ParseInt(s, 10, 64); err == nil {
						r[field] = i
					}
				}
			case "float":
				switch t := v.(type) {
				case string:
					if f, err := strconv.ParseFloat(t, 64); err == nil {
						r[field] = f
					}
				case int64:
					r[field] = float64(t)
				case int:
					r[field] = float64(t)
				}
			case "date":
				switch t := v.(type) {
				case string:
					if parsed, err := time.Parse(c.Layout, t); err == nil {
						r[field] = midnightUTC(parsed)
					}
				case time.Time:
					r[field] = midnightUTC(t)
				}
			case "string":
				// already string
			}
		}
	}
	return in
}

func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
