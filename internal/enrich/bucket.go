package enrich

import (
	"fmt"
	"time"

	"github.com/niarepo/gosales-etl/pkg/records"
)

// DateBucket is one closed interval [From, To] carrying a label. Bounds are
// compared at day granularity; both ends are inclusive.
type DateBucket struct {
	From  time.Time
	To    time.Time
	Label string
}

// Contains reports whether t falls inside the closed interval.
func (b DateBucket) Contains(t time.Time) bool {
	return !t.Before(b.From) && !t.After(b.To)
}

// BucketDates writes into Target the label of the first bucket containing the
// date in Field, or Default when no bucket matches (including nil and
// non-date values). The policy is fixed: first matching interval wins, then
// the default — bucket order is part of the contract even when intervals are
// disjoint.
type BucketDates struct {
	Field   string
	Target  string
	Buckets []DateBucket
	Default string
}

func (b BucketDates) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		r[b.Target] = b.classify(r)
	}
	return in
}

func (b BucketDates) classify(r records.Record) string {
	t, ok := r[b.Field].(time.Time)
	if !ok {
		return b.Default
	}
	for _, bucket := range b.Buckets {
		if bucket.Contains(t) {
			return bucket.Label
		}
	}
	return b.Default
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FiscalYears returns the July–June fiscal-year buckets used for fin_year.
func FiscalYears() []DateBucket {
	return []DateBucket{
		{From: day(2004, time.July, 1), To: day(2005, time.June, 30), Label: "FY_04_05"},
		{From: day(2005, time.July, 1), To: day(2006, time.June, 30), Label: "FY_05_06"},
		{From: day(2006, time.July, 1), To: day(2007, time.June, 30), Label: "FY_06_07"},
	}
}

// Quarters generates n consecutive calendar-quarter buckets starting at the
// given year and quarter (1-4), labeled "YY_Qn".
func Quarters(startYear, startQuarter, n int) []DateBucket {
	out := make([]DateBucket, 0, n)
	year, q := startYear, startQuarter
	for i := 0; i < n; i++ {
		from := day(year, time.Month(3*(q-1)+1), 1)
		to := from.AddDate(0, 3, -1)
		out = append(out, DateBucket{
			From:  from,
			To:    to,
			Label: fmt.Sprintf("%02d_Q%d", year%100, q),
		})
		q++
		if q > 4 {
			q = 1
			year++
		}
	}
	return out
}

// AllQuarters covers 2004-Q1 through 2007-Q3 (quarter_all).
func AllQuarters() []DateBucket { return Quarters(2004, 1, 15) }

// SelectedQuarters covers 2004-Q3 through 2007-Q2 (quarter_sel).
func SelectedQuarters() []DateBucket { return Quarters(2004, 3, 12) }
