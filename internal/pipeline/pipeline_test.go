package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/niarepo/gosales-etl/internal/config"
	"github.com/niarepo/gosales-etl/internal/pipeline"
	"github.com/niarepo/gosales-etl/internal/project"
	"github.com/niarepo/gosales-etl/internal/relation"
	"github.com/niarepo/gosales-etl/internal/sink"
	"github.com/niarepo/gosales-etl/internal/source"
	"github.com/niarepo/gosales-etl/pkg/records"
)

// fakeSource serves canned relations and records read/close activity.
type fakeSource struct {
	relations map[string]*relation.Relation
	reads     map[string]int
	closed    bool
}

func (f *fakeSource) ListRelations(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(f.relations))
	for n := range f.relations {
		names = append(names, n)
	}
	return names, nil
}

func (f *fakeSource) Columns(ctx context.Context, name string) ([]string, error) {
	rel, ok := f.relations[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, source.ErrRelationNotFound)
	}
	return rel.Columns, nil
}

func (f *fakeSource) ReadRelation(ctx context.Context, name string) (*relation.Relation, error) {
	f.reads[name]++
	rel, ok := f.relations[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, source.ErrRelationNotFound)
	}
	return rel, nil
}

func (f *fakeSource) Close() { f.closed = true }

// captureSink stores the written relation instead of persisting it.
type captureSink struct {
	written *relation.Relation
}

func (c *captureSink) Write(ctx context.Context, rel *relation.Relation) error {
	c.written = rel
	return nil
}

// gosalesFixture builds the three input relations: two orders (one with a
// product no catalog row matches), one product, one retailer. Values arrive
// as strings the way database drivers commonly hand them over.
func gosalesFixture() map[string]*relation.Relation {
	orders := relation.New(
		[]string{
			"order_number", "product_number", "retailer_site_code",
			"order_date", "close_date", "ship_date",
			"quantity", "unit_price", "unit_sale_price", "unit_cost", "unit_gross_margin",
			"return_count", "order_method_en", "order_method_code",
		},
		[]records.Record{
			{
				"order_number":       int64(1),
				"product_number":     "P100",
				"retailer_site_code": "R1",
				"order_date":         "2006-08-15",
				"close_date":         "2006-09-01",
				"ship_date":          "2006-08-20",
				"quantity":           "10",
				"unit_price":         "9",
				"unit_sale_price":    "8",
				"unit_cost":          "5",
				"unit_gross_margin":  "0.375",
				"return_count":       nil,
				"order_method_en":    "Web",
				"order_method_code":  "2",
			},
			{
				"order_number":       int64(2),
				"product_number":     "P999", // no catalog match
				"retailer_site_code": "R1",
				"order_date":         "2003-01-01",
				"close_date":         nil,
				"ship_date":          nil,
				"quantity":           "3",
				"unit_price":         "4",
				"unit_sale_price":    nil,
				"unit_cost":          "2",
				"unit_gross_margin":  nil,
				"return_count":       "1",
				"order_method_en":    "Fax",
				"order_method_code":  "5",
			},
		},
	)

	products := relation.New(
		[]string{
			"product_number", "product_line", "product_type", "product",
			"product_brand", "product_color", "product_size",
			"introduction_date", "discontinued_date",
		},
		[]records.Record{
			{
				"product_number":    "P100",
				"product_line":      "Outdoor Protection",
				"product_type":      "Insect Repellents",
				"product":           "BugShield Lotion",
				"product_brand":     "BugShield",
				"product_color":     "Clear",
				"product_size":      "150ml",
				"introduction_date": "2004-01-15",
				"discontinued_date": nil,
			},
		},
	)

	retailers := relation.New(
		[]string{
			"retailer_site_code", "retailer_name", "retailer_code", "retailer_site_key",
			"retailer_type", "region_en", "country", "city",
		},
		[]records.Record{
			{
				"retailer_site_code": "R1",
				"retailer_name":      "Ultra Sport",
				"retailer_code":      int64(1205),
				"retailer_site_key":  int64(5001),
				"retailer_type":      "Outdoors Shop",
				"region_en":          "Central Europe",
				"country":            "Germany",
				"city":               "Berlin",
			},
		},
	)

	return map[string]*relation.Relation{
		"orders":    orders,
		"products":  products,
		"retailers": retailers,
	}
}

func runConfig(sourceKind, sinkKind string) config.Pipeline {
	p := config.Pipeline{
		Job:    "gosales-test",
		Source: config.Source{Kind: sourceKind, DB: config.DBConfig{DSN: "fake://"}},
		Output: config.Output{Kind: sinkKind, Path: "unused", Table: "unused"},
	}
	p.ApplyDefaults()
	return p
}

func TestRun_EndToEnd(t *testing.T) {
	fs := &fakeSource{relations: gosalesFixture(), reads: map[string]int{}}
	source.Register("fake-e2e", func(ctx context.Context, cfg source.Config) (source.Source, error) {
		return fs, nil
	})
	cs := &captureSink{}
	sink.Register("capture-e2e", func(cfg sink.Config) (sink.Writer, error) {
		return cs, nil
	})

	if err := pipeline.Run(context.Background(), runConfig("fake-e2e", "capture-e2e")); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !fs.closed {
		t.Fatalf("source not closed after successful run")
	}
	for _, name := range []string{"orders", "products", "retailers"} {
		if fs.reads[name] != 1 {
			t.Fatalf("%s read %d times, want 1", name, fs.reads[name])
		}
	}

	out := cs.written
	if out == nil {
		t.Fatalf("nothing written to sink")
	}
	if !reflect.DeepEqual(out.Columns, project.EnrichedOrders().Names()) {
		t.Fatalf("output columns = %v", out.Columns)
	}
	if out.Len() != 2 {
		t.Fatalf("output rows = %d, want 2 (left join preserves orders)", out.Len())
	}

	r := out.Rows[0]
	want := map[string]any{
		"order_number":    int64(1),
		"order_method":    "Web",
		"retailer":        "Ultra Sport",
		"retailer_site":   int64(5001),
		"region":          "Central Europe",
		"region2":         "East_Europe",
		"country":         "Germany",
		"prod_numb":       "P100",
		"prod_line":       "Outdoor_Prot",
		"prod_line_2":     "Personal_Acces",
		"fin_year":        "FY_06_07",
		"quarter_all":     "06_Q3",
		"quarter_sel":     "06_Q3",
		"return_count":    int64(0),
		"production_cost": 50.0,
		"revenue":         80.0,
		"planned_revenue": 90.0,
		"gross_profit":    30.0,
	}
	for col, v := range want {
		if got := r[col]; got != v {
			t.Errorf("row[0][%s] = %#v, want %#v", col, got, v)
		}
	}
	if d, ok := r["order_date"].(time.Time); !ok || !d.Equal(time.Date(2006, time.August, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("order_date = %#v", r["order_date"])
	}
	if _, ok := r["order_method_code"]; ok {
		t.Errorf("order_method_code survived the prefix drop")
	}

	// Unmatched product: catalog columns nil, buckets default, economics
	// propagate the nil sale price.
	r2 := out.Rows[1]
	if r2["product"] != nil || r2["prod_line"] != nil {
		t.Errorf("unmatched product columns = %#v / %#v, want nil", r2["product"], r2["prod_line"])
	}
	for _, col := range []string{"fin_year", "quarter_all", "quarter_sel"} {
		if r2[col] != "other" {
			t.Errorf("row[1][%s] = %#v, want other", col, r2[col])
		}
	}
	if r2["revenue"] != nil || r2["gross_profit"] != nil {
		t.Errorf("revenue/gross_profit = %#v/%#v, want nil (nil operand)", r2["revenue"], r2["gross_profit"])
	}
	if r2["production_cost"] != 6.0 {
		t.Errorf("production_cost = %#v, want 6", r2["production_cost"])
	}
	if r2["return_count"] != int64(1) {
		t.Errorf("return_count = %#v, want 1", r2["return_count"])
	}
}

func TestRun_MissingRelationIsFatal(t *testing.T) {
	rels := gosalesFixture()
	delete(rels, "retailers")
	fs := &fakeSource{relations: rels, reads: map[string]int{}}
	source.Register("fake-missing", func(ctx context.Context, cfg source.Config) (source.Source, error) {
		return fs, nil
	})
	cs := &captureSink{}
	sink.Register("capture-missing", func(cfg sink.Config) (sink.Writer, error) {
		return cs, nil
	})

	err := pipeline.Run(context.Background(), runConfig("fake-missing", "capture-missing"))
	if !errors.Is(err, source.ErrRelationNotFound) {
		t.Fatalf("err = %v, want ErrRelationNotFound", err)
	}
	if cs.written != nil {
		t.Fatalf("sink was written despite acquisition failure")
	}
	if !fs.closed {
		t.Fatalf("source not closed on error path")
	}
}

func TestRun_DuplicateRightKeyIsFatal(t *testing.T) {
	rels := gosalesFixture()
	dup := rels["retailers"].Rows[0].Clone()
	rels["retailers"] = rels["retailers"].WithRows([]records.Record{rels["retailers"].Rows[0], dup})
	fs := &fakeSource{relations: rels, reads: map[string]int{}}
	source.Register("fake-dup", func(ctx context.Context, cfg source.Config) (source.Source, error) {
		return fs, nil
	})
	cs := &captureSink{}
	sink.Register("capture-dup", func(cfg sink.Config) (sink.Writer, error) {
		return cs, nil
	})

	err := pipeline.Run(context.Background(), runConfig("fake-dup", "capture-dup"))
	if !errors.Is(err, relation.ErrDuplicateJoinKey) {
		t.Fatalf("err = %v, want ErrDuplicateJoinKey", err)
	}
	if cs.written != nil {
		t.Fatalf("sink was written despite join failure")
	}
}

func TestRun_UnknownSourceKind(t *testing.T) {
	err := pipeline.Run(context.Background(), runConfig("no-such-kind", "sqlite"))
	if err == nil {
		t.Fatalf("expected error for unknown source kind")
	}
}
