package config

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestPipelineDecode_Full(t *testing.T) {
	t.Parallel()

	raw := `{
		"job": "gosales",
		"source": {
			"kind": "postgres",
			"db": {"dsn": "postgresql://localhost:5432/gosales"}
		},
		"relations": {
			"orders": "go_daily_sales",
			"products": "go_products",
			"retailers": "go_retailers"
		},
		"derive": {"date_layout": "2006-01-02"},
		"output": {
			"kind": "csv",
			"path": "out/enriched.csv",
			"options": {"comma": ";"}
		}
	}`

	var p Pipeline
	if err := json.NewDecoder(strings.NewReader(raw)).Decode(&p); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if p.Job != "gosales" {
		t.Errorf("Job = %q, want gosales", p.Job)
	}
	if p.Source.Kind != "postgres" {
		t.Errorf("Source.Kind = %q, want postgres", p.Source.Kind)
	}
	if p.Source.DB.DSN != "postgresql://localhost:5432/gosales" {
		t.Errorf("DSN = %q", p.Source.DB.DSN)
	}
	if p.Relations.Orders != "go_daily_sales" || p.Relations.Products != "go_products" || p.Relations.Retailers != "go_retailers" {
		t.Errorf("Relations = %+v", p.Relations)
	}
	if got := p.Output.Options.Rune("comma", ','); got != ';' {
		t.Errorf("comma option = %q, want ;", got)
	}
}

func TestApplyDefaults(t *testing.T) {
	t.Parallel()

	var p Pipeline
	p.ApplyDefaults()

	if p.Relations.Orders != "orders" || p.Relations.Products != "products" || p.Relations.Retailers != "retailers" {
		t.Errorf("Relations = %+v, want conventional names", p.Relations)
	}
	if p.Derive.DateLayout != "2006-01-02" {
		t.Errorf("DateLayout = %q, want 2006-01-02", p.Derive.DateLayout)
	}
	if p.Output.Kind != "sqlite" {
		t.Errorf("Output.Kind = %q, want sqlite", p.Output.Kind)
	}
	if p.Output.Table != "enriched_orders" {
		t.Errorf("Output.Table = %q, want enriched_orders", p.Output.Table)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	t.Parallel()

	p := Pipeline{
		Relations: Relations{Orders: "go_daily_sales", Products: "go_products", Retailers: "go_retailers"},
		Derive:    Derive{DateLayout: "01/02/2006"},
		Output:    Output{Kind: "csv", Table: "t"},
	}
	p.ApplyDefaults()

	if p.Relations.Orders != "go_daily_sales" {
		t.Errorf("Orders overwritten: %q", p.Relations.Orders)
	}
	if p.Derive.DateLayout != "01/02/2006" {
		t.Errorf("DateLayout overwritten: %q", p.Derive.DateLayout)
	}
	if p.Output.Kind != "csv" {
		t.Errorf("Output.Kind overwritten: %q", p.Output.Kind)
	}
}

func TestOptions_TypedAccess(t *testing.T) {
	t.Parallel()

	o := Options{
		"comma":  ";",
		"strict": true,
		"batch":  float64(250), // JSON numbers decode as float64
	}

	if got := o.String("comma", ","); got != ";" {
		t.Errorf("String = %q, want ;", got)
	}
	if got := o.String("missing", "fallback"); got != "fallback" {
		t.Errorf("String missing = %q, want fallback", got)
	}
	if !o.Bool("strict", false) {
		t.Errorf("Bool = false, want true")
	}
	if got := o.Int("batch", 0); got != 250 {
		t.Errorf("Int = %d, want 250", got)
	}
	if got := o.Int("comma", 7); got != 7 {
		t.Errorf("Int wrong type = %d, want default 7", got)
	}
	if got := o.Rune("comma", ','); got != ';' {
		t.Errorf("Rune = %q, want ;", got)
	}
	if got := o.Rune("missing", '|'); got != '|' {
		t.Errorf("Rune missing = %q, want |", got)
	}
}

func TestOptions_NullDecodesToEmptyMap(t *testing.T) {
	t.Parallel()

	var out Output
	if err := json.Unmarshal([]byte(`{"kind":"sqlite","path":"x.db","options":null}`), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Options == nil {
		t.Fatalf("Options is nil; want empty map")
	}
	if got := out.Options.String("comma", ","); got != "," {
		t.Errorf("default lookup on empty options = %q", got)
	}
}
