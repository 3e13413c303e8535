// Package config defines the canonical, JSON-serializable configuration model
// for the enrichment job. It is intentionally small, explicit, and dependency-
// free so that run files can be loaded from disk and passed through the
// program without additional glue code.
//
// Example (trimmed):
//
//	{
//	  "job":    "gosales",
//	  "source": { "kind": "postgres", "db": { "dsn": "postgresql://..." } },
//	  "relations": { "orders": "orders", "products": "products", "retailers": "retailers" },
//	  "derive": { "date_layout": "2006-01-02" },
//	  "output": { "kind": "sqlite", "path": "out/enriched.db", "table": "enriched_orders" }
//	}
package config

import "encoding/json"

// Pipeline describes one enrichment run. It is the top-level object decoded
// from a run file (e.g., configs/pipelines/*.json).
type Pipeline struct {
	// Job names the run for logs and metrics labels.
	Job string `json:"job"`

	// Source selects and configures the relational data source.
	Source Source `json:"source"`

	// Relations names the three input relations at the source. Empty names
	// fall back to the conventional defaults via ApplyDefaults.
	Relations Relations `json:"relations"`

	// Derive configures the feature-derivation stage.
	Derive Derive `json:"derive"`

	// Output configures the artifact writer.
	Output Output `json:"output"`
}

// Source identifies the data source backend and its connection settings.
type Source struct {
	// Kind selects the source implementation: "postgres", "mysql", "mssql",
	// or "sqlite".
	Kind string `json:"kind"`

	// DB carries the connection settings shared by all backends.
	DB DBConfig `json:"db"`
}

// DBConfig configures the database connection.
type DBConfig struct {
	// DSN is the backend-specific connection string. It may be left empty in
	// the run file and supplied through the environment instead (credentials
	// are not this program's concern).
	DSN string `json:"dsn"`
}

// Relations names the input relations.
type Relations struct {
	Orders    string `json:"orders"`
	Products  string `json:"products"`
	Retailers string `json:"retailers"`
}

// Derive configures the derivation stage.
type Derive struct {
	// DateLayout parses source date strings (Go reference layout). Defaults
	// to ISO dates.
	DateLayout string `json:"date_layout"`
}

// Output selects the artifact writer and destination.
type Output struct {
	// Kind selects the writer implementation: "sqlite" or "csv".
	Kind string `json:"kind"`

	// Path is the artifact destination path.
	Path string `json:"path"`

	// Table names the relation inside container formats (SQLite).
	Table string `json:"table"`

	// Options is a free-form map interpreted by the writer implementation
	// (e.g. csv "comma").
	Options Options `json:"options"`
}

// ApplyDefaults fills the conventional values for fields the run file may
// omit: relation names, the ISO date layout, and the sqlite output kind and
// table name.
func (p *Pipeline) ApplyDefaults() {
	if p.Relations.Orders == "" {
		p.Relations.Orders = "orders"
	}
	if p.Relations.Products == "" {
		p.Relations.Products = "products"
	}
	if p.Relations.Retailers == "" {
		p.Relations.Retailers = "retailers"
	}
	if p.Derive.DateLayout == "" {
		p.Derive.DateLayout = "2006-01-02"
	}
	if p.Output.Kind == "" {
		p.Output.Kind = "sqlite"
	}
	if p.Output.Table == "" {
		p.Output.Table = "enriched_orders"
	}
}

// Options is a small helper to fetch typed values from arbitrary JSON maps
// without introducing third-party configuration libraries. It performs only
// minimal type coercion and returns the provided defaults when a key is
// absent or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers decode as float64,
// so this method accepts float64 and casts to int.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def if key is
// missing or empty. Useful for single-character writer settings such as a
// CSV delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// UnmarshalJSON implements json.Unmarshaler so that a missing or null
// "options" object decodes to a non-nil, empty Options map, removing the need
// for nil checks at call sites.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
