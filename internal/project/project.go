// Package project selects, renames, and orders the output columns of the
// enriched relation. The projection is the single source of truth for the
// artifact's column contract: exactly the declared columns, in the declared
// order, and nothing else.
package project

import (
	"errors"
	"fmt"

	"github.com/niarepo/gosales-etl/internal/relation"
	"github.com/niarepo/gosales-etl/pkg/records"
)

// ErrMissingColumn is returned when the projection references a column the
// input relation does not declare. A source column lost earlier (e.g. a
// failed join) must abort the run; there is no partial-output mode.
var ErrMissingColumn = errors.New("projection source column missing")

// Column maps one output column to its source. From empty means the output
// name and the source name coincide.
type Column struct {
	Name string
	From string
}

func (c Column) source() string {
	if c.From != "" {
		return c.From
	}
	return c.Name
}

// Projection is an ordered output column list.
type Projection []Column

// Names returns the output column names in order.
func (p Projection) Names() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = c.Name
	}
	return out
}

// Apply builds a new relation containing exactly the projected columns in
// order. Every source column must exist on the input.
func (p Projection) Apply(in *relation.Relation) (*relation.Relation, error) {
	for _, c := range p {
		if !in.HasColumn(c.source()) {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c.source())
		}
	}
	rows := make([]records.Record, len(in.Rows))
	for i, src := range in.Rows {
		out := make(records.Record, len(p))
		for _, c := range p {
			out[c.Name] = src[c.source()]
		}
		rows[i] = out
	}
	return relation.New(p.Names(), rows), nil
}

// EnrichedOrders is the fixed 38-column GO Sales output contract.
func EnrichedOrders() Projection {
	return Projection{
		{Name: "order_number"},
		{Name: "order_date"},
		{Name: "close_date"},
		{Name: "order_ship_date", From: "ship_date"},
		{Name: "order_method"},
		{Name: "retailer"},
		{Name: "retailer_code"},
		{Name: "retailer_site", From: "retailer_site_key"},
		{Name: "retailer_site_code"},
		{Name: "retailer_type"},
		{Name: "region", From: "region_en"},
		{Name: "region2"},
		{Name: "country"},
		{Name: "city"},
		{Name: "prod_numb", From: "product_number"},
		{Name: "product"},
		{Name: "product_line"},
		{Name: "prod_line"},
		{Name: "prod_line_2"},
		{Name: "product_type"},
		{Name: "product_brand"},
		{Name: "product_color"},
		{Name: "product_size"},
		{Name: "introduction_date"},
		{Name: "discontinued_date"},
		{Name: "quantity"},
		{Name: "unit_price"},
		{Name: "unit_sale_price"},
		{Name: "unit_cost"},
		{Name: "unit_gross_margin"},
		{Name: "production_cost"},
		{Name: "revenue"},
		{Name: "planned_revenue"},
		{Name: "gross_profit"},
		{Name: "return_count"},
		{Name: "fin_year"},
		{Name: "quarter_all"},
		{Name: "quarter_sel"},
	}
}
