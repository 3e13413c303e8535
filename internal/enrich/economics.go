package enrich

import (
	"github.com/shopspring/decimal"

	"github.com/niarepo/gosales-etl/pkg/records"
)

// Economics derives the four unit-economics fields:
//
//	production_cost = quantity × unit_cost
//	revenue         = quantity × unit_sale_price
//	planned_revenue = quantity × unit_price
//	gross_profit    = revenue − production_cost
//
// Arithmetic runs on decimals to keep cents exact, then lands as float64.
// Null propagation: a nil operand yields a nil result for the fields that
// depend on it; the row itself is never rejected.
type Economics struct{}

func (Economics) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		qty, haveQty := r.Float("quantity")

		cost := mulInto(r, "production_cost", qty, haveQty, "unit_cost")
		rev := mulInto(r, "revenue", qty, haveQty, "unit_sale_price")
		mulInto(r, "planned_revenue", qty, haveQty, "unit_price")

		if cost != nil && rev != nil {
			r["gross_profit"] = rev.Sub(*cost).InexactFloat64()
		} else {
			r["gross_profit"] = nil
		}
	}
	return in
}

// mulInto stores qty × r[operand] under target and returns the decimal for
// reuse, or stores nil and returns nil when either operand is absent.
func mulInto(r records.Record, target string, qty float64, haveQty bool, operand string) *decimal.Decimal {
	v, ok := r.Float(operand)
	if !haveQty || !ok {
		r[target] = nil
		return nil
	}
	d := decimal.NewFromFloat(qty).Mul(decimal.NewFromFloat(v))
	r[target] = d.InexactFloat64()
	return &d
}
