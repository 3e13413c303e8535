package enrich

import (
	"math"
	"testing"

	"github.com/niarepo/gosales-etl/pkg/records"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// TestEconomics_ScenarioRow checks a reference order: quantity=10,
// unit_cost=5, unit_sale_price=8, unit_price=9.
func TestEconomics_ScenarioRow(t *testing.T) {
	t.Parallel()

	r := records.Record{
		"quantity":        int64(10),
		"unit_cost":       float64(5),
		"unit_sale_price": float64(8),
		"unit_price":      float64(9),
	}
	Economics{}.Apply([]records.Record{r})

	want := map[string]float64{
		"production_cost": 50,
		"revenue":         80,
		"planned_revenue": 90,
		"gross_profit":    30,
	}
	for field, w := range want {
		got, ok := r.Float(field)
		if !ok || !almostEqual(got, w) {
			t.Fatalf("%s = %v, want %v", field, r[field], w)
		}
	}
}

// TestEconomics_GrossProfitIdentity verifies gross_profit == revenue −
// production_cost over cent-valued inputs where naive float arithmetic
// drifts.
func TestEconomics_GrossProfitIdentity(t *testing.T) {
	t.Parallel()

	r := records.Record{
		"quantity":        int64(3),
		"unit_cost":       34.97,
		"unit_sale_price": 54.93,
		"unit_price":      59.99,
	}
	Economics{}.Apply([]records.Record{r})

	rev, _ := r.Float("revenue")
	cost, _ := r.Float("production_cost")
	profit, _ := r.Float("gross_profit")
	if !almostEqual(profit, rev-cost) {
		t.Fatalf("gross_profit = %v, revenue-production_cost = %v", profit, rev-cost)
	}
	if !almostEqual(rev, 164.79) {
		t.Fatalf("revenue = %v, want 164.79", rev)
	}
}

// TestEconomics_NullPropagation: missing operands yield nil derived fields,
// never an error and never a partial number.
func TestEconomics_NullPropagation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		rec     records.Record
		wantNil []string
		wantSet []string
	}{
		{
			name:    "nil quantity",
			rec:     records.Record{"quantity": nil, "unit_cost": 5.0, "unit_sale_price": 8.0, "unit_price": 9.0},
			wantNil: []string{"production_cost", "revenue", "planned_revenue", "gross_profit"},
		},
		{
			name:    "nil unit_cost only",
			rec:     records.Record{"quantity": int64(2), "unit_cost": nil, "unit_sale_price": 8.0, "unit_price": 9.0},
			wantNil: []string{"production_cost", "gross_profit"},
			wantSet: []string{"revenue", "planned_revenue"},
		},
		{
			name:    "nil sale price only",
			rec:     records.Record{"quantity": int64(2), "unit_cost": 5.0, "unit_sale_price": nil, "unit_price": 9.0},
			wantNil: []string{"revenue", "gross_profit"},
			wantSet: []string{"production_cost", "planned_revenue"},
		},
	}
	for _, tc := range cases {
		Economics{}.Apply([]records.Record{tc.rec})
		for _, f := range tc.wantNil {
			if got := tc.rec[f]; got != nil {
				t.Fatalf("%s: %s = %v, want nil", tc.name, f, got)
			}
		}
		for _, f := range tc.wantSet {
			if _, ok := tc.rec.Float(f); !ok {
				t.Fatalf("%s: %s = %v, want a number", tc.name, f, tc.rec[f])
			}
		}
	}
}
