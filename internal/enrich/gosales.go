package enrich

// This file pins the hand-authored GO Sales tables: the product-line and
// region relabelings, the coercion type map for the joined relation, and the
// default derivation chain. Nothing here generalizes to other datasets.

// ProductLineMap is the prod_line relabeling.
func ProductLineMap() map[string]string {
	return map[string]string{
		"Camping Equipment":        "Camping_Eqpt",
		"Golf Equipment":           "Golf_Eqpt",
		"Mountaineering Equipment": "Mountain_Eqpt",
		"Personal Accessories":     "Personal_Acces",
		"Outdoor Protection":       "Outdoor_Prot",
	}
}

// ProductLineMap2 is the prod_line_2 variant: identical except that Outdoor
// Protection folds into Personal_Acces.
func ProductLineMap2() map[string]string {
	m := ProductLineMap()
	m["Outdoor Protection"] = "Personal_Acces"
	return m
}

// RegionMap groups countries into the region2 buckets. Countries not listed
// fall back to the row's original region value.
func RegionMap() map[string]string {
	west := []string{"United Kingdom", "France", "Spain", "Netherlands", "Belgium", "Switzerland"}
	east := []string{"Germany", "Italy", "Finland", "Austria", "Sweden", "Denmark"}

	m := make(map[string]string, len(west)+len(east))
	for _, c := range west {
		m[c] = "West_Europe"
	}
	for _, c := range east {
		m[c] = "East_Europe"
	}
	return m
}

// CoerceTypes declares the typed shape of the joined relation.
func CoerceTypes() map[string]string {
	return map[string]string{
		"order_date":        "date",
		"close_date":        "date",
		"ship_date":         "date",
		"introduction_date": "date",
		"discontinued_date": "date",
		"quantity":          "int",
		"return_count":      "int",
		"unit_price":        "float",
		"unit_sale_price":   "float",
		"unit_cost":         "float",
		"unit_gross_margin": "float",
	}
}

// DerivedColumns lists every column the default chain adds, in the order the
// pipeline appends them to the relation.
func DerivedColumns() []string {
	return []string{
		"prod_line", "prod_line_2", "region2",
		"fin_year", "quarter_all", "quarter_sel",
		"production_cost", "revenue", "planned_revenue", "gross_profit",
	}
}

// DefaultChain assembles the full GO Sales derivation in its required order:
// cleanup and coercion first, then the null fill, remaps, date buckets, and
// unit economics. dateLayout parses the source date strings (ISO dates by
// default).
func DefaultChain(dateLayout string) Chain {
	if dateLayout == "" {
		dateLayout = "2006-01-02"
	}
	return Chain{
		Normalize{},
		Coerce{Types: CoerceTypes(), Layout: dateLayout},
		FillZero{Fields: []string{"return_count"}},
		Remap{Field: "product_line", Target: "prod_line", Table: ProductLineMap()},
		Remap{Field: "product_line", Target: "prod_line_2", Table: ProductLineMap2()},
		Remap{Field: "country", Target: "region2", Table: RegionMap(), FallbackField: "region_en"},
		BucketDates{Field: "order_date", Target: "fin_year", Buckets: FiscalYears(), Default: "other"},
		BucketDates{Field: "order_date", Target: "quarter_all", Buckets: AllQuarters(), Default: "other"},
		BucketDates{Field: "order_date", Target: "quarter_sel", Buckets: SelectedQuarters(), Default: "other"},
		Economics{},
	}
}
