package parser

import (
	"reflect"
	"testing"
)

func TestClassifyColumns_BeverageHeader(t *testing.T) {
	t.Parallel()

	got := ClassifyColumns([]string{"Item Description", "Barcode", "Unit Cost", "Units - Units", "Average market retail"})
	want := ColumnMap{
		FieldDescription:  0,
		FieldBarcode:      1,
		FieldUnitCost:     2,
		FieldUnitsPerCase: 3,
		FieldRetailPrice:  4,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected map: got=%v want=%v", got, want)
	}
}

func TestClassifyColumns_FullHeader(t *testing.T) {
	t.Parallel()

	header := []string{
		" Produto ", "UPC", "Unités / Units per case", "Units - Forecast Sales",
		"Case Cost", "Cost per Unit", "Retail Price", "Unit Profit", "Marge %",
	}
	got := ClassifyColumns(header)
	want := ColumnMap{
		FieldDescription:  0,
		FieldBarcode:      1,
		FieldUnitsPerCase: 2,
		FieldCaseCost:     4,
		FieldUnitCost:     5,
		FieldRetailPrice:  6,
		FieldUnitProfit:   7,
		FieldMargin:       8,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected map: got=%v want=%v", got, want)
	}
}

func TestClassifyColumns_FirstColumnWins(t *testing.T) {
	t.Parallel()

	got := ClassifyColumns([]string{"Description", "Units", "Units / Case", "GTIN", "Barcode"})
	if got[FieldUnitsPerCase] != 1 {
		t.Fatalf("unitsPerCase want=1 got=%d", got[FieldUnitsPerCase])
	}
	if got[FieldBarcode] != 3 {
		t.Fatalf("barcode want=3 got=%d", got[FieldBarcode])
	}
	for field, idx := range got {
		if idx == 2 || idx == 4 {
			t.Fatalf("column %d must stay unmapped, got field %s", idx, field)
		}
	}
}

func TestClassifyColumns_RetailFallback(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		header []string
		want   int
		found  bool
	}{
		{name: "exact retail", header: []string{"Description", "Retail"}, want: 1, found: true},
		{name: "exact price", header: []string{"Description", "Price"}, want: 1, found: true},
		{name: "specific wins over earlier fallback", header: []string{"Description", "Price", "Market Retail"}, want: 2, found: true},
		{name: "specific wins over later fallback", header: []string{"Description", "Retail Price", "Retail"}, want: 1, found: true},
		{name: "first fallback wins", header: []string{"Description", "Price", "Retail"}, want: 1, found: true},
		{name: "sales excluded", header: []string{"Description", "Forecast Sales Retail"}, found: false},
		{name: "fallback at column zero", header: []string{"Price", "Item Description"}, want: 0, found: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			idx, ok := ClassifyColumns(tc.header).Index(FieldRetailPrice)
			if ok != tc.found {
				t.Fatalf("found want=%v got=%v", tc.found, ok)
			}
			if ok && idx != tc.want {
				t.Fatalf("retailPrice want=%d got=%d", tc.want, idx)
			}
		})
	}
}

func TestClassifyColumns_PriorityOrder(t *testing.T) {
	t.Parallel()

	// "units" 优先于 "cost"+"unit"；"unit cost case" 归入箱价而不是单价
	got := ClassifyColumns([]string{"Cost Units", "Unit Cost (case)", ""})
	if idx, ok := got.Index(FieldUnitsPerCase); !ok || idx != 0 {
		t.Fatalf("unitsPerCase want=0 got=%d ok=%v", idx, ok)
	}
	if idx, ok := got.Index(FieldCaseCost); !ok || idx != 1 {
		t.Fatalf("caseCost want=1 got=%d ok=%v", idx, ok)
	}
	if _, ok := got.Index(FieldUnitCost); ok {
		t.Fatalf("unitCost must not be mapped: %v", got)
	}
}

func TestClassifyColumns_NothingRecognized(t *testing.T) {
	t.Parallel()

	got := ClassifyColumns([]string{"", "Notes", "Supplier"})
	if len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
	if cell := got.Cell([]string{"a", "b"}, FieldDescription); cell != "" {
		t.Fatalf("unmapped field must read empty, got %q", cell)
	}
}

func TestRules_AreOrderedAndComplete(t *testing.T) {
	t.Parallel()

	rules := Rules()
	seen := map[Field]bool{}
	for _, r := range rules {
		if r.Match == nil {
			t.Fatalf("rule %q has no predicate", r.Name)
		}
		seen[r.Field] = true
	}
	for _, f := range []Field{
		FieldDescription, FieldBarcode, FieldUnitsPerCase, FieldUnitCost,
		FieldCaseCost, FieldRetailPrice, FieldUnitProfit, FieldMargin,
	} {
		if !seen[f] {
			t.Fatalf("no rule for field %s", f)
		}
	}
	if rules[0].Field != FieldDescription || rules[len(rules)-1].Field != FieldMargin {
		t.Fatalf("unexpected rule order: first=%s last=%s", rules[0].Field, rules[len(rules)-1].Field)
	}

	rules[0].Field = FieldMargin
	if Rules()[0].Field != FieldDescription {
		t.Fatalf("Rules must return a copy")
	}
}
