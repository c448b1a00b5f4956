package model

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoney_JSON(t *testing.T) {
	t.Parallel()

	m := NewMoney(decimal.RequireFromString("18"))
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"18.00"` {
		t.Fatalf("want \"18.00\", got %s", b)
	}

	for _, in := range []string{`"1.495"`, `1.495`} {
		var got Money
		if err := json.Unmarshal([]byte(in), &got); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		if got.String() != "1.50" {
			t.Fatalf("unmarshal %s: want 1.50 got %s", in, got)
		}
	}
}

func TestMoney_SQLValue(t *testing.T) {
	t.Parallel()

	m, err := MoneyFromString("3.5")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	v, err := m.Value()
	if err != nil || v != "3.50" {
		t.Fatalf("value want 3.50 got %v (%v)", v, err)
	}

	var back Money
	if err := back.Scan("3.50"); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !back.Equal(m.Decimal) {
		t.Fatalf("scan mismatch: %s vs %s", back, m)
	}
}

func TestCategoriesAndFilter(t *testing.T) {
	t.Parallel()

	products := []Product{
		{Number: "003", Category: "Beverages"},
		{Number: "004", Category: "Snacks"},
		{Number: "005", Category: "Beverages"},
	}

	if got := Categories(products); !reflect.DeepEqual(got, []string{"Beverages", "Snacks"}) {
		t.Fatalf("unexpected categories: %v", got)
	}
	if got := Categories(nil); got == nil || len(got) != 0 {
		t.Fatalf("empty input should give empty non-nil slice, got %#v", got)
	}

	bev := FilterByCategory(products, "Beverages")
	if len(bev) != 2 || bev[0].Number != "003" || bev[1].Number != "005" {
		t.Fatalf("unexpected filter result: %+v", bev)
	}
	if len(FilterByCategory(products, "")) != 3 {
		t.Fatalf("empty category should return all")
	}
}

func TestImportResult_SkippedSheets(t *testing.T) {
	t.Parallel()

	res := &ImportResult{Sheets: []SheetReport{
		{Status: SheetImported}, {Status: SheetSkipped}, {Status: SheetSkipped},
	}}
	if res.SkippedSheets() != 2 || !res.Empty() {
		t.Fatalf("unexpected: skipped=%d empty=%v", res.SkippedSheets(), res.Empty())
	}
}
