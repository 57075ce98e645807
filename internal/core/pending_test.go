package core_test

import (
	"reflect"
	"testing"

	"dotation-service/internal/core"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func sampleLines() []core.OrderLine {
	return []core.OrderLine{
		{ID: 1, OrderID: 1, ArticleID: 7, ArticleName: "Jacket", SupplierID: intPtr(2), SupplierName: strPtr("Textiles Norte"), Size: "S", OrderedQty: 3, ReceivedQty: 1},
		{ID: 2, OrderID: 1, ArticleID: 7, ArticleName: "Jacket", SupplierID: intPtr(2), SupplierName: strPtr("Textiles Norte"), Size: "M", OrderedQty: 5, ReceivedQty: 0},
		{ID: 3, OrderID: 1, ArticleID: 9, ArticleName: "Boots", SupplierID: intPtr(1), SupplierName: strPtr("Calzado Andino"), Size: "42", OrderedQty: 2, ReceivedQty: 2},
		{ID: 4, OrderID: 1, ArticleID: 11, ArticleName: "Helmet", Size: "", OrderedQty: 4, ReceivedQty: 0},
	}
}

func TestComputePending_FlatKeepsAllLines(t *testing.T) {
	flat, _ := core.ComputePending(sampleLines())
	if len(flat) != 4 {
		t.Fatalf("flat view has %d lines, want 4", len(flat))
	}
	// Fully received line stays in the flat view with pending 0.
	if flat[2].LineID != 3 || flat[2].Pending != 0 {
		t.Errorf("flat[2] = %+v, want line 3 with pending 0", flat[2])
	}
	if flat[0].Pending != 2 || flat[1].Pending != 5 || flat[3].Pending != 4 {
		t.Errorf("pending quantities wrong: %+v", flat)
	}
}

func TestComputePending_GroupedExcludesFullyReceived(t *testing.T) {
	_, grouped := core.ComputePending(sampleLines())
	if len(grouped) != 2 {
		t.Fatalf("grouped view has %d articles, want 2 (Boots fully received)", len(grouped))
	}
	for _, a := range grouped {
		if a.ArticleID == 9 {
			t.Errorf("fully received article 9 present in grouped view")
		}
	}
}

func TestComputePending_GroupedAggregation(t *testing.T) {
	_, grouped := core.ComputePending(sampleLines())

	var jacket *core.ArticlePending
	for i := range grouped {
		if grouped[i].ArticleID == 7 {
			jacket = &grouped[i]
		}
	}
	if jacket == nil {
		t.Fatal("article 7 missing from grouped view")
	}
	if jacket.TotalOrdered != 8 || jacket.TotalReceived != 1 || jacket.TotalPending != 7 {
		t.Errorf("jacket totals = %d/%d/%d, want 8/1/7", jacket.TotalOrdered, jacket.TotalReceived, jacket.TotalPending)
	}
	// Sizes keep line creation order.
	if len(jacket.Sizes) != 2 || jacket.Sizes[0].Size != "S" || jacket.Sizes[1].Size != "M" {
		t.Errorf("jacket sizes = %+v, want S then M", jacket.Sizes)
	}
}

func TestComputePending_GroupedSortedBySupplierThenArticle(t *testing.T) {
	_, grouped := core.ComputePending(sampleLines())
	// Helmet has no supplier (empty key sorts first), then Textiles Norte.
	if grouped[0].ArticleID != 11 || grouped[1].ArticleID != 7 {
		t.Errorf("grouped order = [%d %d], want [11 7]", grouped[0].ArticleID, grouped[1].ArticleID)
	}
}

func TestComputePending_Idempotent(t *testing.T) {
	flat1, grouped1 := core.ComputePending(sampleLines())
	flat2, grouped2 := core.ComputePending(sampleLines())
	if !reflect.DeepEqual(flat1, flat2) || !reflect.DeepEqual(grouped1, grouped2) {
		t.Error("ComputePending not deterministic for identical input")
	}
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name     string
		current  core.OrderStatus
		received []int
		ordered  []int
		want     core.OrderStatus
	}{
		{"nothing received keeps SENT", core.StatusSent, []int{0, 0}, []int{3, 5}, core.StatusSent},
		{"nothing received keeps GENERATED", core.StatusGenerated, []int{0}, []int{4}, core.StatusGenerated},
		{"partial", core.StatusSent, []int{2, 0}, []int{3, 5}, core.StatusPartiallyReceived},
		{"complete", core.StatusPartiallyReceived, []int{3, 5}, []int{3, 5}, core.StatusReceived},
		{"single line complete", core.StatusSent, []int{4}, []int{4}, core.StatusReceived},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := make([]core.OrderLine, len(tt.ordered))
			for i := range tt.ordered {
				lines[i] = core.OrderLine{ID: i + 1, OrderedQty: tt.ordered[i], ReceivedQty: tt.received[i]}
			}
			if got := core.DeriveStatus(tt.current, lines); got != tt.want {
				t.Errorf("DeriveStatus = %s, want %s", got, tt.want)
			}
		})
	}
}
