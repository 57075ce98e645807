package app

import (
	"strings"
	"testing"

	"dotation-service/internal/core"
)

func pendingFixture() *core.PendingSummary {
	supplier := "Textiles Norte"
	return &core.PendingSummary{
		OrderID: 1,
		Status:  core.StatusSent,
		Articles: []core.ArticlePending{
			{
				ArticleID:    7,
				ArticleName:  "Jacket",
				SupplierName: &supplier,
				TotalPending: 10,
				Sizes: []core.SizePending{
					{LineID: 1, Size: "S", Pending: 3},
					{LineID: 2, Size: "M", Pending: 5},
					{LineID: 3, Size: "L", Pending: 2},
				},
			},
			{
				ArticleID:    11,
				ArticleName:  "Helmet",
				TotalPending: 4,
				Sizes: []core.SizePending{
					{LineID: 4, Size: "", Pending: 4},
				},
			},
		},
	}
}

func TestResolveNoteItems(t *testing.T) {
	note := &core.ReceptionNote{
		Items: []core.ReceptionNoteItem{
			// case-insensitive line match, no-size article mode, unknown-size
			// fallback, and an article that is not on the order at all
			{ArticleName: "jacket", Size: "m", Quantity: 4},
			{ArticleName: "Jacket", Quantity: 2},
			{ArticleName: "Jacket", Size: "XXL", Quantity: 1},
			{ArticleName: "Raincoat", Quantity: 3},
		},
	}

	items, unmatched := resolveNoteItems(note, pendingFixture())

	if len(items) != 3 {
		t.Fatalf("resolved %d items, want 3: %+v", len(items), items)
	}
	if items[0].Mode != core.ModeLine || items[0].TargetID != 2 || items[0].Quantity != 4 {
		t.Errorf("items[0] = %+v, want line mode targeting line 2", items[0])
	}
	if items[1].Mode != core.ModeArticle || items[1].TargetID != 7 {
		t.Errorf("items[1] = %+v, want article mode targeting article 7", items[1])
	}
	if items[2].Mode != core.ModeArticle || items[2].TargetID != 7 || items[2].Quantity != 1 {
		t.Errorf("items[2] = %+v, want article-mode fallback for unknown size", items[2])
	}

	if len(unmatched) != 1 || unmatched[0].ArticleName != "Raincoat" {
		t.Errorf("unmatched = %+v, want only Raincoat", unmatched)
	}
}

func TestFormatPendingCatalog(t *testing.T) {
	catalog := formatPendingCatalog(pendingFixture())

	for _, want := range []string{"Jacket", "pending 10", "supplier Textiles Norte", "size M: pending 5", "no size: pending 4"} {
		if !strings.Contains(catalog, want) {
			t.Errorf("catalog missing %q:\n%s", want, catalog)
		}
	}
}
