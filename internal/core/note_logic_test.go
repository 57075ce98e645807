package core_test

import (
	"testing"
	"time"

	"dotation-service/internal/core"
)

func TestReceptionNote_Normalize_DefaultsDate(t *testing.T) {
	n := core.ReceptionNote{
		SupplierName: "  Textiles Norte  ",
		Items: []core.ReceptionNoteItem{
			{ArticleName: " Jacket ", Size: "null", Quantity: 4},
		},
	}
	n.Normalize()

	if n.SupplierName != "Textiles Norte" {
		t.Errorf("supplier name = %q", n.SupplierName)
	}
	if n.ReceptionDate != time.Now().Format("2006-01-02") {
		t.Errorf("reception date = %q, want today", n.ReceptionDate)
	}
	if n.Items[0].ArticleName != "Jacket" || n.Items[0].Size != "" {
		t.Errorf("item not normalized: %+v", n.Items[0])
	}
}

func TestReceptionNote_NormalizationAndValidation(t *testing.T) {
	tests := []struct {
		name      string
		note      core.ReceptionNote
		expectErr bool
	}{
		{
			name: "happy path",
			note: core.ReceptionNote{
				SupplierName:  "Textiles Norte",
				ReceptionDate: "2026-08-20",
				Confidence:    0.9,
				Items: []core.ReceptionNoteItem{
					{ArticleName: "Jacket", Size: "M", Quantity: 4},
				},
			},
		},
		{
			name: "no items",
			note: core.ReceptionNote{
				ReceptionDate: "2026-08-20",
				Confidence:    0.5,
			},
			expectErr: true,
		},
		{
			name: "zero quantity",
			note: core.ReceptionNote{
				ReceptionDate: "2026-08-20",
				Confidence:    0.8,
				Items: []core.ReceptionNoteItem{
					{ArticleName: "Jacket", Quantity: 0},
				},
			},
			expectErr: true,
		},
		{
			name: "missing article name",
			note: core.ReceptionNote{
				ReceptionDate: "2026-08-20",
				Confidence:    0.8,
				Items: []core.ReceptionNoteItem{
					{ArticleName: "   ", Quantity: 2},
				},
			},
			expectErr: true,
		},
		{
			name: "bad date survives normalization",
			note: core.ReceptionNote{
				ReceptionDate: "20/08/2026",
				Confidence:    0.8,
				Items: []core.ReceptionNoteItem{
					{ArticleName: "Jacket", Quantity: 2},
				},
			},
			expectErr: true,
		},
		{
			name: "confidence out of range",
			note: core.ReceptionNote{
				ReceptionDate: "2026-08-20",
				Confidence:    1.4,
				Items: []core.ReceptionNoteItem{
					{ArticleName: "Jacket", Quantity: 2},
				},
			},
			expectErr: true,
		},
		{
			name: "empty date defaults to today and passes",
			note: core.ReceptionNote{
				Confidence: 0.7,
				Items: []core.ReceptionNoteItem{
					{ArticleName: "Jacket", Quantity: 2},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.note
			n.Normalize()
			err := n.Validate()
			if tt.expectErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
