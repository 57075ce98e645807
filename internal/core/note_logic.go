package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Normalize cleans up model output, dealing with common formatting issues.
func (n *ReceptionNote) Normalize() {
	n.SupplierName = strings.TrimSpace(n.SupplierName)
	n.DocumentRef = strings.TrimSpace(n.DocumentRef)
	n.ReceptionDate = strings.TrimSpace(n.ReceptionDate)
	n.Notes = strings.TrimSpace(n.Notes)

	if n.ReceptionDate == "" || strings.ToLower(n.ReceptionDate) == "null" {
		n.ReceptionDate = time.Now().Format("2006-01-02")
	}

	for i := range n.Items {
		item := &n.Items[i]
		item.ArticleName = strings.TrimSpace(item.ArticleName)
		item.Size = strings.TrimSpace(item.Size)
		if strings.ToLower(item.Size) == "null" {
			item.Size = ""
		}
	}
}

// Validate checks the interpreted note is well-formed before it is resolved
// against the order. Matching article names to lines happens later; here only
// the note's own shape is enforced.
func (n *ReceptionNote) Validate() error {
	if _, err := time.Parse("2006-01-02", n.ReceptionDate); err != nil {
		return fmt.Errorf("invalid reception date format: %w", err)
	}

	if len(n.Items) == 0 {
		return errors.New("delivery note must mention at least one item")
	}

	for i, item := range n.Items {
		if item.ArticleName == "" {
			return fmt.Errorf("item %d: article name is required", i+1)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("item %d (%s): quantity must be > 0, got %d", i+1, item.ArticleName, item.Quantity)
		}
	}

	if n.Confidence < 0 || n.Confidence > 1 {
		return fmt.Errorf("confidence must be between 0 and 1, got %v", n.Confidence)
	}

	return nil
}
