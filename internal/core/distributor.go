package core

import "fmt"

// SizeAllocation is the distributor's output for one size line. Quantity may
// be zero for lines the requested amount did not reach; callers persisting
// allocations skip those.
type SizeAllocation struct {
	LineID   int    `json:"line_id"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

// Distribute spreads a requested article-level quantity across the article's
// size lines, greedily filling each line up to its pending amount in the
// order the sizes appear. The result always has one entry per size and sums
// to qty. A request exceeding the article's total pending is rejected whole,
// with the current pending attached so the caller can correct the quantity.
func Distribute(article ArticlePending, qty int) ([]SizeAllocation, error) {
	if qty <= 0 {
		return nil, &ValidationError{
			Message:   fmt.Sprintf("quantity for article %q must be positive, got %d", article.ArticleName, qty),
			ArticleID: article.ArticleID,
			Pending:   article.TotalPending,
		}
	}
	if qty > article.TotalPending {
		return nil, &ValidationError{
			Message:   fmt.Sprintf("quantity %d exceeds pending %d for article %q", qty, article.TotalPending, article.ArticleName),
			ArticleID: article.ArticleID,
			Pending:   article.TotalPending,
		}
	}

	remaining := qty
	out := make([]SizeAllocation, 0, len(article.Sizes))
	for _, s := range article.Sizes {
		take := s.Pending
		if take > remaining {
			take = remaining
		}
		out = append(out, SizeAllocation{LineID: s.LineID, Size: s.Size, Quantity: take})
		remaining -= take
	}
	return out, nil
}
