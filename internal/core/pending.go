package core

import "sort"

// ComputePending derives the two pending views from an order's line set. It
// is a pure function: the same lines always produce the same output, and no
// state beyond the denormalized received_qty counter backs it.
//
// The flat view lists every line in creation order, fully received ones
// included (they belong to the order's history). The grouped view excludes
// articles with nothing pending and is sorted by supplier name then article
// name for display; sizes inside each article keep line creation order, which
// is also the order the distributor fills them in.
func ComputePending(lines []OrderLine) ([]LinePending, []ArticlePending) {
	flat := make([]LinePending, 0, len(lines))
	var articles []ArticlePending
	index := make(map[int]int, len(lines)) // articleID → position in articles

	for _, l := range lines {
		lp := LinePending{
			LineID:      l.ID,
			ArticleID:   l.ArticleID,
			ArticleName: l.ArticleName,
			Size:        l.Size,
			Ordered:     l.OrderedQty,
			Received:    l.ReceivedQty,
			Pending:     l.Pending(),
		}
		flat = append(flat, lp)

		pos, ok := index[l.ArticleID]
		if !ok {
			pos = len(articles)
			index[l.ArticleID] = pos
			articles = append(articles, ArticlePending{
				ArticleID:    l.ArticleID,
				ArticleName:  l.ArticleName,
				SupplierID:   l.SupplierID,
				SupplierName: l.SupplierName,
			})
		}
		a := &articles[pos]
		a.TotalOrdered += l.OrderedQty
		a.TotalReceived += l.ReceivedQty
		a.TotalPending += lp.Pending
		a.Sizes = append(a.Sizes, SizePending{
			LineID:   l.ID,
			Size:     l.Size,
			Ordered:  l.OrderedQty,
			Received: l.ReceivedQty,
			Pending:  lp.Pending,
		})
	}

	grouped := make([]ArticlePending, 0, len(articles))
	for _, a := range articles {
		if a.TotalPending > 0 {
			grouped = append(grouped, a)
		}
	}
	sort.SliceStable(grouped, func(i, j int) bool {
		si, sj := supplierSortKey(grouped[i]), supplierSortKey(grouped[j])
		if si != sj {
			return si < sj
		}
		return grouped[i].ArticleName < grouped[j].ArticleName
	})
	return flat, grouped
}

func supplierSortKey(a ArticlePending) string {
	if a.SupplierName == nil {
		return ""
	}
	return *a.SupplierName
}

// articleView builds the pending view of a single article from the working
// line set, in line creation order. Used by the reception write path, where
// the display sorting of ComputePending must not influence distribution.
// The second return is false when the order has no lines for the article.
func articleView(lines []OrderLine, articleID int) (ArticlePending, bool) {
	var a ArticlePending
	found := false
	for _, l := range lines {
		if l.ArticleID != articleID {
			continue
		}
		if !found {
			a = ArticlePending{
				ArticleID:    l.ArticleID,
				ArticleName:  l.ArticleName,
				SupplierID:   l.SupplierID,
				SupplierName: l.SupplierName,
			}
			found = true
		}
		a.TotalOrdered += l.OrderedQty
		a.TotalReceived += l.ReceivedQty
		a.TotalPending += l.Pending()
		a.Sizes = append(a.Sizes, SizePending{
			LineID:   l.ID,
			Size:     l.Size,
			Ordered:  l.OrderedQty,
			Received: l.ReceivedQty,
			Pending:  l.Pending(),
		})
	}
	return a, found
}

// DeriveStatus returns the order status implied by the line set. The state is
// a pure function of aggregate pending: any received quantity with pending
// remaining means PARTIALLY_RECEIVED, everything received means RECEIVED, and
// an untouched order keeps its current status. Nothing is stored beyond the
// status column itself, which is recomputed after every reception.
func DeriveStatus(current OrderStatus, lines []OrderLine) OrderStatus {
	var received, pending int
	for _, l := range lines {
		received += l.ReceivedQty
		pending += l.Pending()
	}
	switch {
	case received == 0:
		return current
	case pending == 0:
		return StatusReceived
	default:
		return StatusPartiallyReceived
	}
}
