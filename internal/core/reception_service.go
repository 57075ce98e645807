package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReceptionService records shipments against orders and answers pending
// queries. Registration is all-or-nothing: either every requested allocation
// fits within pending and the whole reception commits, or nothing is written.
type ReceptionService interface {
	RegisterReception(ctx context.Context, orderID int, input ReceptionInput) (*Reception, error)
	ListReceptions(ctx context.Context, orderID int) ([]Reception, error)
	GetPendingSummary(ctx context.Context, orderID int) (*PendingSummary, error)
}

type receptionService struct {
	pool  *pgxpool.Pool
	stock StockService
	audit AuditService
}

// NewReceptionService constructs a ReceptionService backed by PostgreSQL.
func NewReceptionService(pool *pgxpool.Pool, stock StockService, audit AuditService) ReceptionService {
	return &receptionService{pool: pool, stock: stock, audit: audit}
}

// resolvedAllocation is one validated allocation ready to persist, carrying
// the line fields needed for received_qty increments and stock updates.
type resolvedAllocation struct {
	line     OrderLine
	quantity int
}

// RegisterReception validates and applies one shipment against an order.
//
// Writers on the same order are serialized by a FOR UPDATE lock on the order
// row, taken before any validation, so the pending quantities checked here
// cannot be changed underneath by a concurrent reception. Within the locked
// view, items are applied against a working pending map in request order;
// line-targeted items spend pending directly, article-targeted items go
// through Distribute against the remaining pending of that article's lines.
func (s *receptionService) RegisterReception(ctx context.Context, orderID int, input ReceptionInput) (*Reception, error) {
	if input.ReceivedAt.IsZero() {
		return nil, &ValidationError{Message: "reception date is required"}
	}
	if len(input.Items) == 0 {
		return nil, &ValidationError{Message: "reception must include at least one item"}
	}
	for i, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, &ValidationError{Message: fmt.Sprintf("item %d: quantity must be positive, got %d", i+1, item.Quantity)}
		}
		if item.Mode != ModeLine && item.Mode != ModeArticle {
			return nil, &ValidationError{Message: fmt.Sprintf("item %d: unknown allocation mode %q", i+1, item.Mode)}
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var status OrderStatus
	if err := tx.QueryRow(ctx,
		"SELECT status FROM orders WHERE id = $1 FOR UPDATE",
		orderID,
	).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Kind: "order", ID: orderID}
		}
		return nil, fmt.Errorf("fetch order %d: %w", orderID, err)
	}
	if !status.Receivable() {
		return nil, &ConflictError{Message: fmt.Sprintf("order %d cannot receive shipments: status is %s", orderID, status)}
	}

	lines, err := fetchOrderLinesLocked(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	lineByID := make(map[int]int, len(lines)) // line ID → index in lines
	for i, l := range lines {
		lineByID[l.ID] = i
	}

	// Working copy of pending per line, spent as items resolve. A request
	// naming the same line twice, directly or via distribution, must fit
	// within pending in aggregate.
	pending := make(map[int]int, len(lines))
	for _, l := range lines {
		pending[l.ID] = l.Pending()
	}

	var resolved []resolvedAllocation
	for _, item := range input.Items {
		switch item.Mode {
		case ModeLine:
			idx, ok := lineByID[item.TargetID]
			if !ok {
				return nil, &NotFoundError{Kind: "order line", ID: item.TargetID}
			}
			l := lines[idx]
			if item.Quantity > pending[l.ID] {
				return nil, &ValidationError{
					Message:   fmt.Sprintf("line %d (%s %s): quantity %d exceeds pending %d", l.ID, l.ArticleName, l.Size, item.Quantity, pending[l.ID]),
					LineID:    l.ID,
					ArticleID: l.ArticleID,
					Pending:   pending[l.ID],
				}
			}
			pending[l.ID] -= item.Quantity
			resolved = append(resolved, resolvedAllocation{line: l, quantity: item.Quantity})

		case ModeArticle:
			working := workingLines(lines, pending)
			article, ok := articleView(working, item.TargetID)
			if !ok {
				return nil, &NotFoundError{Kind: "article", ID: item.TargetID}
			}
			if article.TotalPending == 0 {
				return nil, &ConflictError{Message: fmt.Sprintf("article %q is already fully received on order %d", article.ArticleName, orderID)}
			}
			allocs, err := Distribute(article, item.Quantity)
			if err != nil {
				return nil, err
			}
			for _, a := range allocs {
				if a.Quantity == 0 {
					continue
				}
				pending[a.LineID] -= a.Quantity
				resolved = append(resolved, resolvedAllocation{line: lines[lineByID[a.LineID]], quantity: a.Quantity})
			}
		}
	}

	var toSupplierName, toDocumentRef, toNotes *string
	if v := strings.TrimSpace(input.SupplierName); v != "" {
		toSupplierName = &v
	}
	if v := strings.TrimSpace(input.DocumentRef); v != "" {
		toDocumentRef = &v
	}
	if v := strings.TrimSpace(input.Notes); v != "" {
		toNotes = &v
	}
	recordedBy := input.RecordedBy
	if recordedBy == "" {
		recordedBy = "system"
	}

	if input.SupplierID != nil {
		var exists bool
		if err := tx.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM suppliers WHERE id = $1)",
			*input.SupplierID,
		).Scan(&exists); err != nil {
			return nil, fmt.Errorf("validate supplier: %w", err)
		}
		if !exists {
			return nil, &NotFoundError{Kind: "supplier", ID: *input.SupplierID}
		}
	}

	var receptionID int
	if err := tx.QueryRow(ctx, `
		INSERT INTO receptions (order_id, supplier_id, supplier_name, document_ref, received_at, notes, recorded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		orderID, input.SupplierID, toSupplierName, toDocumentRef, input.ReceivedAt, toNotes, recordedBy,
	).Scan(&receptionID); err != nil {
		return nil, fmt.Errorf("insert reception: %w", err)
	}

	totalUnits := 0
	for _, ra := range resolved {
		if _, err := tx.Exec(ctx, `
			INSERT INTO reception_allocations (reception_id, order_line_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4)`,
			receptionID, ra.line.ID, ra.quantity, ra.line.UnitPrice,
		); err != nil {
			return nil, fmt.Errorf("insert allocation for line %d: %w", ra.line.ID, err)
		}
		if _, err := tx.Exec(ctx,
			"UPDATE order_lines SET received_qty = received_qty + $1 WHERE id = $2",
			ra.quantity, ra.line.ID,
		); err != nil {
			return nil, fmt.Errorf("update received quantity for line %d: %w", ra.line.ID, err)
		}
		if err := s.stock.ApplyReceiptTx(ctx, tx, ra.line.ArticleID, ra.line.Size, ra.quantity); err != nil {
			return nil, err
		}
		totalUnits += ra.quantity
	}

	// Recompute the order status from the post-increment line set.
	after := make([]OrderLine, len(lines))
	copy(after, lines)
	for i := range after {
		after[i].ReceivedQty = after[i].OrderedQty - pending[after[i].ID]
	}
	newStatus := DeriveStatus(status, after)
	if newStatus != status {
		if _, err := tx.Exec(ctx,
			"UPDATE orders SET status = $1 WHERE id = $2",
			newStatus, orderID,
		); err != nil {
			return nil, fmt.Errorf("update order %d status: %w", orderID, err)
		}
	}

	detail := fmt.Sprintf("reception %d: %d unit(s) across %d allocation(s), status %s", receptionID, totalUnits, len(resolved), newStatus)
	if err := s.audit.RecordTx(ctx, tx, "orders", orderID, "RECEPTION", recordedBy, detail); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit reception: %w", err)
	}

	return s.getReception(ctx, receptionID)
}

// workingLines returns a copy of lines with received_qty advanced to reflect
// the pending map, so distribution for later items sees earlier items spent.
func workingLines(lines []OrderLine, pending map[int]int) []OrderLine {
	out := make([]OrderLine, len(lines))
	copy(out, lines)
	for i := range out {
		out[i].ReceivedQty = out[i].OrderedQty - pending[out[i].ID]
	}
	return out
}

// ListReceptions returns an order's receptions newest first, allocations
// nested in line order.
func (s *receptionService) ListReceptions(ctx context.Context, orderID int) ([]Reception, error) {
	var exists bool
	if err := s.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)",
		orderID,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check order %d: %w", orderID, err)
	}
	if !exists {
		return nil, &NotFoundError{Kind: "order", ID: orderID}
	}

	rows, err := s.pool.Query(ctx, `
		SELECT r.id, r.order_id, r.supplier_id, r.supplier_name, sp.name,
		       r.document_ref, r.received_at, r.notes, r.recorded_by, r.created_at
		FROM receptions r
		LEFT JOIN suppliers sp ON sp.id = r.supplier_id
		WHERE r.order_id = $1
		ORDER BY r.received_at DESC, r.id DESC`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("list receptions for order %d: %w", orderID, err)
	}
	defer rows.Close()

	var receptions []Reception
	var ids []int
	for rows.Next() {
		var r Reception
		if err := rows.Scan(
			&r.ID, &r.OrderID, &r.SupplierID, &r.SupplierName, &r.CatalogName,
			&r.DocumentRef, &r.ReceivedAt, &r.Notes, &r.RecordedBy, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan reception: %w", err)
		}
		receptions = append(receptions, r)
		ids = append(ids, r.ID)
	}
	rows.Close()

	if len(ids) == 0 {
		return receptions, nil
	}

	allocs, err := s.fetchAllocations(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range receptions {
		receptions[i].Allocations = allocs[receptions[i].ID]
	}
	return receptions, nil
}

// GetPendingSummary returns both pending views for an order.
func (s *receptionService) GetPendingSummary(ctx context.Context, orderID int) (*PendingSummary, error) {
	var status OrderStatus
	if err := s.pool.QueryRow(ctx,
		"SELECT status FROM orders WHERE id = $1",
		orderID,
	).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Kind: "order", ID: orderID}
		}
		return nil, fmt.Errorf("fetch order %d: %w", orderID, err)
	}

	lines, err := fetchOrderLines(ctx, s.pool, orderID)
	if err != nil {
		return nil, err
	}

	flat, grouped := ComputePending(lines)
	return &PendingSummary{
		OrderID:  orderID,
		Status:   status,
		Lines:    flat,
		Articles: grouped,
	}, nil
}

func (s *receptionService) getReception(ctx context.Context, receptionID int) (*Reception, error) {
	r := &Reception{}
	if err := s.pool.QueryRow(ctx, `
		SELECT r.id, r.order_id, r.supplier_id, r.supplier_name, sp.name,
		       r.document_ref, r.received_at, r.notes, r.recorded_by, r.created_at
		FROM receptions r
		LEFT JOIN suppliers sp ON sp.id = r.supplier_id
		WHERE r.id = $1`,
		receptionID,
	).Scan(
		&r.ID, &r.OrderID, &r.SupplierID, &r.SupplierName, &r.CatalogName,
		&r.DocumentRef, &r.ReceivedAt, &r.Notes, &r.RecordedBy, &r.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Kind: "reception", ID: receptionID}
		}
		return nil, fmt.Errorf("get reception %d: %w", receptionID, err)
	}

	allocs, err := s.fetchAllocations(ctx, []int{receptionID})
	if err != nil {
		return nil, err
	}
	r.Allocations = allocs[receptionID]
	return r, nil
}

// fetchAllocations loads allocations for a set of receptions in one query,
// keyed by reception ID.
func (s *receptionService) fetchAllocations(ctx context.Context, receptionIDs []int) (map[int][]ReceptionAllocation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT ra.id, ra.reception_id, ra.order_line_id, ol.article_id, a.name,
		       ol.size_label, ra.quantity, ra.unit_price
		FROM reception_allocations ra
		JOIN order_lines ol ON ol.id = ra.order_line_id
		JOIN articles a ON a.id = ol.article_id
		WHERE ra.reception_id = ANY($1)
		ORDER BY ra.reception_id, ra.order_line_id`,
		receptionIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch reception allocations: %w", err)
	}
	defer rows.Close()

	out := make(map[int][]ReceptionAllocation)
	for rows.Next() {
		var ra ReceptionAllocation
		if err := rows.Scan(
			&ra.ID, &ra.ReceptionID, &ra.OrderLineID, &ra.ArticleID, &ra.ArticleName,
			&ra.Size, &ra.Quantity, &ra.UnitPrice,
		); err != nil {
			return nil, fmt.Errorf("scan reception allocation: %w", err)
		}
		out[ra.ReceptionID] = append(out[ra.ReceptionID], ra)
	}
	return out, nil
}

// fetchOrderLinesLocked is fetchOrderLines with the line rows locked for the
// duration of the transaction.
func fetchOrderLinesLocked(ctx context.Context, tx pgx.Tx, orderID int) ([]OrderLine, error) {
	rows, err := tx.Query(ctx, `
		SELECT ol.id, ol.order_id, ol.article_id, a.name, a.supplier_id, sp.name,
		       ol.size_label, ol.ordered_qty, ol.received_qty, ol.unit_price
		FROM order_lines ol
		JOIN articles a ON a.id = ol.article_id
		LEFT JOIN suppliers sp ON sp.id = a.supplier_id
		WHERE ol.order_id = $1
		ORDER BY ol.id
		FOR UPDATE OF ol`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("lock lines for order %d: %w", orderID, err)
	}
	defer rows.Close()

	var lines []OrderLine
	for rows.Next() {
		var l OrderLine
		if err := rows.Scan(
			&l.ID, &l.OrderID, &l.ArticleID, &l.ArticleName, &l.SupplierID, &l.SupplierName,
			&l.Size, &l.OrderedQty, &l.ReceivedQty, &l.UnitPrice,
		); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, nil
}
