package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// OrderService manages order intake and lifecycle. Orders arrive from the
// dotation generation process in GENERATED state; receptions drive all later
// transitions.
type OrderService interface {
	CreateOrder(ctx context.Context, cycleRef string, orderDate time.Time, lines []OrderLineInput, notes string) (*Order, error)
	SendOrder(ctx context.Context, orderID int, actor string) error
	GetOrder(ctx context.Context, orderID int) (*Order, error)
	GetOrders(ctx context.Context, status string) ([]Order, error)
	DeleteOrder(ctx context.Context, orderID int, actor string) error
}

type orderService struct {
	pool  *pgxpool.Pool
	audit AuditService
}

// NewOrderService constructs an OrderService backed by PostgreSQL.
func NewOrderService(pool *pgxpool.Pool, audit AuditService) OrderService {
	return &orderService{pool: pool, audit: audit}
}

// CreateOrder creates a new GENERATED order with one line per (article, size).
func (s *orderService) CreateOrder(ctx context.Context, cycleRef string, orderDate time.Time, lines []OrderLineInput, notes string) (*Order, error) {
	if cycleRef == "" {
		return nil, &ValidationError{Message: "cycle reference is required"}
	}
	if len(lines) == 0 {
		return nil, &ValidationError{Message: "order must have at least one line"}
	}
	for i, l := range lines {
		if l.OrderedQty <= 0 {
			return nil, &ValidationError{
				Message:   fmt.Sprintf("line %d: ordered quantity must be positive, got %d", i+1, l.OrderedQty),
				ArticleID: l.ArticleID,
			}
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Resolve article names and compute the order total.
	total := decimal.Zero
	for i, l := range lines {
		var exists bool
		if err := tx.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM articles WHERE id = $1)",
			l.ArticleID,
		).Scan(&exists); err != nil {
			return nil, fmt.Errorf("line %d: validate article: %w", i+1, err)
		}
		if !exists {
			return nil, &NotFoundError{Kind: "article", ID: l.ArticleID}
		}
		if l.UnitPrice != nil {
			total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.OrderedQty))))
		}
	}

	var toNotes *string
	if notes != "" {
		toNotes = &notes
	}

	var orderID int
	if err := tx.QueryRow(ctx, `
		INSERT INTO orders (cycle_ref, status, order_date, total_value, notes)
		VALUES ($1, 'GENERATED', $2, $3, $4)
		RETURNING id`,
		cycleRef, orderDate.Format("2006-01-02"), total, toNotes,
	).Scan(&orderID); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	for i, l := range lines {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_lines (order_id, article_id, size_label, ordered_qty, received_qty, unit_price)
			VALUES ($1, $2, $3, $4, 0, $5)`,
			orderID, l.ArticleID, l.Size, l.OrderedQty, l.UnitPrice,
		); err != nil {
			return nil, fmt.Errorf("insert order line %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit order: %w", err)
	}

	return s.GetOrder(ctx, orderID)
}

// SendOrder transitions a GENERATED order to SENT. Sending an already-SENT
// order is a no-op; any later status is a conflict.
func (s *orderService) SendOrder(ctx context.Context, orderID int, actor string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var status OrderStatus
	if err := tx.QueryRow(ctx,
		"SELECT status FROM orders WHERE id = $1 FOR UPDATE",
		orderID,
	).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &NotFoundError{Kind: "order", ID: orderID}
		}
		return fmt.Errorf("fetch order %d: %w", orderID, err)
	}

	if status == StatusSent {
		return nil
	}
	if status != StatusGenerated {
		return &ConflictError{Message: fmt.Sprintf("order %d cannot be sent: status is %s", orderID, status)}
	}

	if _, err := tx.Exec(ctx,
		"UPDATE orders SET status = 'SENT' WHERE id = $1",
		orderID,
	); err != nil {
		return fmt.Errorf("send order %d: %w", orderID, err)
	}

	if err := s.audit.RecordTx(ctx, tx, "orders", orderID, "SEND", actor, "order marked as sent"); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit order send: %w", err)
	}
	return nil
}

// DeleteOrder removes an order that has not progressed past SENT and has no
// receptions. Anything else is a conflict: reception history is immutable and
// its order must stay with it.
func (s *orderService) DeleteOrder(ctx context.Context, orderID int, actor string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var status OrderStatus
	if err := tx.QueryRow(ctx,
		"SELECT status FROM orders WHERE id = $1 FOR UPDATE",
		orderID,
	).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &NotFoundError{Kind: "order", ID: orderID}
		}
		return fmt.Errorf("fetch order %d: %w", orderID, err)
	}

	if status != StatusGenerated && status != StatusSent {
		return &ConflictError{Message: fmt.Sprintf("order %d cannot be deleted: status is %s", orderID, status)}
	}

	var receptionCount int
	if err := tx.QueryRow(ctx,
		"SELECT COUNT(*) FROM receptions WHERE order_id = $1",
		orderID,
	).Scan(&receptionCount); err != nil {
		return fmt.Errorf("count receptions for order %d: %w", orderID, err)
	}
	if receptionCount > 0 {
		return &ConflictError{Message: fmt.Sprintf("order %d cannot be deleted: %d reception(s) registered", orderID, receptionCount)}
	}

	if _, err := tx.Exec(ctx, "DELETE FROM order_lines WHERE order_id = $1", orderID); err != nil {
		return fmt.Errorf("delete lines for order %d: %w", orderID, err)
	}
	if _, err := tx.Exec(ctx, "DELETE FROM orders WHERE id = $1", orderID); err != nil {
		return fmt.Errorf("delete order %d: %w", orderID, err)
	}

	if err := s.audit.RecordTx(ctx, tx, "orders", orderID, "DELETE", actor, fmt.Sprintf("order deleted while %s", status)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit order deletion: %w", err)
	}
	return nil
}

// GetOrder returns an order by ID, including all lines.
func (s *orderService) GetOrder(ctx context.Context, orderID int) (*Order, error) {
	o := &Order{}
	if err := s.pool.QueryRow(ctx, `
		SELECT id, cycle_ref, status, order_date::text, total_value, notes, created_at
		FROM orders
		WHERE id = $1`,
		orderID,
	).Scan(&o.ID, &o.CycleRef, &o.Status, &o.OrderDate, &o.TotalValue, &o.Notes, &o.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Kind: "order", ID: orderID}
		}
		return nil, fmt.Errorf("get order %d: %w", orderID, err)
	}

	lines, err := fetchOrderLines(ctx, s.pool, orderID)
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	return o, nil
}

// GetOrders returns all orders, optionally filtered by status, newest first.
func (s *orderService) GetOrders(ctx context.Context, status string) ([]Order, error) {
	query := `
		SELECT id, cycle_ref, status, order_date::text, total_value, notes, created_at
		FROM orders`
	var args []any
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.CycleRef, &o.Status, &o.OrderDate, &o.TotalValue, &o.Notes, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, so line fetches
// can run inside or outside a transaction.
type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// fetchOrderLines returns an order's lines in creation order, with article
// and supplier names joined for display.
func fetchOrderLines(ctx context.Context, q pgxQuerier, orderID int) ([]OrderLine, error) {
	rows, err := q.Query(ctx, `
		SELECT ol.id, ol.order_id, ol.article_id, a.name, a.supplier_id, sp.name,
		       ol.size_label, ol.ordered_qty, ol.received_qty, ol.unit_price
		FROM order_lines ol
		JOIN articles a ON a.id = ol.article_id
		LEFT JOIN suppliers sp ON sp.id = a.supplier_id
		WHERE ol.order_id = $1
		ORDER BY ol.id`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch lines for order %d: %w", orderID, err)
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
