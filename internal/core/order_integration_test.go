package core_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"dotation-service/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// Clean and seed test DB
	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE audit_log, stock_levels, reception_allocations, receptions,
		               order_lines, orders, articles, suppliers CASCADE;

		INSERT INTO suppliers (id, name, is_active) VALUES
		(1, 'Textiles Norte', true),
		(2, 'Calzado Andino', true);

		INSERT INTO articles (id, name, category, supplier_id, requires_size) VALUES
		(7,  'Jacket', 'uniform',   1, true),
		(9,  'Boots',  'footwear',  2, true),
		(11, 'Helmet', 'equipment', NULL, false);

		SELECT setval('suppliers_id_seq', 10);
		SELECT setval('articles_id_seq', 20);
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	return pool
}

func newOrderService(pool *pgxpool.Pool) core.OrderService {
	return core.NewOrderService(pool, core.NewAuditService(pool))
}

func price(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func TestOrder_CreateAndSend(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := newOrderService(pool)
	ctx := context.Background()
	orderDate := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	lines := []core.OrderLineInput{
		{ArticleID: 7, Size: "S", OrderedQty: 3, UnitPrice: price(40)},
		{ArticleID: 7, Size: "M", OrderedQty: 5, UnitPrice: price(40)},
		{ArticleID: 11, OrderedQty: 2},
	}

	order, err := svc.CreateOrder(ctx, "2026-S2", orderDate, lines, "autumn cycle")
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	if order.Status != core.StatusGenerated {
		t.Errorf("status = %s, want GENERATED", order.Status)
	}
	if len(order.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(order.Lines))
	}
	// 3×40 + 5×40 = 320; unpriced helmet contributes nothing.
	if !order.TotalValue.Equal(decimal.NewFromInt(320)) {
		t.Errorf("total value = %s, want 320", order.TotalValue)
	}
	if order.Lines[0].ReceivedQty != 0 || order.Lines[0].Pending() != 3 {
		t.Errorf("line 0 = %+v, want received 0 pending 3", order.Lines[0])
	}
	if order.Lines[0].SupplierName == nil || *order.Lines[0].SupplierName != "Textiles Norte" {
		t.Errorf("line 0 supplier not joined: %+v", order.Lines[0])
	}

	if err := svc.SendOrder(ctx, order.ID, "tester"); err != nil {
		t.Fatalf("SendOrder: %v", err)
	}
	sent, err := svc.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if sent.Status != core.StatusSent {
		t.Errorf("status = %s, want SENT", sent.Status)
	}

	// Sending again is a no-op.
	if err := svc.SendOrder(ctx, order.ID, "tester"); err != nil {
		t.Errorf("second SendOrder: %v", err)
	}
}

func TestOrder_CreateValidation(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := newOrderService(pool)
	ctx := context.Background()
	orderDate := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	if _, err := svc.CreateOrder(ctx, "2026-S2", orderDate, nil, ""); err == nil {
		t.Error("expected error for empty line set")
	}

	var verr *core.ValidationError
	_, err := svc.CreateOrder(ctx, "2026-S2", orderDate, []core.OrderLineInput{
		{ArticleID: 7, Size: "S", OrderedQty: 0},
	}, "")
	if !errors.As(err, &verr) {
		t.Errorf("zero quantity error = %v, want ValidationError", err)
	}

	var nferr *core.NotFoundError
	_, err = svc.CreateOrder(ctx, "2026-S2", orderDate, []core.OrderLineInput{
		{ArticleID: 999, Size: "S", OrderedQty: 1},
	}, "")
	if !errors.As(err, &nferr) {
		t.Errorf("unknown article error = %v, want NotFoundError", err)
	}
}

func TestOrder_ListByStatus(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := newOrderService(pool)
	ctx := context.Background()
	orderDate := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	first, err := svc.CreateOrder(ctx, "2026-S1", orderDate, []core.OrderLineInput{{ArticleID: 7, Size: "M", OrderedQty: 2}}, "")
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if _, err := svc.CreateOrder(ctx, "2026-S2", orderDate, []core.OrderLineInput{{ArticleID: 9, Size: "42", OrderedQty: 1}}, ""); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if err := svc.SendOrder(ctx, first.ID, "tester"); err != nil {
		t.Fatalf("SendOrder: %v", err)
	}

	all, err := svc.GetOrders(ctx, "")
	if err != nil {
		t.Fatalf("GetOrders: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 orders, got %d", len(all))
	}

	sent, err := svc.GetOrders(ctx, string(core.StatusSent))
	if err != nil {
		t.Fatalf("GetOrders(SENT): %v", err)
	}
	if len(sent) != 1 || sent[0].ID != first.ID {
		t.Errorf("SENT filter returned %+v, want only order %d", sent, first.ID)
	}
}

func TestOrder_DeleteGuards(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	audit := core.NewAuditService(pool)
	svc := core.NewOrderService(pool, audit)
	recSvc := core.NewReceptionService(pool, core.NewStockService(pool), audit)
	ctx := context.Background()
	orderDate := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	order, err := svc.CreateOrder(ctx, "2026-S2", orderDate, []core.OrderLineInput{{ArticleID: 7, Size: "M", OrderedQty: 5}}, "")
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	// Deletable while GENERATED with no receptions.
	if err := svc.DeleteOrder(ctx, order.ID, "tester"); err != nil {
		t.Fatalf("DeleteOrder: %v", err)
	}
	var nferr *core.NotFoundError
	if _, err := svc.GetOrder(ctx, order.ID); !errors.As(err, &nferr) {
		t.Errorf("GetOrder after delete = %v, want NotFoundError", err)
	}

	// An order with a reception cannot be deleted.
	order, err = svc.CreateOrder(ctx, "2026-S3", orderDate, []core.OrderLineInput{{ArticleID: 7, Size: "M", OrderedQty: 5}}, "")
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if err := svc.SendOrder(ctx, order.ID, "tester"); err != nil {
		t.Fatalf("SendOrder: %v", err)
	}
	if _, err := recSvc.RegisterReception(ctx, order.ID, core.ReceptionInput{
		ReceivedAt: time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
		Items:      []core.ReceptionItemInput{{Mode: core.ModeLine, TargetID: order.Lines[0].ID, Quantity: 2}},
	}); err != nil {
		t.Fatalf("RegisterReception: %v", err)
	}

	var cerr *core.ConflictError
	if err := svc.DeleteOrder(ctx, order.ID, "tester"); !errors.As(err, &cerr) {
		t.Errorf("DeleteOrder with receptions = %v, want ConflictError", err)
	}
}
