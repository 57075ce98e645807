package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StockService tracks on-hand quantities per (article, size). Receipts are
// applied inside the reception transaction so stock can never drift from the
// reception ledger.
type StockService interface {
	ApplyReceiptTx(ctx context.Context, tx pgx.Tx, articleID int, size string, qty int) error
	GetStockLevels(ctx context.Context) ([]StockLevel, error)
}

type stockService struct {
	pool *pgxpool.Pool
}

// NewStockService constructs a StockService backed by PostgreSQL.
func NewStockService(pool *pgxpool.Pool) StockService {
	return &stockService{pool: pool}
}

func (s *stockService) ApplyReceiptTx(ctx context.Context, tx pgx.Tx, articleID int, size string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("stock receipt for article %d: quantity must be positive, got %d", articleID, qty)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO stock_levels (article_id, size_label, quantity, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (article_id, size_label)
		DO UPDATE SET quantity = stock_levels.quantity + EXCLUDED.quantity, updated_at = NOW()`,
		articleID, size, qty,
	); err != nil {
		return fmt.Errorf("apply stock receipt for article %d size %q: %w", articleID, size, err)
	}
	return nil
}

// GetStockLevels returns current stock joined with article names, sorted for
// display.
func (s *stockService) GetStockLevels(ctx context.Context) ([]StockLevel, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT sl.article_id, a.name, sl.size_label, sl.quantity, sl.updated_at
		FROM stock_levels sl
		JOIN articles a ON a.id = sl.article_id
		ORDER BY a.name, sl.size_label`,
	)
	if err != nil {
		return nil, fmt.Errorf("list stock levels: %w", err)
	}
	defer rows.Close()

	var levels []StockLevel
	for rows.Next() {
		var sl StockLevel
		if err := rows.Scan(&sl.ArticleID, &sl.ArticleName, &sl.Size, &sl.Quantity, &sl.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		levels = append(levels, sl)
	}
	return levels, nil
}
