package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditService appends rows to the movement history. Entries ride the
// caller's transaction so the history never disagrees with the data.
type AuditService interface {
	RecordTx(ctx context.Context, tx pgx.Tx, tableName string, recordID int, action, actor, detail string) error
	ListForOrder(ctx context.Context, orderID int) ([]AuditEntry, error)
}

type auditService struct {
	pool *pgxpool.Pool
}

// NewAuditService constructs an AuditService backed by PostgreSQL.
func NewAuditService(pool *pgxpool.Pool) AuditService {
	return &auditService{pool: pool}
}

func (s *auditService) RecordTx(ctx context.Context, tx pgx.Tx, tableName string, recordID int, action, actor, detail string) error {
	if actor == "" {
		actor = "system"
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO audit_log (table_name, record_id, action, actor, detail)
		VALUES ($1, $2, $3, $4, $5)`,
		tableName, recordID, action, actor, detail,
	); err != nil {
		return fmt.Errorf("record audit entry %s/%d: %w", action, recordID, err)
	}
	return nil
}

// ListForOrder returns the order's history, newest first.
func (s *auditService) ListForOrder(ctx context.Context, orderID int) ([]AuditEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, table_name, record_id, action, actor, detail, created_at
		FROM audit_log
		WHERE table_name = 'orders' AND record_id = $1
		ORDER BY created_at DESC, id DESC`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit entries for order %d: %w", orderID, err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.ID, &e.TableName, &e.RecordID, &e.Action, &e.Actor, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
