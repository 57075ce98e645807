package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SupplierService is the minimal supplier catalog receptions may reference.
type SupplierService interface {
	CreateSupplier(ctx context.Context, name, contactName, email, phone string) (*Supplier, error)
	GetSupplier(ctx context.Context, supplierID int) (*Supplier, error)
	GetSuppliers(ctx context.Context) ([]Supplier, error)
}

type supplierService struct {
	pool *pgxpool.Pool
}

// NewSupplierService constructs a SupplierService backed by PostgreSQL.
func NewSupplierService(pool *pgxpool.Pool) SupplierService {
	return &supplierService{pool: pool}
}

func (s *supplierService) CreateSupplier(ctx context.Context, name, contactName, email, phone string) (*Supplier, error) {
	if name == "" {
		return nil, &ValidationError{Message: "supplier name is required"}
	}

	toPtr := func(v string) *string {
		if v == "" {
			return nil
		}
		return &v
	}

	var id int
	if err := s.pool.QueryRow(ctx, `
		INSERT INTO suppliers (name, contact_name, email, phone, is_active)
		VALUES ($1, $2, $3, $4, true)
		RETURNING id`,
		name, toPtr(contactName), toPtr(email), toPtr(phone),
	).Scan(&id); err != nil {
		return nil, fmt.Errorf("insert supplier: %w", err)
	}
	return s.GetSupplier(ctx, id)
}

func (s *supplierService) GetSupplier(ctx context.Context, supplierID int) (*Supplier, error) {
	sp := &Supplier{}
	if err := s.pool.QueryRow(ctx, `
		SELECT id, name, contact_name, email, phone, is_active, created_at
		FROM suppliers
		WHERE id = $1`,
		supplierID,
	).Scan(&sp.ID, &sp.Name, &sp.ContactName, &sp.Email, &sp.Phone, &sp.IsActive, &sp.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Kind: "supplier", ID: supplierID}
		}
		return nil, fmt.Errorf("get supplier %d: %w", supplierID, err)
	}
	return sp, nil
}

func (s *supplierService) GetSuppliers(ctx context.Context) ([]Supplier, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, contact_name, email, phone, is_active, created_at
		FROM suppliers
		ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []Supplier
	for rows.Next() {
		var sp Supplier
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.ContactName, &sp.Email, &sp.Phone, &sp.IsActive, &sp.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		suppliers = append(suppliers, sp)
	}
	return suppliers, nil
}
