// seed is a one-shot tool to load a starter catalog into a fresh database:
// a few suppliers and the standard dotation articles. Safe to re-run; rows
// are upserted by name.
//
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"log"

	"dotation-service/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	log.Println("Seeding suppliers...")
	if _, err := tx.Exec(ctx, `
		INSERT INTO suppliers (name, contact_name, email, is_active)
		VALUES
		('Textiles Norte',  'Marcela Ruiz',  'ventas@textilesnorte.example',  true),
		('Calzado Andino',  'Jorge Paredes', 'pedidos@calzadoandino.example', true),
		('Seguridad Total', NULL,            NULL,                            true)
		ON CONFLICT DO NOTHING;
	`); err != nil {
		log.Fatalf("Failed to seed suppliers: %v", err)
	}

	log.Println("Seeding articles...")
	if _, err := tx.Exec(ctx, `
		INSERT INTO articles (name, category, supplier_id, requires_size)
		VALUES
		('Jacket',       'uniform',   (SELECT id FROM suppliers WHERE name = 'Textiles Norte'),  true),
		('Trousers',     'uniform',   (SELECT id FROM suppliers WHERE name = 'Textiles Norte'),  true),
		('Polo Shirt',   'uniform',   (SELECT id FROM suppliers WHERE name = 'Textiles Norte'),  true),
		('Safety Boots', 'footwear',  (SELECT id FROM suppliers WHERE name = 'Calzado Andino'),  true),
		('Helmet',       'equipment', (SELECT id FROM suppliers WHERE name = 'Seguridad Total'), false),
		('Gloves',       'equipment', (SELECT id FROM suppliers WHERE name = 'Seguridad Total'), true)
		ON CONFLICT DO NOTHING;
	`); err != nil {
		log.Fatalf("Failed to seed articles: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit seed: %v", err)
	}

	log.Println("Seed data restored.")
}
