package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "dotation-service/internal/adapters/web"
	"dotation-service/internal/ai"
	"dotation-service/internal/app"
	"dotation-service/internal/core"
	"dotation-service/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	auditService := core.NewAuditService(pool)
	stockService := core.NewStockService(pool)
	supplierService := core.NewSupplierService(pool)
	orderService := core.NewOrderService(pool, auditService)
	receptionService := core.NewReceptionService(pool, stockService, auditService)

	var agent ai.AgentService
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		agent = ai.NewAgent(apiKey)
	} else {
		log.Println("Warning: OPENAI_API_KEY is not set; delivery note assistant disabled")
	}

	svc := app.NewAppService(orderService, receptionService, stockService, supplierService, auditService, agent)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
