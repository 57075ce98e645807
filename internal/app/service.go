package app

import "context"

// ApplicationService is the single interface UI adapters call. It decouples
// presentation from business logic. Implementations must contain no display
// logic of any kind.
type ApplicationService interface {
	// ListOrders returns orders, optionally filtered by status.
	ListOrders(ctx context.Context, status string) (*OrderListResult, error)

	// GetOrder returns a single order with its lines.
	GetOrder(ctx context.Context, orderID int) (*OrderResult, error)

	// CreateOrder registers a generated order from the dotation cycle process.
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResult, error)

	// SendOrder transitions a GENERATED order to SENT.
	SendOrder(ctx context.Context, orderID int, actor string) (*OrderResult, error)

	// DeleteOrder removes an order that has no reception history.
	DeleteOrder(ctx context.Context, orderID int, actor string) error

	// GetPendingSummary returns the flat and grouped pending views of an order.
	GetPendingSummary(ctx context.Context, orderID int) (*PendingResult, error)

	// RegisterReception records a shipment against an order, all-or-nothing.
	RegisterReception(ctx context.Context, orderID int, req RegisterReceptionRequest) (*ReceptionResult, error)

	// ListReceptions returns an order's receptions, newest first.
	ListReceptions(ctx context.Context, orderID int) (*ReceptionListResult, error)

	// GetOrderHistory returns the audit trail of an order.
	GetOrderHistory(ctx context.Context, orderID int) (*HistoryResult, error)

	// GetStockLevels returns current per-(article,size) stock.
	GetStockLevels(ctx context.Context) (*StockResult, error)

	// ListSuppliers returns the supplier catalog.
	ListSuppliers(ctx context.Context) (*SupplierListResult, error)

	// GetSupplier returns one supplier by ID.
	GetSupplier(ctx context.Context, supplierID int) (*SupplierResult, error)

	// CreateSupplier adds a supplier to the catalog.
	CreateSupplier(ctx context.Context, req CreateSupplierRequest) (*SupplierResult, error)

	// InterpretDeliveryNote sends a free-text delivery note to the AI agent and
	// returns a reception proposal resolved against the order's pending lines.
	// Nothing is written; committing goes through RegisterReception.
	InterpretDeliveryNote(ctx context.Context, orderID int, noteText string) (*NoteResult, error)
}
