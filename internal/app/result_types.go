package app

import "dotation-service/internal/core"

// OrderResult is returned by order lifecycle operations.
type OrderResult struct {
	Order *core.Order
}

// OrderListResult is returned by ListOrders.
type OrderListResult struct {
	Orders []core.Order
}

// PendingResult is returned by GetPendingSummary.
type PendingResult struct {
	Summary *core.PendingSummary
}

// ReceptionResult is returned by RegisterReception.
type ReceptionResult struct {
	Reception   *core.Reception
	OrderStatus core.OrderStatus
}

// ReceptionListResult is returned by ListReceptions.
type ReceptionListResult struct {
	Receptions []core.Reception
}

// HistoryResult is returned by GetOrderHistory.
type HistoryResult struct {
	Entries []core.AuditEntry
}

// StockResult is returned by GetStockLevels.
type StockResult struct {
	Levels []core.StockLevel
}

// SupplierResult is returned by supplier operations.
type SupplierResult struct {
	Supplier *core.Supplier
}

// SupplierListResult is returned by ListSuppliers.
type SupplierListResult struct {
	Suppliers []core.Supplier
}

// NoteResult is returned by InterpretDeliveryNote. Items holds the note's
// entries resolved to allocation targets; Unmatched lists note items that
// could not be matched to any pending line and need manual handling.
type NoteResult struct {
	Note      *core.ReceptionNote
	Items     []core.ReceptionItemInput
	Unmatched []core.ReceptionNoteItem
}
