package app

import "github.com/shopspring/decimal"

// CreateOrderRequest is the input for registering a generated order.
type CreateOrderRequest struct {
	CycleRef  string
	OrderDate string // YYYY-MM-DD
	Notes     string
	Lines     []OrderLineInput
}

// OrderLineInput is a single line within a CreateOrderRequest.
type OrderLineInput struct {
	ArticleID  int
	Size       string // empty for sizeless articles
	OrderedQty int
	UnitPrice  *decimal.Decimal
}

// RegisterReceptionRequest is the input for recording a shipment.
type RegisterReceptionRequest struct {
	SupplierID    *int
	SupplierName  string
	DocumentRef   string
	ReceptionDate string // YYYY-MM-DD
	Notes         string
	RecordedBy    string
	Items         []ReceptionItemInput
}

// ReceptionItemInput is one requested allocation within a reception.
// Mode "line" targets an order line ID; mode "article" targets an article ID
// and lets the distributor spread the quantity across its size lines.
type ReceptionItemInput struct {
	Mode     string
	TargetID int
	Quantity int
}

// CreateSupplierRequest is the input for adding a supplier.
type CreateSupplierRequest struct {
	Name        string
	ContactName string
	Email       string
	Phone       string
}
