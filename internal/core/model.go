package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusGenerated         OrderStatus = "GENERATED"
	StatusSent              OrderStatus = "SENT"
	StatusPartiallyReceived OrderStatus = "PARTIALLY_RECEIVED"
	StatusReceived          OrderStatus = "RECEIVED"
)

// Receivable reports whether shipments may be registered against an order in
// this status.
func (s OrderStatus) Receivable() bool {
	return s == StatusSent || s == StatusPartiallyReceived
}

// Order is a purchase batch generated for a dotation cycle. Orders are
// created by the external generation process; once any reception exists they
// can no longer be deleted and only reception events mutate them.
type Order struct {
	ID         int             `json:"id"`
	CycleRef   string          `json:"cycle_ref"`
	Status     OrderStatus     `json:"status"`
	OrderDate  string          `json:"order_date"` // YYYY-MM-DD
	TotalValue decimal.Decimal `json:"total_value"`
	Notes      *string         `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	Lines      []OrderLine     `json:"lines,omitempty"`
}

// OrderLine is one (article, size) combination within an order. Size is the
// empty string for sizeless articles. OrderedQty never changes after
// creation; ReceivedQty only grows, and never past OrderedQty.
type OrderLine struct {
	ID           int              `json:"id"`
	OrderID      int              `json:"order_id"`
	ArticleID    int              `json:"article_id"`
	ArticleName  string           `json:"article_name"`
	SupplierID   *int             `json:"supplier_id,omitempty"`   // article's catalog supplier
	SupplierName *string          `json:"supplier_name,omitempty"` // joined for display
	Size         string           `json:"size"`
	OrderedQty   int              `json:"ordered_qty"`
	ReceivedQty  int              `json:"received_qty"`
	UnitPrice    *decimal.Decimal `json:"unit_price,omitempty"`
}

// Pending returns the outstanding quantity on this line.
func (l OrderLine) Pending() int {
	return l.OrderedQty - l.ReceivedQty
}

// Subtotal returns ordered quantity times unit price. A line with no price
// contributes zero rather than erroring.
func (l OrderLine) Subtotal() decimal.Decimal {
	if l.UnitPrice == nil {
		return decimal.Zero
	}
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.OrderedQty)))
}

// OrderLineInput holds the fields needed to create one order line at intake.
type OrderLineInput struct {
	ArticleID  int
	Size       string // empty for sizeless articles
	OrderedQty int
	UnitPrice  *decimal.Decimal
}

// Reception is one recorded shipment against an order. Receptions are
// immutable once created: there are no edit or delete operations.
type Reception struct {
	ID           int                   `json:"id"`
	OrderID      int                   `json:"order_id"`
	SupplierID   *int                  `json:"supplier_id,omitempty"`
	SupplierName *string               `json:"supplier_name,omitempty"` // free text as entered
	CatalogName  *string               `json:"catalog_name,omitempty"`  // from the supplier catalog, if linked
	DocumentRef  *string               `json:"document_ref,omitempty"`
	ReceivedAt   time.Time             `json:"received_at"`
	Notes        *string               `json:"notes,omitempty"`
	RecordedBy   string                `json:"recorded_by"`
	CreatedAt    time.Time             `json:"created_at"`
	Allocations  []ReceptionAllocation `json:"allocations"`
}

// ReceptionAllocation is the portion of a reception applied to one order line.
type ReceptionAllocation struct {
	ID          int              `json:"id"`
	ReceptionID int              `json:"reception_id"`
	OrderLineID int              `json:"order_line_id"`
	ArticleID   int              `json:"article_id"`
	ArticleName string           `json:"article_name"`
	Size        string           `json:"size"`
	Quantity    int              `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
}

// AllocationMode selects how a reception item targets quantities: "line"
// names one (article, size) line directly, "article" names an article and
// lets the distributor spread the quantity across its size lines.
type AllocationMode string

const (
	ModeLine    AllocationMode = "line"
	ModeArticle AllocationMode = "article"
)

// ReceptionItemInput is one requested allocation within a reception.
type ReceptionItemInput struct {
	Mode     AllocationMode
	TargetID int // order line ID for ModeLine, article ID for ModeArticle
	Quantity int
}

// ReceptionInput holds everything needed to register one reception.
type ReceptionInput struct {
	SupplierID   *int
	SupplierName string
	DocumentRef  string
	ReceivedAt   time.Time
	Notes        string
	RecordedBy   string
	Items        []ReceptionItemInput
}

// LinePending is one row of the detailed (size-level) pending view.
type LinePending struct {
	LineID      int    `json:"line_id"`
	ArticleID   int    `json:"article_id"`
	ArticleName string `json:"article_name"`
	Size        string `json:"size"`
	Ordered     int    `json:"ordered"`
	Received    int    `json:"received"`
	Pending     int    `json:"pending"`
}

// SizePending is one size row inside an article's grouped pending view.
type SizePending struct {
	LineID   int    `json:"line_id"`
	Size     string `json:"size"`
	Ordered  int    `json:"ordered"`
	Received int    `json:"received"`
	Pending  int    `json:"pending"`
}

// ArticlePending aggregates an article's lines within one order. It is
// recomputed on every read and never persisted.
type ArticlePending struct {
	ArticleID     int           `json:"article_id"`
	ArticleName   string        `json:"article_name"`
	SupplierID    *int          `json:"supplier_id,omitempty"`
	SupplierName  *string       `json:"supplier_name,omitempty"`
	TotalOrdered  int           `json:"total_ordered"`
	TotalReceived int           `json:"total_received"`
	TotalPending  int           `json:"total_pending"`
	Sizes         []SizePending `json:"sizes"`
}

// PendingSummary is the two interchangeable views of an order's outstanding
// quantities: the flat size-level list and the article-level aggregation.
type PendingSummary struct {
	OrderID  int              `json:"order_id"`
	Status   OrderStatus      `json:"status"`
	Lines    []LinePending    `json:"lines"`
	Articles []ArticlePending `json:"articles"`
}

// Supplier is a catalog entry receptions may reference. Free-text supplier
// names on receptions remain allowed for one-off deliveries.
type Supplier struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	ContactName *string   `json:"contact_name,omitempty"`
	Email       *string   `json:"email,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// StockLevel is the current on-hand quantity for one (article, size).
type StockLevel struct {
	ArticleID   int       `json:"article_id"`
	ArticleName string    `json:"article_name"`
	Size        string    `json:"size"`
	Quantity    int       `json:"quantity"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AuditEntry is one row of the append-only movement history.
type AuditEntry struct {
	ID        int       `json:"id"`
	TableName string    `json:"table_name"`
	RecordID  int       `json:"record_id"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

// ReceptionNoteItem is one article/size quantity extracted from a free-text
// delivery note.
type ReceptionNoteItem struct {
	ArticleName string `json:"article_name" jsonschema_description:"Article name, matching the pending list provided as closely as possible"`
	Size        string `json:"size" jsonschema_description:"Size label if the note specifies one; empty string to let the system distribute across sizes"`
	Quantity    int    `json:"quantity" jsonschema_description:"Units delivered for this article/size, as a positive integer"`
}

// ReceptionNote is the assistant's structured reading of a free-text delivery
// note. It is a proposal only: nothing is written until the user reviews it
// and submits an ordinary reception request.
type ReceptionNote struct {
	SupplierName  string              `json:"supplier_name" jsonschema_description:"Supplier name exactly as written in the note, empty if absent"`
	DocumentRef   string              `json:"document_ref" jsonschema_description:"Delivery document or remission number, empty if absent"`
	ReceptionDate string              `json:"reception_date" jsonschema_description:"Delivery date in YYYY-MM-DD format. Use today's date if the note does not state one."`
	Notes         string              `json:"notes" jsonschema_description:"Remarks worth keeping with the reception record, empty if none"`
	Confidence    float64             `json:"confidence" jsonschema_description:"Confidence score between 0.0 and 1.0"`
	Reasoning     string              `json:"reasoning" jsonschema_description:"Short explanation of how the note was interpreted"`
	Items         []ReceptionNoteItem `json:"items" jsonschema_description:"One entry per article/size quantity mentioned in the note"`
}
