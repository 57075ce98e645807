package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dotation-service/internal/ai"
	"dotation-service/internal/core"
)

type appService struct {
	orderService     core.OrderService
	receptionService core.ReceptionService
	stockService     core.StockService
	supplierService  core.SupplierService
	auditService     core.AuditService
	agent            ai.AgentService
}

// NewAppService constructs an appService that satisfies ApplicationService.
// agent may be nil; InterpretDeliveryNote then reports the assistant as
// unavailable instead of failing at startup.
func NewAppService(
	orderService core.OrderService,
	receptionService core.ReceptionService,
	stockService core.StockService,
	supplierService core.SupplierService,
	auditService core.AuditService,
	agent ai.AgentService,
) ApplicationService {
	return &appService{
		orderService:     orderService,
		receptionService: receptionService,
		stockService:     stockService,
		supplierService:  supplierService,
		auditService:     auditService,
		agent:            agent,
	}
}

func (s *appService) ListOrders(ctx context.Context, status string) (*OrderListResult, error) {
	orders, err := s.orderService.GetOrders(ctx, status)
	if err != nil {
		return nil, err
	}
	return &OrderListResult{Orders: orders}, nil
}

func (s *appService) GetOrder(ctx context.Context, orderID int) (*OrderResult, error) {
	order, err := s.orderService.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: order}, nil
}

func (s *appService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResult, error) {
	orderDate, err := time.Parse("2006-01-02", req.OrderDate)
	if err != nil {
		return nil, &core.ValidationError{Message: fmt.Sprintf("invalid order date %q: expected YYYY-MM-DD", req.OrderDate)}
	}

	lines := make([]core.OrderLineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, core.OrderLineInput{
			ArticleID:  l.ArticleID,
			Size:       strings.TrimSpace(l.Size),
			OrderedQty: l.OrderedQty,
			UnitPrice:  l.UnitPrice,
		})
	}

	order, err := s.orderService.CreateOrder(ctx, req.CycleRef, orderDate, lines, req.Notes)
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: order}, nil
}

func (s *appService) SendOrder(ctx context.Context, orderID int, actor string) (*OrderResult, error) {
	if err := s.orderService.SendOrder(ctx, orderID, actor); err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, orderID)
}

func (s *appService) DeleteOrder(ctx context.Context, orderID int, actor string) error {
	return s.orderService.DeleteOrder(ctx, orderID, actor)
}

func (s *appService) GetPendingSummary(ctx context.Context, orderID int) (*PendingResult, error) {
	summary, err := s.receptionService.GetPendingSummary(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &PendingResult{Summary: summary}, nil
}

func (s *appService) RegisterReception(ctx context.Context, orderID int, req RegisterReceptionRequest) (*ReceptionResult, error) {
	var receivedAt time.Time
	if req.ReceptionDate != "" {
		var err error
		receivedAt, err = time.Parse("2006-01-02", req.ReceptionDate)
		if err != nil {
			return nil, &core.ValidationError{Message: fmt.Sprintf("invalid reception date %q: expected YYYY-MM-DD", req.ReceptionDate)}
		}
	}

	items := make([]core.ReceptionItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, core.ReceptionItemInput{
			Mode:     core.AllocationMode(it.Mode),
			TargetID: it.TargetID,
			Quantity: it.Quantity,
		})
	}

	reception, err := s.receptionService.RegisterReception(ctx, orderID, core.ReceptionInput{
		SupplierID:   req.SupplierID,
		SupplierName: req.SupplierName,
		DocumentRef:  req.DocumentRef,
		ReceivedAt:   receivedAt,
		Notes:        req.Notes,
		RecordedBy:   req.RecordedBy,
		Items:        items,
	})
	if err != nil {
		return nil, err
	}

	order, err := s.orderService.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &ReceptionResult{Reception: reception, OrderStatus: order.Status}, nil
}

func (s *appService) ListReceptions(ctx context.Context, orderID int) (*ReceptionListResult, error) {
	receptions, err := s.receptionService.ListReceptions(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &ReceptionListResult{Receptions: receptions}, nil
}

func (s *appService) GetOrderHistory(ctx context.Context, orderID int) (*HistoryResult, error) {
	if _, err := s.orderService.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}
	entries, err := s.auditService.ListForOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &HistoryResult{Entries: entries}, nil
}

func (s *appService) GetStockLevels(ctx context.Context) (*StockResult, error) {
	levels, err := s.stockService.GetStockLevels(ctx)
	if err != nil {
		return nil, err
	}
	return &StockResult{Levels: levels}, nil
}

func (s *appService) ListSuppliers(ctx context.Context) (*SupplierListResult, error) {
	suppliers, err := s.supplierService.GetSuppliers(ctx)
	if err != nil {
		return nil, err
	}
	return &SupplierListResult{Suppliers: suppliers}, nil
}

func (s *appService) GetSupplier(ctx context.Context, supplierID int) (*SupplierResult, error) {
	supplier, err := s.supplierService.GetSupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	return &SupplierResult{Supplier: supplier}, nil
}

func (s *appService) CreateSupplier(ctx context.Context, req CreateSupplierRequest) (*SupplierResult, error) {
	supplier, err := s.supplierService.CreateSupplier(ctx, req.Name, req.ContactName, req.Email, req.Phone)
	if err != nil {
		return nil, err
	}
	return &SupplierResult{Supplier: supplier}, nil
}

// InterpretDeliveryNote interprets a free-text delivery note against an
// order's pending lines and returns a resolved reception proposal.
func (s *appService) InterpretDeliveryNote(ctx context.Context, orderID int, noteText string) (*NoteResult, error) {
	if s.agent == nil {
		return nil, fmt.Errorf("delivery note assistant is not configured (OPENAI_API_KEY missing)")
	}
	if strings.TrimSpace(noteText) == "" {
		return nil, &core.ValidationError{Message: "delivery note text is required"}
	}

	summary, err := s.receptionService.GetPendingSummary(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !summary.Status.Receivable() {
		return nil, &core.ConflictError{Message: fmt.Sprintf("order %d cannot receive shipments: status is %s", orderID, summary.Status)}
	}

	note, err := s.agent.InterpretDeliveryNote(ctx, noteText, formatPendingCatalog(summary))
	if err != nil {
		return nil, err
	}

	items, unmatched := resolveNoteItems(note, summary)
	return &NoteResult{Note: note, Items: items, Unmatched: unmatched}, nil
}

// formatPendingCatalog renders the grouped pending view as the plain-text
// catalog the model matches article names against.
func formatPendingCatalog(summary *core.PendingSummary) string {
	var b strings.Builder
	for _, a := range summary.Articles {
		fmt.Fprintf(&b, "- %s (pending %d", a.ArticleName, a.TotalPending)
		if a.SupplierName != nil {
			fmt.Fprintf(&b, ", supplier %s", *a.SupplierName)
		}
		b.WriteString(")\n")
		for _, sz := range a.Sizes {
			if sz.Size == "" {
				fmt.Fprintf(&b, "    no size: pending %d\n", sz.Pending)
				continue
			}
			fmt.Fprintf(&b, "    size %s: pending %d\n", sz.Size, sz.Pending)
		}
	}
	return b.String()
}

// resolveNoteItems matches interpreted items to allocation targets. An item
// naming a size that matches a pending line becomes a line-mode item; an item
// without a size (or with an unknown size) falls back to article mode so the
// distributor decides. Matching is case-insensitive on names.
func resolveNoteItems(note *core.ReceptionNote, summary *core.PendingSummary) ([]core.ReceptionItemInput, []core.ReceptionNoteItem) {
	var items []core.ReceptionItemInput
	var unmatched []core.ReceptionNoteItem

	for _, it := range note.Items {
		var article *core.ArticlePending
		for i := range summary.Articles {
			if strings.EqualFold(summary.Articles[i].ArticleName, it.ArticleName) {
				article = &summary.Articles[i]
				break
			}
		}
		if article == nil {
			unmatched = append(unmatched, it)
			continue
		}

		if it.Size != "" {
			matched := false
			for _, sz := range article.Sizes {
				if strings.EqualFold(sz.Size, it.Size) {
					items = append(items, core.ReceptionItemInput{
						Mode:     core.ModeLine,
						TargetID: sz.LineID,
						Quantity: it.Quantity,
					})
					matched = true
					break
				}
			}
			if matched {
				continue
			}
		}

		items = append(items, core.ReceptionItemInput{
			Mode:     core.ModeArticle,
			TargetID: article.ArticleID,
			Quantity: it.Quantity,
		})
	}
	return items, unmatched
}
