package web

import (
	"net/http"

	"dotation-service/internal/app"

	"github.com/shopspring/decimal"
)

type createOrderRequest struct {
	CycleRef  string             `json:"cycle_ref"`
	OrderDate string             `json:"order_date"`
	Notes     string             `json:"notes"`
	Lines     []orderLineRequest `json:"lines"`
}

type orderLineRequest struct {
	ArticleID  int    `json:"article_id"`
	Size       string `json:"size"`
	OrderedQty int    `json:"ordered_qty"`
	UnitPrice  string `json:"unit_price"` // decimal string, empty for unpriced lines
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListOrders(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Order)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	lines := make([]app.OrderLineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		input := app.OrderLineInput{
			ArticleID:  l.ArticleID,
			Size:       l.Size,
			OrderedQty: l.OrderedQty,
		}
		if l.UnitPrice != "" {
			price, err := decimal.NewFromString(l.UnitPrice)
			if err != nil {
				writeError(w, r, "invalid unit_price: "+l.UnitPrice, "BAD_REQUEST", http.StatusBadRequest)
				return
			}
			input.UnitPrice = &price
		}
		lines = append(lines, input)
	}

	result, err := h.svc.CreateOrder(r.Context(), app.CreateOrderRequest{
		CycleRef:  req.CycleRef,
		OrderDate: req.OrderDate,
		Notes:     req.Notes,
		Lines:     lines,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result.Order)
}

func (h *Handler) sendOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Actor string `json:"actor"`
	}
	// Body is optional for this endpoint.
	_ = decodeBodyIfPresent(r, &req)

	result, err := h.svc.SendOrder(r.Context(), id, req.Actor)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Order)
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteOrder(r.Context(), id, r.URL.Query().Get("actor")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	type response struct {
		Success bool `json:"success"`
	}
	writeJSON(w, response{Success: true})
}

func (h *Handler) getPendingSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GetPendingSummary(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Summary)
}

func (h *Handler) getOrderHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GetOrderHistory(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Entries)
}
