package web

import (
	"net/http"

	"dotation-service/internal/app"
)

type registerReceptionRequest struct {
	SupplierID    *int                   `json:"supplier_id"`
	SupplierName  string                 `json:"supplier_name"`
	DocumentRef   string                 `json:"document_ref"`
	ReceptionDate string                 `json:"reception_date"`
	Notes         string                 `json:"notes"`
	RecordedBy    string                 `json:"recorded_by"`
	Items         []receptionItemRequest `json:"items"`
}

type receptionItemRequest struct {
	Mode     string `json:"mode"` // "line" or "article"
	TargetID int    `json:"target_id"`
	Quantity int    `json:"quantity"`
}

func (h *Handler) registerReception(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req registerReceptionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	items := make([]app.ReceptionItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, app.ReceptionItemInput{
			Mode:     it.Mode,
			TargetID: it.TargetID,
			Quantity: it.Quantity,
		})
	}

	result, err := h.svc.RegisterReception(r.Context(), orderID, app.RegisterReceptionRequest{
		SupplierID:    req.SupplierID,
		SupplierName:  req.SupplierName,
		DocumentRef:   req.DocumentRef,
		ReceptionDate: req.ReceptionDate,
		Notes:         req.Notes,
		RecordedBy:    req.RecordedBy,
		Items:         items,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	type response struct {
		Success     bool   `json:"success"`
		ReceptionID int    `json:"reception_id"`
		OrderStatus string `json:"order_status"`
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, response{
		Success:     true,
		ReceptionID: result.Reception.ID,
		OrderStatus: string(result.OrderStatus),
	})
}

func (h *Handler) listReceptions(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.ListReceptions(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Receptions)
}

func (h *Handler) interpretDeliveryNote(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.InterpretDeliveryNote(r.Context(), orderID, req.Text)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}
