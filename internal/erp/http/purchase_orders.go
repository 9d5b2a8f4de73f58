package http

import (
	"net/http"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/internal/erp/service"
	"github.com/OolalaDXB/outrenational/pkg/erpsdk"
	"github.com/OolalaDXB/outrenational/pkg/httpx"
)

// PurchaseOrdersHandler drives the purchase order workflow.
type PurchaseOrdersHandler struct {
	PurchaseOrderService *service.PurchaseOrderService
}

type PurchaseOrderList struct {
	PurchaseOrders []domain.PurchaseOrder `json:"purchase_orders"`
}

// HandleCreate handles POST /v1/purchase-orders
//
//	@Summary	Create a draft purchase order
//	@Tags		Purchasing
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		service.POInput	true	"Purchase order"
//	@Success	201		{object}	domain.PurchaseOrder
//	@Failure	400		{object}	erpsdk.ErrorResponse
//	@Router		/v1/purchase-orders [post].
func (h *PurchaseOrdersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in service.POInput
	if !decode(w, r, &in) {
		return
	}

	po, err := h.PurchaseOrderService.Create(ctx, httpx.TenantID(ctx), httpx.UserID(ctx), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, po)
}

// HandleList handles GET /v1/purchase-orders
//
//	@Summary	List purchase orders
//	@Tags		Purchasing
//	@Security	BearerAuth
//	@Produce	json
//	@Param		status		query		string	false	"draft, sent, confirmed, partially_received, received, closed or cancelled"
//	@Param		supplier_id	query		string	false	"Supplier"
//	@Param		limit		query		int		false	"Page size"
//	@Param		offset		query		int		false	"Offset"
//	@Success	200			{object}	PurchaseOrderList
//	@Router		/v1/purchase-orders [get].
func (h *PurchaseOrdersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := page(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	q := r.URL.Query()
	status := domain.POStatus(q.Get("status"))
	if status != "" && !status.Valid() {
		writeBadRequest(w, "unknown status "+string(status))
		return
	}

	pos, err := h.PurchaseOrderService.List(r.Context(), httpx.TenantID(r.Context()), domain.POFilter{
		Status:     status,
		SupplierID: q.Get("supplier_id"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, PurchaseOrderList{PurchaseOrders: pos})
}

// HandleGet handles GET /v1/purchase-orders/{id}
//
//	@Summary	Get a purchase order
//	@Tags		Purchasing
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Purchase order id"
//	@Success	200	{object}	domain.PurchaseOrder
//	@Failure	404	{object}	erpsdk.ErrorResponse
//	@Router		/v1/purchase-orders/{id} [get].
func (h *PurchaseOrdersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	po, err := h.PurchaseOrderService.Get(r.Context(), httpx.TenantID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, po)
}

// HandleUpdate handles PUT /v1/purchase-orders/{id}
//
//	@Summary		Edit a draft
//	@Description	Only drafts can be edited.
//	@Tags			Purchasing
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Purchase order id"
//	@Param			request	body		service.POInput	true	"Purchase order"
//	@Success		200		{object}	domain.PurchaseOrder
//	@Failure		409		{object}	erpsdk.ErrorResponse	"not a draft"
//	@Router			/v1/purchase-orders/{id} [put].
func (h *PurchaseOrdersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in service.POInput
	if !decode(w, r, &in) {
		return
	}

	po, err := h.PurchaseOrderService.UpdateDraft(r.Context(), httpx.TenantID(r.Context()), r.PathValue("id"), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, po)
}

// HandleTransition handles POST /v1/purchase-orders/{id}/transition
//
//	@Summary		Change status
//	@Description	Allowed: draft to sent or cancelled, sent to confirmed or cancelled, confirmed to cancelled, received to closed.
//	@Tags			Purchasing
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Purchase order id"
//	@Param			request	body		erpsdk.TransitionRequest	true	"Target status"
//	@Success		200		{object}	domain.PurchaseOrder
//	@Failure		409		{object}	erpsdk.ErrorResponse	"invalid_transition"
//	@Router			/v1/purchase-orders/{id}/transition [post].
func (h *PurchaseOrdersHandler) HandleTransition(w http.ResponseWriter, r *http.Request) {
	var req erpsdk.TransitionRequest
	if !decode(w, r, &req) {
		return
	}
	to := domain.POStatus(req.Status)
	if !to.Valid() {
		writeBadRequest(w, "unknown status "+req.Status)
		return
	}

	po, err := h.PurchaseOrderService.Transition(r.Context(), httpx.TenantID(r.Context()), r.PathValue("id"), to)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, po)
}

// HandleReceive handles POST /v1/purchase-orders/{id}/receive
//
//	@Summary		Receive goods
//	@Description	Books receipt movements and moves the order to partially_received or received.
//	@Tags			Purchasing
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Purchase order id"
//	@Param			request	body		erpsdk.ReceiveRequest	true	"Received lines"
//	@Success		200		{object}	domain.PurchaseOrder
//	@Failure		400		{object}	erpsdk.ErrorResponse
//	@Failure		409		{object}	erpsdk.ErrorResponse	"over receipt or wrong status"
//	@Router			/v1/purchase-orders/{id}/receive [post].
func (h *PurchaseOrdersHandler) HandleReceive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req erpsdk.ReceiveRequest
	if !decode(w, r, &req) {
		return
	}

	lines := make([]domain.ReceiptLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, domain.ReceiptLine(l))
	}

	po, err := h.PurchaseOrderService.Receive(ctx, httpx.TenantID(ctx), httpx.UserID(ctx), r.PathValue("id"), lines)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, po)
}
