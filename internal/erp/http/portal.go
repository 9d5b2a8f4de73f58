package http

import (
	"net/http"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/internal/erp/service"
	"github.com/OolalaDXB/outrenational/pkg/httpx"
)

// PortalHandler is the pro customer's view of the tenant. The customer is
// always taken from the access token, never from the request.
type PortalHandler struct {
	PortalService *service.PortalService
}

type PortalCatalog struct {
	Products []service.PortalProduct `json:"products"`
}

type PortalOrderRequest struct {
	Notes string                  `json:"notes"`
	Items []domain.OrderLineInput `json:"items"`
}

func customerID(r *http.Request) string {
	c, _ := httpx.ClaimsFromContext(r.Context())
	return c.CustomerID
}

// HandleCatalog handles GET /v1/portal/catalog
//
//	@Summary		Browse the catalog
//	@Description	Active products in stock, with the wholesale price after the customer's discount.
//	@Tags			Portal
//	@Security		BearerAuth
//	@Produce		json
//	@Param			search	query		string	false	"Free text"
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Offset"
//	@Success		200		{object}	PortalCatalog
//	@Failure		403		{object}	erpsdk.ErrorResponse	"account not linked to a customer"
//	@Router			/v1/portal/catalog [get].
func (h *PortalHandler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := page(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	ps, err := h.PortalService.Catalog(r.Context(), httpx.TenantID(r.Context()), customerID(r), r.URL.Query().Get("search"), limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, PortalCatalog{Products: ps})
}

// HandlePlaceOrder handles POST /v1/portal/orders
//
//	@Summary		Place an order
//	@Description	Creates a pending order at catalog prices. Prices cannot be overridden.
//	@Tags			Portal
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		PortalOrderRequest	true	"Lines"
//	@Success		201		{object}	domain.Order
//	@Failure		400		{object}	erpsdk.ErrorResponse
//	@Failure		403		{object}	erpsdk.ErrorResponse
//	@Router			/v1/portal/orders [post].
func (h *PortalHandler) HandlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PortalOrderRequest
	if !decode(w, r, &req) {
		return
	}

	o, err := h.PortalService.PlaceOrder(ctx, httpx.TenantID(ctx), httpx.UserID(ctx), customerID(r), req.Items, req.Notes)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, o)
}

// HandleListOrders handles GET /v1/portal/orders
//
//	@Summary	My orders
//	@Tags		Portal
//	@Security	BearerAuth
//	@Produce	json
//	@Param		limit	query		int	false	"Page size"
//	@Param		offset	query		int	false	"Offset"
//	@Success	200		{object}	OrderList
//	@Router		/v1/portal/orders [get].
func (h *PortalHandler) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := page(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	orders, err := h.PortalService.ListOrders(r.Context(), httpx.TenantID(r.Context()), customerID(r), limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, OrderList{Orders: orders})
}

// HandleGetOrder handles GET /v1/portal/orders/{id}
//
//	@Summary	One of my orders
//	@Tags		Portal
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Order id"
//	@Success	200	{object}	domain.Order
//	@Failure	404	{object}	erpsdk.ErrorResponse
//	@Router		/v1/portal/orders/{id} [get].
func (h *PortalHandler) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.PortalService.GetOrder(r.Context(), httpx.TenantID(r.Context()), customerID(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, o)
}

// HandleListInvoices handles GET /v1/portal/invoices
//
//	@Summary	My invoices
//	@Tags		Portal
//	@Security	BearerAuth
//	@Produce	json
//	@Param		limit	query		int	false	"Page size"
//	@Param		offset	query		int	false	"Offset"
//	@Success	200		{object}	InvoiceList
//	@Router		/v1/portal/invoices [get].
func (h *PortalHandler) HandleListInvoices(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := page(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	invs, err := h.PortalService.ListInvoices(r.Context(), httpx.TenantID(r.Context()), customerID(r), limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, InvoiceList{Invoices: invs})
}
