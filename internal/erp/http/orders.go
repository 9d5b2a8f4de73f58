package http

import (
	"net/http"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/internal/erp/service"
	"github.com/OolalaDXB/outrenational/pkg/httpx"
)

// OrdersHandler serves backoffice sales orders.
type OrdersHandler struct {
	OrderService   *service.OrderService
	InvoiceService *service.InvoiceService
}

type OrderList struct {
	Orders []domain.Order `json:"orders"`
}

// HandleCreate handles POST /v1/orders
//
//	@Summary		Create an order
//	@Description	Prices each line for the customer and applies the VAT regime. The order starts pending.
//	@Tags			Orders
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		service.OrderInput	true	"Order"
//	@Success		201		{object}	domain.Order
//	@Failure		400		{object}	erpsdk.ErrorResponse
//	@Router			/v1/orders [post].
func (h *OrdersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in service.OrderInput
	if !decode(w, r, &in) {
		return
	}

	o, err := h.OrderService.Create(ctx, httpx.TenantID(ctx), httpx.UserID(ctx), domain.SourceBackoffice, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, o)
}

// HandleList handles GET /v1/orders
//
//	@Summary	List orders
//	@Tags		Orders
//	@Security	BearerAuth
//	@Produce	json
//	@Param		customer_id	query		string	false	"Customer"
//	@Param		status		query		string	false	"pending, confirmed, shipped, delivered or cancelled"
//	@Param		source		query		string	false	"backoffice or portal"
//	@Param		limit		query		int		false	"Page size"
//	@Param		offset		query		int		false	"Offset"
//	@Success	200			{object}	OrderList
//	@Router		/v1/orders [get].
func (h *OrdersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := page(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	q := r.URL.Query()
	orders, err := h.OrderService.List(r.Context(), httpx.TenantID(r.Context()), domain.OrderFilter{
		CustomerID: q.Get("customer_id"),
		Status:     domain.OrderStatus(q.Get("status")),
		Source:     domain.OrderSource(q.Get("source")),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, OrderList{Orders: orders})
}

// HandleGet handles GET /v1/orders/{id}
//
//	@Summary	Get an order
//	@Tags		Orders
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Order id"
//	@Success	200	{object}	domain.Order
//	@Failure	404	{object}	erpsdk.ErrorResponse
//	@Router		/v1/orders/{id} [get].
func (h *OrdersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	o, err := h.OrderService.Get(r.Context(), httpx.TenantID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, o)
}

// HandleConfirm handles POST /v1/orders/{id}/confirm
//
//	@Summary		Confirm an order
//	@Description	Takes stock for every line or fails without changing anything.
//	@Tags			Orders
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Order id"
//	@Success		200	{object}	domain.Order
//	@Failure		409	{object}	erpsdk.ErrorResponse	"insufficient_stock or invalid_transition"
//	@Router			/v1/orders/{id}/confirm [post].
func (h *OrdersHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.respond(w, r)(h.OrderService.Confirm(ctx, httpx.TenantID(ctx), httpx.UserID(ctx), r.PathValue("id")))
}

// HandleCancel handles POST /v1/orders/{id}/cancel
//
//	@Summary		Cancel an order
//	@Description	A confirmed order gives its stock back.
//	@Tags			Orders
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Order id"
//	@Success		200	{object}	domain.Order
//	@Failure		409	{object}	erpsdk.ErrorResponse	"invalid_transition"
//	@Router			/v1/orders/{id}/cancel [post].
func (h *OrdersHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.respond(w, r)(h.OrderService.Cancel(ctx, httpx.TenantID(ctx), httpx.UserID(ctx), r.PathValue("id")))
}

// HandleShip handles POST /v1/orders/{id}/ship
//
//	@Summary	Mark shipped
//	@Tags		Orders
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Order id"
//	@Success	200	{object}	domain.Order
//	@Failure	409	{object}	erpsdk.ErrorResponse	"invalid_transition"
//	@Router		/v1/orders/{id}/ship [post].
func (h *OrdersHandler) HandleShip(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r)(h.OrderService.Ship(r.Context(), httpx.TenantID(r.Context()), r.PathValue("id")))
}

// HandleDeliver handles POST /v1/orders/{id}/deliver
//
//	@Summary	Mark delivered
//	@Tags		Orders
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Order id"
//	@Success	200	{object}	domain.Order
//	@Failure	409	{object}	erpsdk.ErrorResponse	"invalid_transition"
//	@Router		/v1/orders/{id}/deliver [post].
func (h *OrdersHandler) HandleDeliver(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r)(h.OrderService.Deliver(r.Context(), httpx.TenantID(r.Context()), r.PathValue("id")))
}

// HandleInvoice handles POST /v1/orders/{id}/invoice
//
//	@Summary		Invoice an order
//	@Description	Confirmed, shipped or delivered orders only; one live invoice per order.
//	@Tags			Invoices
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Order id"
//	@Success		201	{object}	domain.Invoice
//	@Failure		404	{object}	erpsdk.ErrorResponse
//	@Failure		409	{object}	erpsdk.ErrorResponse	"already invoiced or not sold"
//	@Router			/v1/orders/{id}/invoice [post].
func (h *OrdersHandler) HandleInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := h.InvoiceService.IssueForOrder(r.Context(), httpx.TenantID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, inv)
}

func (h *OrdersHandler) respond(w http.ResponseWriter, r *http.Request) func(domain.Order, error) {
	return func(o domain.Order, err error) {
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, o)
	}
}
