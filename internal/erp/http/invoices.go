package http

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/internal/erp/service"
	"github.com/OolalaDXB/outrenational/pkg/httpx"
)

// InvoicesHandler serves issued invoices.
type InvoicesHandler struct {
	InvoiceService *service.InvoiceService
}

type InvoiceList struct {
	Invoices []domain.Invoice `json:"invoices"`
}

func invoiceFilter(r *http.Request) (domain.InvoiceFilter, error) {
	limit, offset, err := page(r)
	if err != nil {
		return domain.InvoiceFilter{}, err
	}
	from, to, err := optionalPeriod(r)
	if err != nil {
		return domain.InvoiceFilter{}, err
	}

	q := r.URL.Query()
	return domain.InvoiceFilter{
		CustomerID: q.Get("customer_id"),
		Status:     domain.InvoiceStatus(q.Get("status")),
		From:       from,
		To:         to,
		Limit:      limit,
		Offset:     offset,
	}, nil
}

// HandleList handles GET /v1/invoices
//
//	@Summary	List invoices
//	@Tags		Invoices
//	@Security	BearerAuth
//	@Produce	json
//	@Param		customer_id	query		string	false	"Customer"
//	@Param		status		query		string	false	"issued, paid or void"
//	@Param		from		query		string	false	"Issued on or after"
//	@Param		to			query		string	false	"Issued before"
//	@Param		limit		query		int		false	"Page size"
//	@Param		offset		query		int		false	"Offset"
//	@Success	200			{object}	InvoiceList
//	@Router		/v1/invoices [get].
func (h *InvoicesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	f, err := invoiceFilter(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	invs, err := h.InvoiceService.List(r.Context(), httpx.TenantID(r.Context()), f)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, InvoiceList{Invoices: invs})
}

// HandleExport handles GET /v1/invoices/export
//
//	@Summary		Export invoices as CSV
//	@Description	Accepts the same filters as the listing. X-Row-Count carries the number of rows.
//	@Tags			Invoices
//	@Security		BearerAuth
//	@Produce		text/csv
//	@Success		200	{file}	file
//	@Router			/v1/invoices/export [get].
func (h *InvoicesHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	f, err := invoiceFilter(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	var buf bytes.Buffer
	n, err := h.InvoiceService.ExportCSV(r.Context(), httpx.TenantID(r.Context()), f, &buf)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("X-Row-Count", strconv.Itoa(n))
	writeCSV(w, "invoices.csv", buf.Bytes())
}

// HandleGet handles GET /v1/invoices/{id}
//
//	@Summary	Get an invoice
//	@Tags		Invoices
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Invoice id"
//	@Success	200	{object}	domain.Invoice
//	@Failure	404	{object}	erpsdk.ErrorResponse
//	@Router		/v1/invoices/{id} [get].
func (h *InvoicesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	inv, err := h.InvoiceService.Get(r.Context(), httpx.TenantID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, inv)
}

// HandlePay handles POST /v1/invoices/{id}/pay
//
//	@Summary	Mark paid
//	@Tags		Invoices
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Invoice id"
//	@Success	200	{object}	domain.Invoice
//	@Failure	409	{object}	erpsdk.ErrorResponse	"invalid_transition"
//	@Router		/v1/invoices/{id}/pay [post].
func (h *InvoicesHandler) HandlePay(w http.ResponseWriter, r *http.Request) {
	inv, err := h.InvoiceService.MarkPaid(r.Context(), httpx.TenantID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, inv)
}

// HandleVoid handles POST /v1/invoices/{id}/void
//
//	@Summary		Void an invoice
//	@Description	Paid invoices cannot be voided.
//	@Tags			Invoices
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Invoice id"
//	@Success		200	{object}	domain.Invoice
//	@Failure		409	{object}	erpsdk.ErrorResponse	"invalid_transition"
//	@Router			/v1/invoices/{id}/void [post].
func (h *InvoicesHandler) HandleVoid(w http.ResponseWriter, r *http.Request) {
	inv, err := h.InvoiceService.Void(r.Context(), httpx.TenantID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, inv)
}
