package http

import (
	"net/http"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/internal/erp/service"
	"github.com/OolalaDXB/outrenational/pkg/httpx"
)

// SuppliersHandler serves suppliers and consignment accounting.
type SuppliersHandler struct {
	SupplierService    *service.SupplierService
	ConsignmentService *service.ConsignmentService
}

type SupplierList struct {
	Suppliers []domain.Supplier `json:"suppliers"`
}

type PayoutList struct {
	Payouts []domain.SupplierPayout `json:"payouts"`
}

type MarginList struct {
	Margins []domain.ProductMargin `json:"margins"`
}

// HandleCreate handles POST /v1/suppliers
//
//	@Summary	Create a supplier
//	@Tags		Suppliers
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		service.SupplierInput	true	"Supplier"
//	@Success	201		{object}	domain.Supplier
//	@Failure	400		{object}	erpsdk.ErrorResponse
//	@Router		/v1/suppliers [post].
func (h *SuppliersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.SupplierInput
	if !decode(w, r, &in) {
		return
	}

	s, err := h.SupplierService.CreateSupplier(r.Context(), httpx.TenantID(r.Context()), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, s)
}

// HandleList handles GET /v1/suppliers
//
//	@Summary	List suppliers
//	@Tags		Suppliers
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	SupplierList
//	@Router		/v1/suppliers [get].
func (h *SuppliersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ss, err := h.SupplierService.ListSuppliers(r.Context(), httpx.TenantID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, SupplierList{Suppliers: ss})
}

// HandleGet handles GET /v1/suppliers/{id}
//
//	@Summary	Get a supplier
//	@Tags		Suppliers
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Supplier id"
//	@Success	200	{object}	domain.Supplier
//	@Failure	404	{object}	erpsdk.ErrorResponse
//	@Router		/v1/suppliers/{id} [get].
func (h *SuppliersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	s, err := h.SupplierService.GetSupplier(r.Context(), httpx.TenantID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, s)
}

// HandleUpdate handles PUT /v1/suppliers/{id}
//
//	@Summary	Update a supplier
//	@Tags		Suppliers
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"Supplier id"
//	@Param		request	body		service.SupplierInput	true	"Supplier"
//	@Success	200		{object}	domain.Supplier
//	@Failure	400		{object}	erpsdk.ErrorResponse
//	@Failure	404		{object}	erpsdk.ErrorResponse
//	@Router		/v1/suppliers/{id} [put].
func (h *SuppliersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in service.SupplierInput
	if !decode(w, r, &in) {
		return
	}

	s, err := h.SupplierService.UpdateSupplier(r.Context(), httpx.TenantID(r.Context()), r.PathValue("id"), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, s)
}

// HandleDelete handles DELETE /v1/suppliers/{id}
//
//	@Summary		Delete a supplier
//	@Description	Refused while products or purchase orders reference the supplier.
//	@Tags			Suppliers
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Supplier id"
//	@Success		204
//	@Failure		404	{object}	erpsdk.ErrorResponse
//	@Failure		409	{object}	erpsdk.ErrorResponse	"in use"
//	@Router			/v1/suppliers/{id} [delete].
func (h *SuppliersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.SupplierService.DeleteSupplier(r.Context(), httpx.TenantID(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleStatement handles GET /v1/suppliers/{id}/statement
//
//	@Summary		Consignment statement
//	@Description	Sales of the supplier's products in orders confirmed within [from, to), the commission kept and what is still owed.
//	@Tags			Consignment
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id		path		string	true	"Supplier id"
//	@Param			from	query		string	false	"Inclusive start, YYYY-MM-DD (default: first day of this month)"
//	@Param			to		query		string	false	"Exclusive end, YYYY-MM-DD"
//	@Success		200		{object}	domain.PayoutStatement
//	@Failure		400		{object}	erpsdk.ErrorResponse	"not a consignment supplier or bad period"
//	@Failure		404		{object}	erpsdk.ErrorResponse
//	@Router			/v1/suppliers/{id}/statement [get].
func (h *SuppliersHandler) HandleStatement(w http.ResponseWriter, r *http.Request) {
	from, to, err := period(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	st, err := h.ConsignmentService.Statement(r.Context(), httpx.TenantID(r.Context()), r.PathValue("id"), from, to)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, st)
}

// HandleCreatePayout handles POST /v1/suppliers/{id}/payouts
//
//	@Summary		Record a payout
//	@Description	The amount may not exceed what is outstanding for the period.
//	@Tags			Consignment
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Supplier id"
//	@Param			request	body		service.PayoutInput	true	"Payout"
//	@Success		201		{object}	domain.SupplierPayout
//	@Failure		400		{object}	erpsdk.ErrorResponse
//	@Failure		409		{object}	erpsdk.ErrorResponse	"exceeds balance"
//	@Router			/v1/suppliers/{id}/payouts [post].
func (h *SuppliersHandler) HandleCreatePayout(w http.ResponseWriter, r *http.Request) {
	var in service.PayoutInput
	if !decode(w, r, &in) {
		return
	}

	p, err := h.ConsignmentService.RecordPayout(r.Context(), httpx.TenantID(r.Context()), r.PathValue("id"), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, p)
}

// HandleListPayouts handles GET /v1/suppliers/{id}/payouts
//
//	@Summary	List payouts
//	@Tags		Consignment
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id		path		string	true	"Supplier id"
//	@Param		from	query		string	false	"Inclusive start"
//	@Param		to		query		string	false	"Exclusive end"
//	@Success	200		{object}	PayoutList
//	@Router		/v1/suppliers/{id}/payouts [get].
func (h *SuppliersHandler) HandleListPayouts(w http.ResponseWriter, r *http.Request) {
	from, to, err := period(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	ps, err := h.ConsignmentService.ListPayouts(r.Context(), httpx.TenantID(r.Context()), r.PathValue("id"), from, to)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, PayoutList{Payouts: ps})
}

// HandleMargins handles GET /v1/reports/margins
//
//	@Summary		Margins on owned stock
//	@Description	Revenue minus current cost per product, excluding consignment stock.
//	@Tags			Reports
//	@Security		BearerAuth
//	@Produce		json
//	@Param			from	query		string	false	"Inclusive start"
//	@Param			to		query		string	false	"Exclusive end"
//	@Success		200		{object}	MarginList
//	@Router			/v1/reports/margins [get].
func (h *SuppliersHandler) HandleMargins(w http.ResponseWriter, r *http.Request) {
	from, to, err := period(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	ms, err := h.ConsignmentService.Margins(r.Context(), httpx.TenantID(r.Context()), from, to)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, MarginList{Margins: ms})
}
