package http

import (
	"net/http"
	"strings"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/internal/erp/service"
	"github.com/OolalaDXB/outrenational/pkg/httpx"
)

// CustomersHandler serves customers and VAT number checks.
type CustomersHandler struct {
	CustomerService *service.CustomerService
	VATService      *service.VATService
}

type CustomerList struct {
	Customers []domain.Customer `json:"customers"`
}

type VATRequest struct {
	VATNumber string `json:"vat_number"`
}

// HandleCreate handles POST /v1/customers
//
//	@Summary	Create a customer
//	@Tags		Customers
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		service.CustomerInput	true	"Customer"
//	@Success	201		{object}	domain.Customer
//	@Failure	400		{object}	erpsdk.ErrorResponse
//	@Router		/v1/customers [post].
func (h *CustomersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.CustomerInput
	if !decode(w, r, &in) {
		return
	}

	c, err := h.CustomerService.CreateCustomer(r.Context(), httpx.TenantID(r.Context()), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, c)
}

// HandleList handles GET /v1/customers
//
//	@Summary	List customers
//	@Tags		Customers
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	CustomerList
//	@Router		/v1/customers [get].
func (h *CustomersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	cs, err := h.CustomerService.ListCustomers(r.Context(), httpx.TenantID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, CustomerList{Customers: cs})
}

// HandleGet handles GET /v1/customers/{id}
//
//	@Summary	Get a customer
//	@Tags		Customers
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Customer id"
//	@Success	200	{object}	domain.Customer
//	@Failure	404	{object}	erpsdk.ErrorResponse
//	@Router		/v1/customers/{id} [get].
func (h *CustomersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.CustomerService.GetCustomer(r.Context(), httpx.TenantID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

// HandleUpdate handles PUT /v1/customers/{id}
//
//	@Summary		Update a customer
//	@Description	Changing the VAT number clears its validated flag.
//	@Tags			Customers
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Customer id"
//	@Param			request	body		service.CustomerInput	true	"Customer"
//	@Success		200		{object}	domain.Customer
//	@Failure		400		{object}	erpsdk.ErrorResponse
//	@Failure		404		{object}	erpsdk.ErrorResponse
//	@Router			/v1/customers/{id} [put].
func (h *CustomersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in service.CustomerInput
	if !decode(w, r, &in) {
		return
	}

	c, err := h.CustomerService.UpdateCustomer(r.Context(), httpx.TenantID(r.Context()), r.PathValue("id"), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

// HandleValidateVAT handles POST /v1/vat/validate
//
//	@Summary		Check a VAT number
//	@Description	Validates the format, then asks VIES. Answers are cached.
//	@Tags			VAT
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		VATRequest	true	"VAT number with country prefix"
//	@Success		200		{object}	domain.VATCheck
//	@Failure		400		{object}	erpsdk.ErrorResponse	"malformed number"
//	@Failure		502		{object}	erpsdk.ErrorResponse	"VIES unavailable"
//	@Router			/v1/vat/validate [post].
func (h *CustomersHandler) HandleValidateVAT(w http.ResponseWriter, r *http.Request) {
	var req VATRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.VATNumber) == "" {
		writeBadRequest(w, "vat_number is required")
		return
	}

	check, err := h.VATService.Validate(r.Context(), req.VATNumber)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, check)
}

// HandleValidateCustomerVAT handles POST /v1/customers/{id}/vat/validate
//
//	@Summary		Validate a customer's VAT number
//	@Description	Stores the result on the customer. An unavailable VIES keeps the previous flag.
//	@Tags			VAT
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Customer id"
//	@Success		200	{object}	domain.VATCheck
//	@Failure		400	{object}	erpsdk.ErrorResponse
//	@Failure		404	{object}	erpsdk.ErrorResponse
//	@Failure		502	{object}	erpsdk.ErrorResponse
//	@Router			/v1/customers/{id}/vat/validate [post].
func (h *CustomersHandler) HandleValidateCustomerVAT(w http.ResponseWriter, r *http.Request) {
	check, err := h.VATService.ValidateCustomer(r.Context(), httpx.TenantID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, check)
}
