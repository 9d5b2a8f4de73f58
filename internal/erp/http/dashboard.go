package http

import (
	"net/http"

	"github.com/OolalaDXB/outrenational/internal/erp/service"
	"github.com/OolalaDXB/outrenational/pkg/httpx"
)

type DashboardHandler struct {
	DashboardService *service.DashboardService
}

// ServeHTTP handles GET /v1/dashboard
//
//	@Summary		Business summary
//	@Description	Revenue, order count, open purchasing, low stock, top products and consignment payable for [from, to).
//	@Tags			Reports
//	@Security		BearerAuth
//	@Produce		json
//	@Param			from	query		string	false	"Inclusive start (default: first day of this month)"
//	@Param			to		query		string	false	"Exclusive end"
//	@Success		200		{object}	domain.Dashboard
//	@Failure		400		{object}	erpsdk.ErrorResponse
//	@Router			/v1/dashboard [get].
func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	from, to, err := period(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	d, err := h.DashboardService.Summary(r.Context(), httpx.TenantID(r.Context()), from, to)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, d)
}
