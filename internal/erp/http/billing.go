package http

import (
	"io"
	"net/http"

	"github.com/OolalaDXB/outrenational/internal/erp/service"
	"github.com/OolalaDXB/outrenational/pkg/httpx"
	"github.com/OolalaDXB/outrenational/pkg/slogx"
)

// Stripe caps webhook payloads well below this.
const maxWebhookBytes = 64 << 10

// BillingHandler serves the tenant subscription and the Stripe webhook.
type BillingHandler struct {
	BillingService *service.BillingService
}

type SubscribeRequest struct {
	PriceID string `json:"price_id,omitempty"`
}

// HandleSubscribe handles POST /v1/billing/subscribe
//
//	@Summary		Subscribe the tenant
//	@Description	Creates the Stripe customer when missing, then a subscription. Without price_id the default plan is used.
//	@Tags			Billing
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SubscribeRequest	false	"Plan"
//	@Success		200		{object}	domain.Tenant
//	@Failure		502		{object}	erpsdk.ErrorResponse	"Stripe error"
//	@Failure		503		{object}	erpsdk.ErrorResponse	"billing not configured"
//	@Router			/v1/billing/subscribe [post].
func (h *BillingHandler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}

	t, err := h.BillingService.Subscribe(r.Context(), httpx.TenantID(r.Context()), req.PriceID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, t)
}

// HandleWebhook handles POST /v1/billing/webhook
//
//	@Summary		Stripe webhook
//	@Description	Verifies the Stripe-Signature header and applies subscription and invoice events once per event id.
//	@Tags			Billing
//	@Accept			json
//	@Produce		json
//	@Param			Stripe-Signature	header		string	true	"Stripe signature"
//	@Success		200					{object}	service.WebhookResult
//	@Failure		400					{object}	erpsdk.ErrorResponse	"bad signature or payload"
//	@Router			/v1/billing/webhook [post].
func (h *BillingHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		writeBadRequest(w, "unreadable payload")
		return
	}

	res, err := h.BillingService.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slogx.FromContext(r.Context()).Info("billing webhook handled",
		"event_id", res.EventID, "type", res.Type, "duplicate", res.Duplicate)
	httpx.WriteJSON(w, http.StatusOK, res)
}
