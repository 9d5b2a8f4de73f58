package http

import (
	"net/http"
	"strings"

	"github.com/OolalaDXB/outrenational/internal/erp/service"
	"github.com/OolalaDXB/outrenational/pkg/httpx"
	"github.com/OolalaDXB/outrenational/pkg/slogx"
)

// MFAHandler manages TOTP for the calling user.
type MFAHandler struct {
	AuthService *service.AuthService
}

// OTPRequest carries a six digit TOTP code.
type OTPRequest struct {
	Code string `json:"code"`
}

// HandleEnroll handles POST /v1/mfa/totp/enroll
//
//	@Summary		Start TOTP enrollment
//	@Description	Generates a TOTP secret. MFA becomes active once a code is verified.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	domain.MFAEnrollment
//	@Failure		401	{object}	erpsdk.ErrorResponse
//	@Failure		409	{object}	erpsdk.ErrorResponse	"MFA already enabled"
//	@Router			/v1/mfa/totp/enroll [post].
func (h *MFAHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	enrollment, err := h.AuthService.EnrollTOTP(ctx, httpx.TenantID(ctx), httpx.UserID(ctx))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, enrollment)
}

// HandleVerify handles POST /v1/mfa/totp/verify
//
//	@Summary		Confirm TOTP enrollment
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	OTPRequest	true	"Current code"
//	@Success		204
//	@Failure		401	{object}	erpsdk.ErrorResponse	"wrong code"
//	@Failure		409	{object}	erpsdk.ErrorResponse	"not enrolled or already enabled"
//	@Router			/v1/mfa/totp/verify [post].
func (h *MFAHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req OTPRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		writeBadRequest(w, "code is required")
		return
	}

	if err := h.AuthService.VerifyTOTP(ctx, httpx.TenantID(ctx), httpx.UserID(ctx), req.Code); err != nil {
		writeServiceError(w, r, err)
		return
	}
	slogx.FromContext(ctx).Info("mfa enabled")
	w.WriteHeader(http.StatusNoContent)
}

// HandleDisable handles DELETE /v1/mfa/totp
//
//	@Summary		Disable TOTP
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	OTPRequest	true	"Current code"
//	@Success		204
//	@Failure		401	{object}	erpsdk.ErrorResponse	"wrong code"
//	@Failure		409	{object}	erpsdk.ErrorResponse	"not enrolled"
//	@Router			/v1/mfa/totp [delete].
func (h *MFAHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req OTPRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.AuthService.DisableTOTP(ctx, httpx.TenantID(ctx), httpx.UserID(ctx), req.Code); err != nil {
		writeServiceError(w, r, err)
		return
	}
	slogx.FromContext(ctx).Info("mfa disabled")
	w.WriteHeader(http.StatusNoContent)
}
