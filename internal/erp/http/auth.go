package http

import (
	"net/http"
	"strings"

	"github.com/OolalaDXB/outrenational/internal/erp/service"
	"github.com/OolalaDXB/outrenational/pkg/erpsdk"
	"github.com/OolalaDXB/outrenational/pkg/httpx"
	"github.com/OolalaDXB/outrenational/pkg/slogx"
)

// AuthHandler serves the public signup and token endpoints.
type AuthHandler struct {
	TenantService *service.TenantService
	AuthService   *service.AuthService
}

// HandleSignup handles POST /v1/signup
//
//	@Summary		Sign up a distributor
//	@Description	Creates a tenant and its owner account in one step.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		erpsdk.SignupRequest	true	"Tenant and owner"
//	@Success		201		{object}	erpsdk.SignupResponse
//	@Failure		400		{object}	erpsdk.ErrorResponse	"invalid input"
//	@Failure		409		{object}	erpsdk.ErrorResponse	"slug or email taken"
//	@Router			/v1/signup [post].
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req erpsdk.SignupRequest
	if !decode(w, r, &req) {
		return
	}

	tenant, owner, err := h.TenantService.Signup(r.Context(), service.SignupInput(req))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slogx.FromContext(r.Context()).Info("tenant signed up", "tenant_id", tenant.ID, "slug", tenant.Slug)
	httpx.WriteJSON(w, http.StatusCreated, erpsdk.SignupResponse{
		TenantID: tenant.ID,
		Slug:     tenant.Slug,
		UserID:   owner.ID,
	})
}

// HandleToken handles POST /v1/auth/token
//
//	@Summary		Log in
//	@Description	Exchanges tenant slug, email and password (plus a TOTP code once MFA is enabled) for a token pair.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		erpsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	erpsdk.TokenResponse
//	@Failure		400		{object}	erpsdk.ErrorResponse	"invalid input"
//	@Failure		401		{object}	erpsdk.ErrorResponse	"invalid_credentials or mfa_required"
//	@Router			/v1/auth/token [post].
func (h *AuthHandler) HandleToken(w http.ResponseWriter, r *http.Request) {
	var req erpsdk.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Tenant) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeBadRequest(w, "tenant, email and password are required")
		return
	}

	pair, err := h.AuthService.Login(r.Context(), service.LoginInput(req))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, erpsdk.TokenResponse(*pair))
}

// HandleRefresh handles POST /v1/auth/refresh
//
//	@Summary		Refresh tokens
//	@Description	Rotates a refresh token. Reusing a rotated token revokes the whole session family.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		erpsdk.RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	erpsdk.TokenResponse
//	@Failure		400		{object}	erpsdk.ErrorResponse
//	@Failure		401		{object}	erpsdk.ErrorResponse	"invalid_token"
//	@Router			/v1/auth/refresh [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req erpsdk.RefreshRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		writeBadRequest(w, "refresh_token is required")
		return
	}

	pair, err := h.AuthService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, erpsdk.TokenResponse(*pair))
}

// HandleRevoke handles POST /v1/auth/revoke
//
//	@Summary		Revoke a refresh token
//	@Description	Unknown tokens are accepted silently.
//	@Tags			Auth
//	@Accept			json
//	@Param			request	body	erpsdk.RefreshRequest	true	"Refresh token"
//	@Success		204
//	@Failure		400	{object}	erpsdk.ErrorResponse
//	@Router			/v1/auth/revoke [post].
func (h *AuthHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	var req erpsdk.RefreshRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		writeBadRequest(w, "refresh_token is required")
		return
	}

	if err := h.AuthService.Revoke(r.Context(), req.RefreshToken); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
