package http

import (
	"net/http"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/internal/erp/service"
	"github.com/OolalaDXB/outrenational/pkg/httpx"
)

// UsersHandler covers tenant users, the caller's own account and the
// tenant profile.
type UsersHandler struct {
	UserService   *service.UserService
	TenantService *service.TenantService
}

type UserList struct {
	Users []domain.User `json:"users"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// HandleCreate handles POST /v1/users
//
//	@Summary		Create a user
//	@Description	Adds a staff, owner or pro user. Pro users must reference a customer.
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		service.CreateUserInput	true	"User"
//	@Success		201		{object}	domain.User
//	@Failure		400		{object}	erpsdk.ErrorResponse
//	@Failure		403		{object}	erpsdk.ErrorResponse
//	@Failure		409		{object}	erpsdk.ErrorResponse	"email taken"
//	@Router			/v1/users [post].
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.CreateUserInput
	if !decode(w, r, &in) {
		return
	}

	u, err := h.UserService.CreateUser(r.Context(), httpx.TenantID(r.Context()), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, u)
}

// HandleList handles GET /v1/users
//
//	@Summary	List users
//	@Tags		Users
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	UserList
//	@Router		/v1/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.ListUsers(r.Context(), httpx.TenantID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, UserList{Users: users})
}

// HandleDelete handles DELETE /v1/users/{id}
//
//	@Summary	Delete a user
//	@Tags		Users
//	@Security	BearerAuth
//	@Param		id	path	string	true	"User id"
//	@Success	204
//	@Failure	403	{object}	erpsdk.ErrorResponse	"cannot delete yourself"
//	@Failure	404	{object}	erpsdk.ErrorResponse
//	@Router		/v1/users/{id} [delete].
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.UserService.DeleteUser(ctx, httpx.TenantID(ctx), httpx.UserID(ctx), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleMe handles GET /v1/me
//
//	@Summary	Current user
//	@Tags		Users
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	domain.User
//	@Router		/v1/me [get].
func (h *UsersHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	u, err := h.UserService.GetUser(ctx, httpx.TenantID(ctx), httpx.UserID(ctx))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

// HandleChangePassword handles POST /v1/me/password
//
//	@Summary		Change password
//	@Description	Revokes every refresh token of the caller on success.
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	ChangePasswordRequest	true	"Passwords"
//	@Success		204
//	@Failure		400	{object}	erpsdk.ErrorResponse	"password policy"
//	@Failure		401	{object}	erpsdk.ErrorResponse	"wrong current password"
//	@Router			/v1/me/password [post].
func (h *UsersHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ChangePasswordRequest
	if !decode(w, r, &req) {
		return
	}

	err := h.UserService.ChangePassword(ctx, httpx.TenantID(ctx), httpx.UserID(ctx), req.CurrentPassword, req.NewPassword)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGetTenant handles GET /v1/tenant
//
//	@Summary	Tenant profile
//	@Tags		Tenant
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	domain.Tenant
//	@Router		/v1/tenant [get].
func (h *UsersHandler) HandleGetTenant(w http.ResponseWriter, r *http.Request) {
	t, err := h.TenantService.Get(r.Context(), httpx.TenantID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, t)
}

// HandleUpdateTenant handles PATCH /v1/tenant
//
//	@Summary		Update tenant settings
//	@Description	Empty fields keep their current value.
//	@Tags			Tenant
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		service.TenantSettings	true	"Settings"
//	@Success		200		{object}	domain.Tenant
//	@Failure		400		{object}	erpsdk.ErrorResponse
//	@Router			/v1/tenant [patch].
func (h *UsersHandler) HandleUpdateTenant(w http.ResponseWriter, r *http.Request) {
	var in service.TenantSettings
	if !decode(w, r, &in) {
		return
	}

	t, err := h.TenantService.UpdateSettings(r.Context(), httpx.TenantID(r.Context()), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, t)
}
