package erpsdk

import (
	"context"
	"net/http"
)

// Signup creates a tenant and its owner account.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error) {
	var out SignupResponse
	if err := c.postJSON(ctx, "/v1/signup", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login runs the password grant and opens a Session. A user with TOTP
// enabled gets an *APIError with code mfa_required until OTP is set.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	var tok TokenResponse
	if err := c.postJSON(ctx, "/v1/auth/token", req, &tok, http.StatusOK); err != nil {
		return nil, err
	}
	return newSession(c, &tok), nil
}

// Refresh exchanges a refresh token for a new pair. The old refresh token
// stops working.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	var tok TokenResponse
	if err := c.postJSON(ctx, "/v1/auth/refresh", RefreshRequest{RefreshToken: refreshToken}, &tok, http.StatusOK); err != nil {
		return nil, err
	}
	return &tok, nil
}

// RevokeToken revokes a refresh token. Unknown tokens are not an error.
func (c *Client) RevokeToken(ctx context.Context, refreshToken string) error {
	return c.postJSON(ctx, "/v1/auth/revoke", RefreshRequest{RefreshToken: refreshToken}, nil, http.StatusNoContent)
}
