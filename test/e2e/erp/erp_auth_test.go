package erp_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/OolalaDXB/outrenational/pkg/erpsdk"
)

// TestSignupLoginRefreshRevoke covers the session lifecycle:
// 1. Sign up a tenant and log in as its owner
// 2. Refresh and check both tokens rotate
// 3. Revoke and check the refresh token is dead
func TestSignupLoginRefreshRevoke(t *testing.T) {
	baseURL, cleanup := setupERPContainer(t, relaxedLimits)
	defer cleanup()

	client := erpsdk.NewClient(baseURL)
	sess := signupAndLogin(t, client)
	require.True(t, sess.HasScope("billing:write"), "owner should hold every scope")

	oldAccess, oldRefresh := sess.AccessToken(), sess.RefreshToken()

	tok, err := client.Refresh(t.Context(), oldRefresh)
	require.NoError(t, err)
	require.Equal(t, "Bearer", tok.TokenType)
	require.NotEqual(t, oldAccess, tok.AccessToken, "access token should be rotated")
	require.NotEqual(t, oldRefresh, tok.RefreshToken, "refresh token should be rotated")

	_, err = client.Refresh(t.Context(), oldRefresh)
	assertAPIError(t, err, http.StatusUnauthorized, erpsdk.ErrorCodeInvalidToken)

	require.NoError(t, client.RevokeToken(t.Context(), tok.RefreshToken))
	_, err = client.Refresh(t.Context(), tok.RefreshToken)
	assertAPIError(t, err, http.StatusUnauthorized, erpsdk.ErrorCodeInvalidToken)
}

func TestDuplicateSlugRejected(t *testing.T) {
	baseURL, cleanup := setupERPContainer(t, relaxedLimits)
	defer cleanup()

	client := erpsdk.NewClient(baseURL)
	signupAndLogin(t, client)

	_, err := client.Signup(t.Context(), erpsdk.SignupRequest{
		TenantName: "Someone Else",
		Slug:       tenantSlug,
		Country:    "DE",
		OwnerEmail: "other@example.test",
		OwnerName:  "Other",
		Password:   ownerPassword,
	})
	assertAPIError(t, err, http.StatusConflict, erpsdk.ErrorCodeConflict)
}

// TestRateLimitTokenEndpoint runs with the production limits: five
// attempts per minute per address on the password grant.
func TestRateLimitTokenEndpoint(t *testing.T) {
	baseURL, cleanup := setupERPContainer(t, nil)
	defer cleanup()

	client := erpsdk.NewClient(baseURL)

	var lastErr error
	for i := range 6 {
		_, err := client.Login(t.Context(), erpsdk.LoginRequest{Tenant: tenantSlug, Email: "nobody@outre.test", Password: "wrong-password"})
		if i < 5 {
			assertAPIError(t, err, http.StatusUnauthorized, erpsdk.ErrorCodeInvalidCredentials)
			continue
		}
		lastErr = err
	}

	assertAPIError(t, lastErr, http.StatusTooManyRequests, erpsdk.ErrorCodeRateLimitExceeded)
}
