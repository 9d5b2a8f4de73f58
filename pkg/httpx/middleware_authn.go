package httpx

import (
	"net/http"
	"strings"

	"github.com/OolalaDXB/outrenational/pkg/jwtx"
	"github.com/OolalaDXB/outrenational/pkg/slogx"
)

// AuthnMiddleware verifies the bearer access token and stores its claims on
// the request context. Tokens without a tenant are rejected.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				writeBearerError(w, "token verification failed")
				log.Warn("jwt verify failed", "err", err)
				return
			}

			if err := claims.ValidateExpiry(); err != nil {
				writeBearerError(w, "token expired")
				return
			}

			if claims.TenantID == "" {
				writeBearerError(w, "token is not bound to a tenant")
				return
			}

			ctx = ContextWithClaims(ctx, claims)
			ctx = slogx.WithTenant(ctx, claims.TenantID, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750 error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "invalid_token", desc)
}
