package httpx

import (
	"context"

	"github.com/OolalaDXB/outrenational/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeyUserID   ctxKey = "user_id"
	CtxKeyTenantID ctxKey = "tenant_id"
	CtxKeyScopes   ctxKey = "scopes"
	CtxKeyClaims   ctxKey = "claims"
)

func scopesFromCtx(ctx context.Context) []string {
	if v, ok := ctx.Value(CtxKeyScopes).([]string); ok {
		return v
	}
	return nil
}

// UserID returns the authenticated subject, if any.
func UserID(ctx context.Context) string {
	v, _ := ctx.Value(CtxKeyUserID).(string)
	return v
}

// TenantID returns the tenant the access token was minted for.
func TenantID(ctx context.Context) string {
	v, _ := ctx.Value(CtxKeyTenantID).(string)
	return v
}

// ClaimsFromContext returns the verified access token claims.
func ClaimsFromContext(ctx context.Context) (jwtx.Claims, bool) {
	c, ok := ctx.Value(CtxKeyClaims).(jwtx.Claims)
	return c, ok
}

// ContextWithClaims injects claims the same way AuthnMiddleware does. Handler
// tests use it to skip token minting.
func ContextWithClaims(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyTenantID, c.TenantID)
	ctx = context.WithValue(ctx, CtxKeyScopes, c.Scopes)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return ctx
}
