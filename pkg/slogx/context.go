package slogx

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the request scoped logger, or slog.Default when the
// context carries none (background workers, tests).
func FromContext(ctx context.Context) *slog.Logger {
	l, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return l
}

// WithAttrs returns a context whose logger carries the extra attributes.
func WithAttrs(ctx context.Context, args ...any) context.Context {
	return WithContext(ctx, FromContext(ctx).With(args...))
}

// WithTenant tags every subsequent log line with the tenant and user that
// issued the request.
func WithTenant(ctx context.Context, tenantID, userID string) context.Context {
	return WithAttrs(ctx, "tenant_id", tenantID, "user_id", userID)
}
