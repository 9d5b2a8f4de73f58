package sqlite

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
)

type refreshTokensRepo struct {
	q sqlx.ExtContext
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO refresh_tokens
			(id, tenant_id, user_id, token_hash, session_id, amr, expires_at, revoked, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		t.ID, t.TenantID, t.UserID, t.TokenHash, t.SessionID, t.AMR,
		t.ExpiresAt.UTC(), t.CreatedAt.UTC(), t.CreatedAt.UTC())
	return mapConstraint(err)
}

func (r *refreshTokensRepo) GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error) {
	var t domain.RefreshToken
	err := sqlx.GetContext(ctx, r.q, &t, `
		SELECT id, tenant_id, user_id, token_hash, session_id, amr, expires_at, revoked, created_at
		FROM refresh_tokens WHERE token_hash = ?`, hash)
	return t, mapNotFound(err)
}

func (r *refreshTokensRepo) RevokeRefreshToken(ctx context.Context, hash string) error {
	return mustAffect(r.q.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked = 1, updated_at = ? WHERE token_hash = ?`, nowUTC(), hash))
}

func (r *refreshTokensRepo) RevokeUserRefreshTokens(ctx context.Context, tenantID, userID string) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked = 1, updated_at = ? WHERE tenant_id = ? AND user_id = ? AND revoked = 0`,
		nowUTC(), tenantID, userID)
	return err
}

func (r *refreshTokensRepo) DeleteStaleRefreshTokens(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at < ? OR (revoked = 1 AND updated_at < ?)`,
		cutoff.UTC(), cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
