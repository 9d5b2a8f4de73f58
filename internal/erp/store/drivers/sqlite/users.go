package sqlite

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
)

const userColumns = `id, tenant_id, email, name, password_hash, role, customer_id,
	mfa_enabled, mfa_secret, created_at, updated_at`

type usersRepo struct {
	q sqlx.ExtContext
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	u.Email = strings.ToLower(u.Email)
	_, err := sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO users (`+userColumns+`)
		VALUES (:id, :tenant_id, :email, :name, :password_hash, :role, :customer_id,
			:mfa_enabled, :mfa_secret, :created_at, :updated_at)`, u)
	return mapConstraint(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, tenantID, id string) (domain.User, error) {
	var u domain.User
	err := sqlx.GetContext(ctx, r.q, &u,
		`SELECT `+userColumns+` FROM users WHERE tenant_id = ? AND id = ?`, tenantID, id)
	return u, mapNotFound(err)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, tenantID, email string) (domain.User, error) {
	var u domain.User
	err := sqlx.GetContext(ctx, r.q, &u,
		`SELECT `+userColumns+` FROM users WHERE tenant_id = ? AND email = ?`, tenantID, strings.ToLower(email))
	return u, mapNotFound(err)
}

func (r *usersRepo) ListUsers(ctx context.Context, tenantID string) ([]domain.User, error) {
	var out []domain.User
	err := sqlx.SelectContext(ctx, r.q, &out,
		`SELECT `+userColumns+` FROM users WHERE tenant_id = ? ORDER BY created_at, id`, tenantID)
	return out, err
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, tenantID, userID, hash string) error {
	return mustAffect(r.q.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE tenant_id = ? AND id = ?`,
		hash, nowUTC(), tenantID, userID))
}

func (r *usersRepo) SetMFA(ctx context.Context, tenantID, userID string, enabled bool, secret string) error {
	return mustAffect(r.q.ExecContext(ctx,
		`UPDATE users SET mfa_enabled = ?, mfa_secret = ?, updated_at = ? WHERE tenant_id = ? AND id = ?`,
		enabled, secret, nowUTC(), tenantID, userID))
}

func (r *usersRepo) DeleteUser(ctx context.Context, tenantID, userID string) error {
	return mustAffect(r.q.ExecContext(ctx,
		`DELETE FROM users WHERE tenant_id = ? AND id = ?`, tenantID, userID))
}
