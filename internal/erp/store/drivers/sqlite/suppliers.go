package sqlite

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
)

const supplierColumns = `id, tenant_id, name, email, country, kind, commission_rate, created_at, updated_at`

type suppliersRepo struct {
	q sqlx.ExtContext
}

func (r *suppliersRepo) CreateSupplier(ctx context.Context, s domain.Supplier) error {
	_, err := sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO suppliers (`+supplierColumns+`)
		VALUES (:id, :tenant_id, :name, :email, :country, :kind, :commission_rate, :created_at, :updated_at)`, s)
	return mapConstraint(err)
}

func (r *suppliersRepo) UpdateSupplier(ctx context.Context, s domain.Supplier) error {
	return mustAffect(sqlx.NamedExecContext(ctx, r.q, `
		UPDATE suppliers SET name = :name, email = :email, country = :country, kind = :kind,
			commission_rate = :commission_rate, updated_at = :updated_at
		WHERE tenant_id = :tenant_id AND id = :id`, s))
}

func (r *suppliersRepo) GetSupplier(ctx context.Context, tenantID, id string) (domain.Supplier, error) {
	var s domain.Supplier
	err := sqlx.GetContext(ctx, r.q, &s,
		`SELECT `+supplierColumns+` FROM suppliers WHERE tenant_id = ? AND id = ?`, tenantID, id)
	return s, mapNotFound(err)
}

func (r *suppliersRepo) ListSuppliers(ctx context.Context, tenantID string) ([]domain.Supplier, error) {
	var out []domain.Supplier
	err := sqlx.SelectContext(ctx, r.q, &out,
		`SELECT `+supplierColumns+` FROM suppliers WHERE tenant_id = ? ORDER BY name, id`, tenantID)
	return out, err
}

// DeleteSupplier fails with a foreign key error while purchase orders still
// reference the supplier.
func (r *suppliersRepo) DeleteSupplier(ctx context.Context, tenantID, id string) error {
	return mustAffect(r.q.ExecContext(ctx,
		`DELETE FROM suppliers WHERE tenant_id = ? AND id = ?`, tenantID, id))
}
