package sqlite

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
)

const customerColumns = `id, tenant_id, name, email, country, vat_number, vat_validated,
	discount_rate, is_pro, created_at, updated_at`

type customersRepo struct {
	q sqlx.ExtContext
}

func (r *customersRepo) CreateCustomer(ctx context.Context, c domain.Customer) error {
	_, err := sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO customers (`+customerColumns+`)
		VALUES (:id, :tenant_id, :name, :email, :country, :vat_number, :vat_validated,
			:discount_rate, :is_pro, :created_at, :updated_at)`, c)
	return mapConstraint(err)
}

func (r *customersRepo) UpdateCustomer(ctx context.Context, c domain.Customer) error {
	return mustAffect(sqlx.NamedExecContext(ctx, r.q, `
		UPDATE customers SET name = :name, email = :email, country = :country, vat_number = :vat_number,
			vat_validated = :vat_validated, discount_rate = :discount_rate, is_pro = :is_pro,
			updated_at = :updated_at
		WHERE tenant_id = :tenant_id AND id = :id`, c))
}

func (r *customersRepo) GetCustomer(ctx context.Context, tenantID, id string) (domain.Customer, error) {
	var c domain.Customer
	err := sqlx.GetContext(ctx, r.q, &c,
		`SELECT `+customerColumns+` FROM customers WHERE tenant_id = ? AND id = ?`, tenantID, id)
	return c, mapNotFound(err)
}

func (r *customersRepo) ListCustomers(ctx context.Context, tenantID string) ([]domain.Customer, error) {
	var out []domain.Customer
	err := sqlx.SelectContext(ctx, r.q, &out,
		`SELECT `+customerColumns+` FROM customers WHERE tenant_id = ? ORDER BY name, id`, tenantID)
	return out, err
}

func (r *customersRepo) SetVATValidated(ctx context.Context, tenantID, id string, validated bool) error {
	return mustAffect(r.q.ExecContext(ctx,
		`UPDATE customers SET vat_validated = ?, updated_at = ? WHERE tenant_id = ? AND id = ?`,
		validated, nowUTC(), tenantID, id))
}
