package sqlite

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
)

type payoutsRepo struct {
	q sqlx.ExtContext
}

func (r *payoutsRepo) CreatePayout(ctx context.Context, p domain.SupplierPayout) error {
	p.PeriodStart = p.PeriodStart.UTC()
	p.PeriodEnd = p.PeriodEnd.UTC()
	p.PaidAt = p.PaidAt.UTC()
	_, err := sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO supplier_payouts (id, tenant_id, supplier_id, period_start, period_end, amount, reference, paid_at)
		VALUES (:id, :tenant_id, :supplier_id, :period_start, :period_end, :amount, :reference, :paid_at)`, p)
	return mapConstraint(err)
}

func (r *payoutsRepo) ListPayouts(ctx context.Context, tenantID, supplierID string, from, to time.Time) ([]domain.SupplierPayout, error) {
	var out []domain.SupplierPayout
	err := sqlx.SelectContext(ctx, r.q, &out, `
		SELECT id, tenant_id, supplier_id, period_start, period_end, amount, reference, paid_at
		FROM supplier_payouts
		WHERE tenant_id = ? AND supplier_id = ? AND period_start < ? AND period_end > ?
		ORDER BY paid_at, id`, tenantID, supplierID, to.UTC(), from.UTC())
	return out, err
}
