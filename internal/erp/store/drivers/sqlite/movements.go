package sqlite

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
)

type movementsRepo struct {
	q sqlx.ExtContext
}

func (r *movementsRepo) CreateMovement(ctx context.Context, m domain.StockMovement) error {
	_, err := sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO stock_movements (id, tenant_id, product_id, kind, quantity_change, quantity_before,
			quantity_after, reference_type, reference_id, note, created_by, created_at)
		VALUES (:id, :tenant_id, :product_id, :kind, :quantity_change, :quantity_before,
			:quantity_after, :reference_type, :reference_id, :note, :created_by, :created_at)`, m)
	return mapConstraint(err)
}

// ListMovements returns the newest movements of a product first.
func (r *movementsRepo) ListMovements(ctx context.Context, tenantID, productID string, limit int) ([]domain.StockMovement, error) {
	limit, _ = page(limit, 0)
	var out []domain.StockMovement
	err := sqlx.SelectContext(ctx, r.q, &out, `
		SELECT id, tenant_id, product_id, kind, quantity_change, quantity_before, quantity_after,
			reference_type, reference_id, note, created_by, created_at
		FROM stock_movements
		WHERE tenant_id = ? AND product_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, tenantID, productID, limit)
	return out, err
}
