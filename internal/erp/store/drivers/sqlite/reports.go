package sqlite

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
)

type reportsRepo struct {
	q sqlx.ExtContext
}

func (r *reportsRepo) SoldLines(ctx context.Context, tenantID, supplierID string, from, to time.Time) ([]domain.SoldLine, error) {
	query := `
		SELECT o.id AS order_id, o.number AS order_number, oi.product_id, p.sku, p.title,
			p.supplier_id, oi.quantity, oi.unit_price, oi.discount_rate, oi.line_total,
			p.cost_price, o.confirmed_at
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		WHERE o.tenant_id = ?
			AND o.status IN ('confirmed', 'shipped', 'delivered')
			AND o.confirmed_at >= ? AND o.confirmed_at < ?`
	args := []any{tenantID, from.UTC(), to.UTC()}
	if supplierID != "" {
		query += ` AND p.supplier_id = ?`
		args = append(args, supplierID)
	}
	query += ` ORDER BY o.confirmed_at, o.number, oi.rowid`

	var out []domain.SoldLine
	err := sqlx.SelectContext(ctx, r.q, &out, query, args...)
	return out, err
}

func (r *reportsRepo) SoldOrders(ctx context.Context, tenantID string, from, to time.Time) ([]domain.Order, error) {
	var out []domain.Order
	err := sqlx.SelectContext(ctx, r.q, &out, `
		SELECT `+orderColumns+` FROM orders
		WHERE tenant_id = ? AND status IN ('confirmed', 'shipped', 'delivered')
			AND confirmed_at >= ? AND confirmed_at < ?
		ORDER BY confirmed_at, id`, tenantID, from.UTC(), to.UTC())
	return out, err
}

func (r *reportsRepo) OpenPurchaseOrders(ctx context.Context, tenantID string) ([]domain.PurchaseOrder, error) {
	var out []domain.PurchaseOrder
	err := sqlx.SelectContext(ctx, r.q, &out, `
		SELECT `+poColumns+` FROM purchase_orders
		WHERE tenant_id = ? AND status IN ('sent', 'confirmed', 'partially_received')
		ORDER BY created_at, id`, tenantID)
	if err != nil {
		return nil, err
	}
	return out, loadPOItems(ctx, r.q, out)
}
