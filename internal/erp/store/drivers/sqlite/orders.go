package sqlite

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
)

const orderColumns = `id, tenant_id, number, customer_id, source, status, currency, vat_rate,
	reverse_charge, subtotal, vat_amount, total, notes, confirmed_at, shipped_at, delivered_at,
	cancelled_at, created_by, created_at, updated_at`

const orderItemColumns = `id, order_id, product_id, description, quantity, unit_price, discount_rate, line_total`

type ordersRepo struct {
	q sqlx.ExtContext
}

func (r *ordersRepo) CreateOrder(ctx context.Context, o domain.Order) error {
	_, err := sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES (:id, :tenant_id, :number, :customer_id, :source, :status, :currency, :vat_rate,
			:reverse_charge, :subtotal, :vat_amount, :total, :notes, :confirmed_at, :shipped_at, :delivered_at,
			:cancelled_at, :created_by, :created_at, :updated_at)`, o)
	if err != nil {
		return mapConstraint(err)
	}

	for _, it := range o.Items {
		it.OrderID = o.ID
		_, err := sqlx.NamedExecContext(ctx, r.q, `
			INSERT INTO order_items (`+orderItemColumns+`)
			VALUES (:id, :order_id, :product_id, :description, :quantity, :unit_price, :discount_rate, :line_total)`, it)
		if err != nil {
			return mapConstraint(err)
		}
	}
	return nil
}

func (r *ordersRepo) GetOrder(ctx context.Context, tenantID, id string) (domain.Order, error) {
	var o domain.Order
	err := sqlx.GetContext(ctx, r.q, &o,
		`SELECT `+orderColumns+` FROM orders WHERE tenant_id = ? AND id = ?`, tenantID, id)
	if err != nil {
		return o, mapNotFound(err)
	}
	o.Items, err = orderItems(ctx, r.q, o.ID)
	return o, err
}

func (r *ordersRepo) ListOrders(ctx context.Context, tenantID string, f domain.OrderFilter) ([]domain.Order, error) {
	var (
		sb   strings.Builder
		args = []any{tenantID}
	)
	sb.WriteString(`SELECT ` + orderColumns + ` FROM orders WHERE tenant_id = ?`)
	if f.CustomerID != "" {
		sb.WriteString(` AND customer_id = ?`)
		args = append(args, f.CustomerID)
	}
	if f.Status != "" {
		sb.WriteString(` AND status = ?`)
		args = append(args, f.Status)
	}
	if f.Source != "" {
		sb.WriteString(` AND source = ?`)
		args = append(args, f.Source)
	}
	limit, offset := page(f.Limit, f.Offset)
	sb.WriteString(` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`)
	args = append(args, limit, offset)

	var out []domain.Order
	if err := sqlx.SelectContext(ctx, r.q, &out, sb.String(), args...); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]string, len(out))
	index := make(map[string]int, len(out))
	for i, o := range out {
		ids[i] = o.ID
		index[o.ID] = i
	}
	query, qargs, err := sqlx.In(`SELECT `+orderItemColumns+` FROM order_items WHERE order_id IN (?) ORDER BY rowid`, ids)
	if err != nil {
		return nil, err
	}
	var items []domain.OrderItem
	if err := sqlx.SelectContext(ctx, r.q, &items, r.q.Rebind(query), qargs...); err != nil {
		return nil, err
	}
	for _, it := range items {
		i := index[it.OrderID]
		out[i].Items = append(out[i].Items, it)
	}
	return out, nil
}

func (r *ordersRepo) UpdateOrderStatus(ctx context.Context, o domain.Order) error {
	return mustAffect(sqlx.NamedExecContext(ctx, r.q, `
		UPDATE orders SET status = :status, confirmed_at = :confirmed_at, shipped_at = :shipped_at,
			delivered_at = :delivered_at, cancelled_at = :cancelled_at, updated_at = :updated_at
		WHERE tenant_id = :tenant_id AND id = :id`, o))
}

func orderItems(ctx context.Context, q sqlx.ExtContext, orderID string) ([]domain.OrderItem, error) {
	var items []domain.OrderItem
	err := sqlx.SelectContext(ctx, q, &items,
		`SELECT `+orderItemColumns+` FROM order_items WHERE order_id = ? ORDER BY rowid`, orderID)
	return items, err
}
