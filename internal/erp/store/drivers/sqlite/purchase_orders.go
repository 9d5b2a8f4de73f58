package sqlite

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
)

const poColumns = `id, tenant_id, number, supplier_id, status, notes, expected_at, sent_at,
	confirmed_at, received_at, closed_at, cancelled_at, created_by, created_at, updated_at`

type purchaseOrdersRepo struct {
	q sqlx.ExtContext
}

func (r *purchaseOrdersRepo) CreatePurchaseOrder(ctx context.Context, po domain.PurchaseOrder) error {
	_, err := sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO purchase_orders (`+poColumns+`)
		VALUES (:id, :tenant_id, :number, :supplier_id, :status, :notes, :expected_at, :sent_at,
			:confirmed_at, :received_at, :closed_at, :cancelled_at, :created_by, :created_at, :updated_at)`, po)
	if err != nil {
		return mapConstraint(err)
	}
	return r.insertItems(ctx, po.ID, po.Items)
}

func (r *purchaseOrdersRepo) insertItems(ctx context.Context, poID string, items []domain.PurchaseOrderItem) error {
	for _, it := range items {
		it.PurchaseOrderID = poID
		_, err := sqlx.NamedExecContext(ctx, r.q, `
			INSERT INTO purchase_order_items (id, purchase_order_id, product_id, quantity_ordered, quantity_received, unit_cost)
			VALUES (:id, :purchase_order_id, :product_id, :quantity_ordered, :quantity_received, :unit_cost)`, it)
		if err != nil {
			return mapConstraint(err)
		}
	}
	return nil
}

func (r *purchaseOrdersRepo) GetPurchaseOrder(ctx context.Context, tenantID, id string) (domain.PurchaseOrder, error) {
	var po domain.PurchaseOrder
	err := sqlx.GetContext(ctx, r.q, &po,
		`SELECT `+poColumns+` FROM purchase_orders WHERE tenant_id = ? AND id = ?`, tenantID, id)
	if err != nil {
		return po, mapNotFound(err)
	}

	pos := []domain.PurchaseOrder{po}
	if err := loadPOItems(ctx, r.q, pos); err != nil {
		return po, err
	}
	return pos[0], nil
}

func (r *purchaseOrdersRepo) ListPurchaseOrders(ctx context.Context, tenantID string, f domain.POFilter) ([]domain.PurchaseOrder, error) {
	var (
		sb   strings.Builder
		args = []any{tenantID}
	)
	sb.WriteString(`SELECT ` + poColumns + ` FROM purchase_orders WHERE tenant_id = ?`)
	if f.Status != "" {
		sb.WriteString(` AND status = ?`)
		args = append(args, f.Status)
	}
	if f.SupplierID != "" {
		sb.WriteString(` AND supplier_id = ?`)
		args = append(args, f.SupplierID)
	}
	limit, offset := page(f.Limit, f.Offset)
	sb.WriteString(` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`)
	args = append(args, limit, offset)

	var out []domain.PurchaseOrder
	if err := sqlx.SelectContext(ctx, r.q, &out, sb.String(), args...); err != nil {
		return nil, err
	}
	return out, loadPOItems(ctx, r.q, out)
}

func (r *purchaseOrdersRepo) UpdatePurchaseOrderStatus(ctx context.Context, po domain.PurchaseOrder) error {
	return mustAffect(sqlx.NamedExecContext(ctx, r.q, `
		UPDATE purchase_orders SET status = :status, sent_at = :sent_at, confirmed_at = :confirmed_at,
			received_at = :received_at, closed_at = :closed_at, cancelled_at = :cancelled_at,
			updated_at = :updated_at
		WHERE tenant_id = :tenant_id AND id = :id`, po))
}

func (r *purchaseOrdersRepo) UpdatePurchaseOrderHeader(ctx context.Context, po domain.PurchaseOrder) error {
	return mustAffect(sqlx.NamedExecContext(ctx, r.q, `
		UPDATE purchase_orders SET supplier_id = :supplier_id, notes = :notes, expected_at = :expected_at,
			updated_at = :updated_at
		WHERE tenant_id = :tenant_id AND id = :id`, po))
}

func (r *purchaseOrdersRepo) ReplaceItems(ctx context.Context, tenantID, poID string, items []domain.PurchaseOrderItem) error {
	_, err := r.q.ExecContext(ctx, `
		DELETE FROM purchase_order_items
		WHERE purchase_order_id = (SELECT id FROM purchase_orders WHERE tenant_id = ? AND id = ?)`, tenantID, poID)
	if err != nil {
		return err
	}
	return r.insertItems(ctx, poID, items)
}

func (r *purchaseOrdersRepo) SetItemReceived(ctx context.Context, itemID string, qty int) error {
	return mustAffect(r.q.ExecContext(ctx,
		`UPDATE purchase_order_items SET quantity_received = ? WHERE id = ?`, qty, itemID))
}

// loadPOItems fills Items of every PO in one query.
func loadPOItems(ctx context.Context, q sqlx.ExtContext, pos []domain.PurchaseOrder) error {
	if len(pos) == 0 {
		return nil
	}
	ids := make([]string, len(pos))
	index := make(map[string]int, len(pos))
	for i, po := range pos {
		ids[i] = po.ID
		index[po.ID] = i
	}

	query, args, err := sqlx.In(`
		SELECT id, purchase_order_id, product_id, quantity_ordered, quantity_received, unit_cost
		FROM purchase_order_items WHERE purchase_order_id IN (?) ORDER BY rowid`, ids)
	if err != nil {
		return err
	}

	var items []domain.PurchaseOrderItem
	if err := sqlx.SelectContext(ctx, q, &items, q.Rebind(query), args...); err != nil {
		return err
	}
	for _, it := range items {
		i := index[it.PurchaseOrderID]
		pos[i].Items = append(pos[i].Items, it)
	}
	return nil
}
