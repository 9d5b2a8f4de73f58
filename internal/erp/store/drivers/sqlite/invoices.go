package sqlite

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
)

const invoiceColumns = `id, tenant_id, number, order_id, customer_id, status, currency, issued_at,
	due_at, paid_at, voided_at, subtotal, vat_rate, vat_amount, total, reverse_charge`

type invoicesRepo struct {
	q sqlx.ExtContext
}

func (r *invoicesRepo) CreateInvoice(ctx context.Context, inv domain.Invoice) error {
	_, err := sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO invoices (`+invoiceColumns+`)
		VALUES (:id, :tenant_id, :number, :order_id, :customer_id, :status, :currency, :issued_at,
			:due_at, :paid_at, :voided_at, :subtotal, :vat_rate, :vat_amount, :total, :reverse_charge)`, inv)
	return mapConstraint(err)
}

// GetInvoice loads the invoice with its lines. Lines are the order lines,
// which are frozen once the order is confirmed.
func (r *invoicesRepo) GetInvoice(ctx context.Context, tenantID, id string) (domain.Invoice, error) {
	return r.getWithLines(ctx, `tenant_id = ? AND id = ?`, tenantID, id)
}

func (r *invoicesRepo) GetActiveInvoiceForOrder(ctx context.Context, tenantID, orderID string) (domain.Invoice, error) {
	return r.getWithLines(ctx, `tenant_id = ? AND order_id = ? AND status <> 'void'`, tenantID, orderID)
}

func (r *invoicesRepo) getWithLines(ctx context.Context, where string, args ...any) (domain.Invoice, error) {
	var inv domain.Invoice
	err := sqlx.GetContext(ctx, r.q, &inv, `SELECT `+invoiceColumns+` FROM invoices WHERE `+where, args...)
	if err != nil {
		return inv, mapNotFound(err)
	}
	inv.Lines, err = orderItems(ctx, r.q, inv.OrderID)
	return inv, err
}

func (r *invoicesRepo) ListInvoices(ctx context.Context, tenantID string, f domain.InvoiceFilter) ([]domain.Invoice, error) {
	var (
		sb   strings.Builder
		args = []any{tenantID}
	)
	sb.WriteString(`SELECT ` + invoiceColumns + ` FROM invoices WHERE tenant_id = ?`)
	if f.CustomerID != "" {
		sb.WriteString(` AND customer_id = ?`)
		args = append(args, f.CustomerID)
	}
	if f.Status != "" {
		sb.WriteString(` AND status = ?`)
		args = append(args, f.Status)
	}
	if !f.From.IsZero() {
		sb.WriteString(` AND issued_at >= ?`)
		args = append(args, f.From.UTC())
	}
	if !f.To.IsZero() {
		sb.WriteString(` AND issued_at < ?`)
		args = append(args, f.To.UTC())
	}
	limit, offset := page(f.Limit, f.Offset)
	sb.WriteString(` ORDER BY issued_at DESC, id DESC LIMIT ? OFFSET ?`)
	args = append(args, limit, offset)

	var out []domain.Invoice
	err := sqlx.SelectContext(ctx, r.q, &out, sb.String(), args...)
	return out, err
}

func (r *invoicesRepo) UpdateInvoiceStatus(ctx context.Context, inv domain.Invoice) error {
	return mustAffect(sqlx.NamedExecContext(ctx, r.q, `
		UPDATE invoices SET status = :status, paid_at = :paid_at, voided_at = :voided_at
		WHERE tenant_id = :tenant_id AND id = :id`, inv))
}
