package sqlite

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
)

const productColumns = `id, tenant_id, sku, title, artist, label, catalog_number, format, barcode,
	release_year, genre, discogs_release_id, supplier_id, cost_price, wholesale_price, retail_price,
	stock_quantity, reorder_point, active, created_at, updated_at`

type productsRepo struct {
	q sqlx.ExtContext
}

func (r *productsRepo) CreateProduct(ctx context.Context, p domain.Product) error {
	_, err := sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO products (`+productColumns+`)
		VALUES (:id, :tenant_id, :sku, :title, :artist, :label, :catalog_number, :format, :barcode,
			:release_year, :genre, :discogs_release_id, :supplier_id, :cost_price, :wholesale_price, :retail_price,
			:stock_quantity, :reorder_point, :active, :created_at, :updated_at)`, p)
	return mapConstraint(err)
}

// UpdateProduct writes catalog fields. Stock is only ever changed through
// SetStock alongside a movement.
func (r *productsRepo) UpdateProduct(ctx context.Context, p domain.Product) error {
	return mustAffect(sqlx.NamedExecContext(ctx, r.q, `
		UPDATE products SET
			sku = :sku, title = :title, artist = :artist, label = :label,
			catalog_number = :catalog_number, format = :format, barcode = :barcode,
			release_year = :release_year, genre = :genre, discogs_release_id = :discogs_release_id,
			supplier_id = :supplier_id, cost_price = :cost_price, wholesale_price = :wholesale_price,
			retail_price = :retail_price, reorder_point = :reorder_point, active = :active,
			updated_at = :updated_at
		WHERE tenant_id = :tenant_id AND id = :id`, p))
}

func (r *productsRepo) GetProduct(ctx context.Context, tenantID, id string) (domain.Product, error) {
	var p domain.Product
	err := sqlx.GetContext(ctx, r.q, &p,
		`SELECT `+productColumns+` FROM products WHERE tenant_id = ? AND id = ?`, tenantID, id)
	return p, mapNotFound(err)
}

func (r *productsRepo) GetProductBySKU(ctx context.Context, tenantID, sku string) (domain.Product, error) {
	var p domain.Product
	err := sqlx.GetContext(ctx, r.q, &p,
		`SELECT `+productColumns+` FROM products WHERE tenant_id = ? AND sku = ?`, tenantID, sku)
	return p, mapNotFound(err)
}

func (r *productsRepo) ListProducts(ctx context.Context, tenantID string, f domain.ProductFilter) ([]domain.Product, error) {
	var (
		sb   strings.Builder
		args = []any{tenantID}
	)
	sb.WriteString(`SELECT ` + productColumns + ` FROM products WHERE tenant_id = ?`)

	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + s + "%"
		sb.WriteString(` AND (sku LIKE ? OR title LIKE ? OR artist LIKE ? OR label LIKE ? OR catalog_number LIKE ? OR barcode = ?)`)
		args = append(args, like, like, like, like, like, s)
	}
	if f.SupplierID != "" {
		sb.WriteString(` AND supplier_id = ?`)
		args = append(args, f.SupplierID)
	}
	if f.LowStock {
		sb.WriteString(` AND stock_quantity <= reorder_point`)
	}
	if f.ActiveOnly {
		sb.WriteString(` AND active = 1`)
	}
	if f.InStock {
		sb.WriteString(` AND stock_quantity > 0`)
	}

	limit, offset := page(f.Limit, f.Offset)
	sb.WriteString(` ORDER BY artist, title, sku LIMIT ? OFFSET ?`)
	args = append(args, limit, offset)

	var out []domain.Product
	err := sqlx.SelectContext(ctx, r.q, &out, sb.String(), args...)
	return out, err
}

func (r *productsRepo) SetStock(ctx context.Context, tenantID, id string, qty int) error {
	return mustAffect(r.q.ExecContext(ctx,
		`UPDATE products SET stock_quantity = ?, updated_at = ? WHERE tenant_id = ? AND id = ?`,
		qty, nowUTC(), tenantID, id))
}

func (r *productsRepo) SetCostPrice(ctx context.Context, tenantID, id string, cost decimal.Decimal) error {
	return mustAffect(r.q.ExecContext(ctx,
		`UPDATE products SET cost_price = ?, updated_at = ? WHERE tenant_id = ? AND id = ?`,
		cost.String(), nowUTC(), tenantID, id))
}

func (r *productsRepo) SetActive(ctx context.Context, tenantID, id string, active bool) error {
	return mustAffect(r.q.ExecContext(ctx,
		`UPDATE products SET active = ?, updated_at = ? WHERE tenant_id = ? AND id = ?`,
		active, nowUTC(), tenantID, id))
}

func (r *productsRepo) CountLowStock(ctx context.Context, tenantID string) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.q, &n,
		`SELECT COUNT(*) FROM products WHERE tenant_id = ? AND active = 1 AND stock_quantity <= reorder_point`, tenantID)
	return n, err
}
