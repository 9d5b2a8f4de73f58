package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID               string          `db:"id" json:"id"`
	TenantID         string          `db:"tenant_id" json:"tenant_id"`
	SKU              string          `db:"sku" json:"sku"`
	Title            string          `db:"title" json:"title"`
	Artist           string          `db:"artist" json:"artist"`
	Label            string          `db:"label" json:"label"`
	CatalogNumber    string          `db:"catalog_number" json:"catalog_number"`
	Format           string          `db:"format" json:"format"`
	Barcode          string          `db:"barcode" json:"barcode"`
	ReleaseYear      int             `db:"release_year" json:"release_year,omitempty"`
	Genre            string          `db:"genre" json:"genre"`
	DiscogsReleaseID int64           `db:"discogs_release_id" json:"discogs_release_id,omitempty"`
	SupplierID       string          `db:"supplier_id" json:"supplier_id,omitempty"`
	CostPrice        decimal.Decimal `db:"cost_price" json:"cost_price"`
	WholesalePrice   decimal.Decimal `db:"wholesale_price" json:"wholesale_price"`
	RetailPrice      decimal.Decimal `db:"retail_price" json:"retail_price"`
	StockQuantity    int             `db:"stock_quantity" json:"stock_quantity"`
	ReorderPoint     int             `db:"reorder_point" json:"reorder_point"`
	Active           bool            `db:"active" json:"active"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`
}

// LowStock reports whether the product sits at or under its reorder point.
func (p Product) LowStock() bool {
	return p.StockQuantity <= p.ReorderPoint
}

// ListPrice is the undiscounted unit price for a buyer: wholesale for pro
// buyers and portal orders, retail otherwise.
func (p Product) ListPrice(wholesale bool) decimal.Decimal {
	if wholesale {
		return p.WholesalePrice
	}
	return p.RetailPrice
}

// ProductFilter narrows product listings. Zero values mean "any".
type ProductFilter struct {
	Search     string
	SupplierID string
	LowStock   bool
	ActiveOnly bool
	InStock    bool
	Limit      int
	Offset     int
}

type MovementKind string

const (
	MovementAdjustment      MovementKind = "adjustment"
	MovementPurchaseReceipt MovementKind = "purchase_receipt"
	MovementSale            MovementKind = "sale"
	MovementSaleCancelled   MovementKind = "sale_cancelled"
	MovementImport          MovementKind = "import"
)

// StockMovement is an append-only ledger row. Every change to
// Product.StockQuantity has exactly one.
type StockMovement struct {
	ID             string       `db:"id" json:"id"`
	TenantID       string       `db:"tenant_id" json:"tenant_id"`
	ProductID      string       `db:"product_id" json:"product_id"`
	Kind           MovementKind `db:"kind" json:"kind"`
	QuantityChange int          `db:"quantity_change" json:"quantity_change"`
	QuantityBefore int          `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  int          `db:"quantity_after" json:"quantity_after"`
	ReferenceType  string       `db:"reference_type" json:"reference_type,omitempty"`
	ReferenceID    string       `db:"reference_id" json:"reference_id,omitempty"`
	Note           string       `db:"note" json:"note,omitempty"`
	CreatedBy      string       `db:"created_by" json:"created_by,omitempty"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
}

// ImportReport summarises a catalog CSV import.
type ImportReport struct {
	Created int           `json:"created"`
	Updated int           `json:"updated"`
	Errors  []ImportError `json:"errors"`
}

type ImportError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}
