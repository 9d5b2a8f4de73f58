package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SupplierKind string

const (
	SupplierConsignment SupplierKind = "consignment"
	SupplierPurchase    SupplierKind = "purchase"
)

func (k SupplierKind) Valid() bool {
	return k == SupplierConsignment || k == SupplierPurchase
}

type Supplier struct {
	ID             string          `db:"id" json:"id"`
	TenantID       string          `db:"tenant_id" json:"tenant_id"`
	Name           string          `db:"name" json:"name"`
	Email          string          `db:"email" json:"email"`
	Country        string          `db:"country" json:"country"`
	Kind           SupplierKind    `db:"kind" json:"kind"`
	CommissionRate decimal.Decimal `db:"commission_rate" json:"commission_rate"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

type SupplierPayout struct {
	ID          string          `db:"id" json:"id"`
	TenantID    string          `db:"tenant_id" json:"tenant_id"`
	SupplierID  string          `db:"supplier_id" json:"supplier_id"`
	PeriodStart time.Time       `db:"period_start" json:"period_start"`
	PeriodEnd   time.Time       `db:"period_end" json:"period_end"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Reference   string          `db:"reference" json:"reference"`
	PaidAt      time.Time       `db:"paid_at" json:"paid_at"`
}

// SoldLine is one order line joined with its product, as read for
// consignment statements, margins and the dashboard.
type SoldLine struct {
	OrderID      string          `db:"order_id" json:"order_id"`
	OrderNumber  string          `db:"order_number" json:"order_number"`
	ProductID    string          `db:"product_id" json:"product_id"`
	SKU          string          `db:"sku" json:"sku"`
	Title        string          `db:"title" json:"title"`
	SupplierID   string          `db:"supplier_id" json:"supplier_id,omitempty"`
	Quantity     int             `db:"quantity" json:"quantity"`
	UnitPrice    decimal.Decimal `db:"unit_price" json:"unit_price"`
	DiscountRate decimal.Decimal `db:"discount_rate" json:"discount_rate"`
	LineTotal    decimal.Decimal `db:"line_total" json:"line_total"`
	CostPrice    decimal.Decimal `db:"cost_price" json:"cost_price"`
	ConfirmedAt  time.Time       `db:"confirmed_at" json:"confirmed_at"`
}

// PayoutStatement is what a consignment supplier is owed for a period.
type PayoutStatement struct {
	SupplierID     string          `json:"supplier_id"`
	PeriodStart    time.Time       `json:"period_start"`
	PeriodEnd      time.Time       `json:"period_end"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	Lines          []SoldLine      `json:"lines"`
	GrossSales     decimal.Decimal `json:"gross_sales"`
	Commission     decimal.Decimal `json:"commission"`
	NetPayable     decimal.Decimal `json:"net_payable"`
	AlreadyPaid    decimal.Decimal `json:"already_paid"`
	Outstanding    decimal.Decimal `json:"outstanding"`
}

// ProductMargin is revenue minus cost for one product over a period.
type ProductMargin struct {
	ProductID  string          `json:"product_id"`
	SKU        string          `json:"sku"`
	Title      string          `json:"title"`
	SupplierID string          `json:"supplier_id"`
	Quantity   int             `json:"quantity"`
	Revenue    decimal.Decimal `json:"revenue"`
	Cost       decimal.Decimal `json:"cost"`
	Margin     decimal.Decimal `json:"margin"`
}
