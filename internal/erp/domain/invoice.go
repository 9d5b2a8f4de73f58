package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceIssued InvoiceStatus = "issued"
	InvoicePaid   InvoiceStatus = "paid"
	InvoiceVoid   InvoiceStatus = "void"
)

// DefaultPaymentTerms is the due date offset for new invoices.
const DefaultPaymentTerms = 30 * 24 * time.Hour

type Invoice struct {
	ID            string          `db:"id" json:"id"`
	TenantID      string          `db:"tenant_id" json:"tenant_id"`
	Number        string          `db:"number" json:"number"`
	OrderID       string          `db:"order_id" json:"order_id"`
	CustomerID    string          `db:"customer_id" json:"customer_id"`
	Status        InvoiceStatus   `db:"status" json:"status"`
	Currency      string          `db:"currency" json:"currency"`
	IssuedAt      time.Time       `db:"issued_at" json:"issued_at"`
	DueAt         time.Time       `db:"due_at" json:"due_at"`
	PaidAt        *time.Time      `db:"paid_at" json:"paid_at,omitempty"`
	VoidedAt      *time.Time      `db:"voided_at" json:"voided_at,omitempty"`
	Subtotal      decimal.Decimal `db:"subtotal" json:"subtotal"`
	VATRate       decimal.Decimal `db:"vat_rate" json:"vat_rate"`
	VATAmount     decimal.Decimal `db:"vat_amount" json:"vat_amount"`
	Total         decimal.Decimal `db:"total" json:"total"`
	ReverseCharge bool            `db:"reverse_charge" json:"reverse_charge"`
	Lines         []OrderItem     `db:"-" json:"lines"`
}

// InvoiceFilter narrows invoice listings.
type InvoiceFilter struct {
	CustomerID string
	Status     InvoiceStatus
	From, To   time.Time
	Limit      int
	Offset     int
}
