package domain

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	ID           string          `db:"id" json:"id"`
	TenantID     string          `db:"tenant_id" json:"tenant_id"`
	Name         string          `db:"name" json:"name"`
	Email        string          `db:"email" json:"email"`
	Country      string          `db:"country" json:"country"`
	VATNumber    string          `db:"vat_number" json:"vat_number,omitempty"`
	VATValidated bool            `db:"vat_validated" json:"vat_validated"`
	DiscountRate decimal.Decimal `db:"discount_rate" json:"discount_rate"`
	IsPro        bool            `db:"is_pro" json:"is_pro"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderShipped, OrderCancelled},
	OrderShipped:   {OrderDelivered},
}

func (s OrderStatus) CanTransition(to OrderStatus) bool {
	return slices.Contains(orderTransitions[s], to)
}

// Sold reports whether stock has left the warehouse for an order in s.
func (s OrderStatus) Sold() bool {
	return s == OrderConfirmed || s == OrderShipped || s == OrderDelivered
}

type OrderSource string

const (
	SourceBackoffice OrderSource = "backoffice"
	SourcePortal     OrderSource = "portal"
)

type Order struct {
	ID            string          `db:"id" json:"id"`
	TenantID      string          `db:"tenant_id" json:"tenant_id"`
	Number        string          `db:"number" json:"number"`
	CustomerID    string          `db:"customer_id" json:"customer_id"`
	Source        OrderSource     `db:"source" json:"source"`
	Status        OrderStatus     `db:"status" json:"status"`
	Currency      string          `db:"currency" json:"currency"`
	VATRate       decimal.Decimal `db:"vat_rate" json:"vat_rate"`
	ReverseCharge bool            `db:"reverse_charge" json:"reverse_charge"`
	Subtotal      decimal.Decimal `db:"subtotal" json:"subtotal"`
	VATAmount     decimal.Decimal `db:"vat_amount" json:"vat_amount"`
	Total         decimal.Decimal `db:"total" json:"total"`
	Notes         string          `db:"notes" json:"notes"`
	ConfirmedAt   *time.Time      `db:"confirmed_at" json:"confirmed_at,omitempty"`
	ShippedAt     *time.Time      `db:"shipped_at" json:"shipped_at,omitempty"`
	DeliveredAt   *time.Time      `db:"delivered_at" json:"delivered_at,omitempty"`
	CancelledAt   *time.Time      `db:"cancelled_at" json:"cancelled_at,omitempty"`
	CreatedBy     string          `db:"created_by" json:"created_by"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
	Items         []OrderItem     `db:"-" json:"items"`
}

type OrderItem struct {
	ID           string          `db:"id" json:"id"`
	OrderID      string          `db:"order_id" json:"order_id"`
	ProductID    string          `db:"product_id" json:"product_id"`
	Description  string          `db:"description" json:"description"`
	Quantity     int             `db:"quantity" json:"quantity"`
	UnitPrice    decimal.Decimal `db:"unit_price" json:"unit_price"`
	DiscountRate decimal.Decimal `db:"discount_rate" json:"discount_rate"`
	LineTotal    decimal.Decimal `db:"line_total" json:"line_total"`
}

// Recalculate sets every line total, the subtotal, VAT and total. VAT is
// computed once on the subtotal, zero under reverse charge.
func (o *Order) Recalculate() {
	sub := decimal.Zero
	for i := range o.Items {
		it := &o.Items[i]
		it.LineTotal = LineTotal(it.Quantity, it.UnitPrice, it.DiscountRate)
		sub = sub.Add(it.LineTotal)
	}
	o.Subtotal = sub
	if o.ReverseCharge {
		o.VATRate = decimal.Zero
	}
	o.VATAmount = Cents(sub.Mul(o.VATRate))
	o.Total = o.Subtotal.Add(o.VATAmount)
}

// Stamp records the time the order entered status s.
func (o *Order) Stamp(s OrderStatus, at time.Time) {
	t := at
	switch s {
	case OrderConfirmed:
		o.ConfirmedAt = &t
	case OrderShipped:
		o.ShippedAt = &t
	case OrderDelivered:
		o.DeliveredAt = &t
	case OrderCancelled:
		o.CancelledAt = &t
	}
	o.Status = s
	o.UpdatedAt = at
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	CustomerID string
	Status     OrderStatus
	Source     OrderSource
	Limit      int
	Offset     int
}

// OrderLineInput is a requested line when creating an order. A nil
// UnitPrice means "use the catalog price for this customer".
type OrderLineInput struct {
	ProductID string           `json:"product_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}
