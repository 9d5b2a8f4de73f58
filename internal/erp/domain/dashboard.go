package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Dashboard struct {
	From               time.Time       `json:"from"`
	To                 time.Time       `json:"to"`
	Revenue            decimal.Decimal `json:"revenue"`
	OrderCount         int             `json:"order_count"`
	AverageOrderValue  decimal.Decimal `json:"average_order_value"`
	OpenPOCount        int             `json:"open_po_count"`
	OpenPOValue        decimal.Decimal `json:"open_po_value"`
	LowStockCount      int             `json:"low_stock_count"`
	TopProducts        []TopProduct    `json:"top_products"`
	ConsignmentPayable decimal.Decimal `json:"consignment_payable"`
	SubscriptionStatus string          `json:"subscription_status"`
}

type TopProduct struct {
	ProductID string          `json:"product_id"`
	SKU       string          `json:"sku"`
	Title     string          `json:"title"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}
