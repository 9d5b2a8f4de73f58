package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/internal/erp/store"
)

// PortalService is the pro customer's view of the tenant: the sellable
// catalog at their price, and their own orders and invoices.
type PortalService struct {
	Store    store.Store
	Orders   *OrderService
	Invoices *InvoiceService
}

// PortalProduct is a catalog entry as a pro customer sees it.
type PortalProduct struct {
	ID             string          `json:"id"`
	SKU            string          `json:"sku"`
	Title          string          `json:"title"`
	Artist         string          `json:"artist"`
	Label          string          `json:"label"`
	CatalogNumber  string          `json:"catalog_number"`
	Format         string          `json:"format"`
	Barcode        string          `json:"barcode"`
	ReleaseYear    int             `json:"release_year,omitempty"`
	Genre          string          `json:"genre"`
	WholesalePrice decimal.Decimal `json:"wholesale_price"`
	NetPrice       decimal.Decimal `json:"net_price"`
	StockQuantity  int             `json:"stock_quantity"`
}

func (s *PortalService) customer(ctx context.Context, tenantID, customerID string) (domain.Customer, error) {
	if customerID == "" {
		return domain.Customer{}, fmt.Errorf("%w: account is not linked to a customer", ErrForbidden)
	}
	return s.Store.Customers().GetCustomer(ctx, tenantID, customerID)
}

// Catalog lists active, in-stock products with the customer's net price.
func (s *PortalService) Catalog(ctx context.Context, tenantID, customerID, search string, limit, offset int) ([]PortalProduct, error) {
	c, err := s.customer(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}

	products, err := s.Store.Products().ListProducts(ctx, tenantID, domain.ProductFilter{
		Search:     search,
		ActiveOnly: true,
		InStock:    true,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, err
	}

	out := make([]PortalProduct, 0, len(products))
	for _, p := range products {
		out = append(out, PortalProduct{
			ID:             p.ID,
			SKU:            p.SKU,
			Title:          p.Title,
			Artist:         p.Artist,
			Label:          p.Label,
			CatalogNumber:  p.CatalogNumber,
			Format:         p.Format,
			Barcode:        p.Barcode,
			ReleaseYear:    p.ReleaseYear,
			Genre:          p.Genre,
			WholesalePrice: p.WholesalePrice,
			NetPrice:       domain.LineTotal(1, p.ListPrice(true), c.DiscountRate),
			StockQuantity:  p.StockQuantity,
		})
	}
	return out, nil
}

// PlaceOrder creates a pending portal order for the caller's customer at
// catalog prices.
func (s *PortalService) PlaceOrder(ctx context.Context, tenantID, userID, customerID string, items []domain.OrderLineInput, notes string) (domain.Order, error) {
	if _, err := s.customer(ctx, tenantID, customerID); err != nil {
		return domain.Order{}, err
	}
	return s.Orders.Create(ctx, tenantID, userID, domain.SourcePortal, OrderInput{
		CustomerID: customerID,
		Notes:      notes,
		Items:      items,
	})
}

func (s *PortalService) ListOrders(ctx context.Context, tenantID, customerID string, limit, offset int) ([]domain.Order, error) {
	if customerID == "" {
		return nil, ErrForbidden
	}
	return s.Orders.List(ctx, tenantID, domain.OrderFilter{CustomerID: customerID, Limit: limit, Offset: offset})
}

// GetOrder hides other customers' orders behind store.ErrNotFound.
func (s *PortalService) GetOrder(ctx context.Context, tenantID, customerID, orderID string) (domain.Order, error) {
	o, err := s.Orders.Get(ctx, tenantID, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if customerID == "" || o.CustomerID != customerID {
		return domain.Order{}, store.ErrNotFound
	}
	return o, nil
}

func (s *PortalService) ListInvoices(ctx context.Context, tenantID, customerID string, limit, offset int) ([]domain.Invoice, error) {
	if customerID == "" {
		return nil, ErrForbidden
	}
	return s.Invoices.List(ctx, tenantID, domain.InvoiceFilter{CustomerID: customerID, Limit: limit, Offset: offset})
}
