package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/internal/erp/store"
	"github.com/OolalaDXB/outrenational/pkg/idx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedTenant(t *testing.T, s *Store, slug string) domain.Tenant {
	t.Helper()
	now := time.Now().UTC()
	tn := domain.Tenant{
		ID:                 idx.New().String(),
		Slug:               slug,
		Name:               slug,
		Country:            "FR",
		Currency:           "EUR",
		DefaultVATRate:     decimal.RequireFromString("0.2"),
		SubscriptionStatus: domain.SubscriptionNone,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	require.NoError(t, s.Tenants().CreateTenant(t.Context(), tn))
	return tn
}

func seedProduct(t *testing.T, s *Store, tenantID, sku string, stock int) domain.Product {
	t.Helper()
	now := time.Now().UTC()
	p := domain.Product{
		ID:            idx.New().String(),
		TenantID:      tenantID,
		SKU:           sku,
		Title:         "Title " + sku,
		Artist:        "Artist",
		CostPrice:     decimal.RequireFromString("8.50"),
		RetailPrice:   decimal.RequireFromString("24.99"),
		StockQuantity: stock,
		ReorderPoint:  2,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, s.Products().CreateProduct(t.Context(), p))
	return p
}

func TestTenantRoundTrip(t *testing.T) {
	s := newTestStore(t)
	tn := seedTenant(t, s, "wax")

	got, err := s.Tenants().GetTenantBySlug(t.Context(), "wax")
	require.NoError(t, err)
	require.Equal(t, tn.ID, got.ID)
	require.True(t, got.DefaultVATRate.Equal(decimal.RequireFromString("0.2")))

	require.NoError(t, s.Tenants().UpdateBilling(t.Context(), tn.ID, "cus_1", "sub_1", domain.SubscriptionActive))
	got, err = s.Tenants().GetTenantByStripeCustomer(t.Context(), "cus_1")
	require.NoError(t, err)
	require.Equal(t, domain.SubscriptionActive, got.SubscriptionStatus)

	newer := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	applied, err := s.Tenants().ApplySubscriptionEvent(t.Context(), tn.ID, "sub_1", domain.SubscriptionPastDue, newer)
	require.NoError(t, err)
	require.True(t, applied)
	applied, err = s.Tenants().ApplySubscriptionEvent(t.Context(), tn.ID, "sub_1", domain.SubscriptionActive, newer.Add(-time.Hour))
	require.NoError(t, err)
	require.False(t, applied)
	got, err = s.Tenants().GetTenantByID(t.Context(), tn.ID)
	require.NoError(t, err)
	require.Equal(t, domain.SubscriptionPastDue, got.SubscriptionStatus)

	err = s.Tenants().CreateTenant(t.Context(), tn)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestProductsAreTenantScoped(t *testing.T) {
	s := newTestStore(t)
	a := seedTenant(t, s, "a")
	b := seedTenant(t, s, "b")
	p := seedProduct(t, s, a.ID, "SKU-1", 3)

	_, err := s.Products().GetProduct(t.Context(), b.ID, p.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	err = s.Products().SetStock(t.Context(), b.ID, p.ID, 10)
	require.ErrorIs(t, err, store.ErrNotFound)

	// Same SKU is fine in another tenant.
	seedProduct(t, s, b.ID, "SKU-1", 0)

	got, err := s.Products().GetProduct(t.Context(), a.ID, p.ID)
	require.NoError(t, err)
	require.Equal(t, 3, got.StockQuantity)
	require.True(t, got.CostPrice.Equal(decimal.RequireFromString("8.5")))
}

func TestListProductsFilters(t *testing.T) {
	s := newTestStore(t)
	tn := seedTenant(t, s, "wax")
	seedProduct(t, s, tn.ID, "LP-001", 10)
	seedProduct(t, s, tn.ID, "LP-002", 1)
	seedProduct(t, s, tn.ID, "CD-001", 0)

	all, err := s.Products().ListProducts(t.Context(), tn.ID, domain.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	low, err := s.Products().ListProducts(t.Context(), tn.ID, domain.ProductFilter{LowStock: true})
	require.NoError(t, err)
	require.Len(t, low, 2)

	inStock, err := s.Products().ListProducts(t.Context(), tn.ID, domain.ProductFilter{InStock: true, Search: "LP-"})
	require.NoError(t, err)
	require.Len(t, inStock, 2)

	n, err := s.Products().CountLowStock(t.Context(), tn.ID)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestStockCannotGoNegative(t *testing.T) {
	s := newTestStore(t)
	tn := seedTenant(t, s, "wax")
	p := seedProduct(t, s, tn.ID, "LP-001", 1)

	err := s.Products().SetStock(t.Context(), tn.ID, p.ID, -1)
	require.Error(t, err)
}

func TestSequencesAreGaplessPerTenant(t *testing.T) {
	s := newTestStore(t)
	a := seedTenant(t, s, "a")
	b := seedTenant(t, s, "b")

	for want := int64(1); want <= 3; want++ {
		got, err := s.Sequences().Next(t.Context(), a.ID, "order")
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	got, err := s.Sequences().Next(t.Context(), b.ID, "order")
	require.NoError(t, err)
	require.Equal(t, int64(1), got)
}

func TestPurchaseOrderWithItems(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()
	tn := seedTenant(t, s, "wax")
	p := seedProduct(t, s, tn.ID, "LP-001", 0)
	now := time.Now().UTC()

	sup := domain.Supplier{ID: idx.New().String(), TenantID: tn.ID, Name: "Label", Kind: domain.SupplierPurchase, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.Suppliers().CreateSupplier(ctx, sup))

	po := domain.PurchaseOrder{
		ID: idx.New().String(), TenantID: tn.ID, Number: "PO-000001", SupplierID: sup.ID,
		Status: domain.POStatusDraft, CreatedAt: now, UpdatedAt: now,
		Items: []domain.PurchaseOrderItem{{
			ID: idx.New().String(), ProductID: p.ID, QuantityOrdered: 10, UnitCost: decimal.RequireFromString("7.25"),
		}},
	}
	require.NoError(t, s.PurchaseOrders().CreatePurchaseOrder(ctx, po))

	got, err := s.PurchaseOrders().GetPurchaseOrder(ctx, tn.ID, po.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.Equal(t, "72.5", got.Total().String())
	require.Nil(t, got.SentAt)

	got.Stamp(domain.POStatusSent, now)
	require.NoError(t, s.PurchaseOrders().UpdatePurchaseOrderStatus(ctx, got))

	open, err := s.Reports().OpenPurchaseOrders(ctx, tn.ID)
	require.NoError(t, err)
	require.Len(t, open, 1)
	require.NotNil(t, open[0].SentAt)
	require.Len(t, open[0].Items, 1)

	// Over-receipt is refused by the schema.
	require.Error(t, s.PurchaseOrders().SetItemReceived(ctx, got.Items[0].ID, 11))
	require.NoError(t, s.PurchaseOrders().SetItemReceived(ctx, got.Items[0].ID, 4))
}

func TestSoldLinesAndInvoices(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()
	tn := seedTenant(t, s, "wax")
	p := seedProduct(t, s, tn.ID, "LP-001", 5)
	now := time.Now().UTC().Truncate(time.Second)

	c := domain.Customer{ID: idx.New().String(), TenantID: tn.ID, Name: "Shop", Country: "FR", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.Customers().CreateCustomer(ctx, c))

	o := domain.Order{
		ID: idx.New().String(), TenantID: tn.ID, Number: "SO-000001", CustomerID: c.ID,
		Source: domain.SourceBackoffice, Status: domain.OrderPending, Currency: "EUR",
		VATRate: decimal.RequireFromString("0.2"), CreatedAt: now, UpdatedAt: now,
		Items: []domain.OrderItem{{ID: idx.New().String(), ProductID: p.ID, Quantity: 2, UnitPrice: decimal.RequireFromString("19.50")}},
	}
	o.Recalculate()
	require.NoError(t, s.Orders().CreateOrder(ctx, o))

	lines, err := s.Reports().SoldLines(ctx, tn.ID, "", now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	require.Empty(t, lines, "pending orders are not sold")

	o.Stamp(domain.OrderConfirmed, now)
	require.NoError(t, s.Orders().UpdateOrderStatus(ctx, o))

	lines, err = s.Reports().SoldLines(ctx, tn.ID, "", now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, "39", lines[0].LineTotal.String())

	inv := domain.Invoice{
		ID: idx.New().String(), TenantID: tn.ID, Number: "INV-000001", OrderID: o.ID, CustomerID: c.ID,
		Status: domain.InvoiceIssued, Currency: "EUR", IssuedAt: now, DueAt: now.Add(domain.DefaultPaymentTerms),
		Subtotal: o.Subtotal, VATRate: o.VATRate, VATAmount: o.VATAmount, Total: o.Total,
	}
	require.NoError(t, s.Invoices().CreateInvoice(ctx, inv))

	dup := inv
	dup.ID = idx.New().String()
	dup.Number = "INV-000002"
	require.ErrorIs(t, s.Invoices().CreateInvoice(ctx, dup), store.ErrAlreadyExists)

	got, err := s.Invoices().GetActiveInvoiceForOrder(ctx, tn.ID, o.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	require.True(t, got.Total.Equal(decimal.RequireFromString("46.8")))
}

func TestWithTxRollback(t *testing.T) {
	s := newTestStore(t)
	tn := seedTenant(t, s, "wax")

	err := s.WithTx(context.Background(), func(tx store.Tx) error {
		if _, err := tx.Sequences().Next(t.Context(), tn.ID, "po"); err != nil {
			return err
		}
		return store.ErrNotFound
	})
	require.ErrorIs(t, err, store.ErrNotFound)

	n, err := s.Sequences().Next(t.Context(), tn.ID, "po")
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestWebhookEventsDedupe(t *testing.T) {
	s := newTestStore(t)
	e := domain.WebhookEvent{ID: "evt_1", Type: "customer.subscription.updated", ProcessedAt: time.Now().UTC()}

	fresh, err := s.WebhookEvents().MarkProcessed(t.Context(), e)
	require.NoError(t, err)
	require.True(t, fresh)

	fresh, err = s.WebhookEvents().MarkProcessed(t.Context(), e)
	require.NoError(t, err)
	require.False(t, fresh)

	n, err := s.WebhookEvents().DeleteWebhookEventsBefore(t.Context(), time.Now().UTC().Add(time.Minute))
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}
