package service

import (
	"context"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/internal/erp/store/drivers/sqlite"
	"github.com/OolalaDXB/outrenational/pkg/cachex"
	"github.com/OolalaDXB/outrenational/pkg/cryptox"
)

const testPassword = "Sup3r-Secret!"

func TestMain(m *testing.M) {
	cryptox.SetPepper("test-pepper")
	os.Exit(m.Run())
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// env wires every service over one in-memory database and a memory cache.
type env struct {
	ctx    context.Context
	store  *sqlite.Store
	cache  *cachex.Memory
	tenant domain.Tenant
	owner  domain.User

	tenants     *TenantService
	users       *UserService
	catalog     *CatalogService
	suppliers   *SupplierService
	consignment *ConsignmentService
	pos         *PurchaseOrderService
	customers   *CustomerService
	orders      *OrderService
	invoices    *InvoiceService
	portal      *PortalService
	dashboard   *DashboardService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	e := &env{ctx: context.Background(), store: st, cache: cachex.NewMemory()}
	e.tenants = &TenantService{Store: st}
	e.users = &UserService{Store: st}
	e.catalog = &CatalogService{Store: st, Locks: e.cache}
	e.suppliers = &SupplierService{Store: st}
	e.consignment = &ConsignmentService{Store: st}
	e.pos = &PurchaseOrderService{Store: st}
	e.customers = &CustomerService{Store: st}
	e.orders = &OrderService{Store: st}
	e.invoices = &InvoiceService{Store: st}
	e.portal = &PortalService{Store: st, Orders: e.orders, Invoices: e.invoices}
	e.dashboard = &DashboardService{Store: st}

	e.tenant, e.owner, err = e.tenants.Signup(e.ctx, SignupInput{
		TenantName: "Outre Records",
		Slug:       "outre",
		Country:    "FR",
		OwnerEmail: "owner@outre.test",
		OwnerName:  "Owner",
		Password:   testPassword,
	})
	require.NoError(t, err)
	return e
}

func (e *env) product(t *testing.T, sku string, stock int, supplierID string) domain.Product {
	t.Helper()
	p, err := e.catalog.CreateProduct(e.ctx, e.tenant.ID, e.owner.ID, ProductInput{
		SKU:            sku,
		Title:          "Album " + sku,
		Artist:         "Artist",
		SupplierID:     supplierID,
		CostPrice:      dec("8.00"),
		WholesalePrice: dec("12.00"),
		RetailPrice:    dec("20.00"),
		StockQuantity:  stock,
		ReorderPoint:   2,
	})
	require.NoError(t, err)
	return p
}

func (e *env) supplier(t *testing.T, kind domain.SupplierKind, rate string) domain.Supplier {
	t.Helper()
	s, err := e.suppliers.CreateSupplier(e.ctx, e.tenant.ID, SupplierInput{
		Name:           "Supplier " + string(kind),
		Kind:           kind,
		CommissionRate: dec(rate),
	})
	require.NoError(t, err)
	return s
}

func (e *env) customer(t *testing.T, in CustomerInput) domain.Customer {
	t.Helper()
	if in.Name == "" {
		in.Name = "Shop"
	}
	if in.Country == "" {
		in.Country = "FR"
	}
	c, err := e.customers.CreateCustomer(e.ctx, e.tenant.ID, in)
	require.NoError(t, err)
	return c
}

func (e *env) stock(t *testing.T, productID string) int {
	t.Helper()
	p, err := e.store.Products().GetProduct(e.ctx, e.tenant.ID, productID)
	require.NoError(t, err)
	return p.StockQuantity
}

// confirmedOrder creates and confirms an order of qty units per product.
func (e *env) confirmedOrder(t *testing.T, customerID string, lines map[string]int) domain.Order {
	t.Helper()
	in := OrderInput{CustomerID: customerID}
	for id, q := range lines {
		in.Items = append(in.Items, domain.OrderLineInput{ProductID: id, Quantity: q})
	}
	o, err := e.orders.Create(e.ctx, e.tenant.ID, e.owner.ID, domain.SourceBackoffice, in)
	require.NoError(t, err)
	o, err = e.orders.Confirm(e.ctx, e.tenant.ID, e.owner.ID, o.ID)
	require.NoError(t, err)
	return o
}
