package store

import (
	"context"
	"errors"
	"time"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrInUse reports a delete blocked by rows still referencing the target.
	ErrInUse = errors.New("store: in use")
)

// Store is the root data access interface. Sub-repositories hang off it as
// methods so a Tx exposes exactly the same surface and nobody opens a
// transaction inside a transaction by accident. Every repository method that
// reads or writes tenant data takes the tenant id explicitly.
type Store interface {
	Tenants() Tenants
	Users() Users
	RefreshTokens() RefreshTokens
	Sequences() Sequences
	Products() Products
	Movements() Movements
	Suppliers() Suppliers
	Payouts() Payouts
	PurchaseOrders() PurchaseOrders
	Customers() Customers
	Orders() Orders
	Invoices() Invoices
	Reports() Reports
	WebhookEvents() WebhookEvents

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transactional store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Tenants interface {
	CreateTenant(ctx context.Context, t domain.Tenant) error
	GetTenantByID(ctx context.Context, id string) (domain.Tenant, error)
	GetTenantBySlug(ctx context.Context, slug string) (domain.Tenant, error)
	GetTenantByStripeCustomer(ctx context.Context, customerID string) (domain.Tenant, error)

	// UpdateTenantSettings writes name, country, currency, VAT rate and number.
	UpdateTenantSettings(ctx context.Context, t domain.Tenant) error

	// UpdateBilling writes the Stripe ids and subscription status.
	UpdateBilling(ctx context.Context, tenantID, customerID, subscriptionID, status string) error

	// ApplySubscriptionEvent writes the subscription id and status carried by
	// a billing event emitted at eventAt, unless an event emitted later was
	// already applied. It reports whether the tenant changed.
	ApplySubscriptionEvent(ctx context.Context, tenantID, subscriptionID, status string, eventAt time.Time) (bool, error)
}

type Users interface {
	CreateUser(ctx context.Context, u domain.User) error
	GetUserByID(ctx context.Context, tenantID, id string) (domain.User, error)

	// GetUserByEmail is used by the password grant. Emails are stored lower case.
	GetUserByEmail(ctx context.Context, tenantID, email string) (domain.User, error)
	ListUsers(ctx context.Context, tenantID string) ([]domain.User, error)
	UpdatePasswordHash(ctx context.Context, tenantID, userID, hash string) error

	// SetMFA writes the TOTP secret and enabled flag together.
	SetMFA(ctx context.Context, tenantID, userID string, enabled bool, secret string) error
	DeleteUser(ctx context.Context, tenantID, userID string) error
}

type RefreshTokens interface {
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, hash string) error
	RevokeUserRefreshTokens(ctx context.Context, tenantID, userID string) error

	// DeleteStaleRefreshTokens removes tokens expired or revoked before cutoff.
	DeleteStaleRefreshTokens(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sequences hand out gapless per-tenant counters (PO, order and invoice
// numbers). Must be called inside a transaction.
type Sequences interface {
	Next(ctx context.Context, tenantID, name string) (int64, error)
}

type Products interface {
	CreateProduct(ctx context.Context, p domain.Product) error
	UpdateProduct(ctx context.Context, p domain.Product) error
	GetProduct(ctx context.Context, tenantID, id string) (domain.Product, error)
	GetProductBySKU(ctx context.Context, tenantID, sku string) (domain.Product, error)
	ListProducts(ctx context.Context, tenantID string, f domain.ProductFilter) ([]domain.Product, error)
	SetStock(ctx context.Context, tenantID, id string, qty int) error
	SetCostPrice(ctx context.Context, tenantID, id string, cost decimal.Decimal) error
	SetActive(ctx context.Context, tenantID, id string, active bool) error
	CountLowStock(ctx context.Context, tenantID string) (int, error)
}

type Movements interface {
	CreateMovement(ctx context.Context, m domain.StockMovement) error
	ListMovements(ctx context.Context, tenantID, productID string, limit int) ([]domain.StockMovement, error)
}

type Suppliers interface {
	CreateSupplier(ctx context.Context, s domain.Supplier) error
	UpdateSupplier(ctx context.Context, s domain.Supplier) error
	GetSupplier(ctx context.Context, tenantID, id string) (domain.Supplier, error)
	ListSuppliers(ctx context.Context, tenantID string) ([]domain.Supplier, error)
	DeleteSupplier(ctx context.Context, tenantID, id string) error
}

type Payouts interface {
	CreatePayout(ctx context.Context, p domain.SupplierPayout) error

	// ListPayouts returns payouts of a supplier whose period overlaps [from, to).
	ListPayouts(ctx context.Context, tenantID, supplierID string, from, to time.Time) ([]domain.SupplierPayout, error)
}

type PurchaseOrders interface {
	CreatePurchaseOrder(ctx context.Context, po domain.PurchaseOrder) error

	// GetPurchaseOrder loads the header and its items.
	GetPurchaseOrder(ctx context.Context, tenantID, id string) (domain.PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context, tenantID string, f domain.POFilter) ([]domain.PurchaseOrder, error)

	// UpdatePurchaseOrderStatus writes status and every lifecycle timestamp.
	UpdatePurchaseOrderStatus(ctx context.Context, po domain.PurchaseOrder) error
	UpdatePurchaseOrderHeader(ctx context.Context, po domain.PurchaseOrder) error
	ReplaceItems(ctx context.Context, tenantID, poID string, items []domain.PurchaseOrderItem) error
	SetItemReceived(ctx context.Context, itemID string, qty int) error
}

type Customers interface {
	CreateCustomer(ctx context.Context, c domain.Customer) error
	UpdateCustomer(ctx context.Context, c domain.Customer) error
	GetCustomer(ctx context.Context, tenantID, id string) (domain.Customer, error)
	ListCustomers(ctx context.Context, tenantID string) ([]domain.Customer, error)
	SetVATValidated(ctx context.Context, tenantID, id string, validated bool) error
}

type Orders interface {
	CreateOrder(ctx context.Context, o domain.Order) error
	GetOrder(ctx context.Context, tenantID, id string) (domain.Order, error)
	ListOrders(ctx context.Context, tenantID string, f domain.OrderFilter) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, o domain.Order) error
}

type Invoices interface {
	CreateInvoice(ctx context.Context, inv domain.Invoice) error
	GetInvoice(ctx context.Context, tenantID, id string) (domain.Invoice, error)

	// GetActiveInvoiceForOrder returns the non-void invoice of an order.
	GetActiveInvoiceForOrder(ctx context.Context, tenantID, orderID string) (domain.Invoice, error)
	ListInvoices(ctx context.Context, tenantID string, f domain.InvoiceFilter) ([]domain.Invoice, error)
	UpdateInvoiceStatus(ctx context.Context, inv domain.Invoice) error
}

// Reports are read-only joins used for statements and the dashboard.
type Reports interface {
	// SoldLines returns order lines of orders in a sold status confirmed in
	// [from, to). An empty supplierID means every supplier.
	SoldLines(ctx context.Context, tenantID, supplierID string, from, to time.Time) ([]domain.SoldLine, error)

	// SoldOrders returns order headers in a sold status confirmed in [from, to).
	SoldOrders(ctx context.Context, tenantID string, from, to time.Time) ([]domain.Order, error)

	// OpenPurchaseOrders returns sent/confirmed/partially received POs with items.
	OpenPurchaseOrders(ctx context.Context, tenantID string) ([]domain.PurchaseOrder, error)
}

type WebhookEvents interface {
	// MarkProcessed inserts the event id. It returns false when the id was
	// already recorded.
	MarkProcessed(ctx context.Context, e domain.WebhookEvent) (bool, error)
	DeleteWebhookEventsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
