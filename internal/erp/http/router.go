package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/internal/erp/service"
	"github.com/OolalaDXB/outrenational/internal/erp/store"
	"github.com/OolalaDXB/outrenational/pkg/httpx"
	"github.com/OolalaDXB/outrenational/pkg/jwtx"
	"github.com/OolalaDXB/outrenational/pkg/metricsx"
	"github.com/OolalaDXB/outrenational/pkg/slogx"

	_ "github.com/OolalaDXB/outrenational/api/erp" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store
	cache Pinger // Optional: readiness skips the cache check when nil

	TenantService        *service.TenantService
	UserService          *service.UserService
	AuthService          *service.AuthService
	CatalogService       *service.CatalogService
	SupplierService      *service.SupplierService
	ConsignmentService   *service.ConsignmentService
	PurchaseOrderService *service.PurchaseOrderService
	CustomerService      *service.CustomerService
	OrderService         *service.OrderService
	InvoiceService       *service.InvoiceService
	VATService           *service.VATService
	BillingService       *service.BillingService
	DashboardService     *service.DashboardService
	PortalService        *service.PortalService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	cache Pinger,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		cache:        cache,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		metricsx.HTTPMetricsMiddleware,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSystem()
	r.registerAuth()
	r.registerUsers()
	r.registerMFA()
	r.registerCatalog()
	r.registerSuppliers()
	r.registerPurchasing()
	r.registerCustomers()
	r.registerOrders()
	r.registerInvoices()
	r.registerDashboard()
	r.registerBilling()
	r.registerPortal()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Outrenational ERP API
//	@version		0.1.0
//	@description	Multi-tenant back office for vinyl distributors: catalog and stock, suppliers and consignment, purchasing, sales, invoicing and a pro customer portal.
//	@description
//	@description				Access tokens are EdDSA-signed JWTs bound to one tenant; verify them with the JWKS endpoint.
//
//	@contact.name				Outrenational
//	@contact.url				https://github.com/OolalaDXB/outrenational
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// secured verifies the bearer token, enforces one of scopes and limits per
// user.
func (r *Router) secured(h http.HandlerFunc, limit httpx.RateLimitConfig, scopes ...string) http.Handler {
	mws := []httpx.Middleware{httpx.AuthnMiddleware(r.verifier)}
	if len(scopes) > 0 {
		mws = append(mws, httpx.RequireAnyScope(scopes...))
	}
	mws = append(mws, httpx.RateLimitByUser(limit))
	return httpx.Chain(h, mws...)
}

// securedPerTenant is secured with one budget shared by the whole tenant,
// for bulk endpoints whose cost does not depend on who calls them.
func (r *Router) securedPerTenant(h http.HandlerFunc, limit httpx.RateLimitConfig, scopes ...string) http.Handler {
	mws := []httpx.Middleware{httpx.AuthnMiddleware(r.verifier)}
	if len(scopes) > 0 {
		mws = append(mws, httpx.RequireAnyScope(scopes...))
	}
	mws = append(mws, httpx.RateLimitByTenant(limit))
	return httpx.Chain(h, mws...)
}

func (r *Router) registerSystem() {
	// Health checks - monitoring systems may poll frequently
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys, r.cache),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /metrics", metricsx.Handler())
}

func (r *Router) registerAuth() {
	h := &AuthHandler{TenantService: r.TenantService, AuthService: r.AuthService}

	// Credential endpoints - strict, keyed by IP (and tenant+email for login)
	r.Mux.Handle("POST /v1/signup",
		httpx.Chain(http.HandlerFunc(h.HandleSignup),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/token",
		httpx.Chain(http.HandlerFunc(h.HandleToken),
			httpx.RateLimitByIP(httpx.StrictLimit),
			httpx.RateLimitByJSONFields(httpx.StrictLimit, "tenant", "email"),
		),
	)
	r.Mux.Handle("POST /v1/auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/revoke",
		httpx.Chain(http.HandlerFunc(h.HandleRevoke),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService, TenantService: r.TenantService}

	r.Mux.Handle("POST /v1/users", r.secured(h.HandleCreate, httpx.ModerateLimit, domain.ScopeUsersWrite))
	r.Mux.Handle("GET /v1/users", r.secured(h.HandleList, httpx.LenientLimit, domain.ScopeUsersRead))
	r.Mux.Handle("DELETE /v1/users/{id}", r.secured(h.HandleDelete, httpx.ModerateLimit, domain.ScopeUsersWrite))

	// Any authenticated user manages their own account
	r.Mux.Handle("GET /v1/me", r.secured(h.HandleMe, httpx.LenientLimit))
	r.Mux.Handle("POST /v1/me/password", r.secured(h.HandleChangePassword, httpx.StrictLimit))

	r.Mux.Handle("GET /v1/tenant", r.secured(h.HandleGetTenant, httpx.LenientLimit, domain.ScopeUsersRead, domain.ScopeDashboardRead))
	r.Mux.Handle("PATCH /v1/tenant", r.secured(h.HandleUpdateTenant, httpx.ModerateLimit, domain.ScopeUsersWrite))
}

func (r *Router) registerMFA() {
	h := &MFAHandler{AuthService: r.AuthService}

	r.Mux.Handle("POST /v1/mfa/totp/enroll", r.secured(h.HandleEnroll, httpx.ModerateLimit))
	// Verify and disable take a code - strict to stop brute force
	r.Mux.Handle("POST /v1/mfa/totp/verify", r.secured(h.HandleVerify, httpx.StrictLimit))
	r.Mux.Handle("DELETE /v1/mfa/totp", r.secured(h.HandleDisable, httpx.StrictLimit))
}

func (r *Router) registerCatalog() {
	h := &ProductsHandler{CatalogService: r.CatalogService}

	r.Mux.Handle("POST /v1/products", r.secured(h.HandleCreate, httpx.ModerateLimit, domain.ScopeCatalogWrite))
	r.Mux.Handle("GET /v1/products", r.secured(h.HandleList, httpx.LenientLimit, domain.ScopeCatalogRead))
	r.Mux.Handle("GET /v1/products/{id}", r.secured(h.HandleGet, httpx.LenientLimit, domain.ScopeCatalogRead))
	r.Mux.Handle("PUT /v1/products/{id}", r.secured(h.HandleUpdate, httpx.ModerateLimit, domain.ScopeCatalogWrite))
	r.Mux.Handle("DELETE /v1/products/{id}", r.secured(h.HandleArchive, httpx.ModerateLimit, domain.ScopeCatalogWrite))

	// Bulk CSV work is budgeted per tenant
	r.Mux.Handle("POST /v1/products/import", r.securedPerTenant(h.HandleImport, httpx.ModerateLimit, domain.ScopeCatalogWrite))
	r.Mux.Handle("GET /v1/products/export", r.securedPerTenant(h.HandleExport, httpx.ModerateLimit, domain.ScopeCatalogRead))

	r.Mux.Handle("POST /v1/products/{id}/stock", r.secured(h.HandleAdjustStock, httpx.ModerateLimit, domain.ScopeInventoryWrite))
	r.Mux.Handle("GET /v1/products/{id}/movements", r.secured(h.HandleMovements, httpx.LenientLimit, domain.ScopeInventoryRead))

	r.Mux.Handle("GET /v1/discogs/releases/{id}", r.secured(h.HandleDiscogsRelease, httpx.ModerateLimit, domain.ScopeCatalogRead))
	r.Mux.Handle("POST /v1/products/{id}/discogs", r.secured(h.HandleEnrich, httpx.ModerateLimit, domain.ScopeCatalogWrite))
}

func (r *Router) registerSuppliers() {
	h := &SuppliersHandler{SupplierService: r.SupplierService, ConsignmentService: r.ConsignmentService}

	r.Mux.Handle("POST /v1/suppliers", r.secured(h.HandleCreate, httpx.ModerateLimit, domain.ScopeSuppliersWrite))
	r.Mux.Handle("GET /v1/suppliers", r.secured(h.HandleList, httpx.LenientLimit, domain.ScopeSuppliersRead))
	r.Mux.Handle("GET /v1/suppliers/{id}", r.secured(h.HandleGet, httpx.LenientLimit, domain.ScopeSuppliersRead))
	r.Mux.Handle("PUT /v1/suppliers/{id}", r.secured(h.HandleUpdate, httpx.ModerateLimit, domain.ScopeSuppliersWrite))
	r.Mux.Handle("DELETE /v1/suppliers/{id}", r.secured(h.HandleDelete, httpx.ModerateLimit, domain.ScopeSuppliersWrite))

	r.Mux.Handle("GET /v1/suppliers/{id}/statement", r.secured(h.HandleStatement, httpx.LenientLimit, domain.ScopeSuppliersRead))
	r.Mux.Handle("POST /v1/suppliers/{id}/payouts", r.secured(h.HandleCreatePayout, httpx.ModerateLimit, domain.ScopeSuppliersWrite))
	r.Mux.Handle("GET /v1/suppliers/{id}/payouts", r.secured(h.HandleListPayouts, httpx.LenientLimit, domain.ScopeSuppliersRead))

	r.Mux.Handle("GET /v1/reports/margins", r.secured(h.HandleMargins, httpx.LenientLimit, domain.ScopeDashboardRead))
}

func (r *Router) registerPurchasing() {
	h := &PurchaseOrdersHandler{PurchaseOrderService: r.PurchaseOrderService}

	r.Mux.Handle("POST /v1/purchase-orders", r.secured(h.HandleCreate, httpx.ModerateLimit, domain.ScopePurchasingWrite))
	r.Mux.Handle("GET /v1/purchase-orders", r.secured(h.HandleList, httpx.LenientLimit, domain.ScopePurchasingRead))
	r.Mux.Handle("GET /v1/purchase-orders/{id}", r.secured(h.HandleGet, httpx.LenientLimit, domain.ScopePurchasingRead))
	r.Mux.Handle("PUT /v1/purchase-orders/{id}", r.secured(h.HandleUpdate, httpx.ModerateLimit, domain.ScopePurchasingWrite))
	r.Mux.Handle("POST /v1/purchase-orders/{id}/transition", r.secured(h.HandleTransition, httpx.ModerateLimit, domain.ScopePurchasingWrite))
	r.Mux.Handle("POST /v1/purchase-orders/{id}/receive",
		httpx.Chain(http.HandlerFunc(h.HandleReceive),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAllScopes(domain.ScopePurchasingWrite, domain.ScopeInventoryWrite),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerCustomers() {
	h := &CustomersHandler{CustomerService: r.CustomerService, VATService: r.VATService}

	r.Mux.Handle("POST /v1/customers", r.secured(h.HandleCreate, httpx.ModerateLimit, domain.ScopeCustomersWrite))
	r.Mux.Handle("GET /v1/customers", r.secured(h.HandleList, httpx.LenientLimit, domain.ScopeCustomersRead))
	r.Mux.Handle("GET /v1/customers/{id}", r.secured(h.HandleGet, httpx.LenientLimit, domain.ScopeCustomersRead))
	r.Mux.Handle("PUT /v1/customers/{id}", r.secured(h.HandleUpdate, httpx.ModerateLimit, domain.ScopeCustomersWrite))

	// VIES lookups hit an external service - moderate
	r.Mux.Handle("POST /v1/vat/validate", r.secured(h.HandleValidateVAT, httpx.ModerateLimit, domain.ScopeCustomersRead))
	r.Mux.Handle("POST /v1/customers/{id}/vat/validate", r.secured(h.HandleValidateCustomerVAT, httpx.ModerateLimit, domain.ScopeCustomersWrite))
}

func (r *Router) registerOrders() {
	h := &OrdersHandler{OrderService: r.OrderService, InvoiceService: r.InvoiceService}

	r.Mux.Handle("POST /v1/orders", r.secured(h.HandleCreate, httpx.ModerateLimit, domain.ScopeOrdersWrite))
	r.Mux.Handle("GET /v1/orders", r.secured(h.HandleList, httpx.LenientLimit, domain.ScopeOrdersRead))
	r.Mux.Handle("GET /v1/orders/{id}", r.secured(h.HandleGet, httpx.LenientLimit, domain.ScopeOrdersRead))
	r.Mux.Handle("POST /v1/orders/{id}/confirm", r.secured(h.HandleConfirm, httpx.ModerateLimit, domain.ScopeOrdersWrite))
	r.Mux.Handle("POST /v1/orders/{id}/cancel", r.secured(h.HandleCancel, httpx.ModerateLimit, domain.ScopeOrdersWrite))
	r.Mux.Handle("POST /v1/orders/{id}/ship", r.secured(h.HandleShip, httpx.ModerateLimit, domain.ScopeOrdersWrite))
	r.Mux.Handle("POST /v1/orders/{id}/deliver", r.secured(h.HandleDeliver, httpx.ModerateLimit, domain.ScopeOrdersWrite))
	r.Mux.Handle("POST /v1/orders/{id}/invoice", r.secured(h.HandleInvoice, httpx.ModerateLimit, domain.ScopeInvoicesWrite))
}

func (r *Router) registerInvoices() {
	h := &InvoicesHandler{InvoiceService: r.InvoiceService}

	r.Mux.Handle("GET /v1/invoices", r.secured(h.HandleList, httpx.LenientLimit, domain.ScopeInvoicesRead))
	r.Mux.Handle("GET /v1/invoices/export", r.securedPerTenant(h.HandleExport, httpx.ModerateLimit, domain.ScopeInvoicesRead))
	r.Mux.Handle("GET /v1/invoices/{id}", r.secured(h.HandleGet, httpx.LenientLimit, domain.ScopeInvoicesRead))
	r.Mux.Handle("POST /v1/invoices/{id}/pay", r.secured(h.HandlePay, httpx.ModerateLimit, domain.ScopeInvoicesWrite))
	r.Mux.Handle("POST /v1/invoices/{id}/void", r.secured(h.HandleVoid, httpx.ModerateLimit, domain.ScopeInvoicesWrite))
}

func (r *Router) registerDashboard() {
	h := &DashboardHandler{DashboardService: r.DashboardService}
	r.Mux.Handle("GET /v1/dashboard", r.secured(h.ServeHTTP, httpx.LenientLimit, domain.ScopeDashboardRead))
}

func (r *Router) registerBilling() {
	h := &BillingHandler{BillingService: r.BillingService}

	r.Mux.Handle("POST /v1/billing/subscribe", r.secured(h.HandleSubscribe, httpx.StrictLimit, domain.ScopeBillingWrite))

	// Webhook - authenticated by the Stripe signature, not a bearer token
	r.Mux.Handle("POST /v1/billing/webhook",
		httpx.Chain(http.HandlerFunc(h.HandleWebhook),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerPortal() {
	h := &PortalHandler{PortalService: r.PortalService}

	r.Mux.Handle("GET /v1/portal/catalog", r.secured(h.HandleCatalog, httpx.LenientLimit, domain.ScopePortalRead))
	r.Mux.Handle("GET /v1/portal/orders", r.secured(h.HandleListOrders, httpx.LenientLimit, domain.ScopePortalRead))
	r.Mux.Handle("GET /v1/portal/orders/{id}", r.secured(h.HandleGetOrder, httpx.LenientLimit, domain.ScopePortalRead))
	r.Mux.Handle("POST /v1/portal/orders", r.secured(h.HandlePlaceOrder, httpx.ModerateLimit, domain.ScopePortalOrder))
	r.Mux.Handle("GET /v1/portal/invoices", r.secured(h.HandleListInvoices, httpx.LenientLimit, domain.ScopePortalRead))
}
