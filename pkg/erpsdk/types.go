package erpsdk

import (
	"time"

	"github.com/shopspring/decimal"
)

// ErrorResponse is the JSON shape of an error.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
	Cache    string `json:"cache,omitempty"`
}

// SignupRequest creates a tenant and its owner.
type SignupRequest struct {
	TenantName string `json:"tenant_name"`
	Slug       string `json:"slug"`
	Country    string `json:"country"`
	Currency   string `json:"currency,omitempty"`
	OwnerEmail string `json:"owner_email"`
	OwnerName  string `json:"owner_name"`
	Password   string `json:"password"`
}

type SignupResponse struct {
	TenantID string `json:"tenant_id"`
	Slug     string `json:"slug"`
	UserID   string `json:"user_id"`
}

// LoginRequest is the password grant. OTP is required once the user has
// enabled TOTP.
type LoginRequest struct {
	Tenant   string `json:"tenant"`
	Email    string `json:"email"`
	Password string `json:"password"`
	OTP      string `json:"otp,omitempty"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	Scope        string `json:"scope,omitempty"`
}

type Product struct {
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
	SupplierID     string          `json:"supplier_id,omitempty"`
	CostPrice      decimal.Decimal `json:"cost_price"`
	WholesalePrice decimal.Decimal `json:"wholesale_price"`
	RetailPrice    decimal.Decimal `json:"retail_price"`
	StockQuantity  int             `json:"stock_quantity"`
	ReorderPoint   int             `json:"reorder_point"`
	Active         bool            `json:"active"`
}

type ProductList struct {
	Products []Product `json:"products"`
}

type ImportError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

type ImportReport struct {
	Created int           `json:"created"`
	Updated int           `json:"updated"`
	Errors  []ImportError `json:"errors"`
}

type PurchaseOrderItem struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	QuantityOrdered  int             `json:"quantity_ordered"`
	QuantityReceived int             `json:"quantity_received"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
}

type PurchaseOrder struct {
	ID         string              `json:"id"`
	Number     string              `json:"number"`
	SupplierID string              `json:"supplier_id"`
	Status     string              `json:"status"`
	CreatedAt  time.Time           `json:"created_at"`
	Items      []PurchaseOrderItem `json:"items"`
}

type PurchaseOrderList struct {
	PurchaseOrders []PurchaseOrder `json:"purchase_orders"`
}

// TransitionRequest moves a purchase order to Status.
type TransitionRequest struct {
	Status string `json:"status"`
}

type ReceiptLine struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

type ReceiveRequest struct {
	Lines []ReceiptLine `json:"lines"`
}
