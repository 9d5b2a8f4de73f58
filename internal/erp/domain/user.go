package domain

import (
	"slices"
	"time"
)

type Role string

const (
	RoleOwner Role = "owner"
	RoleStaff Role = "staff"
	RolePro   Role = "pro"
)

func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleStaff || r == RolePro
}

// Scopes carried in access tokens and checked by the HTTP layer.
const (
	ScopeCatalogRead     = "catalog:read"
	ScopeCatalogWrite    = "catalog:write"
	ScopeInventoryRead   = "inventory:read"
	ScopeInventoryWrite  = "inventory:write"
	ScopePurchasingRead  = "purchasing:read"
	ScopePurchasingWrite = "purchasing:write"
	ScopeOrdersRead      = "orders:read"
	ScopeOrdersWrite     = "orders:write"
	ScopeInvoicesRead    = "invoices:read"
	ScopeInvoicesWrite   = "invoices:write"
	ScopeCustomersRead   = "customers:read"
	ScopeCustomersWrite  = "customers:write"
	ScopeSuppliersRead   = "suppliers:read"
	ScopeSuppliersWrite  = "suppliers:write"
	ScopeDashboardRead   = "dashboard:read"
	ScopeUsersRead       = "users:read"
	ScopeUsersWrite      = "users:write"
	ScopeBillingWrite    = "billing:write"
	ScopePortalRead      = "portal:read"
	ScopePortalOrder     = "portal:order"
)

var staffScopes = []string{
	ScopeCatalogRead, ScopeCatalogWrite,
	ScopeInventoryRead, ScopeInventoryWrite,
	ScopePurchasingRead, ScopePurchasingWrite,
	ScopeOrdersRead, ScopeOrdersWrite,
	ScopeInvoicesRead, ScopeInvoicesWrite,
	ScopeCustomersRead, ScopeCustomersWrite,
	ScopeSuppliersRead, ScopeSuppliersWrite,
	ScopeDashboardRead,
}

var proScopes = []string{ScopePortalRead, ScopePortalOrder}

// ScopesFor returns the scopes granted to a role. Owners get everything.
func ScopesFor(r Role) []string {
	switch r {
	case RoleOwner:
		out := slices.Clone(staffScopes)
		out = append(out, ScopeUsersRead, ScopeUsersWrite, ScopeBillingWrite)
		return append(out, proScopes...)
	case RoleStaff:
		return slices.Clone(staffScopes)
	case RolePro:
		return slices.Clone(proScopes)
	}
	return nil
}

type User struct {
	ID           string    `db:"id" json:"id"`
	TenantID     string    `db:"tenant_id" json:"tenant_id"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	CustomerID   string    `db:"customer_id" json:"customer_id,omitempty"`
	MFAEnabled   bool      `db:"mfa_enabled" json:"mfa_enabled"`
	MFASecret    string    `db:"mfa_secret" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
