package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/internal/erp/store"
	"github.com/OolalaDXB/outrenational/pkg/cryptox"
	"github.com/OolalaDXB/outrenational/pkg/idx"
	"github.com/OolalaDXB/outrenational/pkg/metricsx"
	"github.com/OolalaDXB/outrenational/pkg/slogx"
)

var (
	slugPattern    = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,38}[a-z0-9]$`)
	countryPattern = regexp.MustCompile(`^[A-Z]{2}$`)
)

// DefaultVATRate applies to new tenants that do not specify one.
var DefaultVATRate = decimal.RequireFromString("0.20")

type TenantService struct {
	Store store.Store
}

type SignupInput struct {
	TenantName string `json:"tenant_name"`
	Slug       string `json:"slug"`
	Country    string `json:"country"`
	Currency   string `json:"currency,omitempty"`
	OwnerEmail string `json:"owner_email"`
	OwnerName  string `json:"owner_name"`
	Password   string `json:"password"`
}

// Signup creates a tenant and its owner in one transaction.
func (s *TenantService) Signup(ctx context.Context, in SignupInput) (domain.Tenant, domain.User, error) {
	in.Slug = strings.ToLower(strings.TrimSpace(in.Slug))
	in.Country = strings.ToUpper(strings.TrimSpace(in.Country))
	in.OwnerEmail = strings.ToLower(strings.TrimSpace(in.OwnerEmail))

	switch {
	case strings.TrimSpace(in.TenantName) == "":
		return domain.Tenant{}, domain.User{}, fmt.Errorf("%w: tenant_name is required", ErrInvalidInput)
	case !slugPattern.MatchString(in.Slug):
		return domain.Tenant{}, domain.User{}, fmt.Errorf("%w: slug must be 3-40 lower case letters, digits or dashes", ErrInvalidInput)
	case !countryPattern.MatchString(in.Country):
		return domain.Tenant{}, domain.User{}, fmt.Errorf("%w: country must be an ISO 3166 alpha-2 code", ErrInvalidInput)
	case !strings.Contains(in.OwnerEmail, "@"):
		return domain.Tenant{}, domain.User{}, fmt.Errorf("%w: owner_email is invalid", ErrInvalidInput)
	}
	if err := cryptox.CheckPasswordPolicy(in.Password); err != nil {
		return domain.Tenant{}, domain.User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.Tenant{}, domain.User{}, err
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "EUR"
	}

	now := time.Now().UTC()
	tenant := domain.Tenant{
		ID:                 idx.New().String(),
		Slug:               in.Slug,
		Name:               strings.TrimSpace(in.TenantName),
		Country:            in.Country,
		Currency:           currency,
		DefaultVATRate:     DefaultVATRate,
		SubscriptionStatus: domain.SubscriptionNone,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	owner := domain.User{
		ID:           idx.New().String(),
		TenantID:     tenant.ID,
		Email:        in.OwnerEmail,
		Name:         strings.TrimSpace(in.OwnerName),
		PasswordHash: hash,
		Role:         domain.RoleOwner,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Tenants().CreateTenant(ctx, tenant); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrSlugTaken
			}
			return err
		}
		return tx.Users().CreateUser(ctx, owner)
	})
	metricsx.RecordBusinessEvent(ctx, "tenant_signup", err == nil)
	if err != nil {
		return domain.Tenant{}, domain.User{}, err
	}

	slogx.FromContext(ctx).Info("tenant created", "tenant_id", tenant.ID, "slug", tenant.Slug)
	return tenant, owner, nil
}

func (s *TenantService) Get(ctx context.Context, tenantID string) (domain.Tenant, error) {
	return s.Store.Tenants().GetTenantByID(ctx, tenantID)
}

type TenantSettings struct {
	Name           string           `json:"name"`
	Country        string           `json:"country"`
	Currency       string           `json:"currency"`
	DefaultVATRate *decimal.Decimal `json:"default_vat_rate,omitempty"`
	VATNumber      string           `json:"vat_number"`
}

// UpdateSettings changes the tenant profile. Empty fields keep their value.
func (s *TenantService) UpdateSettings(ctx context.Context, tenantID string, in TenantSettings) (domain.Tenant, error) {
	t, err := s.Store.Tenants().GetTenantByID(ctx, tenantID)
	if err != nil {
		return domain.Tenant{}, err
	}

	if v := strings.TrimSpace(in.Name); v != "" {
		t.Name = v
	}
	if v := strings.ToUpper(strings.TrimSpace(in.Country)); v != "" {
		if !countryPattern.MatchString(v) {
			return domain.Tenant{}, fmt.Errorf("%w: country must be an ISO 3166 alpha-2 code", ErrInvalidInput)
		}
		t.Country = v
	}
	if v := strings.ToUpper(strings.TrimSpace(in.Currency)); v != "" {
		t.Currency = v
	}
	if in.DefaultVATRate != nil {
		if !domain.IsRate(*in.DefaultVATRate) {
			return domain.Tenant{}, fmt.Errorf("%w: default_vat_rate must be within [0, 1]", ErrInvalidInput)
		}
		t.DefaultVATRate = *in.DefaultVATRate
	}
	if v := strings.TrimSpace(in.VATNumber); v != "" {
		t.VATNumber = NormalizeVATNumber(v)
	}

	if err := s.Store.Tenants().UpdateTenantSettings(ctx, t); err != nil {
		return domain.Tenant{}, err
	}
	return t, nil
}
