package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/internal/erp/store"
	"github.com/OolalaDXB/outrenational/pkg/idx"
)

type CustomerService struct {
	Store store.Store
}

type CustomerInput struct {
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Country      string          `json:"country"`
	VATNumber    string          `json:"vat_number"`
	DiscountRate decimal.Decimal `json:"discount_rate"`
	IsPro        bool            `json:"is_pro"`
}

func (in *CustomerInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Country = strings.ToUpper(strings.TrimSpace(in.Country))
	in.VATNumber = NormalizeVATNumber(in.VATNumber)

	switch {
	case in.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	case !countryPattern.MatchString(in.Country):
		return fmt.Errorf("%w: country must be an ISO 3166 alpha-2 code", ErrInvalidInput)
	case !domain.IsRate(in.DiscountRate):
		return fmt.Errorf("%w: discount_rate must be within [0, 1]", ErrInvalidInput)
	}
	return nil
}

func (s *CustomerService) CreateCustomer(ctx context.Context, tenantID string, in CustomerInput) (domain.Customer, error) {
	if err := in.normalize(); err != nil {
		return domain.Customer{}, err
	}

	now := time.Now().UTC()
	c := domain.Customer{
		ID:           idx.New().String(),
		TenantID:     tenantID,
		Name:         in.Name,
		Email:        in.Email,
		Country:      in.Country,
		VATNumber:    in.VATNumber,
		DiscountRate: in.DiscountRate,
		IsPro:        in.IsPro,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Customers().CreateCustomer(ctx, c); err != nil {
		return domain.Customer{}, err
	}
	return c, nil
}

// UpdateCustomer rewrites a customer. Changing the VAT number or country
// clears the validated flag until it is checked again.
func (s *CustomerService) UpdateCustomer(ctx context.Context, tenantID, customerID string, in CustomerInput) (domain.Customer, error) {
	if err := in.normalize(); err != nil {
		return domain.Customer{}, err
	}

	c, err := s.Store.Customers().GetCustomer(ctx, tenantID, customerID)
	if err != nil {
		return domain.Customer{}, err
	}
	if c.VATNumber != in.VATNumber || c.Country != in.Country {
		c.VATValidated = false
	}
	c.Name = in.Name
	c.Email = in.Email
	c.Country = in.Country
	c.VATNumber = in.VATNumber
	c.DiscountRate = in.DiscountRate
	c.IsPro = in.IsPro
	c.UpdatedAt = time.Now().UTC()

	if err := s.Store.Customers().UpdateCustomer(ctx, c); err != nil {
		return domain.Customer{}, err
	}
	return c, nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, tenantID, customerID string) (domain.Customer, error) {
	return s.Store.Customers().GetCustomer(ctx, tenantID, customerID)
}

func (s *CustomerService) ListCustomers(ctx context.Context, tenantID string) ([]domain.Customer, error) {
	return s.Store.Customers().ListCustomers(ctx, tenantID)
}
