package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/internal/erp/store"
	"github.com/OolalaDXB/outrenational/pkg/idx"
)

type SupplierService struct {
	Store store.Store
}

type SupplierInput struct {
	Name           string              `json:"name"`
	Email          string              `json:"email"`
	Country        string              `json:"country"`
	Kind           domain.SupplierKind `json:"kind"`
	CommissionRate decimal.Decimal     `json:"commission_rate"`
}

func (in *SupplierInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Country = strings.ToUpper(strings.TrimSpace(in.Country))

	switch {
	case in.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	case !in.Kind.Valid():
		return fmt.Errorf("%w: kind must be consignment or purchase", ErrInvalidInput)
	case !domain.IsRate(in.CommissionRate):
		return fmt.Errorf("%w: commission_rate must be within [0, 1]", ErrInvalidInput)
	case in.Country != "" && !countryPattern.MatchString(in.Country):
		return fmt.Errorf("%w: country must be an ISO 3166 alpha-2 code", ErrInvalidInput)
	}
	if in.Kind == domain.SupplierPurchase {
		in.CommissionRate = decimal.Zero
	}
	return nil
}

func (s *SupplierService) CreateSupplier(ctx context.Context, tenantID string, in SupplierInput) (domain.Supplier, error) {
	if err := in.normalize(); err != nil {
		return domain.Supplier{}, err
	}

	now := time.Now().UTC()
	sup := domain.Supplier{
		ID:             idx.New().String(),
		TenantID:       tenantID,
		Name:           in.Name,
		Email:          in.Email,
		Country:        in.Country,
		Kind:           in.Kind,
		CommissionRate: in.CommissionRate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Store.Suppliers().CreateSupplier(ctx, sup); err != nil {
		return domain.Supplier{}, err
	}
	return sup, nil
}

func (s *SupplierService) UpdateSupplier(ctx context.Context, tenantID, supplierID string, in SupplierInput) (domain.Supplier, error) {
	if err := in.normalize(); err != nil {
		return domain.Supplier{}, err
	}

	sup, err := s.Store.Suppliers().GetSupplier(ctx, tenantID, supplierID)
	if err != nil {
		return domain.Supplier{}, err
	}
	sup.Name = in.Name
	sup.Email = in.Email
	sup.Country = in.Country
	sup.Kind = in.Kind
	sup.CommissionRate = in.CommissionRate
	sup.UpdatedAt = time.Now().UTC()

	if err := s.Store.Suppliers().UpdateSupplier(ctx, sup); err != nil {
		return domain.Supplier{}, err
	}
	return sup, nil
}

func (s *SupplierService) GetSupplier(ctx context.Context, tenantID, supplierID string) (domain.Supplier, error) {
	return s.Store.Suppliers().GetSupplier(ctx, tenantID, supplierID)
}

func (s *SupplierService) ListSuppliers(ctx context.Context, tenantID string) ([]domain.Supplier, error) {
	return s.Store.Suppliers().ListSuppliers(ctx, tenantID)
}

// DeleteSupplier fails with store.ErrInUse while products or purchase
// orders reference the supplier. Its payouts go with it.
func (s *SupplierService) DeleteSupplier(ctx context.Context, tenantID, supplierID string) error {
	products, err := s.Store.Products().ListProducts(ctx, tenantID, domain.ProductFilter{SupplierID: supplierID, Limit: 1})
	if err != nil {
		return err
	}
	if len(products) > 0 {
		return fmt.Errorf("%w: supplier still has products", store.ErrInUse)
	}

	err = s.Store.Suppliers().DeleteSupplier(ctx, tenantID, supplierID)
	if errors.Is(err, store.ErrInUse) {
		return fmt.Errorf("%w: supplier has purchase orders", store.ErrInUse)
	}
	return err
}
