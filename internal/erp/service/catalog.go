package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/internal/erp/external/discogs"
	"github.com/OolalaDXB/outrenational/internal/erp/store"
	"github.com/OolalaDXB/outrenational/pkg/cachex"
	"github.com/OolalaDXB/outrenational/pkg/idx"
	"github.com/OolalaDXB/outrenational/pkg/metricsx"
	"github.com/OolalaDXB/outrenational/pkg/slogx"
)

// ReleaseSource looks up record metadata. *discogs.Client satisfies it.
type ReleaseSource interface {
	Release(ctx context.Context, id int64) (discogs.Release, error)
	SearchBarcode(ctx context.Context, barcode string) ([]discogs.SearchResult, error)
}

type CatalogService struct {
	Store store.Store

	// Locks serialises stock adjustments per product. Nil disables locking.
	Locks       cachex.Locker
	LockOptions cachex.LockOptions

	Discogs ReleaseSource
}

type ProductInput struct {
	SKU            string          `json:"sku"`
	Title          string          `json:"title"`
	Artist         string          `json:"artist"`
	Label          string          `json:"label"`
	CatalogNumber  string          `json:"catalog_number"`
	Format         string          `json:"format"`
	Barcode        string          `json:"barcode"`
	ReleaseYear    int             `json:"release_year"`
	Genre          string          `json:"genre"`
	SupplierID     string          `json:"supplier_id"`
	CostPrice      decimal.Decimal `json:"cost_price"`
	WholesalePrice decimal.Decimal `json:"wholesale_price"`
	RetailPrice    decimal.Decimal `json:"retail_price"`
	StockQuantity  int             `json:"stock_quantity"`
	ReorderPoint   int             `json:"reorder_point"`
}

func (in *ProductInput) normalize() error {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Title = strings.TrimSpace(in.Title)
	in.Barcode = strings.TrimSpace(in.Barcode)

	switch {
	case in.SKU == "":
		return fmt.Errorf("%w: sku is required", ErrInvalidInput)
	case in.Title == "":
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	case in.CostPrice.IsNegative(), in.WholesalePrice.IsNegative(), in.RetailPrice.IsNegative():
		return fmt.Errorf("%w: prices must not be negative", ErrInvalidInput)
	case in.StockQuantity < 0:
		return fmt.Errorf("%w: stock_quantity must not be negative", ErrInvalidInput)
	case in.ReorderPoint < 0:
		return fmt.Errorf("%w: reorder_point must not be negative", ErrInvalidInput)
	case in.ReleaseYear < 0 || in.ReleaseYear > 9999:
		return fmt.Errorf("%w: release_year is out of range", ErrInvalidInput)
	}
	return nil
}

func (in ProductInput) apply(p *domain.Product) {
	p.SKU = in.SKU
	p.Title = in.Title
	p.Artist = strings.TrimSpace(in.Artist)
	p.Label = strings.TrimSpace(in.Label)
	p.CatalogNumber = strings.TrimSpace(in.CatalogNumber)
	p.Format = strings.TrimSpace(in.Format)
	p.Barcode = in.Barcode
	p.ReleaseYear = in.ReleaseYear
	p.Genre = strings.TrimSpace(in.Genre)
	p.SupplierID = strings.TrimSpace(in.SupplierID)
	p.CostPrice = in.CostPrice
	p.WholesalePrice = in.WholesalePrice
	p.RetailPrice = in.RetailPrice
	p.ReorderPoint = in.ReorderPoint
}

func checkSupplier(ctx context.Context, st store.Store, tenantID, supplierID string) error {
	if supplierID == "" {
		return nil
	}
	if _, err := st.Suppliers().GetSupplier(ctx, tenantID, supplierID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: supplier not found", ErrInvalidInput)
		}
		return err
	}
	return nil
}

// CreateProduct adds a product. Opening stock is booked as an adjustment
// movement.
func (s *CatalogService) CreateProduct(ctx context.Context, tenantID, userID string, in ProductInput) (domain.Product, error) {
	if err := in.normalize(); err != nil {
		return domain.Product{}, err
	}

	now := time.Now().UTC()
	p := domain.Product{
		ID:        idx.New().String(),
		TenantID:  tenantID,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.apply(&p)

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := checkSupplier(ctx, tx, tenantID, p.SupplierID); err != nil {
			return err
		}
		if err := tx.Products().CreateProduct(ctx, p); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrSKUTaken
			}
			return err
		}
		if in.StockQuantity > 0 {
			_, err := applyStock(ctx, tx, stockChange{
				TenantID:  tenantID,
				ProductID: p.ID,
				Delta:     in.StockQuantity,
				Kind:      domain.MovementAdjustment,
				Note:      "opening stock",
				CreatedBy: userID,
			})
			return err
		}
		return nil
	})
	if err != nil {
		return domain.Product{}, err
	}

	p.StockQuantity = in.StockQuantity
	return p, nil
}

// UpdateProduct rewrites catalog fields. Stock is left alone; use AdjustStock.
func (s *CatalogService) UpdateProduct(ctx context.Context, tenantID, productID string, in ProductInput) (domain.Product, error) {
	if err := in.normalize(); err != nil {
		return domain.Product{}, err
	}
	if err := checkSupplier(ctx, s.Store, tenantID, in.SupplierID); err != nil {
		return domain.Product{}, err
	}

	p, err := s.Store.Products().GetProduct(ctx, tenantID, productID)
	if err != nil {
		return domain.Product{}, err
	}
	in.apply(&p)
	p.UpdatedAt = time.Now().UTC()

	if err := s.Store.Products().UpdateProduct(ctx, p); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Product{}, ErrSKUTaken
		}
		return domain.Product{}, err
	}
	return p, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, tenantID, productID string) (domain.Product, error) {
	return s.Store.Products().GetProduct(ctx, tenantID, productID)
}

func (s *CatalogService) ListProducts(ctx context.Context, tenantID string, f domain.ProductFilter) ([]domain.Product, error) {
	return s.Store.Products().ListProducts(ctx, tenantID, f)
}

// ArchiveProduct hides a product from the portal and listings filtered on
// active. History is kept.
func (s *CatalogService) ArchiveProduct(ctx context.Context, tenantID, productID string) error {
	return s.Store.Products().SetActive(ctx, tenantID, productID, false)
}

type AdjustStockInput struct {
	Delta         int    `json:"delta"`
	Reason        string `json:"reason"`
	ReferenceType string `json:"reference_type,omitempty"`
	ReferenceID   string `json:"reference_id,omitempty"`
}

func stockLockKey(tenantID, productID string) string {
	return "lock:stock:" + tenantID + ":" + productID
}

// AdjustStock applies a manual stock correction under the product lock.
func (s *CatalogService) AdjustStock(ctx context.Context, tenantID, userID, productID string, in AdjustStockInput) (domain.StockMovement, error) {
	if in.Delta == 0 {
		return domain.StockMovement{}, fmt.Errorf("%w: delta must not be zero", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Reason) == "" {
		return domain.StockMovement{}, fmt.Errorf("%w: reason is required", ErrInvalidInput)
	}

	var m domain.StockMovement
	adjust := func(ctx context.Context) error {
		return s.Store.WithTx(ctx, func(tx store.Tx) error {
			var err error
			m, err = applyStock(ctx, tx, stockChange{
				TenantID:      tenantID,
				ProductID:     productID,
				Delta:         in.Delta,
				Kind:          domain.MovementAdjustment,
				ReferenceType: in.ReferenceType,
				ReferenceID:   in.ReferenceID,
				Note:          strings.TrimSpace(in.Reason),
				CreatedBy:     userID,
			})
			return err
		})
	}

	var err error
	if s.Locks == nil {
		err = adjust(ctx)
	} else {
		opts := s.LockOptions
		if opts.Attempts == 0 {
			opts = cachex.DefaultLockOptions
		}
		err = cachex.WithLock(ctx, s.Locks, stockLockKey(tenantID, productID), opts, adjust)
		if errors.Is(err, cachex.ErrLockBusy) {
			err = ErrStockBusy
		}
	}
	metricsx.RecordBusinessEvent(ctx, "stock_adjusted", err == nil)
	if err != nil {
		return domain.StockMovement{}, err
	}

	slogx.FromContext(ctx).Info("stock adjusted",
		"product_id", productID, "delta", in.Delta, "quantity_after", m.QuantityAfter)
	return m, nil
}

func (s *CatalogService) ListMovements(ctx context.Context, tenantID, productID string, limit int) ([]domain.StockMovement, error) {
	if _, err := s.Store.Products().GetProduct(ctx, tenantID, productID); err != nil {
		return nil, err
	}
	return s.Store.Movements().ListMovements(ctx, tenantID, productID, limit)
}

// LookupRelease fetches a Discogs release without touching the catalog.
func (s *CatalogService) LookupRelease(ctx context.Context, releaseID int64) (discogs.Release, error) {
	if s.Discogs == nil {
		return discogs.Release{}, ErrUpstream
	}
	rel, err := s.Discogs.Release(ctx, releaseID)
	return rel, mapDiscogsErr(err)
}

// EnrichFromDiscogs fills catalog metadata from a Discogs release. With a
// zero releaseID the product barcode is searched instead.
func (s *CatalogService) EnrichFromDiscogs(ctx context.Context, tenantID, productID string, releaseID int64) (domain.Product, error) {
	if s.Discogs == nil {
		return domain.Product{}, ErrUpstream
	}

	p, err := s.Store.Products().GetProduct(ctx, tenantID, productID)
	if err != nil {
		return domain.Product{}, err
	}

	if releaseID == 0 {
		if p.Barcode == "" {
			return domain.Product{}, fmt.Errorf("%w: release_id is required when the product has no barcode", ErrInvalidInput)
		}
		hits, err := s.Discogs.SearchBarcode(ctx, p.Barcode)
		if err != nil {
			return domain.Product{}, mapDiscogsErr(err)
		}
		if len(hits) == 0 {
			return domain.Product{}, ErrDiscogsNotFound
		}
		releaseID = hits[0].ID
	}

	rel, err := s.Discogs.Release(ctx, releaseID)
	if err != nil {
		return domain.Product{}, mapDiscogsErr(err)
	}

	p.DiscogsReleaseID = rel.ID
	p.Title = rel.Title
	if a := rel.ArtistName(); a != "" {
		p.Artist = a
	}
	if len(rel.Labels) > 0 {
		p.Label = rel.Labels[0].Name
		p.CatalogNumber = rel.Labels[0].CatNo
	}
	if rel.Year > 0 {
		p.ReleaseYear = rel.Year
	}
	if f := rel.FormatName(); f != "" {
		p.Format = f
	}
	if len(rel.Genres) > 0 {
		p.Genre = strings.Join(rel.Genres, ", ")
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.Store.Products().UpdateProduct(ctx, p); err != nil {
		return domain.Product{}, err
	}

	slogx.FromContext(ctx).Info("product enriched from discogs", "product_id", p.ID, "release_id", rel.ID)
	return p, nil
}

func mapDiscogsErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, discogs.ErrReleaseNotFound):
		return ErrDiscogsNotFound
	default:
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
}
