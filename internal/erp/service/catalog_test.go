package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/internal/erp/external/discogs"
	"github.com/OolalaDXB/outrenational/internal/erp/store"
	"github.com/OolalaDXB/outrenational/pkg/cachex"
)

type fakeReleases struct {
	releases map[int64]discogs.Release
	barcodes map[string]int64
}

func (f *fakeReleases) Release(_ context.Context, id int64) (discogs.Release, error) {
	r, ok := f.releases[id]
	if !ok {
		return discogs.Release{}, discogs.ErrReleaseNotFound
	}
	return r, nil
}

func (f *fakeReleases) SearchBarcode(_ context.Context, code string) ([]discogs.SearchResult, error) {
	id, ok := f.barcodes[code]
	if !ok {
		return nil, nil
	}
	return []discogs.SearchResult{{ID: id}}, nil
}

func TestCreateProduct(t *testing.T) {
	e := newEnv(t)

	p := e.product(t, "LP-001", 5, "")
	require.True(t, p.Active)
	require.Equal(t, 5, p.StockQuantity)

	moves, err := e.catalog.ListMovements(e.ctx, e.tenant.ID, p.ID, 10)
	require.NoError(t, err)
	require.Len(t, moves, 1)
	require.Equal(t, domain.MovementAdjustment, moves[0].Kind)
	require.Equal(t, 0, moves[0].QuantityBefore)
	require.Equal(t, 5, moves[0].QuantityAfter)

	t.Run("sku unique per tenant", func(t *testing.T) {
		_, err := e.catalog.CreateProduct(e.ctx, e.tenant.ID, e.owner.ID, ProductInput{SKU: "LP-001", Title: "Dup"})
		require.ErrorIs(t, err, ErrSKUTaken)
	})

	t.Run("unknown supplier", func(t *testing.T) {
		_, err := e.catalog.CreateProduct(e.ctx, e.tenant.ID, e.owner.ID, ProductInput{SKU: "LP-X", Title: "X", SupplierID: "nope"})
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("negative price", func(t *testing.T) {
		_, err := e.catalog.CreateProduct(e.ctx, e.tenant.ID, e.owner.ID, ProductInput{SKU: "LP-Y", Title: "Y", RetailPrice: dec("-1")})
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("no opening movement without stock", func(t *testing.T) {
		q := e.product(t, "LP-002", 0, "")
		moves, err := e.catalog.ListMovements(e.ctx, e.tenant.ID, q.ID, 10)
		require.NoError(t, err)
		require.Empty(t, moves)
	})
}

func TestUpdateAndArchiveProduct(t *testing.T) {
	e := newEnv(t)
	p := e.product(t, "LP-001", 3, "")
	e.product(t, "LP-002", 0, "")

	in := inputFromProduct(p)
	in.Title = "Renamed"
	in.StockQuantity = 99
	got, err := e.catalog.UpdateProduct(e.ctx, e.tenant.ID, p.ID, in)
	require.NoError(t, err)
	require.Equal(t, "Renamed", got.Title)
	require.Equal(t, 3, e.stock(t, p.ID), "update never touches stock")

	in.SKU = "LP-002"
	_, err = e.catalog.UpdateProduct(e.ctx, e.tenant.ID, p.ID, in)
	require.ErrorIs(t, err, ErrSKUTaken)

	require.NoError(t, e.catalog.ArchiveProduct(e.ctx, e.tenant.ID, p.ID))
	active, err := e.catalog.ListProducts(e.ctx, e.tenant.ID, domain.ProductFilter{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "LP-002", active[0].SKU)
}

func TestAdjustStock(t *testing.T) {
	e := newEnv(t)
	p := e.product(t, "LP-001", 3, "")

	m, err := e.catalog.AdjustStock(e.ctx, e.tenant.ID, e.owner.ID, p.ID, AdjustStockInput{Delta: -2, Reason: "damaged"})
	require.NoError(t, err)
	require.Equal(t, 3, m.QuantityBefore)
	require.Equal(t, 1, m.QuantityAfter)
	require.Equal(t, "damaged", m.Note)

	_, err = e.catalog.AdjustStock(e.ctx, e.tenant.ID, e.owner.ID, p.ID, AdjustStockInput{Delta: -2, Reason: "lost"})
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.Equal(t, 1, e.stock(t, p.ID))

	_, err = e.catalog.AdjustStock(e.ctx, e.tenant.ID, e.owner.ID, p.ID, AdjustStockInput{Delta: 0, Reason: "noop"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = e.catalog.AdjustStock(e.ctx, e.tenant.ID, e.owner.ID, p.ID, AdjustStockInput{Delta: 1})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = e.catalog.AdjustStock(e.ctx, "other-tenant", e.owner.ID, p.ID, AdjustStockInput{Delta: 1, Reason: "x"})
	require.ErrorIs(t, err, store.ErrNotFound)

	moves, err := e.catalog.ListMovements(e.ctx, e.tenant.ID, p.ID, 10)
	require.NoError(t, err)
	require.Len(t, moves, 2, "one movement per successful change")
}

func TestAdjustStockConcurrent(t *testing.T) {
	e := newEnv(t)
	e.catalog.LockOptions = cachex.LockOptions{TTL: 5 * time.Second, Attempts: 200, Backoff: 5 * time.Millisecond}
	p := e.product(t, "LP-001", 0, "")

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.catalog.AdjustStock(e.ctx, e.tenant.ID, e.owner.ID, p.ID, AdjustStockInput{Delta: 1, Reason: "count"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	require.Equal(t, 10, e.stock(t, p.ID))
}

func TestAdjustStockLockBusy(t *testing.T) {
	e := newEnv(t)
	e.catalog.LockOptions = cachex.LockOptions{TTL: time.Second, Attempts: 1}
	p := e.product(t, "LP-001", 1, "")

	ok, err := e.cache.AcquireLock(e.ctx, stockLockKey(e.tenant.ID, p.ID), "someone-else", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = e.catalog.AdjustStock(e.ctx, e.tenant.ID, e.owner.ID, p.ID, AdjustStockInput{Delta: 1, Reason: "x"})
	require.ErrorIs(t, err, ErrStockBusy)
	require.Equal(t, 1, e.stock(t, p.ID))
}

func TestEnrichFromDiscogs(t *testing.T) {
	e := newEnv(t)
	e.catalog.Discogs = &fakeReleases{
		releases: map[int64]discogs.Release{
			249504: {
				ID:      249504,
				Title:   "Selected Ambient Works 85-92",
				Artists: []discogs.Artist{{Name: "Aphex Twin"}},
				Labels:  []discogs.Label{{Name: "Apollo", CatNo: "AMB 3922"}},
				Year:    1992,
				Formats: []discogs.Format{{Name: "Vinyl", Descriptions: []string{"LP", "Album"}}},
				Genres:  []string{"Electronic"},
			},
		},
		barcodes: map[string]int64{"5413356392213": 249504},
	}

	p, err := e.catalog.CreateProduct(e.ctx, e.tenant.ID, e.owner.ID, ProductInput{
		SKU: "AMB3922", Title: "placeholder", Barcode: "5413356392213",
	})
	require.NoError(t, err)

	got, err := e.catalog.EnrichFromDiscogs(e.ctx, e.tenant.ID, p.ID, 0)
	require.NoError(t, err)
	require.Equal(t, "Selected Ambient Works 85-92", got.Title)
	require.Equal(t, "Aphex Twin", got.Artist)
	require.Equal(t, "Apollo", got.Label)
	require.Equal(t, "AMB 3922", got.CatalogNumber)
	require.Equal(t, 1992, got.ReleaseYear)
	require.Equal(t, "Vinyl, LP, Album", got.Format)
	require.Equal(t, "Electronic", got.Genre)
	require.EqualValues(t, 249504, got.DiscogsReleaseID)

	_, err = e.catalog.EnrichFromDiscogs(e.ctx, e.tenant.ID, p.ID, 1)
	require.ErrorIs(t, err, ErrDiscogsNotFound)

	e.catalog.Discogs = nil
	_, err = e.catalog.LookupRelease(e.ctx, 249504)
	require.ErrorIs(t, err, ErrUpstream)
}
