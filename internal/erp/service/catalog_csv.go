package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/internal/erp/store"
	"github.com/OolalaDXB/outrenational/pkg/idx"
	"github.com/OolalaDXB/outrenational/pkg/metricsx"
	"github.com/OolalaDXB/outrenational/pkg/slogx"
)

// CatalogColumns is the CSV layout used by import and export.
var CatalogColumns = []string{
	"sku", "title", "artist", "label", "catalog_number", "format", "barcode",
	"release_year", "genre", "supplier_id", "cost_price", "wholesale_price",
	"retail_price", "stock_quantity", "reorder_point",
}

// ImportCSV upserts products by SKU. Rows that fail validation are reported
// and skipped; the others are written in one transaction. Stock differences
// are booked as import movements.
func (s *CatalogService) ImportCSV(ctx context.Context, tenantID, userID string, r io.Reader) (domain.ImportReport, error) {
	report := domain.ImportReport{Errors: []domain.ImportError{}}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return report, fmt.Errorf("%w: empty file", ErrInvalidInput)
		}
		return report, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, req := range []string{"sku", "title"} {
		if _, ok := cols[req]; !ok {
			return report, fmt.Errorf("%w: missing column %q", ErrInvalidInput, req)
		}
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		for {
			rec, err := cr.Read()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				var pe *csv.ParseError
				if !errors.As(err, &pe) {
					return fmt.Errorf("%w: %v", ErrInvalidInput, err)
				}
				report.Errors = append(report.Errors, domain.ImportError{Line: pe.StartLine, Message: err.Error()})
				continue
			}
			// Quoted fields may span lines; report where the record starts.
			line, _ := cr.FieldPos(0)
			if isBlank(rec) {
				continue
			}

			created, err := s.importRow(ctx, tx, tenantID, userID, cols, rec)
			switch {
			case err == nil && created:
				report.Created++
			case err == nil:
				report.Updated++
			case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInsufficientStock):
				report.Errors = append(report.Errors, domain.ImportError{Line: line, Message: err.Error()})
			default:
				return err
			}
		}
	})
	metricsx.RecordBusinessEvent(ctx, "catalog_imported", err == nil)
	if err != nil {
		return domain.ImportReport{}, err
	}

	slogx.FromContext(ctx).Info("catalog imported",
		"created", report.Created, "updated", report.Updated, "errors", len(report.Errors))
	return report, nil
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func (s *CatalogService) importRow(ctx context.Context, tx store.Tx, tenantID, userID string, cols map[string]int, rec []string) (bool, error) {
	field := func(name string) (string, bool) {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return "", false
		}
		return strings.TrimSpace(rec[i]), true
	}

	sku, _ := field("sku")
	existing, err := tx.Products().GetProductBySKU(ctx, tenantID, strings.TrimSpace(sku))
	created := errors.Is(err, store.ErrNotFound)
	if err != nil && !created {
		return false, err
	}

	in := ProductInput{SKU: sku}
	if !created {
		in = inputFromProduct(existing)
		in.StockQuantity = existing.StockQuantity
	}

	for _, name := range []string{"title", "artist", "label", "catalog_number", "format", "barcode", "genre", "supplier_id"} {
		v, ok := field(name)
		if !ok {
			continue
		}
		switch name {
		case "title":
			in.Title = v
		case "artist":
			in.Artist = v
		case "label":
			in.Label = v
		case "catalog_number":
			in.CatalogNumber = v
		case "format":
			in.Format = v
		case "barcode":
			in.Barcode = v
		case "genre":
			in.Genre = v
		case "supplier_id":
			in.SupplierID = v
		}
	}

	ints := map[string]*int{"release_year": &in.ReleaseYear, "stock_quantity": &in.StockQuantity, "reorder_point": &in.ReorderPoint}
	for name, dst := range ints {
		v, ok := field(name)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return false, fmt.Errorf("%w: %s %q is not a number", ErrInvalidInput, name, v)
		}
		*dst = n
	}

	decs := map[string]*decimal.Decimal{"cost_price": &in.CostPrice, "wholesale_price": &in.WholesalePrice, "retail_price": &in.RetailPrice}
	for name, dst := range decs {
		v, ok := field(name)
		if !ok || v == "" {
			continue
		}
		d, err := decimal.NewFromString(strings.ReplaceAll(v, ",", "."))
		if err != nil {
			return false, fmt.Errorf("%w: %s %q is not a decimal", ErrInvalidInput, name, v)
		}
		*dst = d
	}

	if err := in.normalize(); err != nil {
		return false, err
	}
	if err := checkSupplier(ctx, tx, tenantID, in.SupplierID); err != nil {
		return false, err
	}

	now := time.Now().UTC()
	p := existing
	if created {
		p = domain.Product{ID: idx.New().String(), TenantID: tenantID, Active: true, CreatedAt: now}
	}
	in.apply(&p)
	p.UpdatedAt = now

	if created {
		err = tx.Products().CreateProduct(ctx, p)
	} else {
		err = tx.Products().UpdateProduct(ctx, p)
	}
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return false, fmt.Errorf("%w: duplicate sku", ErrInvalidInput)
		}
		return false, err
	}

	if delta := in.StockQuantity - p.StockQuantity; delta != 0 {
		if _, err := applyStock(ctx, tx, stockChange{
			TenantID:      tenantID,
			ProductID:     p.ID,
			Delta:         delta,
			Kind:          domain.MovementImport,
			ReferenceType: "import",
			CreatedBy:     userID,
		}); err != nil {
			return false, err
		}
	}

	return created, nil
}

func inputFromProduct(p domain.Product) ProductInput {
	return ProductInput{
		SKU:            p.SKU,
		Title:          p.Title,
		Artist:         p.Artist,
		Label:          p.Label,
		CatalogNumber:  p.CatalogNumber,
		Format:         p.Format,
		Barcode:        p.Barcode,
		ReleaseYear:    p.ReleaseYear,
		Genre:          p.Genre,
		SupplierID:     p.SupplierID,
		CostPrice:      p.CostPrice,
		WholesalePrice: p.WholesalePrice,
		RetailPrice:    p.RetailPrice,
		ReorderPoint:   p.ReorderPoint,
	}
}

// ExportCSV writes every product of the tenant in CatalogColumns order.
func (s *CatalogService) ExportCSV(ctx context.Context, tenantID string, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CatalogColumns); err != nil {
		return err
	}

	const pageSize = 500
	for offset := 0; ; offset += pageSize {
		products, err := s.Store.Products().ListProducts(ctx, tenantID, domain.ProductFilter{Limit: pageSize, Offset: offset})
		if err != nil {
			return err
		}
		for _, p := range products {
			rec := []string{
				p.SKU, p.Title, p.Artist, p.Label, p.CatalogNumber, p.Format, p.Barcode,
				itoaOrEmpty(p.ReleaseYear), p.Genre, p.SupplierID,
				p.CostPrice.StringFixed(2), p.WholesalePrice.StringFixed(2), p.RetailPrice.StringFixed(2),
				strconv.Itoa(p.StockQuantity), strconv.Itoa(p.ReorderPoint),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		if len(products) < pageSize {
			break
		}
	}

	cw.Flush()
	return cw.Error()
}

func itoaOrEmpty(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
