package service

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
)

func TestImportCSV(t *testing.T) {
	e := newEnv(t)
	existing := e.product(t, "LP-001", 4, "")

	in := "\ufeffsku,title,artist,retail_price,stock_quantity,release_year\n" +
		"LP-001,Updated Title,Someone,25.50,6,\n" +
		"LP-100,New Record,Band,\"19,90\",3,1977\n" +
		",Missing SKU,,,,\n" +
		"LP-101,Bad Price,,abc,,\n" +
		"LP-102,Bad Stock,,,-3,\n" +
		",,,,,\n"

	report, err := e.catalog.ImportCSV(e.ctx, e.tenant.ID, e.owner.ID, strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, 1, report.Created)
	require.Equal(t, 1, report.Updated)
	require.Len(t, report.Errors, 3)
	require.Equal(t, 4, report.Errors[0].Line)
	require.Equal(t, 5, report.Errors[1].Line)
	require.Equal(t, 6, report.Errors[2].Line)

	got, err := e.store.Products().GetProduct(e.ctx, e.tenant.ID, existing.ID)
	require.NoError(t, err)
	require.Equal(t, "Updated Title", got.Title)
	require.True(t, got.RetailPrice.Equal(dec("25.50")))
	require.True(t, got.WholesalePrice.Equal(dec("12.00")), "columns absent from the file keep their value")
	require.Equal(t, 6, got.StockQuantity)

	moves, err := e.store.Movements().ListMovements(e.ctx, e.tenant.ID, existing.ID, 10)
	require.NoError(t, err)
	require.Len(t, moves, 2)
	require.Equal(t, domain.MovementImport, moves[0].Kind)
	require.Equal(t, 2, moves[0].QuantityChange)

	created, err := e.store.Products().GetProductBySKU(e.ctx, e.tenant.ID, "LP-100")
	require.NoError(t, err)
	require.True(t, created.RetailPrice.Equal(dec("19.90")))
	require.Equal(t, 1977, created.ReleaseYear)
	require.Equal(t, 3, created.StockQuantity)
}

func TestImportCSVLinesFollowTheFile(t *testing.T) {
	e := newEnv(t)

	in := "sku,title,retail_price\n" +
		"LP-1,\"Side A\nSide B\",10\n" +
		"\n" +
		",No SKU,1\n" +
		"LP-2,\"Bad \"quote\",2\n"

	report, err := e.catalog.ImportCSV(e.ctx, e.tenant.ID, e.owner.ID, strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, 1, report.Created)
	require.Len(t, report.Errors, 2)
	require.Equal(t, 5, report.Errors[0].Line, "multi-line title and blank line are counted")
	require.Equal(t, 6, report.Errors[1].Line)

	p, err := e.store.Products().GetProductBySKU(e.ctx, e.tenant.ID, "LP-1")
	require.NoError(t, err)
	require.Equal(t, "Side A\nSide B", p.Title)
}

func TestImportCSVRejectsBadHeader(t *testing.T) {
	e := newEnv(t)

	_, err := e.catalog.ImportCSV(e.ctx, e.tenant.ID, e.owner.ID, strings.NewReader(""))
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = e.catalog.ImportCSV(e.ctx, e.tenant.ID, e.owner.ID, strings.NewReader("title,artist\nA,B\n"))
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestExportCSVRoundTrip(t *testing.T) {
	e := newEnv(t)
	e.product(t, "LP-001", 4, "")
	e.product(t, "LP-002", 0, "")

	var buf bytes.Buffer
	require.NoError(t, e.catalog.ExportCSV(e.ctx, e.tenant.ID, &buf))

	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, CatalogColumns, rows[0])
	require.Equal(t, "20.00", rows[1][12])

	// Importing an export back changes nothing but counts every row as updated.
	report, err := e.catalog.ImportCSV(e.ctx, e.tenant.ID, e.owner.ID, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, 0, report.Created)
	require.Equal(t, 2, report.Updated)
	require.Empty(t, report.Errors)
}
