package erp_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/OolalaDXB/outrenational/pkg/erpsdk"
)

const catalogCSV = `sku,title,artist,label,format,barcode,cost_price,wholesale_price,retail_price,stock_quantity,reorder_point
LP-001,Blue Train,John Coltrane,Blue Note,LP,0602577376012,11.00,16.50,24.99,12,3
LP-002,Kind of Blue,Miles Davis,Columbia,LP,0888751190812,10.00,15.00,22.99,2,5
LP-003,,Nobody,Nowhere,LP,,1,2,3,1,0
`

func TestCatalogImportExport(t *testing.T) {
	baseURL, cleanup := setupERPContainer(t, relaxedLimits)
	defer cleanup()

	sess := signupAndLogin(t, erpsdk.NewClient(baseURL))

	report, err := sess.ImportProducts(t.Context(), strings.NewReader(catalogCSV))
	require.NoError(t, err)
	require.Equal(t, 2, report.Created)
	require.Len(t, report.Errors, 1, "the row without a title is rejected")
	require.Equal(t, 4, report.Errors[0].Line)

	// Same file again updates in place.
	report, err = sess.ImportProducts(t.Context(), strings.NewReader(catalogCSV))
	require.NoError(t, err)
	require.Zero(t, report.Created)
	require.Equal(t, 2, report.Updated)

	low, err := sess.ListProducts(t.Context(), erpsdk.ProductQuery{LowStock: true})
	require.NoError(t, err)
	require.Len(t, low, 1)
	require.Equal(t, "LP-002", low[0].SKU)

	found, err := sess.ListProducts(t.Context(), erpsdk.ProductQuery{Search: "coltrane"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "24.99", found[0].RetailPrice.String())
	require.Equal(t, 12, found[0].StockQuantity)

	var buf bytes.Buffer
	require.NoError(t, sess.ExportProducts(t.Context(), &buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3, "header plus two products")
	require.True(t, strings.HasPrefix(lines[0], "sku,title,artist"))
}

func TestPurchaseOrderLookup(t *testing.T) {
	baseURL, cleanup := setupERPContainer(t, relaxedLimits)
	defer cleanup()

	sess := signupAndLogin(t, erpsdk.NewClient(baseURL))

	pos, err := sess.ListPurchaseOrders(t.Context(), "")
	require.NoError(t, err)
	require.Empty(t, pos)

	_, err = sess.TransitionPurchaseOrder(t.Context(), "01J00000000000000000000000", "sent")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not_found")
}
