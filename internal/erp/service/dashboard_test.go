package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
)

func TestDashboardSummary(t *testing.T) {
	e := newEnv(t)
	vendor := e.supplier(t, domain.SupplierPurchase, "0")
	consignor := e.supplier(t, domain.SupplierConsignment, "0.25")

	a := e.product(t, "LP-A", 10, vendor.ID)
	c := e.product(t, "LP-C", 5, consignor.ID)
	e.product(t, "LP-D", 1, "")

	shop := e.customer(t, CustomerInput{})
	e.confirmedOrder(t, shop.ID, map[string]int{a.ID: 3})
	e.confirmedOrder(t, shop.ID, map[string]int{c.ID: 1})

	_, err := e.orders.Create(e.ctx, e.tenant.ID, e.owner.ID, domain.SourceBackoffice, OrderInput{
		CustomerID: shop.ID, Items: []domain.OrderLineInput{{ProductID: a.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	po := newPO(t, e, vendor.ID, POItemInput{ProductID: a.ID, Quantity: 5, UnitCost: dec("8")})
	advance(t, e, po.ID, domain.POStatusSent)
	newPO(t, e, vendor.ID, POItemInput{ProductID: a.ID, Quantity: 1, UnitCost: dec("8")})

	now := time.Now().UTC()
	d, err := e.dashboard.Summary(e.ctx, e.tenant.ID, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)

	require.Equal(t, 2, d.OrderCount, "pending orders are not revenue")
	require.True(t, d.Revenue.Equal(dec("96")), d.Revenue.String())
	require.True(t, d.AverageOrderValue.Equal(dec("48")))
	require.Equal(t, 1, d.OpenPOCount, "drafts are not open")
	require.True(t, d.OpenPOValue.Equal(dec("40")))
	require.Equal(t, 1, d.LowStockCount)
	require.True(t, d.ConsignmentPayable.Equal(dec("15")), d.ConsignmentPayable.String())
	require.Equal(t, domain.SubscriptionNone, d.SubscriptionStatus)

	require.Len(t, d.TopProducts, 2)
	require.Equal(t, "LP-A", d.TopProducts[0].SKU)
	require.Equal(t, 3, d.TopProducts[0].Quantity)
	require.True(t, d.TopProducts[0].Revenue.Equal(dec("60")))

	empty, err := e.dashboard.Summary(e.ctx, e.tenant.ID, now.Add(-48*time.Hour), now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Zero(t, empty.OrderCount)
	require.True(t, empty.AverageOrderValue.IsZero())
	require.Empty(t, empty.TopProducts)

	_, err = e.dashboard.Summary(e.ctx, e.tenant.ID, now, now)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestTopProductsCapsAndOrders(t *testing.T) {
	var lines []domain.SoldLine
	for i, sku := range []string{"F", "E", "D", "C", "B", "A"} {
		lines = append(lines, domain.SoldLine{ProductID: sku, SKU: sku, Quantity: 1 + i%2, LineTotal: dec("1")})
	}

	top := topProducts(lines, 5)
	require.Len(t, top, 5)
	require.Equal(t, []string{"A", "C", "E", "B", "D"}, []string{top[0].SKU, top[1].SKU, top[2].SKU, top[3].SKU, top[4].SKU})
}
