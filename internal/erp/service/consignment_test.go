package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/internal/erp/store"
)

func TestSupplierCRUD(t *testing.T) {
	e := newEnv(t)

	_, err := e.suppliers.CreateSupplier(e.ctx, e.tenant.ID, SupplierInput{Name: "X", Kind: "barter"})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = e.suppliers.CreateSupplier(e.ctx, e.tenant.ID, SupplierInput{Name: "X", Kind: domain.SupplierConsignment, CommissionRate: dec("1.2")})
	require.ErrorIs(t, err, ErrInvalidInput)

	sup := e.supplier(t, domain.SupplierPurchase, "0.3")
	require.True(t, sup.CommissionRate.IsZero(), "purchase suppliers carry no commission")

	upd, err := e.suppliers.UpdateSupplier(e.ctx, e.tenant.ID, sup.ID, SupplierInput{
		Name: "Renamed", Kind: domain.SupplierConsignment, CommissionRate: dec("0.25"), Country: "de",
	})
	require.NoError(t, err)
	require.Equal(t, "DE", upd.Country)

	p := e.product(t, "LP-001", 0, sup.ID)
	require.ErrorIs(t, e.suppliers.DeleteSupplier(e.ctx, e.tenant.ID, sup.ID), store.ErrInUse)

	in := inputFromProduct(p)
	in.SupplierID = ""
	_, err = e.catalog.UpdateProduct(e.ctx, e.tenant.ID, p.ID, in)
	require.NoError(t, err)
	require.NoError(t, e.suppliers.DeleteSupplier(e.ctx, e.tenant.ID, sup.ID))

	_, err = e.suppliers.GetSupplier(e.ctx, e.tenant.ID, sup.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestConsignmentStatement(t *testing.T) {
	e := newEnv(t)
	sup := e.supplier(t, domain.SupplierConsignment, "0.25")
	consigned := e.product(t, "LP-001", 10, sup.ID)
	own := e.product(t, "LP-002", 10, "")
	cust := e.customer(t, CustomerInput{})

	e.confirmedOrder(t, cust.ID, map[string]int{consigned.ID: 3, own.ID: 1})

	// A cancelled sale no longer counts.
	cancelled := e.confirmedOrder(t, cust.ID, map[string]int{consigned.ID: 2})
	_, err := e.orders.Cancel(e.ctx, e.tenant.ID, e.owner.ID, cancelled.ID)
	require.NoError(t, err)

	from, to := time.Now().Add(-time.Hour), time.Now().Add(time.Hour)
	st, err := e.consignment.Statement(e.ctx, e.tenant.ID, sup.ID, from, to)
	require.NoError(t, err)
	require.Len(t, st.Lines, 1)
	require.True(t, st.GrossSales.Equal(dec("60.00")), st.GrossSales.String())
	require.True(t, st.Commission.Equal(dec("15.00")))
	require.True(t, st.NetPayable.Equal(dec("45.00")))
	require.True(t, st.AlreadyPaid.IsZero())
	require.True(t, st.Outstanding.Equal(dec("45.00")))

	_, err = e.consignment.RecordPayout(e.ctx, e.tenant.ID, sup.ID, PayoutInput{
		PeriodStart: from, PeriodEnd: to, Amount: dec("20"), Reference: "wire-1",
	})
	require.NoError(t, err)

	_, err = e.consignment.RecordPayout(e.ctx, e.tenant.ID, sup.ID, PayoutInput{
		PeriodStart: from, PeriodEnd: to, Amount: dec("25.01"),
	})
	require.ErrorIs(t, err, ErrPayoutExceedsBalance)

	st, err = e.consignment.Statement(e.ctx, e.tenant.ID, sup.ID, from, to)
	require.NoError(t, err)
	require.True(t, st.AlreadyPaid.Equal(dec("20")))
	require.True(t, st.Outstanding.Equal(dec("25")))

	payouts, err := e.consignment.ListPayouts(e.ctx, e.tenant.ID, sup.ID, from, to)
	require.NoError(t, err)
	require.Len(t, payouts, 1)

	t.Run("period outside sales", func(t *testing.T) {
		st, err := e.consignment.Statement(e.ctx, e.tenant.ID, sup.ID, to, to.Add(time.Hour))
		require.NoError(t, err)
		require.Empty(t, st.Lines)
		require.True(t, st.GrossSales.IsZero())
	})

	t.Run("bad period", func(t *testing.T) {
		_, err := e.consignment.Statement(e.ctx, e.tenant.ID, sup.ID, to, from)
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("purchase supplier has no statement", func(t *testing.T) {
		other := e.supplier(t, domain.SupplierPurchase, "0")
		_, err := e.consignment.Statement(e.ctx, e.tenant.ID, other.ID, from, to)
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestCommissionRounding(t *testing.T) {
	e := newEnv(t)
	sup := e.supplier(t, domain.SupplierConsignment, "0.125")
	p := e.product(t, "LP-001", 10, sup.ID)
	cust := e.customer(t, CustomerInput{})

	// 0.20 at 12.5% is exactly half a cent.
	in := OrderInput{CustomerID: cust.ID, Items: []domain.OrderLineInput{{ProductID: p.ID, Quantity: 1, UnitPrice: ptr(dec("0.20"))}}}
	o, err := e.orders.Create(e.ctx, e.tenant.ID, e.owner.ID, domain.SourceBackoffice, in)
	require.NoError(t, err)
	_, err = e.orders.Confirm(e.ctx, e.tenant.ID, e.owner.ID, o.ID)
	require.NoError(t, err)

	st, err := e.consignment.Statement(e.ctx, e.tenant.ID, sup.ID, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.True(t, st.Commission.Equal(dec("0.03")), "0.025 rounds half up, got %s", st.Commission)
	require.True(t, st.NetPayable.Equal(dec("0.17")))
}

func TestMargins(t *testing.T) {
	e := newEnv(t)
	cons := e.supplier(t, domain.SupplierConsignment, "0.2")
	buy := e.supplier(t, domain.SupplierPurchase, "0")
	a := e.product(t, "LP-A", 10, buy.ID)
	b := e.product(t, "LP-B", 10, "")
	c := e.product(t, "LP-C", 10, cons.ID)
	cust := e.customer(t, CustomerInput{})

	e.confirmedOrder(t, cust.ID, map[string]int{a.ID: 2, b.ID: 1, c.ID: 5})

	margins, err := e.consignment.Margins(e.ctx, e.tenant.ID, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, margins, 2)

	require.Equal(t, "LP-A", margins[0].SKU)
	require.Equal(t, 2, margins[0].Quantity)
	require.True(t, margins[0].Revenue.Equal(dec("40")))
	require.True(t, margins[0].Cost.Equal(dec("16")))
	require.True(t, margins[0].Margin.Equal(dec("24")))

	require.Equal(t, "LP-B", margins[1].SKU)
	require.True(t, margins[1].Margin.Equal(dec("12")))
}

func ptr[T any](v T) *T { return &v }
