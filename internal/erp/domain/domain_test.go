package domain_test

import (
	"testing"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPOTransitions(t *testing.T) {
	all := []domain.POStatus{
		domain.POStatusDraft, domain.POStatusSent, domain.POStatusConfirmed,
		domain.POStatusPartiallyReceived, domain.POStatusReceived,
		domain.POStatusClosed, domain.POStatusCancelled,
	}
	allowed := map[[2]domain.POStatus]bool{
		{domain.POStatusDraft, domain.POStatusSent}:                  true,
		{domain.POStatusDraft, domain.POStatusCancelled}:             true,
		{domain.POStatusSent, domain.POStatusConfirmed}:              true,
		{domain.POStatusSent, domain.POStatusCancelled}:              true,
		{domain.POStatusConfirmed, domain.POStatusPartiallyReceived}: true,
		{domain.POStatusConfirmed, domain.POStatusReceived}:          true,
		{domain.POStatusConfirmed, domain.POStatusCancelled}:         true,
		{domain.POStatusPartiallyReceived, domain.POStatusReceived}:  true,
		{domain.POStatusReceived, domain.POStatusClosed}:             true,
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]domain.POStatus{from, to}]
			require.Equal(t, want, from.CanTransition(to), "%s -> %s", from, to)
		}
	}

	require.True(t, domain.POStatusClosed.Terminal())
	require.True(t, domain.POStatusCancelled.Terminal())
	require.False(t, domain.POStatusPartiallyReceived.CanTransition(domain.POStatusCancelled))
	require.False(t, domain.POStatus("bogus").Valid())
}

func TestOrderTransitions(t *testing.T) {
	require.True(t, domain.OrderPending.CanTransition(domain.OrderConfirmed))
	require.True(t, domain.OrderConfirmed.CanTransition(domain.OrderCancelled))
	require.True(t, domain.OrderShipped.CanTransition(domain.OrderDelivered))
	require.False(t, domain.OrderShipped.CanTransition(domain.OrderCancelled))
	require.False(t, domain.OrderDelivered.CanTransition(domain.OrderShipped))
	require.False(t, domain.OrderCancelled.CanTransition(domain.OrderConfirmed))
}

func TestLineTotal(t *testing.T) {
	tests := []struct {
		qty      int
		unit     string
		discount string
		want     string
	}{
		{1, "10", "0", "10"},
		{3, "12.99", "0.1", "35.07"}, // 38.97 * 0.9 = 35.073
		{1, "0.005", "0", "0.01"},    // half away from zero
		{5, "19.95", "0.15", "84.79"},
	}
	for _, tt := range tests {
		got := domain.LineTotal(tt.qty, dec(tt.unit), dec(tt.discount))
		require.True(t, dec(tt.want).Equal(got), "want %s got %s", tt.want, got)
	}
}

func TestOrderRecalculate(t *testing.T) {
	o := domain.Order{
		VATRate: dec("0.2"),
		Items: []domain.OrderItem{
			{Quantity: 2, UnitPrice: dec("15.00"), DiscountRate: dec("0")},
			{Quantity: 1, UnitPrice: dec("9.99"), DiscountRate: dec("0.1")},
		},
	}
	o.Recalculate()
	require.True(t, dec("38.99").Equal(o.Subtotal), o.Subtotal.String())
	require.True(t, dec("7.80").Equal(o.VATAmount), o.VATAmount.String())
	require.True(t, dec("46.79").Equal(o.Total), o.Total.String())

	o.ReverseCharge = true
	o.Recalculate()
	require.True(t, o.VATAmount.IsZero())
	require.True(t, o.Total.Equal(o.Subtotal))
}

func TestReverseCharge(t *testing.T) {
	validated := domain.Customer{Country: "DE", VATNumber: "DE123456789", VATValidated: true}

	require.True(t, domain.ReverseCharge("FR", validated))
	require.False(t, domain.ReverseCharge("DE", validated), "same country")
	require.False(t, domain.ReverseCharge("US", validated), "seller outside EU")

	unvalidated := validated
	unvalidated.VATValidated = false
	require.False(t, domain.ReverseCharge("FR", unvalidated))

	swiss := domain.Customer{Country: "CH", VATNumber: "CHE123", VATValidated: true}
	require.False(t, domain.ReverseCharge("FR", swiss))

	greek := domain.Customer{Country: "GR", VATNumber: "EL123456789", VATValidated: true}
	require.False(t, domain.ReverseCharge("EL", greek))
	require.True(t, domain.ReverseCharge("FR", greek))
}

func TestPurchaseOrderHelpers(t *testing.T) {
	po := domain.PurchaseOrder{Items: []domain.PurchaseOrderItem{
		{QuantityOrdered: 10, QuantityReceived: 10, UnitCost: dec("4.50")},
		{QuantityOrdered: 5, QuantityReceived: 2, UnitCost: dec("7.25")},
	}}
	require.True(t, dec("81.25").Equal(po.Total()))
	require.False(t, po.FullyReceived())

	po.Items[1].QuantityReceived = 5
	require.True(t, po.FullyReceived())
	require.False(t, domain.PurchaseOrder{}.FullyReceived())
}

func TestScopesFor(t *testing.T) {
	owner := domain.ScopesFor(domain.RoleOwner)
	staff := domain.ScopesFor(domain.RoleStaff)
	pro := domain.ScopesFor(domain.RolePro)

	require.Contains(t, owner, domain.ScopeBillingWrite)
	require.Contains(t, owner, domain.ScopeUsersWrite)
	for _, s := range staff {
		require.Contains(t, owner, s)
	}
	require.NotContains(t, staff, domain.ScopeUsersWrite)
	require.ElementsMatch(t, []string{domain.ScopePortalRead, domain.ScopePortalOrder}, pro)
	require.Nil(t, domain.ScopesFor("intruder"))
}
