package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
)

func newPO(t *testing.T, e *env, supplierID string, items ...POItemInput) domain.PurchaseOrder {
	t.Helper()
	po, err := e.pos.Create(e.ctx, e.tenant.ID, e.owner.ID, POInput{SupplierID: supplierID, Items: items})
	require.NoError(t, err)
	return po
}

func advance(t *testing.T, e *env, poID string, to ...domain.POStatus) domain.PurchaseOrder {
	t.Helper()
	var po domain.PurchaseOrder
	for _, s := range to {
		var err error
		po, err = e.pos.Transition(e.ctx, e.tenant.ID, poID, s)
		require.NoError(t, err)
	}
	return po
}

func TestCreatePurchaseOrder(t *testing.T) {
	e := newEnv(t)
	sup := e.supplier(t, domain.SupplierPurchase, "0")
	p := e.product(t, "LP-001", 0, sup.ID)

	year := time.Now().UTC().Year()
	first := newPO(t, e, sup.ID, POItemInput{ProductID: p.ID, Quantity: 10, UnitCost: dec("7.50")})
	second := newPO(t, e, sup.ID, POItemInput{ProductID: p.ID, Quantity: 1, UnitCost: dec("7.50")})

	require.Equal(t, fmt.Sprintf("PO-%d-00001", year), first.Number)
	require.Equal(t, fmt.Sprintf("PO-%d-00002", year), second.Number)
	require.Equal(t, domain.POStatusDraft, first.Status)
	require.True(t, first.Total().Equal(dec("75")))

	t.Run("validation", func(t *testing.T) {
		cases := map[string]POInput{
			"no supplier":      {Items: []POItemInput{{ProductID: p.ID, Quantity: 1}}},
			"unknown supplier": {SupplierID: "nope", Items: []POItemInput{{ProductID: p.ID, Quantity: 1}}},
			"no items":         {SupplierID: sup.ID},
			"zero quantity":    {SupplierID: sup.ID, Items: []POItemInput{{ProductID: p.ID}}},
			"negative cost":    {SupplierID: sup.ID, Items: []POItemInput{{ProductID: p.ID, Quantity: 1, UnitCost: dec("-1")}}},
			"unknown product":  {SupplierID: sup.ID, Items: []POItemInput{{ProductID: "nope", Quantity: 1}}},
			"repeated product": {SupplierID: sup.ID, Items: []POItemInput{{ProductID: p.ID, Quantity: 1}, {ProductID: p.ID, Quantity: 2}}},
		}
		for name, in := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := e.pos.Create(e.ctx, e.tenant.ID, e.owner.ID, in)
				require.ErrorIs(t, err, ErrInvalidInput)
			})
		}
	})

	// Failed creations do not burn numbers.
	third := newPO(t, e, sup.ID, POItemInput{ProductID: p.ID, Quantity: 1})
	require.Equal(t, fmt.Sprintf("PO-%d-00003", year), third.Number)
}

func TestUpdateDraft(t *testing.T) {
	e := newEnv(t)
	sup := e.supplier(t, domain.SupplierPurchase, "0")
	a := e.product(t, "LP-A", 0, "")
	b := e.product(t, "LP-B", 0, "")

	po := newPO(t, e, sup.ID, POItemInput{ProductID: a.ID, Quantity: 1})
	got, err := e.pos.UpdateDraft(e.ctx, e.tenant.ID, po.ID, POInput{
		SupplierID: sup.ID,
		Notes:      "rush",
		Items:      []POItemInput{{ProductID: b.ID, Quantity: 4, UnitCost: dec("5")}},
	})
	require.NoError(t, err)
	require.Equal(t, "rush", got.Notes)

	reloaded, err := e.pos.Get(e.ctx, e.tenant.ID, po.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	require.Equal(t, b.ID, reloaded.Items[0].ProductID)
	require.Equal(t, 4, reloaded.Items[0].QuantityOrdered)

	advance(t, e, po.ID, domain.POStatusSent)
	_, err = e.pos.UpdateDraft(e.ctx, e.tenant.ID, po.ID, POInput{SupplierID: sup.ID, Items: []POItemInput{{ProductID: a.ID, Quantity: 1}}})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestPOTransitionTable(t *testing.T) {
	e := newEnv(t)
	sup := e.supplier(t, domain.SupplierPurchase, "0")
	p := e.product(t, "LP-001", 0, "")

	po := newPO(t, e, sup.ID, POItemInput{ProductID: p.ID, Quantity: 2})

	_, err := e.pos.Transition(e.ctx, e.tenant.ID, po.ID, domain.POStatusReceived)
	require.ErrorIs(t, err, ErrInvalidTransition)
	_, err = e.pos.Transition(e.ctx, e.tenant.ID, po.ID, "shipped")
	require.ErrorIs(t, err, ErrInvalidInput)

	got := advance(t, e, po.ID, domain.POStatusSent, domain.POStatusConfirmed)
	require.Equal(t, domain.POStatusConfirmed, got.Status)
	require.NotNil(t, got.SentAt)
	require.NotNil(t, got.ConfirmedAt)

	cancelled := newPO(t, e, sup.ID, POItemInput{ProductID: p.ID, Quantity: 1})
	got = advance(t, e, cancelled.ID, domain.POStatusCancelled)
	require.NotNil(t, got.CancelledAt)
	_, err = e.pos.Transition(e.ctx, e.tenant.ID, cancelled.ID, domain.POStatusSent)
	require.ErrorIs(t, err, ErrInvalidTransition, "cancelled is terminal")

	open, err := e.pos.List(e.ctx, e.tenant.ID, domain.POFilter{Status: domain.POStatusConfirmed})
	require.NoError(t, err)
	require.Len(t, open, 1)
	require.Equal(t, po.ID, open[0].ID)
}

func TestReceive(t *testing.T) {
	e := newEnv(t)
	sup := e.supplier(t, domain.SupplierPurchase, "0")
	a := e.product(t, "LP-A", 1, "")
	b := e.product(t, "LP-B", 0, "")

	po := newPO(t, e, sup.ID,
		POItemInput{ProductID: a.ID, Quantity: 5, UnitCost: dec("6.25")},
		POItemInput{ProductID: b.ID, Quantity: 2, UnitCost: dec("9")},
	)
	itemA, itemB := po.Items[0].ID, po.Items[1].ID

	_, err := e.pos.Receive(e.ctx, e.tenant.ID, e.owner.ID, po.ID, []domain.ReceiptLine{{ItemID: itemA, Quantity: 1}})
	require.ErrorIs(t, err, ErrInvalidTransition, "drafts cannot be received")

	advance(t, e, po.ID, domain.POStatusSent, domain.POStatusConfirmed)

	got, err := e.pos.Receive(e.ctx, e.tenant.ID, e.owner.ID, po.ID, []domain.ReceiptLine{{ItemID: itemA, Quantity: 3}})
	require.NoError(t, err)
	require.Equal(t, domain.POStatusPartiallyReceived, got.Status)
	require.Equal(t, 4, e.stock(t, a.ID))

	prod, err := e.store.Products().GetProduct(e.ctx, e.tenant.ID, a.ID)
	require.NoError(t, err)
	require.True(t, prod.CostPrice.Equal(dec("6.25")))

	moves, err := e.store.Movements().ListMovements(e.ctx, e.tenant.ID, a.ID, 1)
	require.NoError(t, err)
	require.Equal(t, domain.MovementPurchaseReceipt, moves[0].Kind)
	require.Equal(t, po.ID, moves[0].ReferenceID)

	t.Run("over receipt rolls back the whole receipt", func(t *testing.T) {
		_, err := e.pos.Receive(e.ctx, e.tenant.ID, e.owner.ID, po.ID, []domain.ReceiptLine{
			{ItemID: itemB, Quantity: 2},
			{ItemID: itemA, Quantity: 3},
		})
		require.ErrorIs(t, err, ErrOverReceipt)
		require.Equal(t, 0, e.stock(t, b.ID))
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := e.pos.Receive(e.ctx, e.tenant.ID, e.owner.ID, po.ID, []domain.ReceiptLine{{ItemID: "nope", Quantity: 1}})
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("partially received cannot be cancelled", func(t *testing.T) {
		_, err := e.pos.Transition(e.ctx, e.tenant.ID, po.ID, domain.POStatusCancelled)
		require.ErrorIs(t, err, ErrInvalidTransition)
	})

	got, err = e.pos.Receive(e.ctx, e.tenant.ID, e.owner.ID, po.ID, []domain.ReceiptLine{
		{ItemID: itemA, Quantity: 2},
		{ItemID: itemB, Quantity: 2},
	})
	require.NoError(t, err)
	require.Equal(t, domain.POStatusReceived, got.Status)
	require.NotNil(t, got.ReceivedAt)
	require.True(t, got.FullyReceived())
	require.Equal(t, 6, e.stock(t, a.ID))
	require.Equal(t, 2, e.stock(t, b.ID))

	closed := advance(t, e, po.ID, domain.POStatusClosed)
	require.NotNil(t, closed.ClosedAt)

	_, err = e.pos.Receive(e.ctx, e.tenant.ID, e.owner.ID, po.ID, []domain.ReceiptLine{{ItemID: itemA, Quantity: 1}})
	require.ErrorIs(t, err, ErrInvalidTransition)
}
