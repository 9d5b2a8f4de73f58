package domain

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

type POStatus string

const (
	POStatusDraft             POStatus = "draft"
	POStatusSent              POStatus = "sent"
	POStatusConfirmed         POStatus = "confirmed"
	POStatusPartiallyReceived POStatus = "partially_received"
	POStatusReceived          POStatus = "received"
	POStatusClosed            POStatus = "closed"
	POStatusCancelled         POStatus = "cancelled"
)

// poTransitions is the purchase order state machine. closed and cancelled
// are terminal. partially_received cannot be cancelled because stock has
// already been booked in.
var poTransitions = map[POStatus][]POStatus{
	POStatusDraft:             {POStatusSent, POStatusCancelled},
	POStatusSent:              {POStatusConfirmed, POStatusCancelled},
	POStatusConfirmed:         {POStatusPartiallyReceived, POStatusReceived, POStatusCancelled},
	POStatusPartiallyReceived: {POStatusReceived},
	POStatusReceived:          {POStatusClosed},
}

func (s POStatus) Valid() bool {
	switch s {
	case POStatusDraft, POStatusSent, POStatusConfirmed, POStatusPartiallyReceived,
		POStatusReceived, POStatusClosed, POStatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether from -> to is allowed.
func (s POStatus) CanTransition(to POStatus) bool {
	return slices.Contains(poTransitions[s], to)
}

// Terminal reports whether no transition leaves s.
func (s POStatus) Terminal() bool {
	return len(poTransitions[s]) == 0
}

// CanReceive reports whether goods may be booked in against a PO in s.
func (s POStatus) CanReceive() bool {
	return s == POStatusConfirmed || s == POStatusPartiallyReceived
}

type PurchaseOrder struct {
	ID          string              `db:"id" json:"id"`
	TenantID    string              `db:"tenant_id" json:"tenant_id"`
	Number      string              `db:"number" json:"number"`
	SupplierID  string              `db:"supplier_id" json:"supplier_id"`
	Status      POStatus            `db:"status" json:"status"`
	Notes       string              `db:"notes" json:"notes"`
	ExpectedAt  *time.Time          `db:"expected_at" json:"expected_at,omitempty"`
	SentAt      *time.Time          `db:"sent_at" json:"sent_at,omitempty"`
	ConfirmedAt *time.Time          `db:"confirmed_at" json:"confirmed_at,omitempty"`
	ReceivedAt  *time.Time          `db:"received_at" json:"received_at,omitempty"`
	ClosedAt    *time.Time          `db:"closed_at" json:"closed_at,omitempty"`
	CancelledAt *time.Time          `db:"cancelled_at" json:"cancelled_at,omitempty"`
	CreatedBy   string              `db:"created_by" json:"created_by"`
	CreatedAt   time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time           `db:"updated_at" json:"updated_at"`
	Items       []PurchaseOrderItem `db:"-" json:"items"`
}

// Stamp records the time the PO entered status s.
func (po *PurchaseOrder) Stamp(s POStatus, at time.Time) {
	t := at
	switch s {
	case POStatusSent:
		po.SentAt = &t
	case POStatusConfirmed:
		po.ConfirmedAt = &t
	case POStatusReceived:
		po.ReceivedAt = &t
	case POStatusClosed:
		po.ClosedAt = &t
	case POStatusCancelled:
		po.CancelledAt = &t
	}
	po.Status = s
	po.UpdatedAt = at
}

// Total is Σ ordered qty × unit cost.
func (po PurchaseOrder) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range po.Items {
		sum = sum.Add(it.UnitCost.Mul(decimal.NewFromInt(int64(it.QuantityOrdered))))
	}
	return Cents(sum)
}

// FullyReceived reports whether every line has been received in full.
func (po PurchaseOrder) FullyReceived() bool {
	for _, it := range po.Items {
		if it.Outstanding() > 0 {
			return false
		}
	}
	return len(po.Items) > 0
}

type PurchaseOrderItem struct {
	ID               string          `db:"id" json:"id"`
	PurchaseOrderID  string          `db:"purchase_order_id" json:"purchase_order_id"`
	ProductID        string          `db:"product_id" json:"product_id"`
	QuantityOrdered  int             `db:"quantity_ordered" json:"quantity_ordered"`
	QuantityReceived int             `db:"quantity_received" json:"quantity_received"`
	UnitCost         decimal.Decimal `db:"unit_cost" json:"unit_cost"`
}

func (it PurchaseOrderItem) Outstanding() int {
	return it.QuantityOrdered - it.QuantityReceived
}

// ReceiptLine books qty of one PO item into stock.
type ReceiptLine struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// POFilter narrows purchase order listings.
type POFilter struct {
	Status     POStatus
	SupplierID string
	Limit      int
	Offset     int
}
