package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/internal/erp/store"
	"github.com/OolalaDXB/outrenational/pkg/idx"
	"github.com/OolalaDXB/outrenational/pkg/metricsx"
	"github.com/OolalaDXB/outrenational/pkg/slogx"
)

// PurchaseOrderService drives purchase orders through their lifecycle and
// books received goods into stock.
type PurchaseOrderService struct {
	Store store.Store
}

type POItemInput struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

type POInput struct {
	SupplierID string        `json:"supplier_id"`
	Notes      string        `json:"notes"`
	ExpectedAt *time.Time    `json:"expected_at,omitempty"`
	Items      []POItemInput `json:"items"`
}

// items validates the lines against the catalog and returns them ready to
// insert. Every product must exist in the tenant.
func (in POInput) items(ctx context.Context, st store.Store, tenantID, poID string) ([]domain.PurchaseOrderItem, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrInvalidInput)
	}

	seen := make(map[string]bool, len(in.Items))
	out := make([]domain.PurchaseOrderItem, 0, len(in.Items))
	for i, it := range in.Items {
		switch {
		case it.Quantity <= 0:
			return nil, fmt.Errorf("%w: items[%d].quantity must be positive", ErrInvalidInput, i)
		case it.UnitCost.IsNegative():
			return nil, fmt.Errorf("%w: items[%d].unit_cost must not be negative", ErrInvalidInput, i)
		case seen[it.ProductID]:
			return nil, fmt.Errorf("%w: items[%d] repeats product %s", ErrInvalidInput, i, it.ProductID)
		}
		seen[it.ProductID] = true

		if _, err := st.Products().GetProduct(ctx, tenantID, it.ProductID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("%w: items[%d] references unknown product", ErrInvalidInput, i)
			}
			return nil, err
		}
		out = append(out, domain.PurchaseOrderItem{
			ID:              idx.New().String(),
			PurchaseOrderID: poID,
			ProductID:       it.ProductID,
			QuantityOrdered: it.Quantity,
			UnitCost:        it.UnitCost,
		})
	}
	return out, nil
}

func (s *PurchaseOrderService) Create(ctx context.Context, tenantID, userID string, in POInput) (domain.PurchaseOrder, error) {
	now := time.Now().UTC()
	po := domain.PurchaseOrder{
		ID:         idx.New().String(),
		TenantID:   tenantID,
		SupplierID: in.SupplierID,
		Status:     domain.POStatusDraft,
		Notes:      strings.TrimSpace(in.Notes),
		ExpectedAt: utcPtr(in.ExpectedAt),
		CreatedBy:  userID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if in.SupplierID == "" {
			return fmt.Errorf("%w: supplier_id is required", ErrInvalidInput)
		}
		if err := checkSupplier(ctx, tx, tenantID, in.SupplierID); err != nil {
			return err
		}
		items, err := in.items(ctx, tx, tenantID, po.ID)
		if err != nil {
			return err
		}
		po.Items = items

		if po.Number, err = nextNumber(ctx, tx, tenantID, "PO", now); err != nil {
			return err
		}
		return tx.PurchaseOrders().CreatePurchaseOrder(ctx, po)
	})
	if err != nil {
		return domain.PurchaseOrder{}, err
	}

	slogx.FromContext(ctx).Info("purchase order created", "po_id", po.ID, "number", po.Number)
	return po, nil
}

// UpdateDraft replaces the header and items of a draft purchase order.
func (s *PurchaseOrderService) UpdateDraft(ctx context.Context, tenantID, poID string, in POInput) (domain.PurchaseOrder, error) {
	var po domain.PurchaseOrder
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		if po, err = tx.PurchaseOrders().GetPurchaseOrder(ctx, tenantID, poID); err != nil {
			return err
		}
		if po.Status != domain.POStatusDraft {
			return fmt.Errorf("%w: only draft purchase orders can be edited", ErrInvalidTransition)
		}
		if in.SupplierID == "" {
			return fmt.Errorf("%w: supplier_id is required", ErrInvalidInput)
		}
		if err := checkSupplier(ctx, tx, tenantID, in.SupplierID); err != nil {
			return err
		}
		items, err := in.items(ctx, tx, tenantID, po.ID)
		if err != nil {
			return err
		}

		po.SupplierID = in.SupplierID
		po.Notes = strings.TrimSpace(in.Notes)
		po.ExpectedAt = utcPtr(in.ExpectedAt)
		po.UpdatedAt = time.Now().UTC()
		po.Items = items

		if err := tx.PurchaseOrders().UpdatePurchaseOrderHeader(ctx, po); err != nil {
			return err
		}
		return tx.PurchaseOrders().ReplaceItems(ctx, tenantID, po.ID, items)
	})
	if err != nil {
		return domain.PurchaseOrder{}, err
	}
	return po, nil
}

func (s *PurchaseOrderService) Get(ctx context.Context, tenantID, poID string) (domain.PurchaseOrder, error) {
	return s.Store.PurchaseOrders().GetPurchaseOrder(ctx, tenantID, poID)
}

func (s *PurchaseOrderService) List(ctx context.Context, tenantID string, f domain.POFilter) ([]domain.PurchaseOrder, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, f.Status)
	}
	return s.Store.PurchaseOrders().ListPurchaseOrders(ctx, tenantID, f)
}

// Transition moves a purchase order along the state machine. Receipt
// statuses are reachable here too so a PO can be marked received without
// booking lines, but stock only moves through Receive.
func (s *PurchaseOrderService) Transition(ctx context.Context, tenantID, poID string, to domain.POStatus) (domain.PurchaseOrder, error) {
	if !to.Valid() {
		return domain.PurchaseOrder{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, to)
	}

	var (
		po   domain.PurchaseOrder
		from domain.POStatus
	)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		if po, err = tx.PurchaseOrders().GetPurchaseOrder(ctx, tenantID, poID); err != nil {
			return err
		}
		from = po.Status
		if !from.CanTransition(to) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
		}
		po.Stamp(to, time.Now().UTC())
		return tx.PurchaseOrders().UpdatePurchaseOrderStatus(ctx, po)
	})
	metricsx.RecordBusinessEvent(ctx, "po_transition", err == nil)
	if err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			slogx.FromContext(ctx).Warn("purchase order transition refused", "po_id", poID, "to", string(to))
		}
		return domain.PurchaseOrder{}, err
	}

	slogx.FromContext(ctx).Info("purchase order transitioned",
		"po_id", po.ID, "from", string(from), "to", string(to))
	return po, nil
}

// Receive books quantities against PO lines, raising stock and refreshing
// product cost prices, then derives received or partially_received.
func (s *PurchaseOrderService) Receive(ctx context.Context, tenantID, userID, poID string, lines []domain.ReceiptLine) (domain.PurchaseOrder, error) {
	if len(lines) == 0 {
		return domain.PurchaseOrder{}, fmt.Errorf("%w: at least one receipt line is required", ErrInvalidInput)
	}

	var po domain.PurchaseOrder
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		if po, err = tx.PurchaseOrders().GetPurchaseOrder(ctx, tenantID, poID); err != nil {
			return err
		}
		if !po.Status.CanReceive() {
			return fmt.Errorf("%w: cannot receive a %s purchase order", ErrInvalidTransition, po.Status)
		}

		byID := make(map[string]int, len(po.Items))
		for i, it := range po.Items {
			byID[it.ID] = i
		}

		for n, l := range lines {
			i, ok := byID[l.ItemID]
			if !ok {
				return fmt.Errorf("%w: lines[%d] references unknown item", ErrInvalidInput, n)
			}
			if l.Quantity <= 0 {
				return fmt.Errorf("%w: lines[%d].quantity must be positive", ErrInvalidInput, n)
			}
			it := &po.Items[i]
			if l.Quantity > it.Outstanding() {
				return fmt.Errorf("%w: item %s has %d outstanding", ErrOverReceipt, it.ID, it.Outstanding())
			}

			it.QuantityReceived += l.Quantity
			if err := tx.PurchaseOrders().SetItemReceived(ctx, it.ID, it.QuantityReceived); err != nil {
				return err
			}
			if _, err := applyStock(ctx, tx, stockChange{
				TenantID:      tenantID,
				ProductID:     it.ProductID,
				Delta:         l.Quantity,
				Kind:          domain.MovementPurchaseReceipt,
				ReferenceType: "purchase_order",
				ReferenceID:   po.ID,
				Note:          po.Number,
				CreatedBy:     userID,
			}); err != nil {
				return err
			}
			if err := tx.Products().SetCostPrice(ctx, tenantID, it.ProductID, it.UnitCost); err != nil {
				return err
			}
		}

		next := domain.POStatusPartiallyReceived
		if po.FullyReceived() {
			next = domain.POStatusReceived
		}
		if next != po.Status {
			po.Stamp(next, time.Now().UTC())
		} else {
			po.UpdatedAt = time.Now().UTC()
		}
		return tx.PurchaseOrders().UpdatePurchaseOrderStatus(ctx, po)
	})
	metricsx.RecordBusinessEvent(ctx, "po_receive", err == nil)
	if err != nil {
		return domain.PurchaseOrder{}, err
	}

	slogx.FromContext(ctx).Info("purchase order received",
		"po_id", po.ID, "lines", len(lines), "status", string(po.Status))
	return po, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
