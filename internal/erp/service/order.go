package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/internal/erp/store"
	"github.com/OolalaDXB/outrenational/pkg/idx"
	"github.com/OolalaDXB/outrenational/pkg/metricsx"
	"github.com/OolalaDXB/outrenational/pkg/slogx"
)

// OrderService handles customer orders. Stock leaves the warehouse on
// Confirm and comes back on Cancel of a confirmed order.
type OrderService struct {
	Store store.Store
}

type OrderInput struct {
	CustomerID string                  `json:"customer_id"`
	Notes      string                  `json:"notes"`
	Items      []domain.OrderLineInput `json:"items"`
}

// Create prices every line, applies the customer's discount and the VAT
// regime, and stores the order as pending.
func (s *OrderService) Create(ctx context.Context, tenantID, userID string, source domain.OrderSource, in OrderInput) (domain.Order, error) {
	if len(in.Items) == 0 {
		return domain.Order{}, fmt.Errorf("%w: at least one item is required", ErrInvalidInput)
	}

	now := time.Now().UTC()
	o := domain.Order{
		ID:         idx.New().String(),
		TenantID:   tenantID,
		CustomerID: in.CustomerID,
		Source:     source,
		Status:     domain.OrderPending,
		Notes:      strings.TrimSpace(in.Notes),
		CreatedBy:  userID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		tenant, err := tx.Tenants().GetTenantByID(ctx, tenantID)
		if err != nil {
			return err
		}
		cust, err := tx.Customers().GetCustomer(ctx, tenantID, in.CustomerID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: customer not found", ErrInvalidInput)
			}
			return err
		}

		o.Currency = tenant.Currency
		o.ReverseCharge = domain.ReverseCharge(tenant.Country, cust)
		o.VATRate = tenant.DefaultVATRate

		seen := make(map[string]bool, len(in.Items))
		for i, l := range in.Items {
			if l.Quantity <= 0 {
				return fmt.Errorf("%w: items[%d].quantity must be positive", ErrInvalidInput, i)
			}
			if seen[l.ProductID] {
				return fmt.Errorf("%w: items[%d] repeats product %s", ErrInvalidInput, i, l.ProductID)
			}
			seen[l.ProductID] = true

			p, err := tx.Products().GetProduct(ctx, tenantID, l.ProductID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("%w: items[%d] references unknown product", ErrInvalidInput, i)
				}
				return err
			}
			if !p.Active {
				return fmt.Errorf("%w: %s is archived", ErrInvalidInput, p.SKU)
			}

			unit := p.ListPrice(cust.IsPro || source == domain.SourcePortal)
			if l.UnitPrice != nil {
				if source == domain.SourcePortal {
					return fmt.Errorf("%w: portal orders use catalog prices", ErrInvalidInput)
				}
				if l.UnitPrice.IsNegative() {
					return fmt.Errorf("%w: items[%d].unit_price must not be negative", ErrInvalidInput, i)
				}
				unit = *l.UnitPrice
			}

			o.Items = append(o.Items, domain.OrderItem{
				ID:           idx.New().String(),
				OrderID:      o.ID,
				ProductID:    p.ID,
				Description:  describe(p),
				Quantity:     l.Quantity,
				UnitPrice:    unit,
				DiscountRate: cust.DiscountRate,
			})
		}
		o.Recalculate()

		if o.Number, err = nextNumber(ctx, tx, tenantID, "SO", now); err != nil {
			return err
		}
		return tx.Orders().CreateOrder(ctx, o)
	})
	metricsx.RecordBusinessEvent(ctx, "order_created", err == nil)
	if err != nil {
		return domain.Order{}, err
	}

	slogx.FromContext(ctx).Info("order created",
		"order_id", o.ID, "number", o.Number, "source", string(source), "total", o.Total.StringFixed(2))
	return o, nil
}

func describe(p domain.Product) string {
	if p.Artist == "" {
		return p.Title
	}
	return p.Artist + " - " + p.Title
}

func (s *OrderService) Get(ctx context.Context, tenantID, orderID string) (domain.Order, error) {
	return s.Store.Orders().GetOrder(ctx, tenantID, orderID)
}

func (s *OrderService) List(ctx context.Context, tenantID string, f domain.OrderFilter) ([]domain.Order, error) {
	return s.Store.Orders().ListOrders(ctx, tenantID, f)
}

// Confirm takes every line out of stock. Either all lines are available or
// nothing moves.
func (s *OrderService) Confirm(ctx context.Context, tenantID, userID, orderID string) (domain.Order, error) {
	return s.transition(ctx, tenantID, orderID, domain.OrderConfirmed, func(tx store.Tx, o domain.Order) error {
		for _, it := range o.Items {
			if _, err := applyStock(ctx, tx, stockChange{
				TenantID:      tenantID,
				ProductID:     it.ProductID,
				Delta:         -it.Quantity,
				Kind:          domain.MovementSale,
				ReferenceType: "order",
				ReferenceID:   o.ID,
				Note:          o.Number,
				CreatedBy:     userID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// Cancel cancels a pending or confirmed order, returning stock of a
// confirmed one. An issued invoice of the order is voided with it; a paid
// one blocks the cancellation.
func (s *OrderService) Cancel(ctx context.Context, tenantID, userID, orderID string) (domain.Order, error) {
	return s.transition(ctx, tenantID, orderID, domain.OrderCancelled, func(tx store.Tx, o domain.Order) error {
		if o.Status != domain.OrderConfirmed {
			return nil
		}
		if err := voidOrderInvoice(ctx, tx, tenantID, o); err != nil {
			return err
		}
		for _, it := range o.Items {
			if _, err := applyStock(ctx, tx, stockChange{
				TenantID:      tenantID,
				ProductID:     it.ProductID,
				Delta:         it.Quantity,
				Kind:          domain.MovementSaleCancelled,
				ReferenceType: "order",
				ReferenceID:   o.ID,
				Note:          o.Number,
				CreatedBy:     userID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func voidOrderInvoice(ctx context.Context, tx store.Tx, tenantID string, o domain.Order) error {
	inv, err := tx.Invoices().GetActiveInvoiceForOrder(ctx, tenantID, o.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if inv.Status == domain.InvoicePaid {
		return fmt.Errorf("%w: invoice %s is paid", ErrInvalidTransition, inv.Number)
	}

	now := time.Now().UTC()
	inv.Status = domain.InvoiceVoid
	inv.VoidedAt = &now
	if err := tx.Invoices().UpdateInvoiceStatus(ctx, inv); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("invoice void", "invoice_id", inv.ID, "number", inv.Number, "order_id", o.ID)
	return nil
}

func (s *OrderService) Ship(ctx context.Context, tenantID, orderID string) (domain.Order, error) {
	return s.transition(ctx, tenantID, orderID, domain.OrderShipped, nil)
}

func (s *OrderService) Deliver(ctx context.Context, tenantID, orderID string) (domain.Order, error) {
	return s.transition(ctx, tenantID, orderID, domain.OrderDelivered, nil)
}

// transition loads the order, checks the move is allowed, runs effect with
// the order still in its old status and persists the new status, all in
// one transaction.
func (s *OrderService) transition(ctx context.Context, tenantID, orderID string, to domain.OrderStatus, effect func(store.Tx, domain.Order) error) (domain.Order, error) {
	var (
		o    domain.Order
		from domain.OrderStatus
	)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		if o, err = tx.Orders().GetOrder(ctx, tenantID, orderID); err != nil {
			return err
		}
		from = o.Status
		if !from.CanTransition(to) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
		}
		if effect != nil {
			if err := effect(tx, o); err != nil {
				return err
			}
		}
		o.Stamp(to, time.Now().UTC())
		return tx.Orders().UpdateOrderStatus(ctx, o)
	})
	metricsx.RecordBusinessEvent(ctx, "order_"+string(to), err == nil)
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) || errors.Is(err, ErrInvalidTransition) {
			slogx.FromContext(ctx).Warn("order transition refused",
				"order_id", orderID, "to", string(to), "error", err)
		}
		return domain.Order{}, err
	}

	slogx.FromContext(ctx).Info("order "+string(to), "order_id", o.ID, "from", string(from))
	return o, nil
}
