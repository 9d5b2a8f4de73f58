package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/internal/erp/store"
	"github.com/OolalaDXB/outrenational/pkg/idx"
	"github.com/OolalaDXB/outrenational/pkg/metricsx"
	"github.com/OolalaDXB/outrenational/pkg/slogx"
)

// ConsignmentService computes what consignment suppliers are owed and
// records what was paid to them.
type ConsignmentService struct {
	Store store.Store
}

func checkPeriod(from, to time.Time) error {
	if from.IsZero() || to.IsZero() || !from.Before(to) {
		return fmt.Errorf("%w: period must satisfy from < to", ErrInvalidInput)
	}
	return nil
}

// Statement aggregates the sales of a consignment supplier's products in
// orders confirmed within [from, to).
func (s *ConsignmentService) Statement(ctx context.Context, tenantID, supplierID string, from, to time.Time) (domain.PayoutStatement, error) {
	if err := checkPeriod(from, to); err != nil {
		return domain.PayoutStatement{}, err
	}
	return statement(ctx, s.Store, tenantID, supplierID, from.UTC(), to.UTC())
}

func statement(ctx context.Context, st store.Store, tenantID, supplierID string, from, to time.Time) (domain.PayoutStatement, error) {
	sup, err := st.Suppliers().GetSupplier(ctx, tenantID, supplierID)
	if err != nil {
		return domain.PayoutStatement{}, err
	}
	if sup.Kind != domain.SupplierConsignment {
		return domain.PayoutStatement{}, fmt.Errorf("%w: supplier is not a consignment supplier", ErrInvalidInput)
	}

	lines, err := st.Reports().SoldLines(ctx, tenantID, supplierID, from, to)
	if err != nil {
		return domain.PayoutStatement{}, err
	}
	payouts, err := st.Payouts().ListPayouts(ctx, tenantID, supplierID, from, to)
	if err != nil {
		return domain.PayoutStatement{}, err
	}

	gross := decimal.Zero
	for _, l := range lines {
		gross = gross.Add(l.LineTotal)
	}
	paid := decimal.Zero
	for _, p := range payouts {
		paid = paid.Add(p.Amount)
	}

	commission := domain.Cents(gross.Mul(sup.CommissionRate))
	net := gross.Sub(commission)

	if lines == nil {
		lines = []domain.SoldLine{}
	}
	return domain.PayoutStatement{
		SupplierID:     supplierID,
		PeriodStart:    from,
		PeriodEnd:      to,
		CommissionRate: sup.CommissionRate,
		Lines:          lines,
		GrossSales:     gross,
		Commission:     commission,
		NetPayable:     net,
		AlreadyPaid:    paid,
		Outstanding:    net.Sub(paid),
	}, nil
}

type PayoutInput struct {
	PeriodStart time.Time       `json:"period_start"`
	PeriodEnd   time.Time       `json:"period_end"`
	Amount      decimal.Decimal `json:"amount"`
	Reference   string          `json:"reference"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
}

// RecordPayout stores a payment to a consignment supplier. The amount may
// not exceed the outstanding balance of the period.
func (s *ConsignmentService) RecordPayout(ctx context.Context, tenantID, supplierID string, in PayoutInput) (domain.SupplierPayout, error) {
	if err := checkPeriod(in.PeriodStart, in.PeriodEnd); err != nil {
		return domain.SupplierPayout{}, err
	}
	if !in.Amount.IsPositive() {
		return domain.SupplierPayout{}, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	paidAt := time.Now().UTC()
	if in.PaidAt != nil {
		paidAt = in.PaidAt.UTC()
	}
	p := domain.SupplierPayout{
		ID:          idx.New().String(),
		TenantID:    tenantID,
		SupplierID:  supplierID,
		PeriodStart: in.PeriodStart.UTC(),
		PeriodEnd:   in.PeriodEnd.UTC(),
		Amount:      domain.Cents(in.Amount),
		Reference:   strings.TrimSpace(in.Reference),
		PaidAt:      paidAt,
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		st, err := statement(ctx, tx, tenantID, supplierID, p.PeriodStart, p.PeriodEnd)
		if err != nil {
			return err
		}
		if p.Amount.GreaterThan(st.Outstanding) {
			return fmt.Errorf("%w: outstanding is %s", ErrPayoutExceedsBalance, st.Outstanding.StringFixed(2))
		}
		return tx.Payouts().CreatePayout(ctx, p)
	})
	metricsx.RecordBusinessEvent(ctx, "payout_recorded", err == nil)
	if err != nil {
		return domain.SupplierPayout{}, err
	}

	slogx.FromContext(ctx).Info("supplier payout recorded",
		"supplier_id", supplierID, "amount", p.Amount.StringFixed(2))
	return p, nil
}

func (s *ConsignmentService) ListPayouts(ctx context.Context, tenantID, supplierID string, from, to time.Time) ([]domain.SupplierPayout, error) {
	if err := checkPeriod(from, to); err != nil {
		return nil, err
	}
	if _, err := s.Store.Suppliers().GetSupplier(ctx, tenantID, supplierID); err != nil {
		return nil, err
	}
	return s.Store.Payouts().ListPayouts(ctx, tenantID, supplierID, from, to)
}

// Margins reports revenue minus cost per product for stock the tenant owns:
// products of purchase suppliers and products without a supplier.
func (s *ConsignmentService) Margins(ctx context.Context, tenantID string, from, to time.Time) ([]domain.ProductMargin, error) {
	if err := checkPeriod(from, to); err != nil {
		return nil, err
	}

	suppliers, err := s.Store.Suppliers().ListSuppliers(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	consignment := make(map[string]bool, len(suppliers))
	for _, sup := range suppliers {
		consignment[sup.ID] = sup.Kind == domain.SupplierConsignment
	}

	lines, err := s.Store.Reports().SoldLines(ctx, tenantID, "", from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}

	byProduct := make(map[string]*domain.ProductMargin)
	for _, l := range lines {
		if consignment[l.SupplierID] {
			continue
		}
		m, ok := byProduct[l.ProductID]
		if !ok {
			m = &domain.ProductMargin{
				ProductID:  l.ProductID,
				SKU:        l.SKU,
				Title:      l.Title,
				SupplierID: l.SupplierID,
				Revenue:    decimal.Zero,
				Cost:       decimal.Zero,
			}
			byProduct[l.ProductID] = m
		}
		m.Quantity += l.Quantity
		m.Revenue = m.Revenue.Add(l.LineTotal)
		m.Cost = m.Cost.Add(domain.Cents(l.CostPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))))
	}

	out := make([]domain.ProductMargin, 0, len(byProduct))
	for _, m := range byProduct {
		m.Margin = m.Revenue.Sub(m.Cost)
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Margin.Equal(out[j].Margin) {
			return out[i].Margin.GreaterThan(out[j].Margin)
		}
		return out[i].SKU < out[j].SKU
	})
	return out, nil
}
