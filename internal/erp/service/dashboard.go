package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/internal/erp/store"
)

const topProductCount = 5

type DashboardService struct {
	Store store.Store
}

// Summary aggregates sales, purchasing, stock and consignment figures for
// orders confirmed in [from, to).
func (s *DashboardService) Summary(ctx context.Context, tenantID string, from, to time.Time) (domain.Dashboard, error) {
	if err := checkPeriod(from, to); err != nil {
		return domain.Dashboard{}, err
	}
	from, to = from.UTC(), to.UTC()

	d := domain.Dashboard{
		From:               from,
		To:                 to,
		Revenue:            decimal.Zero,
		AverageOrderValue:  decimal.Zero,
		OpenPOValue:        decimal.Zero,
		ConsignmentPayable: decimal.Zero,
		TopProducts:        []domain.TopProduct{},
	}

	tenant, err := s.Store.Tenants().GetTenantByID(ctx, tenantID)
	if err != nil {
		return domain.Dashboard{}, err
	}
	d.SubscriptionStatus = tenant.SubscriptionStatus

	orders, err := s.Store.Reports().SoldOrders(ctx, tenantID, from, to)
	if err != nil {
		return domain.Dashboard{}, err
	}
	for _, o := range orders {
		d.Revenue = d.Revenue.Add(o.Total)
	}
	d.OrderCount = len(orders)
	if d.OrderCount > 0 {
		d.AverageOrderValue = domain.Cents(d.Revenue.Div(decimal.NewFromInt(int64(d.OrderCount))))
	}

	pos, err := s.Store.Reports().OpenPurchaseOrders(ctx, tenantID)
	if err != nil {
		return domain.Dashboard{}, err
	}
	d.OpenPOCount = len(pos)
	for _, po := range pos {
		d.OpenPOValue = d.OpenPOValue.Add(po.Total())
	}

	if d.LowStockCount, err = s.Store.Products().CountLowStock(ctx, tenantID); err != nil {
		return domain.Dashboard{}, err
	}

	lines, err := s.Store.Reports().SoldLines(ctx, tenantID, "", from, to)
	if err != nil {
		return domain.Dashboard{}, err
	}
	d.TopProducts = topProducts(lines, topProductCount)

	suppliers, err := s.Store.Suppliers().ListSuppliers(ctx, tenantID)
	if err != nil {
		return domain.Dashboard{}, err
	}
	for _, sup := range suppliers {
		if sup.Kind != domain.SupplierConsignment {
			continue
		}
		st, err := statement(ctx, s.Store, tenantID, sup.ID, from, to)
		if err != nil {
			return domain.Dashboard{}, err
		}
		if st.Outstanding.IsPositive() {
			d.ConsignmentPayable = d.ConsignmentPayable.Add(st.Outstanding)
		}
	}

	return d, nil
}

func topProducts(lines []domain.SoldLine, n int) []domain.TopProduct {
	byProduct := make(map[string]*domain.TopProduct)
	for _, l := range lines {
		tp, ok := byProduct[l.ProductID]
		if !ok {
			tp = &domain.TopProduct{ProductID: l.ProductID, SKU: l.SKU, Title: l.Title, Revenue: decimal.Zero}
			byProduct[l.ProductID] = tp
		}
		tp.Quantity += l.Quantity
		tp.Revenue = tp.Revenue.Add(l.LineTotal)
	}

	out := make([]domain.TopProduct, 0, len(byProduct))
	for _, tp := range byProduct {
		out = append(out, *tp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].SKU < out[j].SKU
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
