package service

import (
	"context"
	"fmt"
	"time"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/internal/erp/store"
	"github.com/OolalaDXB/outrenational/pkg/idx"
)

// stockChange describes one quantity change and the movement recording it.
type stockChange struct {
	TenantID      string
	ProductID     string
	Delta         int
	Kind          domain.MovementKind
	ReferenceType string
	ReferenceID   string
	Note          string
	CreatedBy     string
}

// applyStock writes the new quantity and its movement row through tx. It
// refuses to take stock below zero.
func applyStock(ctx context.Context, tx store.Tx, c stockChange) (domain.StockMovement, error) {
	p, err := tx.Products().GetProduct(ctx, c.TenantID, c.ProductID)
	if err != nil {
		return domain.StockMovement{}, err
	}

	after := p.StockQuantity + c.Delta
	if after < 0 {
		return domain.StockMovement{}, fmt.Errorf("%w: %s has %d, needs %d", ErrInsufficientStock, p.SKU, p.StockQuantity, -c.Delta)
	}

	if err := tx.Products().SetStock(ctx, c.TenantID, c.ProductID, after); err != nil {
		return domain.StockMovement{}, err
	}

	m := domain.StockMovement{
		ID:             idx.New().String(),
		TenantID:       c.TenantID,
		ProductID:      c.ProductID,
		Kind:           c.Kind,
		QuantityChange: c.Delta,
		QuantityBefore: p.StockQuantity,
		QuantityAfter:  after,
		ReferenceType:  c.ReferenceType,
		ReferenceID:    c.ReferenceID,
		Note:           c.Note,
		CreatedBy:      c.CreatedBy,
		CreatedAt:      time.Now().UTC(),
	}
	if err := tx.Movements().CreateMovement(ctx, m); err != nil {
		return domain.StockMovement{}, err
	}
	return m, nil
}
