package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/OolalaDXB/outrenational/internal/erp/store"
)

// nextNumber draws the next document number from the tenant's sequence for
// the prefix and year, e.g. PO-2026-00042. Sequences restart every year.
func nextNumber(ctx context.Context, tx store.Tx, tenantID, prefix string, at time.Time) (string, error) {
	year := at.UTC().Year()
	n, err := tx.Sequences().Next(ctx, tenantID, fmt.Sprintf("%s:%d", strings.ToLower(prefix), year))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%05d", prefix, year, n), nil
}
