package sqlite

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type sequencesRepo struct {
	q sqlx.ExtContext
}

func (r *sequencesRepo) Next(ctx context.Context, tenantID, name string) (int64, error) {
	var v int64
	err := sqlx.GetContext(ctx, r.q, &v, `
		INSERT INTO sequences (tenant_id, name, value) VALUES (?, ?, 1)
		ON CONFLICT (tenant_id, name) DO UPDATE SET value = value + 1
		RETURNING value`, tenantID, name)
	return v, err
}
