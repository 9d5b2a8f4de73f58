package sqlite

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
)

type webhookEventsRepo struct {
	q sqlx.ExtContext
}

func (r *webhookEventsRepo) MarkProcessed(ctx context.Context, e domain.WebhookEvent) (bool, error) {
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO webhook_events (id, type, processed_at) VALUES (?, ?, ?) ON CONFLICT (id) DO NOTHING`,
		e.ID, e.Type, e.ProcessedAt.UTC())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *webhookEventsRepo) DeleteWebhookEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM webhook_events WHERE processed_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
