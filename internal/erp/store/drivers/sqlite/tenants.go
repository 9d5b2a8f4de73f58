package sqlite

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
)

const tenantColumns = `id, slug, name, country, currency, default_vat_rate, vat_number,
	stripe_customer_id, subscription_id, subscription_status, created_at, updated_at`

type tenantsRepo struct {
	q sqlx.ExtContext
}

func (r *tenantsRepo) CreateTenant(ctx context.Context, t domain.Tenant) error {
	_, err := sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO tenants (`+tenantColumns+`)
		VALUES (:id, :slug, :name, :country, :currency, :default_vat_rate, :vat_number,
			:stripe_customer_id, :subscription_id, :subscription_status, :created_at, :updated_at)`, t)
	return mapConstraint(err)
}

func (r *tenantsRepo) get(ctx context.Context, where string, arg any) (domain.Tenant, error) {
	var t domain.Tenant
	err := sqlx.GetContext(ctx, r.q, &t, `SELECT `+tenantColumns+` FROM tenants WHERE `+where, arg)
	return t, mapNotFound(err)
}

func (r *tenantsRepo) GetTenantByID(ctx context.Context, id string) (domain.Tenant, error) {
	return r.get(ctx, "id = ?", id)
}

func (r *tenantsRepo) GetTenantBySlug(ctx context.Context, slug string) (domain.Tenant, error) {
	return r.get(ctx, "slug = ?", slug)
}

func (r *tenantsRepo) GetTenantByStripeCustomer(ctx context.Context, customerID string) (domain.Tenant, error) {
	if customerID == "" {
		return domain.Tenant{}, mapNotFound(nil)
	}
	return r.get(ctx, "stripe_customer_id = ?", customerID)
}

func (r *tenantsRepo) UpdateTenantSettings(ctx context.Context, t domain.Tenant) error {
	return mustAffect(r.q.ExecContext(ctx, `
		UPDATE tenants
		SET name = ?, country = ?, currency = ?, default_vat_rate = ?, vat_number = ?, updated_at = ?
		WHERE id = ?`,
		t.Name, t.Country, t.Currency, t.DefaultVATRate, t.VATNumber, nowUTC(), t.ID))
}

func (r *tenantsRepo) UpdateBilling(ctx context.Context, tenantID, customerID, subscriptionID, status string) error {
	return mustAffect(r.q.ExecContext(ctx, `
		UPDATE tenants
		SET stripe_customer_id = ?, subscription_id = ?, subscription_status = ?, updated_at = ?
		WHERE id = ?`,
		customerID, subscriptionID, status, nowUTC(), tenantID))
}

func (r *tenantsRepo) ApplySubscriptionEvent(ctx context.Context, tenantID, subscriptionID, status string, eventAt time.Time) (bool, error) {
	var at int64
	if !eventAt.IsZero() {
		at = eventAt.Unix()
	}
	res, err := r.q.ExecContext(ctx, `
		UPDATE tenants
		SET subscription_id = ?, subscription_status = ?, billing_event_at = ?, updated_at = ?
		WHERE id = ? AND billing_event_at <= ?`,
		subscriptionID, status, at, nowUTC(), tenantID, at)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}
