package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/internal/erp/external/billing"
)

const testSignature = "t=1,v1=ok"

type fakeGateway struct {
	customers     int
	subscriptions int
	lastEmail     string
	failSubscribe bool
	events        map[string]billing.Event
}

func (f *fakeGateway) CreateCustomer(_ context.Context, _, _, email string) (string, error) {
	f.customers++
	f.lastEmail = email
	return "cus_test", nil
}

func (f *fakeGateway) CreateSubscription(_ context.Context, _, _, priceID string) (billing.Subscription, error) {
	if f.failSubscribe {
		return billing.Subscription{}, billing.ErrUpstream
	}
	f.subscriptions++
	return billing.Subscription{ID: "sub_" + priceID, Status: domain.SubscriptionTrialing}, nil
}

func (f *fakeGateway) ParseWebhook(payload []byte, signature string) (billing.Event, error) {
	if signature != testSignature {
		return billing.Event{}, billing.ErrInvalidSignature
	}
	return f.events[string(payload)], nil
}

// at is a webhook creation time, min minutes into a fixed hour.
func at(min int) time.Time {
	return time.Date(2026, 3, 1, 10, min, 0, 0, time.UTC)
}

func TestBillingDisabled(t *testing.T) {
	e := newEnv(t)
	svc := &BillingService{Store: e.store}

	_, err := svc.Subscribe(e.ctx, e.tenant.ID, "price_1")
	require.ErrorIs(t, err, ErrBillingDisabled)
	_, err = svc.HandleWebhook(e.ctx, []byte("{}"), testSignature)
	require.ErrorIs(t, err, ErrBillingDisabled)
}

func TestSubscribe(t *testing.T) {
	e := newEnv(t)
	gw := &fakeGateway{}
	svc := &BillingService{Store: e.store, Gateway: gw}

	_, err := svc.Subscribe(e.ctx, e.tenant.ID, " ")
	require.ErrorIs(t, err, ErrInvalidInput, "no price and no default")

	svc.DefaultPriceID = "price_default"
	gw.failSubscribe = true
	_, err = svc.Subscribe(e.ctx, e.tenant.ID, "")
	require.ErrorIs(t, err, ErrUpstream)

	stored, err := e.store.Tenants().GetTenantByID(e.ctx, e.tenant.ID)
	require.NoError(t, err)
	require.Equal(t, "cus_test", stored.StripeCustomerID, "customer survives a failed subscribe")
	require.Equal(t, domain.SubscriptionNone, stored.SubscriptionStatus)

	gw.failSubscribe = false
	tenant, err := svc.Subscribe(e.ctx, e.tenant.ID, "")
	require.NoError(t, err)
	require.Equal(t, "sub_price_default", tenant.SubscriptionID)
	require.Equal(t, domain.SubscriptionTrialing, tenant.SubscriptionStatus)
	require.Equal(t, 1, gw.customers, "retry reuses the stored customer")
	require.Equal(t, "owner@outre.test", gw.lastEmail)

	again, err := svc.Subscribe(e.ctx, e.tenant.ID, "price_other")
	require.NoError(t, err)
	require.Equal(t, "sub_price_default", again.SubscriptionID)
	require.Equal(t, 1, gw.subscriptions, "a live subscription is returned as is")
}

func TestHandleWebhook(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.store.Tenants().UpdateBilling(e.ctx, e.tenant.ID, "cus_test", "sub_1", domain.SubscriptionTrialing))

	gw := &fakeGateway{events: map[string]billing.Event{
		"paid":     {ID: "evt_1", Type: "customer.subscription.updated", Created: at(1), CustomerID: "cus_test", Status: domain.SubscriptionActive},
		"past_due": {ID: "evt_2", Type: "invoice.payment_failed", Created: at(2), CustomerID: "cus_test", Status: domain.SubscriptionPastDue},
		"stranger": {ID: "evt_3", Type: "customer.subscription.updated", CustomerID: "cus_other", Status: domain.SubscriptionActive},
		"noise":    {ID: "evt_4", Type: "charge.succeeded", CustomerID: "cus_test"},
	}}
	svc := &BillingService{Store: e.store, Gateway: gw}

	t.Run("bad signature", func(t *testing.T) {
		_, err := svc.HandleWebhook(e.ctx, []byte("paid"), "forged")
		require.ErrorIs(t, err, ErrInvalidSignature)
	})

	res, err := svc.HandleWebhook(e.ctx, []byte("paid"), testSignature)
	require.NoError(t, err)
	require.False(t, res.Duplicate)
	require.Equal(t, e.tenant.ID, res.TenantID)
	require.Equal(t, domain.SubscriptionActive, res.Status)

	tenant, err := e.store.Tenants().GetTenantByID(e.ctx, e.tenant.ID)
	require.NoError(t, err)
	require.Equal(t, domain.SubscriptionActive, tenant.SubscriptionStatus)
	require.Equal(t, "sub_1", tenant.SubscriptionID, "events without a subscription id keep the stored one")

	_, err = svc.HandleWebhook(e.ctx, []byte("past_due"), testSignature)
	require.NoError(t, err)

	replay, err := svc.HandleWebhook(e.ctx, []byte("paid"), testSignature)
	require.NoError(t, err)
	require.True(t, replay.Duplicate)

	tenant, err = e.store.Tenants().GetTenantByID(e.ctx, e.tenant.ID)
	require.NoError(t, err)
	require.Equal(t, domain.SubscriptionPastDue, tenant.SubscriptionStatus, "replays do not roll the status back")

	res, err = svc.HandleWebhook(e.ctx, []byte("stranger"), testSignature)
	require.NoError(t, err)
	require.Empty(t, res.TenantID)

	res, err = svc.HandleWebhook(e.ctx, []byte("noise"), testSignature)
	require.NoError(t, err)
	require.Empty(t, res.Status)
}

func TestHandleWebhookOutOfOrder(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.store.Tenants().UpdateBilling(e.ctx, e.tenant.ID, "cus_test", "sub_1", domain.SubscriptionActive))

	gw := &fakeGateway{events: map[string]billing.Event{
		"canceled": {ID: "evt_10", Type: "customer.subscription.deleted", Created: at(30), CustomerID: "cus_test", SubscriptionID: "sub_1", Status: domain.SubscriptionCanceled},
		"late":     {ID: "evt_9", Type: "invoice.paid", Created: at(20), CustomerID: "cus_test", SubscriptionID: "sub_1", Status: domain.SubscriptionActive},
		"same":     {ID: "evt_11", Type: "customer.subscription.updated", Created: at(30), CustomerID: "cus_test", SubscriptionID: "sub_1", Status: domain.SubscriptionUnpaid},
	}}
	svc := &BillingService{Store: e.store, Gateway: gw}

	res, err := svc.HandleWebhook(e.ctx, []byte("canceled"), testSignature)
	require.NoError(t, err)
	require.Equal(t, domain.SubscriptionCanceled, res.Status)

	res, err = svc.HandleWebhook(e.ctx, []byte("late"), testSignature)
	require.NoError(t, err)
	require.True(t, res.Stale)
	require.False(t, res.Duplicate)
	require.Empty(t, res.Status)

	tenant, err := e.store.Tenants().GetTenantByID(e.ctx, e.tenant.ID)
	require.NoError(t, err)
	require.Equal(t, domain.SubscriptionCanceled, tenant.SubscriptionStatus, "an older event does not revive the subscription")

	res, err = svc.HandleWebhook(e.ctx, []byte("same"), testSignature)
	require.NoError(t, err)
	require.False(t, res.Stale, "events from the same second still apply")

	tenant, err = e.store.Tenants().GetTenantByID(e.ctx, e.tenant.ID)
	require.NoError(t, err)
	require.Equal(t, domain.SubscriptionUnpaid, tenant.SubscriptionStatus)
}
