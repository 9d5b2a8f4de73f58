package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/internal/erp/external/billing"
	"github.com/OolalaDXB/outrenational/internal/erp/store"
	"github.com/OolalaDXB/outrenational/pkg/metricsx"
	"github.com/OolalaDXB/outrenational/pkg/slogx"
)

// BillingGateway is the payment processor. *billing.Gateway satisfies it.
type BillingGateway interface {
	CreateCustomer(ctx context.Context, tenantID, name, email string) (string, error)
	CreateSubscription(ctx context.Context, tenantID, customerID, priceID string) (billing.Subscription, error)
	ParseWebhook(payload []byte, signature string) (billing.Event, error)
}

// BillingService keeps each tenant's subscription in step with Stripe. A
// nil Gateway disables billing.
type BillingService struct {
	Store          store.Store
	Gateway        BillingGateway
	DefaultPriceID string
}

// Subscribe creates the tenant's Stripe customer when missing, then a
// subscription to priceID, and stores both ids with the initial status.
func (s *BillingService) Subscribe(ctx context.Context, tenantID, priceID string) (domain.Tenant, error) {
	if s.Gateway == nil {
		return domain.Tenant{}, ErrBillingDisabled
	}
	priceID = strings.TrimSpace(priceID)
	if priceID == "" {
		priceID = s.DefaultPriceID
	}
	if priceID == "" {
		return domain.Tenant{}, fmt.Errorf("%w: price_id is required", ErrInvalidInput)
	}

	t, err := s.Store.Tenants().GetTenantByID(ctx, tenantID)
	if err != nil {
		return domain.Tenant{}, err
	}
	if t.SubscriptionID != "" && t.SubscriptionStatus != domain.SubscriptionCanceled {
		return t, nil
	}

	if t.StripeCustomerID == "" {
		email, err := s.ownerEmail(ctx, tenantID)
		if err != nil {
			return domain.Tenant{}, err
		}
		id, err := s.Gateway.CreateCustomer(ctx, tenantID, t.Name, email)
		if err != nil {
			return domain.Tenant{}, upstream(err)
		}
		t.StripeCustomerID = id
		// Stored before subscribing; a retry reuses the customer.
		if err := s.Store.Tenants().UpdateBilling(ctx, tenantID, id, t.SubscriptionID, t.SubscriptionStatus); err != nil {
			return domain.Tenant{}, err
		}
	}

	sub, err := s.Gateway.CreateSubscription(ctx, tenantID, t.StripeCustomerID, priceID)
	metricsx.RecordBusinessEvent(ctx, "subscription_created", err == nil)
	if err != nil {
		return domain.Tenant{}, upstream(err)
	}

	t.SubscriptionID = sub.ID
	t.SubscriptionStatus = sub.Status
	if err := s.Store.Tenants().UpdateBilling(ctx, tenantID, t.StripeCustomerID, sub.ID, sub.Status); err != nil {
		return domain.Tenant{}, err
	}

	slogx.FromContext(ctx).Info("subscription created",
		"tenant_id", tenantID, "subscription_id", sub.ID, "status", sub.Status)
	return t, nil
}

func (s *BillingService) ownerEmail(ctx context.Context, tenantID string) (string, error) {
	users, err := s.Store.Users().ListUsers(ctx, tenantID)
	if err != nil {
		return "", err
	}
	for _, u := range users {
		if u.Role == domain.RoleOwner {
			return u.Email, nil
		}
	}
	return "", nil
}

func upstream(err error) error {
	if errors.Is(err, billing.ErrUpstream) {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return err
}

// WebhookResult tells the caller what a delivery did.
type WebhookResult struct {
	EventID   string `json:"event_id"`
	Type      string `json:"type"`
	Duplicate bool   `json:"duplicate"`
	Stale     bool   `json:"stale,omitempty"`
	TenantID  string `json:"tenant_id,omitempty"`
	Status    string `json:"status,omitempty"`
}

// HandleWebhook verifies a Stripe delivery and applies it once. Replays of
// an event id are acknowledged without effect, and so are events older than
// the last one applied to the tenant.
func (s *BillingService) HandleWebhook(ctx context.Context, payload []byte, signature string) (WebhookResult, error) {
	if s.Gateway == nil {
		return WebhookResult{}, ErrBillingDisabled
	}

	ev, err := s.Gateway.ParseWebhook(payload, signature)
	if err != nil {
		slogx.FromContext(ctx).Warn("webhook rejected", "error", err)
		if errors.Is(err, billing.ErrInvalidSignature) {
			return WebhookResult{}, ErrInvalidSignature
		}
		return WebhookResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	res := WebhookResult{EventID: ev.ID, Type: ev.Type}
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		fresh, err := tx.WebhookEvents().MarkProcessed(ctx, domain.WebhookEvent{
			ID:          ev.ID,
			Type:        ev.Type,
			ProcessedAt: time.Now().UTC(),
		})
		if err != nil {
			return err
		}
		if !fresh {
			res.Duplicate = true
			return nil
		}
		if ev.Status == "" || ev.CustomerID == "" {
			return nil
		}

		t, err := tx.Tenants().GetTenantByStripeCustomer(ctx, ev.CustomerID)
		if errors.Is(err, store.ErrNotFound) {
			slogx.FromContext(ctx).Warn("webhook for unknown customer",
				"event_id", ev.ID, "customer_id", ev.CustomerID)
			return nil
		}
		if err != nil {
			return err
		}

		subID := ev.SubscriptionID
		if subID == "" {
			subID = t.SubscriptionID
		}
		res.TenantID = t.ID
		applied, err := tx.Tenants().ApplySubscriptionEvent(ctx, t.ID, subID, ev.Status, ev.Created)
		if err != nil {
			return err
		}
		if !applied {
			res.Stale = true
			slogx.FromContext(ctx).Warn("stale webhook ignored",
				"event_id", ev.ID, "tenant_id", t.ID, "created", ev.Created)
			return nil
		}
		res.Status = ev.Status
		return nil
	})
	metricsx.RecordBusinessEvent(ctx, "webhook_processed", err == nil)
	if err != nil {
		return WebhookResult{}, err
	}

	if res.Status != "" {
		slogx.FromContext(ctx).Info("subscription status updated",
			"event_id", ev.ID, "tenant_id", res.TenantID, "status", res.Status)
	}
	return res, nil
}
