// Package billing talks to Stripe: customers and subscriptions on the way
// out, signed webhook events on the way in.
package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/OolalaDXB/outrenational/pkg/metricsx"
)

var (
	ErrInvalidSignature = errors.New("billing: invalid webhook signature")
	ErrUpstream         = errors.New("billing: stripe request failed")
)

// idempotencyNamespace scopes the v5 UUIDs used as Stripe idempotency keys.
var idempotencyNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://outrenational.app/billing"))

// IdempotencyKey derives a stable key from its parts so a retried
// subscribe call never creates a second object.
func IdempotencyKey(parts ...string) string {
	var b []byte
	for i, p := range parts {
		if i > 0 {
			b = append(b, ':')
		}
		b = append(b, p...)
	}
	return uuid.NewSHA1(idempotencyNamespace, b).String()
}

type Subscription struct {
	ID     string
	Status string
}

// Event is the subset of a Stripe event the ERP acts upon. Status is empty
// for events that do not change the subscription status. Created is the
// time Stripe emitted the event, which orders late deliveries.
type Event struct {
	ID             string
	Type           string
	Created        time.Time
	CustomerID     string
	SubscriptionID string
	Status         string
}

type Gateway struct {
	api           *client.API
	webhookSecret string
}

// New builds a gateway. backends may be nil to use the live Stripe API.
func New(secretKey, webhookSecret string, backends *stripe.Backends) *Gateway {
	api := &client.API{}
	api.Init(secretKey, backends)
	return &Gateway{api: api, webhookSecret: webhookSecret}
}

// BackendsFor points every Stripe backend at url. Used by tests and
// stripe-mock setups.
func BackendsFor(url string) *stripe.Backends {
	cfg := &stripe.BackendConfig{
		URL:               stripe.String(url),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	}
	b := stripe.GetBackendWithConfig(stripe.APIBackend, cfg)
	return &stripe.Backends{API: b, Connect: b, Uploads: b}
}

func (g *Gateway) CreateCustomer(ctx context.Context, tenantID, name, email string) (id string, err error) {
	start := time.Now()
	defer func() { metricsx.RecordExternalCall(ctx, "stripe", "create_customer", time.Since(start), err) }()

	params := &stripe.CustomerParams{
		Name:  stripe.String(name),
		Email: stripe.String(email),
	}
	params.Context = ctx
	params.AddMetadata("tenant_id", tenantID)
	params.SetIdempotencyKey(IdempotencyKey("customer", tenantID))

	c, err := g.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return c.ID, nil
}

func (g *Gateway) CreateSubscription(ctx context.Context, tenantID, customerID, priceID string) (sub Subscription, err error) {
	start := time.Now()
	defer func() { metricsx.RecordExternalCall(ctx, "stripe", "create_subscription", time.Since(start), err) }()

	params := &stripe.SubscriptionParams{
		Customer: stripe.String(customerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(priceID)},
		},
	}
	params.Context = ctx
	params.AddMetadata("tenant_id", tenantID)
	params.SetIdempotencyKey(IdempotencyKey("subscription", tenantID, priceID))

	s, err := g.api.Subscriptions.New(params)
	if err != nil {
		return Subscription{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return Subscription{ID: s.ID, Status: string(s.Status)}, nil
}

// ParseWebhook verifies the Stripe-Signature header and extracts the
// subscription change carried by the event.
func (g *Gateway) ParseWebhook(payload []byte, signature string) (Event, error) {
	ev, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := Event{ID: ev.ID, Type: string(ev.Type)}
	if ev.Created > 0 {
		out.Created = time.Unix(ev.Created, 0).UTC()
	}
	if ev.Data == nil {
		return out, nil
	}

	switch ev.Type {
	case "customer.subscription.created", "customer.subscription.updated", "customer.subscription.deleted":
		var s stripe.Subscription
		if err := json.Unmarshal(ev.Data.Raw, &s); err != nil {
			return Event{}, err
		}
		out.SubscriptionID = s.ID
		if s.Customer != nil {
			out.CustomerID = s.Customer.ID
		}
		out.Status = string(s.Status)
		if ev.Type == "customer.subscription.deleted" {
			out.Status = string(stripe.SubscriptionStatusCanceled)
		}

	case "invoice.paid", "invoice.payment_failed":
		var inv stripe.Invoice
		if err := json.Unmarshal(ev.Data.Raw, &inv); err != nil {
			return Event{}, err
		}
		if inv.Customer != nil {
			out.CustomerID = inv.Customer.ID
		}
		if inv.Subscription != nil {
			out.SubscriptionID = inv.Subscription.ID
		}
		out.Status = string(stripe.SubscriptionStatusActive)
		if ev.Type == "invoice.payment_failed" {
			out.Status = string(stripe.SubscriptionStatusPastDue)
		}
	}

	return out, nil
}
