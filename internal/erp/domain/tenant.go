package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tenant is one distributor. Every other row carries its ID.
type Tenant struct {
	ID                 string          `db:"id" json:"id"`
	Slug               string          `db:"slug" json:"slug"`
	Name               string          `db:"name" json:"name"`
	Country            string          `db:"country" json:"country"`
	Currency           string          `db:"currency" json:"currency"`
	DefaultVATRate     decimal.Decimal `db:"default_vat_rate" json:"default_vat_rate"`
	VATNumber          string          `db:"vat_number" json:"vat_number,omitempty"`
	StripeCustomerID   string          `db:"stripe_customer_id" json:"stripe_customer_id,omitempty"`
	SubscriptionID     string          `db:"subscription_id" json:"subscription_id,omitempty"`
	SubscriptionStatus string          `db:"subscription_status" json:"subscription_status"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updated_at"`
}

// Subscription statuses mirrored from Stripe. "none" means the tenant never
// subscribed.
const (
	SubscriptionNone     = "none"
	SubscriptionActive   = "active"
	SubscriptionTrialing = "trialing"
	SubscriptionPastDue  = "past_due"
	SubscriptionCanceled = "canceled"
	SubscriptionUnpaid   = "unpaid"
)

// WebhookEvent records a processed billing event id so retries are ignored.
type WebhookEvent struct {
	ID          string    `db:"id"`
	Type        string    `db:"type"`
	ProcessedAt time.Time `db:"processed_at"`
}
