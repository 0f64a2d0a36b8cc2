package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/customer"
	"github.com/stripe/stripe-go/v82/subscription"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"
	"pagepulse/internal/log"
)

const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionDeleted = "customer.subscription.deleted"

	maxCustomersPerEmail = 10
)

var (
	ErrNoActiveSubscription = errors.New("no active subscription found")
	ErrInvalidWebhook       = errors.New("invalid webhook payload")
)

// Client answers subscription questions against Stripe. Checkout and the
// billing portal are handled by Stripe-hosted pages, not here.
type Client struct {
	webhookSecret string
}

type Config struct {
	SecretKey     string // STRIPE_SECRET_KEY
	WebhookSecret string // STRIPE_WEBHOOK_SECRET
}

func NewClient(cfg Config) *Client {
	stripe.Key = cfg.SecretKey

	return &Client{
		webhookSecret: cfg.WebhookSecret,
	}
}

// HasActiveSubscription reports whether the customer has at least one active subscription.
func (c *Client) HasActiveSubscription(ctx context.Context, customerID string) (bool, error) {
	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String(string(stripe.SubscriptionStatusActive)),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(1)

	iter := subscription.List(params)
	if iter.Next() {
		return true, nil
	}
	if err := iter.Err(); err != nil {
		return false, fmt.Errorf("list subscriptions for %s: %w", customerID, err)
	}
	return false, nil
}

// CustomerFromSession resolves the customer of a completed checkout session.
func (c *Client) CustomerFromSession(ctx context.Context, sessionID string) (string, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := checkoutsession.Get(sessionID, params)
	if err != nil {
		return "", fmt.Errorf("get checkout session %s: %w", sessionID, err)
	}
	if sess.Customer == nil {
		return "", nil
	}
	return sess.Customer.ID, nil
}

// FindActiveCustomerByEmail returns the first customer with this email that has an
// active subscription.
func (c *Client) FindActiveCustomerByEmail(ctx context.Context, email string) (string, error) {
	params := &stripe.CustomerListParams{
		Email: stripe.String(email),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(maxCustomersPerEmail)

	iter := customer.List(params)
	for checked := 0; checked < maxCustomersPerEmail && iter.Next(); checked++ {
		cust := iter.Customer()
		active, err := c.HasActiveSubscription(ctx, cust.ID)
		if err != nil {
			return "", err
		}
		if active {
			return cust.ID, nil
		}
	}
	if err := iter.Err(); err != nil {
		return "", fmt.Errorf("list customers: %w", err)
	}
	return "", ErrNoActiveSubscription
}

// ParseWebhook decodes a webhook event. When a webhook secret is configured the
// signature must verify; verified reports whether it did. Unverified events are
// informational only and must not grant entitlements.
func (c *Client) ParseWebhook(payload []byte, signature string) (event *stripe.Event, verified bool, err error) {
	if c.webhookSecret != "" && signature != "" {
		ev, err := webhook.ConstructEventWithOptions(payload, signature, c.webhookSecret,
			webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
		if err != nil {
			return nil, false, fmt.Errorf("%w: %w", ErrInvalidWebhook, err)
		}
		return &ev, true, nil
	}

	if c.webhookSecret != "" {
		log.Logger.Warn("webhook secret configured but request is unsigned")
		return nil, false, fmt.Errorf("%w: missing signature", ErrInvalidWebhook)
	}

	var ev stripe.Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrInvalidWebhook, err)
	}
	return &ev, false, nil
}

// EventLabel maps an event type to a bounded metric label.
func EventLabel(eventType stripe.EventType) string {
	switch eventType {
	case EventCheckoutCompleted, EventSubscriptionDeleted:
		return string(eventType)
	}
	return "other"
}

// WebhookEffect is the entitlement change implied by a webhook event.
type WebhookEffect struct {
	CustomerID string
	Active     bool
}

// EffectOf extracts the entitlement change from a checkout or cancellation event.
// ok is false for events that do not affect entitlements.
func EffectOf(event *stripe.Event) (effect WebhookEffect, ok bool, err error) {
	if event.Data == nil {
		return WebhookEffect{}, false, nil
	}

	switch event.Type {
	case EventCheckoutCompleted:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return WebhookEffect{}, false, fmt.Errorf("unmarshal checkout session: %w", err)
		}
		if sess.Customer == nil {
			return WebhookEffect{}, false, nil
		}
		subID := ""
		if sess.Subscription != nil {
			subID = sess.Subscription.ID
		}
		log.Logger.Info("checkout completed",
			zap.String("customer_id", sess.Customer.ID),
			zap.String("subscription_id", subID),
		)
		return WebhookEffect{CustomerID: sess.Customer.ID, Active: true}, true, nil

	case EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return WebhookEffect{}, false, fmt.Errorf("unmarshal subscription: %w", err)
		}
		if sub.Customer == nil {
			return WebhookEffect{}, false, nil
		}
		log.Logger.Info("subscription cancelled",
			zap.String("customer_id", sub.Customer.ID),
			zap.String("subscription_id", sub.ID),
		)
		return WebhookEffect{CustomerID: sub.Customer.ID, Active: false}, true, nil
	}

	return WebhookEffect{}, false, nil
}
