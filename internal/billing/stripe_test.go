package billing

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"
	"pagepulse/internal/log"
)

const checkoutPayload = `{
	"id": "evt_1",
	"object": "event",
	"type": "checkout.session.completed",
	"data": {"object": {"id": "cs_1", "object": "checkout.session", "customer": "cus_1", "subscription": "sub_1"}}
}`

const cancelPayload = `{
	"id": "evt_2",
	"object": "event",
	"type": "customer.subscription.deleted",
	"data": {"object": {"id": "sub_1", "object": "subscription", "customer": "cus_2"}}
}`

func TestMain(m *testing.M) {
	log.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func TestParseWebhookUnsigned(t *testing.T) {
	c := NewClient(Config{})

	event, verified, err := c.ParseWebhook([]byte(checkoutPayload), "")
	require.NoError(t, err)
	assert.False(t, verified)
	assert.Equal(t, "evt_1", event.ID)
	assert.EqualValues(t, EventCheckoutCompleted, event.Type)

	_, _, err = c.ParseWebhook([]byte("not json"), "")
	assert.ErrorIs(t, err, ErrInvalidWebhook)
}

func TestParseWebhookSigned(t *testing.T) {
	const secret = "whsec_test"
	c := NewClient(Config{WebhookSecret: secret})

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(checkoutPayload),
		Secret:    secret,
		Timestamp: time.Now(),
	})

	event, verified, err := c.ParseWebhook(signed.Payload, signed.Header)
	require.NoError(t, err)
	assert.True(t, verified)
	assert.Equal(t, "evt_1", event.ID)

	_, _, err = c.ParseWebhook([]byte(checkoutPayload), "t=1,v1=deadbeef")
	assert.ErrorIs(t, err, ErrInvalidWebhook)

	_, _, err = c.ParseWebhook([]byte(checkoutPayload), "")
	assert.ErrorIs(t, err, ErrInvalidWebhook, "unsigned payloads are rejected once a secret is set")
}

func TestEffectOf(t *testing.T) {
	c := NewClient(Config{})

	tests := []struct {
		name     string
		payload  string
		expected WebhookEffect
		ok       bool
	}{
		{
			name:     "Checkout completed activates customer",
			payload:  checkoutPayload,
			expected: WebhookEffect{CustomerID: "cus_1", Active: true},
			ok:       true,
		},
		{
			name:     "Subscription deleted deactivates customer",
			payload:  cancelPayload,
			expected: WebhookEffect{CustomerID: "cus_2", Active: false},
			ok:       true,
		},
		{
			name:    "Unrelated event is ignored",
			payload: `{"id": "evt_3", "object": "event", "type": "invoice.paid", "data": {"object": {"id": "in_1", "object": "invoice"}}}`,
			ok:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, _, err := c.ParseWebhook([]byte(tt.payload), "")
			require.NoError(t, err)

			effect, ok, err := EffectOf(event)
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, effect)
		})
	}
}

func TestEventLabel(t *testing.T) {
	tests := []struct {
		eventType string
		expected  string
	}{
		{EventCheckoutCompleted, EventCheckoutCompleted},
		{EventSubscriptionDeleted, EventSubscriptionDeleted},
		{"invoice.paid", "other"},
		{"made.up.by.a.client", "other"},
		{"", "other"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, EventLabel(stripe.EventType(tt.eventType)))
	}
}
