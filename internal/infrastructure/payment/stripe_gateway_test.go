package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81/webhook"

	"github.com/retail/backend/internal/domain/payment"
	"github.com/retail/backend/internal/infrastructure/config"
)

const testWebhookSecret = "whsec_test_secret"

func signedPayload(t *testing.T, body string) ([]byte, string) {
	t.Helper()

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(body),
		Secret:    testWebhookSecret,
		Timestamp: time.Now(),
	})
	return signed.Payload, signed.Header
}

func newTestGateway() *StripeGateway {
	return NewStripeGateway(&config.StripeConfig{
		SecretKey:     "sk_test_key",
		WebhookSecret: testWebhookSecret,
	})
}

func TestVerifyEvent(t *testing.T) {
	t.Run("normalizes a successful payment event", func(t *testing.T) {
		g := newTestGateway()

		body := `{"id":"evt_1","api_version":"2025-02-24.acacia","type":"payment_intent.succeeded","data":{"object":{"id":"pi_123"}}}`
		payload, header := signedPayload(t, body)

		evt, err := g.VerifyEvent(payload, header)

		require.NoError(t, err)
		assert.Equal(t, "evt_1", evt.ID)
		assert.Equal(t, payment.EventPaymentSucceeded, evt.Kind)
		assert.Equal(t, "pi_123", evt.IntentID)
		assert.Equal(t, "payment_intent.succeeded", evt.RawType)
	})

	t.Run("normalizes a failed payment event", func(t *testing.T) {
		g := newTestGateway()

		body := `{"id":"evt_2","api_version":"2025-02-24.acacia","type":"payment_intent.payment_failed","data":{"object":{"id":"pi_456"}}}`
		payload, header := signedPayload(t, body)

		evt, err := g.VerifyEvent(payload, header)

		require.NoError(t, err)
		assert.Equal(t, payment.EventPaymentFailed, evt.Kind)
		assert.Equal(t, "pi_456", evt.IntentID)
	})

	t.Run("classifies unhandled event types as ignored", func(t *testing.T) {
		g := newTestGateway()

		body := `{"id":"evt_3","api_version":"2025-02-24.acacia","type":"charge.refunded","data":{"object":{"id":"ch_1"}}}`
		payload, header := signedPayload(t, body)

		evt, err := g.VerifyEvent(payload, header)

		require.NoError(t, err)
		assert.Equal(t, payment.EventIgnored, evt.Kind)
		assert.Equal(t, "charge.refunded", evt.RawType)
		assert.Empty(t, evt.IntentID)
	})

	t.Run("rejects a tampered payload", func(t *testing.T) {
		g := newTestGateway()

		body := `{"id":"evt_4","type":"payment_intent.succeeded","data":{"object":{"id":"pi_789"}}}`
		_, header := signedPayload(t, body)

		tampered := []byte(`{"id":"evt_4","type":"payment_intent.succeeded","data":{"object":{"id":"pi_evil"}}}`)
		evt, err := g.VerifyEvent(tampered, header)

		require.Error(t, err)
		assert.Nil(t, evt)
	})

	t.Run("rejects a garbage signature header", func(t *testing.T) {
		g := newTestGateway()

		evt, err := g.VerifyEvent([]byte(`{}`), "not-a-signature")

		require.Error(t, err)
		assert.Nil(t, evt)
	})
}
