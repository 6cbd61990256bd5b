package payment

import (
	"context"
	"encoding/json"
	"fmt"

	stripe "github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"github.com/stripe/stripe-go/v81/webhook"

	"github.com/retail/backend/internal/domain/payment"
	"github.com/retail/backend/internal/infrastructure/config"
)

const (
	eventTypePaymentSucceeded = "payment_intent.succeeded"
	eventTypePaymentFailed    = "payment_intent.payment_failed"
)

// StripeGateway implements payment.Gateway against the Stripe API
type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

// NewStripeGateway creates a new StripeGateway
func NewStripeGateway(cfg *config.StripeConfig) *StripeGateway {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)

	return &StripeGateway{
		api:           api,
		webhookSecret: cfg.WebhookSecret,
	}
}

// CreateIntent opens a Stripe PaymentIntent for the given amount
func (g *StripeGateway) CreateIntent(ctx context.Context, input payment.CreateIntentInput) (*payment.CreateIntentOutput, error) {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{
			Context: ctx,
		},
		Amount:   stripe.Int64(input.AmountMinor),
		Currency: stripe.String(input.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	for k, v := range input.Metadata {
		params.AddMetadata(k, v)
	}

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe payment intent creation failed: %w", err)
	}

	return &payment.CreateIntentOutput{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
	}, nil
}

// VerifyEvent checks the payload against the Stripe-Signature header and
// normalizes the event. Event types outside the two the reconciler acts on
// come back as EventIgnored with the raw type preserved for logging.
func (g *StripeGateway) VerifyEvent(payload []byte, signature string) (*payment.Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("stripe webhook verification failed: %w", err)
	}

	evt := &payment.Event{
		ID:      event.ID,
		RawType: string(event.Type),
	}

	switch string(event.Type) {
	case eventTypePaymentSucceeded:
		evt.Kind = payment.EventPaymentSucceeded
	case eventTypePaymentFailed:
		evt.Kind = payment.EventPaymentFailed
	default:
		evt.Kind = payment.EventIgnored
		return evt, nil
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return nil, fmt.Errorf("stripe event payload decoding failed: %w", err)
	}
	evt.IntentID = intent.ID

	return evt, nil
}

var _ payment.Gateway = (*StripeGateway)(nil)
