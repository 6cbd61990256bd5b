package payment

import "context"

// EventKind classifies a gateway webhook event
type EventKind string

const (
	// EventPaymentSucceeded signals a captured payment intent
	EventPaymentSucceeded EventKind = "payment_succeeded"
	// EventPaymentFailed signals a failed payment attempt
	EventPaymentFailed EventKind = "payment_failed"
	// EventIgnored is any event kind the reconciler does not act on
	EventIgnored EventKind = "ignored"
)

// Event is a provider-agnostic view of a verified webhook event
type Event struct {
	// ID is the provider's event ID, used for idempotent processing
	ID string
	// Kind is the normalized event classification
	Kind EventKind
	// IntentID is the payment intent the event refers to (empty for
	// ignored kinds without one)
	IntentID string
	// RawType preserves the provider's original event type string
	RawType string
}

// CreateIntentInput describes a payment intent to open with the gateway
type CreateIntentInput struct {
	// AmountMinor is the charge amount in the currency's minor unit
	AmountMinor int64
	// Currency is the lowercase ISO currency code, e.g. "usd"
	Currency string
	// Metadata is attached to the intent for reconciliation and support
	Metadata map[string]string
}

// CreateIntentOutput is the gateway's response to an intent creation
type CreateIntentOutput struct {
	// IntentID is the gateway's intent identifier
	IntentID string
	// ClientSecret is handed to the client to confirm the payment
	ClientSecret string
}

// Gateway abstracts the payment provider
type Gateway interface {
	// CreateIntent opens a payment intent for the given amount
	CreateIntent(ctx context.Context, input CreateIntentInput) (*CreateIntentOutput, error)

	// VerifyEvent checks a webhook payload against its signature and
	// returns the normalized event. A bad signature is an error.
	VerifyEvent(payload []byte, signature string) (*Event, error)
}
