package payment

import "github.com/google/uuid"

// CreateIntentRequest opens a payment intent for an order
type CreateIntentRequest struct {
	OrderID uuid.UUID `json:"order_id" binding:"required"`
}

// IntentResponse carries what the client needs to confirm the payment
type IntentResponse struct {
	IntentID     string `json:"intent_id"`
	ClientSecret string `json:"client_secret"`
}
