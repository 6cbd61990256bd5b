package checkout

import (
	"github.com/retail/backend/internal/domain/shared/valueobject"
)

// CheckoutRequest converts the caller's cart into an order
type CheckoutRequest struct {
	ShippingAddress valueobject.Address `json:"shipping_address" binding:"required"`
	// BillingAddress defaults to the shipping address when omitted
	BillingAddress valueobject.Address `json:"billing_address"`
	Notes          string              `json:"notes"`
}
