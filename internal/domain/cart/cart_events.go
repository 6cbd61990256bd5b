package cart

import (
	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeCart = "Cart"

// Event type constants
const (
	EventTypeCartCleared = "CartCleared"
)

// CartClearedEvent is published when all lines are dropped from a cart
type CartClearedEvent struct {
	shared.BaseDomainEvent
	CartID uuid.UUID `json:"cart_id"`
	UserID uuid.UUID `json:"user_id"`
}

// NewCartClearedEvent creates a new CartClearedEvent
func NewCartClearedEvent(c *Cart) *CartClearedEvent {
	return &CartClearedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCartCleared, AggregateTypeCart, c.ID),
		CartID:          c.ID,
		UserID:          c.UserID,
	}
}
