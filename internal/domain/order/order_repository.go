package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by its ID, with items preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order by its order number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindByPaymentIntentID finds the order a gateway intent belongs to
	FindByPaymentIntentID(ctx context.Context, intentID string) (*Order, error)

	// FindByUserID lists a user's orders, newest first
	FindByUserID(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Order, error)

	// SaveWithLock updates an existing order header with optimistic
	// locking: the write only applies when the stored version matches the
	// one the aggregate was loaded at, and a mismatch surfaces as
	// shared.ErrOptimisticLock. Items are immutable snapshots written at
	// creation and are never updated.
	SaveWithLock(ctx context.Context, order *Order) error
}
