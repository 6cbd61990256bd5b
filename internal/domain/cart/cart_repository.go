package cart

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository defines the interface for cart persistence
type CartRepository interface {
	// FindByID finds a cart by its ID, with items preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*Cart, error)

	// FindByUserID finds a user's cart, with items preloaded
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Cart, error)

	// GetOrCreate returns the user's cart, creating the row on first
	// access. Concurrent first access must not produce duplicates.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*Cart, error)

	// Save persists the cart header (totals projection)
	Save(ctx context.Context, cart *Cart) error

	// SaveItem creates or updates a single line
	SaveItem(ctx context.Context, item *CartItem) error

	// DeleteItem removes a single line
	DeleteItem(ctx context.Context, itemID uuid.UUID) error

	// ClearItems removes all lines for a cart
	ClearItems(ctx context.Context, cartID uuid.UUID) error
}
