package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindBySKU finds a product by its SKU
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindActive finds all active products matching the filter
	FindActive(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// DecrementStock atomically reduces tracked stock by quantity.
	// The update only applies when the product does not track inventory or
	// has at least the requested quantity on hand; it reports false when
	// no row matched, which callers must treat as insufficient stock.
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error)

	// IncrementStock atomically restores tracked stock by quantity
	IncrementStock(ctx context.Context, id uuid.UUID, quantity int) error
}
