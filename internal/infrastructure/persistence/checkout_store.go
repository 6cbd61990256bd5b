package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/cart"
	"github.com/retail/backend/internal/domain/order"
	"github.com/retail/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCheckoutStore runs the cart-to-order conversion as one transaction:
// insert the order with its item snapshots, decrement tracked stock per
// line with a guarded UPDATE, then clear the cart. Any failure rolls the
// whole thing back, leaving both cart and stock untouched.
type GormCheckoutStore struct {
	db *gorm.DB
}

// NewGormCheckoutStore creates a new GormCheckoutStore
func NewGormCheckoutStore(db *gorm.DB) *GormCheckoutStore {
	return &GormCheckoutStore{db: db}
}

// PlaceOrder persists the order atomically. An order number collision
// surfaces as shared.ErrAlreadyExists so the caller can retry with a fresh
// number; a line that cannot be covered by stock on hand surfaces as
// shared.ErrInsufficientStock.
func (s *GormCheckoutStore) PlaceOrder(ctx context.Context, o *order.Order, cartID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(o).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.ErrAlreadyExists
			}
			return err
		}

		for i := range o.Items {
			item := &o.Items[i]
			ok, err := decrementStock(tx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return shared.ErrInsufficientStock
			}
		}

		if err := tx.Delete(&cart.CartItem{}, "cart_id = ?", cartID).Error; err != nil {
			return err
		}

		return tx.Model(&cart.Cart{}).
			Where("id = ?", cartID).
			Updates(map[string]interface{}{
				"discount":   0,
				"subtotal":   0,
				"tax":        0,
				"total":      0,
				"updated_at": time.Now(),
			}).Error
	})
}
