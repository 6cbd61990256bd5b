package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/cart"
	"github.com/retail/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements cart.CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByID finds a cart by its ID, with items preloaded
func (r *GormCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*cart.Cart, error) {
	var c cart.Cart
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByUserID finds a user's cart, with items preloaded
func (r *GormCartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	var c cart.Cart
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetOrCreate returns the user's cart, creating the row on first access.
// The insert races with other requests for the same user; ON CONFLICT DO
// NOTHING on user_id means exactly one row wins and everyone reads it back.
func (r *GormCartRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	c, err := cart.NewCart(userID)
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(c).Error; err != nil {
		return nil, err
	}

	return r.FindByUserID(ctx, userID)
}

// Save persists the cart header (totals projection)
func (r *GormCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	return r.db.WithContext(ctx).
		Model(&cart.Cart{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"discount":   c.Discount,
			"subtotal":   c.Subtotal,
			"tax":        c.Tax,
			"total":      c.Total,
			"updated_at": c.UpdatedAt,
		}).Error
}

// SaveItem creates or updates a single line
func (r *GormCartRepository) SaveItem(ctx context.Context, item *cart.CartItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// DeleteItem removes a single line
func (r *GormCartRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&cart.CartItem{}, "id = ?", itemID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ClearItems removes all lines for a cart
func (r *GormCartRepository) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&cart.CartItem{}, "cart_id = ?", cartID).Error
}
