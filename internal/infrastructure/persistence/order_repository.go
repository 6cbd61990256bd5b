package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/order"
	"github.com/retail/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormOrderRepository implements order.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID, with items preloaded
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByOrderNumber finds an order by its order number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_number = ?", orderNumber).
		First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByPaymentIntentID finds the order a gateway intent belongs to
func (r *GormOrderRepository) FindByPaymentIntentID(ctx context.Context, intentID string) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("payment_intent_id = ?", intentID).
		First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByUserID lists a user's orders, newest first
func (r *GormOrderRepository) FindByUserID(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	var orders []order.Order
	query := applyFilter(
		r.db.WithContext(ctx).Model(&order.Order{}).
			Preload("Items").
			Where("user_id = ?", userID),
		filter,
	)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// SaveWithLock updates an existing order header under optimistic locking.
// Every state transition bumps the aggregate version exactly once, so the
// row to update must still hold the previous version; zero matched rows
// means a concurrent writer got there first. Items are immutable snapshots
// written at creation and are deliberately not touched here.
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, o *order.Order) error {
	result := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("id = ? AND version = ?", o.ID, o.Version-1).
		Updates(map[string]interface{}{
			"status":            o.Status,
			"payment_status":    o.PaymentStatus,
			"payment_intent_id": o.PaymentIntentID,
			"version":           o.Version,
			"updated_at":        o.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrOptimisticLock
	}
	return nil
}
