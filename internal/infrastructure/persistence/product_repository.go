package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/catalog"
	"github.com/retail/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindBySKU finds a product by its SKU
func (r *GormProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Where("sku = ?", strings.ToUpper(sku)).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByIDs finds multiple products by their IDs
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}

	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindActive finds all active products matching the filter
func (r *GormProductRepository) FindActive(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := applyFilter(
		r.db.WithContext(ctx).Model(&catalog.Product{}).Where("is_active = ?", true),
		filter,
	)

	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	err := r.db.WithContext(ctx).Save(product).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	return err
}

// Delete deletes a product
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DecrementStock atomically reduces tracked stock. The guarded UPDATE only
// matches when the product has enough on hand (or does not track inventory),
// so concurrent checkouts can never drive stock negative.
func (r *GormProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error) {
	return decrementStock(r.db.WithContext(ctx), id, quantity)
}

// IncrementStock atomically restores tracked stock by quantity
func (r *GormProductRepository) IncrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	return incrementStock(r.db.WithContext(ctx), id, quantity)
}

// decrementStock is shared with the checkout store so the same guarded
// UPDATE runs inside the checkout transaction.
func decrementStock(db *gorm.DB, id uuid.UUID, quantity int) (bool, error) {
	result := db.Model(&catalog.Product{}).
		Where("id = ? AND (track_inventory = ? OR stock_quantity >= ?)", id, false, quantity).
		UpdateColumn("stock_quantity",
			gorm.Expr("CASE WHEN track_inventory THEN stock_quantity - ? ELSE stock_quantity END", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func incrementStock(db *gorm.DB, id uuid.UUID, quantity int) error {
	result := db.Model(&catalog.Product{}).
		Where("id = ? AND track_inventory = ?", id, true).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", quantity))
	return result.Error
}
