package catalog

import (
	"strings"
	"time"

	"github.com/retail/backend/internal/domain/shared"
	"github.com/retail/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Product represents a sellable item in the catalog
// It is the aggregate root for product-related operations. The checkout core
// only writes StockQuantity; everything else is catalog-managed.
type Product struct {
	shared.BaseAggregateRoot
	Name              string          `gorm:"type:varchar(200);not null"`
	Description       string          `gorm:"type:text"`
	SKU               string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Price             decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	StockQuantity     int             `gorm:"not null;default:0"`
	TrackInventory    bool            `gorm:"not null;default:true"`
	IsActive          bool            `gorm:"not null;default:true"`
	LowStockThreshold int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(name, sku string, price valueobject.Money) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		SKU:               strings.ToUpper(sku),
		Price:             price.Amount(),
		TrackInventory:    true,
		IsActive:          true,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// UpdatePrice updates the selling price
func (p *Product) UpdatePrice(price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	oldPrice := p.Price
	p.Price = price.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, oldPrice))

	return nil
}

// Activate makes the product purchasable
func (p *Product) Activate() {
	p.IsActive = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Deactivate removes the product from sale without deleting it
func (p *Product) Deactivate() {
	p.IsActive = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// PriceMoney returns the selling price as a Money value object
func (p *Product) PriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.Price)
}

// HasStockFor reports whether the product can satisfy the requested
// quantity. Untracked products always have stock.
func (p *Product) HasStockFor(quantity int) bool {
	if !p.TrackInventory {
		return true
	}
	return p.StockQuantity >= quantity
}

// IsLowStock reports whether tracked stock has fallen to or below the
// configured threshold
func (p *Product) IsLowStock() bool {
	if !p.TrackInventory || p.LowStockThreshold <= 0 {
		return false
	}
	return p.StockQuantity <= p.LowStockThreshold
}

// DecrementStock reduces tracked stock by the given quantity.
// The authoritative oversell guard is the conditional UPDATE in the
// repository; this method keeps in-memory aggregates consistent.
func (p *Product) DecrementStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if !p.TrackInventory {
		return nil
	}
	if p.StockQuantity < quantity {
		return shared.ErrInsufficientStock
	}

	p.StockQuantity -= quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	if p.IsLowStock() {
		p.AddDomainEvent(NewProductLowStockEvent(p))
	}

	return nil
}

// IncrementStock restores tracked stock, e.g. when an unpaid order is
// cancelled
func (p *Product) IncrementStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if !p.TrackInventory {
		return nil
	}

	p.StockQuantity += quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}
	for _, r := range sku {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_SKU", "SKU can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}
