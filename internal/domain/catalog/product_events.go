package catalog

import (
	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated      = "ProductCreated"
	EventTypeProductPriceChanged = "ProductPriceChanged"
	EventTypeProductLowStock     = "ProductLowStock"
)

// ProductCreatedEvent is published when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		SKU:             product.SKU,
		Name:            product.Name,
		Price:           product.Price,
	}
}

// ProductPriceChangedEvent is published when a product's price changes
type ProductPriceChangedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	SKU       string          `json:"sku"`
	OldPrice  decimal.Decimal `json:"old_price"`
	NewPrice  decimal.Decimal `json:"new_price"`
}

// NewProductPriceChangedEvent creates a new ProductPriceChangedEvent
func NewProductPriceChangedEvent(product *Product, oldPrice decimal.Decimal) *ProductPriceChangedEvent {
	return &ProductPriceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductPriceChanged, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		SKU:             product.SKU,
		OldPrice:        oldPrice,
		NewPrice:        product.Price,
	}
}

// ProductLowStockEvent is published when tracked stock drops to or below
// the product's low stock threshold
type ProductLowStockEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	SKU       string    `json:"sku"`
	Remaining int       `json:"remaining"`
	Threshold int       `json:"threshold"`
}

// NewProductLowStockEvent creates a new ProductLowStockEvent
func NewProductLowStockEvent(product *Product) *ProductLowStockEvent {
	return &ProductLowStockEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductLowStock, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		SKU:             product.SKU,
		Remaining:       product.StockQuantity,
		Threshold:       product.LowStockThreshold,
	}
}
