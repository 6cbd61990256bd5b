package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest adds a new product to the catalog
type CreateProductRequest struct {
	Name              string          `json:"name" binding:"required,max=200"`
	Description       string          `json:"description"`
	SKU               string          `json:"sku" binding:"required,max=50,sku"`
	Price             decimal.Decimal `json:"price" binding:"required"`
	StockQuantity     int             `json:"stock_quantity" binding:"gte=0"`
	TrackInventory    *bool           `json:"track_inventory"`
	LowStockThreshold int             `json:"low_stock_threshold" binding:"gte=0"`
}

// UpdateProductRequest changes a product's details and price
type UpdateProductRequest struct {
	Name              string           `json:"name" binding:"required,max=200"`
	Description       string           `json:"description"`
	Price             *decimal.Decimal `json:"price"`
	LowStockThreshold *int             `json:"low_stock_threshold"`
	IsActive          *bool            `json:"is_active"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	SKU               string          `json:"sku"`
	Price             decimal.Decimal `json:"price"`
	StockQuantity     int             `json:"stock_quantity"`
	TrackInventory    bool            `json:"track_inventory"`
	IsActive          bool            `json:"is_active"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	LowStock          bool            `json:"low_stock"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToProductResponse converts a domain product to its API representation
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		SKU:               p.SKU,
		Price:             p.Price,
		StockQuantity:     p.StockQuantity,
		TrackInventory:    p.TrackInventory,
		IsActive:          p.IsActive,
		LowStockThreshold: p.LowStockThreshold,
		LowStock:          p.IsLowStock(),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of domain products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out
}
