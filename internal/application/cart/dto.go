package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/cart"
	"github.com/shopspring/decimal"
)

// AddItemRequest adds a product line to the cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
}

// UpdateItemRequest sets the quantity of an existing line
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// CartItemResponse represents a cart line in API responses
type CartItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// CartResponse represents the cart aggregate in API responses
type CartResponse struct {
	ID        uuid.UUID          `json:"id"`
	UserID    uuid.UUID          `json:"user_id"`
	Items     []CartItemResponse `json:"items"`
	Discount  decimal.Decimal    `json:"discount"`
	Subtotal  decimal.Decimal    `json:"subtotal"`
	Tax       decimal.Decimal    `json:"tax"`
	Total     decimal.Decimal    `json:"total"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// ToCartItemResponse converts a domain line to its API representation
func ToCartItemResponse(item *cart.CartItem) CartItemResponse {
	return CartItemResponse{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Price:     item.Price,
		LineTotal: item.LineTotal(),
	}
}

// ToCartResponse converts a domain cart to its API representation
func ToCartResponse(c *cart.Cart) CartResponse {
	items := make([]CartItemResponse, len(c.Items))
	for i := range c.Items {
		items[i] = ToCartItemResponse(&c.Items[i])
	}

	return CartResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		Items:     items,
		Discount:  c.Discount,
		Subtotal:  c.Subtotal,
		Tax:       c.Tax,
		Total:     c.Total,
		UpdatedAt: c.UpdatedAt,
	}
}
