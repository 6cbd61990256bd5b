package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/order"
	"github.com/retail/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// UpdateStatusRequest moves an order through the fulfillment state machine
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdatePaymentStatusRequest moves the payment state machine directly
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// OrderItemResponse represents a frozen line item in API responses
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSKU  string          `json:"product_sku"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse represents the full order aggregate in API responses
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	UserID          uuid.UUID           `json:"user_id"`
	Items           []OrderItemResponse `json:"items"`
	Status          string              `json:"status"`
	PaymentStatus   string              `json:"payment_status"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	Tax             decimal.Decimal     `json:"tax"`
	ShippingCost    decimal.Decimal     `json:"shipping_cost"`
	Discount        decimal.Decimal     `json:"discount"`
	Total           decimal.Decimal     `json:"total"`
	ShippingAddress valueobject.Address `json:"shipping_address"`
	BillingAddress  valueobject.Address `json:"billing_address"`
	Notes           string              `json:"notes,omitempty"`
	PaymentIntentID *string             `json:"payment_intent_id,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// OrderListItemResponse represents an order in list responses (less detail)
type OrderListItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	OrderNumber   string          `json:"order_number"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	ItemCount     int             `json:"item_count"`
	Total         decimal.Decimal `json:"total"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToOrderItemResponse converts a domain line to its API representation
func ToOrderItemResponse(item *order.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ID:          item.ID,
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		ProductSKU:  item.ProductSKU,
		Price:       item.Price,
		Quantity:    item.Quantity,
		Subtotal:    item.Subtotal,
	}
}

// ToOrderResponse converts a domain order to its API representation
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i := range o.Items {
		items[i] = ToOrderItemResponse(&o.Items[i])
	}

	return OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		Items:           items,
		Status:          string(o.Status),
		PaymentStatus:   string(o.PaymentStatus),
		Subtotal:        o.Subtotal,
		Tax:             o.Tax,
		ShippingCost:    o.ShippingCost,
		Discount:        o.Discount,
		Total:           o.Total,
		ShippingAddress: o.ShippingAddress,
		BillingAddress:  o.BillingAddress,
		Notes:           o.Notes,
		PaymentIntentID: o.PaymentIntentID,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// ToOrderListItemResponse converts a domain order to its list representation
func ToOrderListItemResponse(o *order.Order) OrderListItemResponse {
	return OrderListItemResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		ItemCount:     len(o.Items),
		Total:         o.Total,
		CreatedAt:     o.CreatedAt,
	}
}
