package order

import (
	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated       = "OrderCreated"
	EventTypeOrderPaid          = "OrderPaid"
	EventTypeOrderPaymentFailed = "OrderPaymentFailed"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
)

// OrderCreatedEvent is published when checkout creates an order
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	UserID      uuid.UUID       `json:"user_id"`
	ItemCount   int             `json:"item_count"`
	Total       decimal.Decimal `json:"total"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		ItemCount:       len(o.Items),
		Total:           o.Total,
	}
}

// OrderPaidEvent is published when payment is captured for an order
type OrderPaidEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	Total       decimal.Decimal `json:"total"`
}

// NewOrderPaidEvent creates a new OrderPaidEvent
func NewOrderPaidEvent(o *Order) *OrderPaidEvent {
	return &OrderPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaid, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		Total:           o.Total,
	}
}

// OrderPaymentFailedEvent is published when a payment attempt fails
type OrderPaymentFailedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
}

// NewOrderPaymentFailedEvent creates a new OrderPaymentFailedEvent
func NewOrderPaymentFailedEvent(o *Order) *OrderPaymentFailedEvent {
	return &OrderPaymentFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaymentFailed, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
	}
}

// OrderStatusChangedEvent is published on every fulfillment transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID   `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	OldStatus   OrderStatus `json:"old_status"`
	NewStatus   OrderStatus `json:"new_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, oldStatus OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		OldStatus:       oldStatus,
		NewStatus:       o.Status,
	}
}
