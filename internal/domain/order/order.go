package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/retail/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the fulfillment status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// IsValid checks if the status is a known value
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusProcessing || target == OrderStatusCancelled
	case OrderStatusProcessing:
		return target == OrderStatusShipped || target == OrderStatusCancelled || target == OrderStatusRefunded
	case OrderStatusShipped:
		return target == OrderStatusDelivered || target == OrderStatusRefunded
	case OrderStatusDelivered:
		return target == OrderStatusRefunded
	case OrderStatusCancelled, OrderStatusRefunded:
		return false // Terminal states
	}
	return false
}

// PaymentStatus represents the payment status of an order
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// IsValid checks if the payment status is a known value
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// CanTransitionTo checks if the payment status can transition to the
// target status. Failure never overwrites a successful payment.
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	switch s {
	case PaymentStatusPending:
		return target == PaymentStatusPaid || target == PaymentStatusFailed
	case PaymentStatusFailed:
		// A client may retry with a fresh intent
		return target == PaymentStatusPending || target == PaymentStatusPaid
	case PaymentStatusPaid:
		return target == PaymentStatusRefunded
	case PaymentStatusRefunded:
		return false // Terminal state
	}
	return false
}

// OrderItem is a line item with product details frozen at order creation.
// Later catalog mutations never change it.
type OrderItem struct {
	shared.BaseEntity
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	ProductSKU  string          `gorm:"type:varchar(50);not null"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Quantity    int             `gorm:"not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// Order is the aggregate root for a placed order
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber     string              `gorm:"type:varchar(40);not null;uniqueIndex"`
	UserID          uuid.UUID           `gorm:"type:uuid;not null;index"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Status          OrderStatus         `gorm:"type:varchar(20);not null;default:'pending'"`
	PaymentStatus   PaymentStatus       `gorm:"type:varchar(20);not null;default:'pending';index"`
	Subtotal        decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	Tax             decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	ShippingCost    decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	Discount        decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	Total           decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	ShippingAddress valueobject.Address `gorm:"type:jsonb"`
	BillingAddress  valueobject.Address `gorm:"type:jsonb"`
	Notes           string              `gorm:"type:text"`
	PaymentIntentID *string             `gorm:"type:varchar(255);index"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrderItem creates a line item snapshot for a product
func NewOrderItem(productID uuid.UUID, name, sku string, price valueobject.Money, quantity int) (OrderItem, error) {
	if quantity <= 0 {
		return OrderItem{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if price.IsNegative() {
		return OrderItem{}, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	return OrderItem{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   productID,
		ProductName: name,
		ProductSKU:  sku,
		Price:       price.Amount(),
		Quantity:    quantity,
		Subtotal:    price.Amount().Mul(decimal.NewFromInt(int64(quantity))),
	}, nil
}

// NewOrder creates an order in pending/pending state with the given line
// snapshots and derives all totals
func NewOrder(
	orderNumber string,
	userID uuid.UUID,
	items []OrderItem,
	tax, shippingCost, discount decimal.Decimal,
	shippingAddress, billingAddress valueobject.Address,
	notes string,
) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Order number cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "User ID cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.ErrEmptyCart
	}
	if shippingAddress.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Shipping address is required")
	}
	// Billing address defaults to the shipping address
	if billingAddress.IsEmpty() {
		billingAddress = shippingAddress
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		UserID:            userID,
		Status:            OrderStatusPending,
		PaymentStatus:     PaymentStatusPending,
		Tax:               tax,
		ShippingCost:      shippingCost,
		Discount:          discount,
		ShippingAddress:   shippingAddress,
		BillingAddress:    billingAddress,
		Notes:             notes,
	}

	for i := range items {
		items[i].OrderID = o.ID
		o.Items = append(o.Items, items[i])
	}
	o.recomputeTotals()

	o.AddDomainEvent(NewOrderCreatedEvent(o))

	return o, nil
}

// recomputeTotals derives Subtotal and Total from the line items:
// Total = Subtotal + Tax + ShippingCost - Discount.
func (o *Order) recomputeTotals() {
	subtotal := decimal.Zero
	for i := range o.Items {
		subtotal = subtotal.Add(o.Items[i].Subtotal)
	}
	o.Subtotal = subtotal
	o.Total = subtotal.Add(o.Tax).Add(o.ShippingCost).Sub(o.Discount)
}

// TotalMoney returns the grand total as Money
func (o *Order) TotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(o.Total)
}

// IsPaid reports whether payment has been captured
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusPaid
}

// SetPaymentIntent records the gateway intent ID on the order. A
// previously failed payment goes back to pending so the retried intent
// can succeed through the normal transition. The version bumps once per
// call regardless, matching the one-transition-per-save locking scheme.
func (o *Order) SetPaymentIntent(intentID string) {
	o.PaymentIntentID = &intentID
	if o.PaymentStatus == PaymentStatusFailed {
		o.PaymentStatus = PaymentStatusPending
	}
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// MarkPaid records a successful payment. It is idempotent: a paid order
// stays paid and the call reports no change. The fulfillment status moves
// pending -> processing only; later stages are never rewound.
func (o *Order) MarkPaid() (bool, error) {
	if o.PaymentStatus == PaymentStatusPaid {
		return false, nil
	}
	if !o.PaymentStatus.CanTransitionTo(PaymentStatusPaid) {
		return false, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot mark order paid from payment status %s", o.PaymentStatus))
	}

	o.PaymentStatus = PaymentStatusPaid
	if o.Status == OrderStatusPending {
		o.Status = OrderStatusProcessing
	}
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderPaidEvent(o))

	return true, nil
}

// MarkPaymentFailed records a failed payment attempt. The failure only
// applies while payment is still pending; in particular it never
// overwrites a captured payment. Reports whether the order changed.
func (o *Order) MarkPaymentFailed() bool {
	if o.PaymentStatus != PaymentStatusPending {
		return false
	}

	o.PaymentStatus = PaymentStatusFailed
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderPaymentFailedEvent(o))

	return true
}

// UpdateStatus moves the order through the fulfillment state machine
func (o *Order) UpdateStatus(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown order status %q", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot transition order from %s to %s", o.Status, target))
	}

	oldStatus := o.Status
	o.Status = target
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, oldStatus))

	return nil
}

// UpdatePaymentStatus moves the payment state machine directly. Marking
// paid this way keeps the pending -> processing coupling.
func (o *Order) UpdatePaymentStatus(target PaymentStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown payment status %q", target))
	}
	if target == o.PaymentStatus {
		return nil
	}
	if !o.PaymentStatus.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot transition payment status from %s to %s", o.PaymentStatus, target))
	}

	if target == PaymentStatusPaid {
		_, err := o.MarkPaid()
		return err
	}

	o.PaymentStatus = target
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// CanRestock reports whether cancelling this order should return its
// tracked stock: only unpaid, not-yet-shipped orders qualify.
func (o *Order) CanRestock() bool {
	return !o.IsPaid() &&
		(o.Status == OrderStatusPending || o.Status == OrderStatusProcessing)
}
