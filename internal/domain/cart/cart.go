package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/retail/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Cart holds a user's pending line items and the derived totals projection.
// One cart per user; it is emptied at checkout, never deleted.
type Cart struct {
	shared.BaseAggregateRoot
	UserID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Items    []CartItem      `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	Discount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Subtotal decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Tax      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Total    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// CartItem is a single product line in a cart. Price is a snapshot taken
// when the line is added and refreshed when quantity is merged.
type CartItem struct {
	shared.BaseEntity
	CartID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  int             `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// PriceMoney returns the line price snapshot as Money
func (i *CartItem) PriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(i.Price)
}

// LineTotal returns price x quantity for the line
func (i *CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NewCart creates an empty cart for a user
func NewCart(userID uuid.UUID) (*Cart, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "User ID cannot be empty")
	}

	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Discount:          decimal.Zero,
		Subtotal:          decimal.Zero,
		Tax:               decimal.Zero,
		Total:             decimal.Zero,
		Items:             []CartItem{},
	}, nil
}

// IsEmpty reports whether the cart has no line items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// FindItemByProduct returns the line for a product, or nil
func (c *Cart) FindItemByProduct(productID uuid.UUID) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// FindItem returns the line with the given ID, or nil
func (c *Cart) FindItem(itemID uuid.UUID) *CartItem {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i]
		}
	}
	return nil
}

// AddItem adds a product line or merges into an existing one. Merging
// refreshes the price snapshot to the current product price.
// Returns the affected line.
func (c *Cart) AddItem(productID uuid.UUID, quantity int, price valueobject.Money) (*CartItem, error) {
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	if existing := c.FindItemByProduct(productID); existing != nil {
		existing.Quantity += quantity
		existing.Price = price.Amount()
		existing.UpdatedAt = time.Now()
		c.touch()
		return existing, nil
	}

	item := CartItem{
		BaseEntity: shared.NewBaseEntity(),
		CartID:     c.ID,
		ProductID:  productID,
		Quantity:   quantity,
		Price:      price.Amount(),
	}
	c.Items = append(c.Items, item)
	c.touch()

	return &c.Items[len(c.Items)-1], nil
}

// UpdateItemQuantity sets the quantity of an existing line
func (c *Cart) UpdateItemQuantity(itemID uuid.UUID, quantity int) (*CartItem, error) {
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	item := c.FindItem(itemID)
	if item == nil {
		return nil, shared.ErrNotFound
	}

	item.Quantity = quantity
	item.UpdatedAt = time.Now()
	c.touch()

	return item, nil
}

// RemoveItem removes a line from the cart
func (c *Cart) RemoveItem(itemID uuid.UUID) error {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.touch()
			return nil
		}
	}
	return shared.ErrNotFound
}

// Clear drops all lines and zeroes the totals projection
func (c *Cart) Clear() {
	c.Items = nil
	c.Discount = decimal.Zero
	c.Subtotal = decimal.Zero
	c.Tax = decimal.Zero
	c.Total = decimal.Zero
	c.touch()

	c.AddDomainEvent(NewCartClearedEvent(c))
}

// RecalculateTotals recomputes the totals projection from the lines:
// subtotal = sum(price x qty), tax = subtotal x rate,
// total = subtotal + tax - discount.
func (c *Cart) RecalculateTotals(taxRate decimal.Decimal) {
	subtotal := decimal.Zero
	for i := range c.Items {
		subtotal = subtotal.Add(c.Items[i].LineTotal())
	}

	c.Subtotal = subtotal
	c.Tax = subtotal.Mul(taxRate).Round(2)
	c.Total = c.Subtotal.Add(c.Tax).Sub(c.Discount)
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
