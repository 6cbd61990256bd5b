package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/cart"
	"github.com/retail/backend/internal/domain/catalog"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Service handles cart business operations
type Service struct {
	cartRepo    cart.CartRepository
	productRepo catalog.ProductRepository
	events      shared.EventPublisher
	taxRate     decimal.Decimal
}

// NewService creates a new cart Service. The event publisher may be nil.
func NewService(cartRepo cart.CartRepository, productRepo catalog.ProductRepository, events shared.EventPublisher, taxRate decimal.Decimal) *Service {
	return &Service{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		events:      events,
		taxRate:     taxRate,
	}
}

// Get returns the user's cart, creating it on first access
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	c, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.RecalculateTotals(s.taxRate)
	resp := ToCartResponse(c)
	return &resp, nil
}

// AddItem adds a product to the cart or merges into an existing line.
// Merging refreshes the line's price snapshot to the current price.
func (s *Service) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, shared.NewDomainError("INVALID_STATE", "Product is not available")
	}

	c, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Stock must cover the merged line quantity, not just the delta
	resulting := req.Quantity
	if existing := c.FindItemByProduct(req.ProductID); existing != nil {
		resulting += existing.Quantity
	}
	if !product.HasStockFor(resulting) {
		return nil, shared.ErrInsufficientStock
	}

	item, err := c.AddItem(req.ProductID, req.Quantity, product.PriceMoney())
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.SaveItem(ctx, item); err != nil {
		return nil, err
	}

	return s.saveTotals(ctx, c)
}

// UpdateItem sets the quantity of an existing line
func (s *Service) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req UpdateItemRequest) (*CartResponse, error) {
	c, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	line := c.FindItem(itemID)
	if line == nil {
		return nil, shared.ErrNotFound
	}

	product, err := s.productRepo.FindByID(ctx, line.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.HasStockFor(req.Quantity) {
		return nil, shared.ErrInsufficientStock
	}

	item, err := c.UpdateItemQuantity(itemID, req.Quantity)
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.SaveItem(ctx, item); err != nil {
		return nil, err
	}

	return s.saveTotals(ctx, c)
}

// RemoveItem removes a line from the cart
func (s *Service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartResponse, error) {
	c, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := c.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.cartRepo.DeleteItem(ctx, itemID); err != nil {
		return nil, err
	}

	return s.saveTotals(ctx, c)
}

// Clear drops all lines from the user's cart
func (s *Service) Clear(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	c, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.Clear()

	if err := s.cartRepo.ClearItems(ctx, c.ID); err != nil {
		return nil, err
	}

	return s.saveTotals(ctx, c)
}

// saveTotals recomputes the totals projection, persists the header, and
// drains any events the mutation raised on the aggregate
func (s *Service) saveTotals(ctx context.Context, c *cart.Cart) (*CartResponse, error) {
	c.RecalculateTotals(s.taxRate)
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	shared.PublishEvents(ctx, s.events, c)

	resp := ToCartResponse(c)
	return &resp, nil
}
