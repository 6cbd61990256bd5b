package checkout

import (
	"context"
	"errors"

	"github.com/google/uuid"
	orderapp "github.com/retail/backend/internal/application/order"
	"github.com/retail/backend/internal/domain/cart"
	"github.com/retail/backend/internal/domain/catalog"
	"github.com/retail/backend/internal/domain/order"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/retail/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Store runs the atomic checkout write. Implementations must insert the
// order and its items, conditionally decrement tracked stock per line, and
// clear the cart inside one transaction; any failure rolls back all of it.
// An order-number collision surfaces as shared.ErrAlreadyExists, an
// oversell as shared.ErrInsufficientStock.
type Store interface {
	PlaceOrder(ctx context.Context, o *order.Order, cartID uuid.UUID) error
}

// Service converts carts into orders
type Service struct {
	cartRepo    cart.CartRepository
	productRepo catalog.ProductRepository
	store       Store
	events      shared.EventPublisher
	logger      *zap.Logger
	taxRate     decimal.Decimal
	shippingFee decimal.Decimal
	maxAttempts int
}

// NewService creates a new checkout Service. maxAttempts bounds the
// order-number collision retries; the event publisher may be nil.
func NewService(
	cartRepo cart.CartRepository,
	productRepo catalog.ProductRepository,
	store Store,
	events shared.EventPublisher,
	logger *zap.Logger,
	taxRate, shippingFee decimal.Decimal,
	maxAttempts int,
) *Service {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &Service{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		store:       store,
		events:      events,
		logger:      logger,
		taxRate:     taxRate,
		shippingFee: shippingFee,
		maxAttempts: maxAttempts,
	}
}

// Checkout atomically converts the user's cart into a pending order.
// The cart is untouched on any failure.
func (s *Service) Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*orderapp.OrderResponse, error) {
	c, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrEmptyCart
		}
		return nil, err
	}
	if c.IsEmpty() {
		return nil, shared.ErrEmptyCart
	}

	items, err := s.buildItems(ctx, c)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	for i := range items {
		subtotal = subtotal.Add(items[i].Subtotal)
	}
	tax := subtotal.Mul(s.taxRate).Round(2)

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		o, err := order.NewOrder(
			order.GenerateOrderNumber(),
			userID,
			items,
			tax,
			s.shippingFee,
			c.Discount,
			req.ShippingAddress,
			req.BillingAddress,
			req.Notes,
		)
		if err != nil {
			return nil, err
		}

		err = s.store.PlaceOrder(ctx, o, c.ID)
		if errors.Is(err, shared.ErrAlreadyExists) {
			s.logger.Warn("order number collision, retrying",
				zap.String("order_number", o.OrderNumber),
				zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, err
		}

		shared.PublishEvents(ctx, s.events, o)
		s.logger.Info("order placed",
			zap.String("order_number", o.OrderNumber),
			zap.String("user_id", userID.String()),
			zap.String("total", o.Total.String()))

		resp := orderapp.ToOrderResponse(o)
		return &resp, nil
	}

	return nil, shared.NewDomainError("CONFLICT", "Failed to allocate a unique order number")
}

// buildItems freezes product name, SKU, and the cart's price snapshot into
// order line items. Stock is pre-checked here for a fast failure; the
// authoritative guard is the conditional decrement inside the transaction.
func (s *Service) buildItems(ctx context.Context, c *cart.Cart) ([]order.OrderItem, error) {
	ids := make([]uuid.UUID, len(c.Items))
	for i := range c.Items {
		ids[i] = c.Items[i].ProductID
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	items := make([]order.OrderItem, 0, len(c.Items))
	for i := range c.Items {
		line := &c.Items[i]

		product, ok := byID[line.ProductID]
		if !ok {
			return nil, shared.ErrNotFound
		}
		if !product.IsActive {
			return nil, shared.NewDomainError("INVALID_STATE", "Product is not available")
		}
		if !product.HasStockFor(line.Quantity) {
			return nil, shared.ErrInsufficientStock
		}

		item, err := order.NewOrderItem(product.ID, product.Name, product.SKU,
			valueobject.NewMoneyUSD(line.Price), line.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}
