package checkout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/cart"
	"github.com/retail/backend/internal/domain/catalog"
	"github.com/retail/backend/internal/domain/order"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/retail/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockCartRepository is a mock implementation of cart.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCartRepository) SaveItem(ctx context.Context, item *cart.CartItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

func (m *MockCartRepository) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindActive(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error) {
	args := m.Called(ctx, id, quantity)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) IncrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

// MockStore is a mock implementation of the checkout Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) PlaceOrder(ctx context.Context, o *order.Order, cartID uuid.UUID) error {
	args := m.Called(ctx, o, cartID)
	return args.Error(0)
}

// recordingPublisher captures published domain events for assertions.
type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

var (
	taxRate     = decimal.NewFromFloat(0.10)
	shippingFee = decimal.NewFromFloat(10.00)
)

func testAddress(t *testing.T) valueobject.Address {
	t.Helper()
	return valueobject.MustNewAddress("Jane", "Doe", "42 Market St", "Springfield", "IL", "62704", "US")
}

type fixture struct {
	cartRepo    *MockCartRepository
	productRepo *MockProductRepository
	store       *MockStore
	svc         *Service
}

func newFixture() *fixture {
	f := &fixture{
		cartRepo:    new(MockCartRepository),
		productRepo: new(MockProductRepository),
		store:       new(MockStore),
	}
	f.svc = NewService(f.cartRepo, f.productRepo, f.store, nil, zap.NewNop(), taxRate, shippingFee, 3)
	return f
}

func newTestProduct(t *testing.T, name, sku string, price float64, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(name, sku, valueobject.NewMoneyUSDFromFloat(price))
	require.NoError(t, err)
	p.StockQuantity = stock
	return p
}

func cartWith(t *testing.T, userID uuid.UUID, lines ...struct {
	product *catalog.Product
	qty     int
}) *cart.Cart {
	t.Helper()
	c, err := cart.NewCart(userID)
	require.NoError(t, err)
	for _, l := range lines {
		_, err := c.AddItem(l.product.ID, l.qty, l.product.PriceMoney())
		require.NoError(t, err)
	}
	return c
}

func TestCheckout(t *testing.T) {
	type line = struct {
		product *catalog.Product
		qty     int
	}

	t.Run("places order with correct totals", func(t *testing.T) {
		f := newFixture()
		userID := uuid.New()

		widget := newTestProduct(t, "Widget", "WGT-001", 10.00, 5)
		gadget := newTestProduct(t, "Gadget", "GDG-001", 5.00, 5)
		c := cartWith(t, userID, line{widget, 2}, line{gadget, 1})

		f.cartRepo.On("FindByUserID", mock.Anything, userID).Return(c, nil)
		f.productRepo.On("FindByIDs", mock.Anything, mock.Anything).
			Return([]catalog.Product{*widget, *gadget}, nil)
		f.store.On("PlaceOrder", mock.Anything, mock.AnythingOfType("*order.Order"), c.ID).Return(nil)

		resp, err := f.svc.Checkout(context.Background(), userID, CheckoutRequest{ShippingAddress: testAddress(t)})
		require.NoError(t, err)

		// 2 x 10.00 + 1 x 5.00 = 25.00, 10% tax 2.50, shipping 10.00 => 37.50
		assert.True(t, resp.Subtotal.Equal(decimal.NewFromFloat(25.00)), "subtotal %s", resp.Subtotal)
		assert.True(t, resp.Tax.Equal(decimal.NewFromFloat(2.50)), "tax %s", resp.Tax)
		assert.True(t, resp.Total.Equal(decimal.NewFromFloat(37.50)), "total %s", resp.Total)
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, "pending", resp.PaymentStatus)
		require.Len(t, resp.Items, 2)
		assert.Equal(t, "Widget", resp.Items[0].ProductName)
		assert.Equal(t, "WGT-001", resp.Items[0].ProductSKU)
	})

	t.Run("billing address defaults to shipping", func(t *testing.T) {
		f := newFixture()
		userID := uuid.New()
		widget := newTestProduct(t, "Widget", "WGT-001", 10.00, 5)
		c := cartWith(t, userID, line{widget, 1})

		f.cartRepo.On("FindByUserID", mock.Anything, userID).Return(c, nil)
		f.productRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*widget}, nil)
		f.store.On("PlaceOrder", mock.Anything, mock.Anything, c.ID).Return(nil)

		addr := testAddress(t)
		resp, err := f.svc.Checkout(context.Background(), userID, CheckoutRequest{ShippingAddress: addr})
		require.NoError(t, err)
		assert.True(t, resp.BillingAddress.Equals(addr))
	})

	t.Run("publishes the order created event after placement", func(t *testing.T) {
		f := newFixture()
		pub := &recordingPublisher{}
		f.svc = NewService(f.cartRepo, f.productRepo, f.store, pub, zap.NewNop(), taxRate, shippingFee, 3)

		userID := uuid.New()
		widget := newTestProduct(t, "Widget", "WGT-001", 10.00, 5)
		c := cartWith(t, userID, line{widget, 1})

		f.cartRepo.On("FindByUserID", mock.Anything, userID).Return(c, nil)
		f.productRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*widget}, nil)
		f.store.On("PlaceOrder", mock.Anything, mock.Anything, c.ID).Return(nil)

		_, err := f.svc.Checkout(context.Background(), userID, CheckoutRequest{ShippingAddress: testAddress(t)})
		require.NoError(t, err)

		require.Len(t, pub.events, 1)
		assert.Equal(t, order.EventTypeOrderCreated, pub.events[0].EventType())
	})

	t.Run("empty cart has no side effects", func(t *testing.T) {
		f := newFixture()
		userID := uuid.New()
		c, err := cart.NewCart(userID)
		require.NoError(t, err)

		f.cartRepo.On("FindByUserID", mock.Anything, userID).Return(c, nil)

		_, err = f.svc.Checkout(context.Background(), userID, CheckoutRequest{ShippingAddress: testAddress(t)})
		assert.ErrorIs(t, err, shared.ErrEmptyCart)
		f.store.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing cart reads as empty cart", func(t *testing.T) {
		f := newFixture()
		userID := uuid.New()
		f.cartRepo.On("FindByUserID", mock.Anything, userID).Return(nil, shared.ErrNotFound)

		_, err := f.svc.Checkout(context.Background(), userID, CheckoutRequest{ShippingAddress: testAddress(t)})
		assert.ErrorIs(t, err, shared.ErrEmptyCart)
	})

	t.Run("vanished product aborts", func(t *testing.T) {
		f := newFixture()
		userID := uuid.New()
		widget := newTestProduct(t, "Widget", "WGT-001", 10.00, 5)
		c := cartWith(t, userID, line{widget, 1})

		f.cartRepo.On("FindByUserID", mock.Anything, userID).Return(c, nil)
		f.productRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{}, nil)

		_, err := f.svc.Checkout(context.Background(), userID, CheckoutRequest{ShippingAddress: testAddress(t)})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.store.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("insufficient stock fails fast", func(t *testing.T) {
		f := newFixture()
		userID := uuid.New()
		widget := newTestProduct(t, "Widget", "WGT-001", 10.00, 1)
		c := cartWith(t, userID, line{widget, 2})

		f.cartRepo.On("FindByUserID", mock.Anything, userID).Return(c, nil)
		f.productRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*widget}, nil)

		_, err := f.svc.Checkout(context.Background(), userID, CheckoutRequest{ShippingAddress: testAddress(t)})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("commit-time oversell surfaces from the store", func(t *testing.T) {
		f := newFixture()
		userID := uuid.New()
		widget := newTestProduct(t, "Widget", "WGT-001", 10.00, 5)
		c := cartWith(t, userID, line{widget, 2})

		f.cartRepo.On("FindByUserID", mock.Anything, userID).Return(c, nil)
		f.productRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*widget}, nil)
		f.store.On("PlaceOrder", mock.Anything, mock.Anything, c.ID).Return(shared.ErrInsufficientStock)

		_, err := f.svc.Checkout(context.Background(), userID, CheckoutRequest{ShippingAddress: testAddress(t)})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("order number collision retries with a fresh number", func(t *testing.T) {
		f := newFixture()
		userID := uuid.New()
		widget := newTestProduct(t, "Widget", "WGT-001", 10.00, 5)
		c := cartWith(t, userID, line{widget, 1})

		f.cartRepo.On("FindByUserID", mock.Anything, userID).Return(c, nil)
		f.productRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*widget}, nil)

		var numbers []string
		f.store.On("PlaceOrder", mock.Anything, mock.AnythingOfType("*order.Order"), c.ID).
			Run(func(args mock.Arguments) {
				numbers = append(numbers, args.Get(1).(*order.Order).OrderNumber)
			}).
			Return(shared.ErrAlreadyExists).Twice()
		f.store.On("PlaceOrder", mock.Anything, mock.AnythingOfType("*order.Order"), c.ID).
			Return(nil).Once()

		_, err := f.svc.Checkout(context.Background(), userID, CheckoutRequest{ShippingAddress: testAddress(t)})
		require.NoError(t, err)
		require.Len(t, numbers, 2)
		assert.NotEqual(t, numbers[0], numbers[1])
	})

	t.Run("collision retries are bounded", func(t *testing.T) {
		f := newFixture()
		userID := uuid.New()
		widget := newTestProduct(t, "Widget", "WGT-001", 10.00, 5)
		c := cartWith(t, userID, line{widget, 1})

		f.cartRepo.On("FindByUserID", mock.Anything, userID).Return(c, nil)
		f.productRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*widget}, nil)
		f.store.On("PlaceOrder", mock.Anything, mock.Anything, c.ID).Return(shared.ErrAlreadyExists)

		_, err := f.svc.Checkout(context.Background(), userID, CheckoutRequest{ShippingAddress: testAddress(t)})
		require.Error(t, err)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "CONFLICT", derr.Code)
		f.store.AssertNumberOfCalls(t, "PlaceOrder", 3)
	})

	t.Run("order items use the cart price snapshot", func(t *testing.T) {
		f := newFixture()
		userID := uuid.New()
		widget := newTestProduct(t, "Widget", "WGT-001", 12.00, 5)
		c, err := cart.NewCart(userID)
		require.NoError(t, err)
		// Snapshot taken before the price changed to 12.00
		_, err = c.AddItem(widget.ID, 1, valueobject.NewMoneyUSDFromFloat(10.00))
		require.NoError(t, err)

		f.cartRepo.On("FindByUserID", mock.Anything, userID).Return(c, nil)
		f.productRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*widget}, nil)
		f.store.On("PlaceOrder", mock.Anything, mock.Anything, c.ID).Return(nil)

		resp, err := f.svc.Checkout(context.Background(), userID, CheckoutRequest{ShippingAddress: testAddress(t)})
		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		assert.True(t, resp.Items[0].Price.Equal(decimal.NewFromFloat(10.00)))
	})
}
