package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	paymentapp "github.com/retail/backend/internal/application/payment"
	"github.com/retail/backend/internal/domain/order"
	"github.com/retail/backend/internal/domain/payment"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/retail/backend/internal/domain/shared/valueobject"
	"github.com/retail/backend/internal/infrastructure/cache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockOrderRepository is a mock implementation of order.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByPaymentIntentID(ctx context.Context, intentID string) (*order.Order, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUserID(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

// MockGateway is a mock implementation of payment.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateIntent(ctx context.Context, input payment.CreateIntentInput) (*payment.CreateIntentOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CreateIntentOutput), args.Error(1)
}

func (m *MockGateway) VerifyEvent(payload []byte, signature string) (*payment.Event, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Event), args.Error(1)
}

func newWebhookTestServer(t *testing.T, orderRepo *MockOrderRepository, gateway *MockGateway) *gin.Engine {
	t.Helper()
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })

	svc := paymentapp.NewWebhookService(orderRepo, gateway, store, shared.IdempotencyConfig{
		TTL:     time.Hour,
		Enabled: true,
	}, nil, zap.NewNop())

	h := NewPaymentHandler(nil, svc)
	engine := gin.New()
	h.RegisterWebhookRoutes(engine.Group("/api/v1"))
	return engine
}

func postWebhook(engine *gin.Engine, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func newPaidableOrder(t *testing.T, intentID string) *order.Order {
	t.Helper()
	addr := valueobject.MustNewAddress("Jane", "Doe", "42 Market St", "Springfield", "IL", "62704", "US")
	item, err := order.NewOrderItem(uuid.New(), "Widget", "WGT-001", valueobject.NewMoneyUSDFromFloat(25.00), 1)
	require.NoError(t, err)

	o, err := order.NewOrder(order.GenerateOrderNumber(), uuid.New(), []order.OrderItem{item},
		decimal.NewFromFloat(2.50), decimal.NewFromFloat(10.00), decimal.Zero,
		addr, valueobject.EmptyAddress(), "")
	require.NoError(t, err)
	o.PaymentIntentID = &intentID
	o.ClearDomainEvents()
	return o
}

func TestHandleWebhook(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)

	t.Run("missing signature header", func(t *testing.T) {
		engine := newWebhookTestServer(t, new(MockOrderRepository), new(MockGateway))

		w := postWebhook(engine, payload, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad signature", func(t *testing.T) {
		gateway := new(MockGateway)
		gateway.On("VerifyEvent", payload, "t=1,v1=bad").Return(nil, shared.ErrAuthentication)
		engine := newWebhookTestServer(t, new(MockOrderRepository), gateway)

		w := postWebhook(engine, payload, "t=1,v1=bad")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp WebhookResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Received)
	})

	t.Run("successful payment event", func(t *testing.T) {
		o := newPaidableOrder(t, "pi_123")

		gateway := new(MockGateway)
		gateway.On("VerifyEvent", payload, "t=1,v1=good").Return(&payment.Event{
			ID:       "evt_1",
			Kind:     payment.EventPaymentSucceeded,
			IntentID: "pi_123",
			RawType:  "payment_intent.succeeded",
		}, nil)

		orderRepo := new(MockOrderRepository)
		orderRepo.On("FindByPaymentIntentID", mock.Anything, "pi_123").Return(o, nil)
		orderRepo.On("SaveWithLock", mock.Anything, o).Return(nil)

		engine := newWebhookTestServer(t, orderRepo, gateway)

		w := postWebhook(engine, payload, "t=1,v1=good")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, order.PaymentStatusPaid, o.PaymentStatus)
		var resp WebhookResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Received)
		orderRepo.AssertExpectations(t)
	})

	t.Run("duplicate delivery acks without reapplying", func(t *testing.T) {
		o := newPaidableOrder(t, "pi_456")

		gateway := new(MockGateway)
		gateway.On("VerifyEvent", payload, "t=1,v1=good").Return(&payment.Event{
			ID:       "evt_dup",
			Kind:     payment.EventPaymentSucceeded,
			IntentID: "pi_456",
			RawType:  "payment_intent.succeeded",
		}, nil)

		orderRepo := new(MockOrderRepository)
		orderRepo.On("FindByPaymentIntentID", mock.Anything, "pi_456").Return(o, nil).Once()
		orderRepo.On("SaveWithLock", mock.Anything, o).Return(nil).Once()

		engine := newWebhookTestServer(t, orderRepo, gateway)

		first := postWebhook(engine, payload, "t=1,v1=good")
		second := postWebhook(engine, payload, "t=1,v1=good")

		assert.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, http.StatusOK, second.Code)
		orderRepo.AssertExpectations(t)
	})

	t.Run("ignored event kind acks", func(t *testing.T) {
		gateway := new(MockGateway)
		gateway.On("VerifyEvent", payload, "t=1,v1=good").Return(&payment.Event{
			ID:      "evt_other",
			Kind:    payment.EventIgnored,
			RawType: "charge.refunded",
		}, nil)

		engine := newWebhookTestServer(t, new(MockOrderRepository), gateway)

		w := postWebhook(engine, payload, "t=1,v1=good")

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
