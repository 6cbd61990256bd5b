package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/order"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// testEvent implements DomainEvent for testing
type testEvent struct {
	shared.BaseDomainEvent
}

func newBusTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New()),
	}
}

// testHandler records the events it receives
type testHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panics     bool
}

func newBusTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler blew up")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) handledCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBusPublish(t *testing.T) {
	t.Run("delivers to subscribed handlers only", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		paidHandler := newBusTestHandler(order.EventTypeOrderPaid)
		createdHandler := newBusTestHandler(order.EventTypeOrderCreated)
		bus.Subscribe(paidHandler)
		bus.Subscribe(createdHandler)

		require.NoError(t, bus.Publish(context.Background(), newBusTestEvent(order.EventTypeOrderPaid)))

		assert.Equal(t, 1, paidHandler.handledCount())
		assert.Equal(t, 0, createdHandler.handledCount())
	})

	t.Run("wildcard handlers receive every event", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		all := newBusTestHandler()
		bus.Subscribe(all)

		require.NoError(t, bus.Publish(context.Background(),
			newBusTestEvent(order.EventTypeOrderPaid),
			newBusTestEvent(order.EventTypeOrderCreated),
		))

		assert.Equal(t, 2, all.handledCount())
	})

	t.Run("handler errors are logged, not propagated", func(t *testing.T) {
		core, logs := observer.New(zapcore.ErrorLevel)
		bus := NewInMemoryEventBus(zap.New(core))
		failing := newBusTestHandler(order.EventTypeOrderPaid)
		failing.err = errors.New("consumer offline")
		bus.Subscribe(failing)

		require.NoError(t, bus.Publish(context.Background(), newBusTestEvent(order.EventTypeOrderPaid)))

		assert.Equal(t, 1, logs.FilterMessage("event handler failed").Len())
	})

	t.Run("a panicking handler does not stop delivery", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		panicking := newBusTestHandler(order.EventTypeOrderPaid)
		panicking.panics = true
		healthy := newBusTestHandler(order.EventTypeOrderPaid)
		bus.Subscribe(panicking)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(context.Background(), newBusTestEvent(order.EventTypeOrderPaid)))

		assert.Equal(t, 1, healthy.handledCount())
	})
}
