package event

import (
	"context"

	"github.com/retail/backend/internal/domain/order"
	"github.com/retail/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderAuditHandler writes an audit log line for every order lifecycle
// event, giving operators a single stream to trace an order's history.
type OrderAuditHandler struct {
	logger *zap.Logger
}

// NewOrderAuditHandler creates a new OrderAuditHandler
func NewOrderAuditHandler(logger *zap.Logger) *OrderAuditHandler {
	return &OrderAuditHandler{logger: logger}
}

// EventTypes lists the order lifecycle events this handler audits
func (h *OrderAuditHandler) EventTypes() []string {
	return []string{
		order.EventTypeOrderCreated,
		order.EventTypeOrderPaid,
		order.EventTypeOrderPaymentFailed,
		order.EventTypeOrderStatusChanged,
	}
}

// Handle logs the event with its aggregate identity and type-specific
// detail fields
func (h *OrderAuditHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_id", evt.EventID().String()),
		zap.String("order_id", evt.AggregateID().String()),
	}

	switch e := evt.(type) {
	case *order.OrderCreatedEvent:
		fields = append(fields,
			zap.String("order_number", e.OrderNumber),
			zap.Int("item_count", e.ItemCount),
			zap.String("total", e.Total.String()),
		)
	case *order.OrderPaidEvent:
		fields = append(fields,
			zap.String("order_number", e.OrderNumber),
			zap.String("total", e.Total.String()),
		)
	case *order.OrderPaymentFailedEvent:
		fields = append(fields, zap.String("order_number", e.OrderNumber))
	case *order.OrderStatusChangedEvent:
		fields = append(fields,
			zap.String("order_number", e.OrderNumber),
			zap.String("old_status", string(e.OldStatus)),
			zap.String("new_status", string(e.NewStatus)),
		)
	}

	h.logger.Info("order audit: "+evt.EventType(), fields...)
	return nil
}

var _ shared.EventHandler = (*OrderAuditHandler)(nil)
