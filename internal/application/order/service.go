package order

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/catalog"
	"github.com/retail/backend/internal/domain/order"
	"github.com/retail/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// lockRetries bounds reload attempts when a concurrent writer bumps the
// order version between our read and our guarded write.
const lockRetries = 3

// Service handles order queries and externally driven status updates
type Service struct {
	orderRepo   order.OrderRepository
	productRepo catalog.ProductRepository
	events      shared.EventPublisher
	logger      *zap.Logger
}

// NewService creates a new order Service. The event publisher may be nil.
func NewService(orderRepo order.OrderRepository, productRepo catalog.ProductRepository, events shared.EventPublisher, logger *zap.Logger) *Service {
	return &Service{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		events:      events,
		logger:      logger,
	}
}

// List returns a user's orders, newest first
func (s *Service) List(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]OrderListItemResponse, error) {
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
		filter.Desc = true
	}

	orders, err := s.orderRepo.FindByUserID(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]OrderListItemResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderListItemResponse(&orders[i])
	}
	return responses, nil
}

// Get returns a single order. When ownerID is non-nil the order must
// belong to that user; a mismatch reads as not found.
func (s *Service) Get(ctx context.Context, orderID uuid.UUID, ownerID *uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ownerID != nil && o.UserID != *ownerID {
		return nil, shared.ErrNotFound
	}

	resp := ToOrderResponse(o)
	return &resp, nil
}

// UpdateStatus applies an externally driven fulfillment transition.
// Cancelling an unpaid, not-yet-shipped order returns its tracked stock.
// The write is version-guarded; losing the race to a concurrent writer
// (a webhook capture, another admin) reloads the order and re-validates
// the transition against the current state.
func (s *Service) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	target := order.OrderStatus(req.Status)

	for attempt := 1; ; attempt++ {
		o, err := s.orderRepo.FindByID(ctx, orderID)
		if err != nil {
			return nil, err
		}

		restock := target == order.OrderStatusCancelled && o.CanRestock()

		if err := o.UpdateStatus(target); err != nil {
			return nil, err
		}

		err = s.orderRepo.SaveWithLock(ctx, o)
		if errors.Is(err, shared.ErrOptimisticLock) && attempt < lockRetries {
			s.logger.Warn("concurrent order update, reloading",
				zap.String("order_number", o.OrderNumber),
				zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, err
		}

		if restock {
			s.restoreStock(ctx, o)
		}
		shared.PublishEvents(ctx, s.events, o)

		resp := ToOrderResponse(o)
		return &resp, nil
	}
}

// UpdatePaymentStatus applies an externally driven payment transition with
// the same state machine guards and locking as webhook reconciliation
func (s *Service) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, req UpdatePaymentStatusRequest) (*OrderResponse, error) {
	target := order.PaymentStatus(req.PaymentStatus)

	for attempt := 1; ; attempt++ {
		o, err := s.orderRepo.FindByID(ctx, orderID)
		if err != nil {
			return nil, err
		}

		before := o.Version
		if err := o.UpdatePaymentStatus(target); err != nil {
			return nil, err
		}
		if o.Version == before {
			// Already in the target state; nothing to write.
			resp := ToOrderResponse(o)
			return &resp, nil
		}

		err = s.orderRepo.SaveWithLock(ctx, o)
		if errors.Is(err, shared.ErrOptimisticLock) && attempt < lockRetries {
			s.logger.Warn("concurrent order update, reloading",
				zap.String("order_number", o.OrderNumber),
				zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, err
		}

		shared.PublishEvents(ctx, s.events, o)

		resp := ToOrderResponse(o)
		return &resp, nil
	}
}

// restoreStock returns each cancelled line's quantity to the catalog.
// Failures are logged and skipped; the cancellation itself stands.
func (s *Service) restoreStock(ctx context.Context, o *order.Order) {
	for i := range o.Items {
		item := &o.Items[i]
		if err := s.productRepo.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.logger.Error("failed to restore stock for cancelled order",
				zap.String("order_number", o.OrderNumber),
				zap.String("product_id", item.ProductID.String()),
				zap.Int("quantity", item.Quantity),
				zap.Error(err))
		}
	}
}
