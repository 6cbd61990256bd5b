package payment

import (
	"context"
	"errors"

	"github.com/retail/backend/internal/domain/order"
	"github.com/retail/backend/internal/domain/payment"
	"github.com/retail/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// lockRetries bounds reload attempts when a concurrent writer bumps the
// order version between our read and our guarded write.
const lockRetries = 3

// WebhookService reconciles gateway webhook events with order state.
// Processing is idempotent at two levels: the event-ID store suppresses
// replays, and the state transitions themselves are no-ops when already
// applied, so at-least-once delivery is safe even across store TTL expiry.
// Writes go through a version-guarded update; losing the race to another
// writer triggers a reload, and the fresh aggregate decides again whether
// the transition still applies.
type WebhookService struct {
	orderRepo   order.OrderRepository
	gateway     payment.Gateway
	idempotency shared.IdempotencyStore
	idemConfig  shared.IdempotencyConfig
	events      shared.EventPublisher
	logger      *zap.Logger
}

// NewWebhookService creates a new WebhookService. The idempotency store
// and the event publisher may be nil; without a store only
// transition-level idempotency applies.
func NewWebhookService(
	orderRepo order.OrderRepository,
	gateway payment.Gateway,
	idempotency shared.IdempotencyStore,
	idemConfig shared.IdempotencyConfig,
	events shared.EventPublisher,
	logger *zap.Logger,
) *WebhookService {
	return &WebhookService{
		orderRepo:   orderRepo,
		gateway:     gateway,
		idempotency: idempotency,
		idemConfig:  idemConfig,
		events:      events,
		logger:      logger,
	}
}

// HandleEvent verifies and applies one webhook delivery. A signature
// failure is the only error that should surface to the provider as a
// client error; everything else acks so the provider stops retrying.
func (s *WebhookService) HandleEvent(ctx context.Context, payload []byte, signature string) error {
	evt, err := s.gateway.VerifyEvent(payload, signature)
	if err != nil {
		s.logger.Warn("webhook signature verification failed", zap.Error(err))
		return shared.ErrAuthentication
	}

	if s.idempotency != nil && s.idemConfig.Enabled {
		fresh, err := s.idempotency.MarkProcessed(ctx, evt.ID, s.idemConfig.TTL)
		if err != nil {
			// The store being down must not drop payments; transitions
			// are idempotent on their own.
			s.logger.Warn("idempotency store unavailable, processing anyway",
				zap.String("event_id", evt.ID), zap.Error(err))
		} else if !fresh {
			s.logger.Info("duplicate webhook event acknowledged",
				zap.String("event_id", evt.ID),
				zap.String("event_type", evt.RawType))
			return nil
		}
	}

	switch evt.Kind {
	case payment.EventPaymentSucceeded:
		return s.applySucceeded(ctx, evt)
	case payment.EventPaymentFailed:
		return s.applyFailed(ctx, evt)
	default:
		s.logger.Debug("ignoring webhook event",
			zap.String("event_id", evt.ID),
			zap.String("event_type", evt.RawType))
		return nil
	}
}

func (s *WebhookService) applySucceeded(ctx context.Context, evt *payment.Event) error {
	for attempt := 1; ; attempt++ {
		o, err := s.orderRepo.FindByPaymentIntentID(ctx, evt.IntentID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				s.logger.Warn("payment succeeded for unknown intent",
					zap.String("event_id", evt.ID),
					zap.String("intent_id", evt.IntentID))
				return nil
			}
			return err
		}

		changed, err := o.MarkPaid()
		if err != nil {
			s.logger.Error("cannot apply successful payment",
				zap.String("order_number", o.OrderNumber),
				zap.String("intent_id", evt.IntentID),
				zap.Error(err))
			return nil
		}
		if !changed {
			s.logger.Info("payment already recorded",
				zap.String("order_number", o.OrderNumber),
				zap.String("intent_id", evt.IntentID))
			return nil
		}

		err = s.orderRepo.SaveWithLock(ctx, o)
		if errors.Is(err, shared.ErrOptimisticLock) && attempt < lockRetries {
			s.logger.Warn("concurrent order update, reloading",
				zap.String("order_number", o.OrderNumber),
				zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return err
		}

		shared.PublishEvents(ctx, s.events, o)
		s.logger.Info("order marked paid",
			zap.String("order_number", o.OrderNumber),
			zap.String("intent_id", evt.IntentID))
		return nil
	}
}

func (s *WebhookService) applyFailed(ctx context.Context, evt *payment.Event) error {
	for attempt := 1; ; attempt++ {
		o, err := s.orderRepo.FindByPaymentIntentID(ctx, evt.IntentID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				s.logger.Warn("payment failed for unknown intent",
					zap.String("event_id", evt.ID),
					zap.String("intent_id", evt.IntentID))
				return nil
			}
			return err
		}

		if !o.MarkPaymentFailed() {
			// Late failure after a capture, or a repeat delivery; never a
			// regression.
			s.logger.Info("payment failure ignored",
				zap.String("order_number", o.OrderNumber),
				zap.String("payment_status", string(o.PaymentStatus)),
				zap.String("intent_id", evt.IntentID))
			return nil
		}

		err = s.orderRepo.SaveWithLock(ctx, o)
		if errors.Is(err, shared.ErrOptimisticLock) && attempt < lockRetries {
			// A concurrent capture may have landed; the reload decides
			// from the current payment status.
			s.logger.Warn("concurrent order update, reloading",
				zap.String("order_number", o.OrderNumber),
				zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return err
		}

		shared.PublishEvents(ctx, s.events, o)
		s.logger.Info("order payment marked failed",
			zap.String("order_number", o.OrderNumber),
			zap.String("intent_id", evt.IntentID))
		return nil
	}
}
