package payment

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/order"
	"github.com/retail/backend/internal/domain/payment"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/retail/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// IntentService opens gateway payment intents for orders
type IntentService struct {
	orderRepo order.OrderRepository
	gateway   payment.Gateway
	logger    *zap.Logger
}

// NewIntentService creates a new IntentService
func NewIntentService(orderRepo order.OrderRepository, gateway payment.Gateway, logger *zap.Logger) *IntentService {
	return &IntentService{
		orderRepo: orderRepo,
		gateway:   gateway,
		logger:    logger,
	}
}

// CreateIntent opens a payment intent for the order's grand total and
// stores the intent ID on the order. A paid order cannot get a new intent.
// Calling it again for an unpaid order supersedes the previous intent.
func (s *IntentService) CreateIntent(ctx context.Context, orderID uuid.UUID) (*IntentResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.IsPaid() {
		return nil, shared.NewDomainError("ALREADY_PAID", "Order has already been paid")
	}

	out, err := s.gateway.CreateIntent(ctx, payment.CreateIntentInput{
		AmountMinor: o.TotalMoney().MinorUnits(),
		Currency:    strings.ToLower(string(valueobject.DefaultCurrency)),
		Metadata: map[string]string{
			"order_id":     o.ID.String(),
			"order_number": o.OrderNumber,
		},
	})
	if err != nil {
		s.logger.Error("payment gateway intent creation failed",
			zap.String("order_number", o.OrderNumber),
			zap.Error(err))
		return nil, shared.ErrExternalService
	}

	// The intent already exists at the gateway; only the local write is
	// retried when a concurrent update bumps the order version.
	for attempt := 1; ; attempt++ {
		o.SetPaymentIntent(out.IntentID)
		err = s.orderRepo.SaveWithLock(ctx, o)
		if errors.Is(err, shared.ErrOptimisticLock) && attempt < lockRetries {
			o, err = s.orderRepo.FindByID(ctx, orderID)
			if err != nil {
				return nil, err
			}
			if o.IsPaid() {
				// The webhook won the race; the fresh intent is left
				// unused at the gateway.
				return nil, shared.NewDomainError("ALREADY_PAID", "Order has already been paid")
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		break
	}

	s.logger.Info("payment intent created",
		zap.String("order_number", o.OrderNumber),
		zap.String("intent_id", out.IntentID),
		zap.Int64("amount_minor", o.TotalMoney().MinorUnits()))

	return &IntentResponse{
		IntentID:     out.IntentID,
		ClientSecret: out.ClientSecret,
	}, nil
}
