package service

import (
	"context"
	"fmt"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// confirmationKeyTTL bounds how long processed event ids are remembered
const confirmationKeyTTL = 24 * time.Hour

// EventDeduper remembers processed event ids
type EventDeduper interface {
	ClaimIdempotencyKey(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// ConfirmationService sends (simulated) order confirmations
type ConfirmationService struct {
	deduper EventDeduper
	logger  *zap.Logger
}

// NewConfirmationService creates a confirmation service. deduper may be nil,
// in which case redelivered events are confirmed again.
func NewConfirmationService(deduper EventDeduper) *ConfirmationService {
	return &ConfirmationService{
		deduper: deduper,
		logger:  util.GetLogger(),
	}
}

// HandleOrderPlaced handles an OrderPlaced event
func (cs *ConfirmationService) HandleOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	ctx, span := util.StartSpan(ctx, "ConfirmationService.HandleOrderPlaced")
	defer span.End()

	if cs.deduper != nil {
		claimed, err := cs.deduper.ClaimIdempotencyKey(ctx, "confirmation:"+event.EventID, confirmationKeyTTL)
		if err != nil {
			util.OrderConfirmationsTotal.WithLabelValues("error").Inc()
			return fmt.Errorf("failed to check event processed: %w", err)
		}
		if !claimed {
			util.OrderConfirmationsTotal.WithLabelValues("duplicate").Inc()
			cs.logger.Info("Event already processed", zap.String("event_id", event.EventID))
			return nil
		}
	}

	cs.logger.Info("Sending order confirmation",
		zap.String("order_id", event.OrderID),
		zap.String("session_id", event.SessionID),
		zap.Int("item_count", event.ItemCount),
		zap.Int64("subtotal", event.Subtotal))

	util.OrderConfirmationsTotal.WithLabelValues("sent").Inc()
	return nil
}
