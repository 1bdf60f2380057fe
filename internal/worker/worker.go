package worker

import (
	"context"

	"storefront-service/internal/broker"
	"storefront-service/internal/service"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// EventConsumer delivers broker messages to a handler until ctx is done
type EventConsumer interface {
	StartConsuming(ctx context.Context, handler broker.MessageHandler) error
	Close() error
}

// ConfirmationWorker consumes order events and sends confirmations
type ConfirmationWorker struct {
	consumer     EventConsumer
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewConfirmationWorker creates a new confirmation worker
func NewConfirmationWorker(
	consumer EventConsumer,
	confirmations *service.ConfirmationService,
) *ConfirmationWorker {
	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderPlaced(confirmations.HandleOrderPlaced)

	return &ConfirmationWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		logger:       util.GetLogger(),
	}
}

// Start consumes until ctx is cancelled
func (w *ConfirmationWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting confirmation worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop closes the consumer
func (w *ConfirmationWorker) Stop() error {
	w.logger.Info("Stopping confirmation worker")
	return w.consumer.Close()
}
