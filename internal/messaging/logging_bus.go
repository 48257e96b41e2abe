package messaging

import (
	"context"

	"sales_orders/internal/sales"

	"go.uber.org/zap"
)

// LoggingBus publishes events by writing them to the log.
type LoggingBus struct {
	logger *zap.Logger
}

// NewLoggingBus creates a new LoggingBus.
func NewLoggingBus(logger *zap.Logger) *LoggingBus {
	return &LoggingBus{logger: logger}
}

// Publish logs every event of the batch in order.
func (b *LoggingBus) Publish(ctx context.Context, events ...sales.Event) error {
	for _, env := range Wrap(ctx, events) {
		b.logger.Info("publishing event",
			zap.String("event", env.Name),
			zap.String("event_id", env.ID.String()),
			zap.String("correlation_id", env.CorrelationID),
			zap.Time("occurred_at", env.OccurredAt),
			zap.Any("payload", env.Payload),
		)
	}
	return nil
}

var _ sales.Publisher = (*LoggingBus)(nil)
