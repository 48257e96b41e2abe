// Package messaging carries sales integration events to external subscribers.
package messaging

import (
	"context"
	"time"

	"sales_orders/internal/sales"

	"github.com/google/uuid"
)

// Envelope is the wire form of a published event.
type Envelope struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Payload       any       `json:"payload"`
	OccurredAt    time.Time `json:"occurred_at"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

type correlationKey struct{}

// WithCorrelationID returns a context carrying the request correlation id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the correlation id stored in ctx, or "".
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// Wrap turns a batch of events into envelopes, preserving order.
func Wrap(ctx context.Context, events []sales.Event) []Envelope {
	corr := CorrelationID(ctx)
	envs := make([]Envelope, len(events))
	for i, ev := range events {
		envs[i] = Envelope{
			ID:            uuid.New(),
			Name:          ev.Name(),
			Payload:       ev.Payload,
			OccurredAt:    ev.OccurredAt,
			CorrelationID: corr,
		}
	}
	return envs
}
