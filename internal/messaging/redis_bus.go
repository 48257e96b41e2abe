package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sales_orders/internal/sales"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// redisPublisher is the part of *goredis.Client the bus needs.
type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *goredis.IntCmd
}

// RedisBus publishes events as JSON envelopes on a Redis pub/sub channel.
type RedisBus struct {
	rdb     redisPublisher
	channel string
	logger  *zap.Logger
}

// RedisOptions configures the Redis connection of a RedisBus.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

// NewRedisBus connects to Redis and verifies the connection with a ping.
func NewRedisBus(ctx context.Context, opts RedisOptions, logger *zap.Logger) (*RedisBus, func() error, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}

	return newRedisBus(rdb, opts.Channel, logger), rdb.Close, nil
}

func newRedisBus(rdb redisPublisher, channel string, logger *zap.Logger) *RedisBus {
	if channel == "" {
		channel = "sales.events"
	}
	return &RedisBus{
		rdb:     rdb,
		channel: channel,
		logger:  logger.With(zap.String("channel", channel)),
	}
}

// Publish encodes the whole batch first and then publishes it in order.
// Nothing is sent when any event fails to encode.
func (b *RedisBus) Publish(ctx context.Context, events ...sales.Event) error {
	envs := Wrap(ctx, events)
	raws := make([][]byte, len(envs))
	for i, env := range envs {
		raw, err := json.Marshal(env)
		if err != nil {
			return fmt.Errorf("encode event %s: %w", env.Name, err)
		}
		raws[i] = raw
	}

	for i, raw := range raws {
		if err := b.rdb.Publish(ctx, b.channel, raw).Err(); err != nil {
			return fmt.Errorf("publish event %s: %w", envs[i].Name, err)
		}
		b.logger.Debug("event published",
			zap.String("event", envs[i].Name),
			zap.String("event_id", envs[i].ID.String()),
		)
	}
	return nil
}

var _ sales.Publisher = (*RedisBus)(nil)
