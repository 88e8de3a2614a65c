package bootstrap

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/feast-registry/config"
	"github.com/GoSim-25-26J-441/feast-registry/internal/registry/events"
)

// OpenPublisher returns a Redis backed event publisher, or a no-op one when
// REDIS_ADDR is unset. The returned func closes the client.
func OpenPublisher(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) (events.Publisher, func(), error) {
	if !cfg.Enabled() {
		log.Info("change events disabled, REDIS_ADDR not set")
		return events.Nop{}, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, Error.New("redis ping %s: %v", cfg.Addr, err)
	}

	log.Info("publishing change events", zap.String("addr", cfg.Addr), zap.String("channel", cfg.ChannelPrefix))
	return events.NewRedisPublisher(client, cfg.ChannelPrefix), func() { _ = client.Close() }, nil
}
