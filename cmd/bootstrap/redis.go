package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"eventhub/internal/infra/ratelimit"
	"eventhub/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RateLimitModule = fx.Module("ratelimit",
	fx.Provide(
		NewLimiter,
	),
)

// NewLimiter shares counters through Redis when REDIS_ADDR is set and falls
// back to per-process buckets otherwise.
func NewLimiter(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (ratelimit.Limiter, error) {
	if cfg.Redis.Addr == "" {
		logger.Info("Using in-process rate limiter", "requests", cfg.RateLimit.Requests, "window", cfg.RateLimit.Window)
		return ratelimit.NewMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := ratelimit.Ping(ctx, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	logger.Info("Using Redis rate limiter", "addr", cfg.Redis.Addr, "requests", cfg.RateLimit.Requests, "window", cfg.RateLimit.Window)
	return ratelimit.NewRedisLimiter(client, cfg.RateLimit.Requests, cfg.RateLimit.Window), nil
}
