package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"studio-booking/internal/infra/cache"
	"studio-booking/internal/pkg/config"
	"studio-booking/internal/usecase/commands"
	"studio-booking/internal/usecase/queries"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewAvailabilityCache,
	),
)

type AvailabilityCacheResult struct {
	fx.Out

	Reader      queries.AvailabilityCache
	Invalidator commands.AvailabilityInvalidator
}

// NewAvailabilityCache falls back to a no-op cache when REDIS_ADDR is unset.
func NewAvailabilityCache(lc fx.Lifecycle, cfg config.Config) AvailabilityCacheResult {
	if cfg.Redis.Addr == "" {
		slog.Info("availability cache disabled")
		return AvailabilityCacheResult{Reader: cache.Noop{}, Invalidator: cache.Noop{}}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			defer cancel()
			if err := client.Ping(pingCtx).Err(); err != nil {
				return fmt.Errorf("failed to ping redis: %w", err)
			}
			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	c := cache.NewRedisAvailability(client)
	return AvailabilityCacheResult{Reader: c, Invalidator: c}
}
