package redisx

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/ikanmart/internal/config"
	"github.com/polkiloo/ikanmart/internal/usecase"
)

// Module provides the Redis backed status cache and idempotency store.
var Module = fx.Options(
	fx.Provide(
		newStore,
		func(s *Store) usecase.StatusCache { return s },
		func(s *Store) usecase.IdempotencyStore { return s },
	),
)

type storeParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newStore(p storeParams) *Store {
	store := New(p.Config.RedisAddress, p.Config.StatusCacheTTL, p.Config.IdempotencyTTL, p.Logger)
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := store.Ping(ctx); err != nil {
				p.Logger.Warn("redis unreachable, continuing without cache", slog.Any("error", err))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return store.Close()
		},
	})
	return store
}
