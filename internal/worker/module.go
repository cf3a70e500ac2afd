package worker

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/ikanmart/internal/config"
)

// Module provides the stock worker pool and ties it to the app lifecycle.
var Module = fx.Options(
	fx.Provide(newPool),
	fx.Invoke(registerLifecycle),
)

func newPool(cfg *config.Config, logger *slog.Logger) *Pool {
	return NewPool(cfg.StockWorkers, logger)
}

func registerLifecycle(lc fx.Lifecycle, pool *Pool) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// The start context ends with OnStart; workers live until OnStop.
			pool.Start(context.WithoutCancel(ctx))
			return nil
		},
		OnStop: func(context.Context) error {
			pool.Stop()
			return nil
		},
	})
}
