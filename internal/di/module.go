package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/ikanmart/internal/adapter/events"
	"github.com/polkiloo/ikanmart/internal/adapter/redisx"
	"github.com/polkiloo/ikanmart/internal/app"
	"github.com/polkiloo/ikanmart/internal/config"
	"github.com/polkiloo/ikanmart/internal/logger"
	"github.com/polkiloo/ikanmart/internal/server/http/router"
	"github.com/polkiloo/ikanmart/internal/storage/postgres"
	"github.com/polkiloo/ikanmart/internal/usecase"
	"github.com/polkiloo/ikanmart/internal/worker"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		postgres.Module,
		redisx.Module,
		events.Module,
		worker.Module,
		usecase.Module,
		fx.Provide(
			func(p *worker.Pool) usecase.StockFanout { return p },
			func(s *postgres.Storage) app.HealthChecker { return s },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
