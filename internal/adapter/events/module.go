package events

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/ikanmart/internal/config"
	"github.com/polkiloo/ikanmart/internal/usecase"
)

// Module provides the Kafka order event publisher.
var Module = fx.Options(
	fx.Provide(
		newPublisher,
		func(p *Publisher) usecase.EventPublisher { return p },
	),
)

type publisherParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newPublisher(p publisherParams) *Publisher {
	publisher := NewPublisher(p.Config.KafkaBrokers, p.Config.OrderEventsTopic, p.Logger)
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return publisher.Close()
		},
	})
	return publisher
}
