package bootstrap

import (
	"context"
	"log/slog"

	"studio-booking/internal/infra/broker"
	"studio-booking/internal/pkg/config"
	"studio-booking/internal/usecase/commands"

	"go.uber.org/fx"
)

var BrokerModule = fx.Module("broker",
	fx.Provide(
		NewEventPublisher,
	),
)

func NewEventPublisher(lc fx.Lifecycle, cfg config.Config) (commands.EventPublisher, error) {
	if cfg.Broker.URL == "" {
		slog.Info("message broker disabled, outbox events are logged")
		return broker.LogPublisher{}, nil
	}

	pub, err := broker.NewPublisher(cfg.Broker.URL, cfg.Broker.Exchange)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return pub.Close()
		},
	})
	return pub, nil
}
