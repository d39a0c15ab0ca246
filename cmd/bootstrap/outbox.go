package bootstrap

import (
	"context"
	"log/slog"

	"turnos-core/internal/infra/outbox"
	"turnos-core/internal/infra/repository"
	"turnos-core/internal/pkg/clock"
	"turnos-core/internal/pkg/config"
	"turnos-core/internal/usecase/shared"

	"go.uber.org/fx"
)

var OutboxModule = fx.Module("outbox",
	fx.Provide(
		func(logger *slog.Logger) outbox.EventSink {
			return outbox.NewLogSink(logger)
		},
		func(uow shared.UnitOfWork, sink outbox.EventSink, clk clock.Clock, logger *slog.Logger, cfg config.Config) *outbox.Dispatcher {
			return outbox.NewDispatcher(uow, repository.NewNotificationRepository(), sink, clk, logger, cfg.Outbox)
		},
	),
	fx.Invoke(runDispatcher),
)

func runDispatcher(lc fx.Lifecycle, dispatcher *outbox.Dispatcher) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go dispatcher.Run(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})
}
