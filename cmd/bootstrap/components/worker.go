package components

import (
	"studio-booking/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		worker.NewPendingSweeper,
		worker.NewOutboxDispatcher,
	),
	fx.Invoke(registerWorkers),
)

func registerWorkers(lc fx.Lifecycle, sweeper *worker.PendingSweeper, dispatcher *worker.OutboxDispatcher) {
	lc.Append(fx.Hook{OnStart: sweeper.Start, OnStop: sweeper.Stop})
	lc.Append(fx.Hook{OnStart: dispatcher.Start, OnStop: dispatcher.Stop})
}
