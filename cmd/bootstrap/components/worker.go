package components

import (
	"context"
	"log/slog"

	"booking-core/internal/pkg/config"
	"booking-core/internal/usecase/commands"
	"booking-core/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		NewHoldWorker,
	),
	fx.Invoke(startHoldWorker),
)

func NewHoldWorker(cfg config.Config, engine commands.AvailabilityEngine, logger *slog.Logger) *worker.HoldWorker {
	return worker.NewHoldWorker(cfg.Redis, cfg.Booking, engine, logger)
}

func startHoldWorker(lc fx.Lifecycle, w *worker.HoldWorker) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return w.Start()
		},
		OnStop: func(_ context.Context) error {
			w.Shutdown()
			return nil
		},
	})
}
