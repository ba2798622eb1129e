package components

import (
	"context"

	"booking-core/internal/handler"
	"booking-core/internal/handler/api"
	"booking-core/internal/infra/metrics"
	"booking-core/internal/usecase/commands"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		NewOpsHandler,
	),
	fx.Invoke(handler.NewRouter),
)

func NewOpsHandler(pool *pgxpool.Pool, rdb *redis.Client, engine commands.AvailabilityEngine, recorder *metrics.Recorder) *api.OpsHandler {
	checks := map[string]api.PingFunc{
		"postgres": pool.Ping,
		"redis": func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		},
	}
	return api.NewOpsHandler(checks, engine, recorder.Registry())
}
