package bootstrap

import (
	"log/slog"

	"booking-core/internal/handler/middleware"
	"booking-core/internal/pkg/config"

	"go.uber.org/fx"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		NewLogger,
		NewSlogLogger,
	),
)

func NewLogger(cfg config.LogConfig) *middleware.Logger {
	return middleware.NewLogger(cfg)
}

func NewSlogLogger(l *middleware.Logger) *slog.Logger {
	return l.GetSlogLogger()
}
