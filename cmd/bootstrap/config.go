package bootstrap

import (
	"booking-core/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
	),
	ConfigSections,
)

// ConfigSections exposes the sections that constructors take directly.
var ConfigSections = fx.Provide(
	func(cfg config.Config) config.BookingConfig { return cfg.Booking },
	func(cfg config.Config) config.LogConfig { return cfg.Log },
)
