package components

import (
	"log/slog"

	"booking-core/internal/infra/cache"
	"booking-core/internal/infra/directory"
	"booking-core/internal/infra/identity"
	"booking-core/internal/infra/metrics"
	"booking-core/internal/infra/payment"
	"booking-core/internal/infra/uow"
	"booking-core/internal/pkg/config"
	"booking-core/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	repositoryModule,
	adapterModule,
)

var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		// UnitOfWork builds slot and booking repositories per transaction
		uow.NewPostgresUoW,
		fx.Annotate(
			NewDirectory,
			fx.As(new(shared.ProviderDirectory)),
		),
	),
)

var adapterModule = fx.Module("persistence/adapter",
	fx.Provide(
		fx.Annotate(
			cache.NewRedisHeatmapCache,
			fx.As(new(shared.HeatmapCache)),
		),
		metrics.NewRecorder,
		func(r *metrics.Recorder) shared.Metrics { return r },
		fx.Annotate(
			NewGuestProvisioner,
			fx.As(new(shared.UserProvisioner)),
		),
		fx.Annotate(
			NewRefundPolicies,
			fx.As(new(shared.RefundPolicyProvider)),
		),
		fx.Annotate(
			NewPaymentGateway,
			fx.As(new(shared.PaymentGateway)),
		),
	),
)

func NewDirectory(pool *pgxpool.Pool, logger *slog.Logger) *directory.PostgresDirectory {
	return directory.NewPostgresDirectory(pool, logger)
}

func NewGuestProvisioner(cfg config.Config) *identity.GuestProvisioner {
	return identity.NewGuestProvisioner(cfg.Booking.GuestBookingsEnabled)
}

func NewRefundPolicies(cfg config.Config) (*directory.TierRefundPolicies, error) {
	return directory.NewTierRefundPolicies(cfg.Booking.RefundPolicyTier)
}

func NewPaymentGateway(cfg config.Config, logger *slog.Logger) *payment.StripeGateway {
	if cfg.Stripe.SecretKey == "" {
		logger.Warn("STRIPE_SECRET_KEY is not set; charges will fail")
	}
	return payment.NewStripeGateway(cfg.Stripe.SecretKey, logger)
}
